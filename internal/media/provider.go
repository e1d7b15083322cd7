package media

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// HTTPProvider fetches media from a JSON endpoint. The endpoint takes
// tags, types and limit query parameters and returns an array of items.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProvider builds a provider over the given endpoint.
func NewHTTPProvider(baseURL string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch requests one batch from the endpoint.
func (p *HTTPProvider) Fetch(ctx context.Context, tags []string, kinds []Kind, limit int) ([]Item, error) {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("media: parse provider url: %w", err)
	}

	q := u.Query()
	if len(tags) > 0 {
		q.Set("tags", strings.Join(tags, ","))
	}
	if len(kinds) > 0 {
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = string(k)
		}
		q.Set("types", strings.Join(names, ","))
	}
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media: provider returned %s", resp.Status)
	}

	var items []Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("media: decode response: %w", err)
	}
	return items, nil
}

// StaticProvider serves from a fixed list, cycling through it in batch
// sized slices. Used when no provider URL is configured, and in tests.
type StaticProvider struct {
	items []Item
	pos   int
}

// NewStaticProvider builds a provider over a fixed item list.
func NewStaticProvider(items []Item) *StaticProvider {
	return &StaticProvider{items: items}
}

// Fetch returns the next limit items, wrapping around at the end.
func (p *StaticProvider) Fetch(_ context.Context, _ []string, kinds []Kind, limit int) ([]Item, error) {
	if len(p.items) == 0 || limit <= 0 {
		return nil, nil
	}

	allowed := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		allowed[k] = true
	}

	var out []Item
	for scanned := 0; len(out) < limit && scanned < len(p.items); scanned++ {
		item := p.items[p.pos%len(p.items)]
		p.pos++
		if len(allowed) > 0 && !allowed[item.Kind] {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
