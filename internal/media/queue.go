package media

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"pacer/internal/config"
	"pacer/pkg/logger"
)

// Queue holds the slideshow. It refills itself from the provider when
// the remaining items fall to the prefetch threshold, deduplicates by
// URL for the life of the queue, and shuffles each incoming batch.
type Queue struct {
	mu       sync.Mutex
	provider Provider
	rng      *rand.Rand

	tags      []string
	kinds     []Kind
	batchSize int
	threshold int

	items    []Item
	pos      int
	seen     map[string]bool
	fetching bool
}

// NewQueue builds an empty queue from the media configuration.
func NewQueue(cfg config.MediaConfig, provider Provider, rng *rand.Rand) *Queue {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var kinds []Kind
	if cfg.Types.Gifs {
		kinds = append(kinds, KindGif)
	}
	if cfg.Types.Pictures {
		kinds = append(kinds, KindPicture)
	}
	if cfg.Types.Videos {
		kinds = append(kinds, KindVideo)
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 20
	}
	threshold := cfg.PrefetchThreshold
	if threshold < 0 {
		threshold = 0
	}

	return &Queue{
		provider:  provider,
		rng:       rng,
		tags:      cfg.Tags,
		kinds:     kinds,
		batchSize: batch,
		threshold: threshold,
		seen:      make(map[string]bool),
	}
}

// Prime fetches the first batch synchronously so the session never
// starts on an empty screen.
func (q *Queue) Prime(ctx context.Context) error {
	items, err := q.provider.Fetch(ctx, q.tags, q.kinds, q.batchSize)
	if err != nil {
		return err
	}
	q.mu.Lock()
	q.enqueueLocked(items)
	q.mu.Unlock()
	return nil
}

// Current returns the item on screen.
func (q *Queue) Current() (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pos >= len(q.items) {
		return Item{}, false
	}
	return q.items[q.pos], true
}

// Advance moves to the next item, kicking off a background refill when
// the remainder runs low. At the end of the queue it stays on the last
// item until a refill lands.
func (q *Queue) Advance() {
	q.mu.Lock()
	if q.pos < len(q.items)-1 {
		q.pos++
	}
	remaining := len(q.items) - q.pos - 1
	needFetch := remaining <= q.threshold && !q.fetching
	if needFetch {
		q.fetching = true
	}
	q.mu.Unlock()

	if needFetch {
		go q.refill()
	}
}

// GoBack returns to the previous item. At the head of the queue it
// stays put.
func (q *Queue) GoBack() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pos > 0 {
		q.pos--
	}
}

func (q *Queue) refill() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	items, err := q.provider.Fetch(ctx, q.tags, q.kinds, q.batchSize)

	q.mu.Lock()
	defer q.mu.Unlock()
	q.fetching = false
	if err != nil {
		logger.Warn().Err(err).Msg("media refill failed")
		return
	}
	q.enqueueLocked(items)
}

// enqueueLocked filters, deduplicates and shuffles a batch before
// appending it.
func (q *Queue) enqueueLocked(items []Item) {
	var fresh []Item
	for _, item := range items {
		key := item.URL
		if key == "" {
			key = item.ID
		}
		if key == "" || q.seen[key] {
			continue
		}
		q.seen[key] = true
		fresh = append(fresh, item)
	}

	q.rng.Shuffle(len(fresh), func(i, j int) {
		fresh[i], fresh[j] = fresh[j], fresh[i]
	})
	q.items = append(q.items, fresh...)
}

// Len reports how many items remain from the current position on.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pos >= len(q.items) {
		return 0
	}
	return len(q.items) - q.pos
}

// Upcoming returns up to n items past the current one.
func (q *Queue) Upcoming(n int) []Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	start := q.pos + 1
	if start >= len(q.items) {
		return nil
	}
	end := start + n
	if end > len(q.items) {
		end = len(q.items)
	}
	out := make([]Item, end-start)
	copy(out, q.items[start:end])
	return out
}
