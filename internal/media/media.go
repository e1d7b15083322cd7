package media

import (
	"context"
)

// Kind is a media item type.
type Kind string

// Media kinds.
const (
	KindGif     Kind = "gif"
	KindPicture Kind = "picture"
	KindVideo   Kind = "video"
)

// Item is one queued piece of media.
type Item struct {
	ID   string   `json:"id"`
	URL  string   `json:"url"`
	Kind Kind     `json:"kind"`
	Tags []string `json:"tags,omitempty"`
}

// Provider fetches batches of media matching the requested tags and
// kinds. Implementations may return fewer items than limit.
type Provider interface {
	Fetch(ctx context.Context, tags []string, kinds []Kind, limit int) ([]Item, error)
}
