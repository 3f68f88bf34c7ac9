package voice

import "context"

type Repository interface {
	Create(ctx context.Context, e *Event) error
	// ListRecent returns the newest events first.
	ListRecent(ctx context.Context, limit int) ([]*Event, error)
}
