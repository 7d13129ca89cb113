package audit

import (
	"context"

	"confgate/pkg/domain"
)

// Sink receives journal entries. Split from Store so fan-out targets
// (message brokers, log shippers) only implement the write side.
type Sink interface {
	Append(ctx context.Context, e Event) error
}

// Store persists journal entries and serves reads. Implementations must be
// safe for concurrent use. Find returns sentinel.ErrNotFound (wrapped) when
// the entry does not exist.
type Store interface {
	Sink
	// List returns up to limit entries, newest first. A non-positive limit
	// returns everything retained.
	List(ctx context.Context, limit int) ([]Event, error)
	Find(ctx context.Context, id domain.ChangeID) (Event, error)
}
