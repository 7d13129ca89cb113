package audit

import (
	"context"
	"fmt"

	"github.com/mssola/useragent"

	"confgate/pkg/domain"
	"confgate/pkg/requestcontext"
)

// Publisher enriches change events with request metadata and appends them
// to the journal. Emit is synchronous: when it returns nil the event is
// readable through the journal endpoints.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) (*Publisher, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	return &Publisher{store: store}, nil
}

// Emit fills in identity, timing and client metadata the caller left
// empty, then appends the event.
func (p *Publisher) Emit(ctx context.Context, e Event) error {
	enrich(ctx, &e)
	if err := p.store.Append(ctx, e); err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}
	return nil
}

// List returns the most recent events, newest first.
func (p *Publisher) List(ctx context.Context, limit int) ([]Event, error) {
	return p.store.List(ctx, limit)
}

// Find returns the event with the given change ID.
func (p *Publisher) Find(ctx context.Context, id domain.ChangeID) (Event, error) {
	return p.store.Find(ctx, id)
}

// enrich populates defaults from the request context. Events emitted from
// background work carry no client metadata and keep those fields empty.
func enrich(ctx context.Context, e *Event) {
	if e.ID.IsNil() {
		e.ID = domain.NewChangeID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = requestcontext.Now(ctx)
	}
	e.Timestamp = e.Timestamp.UTC()
	if e.RequestID == "" {
		e.RequestID = requestcontext.RequestID(ctx)
	}
	if e.ClientIP == "" {
		e.ClientIP = requestcontext.ClientIP(ctx)
	}
	if e.UserAgent == "" {
		e.UserAgent = requestcontext.UserAgent(ctx)
	}
	if e.UserAgent != "" && e.Browser == "" {
		ua := useragent.New(e.UserAgent)
		name, version := ua.Browser()
		e.Browser = name
		if name != "" && version != "" {
			e.Browser = name + " " + version
		}
		e.OS = ua.OS()
	}
}
