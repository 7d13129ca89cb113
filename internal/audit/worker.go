package audit

import (
	"context"
	"fmt"
	"log/slog"
)

// Worker consumes journal events from a channel and hands them to a sink,
// so emitters never block on storage while holding the configuration lock.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) (*Worker, error) {
	if sink == nil {
		return nil, fmt.Errorf("sink is required")
	}
	if inbox == nil {
		return nil, fmt.Errorf("inbox is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Worker{sink: sink, inbox: inbox, logger: logger}, nil
}

// Run drains the inbox until the context is cancelled. A failed append is
// logged and skipped; one bad event must not halt the journal.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to persist audit event",
					"error", err,
					"action", string(event.Action),
					"change_id", event.ID.String(),
				)
			}
		}
	}
}

// QueuePublisher enriches events and hands them to a Worker through a
// bounded queue. Emit never blocks: when the queue is full the event is
// dropped and logged, so a slow journal cannot stall configuration
// updates.
type QueuePublisher struct {
	inbox  chan<- Event
	logger *slog.Logger
}

func NewQueuePublisher(inbox chan<- Event, logger *slog.Logger) (*QueuePublisher, error) {
	if inbox == nil {
		return nil, fmt.Errorf("inbox is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &QueuePublisher{inbox: inbox, logger: logger}, nil
}

// Emit enriches the event from the request context and enqueues it.
// Enrichment happens here because context values are gone by the time
// the worker runs.
func (p *QueuePublisher) Emit(ctx context.Context, e Event) error {
	enrich(ctx, &e)
	select {
	case p.inbox <- e:
	default:
		p.logger.WarnContext(ctx, "audit queue full, dropping event",
			"action", string(e.Action),
			"change_id", e.ID.String(),
		)
	}
	return nil
}
