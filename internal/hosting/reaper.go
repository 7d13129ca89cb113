package hosting

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"
)

// ActivitySource is the gateway surface the idle watchdog drives: when the
// configuration has been idle past the maximum idle duration, the live
// domain is dropped and rebinds lazily on the next access.
type ActivitySource interface {
	LastActivity() time.Time
	ReapIdleDomain(ctx context.Context, idleFor time.Duration) (bool, error)
}

// DefaultReapInterval is how often the reaper checks for idleness when no
// interval is configured.
const DefaultReapInterval = 15 * time.Second

// Reaper periodically drops the resource domain once activity has been quiet
// for longer than the configured maximum idle duration. The duration is
// retuned at runtime through SetIdle, wired as an idle-change listener.
type Reaper struct {
	source   ActivitySource
	interval time.Duration
	logger   *slog.Logger

	idle atomic.Int64
}

// NewReaper constructs a Reaper. An initial idle of zero disables reaping
// until SetIdle raises it. Interval zero selects DefaultReapInterval.
func NewReaper(source ActivitySource, idle, interval time.Duration, logger *slog.Logger) (*Reaper, error) {
	if source == nil {
		return nil, fmt.Errorf("activity source is required")
	}
	if interval <= 0 {
		interval = DefaultReapInterval
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Reaper{source: source, interval: interval, logger: logger}
	r.idle.Store(int64(idle))
	return r, nil
}

// SetIdle retunes the maximum idle duration. Zero disables reaping.
func (r *Reaper) SetIdle(d time.Duration) {
	r.idle.Store(int64(d))
}

// Idle returns the currently configured maximum idle duration.
func (r *Reaper) Idle() time.Duration {
	return time.Duration(r.idle.Load())
}

// Run checks idleness on every tick until the context is cancelled.
func (r *Reaper) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	idle := r.Idle()
	if idle <= 0 {
		return
	}
	idleFor := time.Since(r.source.LastActivity())
	if idleFor < idle {
		return
	}

	dropped, err := r.source.ReapIdleDomain(ctx, idleFor)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to reap idle resource domain",
			"idle_for", idleFor.String(),
			"error", err,
		)
		return
	}
	if dropped {
		r.logger.InfoContext(ctx, "idle resource domain dropped",
			"idle_for", idleFor.String(),
			"max_idle", idle.String(),
		)
	}
}
