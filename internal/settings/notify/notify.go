// Package notify implements the typed change-dispatch registry for
// configuration updates.
//
// Listeners register per attribute kind and fire only when that attribute's
// value differs between the old and new snapshots. Dispatch is synchronous
// and runs while the gateway still holds the configuration lock, so
// listeners observe a consistent world and may touch shared resources
// without races. The flip side: a listener that blocks stalls every future
// configuration change.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"confgate/internal/settings/models"
	"confgate/pkg/domain"
	dErrors "confgate/pkg/domain-errors"
)

// FolderListener receives (old, new) when the resource-folder path changes.
type FolderListener func(ctx context.Context, old, new string) error

// IdleListener receives (old, new) when the idle duration changes.
type IdleListener func(ctx context.Context, old, new models.Duration) error

type folderEntry struct {
	id domain.ListenerID
	fn FolderListener
}

type idleEntry struct {
	id domain.ListenerID
	fn IdleListener
}

// Notifier holds the per-attribute listener lists. Listeners are invoked in
// registration order; a failing listener is isolated so the rest of the
// round still runs, and all failures come back joined to the caller.
type Notifier struct {
	logger *slog.Logger

	mu     sync.Mutex
	folder []folderEntry
	idle   []idleEntry
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithLogger sets the logger used to report isolated listener failures.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// New constructs an empty notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// OnFolderChange registers a listener for resource-folder changes and
// returns the handle needed to remove it.
func (n *Notifier) OnFolderChange(fn FolderListener) (domain.ListenerID, error) {
	if fn == nil {
		return domain.ListenerID{}, dErrors.New(dErrors.CodeInvalidInput, "listener is required")
	}
	id := domain.NewListenerID()
	n.mu.Lock()
	n.folder = append(n.folder, folderEntry{id: id, fn: fn})
	n.mu.Unlock()
	return id, nil
}

// OnIdleChange registers a listener for idle-duration changes and returns
// the handle needed to remove it.
func (n *Notifier) OnIdleChange(fn IdleListener) (domain.ListenerID, error) {
	if fn == nil {
		return domain.ListenerID{}, dErrors.New(dErrors.CodeInvalidInput, "listener is required")
	}
	id := domain.NewListenerID()
	n.mu.Lock()
	n.idle = append(n.idle, idleEntry{id: id, fn: fn})
	n.mu.Unlock()
	return id, nil
}

// Remove deregisters a listener by handle. Reports whether a registration
// was found.
func (n *Notifier) Remove(id domain.ListenerID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, e := range n.folder {
		if e.id == id {
			n.folder = append(n.folder[:i], n.folder[i+1:]...)
			return true
		}
	}
	for i, e := range n.idle {
		if e.id == id {
			n.idle = append(n.idle[:i], n.idle[i+1:]...)
			return true
		}
	}
	return false
}

// NotifyIfChanged diffs the two snapshots per attribute and dispatches each
// changed attribute to its listener list. Folder listeners run before idle
// listeners; within a kind, registration order holds. The returned error
// joins every listener failure in the round; a non-nil return does not mean
// dispatch stopped early.
func (n *Notifier) NotifyIfChanged(ctx context.Context, old, new *models.Snapshot) error {
	if old == nil || new == nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "snapshots are required")
	}

	// Copy the lists so a listener that registers or removes listeners
	// cannot corrupt the round.
	n.mu.Lock()
	folder := make([]folderEntry, len(n.folder))
	copy(folder, n.folder)
	idle := make([]idleEntry, len(n.idle))
	copy(idle, n.idle)
	n.mu.Unlock()

	var failures []error

	if !models.FolderEqual(old.Folder(), new.Folder()) {
		for _, e := range folder {
			if err := call(func() error { return e.fn(ctx, old.Folder(), new.Folder()) }); err != nil {
				n.logger.ErrorContext(ctx, "folder listener failed",
					"listener_id", e.id.String(),
					"error", err,
				)
				failures = append(failures, dErrors.Wrap(err, dErrors.CodeInternal, "folder listener "+e.id.String()))
			}
		}
	}

	if old.Idle() != new.Idle() {
		for _, e := range idle {
			if err := call(func() error { return e.fn(ctx, old.Idle(), new.Idle()) }); err != nil {
				n.logger.ErrorContext(ctx, "idle listener failed",
					"listener_id", e.id.String(),
					"error", err,
				)
				failures = append(failures, dErrors.Wrap(err, dErrors.CodeInternal, "idle listener "+e.id.String()))
			}
		}
	}

	return errors.Join(failures...)
}

// call invokes one listener, converting a panic into an error. Dispatch runs
// inside the configuration lock; a panicking listener must not unwind
// through the gateway's critical section.
func call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panicked: %v", r)
		}
	}()
	return fn()
}
