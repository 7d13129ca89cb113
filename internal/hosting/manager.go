package hosting

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"confgate/pkg/domain"
	dErrors "confgate/pkg/domain-errors"
)

// Manager is the process-wide owner of the current domain identity. It is a
// two-state machine: unset (no live domain) and bound. First read binds
// lazily; a folder change moves it back to unset so the next read rebinds.
//
// The manager does no locking of its own. Every method must run under the
// gateway's configuration lock, which is what keeps a lazy bind from racing
// a concurrent configuration change.
type Manager struct {
	binder Binder
	logger *slog.Logger

	current *Domain
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger for bind and revoke transitions.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager constructs an unset Manager.
func NewManager(binder Binder, opts ...ManagerOption) (*Manager, error) {
	if binder == nil {
		return nil, fmt.Errorf("binder is required")
	}
	m := &Manager{
		binder: binder,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Current returns the live domain, binding a fresh one to the given folder
// when unset. Callers must hold the configuration lock.
func (m *Manager) Current(ctx context.Context, folder string) (Domain, error) {
	if m.current != nil {
		return *m.current, nil
	}

	id := domain.NewDomainID()
	d := Domain{
		ID:      id,
		Name:    Name(id),
		Folder:  folder,
		BoundAt: time.Now(),
	}
	if err := m.binder.Bind(ctx, d); err != nil {
		return Domain{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to bind resource domain")
	}

	m.current = &d
	m.logger.InfoContext(ctx, "resource domain bound",
		"domain", d.Name,
		"folder", d.Folder,
	)
	return d, nil
}

// Invalidate handles a resource-folder change: it revokes the previous
// domain's association and leaves the manager unset so the next read binds
// to the new folder. A revoke failure is reported but the old identity is
// discarded regardless; keeping a half-revoked domain live would be worse.
// Callers must hold the configuration lock.
func (m *Manager) Invalidate(ctx context.Context, oldFolder, newFolder string) error {
	if m.current == nil {
		return nil
	}

	d := *m.current
	m.current = nil
	m.logger.InfoContext(ctx, "resource domain invalidated",
		"domain", d.Name,
		"old_folder", oldFolder,
		"new_folder", newFolder,
	)

	if err := m.binder.Revoke(ctx, d); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke resource domain "+d.Name)
	}
	return nil
}

// Unbind tears down the live domain without a folder change, as when the
// idle watchdog drops it. Reports whether a domain was bound. Callers must
// hold the configuration lock.
func (m *Manager) Unbind(ctx context.Context) (Domain, bool, error) {
	if m.current == nil {
		return Domain{}, false, nil
	}

	d := *m.current
	m.current = nil
	m.logger.InfoContext(ctx, "resource domain unbound",
		"domain", d.Name,
		"folder", d.Folder,
	)

	if err := m.binder.Revoke(ctx, d); err != nil {
		return d, true, dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke resource domain "+d.Name)
	}
	return d, true, nil
}

// Peek reports the live domain without binding one.
func (m *Manager) Peek() (Domain, bool) {
	if m.current == nil {
		return Domain{}, false
	}
	return *m.current, true
}
