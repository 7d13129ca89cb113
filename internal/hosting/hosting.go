// Package hosting owns the resource domain: the isolated execution context
// bound to the current resource-folder value. At most one domain is live per
// process; the manager recreates it lazily after a folder change invalidates
// the previous one.
package hosting

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"confgate/pkg/domain"
	"confgate/pkg/platform/sentinel"
)

// Domain identifies one isolated execution context and the folder it is
// bound to.
type Domain struct {
	ID      domain.DomainID
	Name    string
	Folder  string
	BoundAt time.Time
}

// Name derives the stable display name for a domain identity.
func Name(id domain.DomainID) string {
	return "domain-" + strings.SplitN(id.String(), "-", 2)[0]
}

// Binder applies and removes the side effects of associating a domain with a
// folder (certificate bindings, resource registrations).
type Binder interface {
	// Bind establishes the association. A failure means the domain could not
	// be created; the caller must not treat the domain as live.
	Bind(ctx context.Context, d Domain) error
	// Revoke tears the association down. Called when the folder changes or
	// the domain is dropped.
	Revoke(ctx context.Context, d Domain) error
}

// NoopBinder is a Binder with no side effects, for deployments where the
// folder carries no certificate or resource associations.
type NoopBinder struct{}

func (NoopBinder) Bind(ctx context.Context, d Domain) error   { return nil }
func (NoopBinder) Revoke(ctx context.Context, d Domain) error { return nil }

// FolderBinder requires the resource folder to exist as a directory before a
// domain may bind to it. Failures wrap sentinel.ErrUnavailable; the manager
// translates them for callers.
type FolderBinder struct{}

func (FolderBinder) Bind(ctx context.Context, d Domain) error {
	info, err := os.Stat(d.Folder)
	if err != nil {
		return fmt.Errorf("resource folder %q is not accessible: %w", d.Folder, sentinel.ErrUnavailable)
	}
	if !info.IsDir() {
		return fmt.Errorf("resource folder %q is not a directory: %w", d.Folder, sentinel.ErrUnavailable)
	}
	return nil
}

func (FolderBinder) Revoke(ctx context.Context, d Domain) error { return nil }
