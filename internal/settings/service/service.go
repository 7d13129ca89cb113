// Package service implements the configuration gateway: the process-wide
// owner of the mutable configuration value. All updates funnel through one
// lock so that building, publishing, notifying and domain rebinding form a
// single serialized transition; reads stay lock-free against the last
// published snapshot.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"confgate/internal/audit"
	"confgate/internal/hosting"
	"confgate/internal/platform/metrics"
	"confgate/internal/settings/models"
	"confgate/pkg/attrs"
	dErrors "confgate/pkg/domain-errors"
	"confgate/pkg/requestcontext"
)

// Notifier dispatches typed change notifications between two snapshots.
type Notifier interface {
	NotifyIfChanged(ctx context.Context, old, new *models.Snapshot) error
}

// DomainManager owns the live resource domain. Its methods are not
// goroutine-safe; the gateway calls them only while holding the
// configuration lock.
type DomainManager interface {
	Current(ctx context.Context, folder string) (hosting.Domain, error)
	Invalidate(ctx context.Context, oldFolder, newFolder string) error
	Unbind(ctx context.Context) (hosting.Domain, bool, error)
	Peek() (hosting.Domain, bool)
}

// TypeCatalog lists the resource type names available to a bound domain.
type TypeCatalog interface {
	ListTypes(ctx context.Context, d hosting.Domain) ([]string, error)
}

// AuditPublisher records configuration and domain lifecycle events.
type AuditPublisher interface {
	Emit(ctx context.Context, e audit.Event) error
}

// UpdateResult describes an accepted configuration update. Types and Domain
// are populated only when the resource folder changed and the new domain was
// established.
type UpdateResult struct {
	Snapshot      *models.Snapshot
	FolderChanged bool
	Types         []string
	Domain        hosting.Domain
}

// Gateway serializes configuration updates and owns the published snapshot.
type Gateway struct {
	mu sync.Mutex

	current      atomic.Pointer[models.Snapshot]
	lastActivity atomic.Int64

	notifier Notifier
	domains  DomainManager
	catalog  TypeCatalog

	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	tracer         trace.Tracer
}

var _ hosting.ActivitySource = (*Gateway)(nil)

// Option configures a Gateway.
type Option func(g *Gateway)

// WithLogger sets the logger for update and rollback transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithMetrics enables update, rejection and rollback counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) {
		g.metrics = m
	}
}

// WithAuditPublisher enables journal entries for configuration and domain
// lifecycle actions.
func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(g *Gateway) {
		g.auditPublisher = publisher
	}
}

// WithTracer overrides the tracer used for update spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(g *Gateway) {
		if tracer != nil {
			g.tracer = tracer
		}
	}
}

// NewGateway constructs a Gateway holding the initial snapshot. The initial
// value counts as activity, so the idle watchdog measures from process start.
func NewGateway(initial *models.Snapshot, notifier Notifier, domains DomainManager, catalog TypeCatalog, opts ...Option) (*Gateway, error) {
	if initial == nil {
		return nil, fmt.Errorf("initial snapshot is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if domains == nil {
		return nil, fmt.Errorf("domain manager is required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("type catalog is required")
	}

	g := &Gateway{
		notifier: notifier,
		domains:  domains,
		catalog:  catalog,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:   otel.Tracer("confgate/settings"),
	}
	g.current.Store(initial)
	g.touch()
	for _, opt := range opts {
		opt(g)
	}
	g.setIdleTimeout(initial)
	return g, nil
}

// Update applies a flat override map as one serialized transition:
// build the next snapshot, publish it, notify listeners, and rebind the
// resource domain when the folder changed. A validation failure rejects the
// update before anything is published. A domain failure after publication
// rolls the snapshot back and reports the configuration as unchanged.
func (g *Gateway) Update(ctx context.Context, req *models.UpdateRequest) (*UpdateResult, error) {
	ctx, span := g.tracer.Start(ctx, "settings.update")
	defer span.End()
	started := time.Now()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, g.reject(ctx, span, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	old := g.current.Load()
	next, err := models.BuildFrom(old, req.Overrides)
	if err != nil {
		return nil, g.reject(ctx, span, err)
	}

	g.current.Store(next)
	g.touch()
	g.setIdleTimeout(next)

	// Listener failures are isolated: the published snapshot stands and the
	// remaining listeners have already been offered the change.
	if err := g.notifier.NotifyIfChanged(ctx, old, next); err != nil {
		g.logger.ErrorContext(ctx, "change listeners failed",
			"error", err,
		)
		g.incrementListenerFailures()
		g.logAudit(ctx, audit.ActionListenerFailed, err.Error(), nil)
	}

	result := &UpdateResult{
		Snapshot:      next,
		FolderChanged: !models.FolderEqual(old.Folder(), next.Folder()),
	}
	span.SetAttributes(attribute.Bool("folder_changed", result.FolderChanged))

	if result.FolderChanged {
		prev, hadDomain := g.domains.Peek()
		if err := g.domains.Invalidate(ctx, old.Folder(), next.Folder()); err != nil {
			// The previous identity is discarded regardless; a revoke failure
			// must not block the replacement domain.
			g.logger.ErrorContext(ctx, "failed to revoke previous resource domain",
				"error", err,
			)
		} else if hadDomain {
			g.logAudit(ctx, audit.ActionDomainRevoked, "folder changed", nil,
				"domain", prev.Name,
				"folder", prev.Folder,
			)
		}

		d, err := g.domains.Current(ctx, next.Folder())
		if err != nil {
			g.incrementDomainBindFailures()
			return nil, g.rollback(ctx, span, old, next, err)
		}
		g.incrementDomainBinds()

		types, err := g.catalog.ListTypes(ctx, d)
		if err != nil {
			return nil, g.rollback(ctx, span, old, next,
				dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list resource types"))
		}

		result.Domain = d
		result.Types = types
		g.logAudit(ctx, audit.ActionDomainBound, "", nil,
			"domain", d.Name,
			"folder", d.Folder,
		)
	}

	g.logAudit(ctx, audit.ActionConfigUpdated, "",
		audit.DiffFlatMaps(old.ToFlatMap(), next.ToFlatMap()),
		"folder", next.Folder(),
	)
	g.incrementConfigUpdates()
	g.observeUpdateDuration(float64(time.Since(started)) / float64(time.Millisecond))

	return result, nil
}

// Read returns the current snapshot without taking the configuration lock.
// Snapshots are immutable, so the pointer load is the entire read path.
func (g *Gateway) Read() *models.Snapshot {
	return g.current.Load()
}

// Domain returns the live resource domain, binding one lazily to the current
// folder when unset (after an idle drop, or before the first access).
func (g *Gateway) Domain(ctx context.Context) (hosting.Domain, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.touch()

	_, wasBound := g.domains.Peek()
	d, err := g.domains.Current(ctx, g.current.Load().Folder())
	if err != nil {
		g.incrementDomainBindFailures()
		return hosting.Domain{}, err
	}
	if !wasBound {
		g.incrementDomainBinds()
		g.logAudit(ctx, audit.ActionDomainBound, "", nil,
			"domain", d.Name,
			"folder", d.Folder,
		)
	}
	return d, nil
}

// LastActivity reports when the configuration was last updated or its domain
// last accessed.
func (g *Gateway) LastActivity() time.Time {
	return time.Unix(0, g.lastActivity.Load())
}

// ReapIdleDomain drops the live domain once activity has been quiet past the
// configured maximum idle duration. Idleness is re-checked under the lock: an
// update may have landed after the watchdog sampled LastActivity.
func (g *Gateway) ReapIdleDomain(ctx context.Context, idleFor time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	maxIdle := time.Duration(g.current.Load().Idle())
	if maxIdle <= 0 || time.Since(g.LastActivity()) < maxIdle {
		return false, nil
	}

	d, dropped, err := g.domains.Unbind(ctx)
	if err != nil {
		return dropped, err
	}
	if !dropped {
		return false, nil
	}

	g.incrementIdleDomainDrops()
	g.logAudit(ctx, audit.ActionDomainReaped, fmt.Sprintf("idle for %s", idleFor), nil,
		"domain", d.Name,
		"folder", d.Folder,
	)
	return true, nil
}

// reject refuses an update before publication. The current snapshot is
// untouched.
func (g *Gateway) reject(ctx context.Context, span trace.Span, err error) error {
	g.incrementConfigRejections()
	g.logAudit(ctx, audit.ActionConfigRejected, err.Error(), nil)
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
	return err
}

// rollback restores the previous snapshot after a domain failure. The reverse
// notification is best-effort: listeners that observed the failed value must
// be offered the restored one, but their failures cannot undo the rollback.
func (g *Gateway) rollback(ctx context.Context, span trace.Span, old, next *models.Snapshot, cause error) error {
	g.current.Store(old)
	g.setIdleTimeout(old)

	if err := g.domains.Invalidate(ctx, next.Folder(), old.Folder()); err != nil {
		g.logger.ErrorContext(ctx, "failed to discard resource domain during rollback",
			"error", err,
		)
	}
	if err := g.notifier.NotifyIfChanged(ctx, next, old); err != nil {
		g.logger.ErrorContext(ctx, "change listeners failed during rollback",
			"error", err,
		)
		g.incrementListenerFailures()
	}

	g.logger.WarnContext(ctx, "configuration rolled back",
		"folder", next.Folder(),
		"restored_folder", old.Folder(),
		"error", cause,
	)
	g.incrementConfigRollbacks()
	g.logAudit(ctx, audit.ActionConfigRolledBack, cause.Error(),
		audit.DiffFlatMaps(next.ToFlatMap(), old.ToFlatMap()),
		"folder", next.Folder(),
	)
	span.SetStatus(codes.Error, cause.Error())
	span.RecordError(cause)
	return cause
}

func (g *Gateway) touch() {
	g.lastActivity.Store(time.Now().UnixNano())
}

func (g *Gateway) logAudit(ctx context.Context, action audit.Action, reason string, changes []audit.FieldChange, attributes ...any) {
	// Add request_id from context if available
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "action", string(action), "log_type", "audit")
	g.logger.InfoContext(ctx, string(action), args...)

	if g.auditPublisher == nil {
		return
	}
	_ = g.auditPublisher.Emit(ctx, audit.Event{
		Action:     action,
		Reason:     reason,
		Changes:    changes,
		DomainName: attrs.ExtractString(attributes, "domain"),
		Folder:     attrs.ExtractString(attributes, "folder"),
	})
}

func (g *Gateway) incrementConfigUpdates() {
	if g.metrics != nil {
		g.metrics.IncrementConfigUpdates()
	}
}

func (g *Gateway) incrementConfigRejections() {
	if g.metrics != nil {
		g.metrics.IncrementConfigRejections()
	}
}

func (g *Gateway) incrementConfigRollbacks() {
	if g.metrics != nil {
		g.metrics.IncrementConfigRollbacks()
	}
}

func (g *Gateway) incrementListenerFailures() {
	if g.metrics != nil {
		g.metrics.IncrementListenerFailures()
	}
}

func (g *Gateway) incrementDomainBinds() {
	if g.metrics != nil {
		g.metrics.IncrementDomainBinds()
	}
}

func (g *Gateway) incrementDomainBindFailures() {
	if g.metrics != nil {
		g.metrics.IncrementDomainBindFailures()
	}
}

func (g *Gateway) incrementIdleDomainDrops() {
	if g.metrics != nil {
		g.metrics.IncrementIdleDomainDrops()
	}
}

func (g *Gateway) setIdleTimeout(s *models.Snapshot) {
	if g.metrics != nil {
		g.metrics.SetIdleTimeout(time.Duration(s.Idle()).Seconds())
	}
}

func (g *Gateway) observeUpdateDuration(ms float64) {
	if g.metrics != nil {
		g.metrics.ObserveUpdateDuration(ms)
	}
}
