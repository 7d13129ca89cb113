// Package handler exposes the configuration gateway over HTTP. Handlers stay
// thin: decoding, response shaping and status mapping live here, every rule
// lives in the service.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"confgate/internal/audit"
	"confgate/internal/hosting"
	"confgate/internal/settings/models"
	"confgate/internal/settings/service"
	"confgate/pkg/domain"
	dErrors "confgate/pkg/domain-errors"
	"confgate/pkg/platform/httputil"
	"confgate/pkg/platform/sentinel"
	"confgate/pkg/requestcontext"
)

const (
	defaultChangeLimit = 50
	maxChangeLimit     = 500
)

// Gateway is the configuration surface the handler drives.
type Gateway interface {
	Update(ctx context.Context, req *models.UpdateRequest) (*service.UpdateResult, error)
	Read() *models.Snapshot
	Domain(ctx context.Context) (hosting.Domain, error)
}

// Journal serves reads of recorded configuration changes.
type Journal interface {
	List(ctx context.Context, limit int) ([]audit.Event, error)
	Find(ctx context.Context, id domain.ChangeID) (audit.Event, error)
}

// Handler wires configuration endpoints to the gateway.
type Handler struct {
	gateway Gateway
	journal Journal
	logger  *slog.Logger
}

// New constructs a configuration handler with its dependencies.
func New(gateway Gateway, journal Journal, logger *slog.Logger) *Handler {
	return &Handler{
		gateway: gateway,
		journal: journal,
		logger:  logger,
	}
}

// Register mounts the read surface on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/config", h.HandleRead)
	r.Get("/config/domain", h.HandleDomain)
}

// RegisterAdmin mounts the mutating and journal surface. Callers guard the
// router group with the admin middleware when a token is configured.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/config", h.HandleUpdate)
	r.Get("/config/changes", h.HandleListChanges)
	r.Get("/config/changes/{changeID}", h.HandleGetChange)
}

// HandleUpdate handles POST /config requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	var overrides map[string]string
	if err := json.NewDecoder(r.Body).Decode(&overrides); err != nil {
		h.logger.WarnContext(ctx, "failed to decode override map",
			"request_id", requestID,
			"error", err,
		)
		http.Error(w, "invalid request body: expected a flat JSON object of strings", http.StatusBadRequest)
		return
	}

	result, err := h.gateway.Update(ctx, &models.UpdateRequest{Overrides: overrides})
	if err != nil {
		h.writeUpdateError(ctx, w, requestID, err)
		return
	}

	h.logger.InfoContext(ctx, "configuration updated",
		"request_id", requestID,
		"folder_changed", result.FolderChanged,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if !result.FolderChanged {
		w.WriteHeader(http.StatusOK)
		return
	}
	types := result.Types
	if types == nil {
		types = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, models.TypesResponse{Types: types})
}

// writeUpdateError maps update failures onto the documented surface: rejected
// values answer as plain text so callers see the reason verbatim, a failed
// domain rebind answers 503 with the previous configuration still in force.
func (h *Handler) writeUpdateError(ctx context.Context, w http.ResponseWriter, requestID string, err error) {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput, dErrors.CodeValidation:
		h.logger.WarnContext(ctx, "configuration update rejected",
			"request_id", requestID,
			"error", err,
		)
		http.Error(w, dErrors.MessageOf(err), http.StatusBadRequest)
	case dErrors.CodeUnavailable:
		h.logger.ErrorContext(ctx, "configuration update failed, previous configuration retained",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteJSON(w, http.StatusServiceUnavailable, models.UnavailableResponse{
			Error:   "domain_unavailable",
			Message: dErrors.MessageOf(err),
		})
	default:
		h.logger.ErrorContext(ctx, "configuration update failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
	}
}

// HandleRead handles GET /config requests. The read is lock-free against the
// published snapshot.
func (h *Handler) HandleRead(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.gateway.Read().ToFlatMap())
}

// HandleDomain handles GET /config/domain requests, binding the domain
// lazily when none is live.
func (h *Handler) HandleDomain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	d, err := h.gateway.Domain(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to resolve resource domain",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromDomain(d))
}

// HandleListChanges handles GET /config/changes requests.
func (h *Handler) HandleListChanges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultChangeLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be a positive integer"))
			return
		}
		limit = min(n, maxChangeLimit)
	}

	events, err := h.journal.List(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list configuration changes",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list configuration changes"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEvents(events))
}

// HandleGetChange handles GET /config/changes/{changeID} requests.
func (h *Handler) HandleGetChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseChangeID(chi.URLParam(r, "changeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	e, err := h.journal.Find(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "change not found"))
			return
		}
		h.logger.ErrorContext(ctx, "failed to load configuration change",
			"request_id", requestcontext.RequestID(ctx),
			"change_id", id,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load configuration change"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEvent(e))
}
