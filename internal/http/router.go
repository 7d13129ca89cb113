// Package httpapi assembles the service's HTTP surface: the middleware
// chain, the open configuration read endpoints, the guarded mutating
// endpoints and the operational probes.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	settingshandler "confgate/internal/settings/handler"
	adminmw "confgate/pkg/platform/middleware/admin"
	metadatamw "confgate/pkg/platform/middleware/metadata"
	requestmw "confgate/pkg/platform/middleware/request"
	requesttimemw "confgate/pkg/platform/middleware/requesttime"
)

// Pinger reports liveness of a catalog backend for the health endpoint.
type Pinger interface {
	Health(ctx context.Context) error
}

// AdminGuard configures authentication of the mutating surface. All fields
// optional; with none set the surface mounts unguarded (development mode).
type AdminGuard struct {
	Token     string
	TokenHash string
	Bearer    adminmw.BearerValidatorFunc
}

func (g AdminGuard) enabled() bool {
	return g.Token != "" || g.TokenHash != "" || g.Bearer != nil
}

// NewRouter builds the chi router. Every request carries a request ID,
// client metadata and a request timestamp before reaching a handler.
func NewRouter(h *settingshandler.Handler, guard AdminGuard, logger *slog.Logger, pingers ...Pinger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestmw.RequestID)
	r.Use(metadatamw.ClientMetadata)
	r.Use(requesttimemw.Middleware)

	h.Register(r)

	r.Group(func(gr chi.Router) {
		if guard.enabled() {
			opts := make([]adminmw.Option, 0, 2)
			if guard.TokenHash != "" {
				opts = append(opts, adminmw.WithTokenHash(guard.TokenHash))
			}
			if guard.Bearer != nil {
				opts = append(opts, adminmw.WithBearerValidator(guard.Bearer))
			}
			gr.Use(adminmw.RequireAdminToken(guard.Token, logger, opts...))
		} else {
			logger.Warn("admin surface is unguarded; configure an admin credential outside development")
		}
		h.RegisterAdmin(gr)
	})

	r.Get("/healthz", handleHealth(pingers))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func handleHealth(pingers []Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		for _, p := range pingers {
			if p == nil {
				continue
			}
			if err := p.Health(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"degraded"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
