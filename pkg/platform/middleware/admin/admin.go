// Package admin guards mutating endpoints. Callers authenticate with the
// deployment's static admin token (plaintext or bcrypt-hashed) or with a
// short-lived operator bearer token.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	request "confgate/pkg/platform/middleware/request"
	"confgate/pkg/platform/secrets"
)

// BearerValidatorFunc checks an operator bearer token. A nil error grants
// admin access.
type BearerValidatorFunc func(token string) error

// Option configures the middleware.
type Option func(*guard)

// WithBearerValidator enables Authorization: Bearer tokens as an alternative
// to the static admin token.
func WithBearerValidator(fn BearerValidatorFunc) Option {
	return func(g *guard) {
		g.bearer = fn
	}
}

// WithTokenHash verifies X-Admin-Token against a bcrypt hash so deployments
// never have to store the plaintext token. Takes precedence over the
// plaintext comparison.
func WithTokenHash(hash string) Option {
	return func(g *guard) {
		g.tokenHash = hash
	}
}

type guard struct {
	token     string
	tokenHash string
	bearer    BearerValidatorFunc
	logger    *slog.Logger
}

// RequireAdminToken rejects requests that present neither a matching
// X-Admin-Token header nor a valid operator bearer token.
func RequireAdminToken(expectedToken string, logger *slog.Logger, opts ...Option) func(http.Handler) http.Handler {
	g := &guard{token: expectedToken, logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.authorize(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			g.logger.WarnContext(ctx, "admin token mismatch",
				"request_id", request.GetRequestID(ctx),
			)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
		})
	}
}

func (g *guard) authorize(r *http.Request) bool {
	if token := r.Header.Get("X-Admin-Token"); token != "" {
		if g.tokenHash != "" {
			return secrets.Verify(token, g.tokenHash) == nil
		}
		// Use constant-time comparison to prevent timing attacks
		if g.token != "" {
			return subtle.ConstantTimeCompare([]byte(token), []byte(g.token)) == 1
		}
	}

	if g.bearer != nil {
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			return g.bearer(strings.TrimPrefix(auth, "Bearer ")) == nil
		}
	}

	return false
}
