// Package request assigns every request a correlation ID. Incoming
// X-Request-ID headers are honored so IDs survive proxy hops; otherwise a
// fresh UUID is generated. The ID is echoed on the response and stored in the
// context for log correlation.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"confgate/pkg/requestcontext"
)

// HeaderRequestID is the header carrying the correlation ID.
const HeaderRequestID = "X-Request-ID"

// RequestID middleware ensures the context carries a request ID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(HeaderRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
