package testutil

import (
	"net/http"
	"time"

	"confgate/pkg/requestcontext"
)

// WithRequestID stamps a request ID on the request context, simulating what
// the request middleware does in production.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	ctx := requestcontext.WithRequestID(req.Context(), requestID)
	return req.WithContext(ctx)
}

// WithClientMetadata stamps client IP and User-Agent on the request context,
// simulating the metadata middleware.
func WithClientMetadata(req *http.Request, ip, userAgent string) *http.Request {
	ctx := requestcontext.WithClientMetadata(req.Context(), ip, userAgent)
	return req.WithContext(ctx)
}

// WithRequestTime pins the request timestamp so assertions on journaled
// events stay deterministic.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	ctx := requestcontext.WithTime(req.Context(), t)
	return req.WithContext(ctx)
}
