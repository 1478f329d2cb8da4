package testutil

import (
	"context"
	"net/http"

	"github.com/D00256764/u-vote-sub002/internal/platform/middleware"
)

// WithActorID adds a service actor to the request context.
// This simulates what the service-auth middleware does for operator requests.
func WithActorID(req *http.Request, actorID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyActorID, actorID)
	return req.WithContext(ctx)
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyRequestID, requestID)
	return req.WithContext(ctx)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
