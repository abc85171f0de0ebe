// Package requestcontext carries per-request values through context.
// Handlers set them once at the edge; services and stores read them without
// threading extra parameters through every call.
package requestcontext

import (
	"context"
	"time"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	requestTimeKey
)

// WithRequestID stores the request ID in context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request ID from context, or "" when absent.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithNow pins the request time in context so every read within one request
// observes the same instant.
func WithNow(ctx context.Context, now time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, now)
}

// Now returns the pinned request time, falling back to the wall clock when
// no request time was set (background jobs, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey).(time.Time); ok {
		return t
	}
	return time.Now()
}
