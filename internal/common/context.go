package common

import (
	"context"
)

// RequestContext is the per-request principal and selection state. It is built once
// at the HTTP boundary and passed explicitly to services.
type RequestContext struct {
	UserID    int64
	Role      string
	BranchID  *int64
	RequestID string
}

// Authenticated reports whether a positive principal id was resolved.
func (rc RequestContext) Authenticated() bool {
	return rc.UserID > 0
}

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRequestID contextKey = "request_id"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}
