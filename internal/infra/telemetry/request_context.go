package telemetry

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type requestContextKey struct{}

// NewRequestID returns a fresh correlation ID for one tool invocation.
func NewRequestID() string {
	return uuid.NewString()
}

// WithRequestID attaches a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestContextKey{}, requestID)
}

// RequestIDFromContext extracts the attached request ID, if any.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestContextKey{}).(string)
	return id, ok && id != ""
}

// EnsureRequestID returns a context that carries a request ID, minting one
// when absent.
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	if id, ok := RequestIDFromContext(ctx); ok {
		return ctx, id
	}
	id := NewRequestID()
	return WithRequestID(ctx, id), id
}

// LoggerWithRequest decorates the logger with the context's request ID.
func LoggerWithRequest(ctx context.Context, base *zap.Logger) *zap.Logger {
	logger := base
	if logger == nil {
		logger = zap.NewNop()
	}
	if id, ok := RequestIDFromContext(ctx); ok {
		return logger.With(zap.String("request_id", id))
	}
	return logger
}
