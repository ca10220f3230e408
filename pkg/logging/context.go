package logging

import (
	"context"

	"go.uber.org/zap"
)

type contextKey struct{}

var loggerCtxKey = contextKey{}

// FromContext extracts the logger attached to the context, falling back to
// the global logger. Safe to call with a nil context.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return zap.L()
	}
	if logger, ok := ctx.Value(loggerCtxKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.L()
}

// WithLogger returns a new context carrying the logger.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerCtxKey, logger)
}
