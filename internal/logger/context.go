package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ContextWithLogger stores a logger in the context.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts a logger from the context.
// Returns zap.NewNop() if no logger is found.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// WithDataset returns a context whose logger tags every entry with the dataset and its index.
func WithDataset(ctx context.Context, dataset, index string) context.Context {
	return ContextWithLogger(ctx, FromContext(ctx).With(
		zap.String("dataset", dataset),
		zap.String("index", index),
	))
}
