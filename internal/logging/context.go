package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey struct{}

// WithLogger attaches l to ctx.
func WithLogger(ctx context.Context, l *zerolog.Logger) context.Context {
	if l == nil {
		l = Default()
	}
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger attached to ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if l, ok := ctx.Value(contextKey{}).(*zerolog.Logger); ok && l != nil {
		return l
	}
	return Default()
}

// WithRunID tags the context logger with the id of the current run.
func WithRunID(ctx context.Context, runID string) context.Context {
	l := FromContext(ctx).With().Str("run_id", runID).Logger()
	return WithLogger(ctx, &l)
}
