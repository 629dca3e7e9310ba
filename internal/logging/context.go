package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

// WithLogger attaches logger to ctx under charmbracelet/log's own context
// key, so log.FromContext sees it too.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	return log.WithContext(ctx, logger)
}

// FromContext returns the logger attached to ctx, falling back to Default
// rather than to the log package's default.
func FromContext(ctx context.Context) *log.Logger {
	if logger, ok := ctx.Value(log.ContextKey).(*log.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithFields derives a logger that adds keyvals to every entry.
func WithFields(ctx context.Context, keyvals ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(keyvals...))
}
