package observability

import (
	"context"
	"log/slog"
)

// loggerContextKey is the private context key used to store a *slog.Logger.
type loggerContextKey struct{}

// jobIDContextKey is the private context key used to store the job id of
// the delivery currently being processed, so log lines emitted deep inside
// a handler (or the executor) can be correlated back to the originating job.
type jobIDContextKey struct{}

// ContextWithLogger attaches a non-nil logger to the context.
func ContextWithLogger(ctx context.Context, lg *slog.Logger) context.Context {
	if ctx == nil || lg == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, lg)
}

// LoggerFromContext returns the logger stored in the context or the default
// slog logger when none is present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if v := ctx.Value(loggerContextKey{}); v != nil {
		if lg, ok := v.(*slog.Logger); ok && lg != nil {
			return lg
		}
	}
	return slog.Default()
}

// ContextWithJobID stores a non-empty job id in the context so that
// downstream layers (a job's Perform method, broker adapters) can
// correlate their logs with the delivery being handled.
func ContextWithJobID(ctx context.Context, jobID string) context.Context {
	if ctx == nil || jobID == "" {
		return ctx
	}
	return context.WithValue(ctx, jobIDContextKey{}, jobID)
}

// JobIDFromContext retrieves the job id from the context, or an empty
// string when none is present.
func JobIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v := ctx.Value(jobIDContextKey{}); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
