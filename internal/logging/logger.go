// Package logging defines the small structured-logging interface used by the
// asconnect client and CLI. The default implementation wraps log/slog.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// key-value pairs, e.g.:
//
//	log.Info(ctx, "registered build", "build_id", id)
type Logger interface {
	// Debug logs request-level detail, such as outgoing HTTP calls.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs progress through a submission.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}
