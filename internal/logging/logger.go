// Package logging defines the structured, context-aware logger used by the
// sealdrop client and the key-release server. The only implementation wraps
// log/slog; components receive a Logger by injection and narrow it with
// With("module", ...).
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "blob stored", "blob_id", id, "bytes", n)
type Logger interface {
	// Debug logs diagnostic details such as request URLs and chunk counts.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a non-fatal condition, e.g. a registry query that degraded
	// to an empty result.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
