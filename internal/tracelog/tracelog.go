// Package tracelog carries the same ambient tracing the original
// elaborator threads through with log::trace! (context.rs, unify.rs):
// a package-level logger, silent unless a caller opts in, that traces
// context mutations and unification attempts at debug level.
package tracelog

import (
	"context"
	"io"
	"log/slog"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// SetOutput redirects tracing to the given slog handler, for callers
// that want to observe elaboration tracing (e.g. in a test or a
// future CLI driver). Until SetOutput is called, tracing is discarded.
func SetOutput(h slog.Handler) {
	logger = slog.New(h)
}

// Trace logs msg at debug level with the given key/value pairs,
// mirroring a single log::trace! call site.
func Trace(msg string, args ...any) {
	logger.Log(context.Background(), slog.LevelDebug, msg, args...)
}
