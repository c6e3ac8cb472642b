package ggvideo

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the package-wide logger used by players created
// without WithLogger. By default ggvideo produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore the silent
// default. Players pick up the logger when they are created.
//
// Log levels used by ggvideo:
//   - [slog.LevelDebug]: loop start and stop, presentation path details
//   - [slog.LevelInfo]: end of stream, backend selection
//   - [slog.LevelWarn]: texture creation failures, direct-surface fallback
//   - [slog.LevelError]: pipeline errors, rate-limited per-frame failures
//
// Example:
//
//	ggvideo.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current package-wide logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
