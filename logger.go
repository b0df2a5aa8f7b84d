package swdraw

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

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger shared by swdraw and its sub-packages.
// Pass nil to restore the default silent logger.
//
// Log levels used:
//   - [slog.LevelDebug]: per-frame diagnostics (strip partitioning, light counts)
//   - [slog.LevelInfo]: lifecycle events (table rebuilds, drawer selection, asset loads)
//   - [slog.LevelWarn]: recoverable problems (bad config reload, skipped assets)
//
// The per-pixel drawer loops never log.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages call this so they share one
// configuration without import cycles.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
