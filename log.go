package ctpool

import (
	"log/slog"
	"sync/atomic"
)

// logger holds the package-level *slog.Logger behind an atomic.Pointer so
// SetLogger can be called concurrently with ThreadPool operations.
var logger atomic.Pointer[slog.Logger]

// SetLogger replaces the package-level logger used by ctpool to report
// recovered task panics. The provided logger is used as given: it should
// already carry any attributes the caller wants attached, since this package
// adds none to it (the "component" attribute belongs to the default logger
// only).
//
// If l is nil, the logger resets to slog.Default() with a "component"
// attribute, re-derived on the next log call.
//
// SetLogger is safe to call concurrently with other ctpool operations.
func SetLogger(l *slog.Logger) {
	if l == nil {
		logger.Store(nil)
		return
	}
	logger.Store(l)
}

// log returns the active logger, deriving the default lazily so that a
// SetLogger(nil) call picks up any later slog.SetDefault change.
func log() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default().With("component", "ctpool")
}
