package render

import (
	"log/slog"

	"github.com/gogpu/globeclock/internal/logging"
)

var logger logging.Ref

// slogger returns the current package logger.
func slogger() *slog.Logger { return logger.Load() }

// SetLogger updates the package logger. Called by globeclock.SetLogger.
func SetLogger(l *slog.Logger) { logger.Store(l) }
