package globeclock

import (
	"log/slog"

	"github.com/gogpu/gg"

	"github.com/gogpu/globeclock/assets"
	"github.com/gogpu/globeclock/internal/compositor"
	"github.com/gogpu/globeclock/internal/logging"
	"github.com/gogpu/globeclock/internal/render"
)

var logger logging.Ref

// SetLogger configures the logger for globeclock, its sub-packages and the
// gg rasterizer. By default nothing is logged. Pass nil to restore the
// silent default.
//
// SetLogger is safe for concurrent use.
//
// Log levels used:
//   - [slog.LevelDebug]: skipped frames, config lookup
//   - [slog.LevelInfo]: surface configuration, asset origin
//   - [slog.LevelWarn]: surface loss recovery, texture downscaling
//
// Example:
//
//	globeclock.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logger.Store(l)
	l = logger.Load()

	render.SetLogger(l)
	compositor.SetLogger(l)
	assets.SetLogger(l)
	gg.SetLogger(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return logger.Load()
}
