// Package logging holds the silent-by-default logger shared by globeclock's
// packages. Each package keeps its own Ref so the root package can fan a
// single SetLogger call out without import cycles.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var nop = slog.New(nopHandler{})

// Nop returns a logger that discards everything.
func Nop() *slog.Logger { return nop }

// Ref is an atomically swappable logger. The zero value logs nothing.
type Ref struct {
	p atomic.Pointer[slog.Logger]
}

// Load returns the current logger.
func (r *Ref) Load() *slog.Logger {
	if l := r.p.Load(); l != nil {
		return l
	}
	return nop
}

// Store replaces the logger. nil restores the silent default.
func (r *Ref) Store(l *slog.Logger) {
	if l == nil {
		l = nop
	}
	r.p.Store(l)
}
