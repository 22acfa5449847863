// Package compositor drives one frame at a time: it refreshes the
// time-dependent layers, acquires a surface frame, records every layer into a
// single command buffer in a fixed order, submits and presents.
//
// Surface trouble is absorbed here. A lost surface is reconfigured and
// acquisition retried once within the same redraw; timeouts and outdated
// surfaces skip the frame. Any other acquisition error is returned wrapped
// in ErrSurfaceAcquire and is fatal to the caller.
package compositor

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/globeclock/internal/logging"
)

// ErrSurfaceAcquire wraps unrecoverable frame acquisition errors.
var ErrSurfaceAcquire = errors.New("compositor: cannot acquire surface frame")

var logger logging.Ref

// SetLogger updates the package logger. Called by globeclock.SetLogger.
func SetLogger(l *slog.Logger) { logger.Store(l) }

// Layer is one compositing stage. Draw records its own render pass into enc
// targeting view.
type Layer interface {
	Name() string
	Draw(enc *wgpu.CommandEncoder, view *wgpu.TextureView) error
}

// TimeDriven is implemented by layers whose parameters follow the clock.
type TimeDriven interface {
	Update(now time.Time)
}

// Frame is an acquired drawable image.
type Frame interface {
	View() *wgpu.TextureView
	// Suboptimal reports that the surface still works but should be
	// reconfigured.
	Suboptimal() bool
	Present() error
	Discard()
}

// Surface is the presentable surface. Acquire reports wgpu.ErrSurfaceLost,
// wgpu.ErrSurfaceOutdated and wgpu.ErrTimeout as such.
type Surface interface {
	Configure(width, height uint32) error
	Unconfigure()
	Acquire() (Frame, error)
}

// Resizer follows the framebuffer size. Resize is called whenever the
// surface is configured for a size different from the previous one.
type Resizer interface {
	Resize(width, height int) error
}

// Submitter creates a command encoder, lets record fill it, then finishes
// and submits it.
type Submitter interface {
	Submit(label string, record func(enc *wgpu.CommandEncoder) error) error
}

// State is the surface configuration state.
type State int

const (
	Unconfigured State = iota
	Configured
)

func (s State) String() string {
	if s == Configured {
		return "configured"
	}
	return "unconfigured"
}

// Compositor owns the frame sequence and the surface lifecycle.
// It is not safe for concurrent use; one goroutine drives every redraw.
type Compositor struct {
	surface   Surface
	submitter Submitter
	window    gpucontext.WindowProvider
	layers    []Layer
	resizers  []Resizer

	state         State
	width, height uint32
}

// New returns a compositor drawing layers in the given order. The surface is
// sized to the window's logical size times its scale factor.
func New(surface Surface, submitter Submitter, window gpucontext.WindowProvider, layers ...Layer) *Compositor {
	return &Compositor{
		surface:   surface,
		submitter: submitter,
		window:    window,
		layers:    layers,
	}
}

// Layers returns the draw order.
func (c *Compositor) Layers() []Layer {
	out := make([]Layer, len(c.layers))
	copy(out, c.layers)
	return out
}

// OnResize registers r to follow every surface size change, including the
// ones Redraw discovers by polling the window.
func (c *Compositor) OnResize(r Resizer) {
	c.resizers = append(c.resizers, r)
}

// State returns the current surface state.
func (c *Compositor) State() State { return c.state }

// Resize reconfigures the surface for the new framebuffer size.
func (c *Compositor) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		// Minimized; keep the old configuration until a real size arrives.
		return nil
	}
	return c.configure(uint32(width), uint32(height))
}

// Redraw renders one frame for now. Transient surface conditions return nil.
func (c *Compositor) Redraw(now time.Time) error {
	w, h := c.framebufferSize()
	if w <= 0 || h <= 0 {
		logger.Load().Debug("redraw skipped: zero-area window")
		return nil
	}

	for _, l := range c.layers {
		if td, ok := l.(TimeDriven); ok {
			td.Update(now)
		}
	}

	if c.state == Unconfigured || c.width != uint32(w) || c.height != uint32(h) {
		if err := c.configure(uint32(w), uint32(h)); err != nil {
			return err
		}
	}

	frame, err := c.acquire()
	if err != nil || frame == nil {
		return err
	}

	err = c.submitter.Submit("globeclock_frame", func(enc *wgpu.CommandEncoder) error {
		view := frame.View()
		for _, l := range c.layers {
			if err := l.Draw(enc, view); err != nil {
				return fmt.Errorf("draw %s: %w", l.Name(), err)
			}
		}
		return nil
	})
	if err != nil {
		frame.Discard()
		return err
	}
	if err := frame.Present(); err != nil {
		return fmt.Errorf("present frame: %w", err)
	}
	if frame.Suboptimal() {
		// Pick up the new swapchain parameters on the next redraw.
		c.state = Unconfigured
	}
	return nil
}

// framebufferSize returns the window size in physical pixels.
func (c *Compositor) framebufferSize() (int, int) {
	w, h := c.window.Size()
	sf := c.window.ScaleFactor()
	if sf <= 0 {
		sf = 1
	}
	return int(math.Round(float64(w) * sf)), int(math.Round(float64(h) * sf))
}

func (c *Compositor) configure(width, height uint32) error {
	if err := c.surface.Configure(width, height); err != nil {
		c.state = Unconfigured
		return fmt.Errorf("configure surface %dx%d: %w", width, height, err)
	}
	c.state = Configured
	changed := c.width != width || c.height != height
	c.width, c.height = width, height
	logger.Load().Info("surface configured", "width", width, "height", height)
	if !changed {
		return nil
	}
	for _, r := range c.resizers {
		if err := r.Resize(int(width), int(height)); err != nil {
			// Forget the size so the next redraw notifies again.
			c.state = Unconfigured
			c.width, c.height = 0, 0
			return fmt.Errorf("resize to %dx%d: %w", width, height, err)
		}
	}
	return nil
}

// acquire returns a frame, or nil and nil when this redraw should be skipped.
func (c *Compositor) acquire() (Frame, error) {
	frame, err := c.surface.Acquire()
	if err == nil {
		return frame, nil
	}
	if !errors.Is(err, wgpu.ErrSurfaceLost) {
		return nil, c.classify(err)
	}

	logger.Load().Warn("surface lost, reconfiguring", "width", c.width, "height", c.height)
	c.surface.Unconfigure()
	c.state = Unconfigured
	if err := c.configure(c.width, c.height); err != nil {
		return nil, err
	}

	frame, err = c.surface.Acquire()
	if err == nil {
		return frame, nil
	}
	if errors.Is(err, wgpu.ErrSurfaceLost) {
		// One retry per redraw; the next trigger starts over.
		logger.Load().Warn("surface lost again after reconfigure, skipping frame")
		c.surface.Unconfigure()
		c.state = Unconfigured
		return nil, nil
	}
	return nil, c.classify(err)
}

// classify turns a non-lost acquisition error into nil (skip) or a fatal error.
func (c *Compositor) classify(err error) error {
	switch {
	case errors.Is(err, wgpu.ErrTimeout):
		logger.Load().Debug("surface acquire timed out, skipping frame")
		return nil
	case errors.Is(err, wgpu.ErrSurfaceOutdated):
		logger.Load().Debug("surface outdated, skipping frame")
		c.state = Unconfigured
		return nil
	default:
		return fmt.Errorf("%w: %w", ErrSurfaceAcquire, err)
	}
}
