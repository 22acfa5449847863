package compositor

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// ErrNoSurfaceFormat is returned when the platform offers no surface format.
var ErrNoSurfaceFormat = errors.New("compositor: surface offers no texture formats")

// ChooseFormat picks the first sRGB format, falling back to the first one
// offered.
func ChooseFormat(formats []gputypes.TextureFormat) (gputypes.TextureFormat, error) {
	if len(formats) == 0 {
		return gputypes.TextureFormatUndefined, ErrNoSurfaceFormat
	}
	for _, f := range formats {
		if f.IsSrgb() {
			return f, nil
		}
	}
	return formats[0], nil
}

// ChooseAlphaMode prefers an opaque surface; the globe window has no
// transparency.
func ChooseAlphaMode(modes []gputypes.CompositeAlphaMode) gputypes.CompositeAlphaMode {
	for _, m := range modes {
		if m == gputypes.CompositeAlphaModeOpaque {
			return m
		}
	}
	if len(modes) > 0 {
		return modes[0]
	}
	return gputypes.CompositeAlphaModeAuto
}

// WGPUSurface adapts a wgpu surface to Surface. Presentation is always FIFO.
type WGPUSurface struct {
	surface   *wgpu.Surface
	device    *wgpu.Device
	format    gputypes.TextureFormat
	alphaMode gputypes.CompositeAlphaMode
}

// NewWGPUSurface wraps surface for rendering with device in format.
func NewWGPUSurface(surface *wgpu.Surface, device *wgpu.Device, format gputypes.TextureFormat,
	alphaMode gputypes.CompositeAlphaMode,
) *WGPUSurface {
	return &WGPUSurface{surface: surface, device: device, format: format, alphaMode: alphaMode}
}

// Configure implements Surface.
func (s *WGPUSurface) Configure(width, height uint32) error {
	return s.surface.Configure(s.device, &wgpu.SurfaceConfiguration{
		Width:       width,
		Height:      height,
		Format:      s.format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: gputypes.PresentModeFifo,
		AlphaMode:   s.alphaMode,
	})
}

// Unconfigure implements Surface.
func (s *WGPUSurface) Unconfigure() { s.surface.Unconfigure() }

// Acquire implements Surface.
func (s *WGPUSurface) Acquire() (Frame, error) {
	tex, suboptimal, err := s.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		s.surface.DiscardTexture()
		return nil, fmt.Errorf("create frame view: %w", err)
	}
	return &wgpuFrame{surface: s.surface, texture: tex, view: view, suboptimal: suboptimal}, nil
}

type wgpuFrame struct {
	surface    *wgpu.Surface
	texture    *wgpu.SurfaceTexture
	view       *wgpu.TextureView
	suboptimal bool
}

func (f *wgpuFrame) View() *wgpu.TextureView { return f.view }
func (f *wgpuFrame) Suboptimal() bool        { return f.suboptimal }

func (f *wgpuFrame) Present() error {
	defer f.view.Release()
	return f.surface.Present(f.texture)
}

func (f *wgpuFrame) Discard() {
	f.view.Release()
	f.surface.DiscardTexture()
}

// QueueSubmitter records into a fresh encoder and submits to a queue.
type QueueSubmitter struct {
	device *wgpu.Device
	queue  *wgpu.Queue
}

// NewQueueSubmitter returns a Submitter for device's queue.
func NewQueueSubmitter(device *wgpu.Device, queue *wgpu.Queue) *QueueSubmitter {
	return &QueueSubmitter{device: device, queue: queue}
}

// Submit implements Submitter.
func (q *QueueSubmitter) Submit(label string, record func(enc *wgpu.CommandEncoder) error) error {
	enc, err := q.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := record(enc); err != nil {
		enc.DiscardEncoding()
		return err
	}
	cb, err := enc.Finish()
	if err != nil {
		return fmt.Errorf("finish %s: %w", label, err)
	}
	if _, err := q.queue.Submit(cb); err != nil {
		cb.Release()
		return fmt.Errorf("submit %s: %w", label, err)
	}
	return nil
}
