package render

import (
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// ErrNilContext is returned when a layer is built without a usable device.
var ErrNilContext = errors.New("render: graphics context has no device or queue")

// GraphicsContext bundles the device, queue, presentable surface and surface
// format shared by every layer. It is never mutated after construction.
type GraphicsContext struct {
	adapter *wgpu.Adapter
	device  *wgpu.Device
	queue   *wgpu.Queue
	surface *wgpu.Surface
	format  gputypes.TextureFormat
}

var _ gpucontext.DeviceProvider = (*GraphicsContext)(nil)

// NewGraphicsContext wraps an acquired device. adapter and surface may be
// nil for offscreen use (tests).
func NewGraphicsContext(adapter *wgpu.Adapter, device *wgpu.Device, surface *wgpu.Surface, format gputypes.TextureFormat) (*GraphicsContext, error) {
	if device == nil || device.Queue() == nil {
		return nil, ErrNilContext
	}
	return &GraphicsContext{
		adapter: adapter,
		device:  device,
		queue:   device.Queue(),
		surface: surface,
		format:  format,
	}, nil
}

// GPUDevice returns the typed device.
func (g *GraphicsContext) GPUDevice() *wgpu.Device { return g.device }

// GPUQueue returns the typed queue.
func (g *GraphicsContext) GPUQueue() *wgpu.Queue { return g.queue }

// Surface returns the presentable surface, or nil when offscreen.
func (g *GraphicsContext) Surface() *wgpu.Surface { return g.surface }

// Format returns the render target format every pipeline is built for.
func (g *GraphicsContext) Format() gputypes.TextureFormat { return g.format }

// MaxTextureDimension returns the device limit for 2D textures.
func (g *GraphicsContext) MaxTextureDimension() int {
	return int(g.device.Limits().MaxTextureDimension2D)
}

// Device implements gpucontext.DeviceProvider.
func (g *GraphicsContext) Device() gpucontext.Device { return g.device }

// Queue implements gpucontext.DeviceProvider.
func (g *GraphicsContext) Queue() gpucontext.Queue { return g.queue }

// SurfaceFormat implements gpucontext.DeviceProvider.
func (g *GraphicsContext) SurfaceFormat() gputypes.TextureFormat { return g.format }

// Adapter implements gpucontext.DeviceProvider.
func (g *GraphicsContext) Adapter() gpucontext.Adapter {
	if g.adapter == nil {
		return nil
	}
	return g.adapter
}

// AdapterInfo implements gpucontext.DeviceProvider.
func (g *GraphicsContext) AdapterInfo() gpucontext.AdapterInfo {
	if g.adapter == nil {
		return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
	}
	info := g.adapter.Info()
	return gpucontext.AdapterInfo{Name: info.Name, Type: adapterType(info.DeviceType)}
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}
