package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// Projection returns the aspect-preserving projection for a w×h target.
// The shorter axis maps [-1, 1] exactly; the longer one is scaled down so
// square content is letterboxed rather than stretched. A degenerate size
// yields the identity.
func Projection(w, h int) mgl32.Mat4 {
	if w <= 0 || h <= 0 {
		return mgl32.Ident4()
	}
	s := float32(min(w, h))
	return mgl32.Scale3D(s/float32(w), s/float32(h), 1)
}

// Viewport owns the projection uniform shared by the globe and clock face.
// It is recomputed only when the window size changes.
type Viewport struct {
	gc *GraphicsContext

	width, height int
	projection    mgl32.Mat4

	buffer    *wgpu.Buffer
	layout    *wgpu.BindGroupLayout
	bindGroup *wgpu.BindGroup
}

// NewViewport creates the projection uniform for a w×h target.
func NewViewport(gc *GraphicsContext, w, h int) (*Viewport, error) {
	if gc == nil {
		return nil, ErrNilContext
	}
	v := &Viewport{gc: gc}

	var err error
	v.layout, err = gc.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "viewport_layout",
		Entries: []gputypes.BindGroupLayoutEntry{uniformEntry(0, gputypes.ShaderStageVertex)},
	})
	if err != nil {
		return nil, fmt.Errorf("create viewport layout: %w", err)
	}

	v.buffer, err = gc.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "viewport_uniform",
		Size:  mat4Size,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		v.Destroy()
		return nil, fmt.Errorf("create viewport buffer: %w", err)
	}

	v.bindGroup, err = gc.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "viewport_bind_group",
		Layout:  v.layout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: v.buffer, Size: mat4Size}},
	})
	if err != nil {
		v.Destroy()
		return nil, fmt.Errorf("create viewport bind group: %w", err)
	}

	if err := v.WindowResized(w, h); err != nil {
		v.Destroy()
		return nil, err
	}
	return v, nil
}

// WindowResized recomputes the projection for the new size and uploads it.
func (v *Viewport) WindowResized(w, h int) error {
	v.width, v.height = w, h
	v.projection = Projection(w, h)
	if err := v.gc.queue.WriteBuffer(v.buffer, 0, mat4Bytes(v.projection)); err != nil {
		return fmt.Errorf("upload viewport projection: %w", err)
	}
	slogger().Debug("viewport resized", "width", w, "height", h,
		"scale_x", v.projection.At(0, 0), "scale_y", v.projection.At(1, 1))
	return nil
}

// Resize implements compositor.Resizer.
func (v *Viewport) Resize(w, h int) error { return v.WindowResized(w, h) }

// Projection returns the current projection matrix.
func (v *Viewport) Projection() mgl32.Mat4 { return v.projection }

// Size returns the size the projection was last computed for.
func (v *Viewport) Size() (w, h int) { return v.width, v.height }

// BindGroup returns the group bound at index 0 by the quad layers.
func (v *Viewport) BindGroup() *wgpu.BindGroup { return v.bindGroup }

// BindGroupLayout returns the layout of BindGroup.
func (v *Viewport) BindGroupLayout() *wgpu.BindGroupLayout { return v.layout }

// Destroy releases the viewport's GPU resources.
func (v *Viewport) Destroy() {
	if v.bindGroup != nil {
		v.bindGroup.Release()
		v.bindGroup = nil
	}
	if v.buffer != nil {
		v.buffer.Release()
		v.buffer = nil
	}
	if v.layout != nil {
		v.layout.Release()
		v.layout = nil
	}
}
