package render

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/globeclock/internal/clockface"
	"github.com/gogpu/globeclock/internal/timeparam"
)

// ClockFace re-rasterizes the clock on the CPU every frame, uploads the whole
// image and draws it over the scene with premultiplied alpha.
type ClockFace struct {
	gc       *GraphicsContext
	viewport *Viewport
	quad     *Quad
	raster   *clockface.Rasterizer

	hands timeparam.Hands

	pipe      *quadPipeline
	sampler   *wgpu.Sampler
	face      *texture
	bindGroup *wgpu.BindGroup
}

// NewClockFace builds the clock pipeline and a texture sized to raster.
func NewClockFace(gc *GraphicsContext, vp *Viewport, quad *Quad, shader string,
	raster *clockface.Rasterizer,
) (*ClockFace, error) {
	if gc == nil {
		return nil, ErrNilContext
	}
	c := &ClockFace{gc: gc, viewport: vp, quad: quad, raster: raster}
	if err := c.createResources(shader); err != nil {
		c.Destroy()
		return nil, err
	}
	return c, nil
}

func (c *ClockFace) createResources(shader string) error {
	var err error
	c.pipe, err = newQuadPipeline(c.gc, "clock_face", shader, c.viewport.BindGroupLayout(),
		[]gputypes.BindGroupLayoutEntry{samplerEntry(1), textureEntry(2)},
		gputypes.BlendStatePremultiplied(),
	)
	if err != nil {
		return err
	}
	if c.sampler, err = newLinearSampler(c.gc, "clock_face_sampler"); err != nil {
		return err
	}
	size := c.raster.Size()
	if c.face, err = newTexture(c.gc, "clock_face", size, size); err != nil {
		return err
	}

	c.bindGroup, err = c.gc.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "clock_face_bind_group",
		Layout: c.pipe.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 1, Sampler: c.sampler},
			{Binding: 2, TextureView: c.face.view},
		},
	})
	if err != nil {
		return fmt.Errorf("create clock face bind group: %w", err)
	}
	return nil
}

// Name implements compositor.Layer.
func (c *ClockFace) Name() string { return "clock_face" }

// SetTime stores the hand angles for t. Drawing happens in Draw.
func (c *ClockFace) SetTime(t time.Time) { c.hands = timeparam.HandsAt(t) }

// Update implements compositor.TimeDriven.
func (c *ClockFace) Update(now time.Time) { c.SetTime(now) }

// Hands returns the angles the next Draw will render.
func (c *ClockFace) Hands() timeparam.Hands { return c.hands }

// Draw rasterizes the face, uploads it and composites it over target.
func (c *ClockFace) Draw(enc *wgpu.CommandEncoder, target *wgpu.TextureView) error {
	pix, err := c.raster.Rasterize(c.hands.Hour, c.hands.Minute)
	if err != nil {
		return fmt.Errorf("rasterize clock face: %w", err)
	}
	if err := c.face.write(c.gc, pix); err != nil {
		return fmt.Errorf("upload clock face: %w", err)
	}

	pass, err := beginPass(enc, "clock_face", target, gputypes.LoadOpLoad, gputypes.Color{})
	if err != nil {
		return err
	}
	pass.SetPipeline(c.pipe.pipeline)
	pass.SetBindGroup(0, c.viewport.BindGroup(), nil)
	pass.SetBindGroup(1, c.bindGroup, nil)
	c.quad.draw(pass)
	if err := pass.End(); err != nil {
		return fmt.Errorf("end clock face pass: %w", err)
	}
	return nil
}

// Destroy releases the clock face's GPU resources in reverse creation order.
func (c *ClockFace) Destroy() {
	if c.bindGroup != nil {
		c.bindGroup.Release()
		c.bindGroup = nil
	}
	if c.face != nil {
		c.face.destroy()
		c.face = nil
	}
	if c.sampler != nil {
		c.sampler.Release()
		c.sampler = nil
	}
	if c.pipe != nil {
		c.pipe.destroy()
		c.pipe = nil
	}
}
