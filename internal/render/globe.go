package render

import (
	"fmt"
	"image"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/globeclock/internal/timeparam"
)

// GlobeParams holds the fixed shading parameters of the globe.
type GlobeParams struct {
	// PhaseOffset is the rotation at 00:00:00 UTC, in radians.
	PhaseOffset float64

	// MinLatitude and MaxLatitude clip the drawn sphere, in radians.
	MinLatitude float64
	MaxLatitude float64

	// Transform places the unit globe within the viewport square. The zero
	// matrix means identity.
	Transform mgl32.Mat4

	// Deflection is the view centre offset east of the sub-solar point,
	// as (longitude, latitude) in radians.
	Deflection mgl32.Vec2
}

// DefaultGlobeParams returns an unclipped, unplaced globe.
func DefaultGlobeParams() GlobeParams {
	return GlobeParams{
		PhaseOffset: timeparam.DefaultPhaseOffset,
		MinLatitude: -math.Pi / 2,
		MaxLatitude: math.Pi / 2,
		Transform:   mgl32.Ident4(),
	}
}

// withDefaults replaces unset fields: a zero transform becomes identity and
// an empty latitude band becomes the full sphere.
func (p GlobeParams) withDefaults() GlobeParams {
	if p.Transform == (mgl32.Mat4{}) {
		p.Transform = mgl32.Ident4()
	}
	if p.MinLatitude == 0 && p.MaxLatitude == 0 {
		p.MinLatitude, p.MaxLatitude = -math.Pi/2, math.Pi/2
	}
	return p
}

// Globe draws the day/night shaded sphere on the unit quad. Shading happens
// entirely in the globe shader; Globe only keeps its uniforms current.
type Globe struct {
	gc       *GraphicsContext
	viewport *Viewport
	quad     *Quad

	params   GlobeParams
	uniforms globeUniforms

	pipe      *quadPipeline
	uniform   *wgpu.Buffer
	sampler   *wgpu.Sampler
	day       *texture
	night     *texture
	bindGroup *wgpu.BindGroup
}

// NewGlobe builds the globe pipeline and uploads the day and night textures.
func NewGlobe(gc *GraphicsContext, vp *Viewport, quad *Quad, shader string,
	day, night *image.RGBA, params GlobeParams,
) (*Globe, error) {
	if gc == nil {
		return nil, ErrNilContext
	}
	params = params.withDefaults()
	g := &Globe{gc: gc, viewport: vp, quad: quad, params: params}
	g.uniforms = globeUniforms{
		LocalTransform: params.Transform,
		MinLatitude:    float32(params.MinLatitude),
		MaxLatitude:    float32(params.MaxLatitude),
		Deflection:     params.Deflection,
	}

	if err := g.createResources(shader, day, night); err != nil {
		g.Destroy()
		return nil, err
	}
	return g, nil
}

func (g *Globe) createResources(shader string, day, night *image.RGBA) error {
	var err error
	g.pipe, err = newQuadPipeline(g.gc, "globe", shader, g.viewport.BindGroupLayout(),
		[]gputypes.BindGroupLayoutEntry{
			uniformEntry(0, gputypes.ShaderStageVertex|gputypes.ShaderStageFragment),
			samplerEntry(1),
			textureEntry(2),
			textureEntry(3),
		},
		gputypes.BlendStateAlpha(),
	)
	if err != nil {
		return err
	}

	g.uniform, err = g.gc.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "globe_uniform",
		Size:  globeUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create globe uniform buffer: %w", err)
	}

	if g.sampler, err = newLinearSampler(g.gc, "globe_sampler"); err != nil {
		return err
	}
	if g.day, err = newImageTexture(g.gc, "globe_day", day); err != nil {
		return err
	}
	if g.night, err = newImageTexture(g.gc, "globe_night", night); err != nil {
		return err
	}

	g.bindGroup, err = g.gc.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "globe_bind_group",
		Layout: g.pipe.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: g.uniform, Size: globeUniformSize},
			{Binding: 1, Sampler: g.sampler},
			{Binding: 2, TextureView: g.day.view},
			{Binding: 3, TextureView: g.night.view},
		},
	})
	if err != nil {
		return fmt.Errorf("create globe bind group: %w", err)
	}
	return nil
}

// Name implements compositor.Layer.
func (g *Globe) Name() string { return "globe" }

// SetDate recomputes rotation and axial tilt for t. It does not touch the GPU.
func (g *Globe) SetDate(t time.Time) {
	g.uniforms.Rotation = float32(timeparam.GlobeRotation(t, g.params.PhaseOffset))
	g.uniforms.AxialTilt = float32(timeparam.AxialTilt(t))
}

// Update implements compositor.TimeDriven.
func (g *Globe) Update(now time.Time) { g.SetDate(now) }

// Rotation returns the current spin angle.
func (g *Globe) Rotation() float32 { return g.uniforms.Rotation }

// AxialTilt returns the current seasonal tilt.
func (g *Globe) AxialTilt() float32 { return g.uniforms.AxialTilt }

// Draw uploads the uniform block and draws the quad over target.
func (g *Globe) Draw(enc *wgpu.CommandEncoder, target *wgpu.TextureView) error {
	if err := g.gc.queue.WriteBuffer(g.uniform, 0, g.uniforms.Marshal()); err != nil {
		return fmt.Errorf("upload globe uniforms: %w", err)
	}

	pass, err := beginPass(enc, "globe", target, gputypes.LoadOpLoad, gputypes.Color{})
	if err != nil {
		return err
	}
	pass.SetPipeline(g.pipe.pipeline)
	pass.SetBindGroup(0, g.viewport.BindGroup(), nil)
	pass.SetBindGroup(1, g.bindGroup, nil)
	g.quad.draw(pass)
	if err := pass.End(); err != nil {
		return fmt.Errorf("end globe pass: %w", err)
	}
	return nil
}

// Destroy releases the globe's GPU resources in reverse creation order.
func (g *Globe) Destroy() {
	if g.bindGroup != nil {
		g.bindGroup.Release()
		g.bindGroup = nil
	}
	if g.night != nil {
		g.night.destroy()
		g.night = nil
	}
	if g.day != nil {
		g.day.destroy()
		g.day = nil
	}
	if g.sampler != nil {
		g.sampler.Release()
		g.sampler = nil
	}
	if g.uniform != nil {
		g.uniform.Release()
		g.uniform = nil
	}
	if g.pipe != nil {
		g.pipe.destroy()
		g.pipe = nil
	}
}
