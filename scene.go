package globeclock

import (
	"fmt"
	"image"
	"math"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/globeclock/assets"
	"github.com/gogpu/globeclock/internal/clockface"
	"github.com/gogpu/globeclock/internal/compositor"
	"github.com/gogpu/globeclock/internal/render"
)

// Scene is the assembled clock: background, globe and clock face drawn by a
// compositor onto one surface.
type Scene struct {
	viewport   *render.Viewport
	quad       *render.Quad
	background *render.Background
	globe      *render.Globe
	clock      *render.ClockFace
	compositor *compositor.Compositor
}

// NewScene validates cfg, loads assets and creates every GPU resource.
// Any failure is fatal to the scene and leaves nothing allocated.
func NewScene(gc *render.GraphicsContext, window gpucontext.WindowProvider,
	surface compositor.Surface, cfg Config,
) (*Scene, error) {
	if gc == nil {
		return nil, render.ErrNilContext
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loader := assets.Open(cfg.AssetsRoot)
	globeSrc, err := loader.Shader(assets.GlobeShader)
	if err != nil {
		return nil, err
	}
	clockSrc, err := loader.Shader(assets.ClockFaceShader)
	if err != nil {
		return nil, err
	}
	maxDim := gc.MaxTextureDimension()
	day, err := loader.Texture(assets.DayTexture, maxDim)
	if err != nil {
		return nil, err
	}
	night, err := loader.Texture(assets.NightTexture, maxDim)
	if err != nil {
		return nil, err
	}

	s := &Scene{}
	if err := s.build(gc, window, surface, cfg, globeSrc, clockSrc, day, night); err != nil {
		s.Destroy()
		return nil, err
	}
	Logger().Info("globeclock: scene ready", "assets", loader.Origin(),
		"clock_size", cfg.ClockSize, "format", gc.Format().String())
	return s, nil
}

func (s *Scene) build(gc *render.GraphicsContext, window gpucontext.WindowProvider,
	surface compositor.Surface, cfg Config, globeSrc, clockSrc string, day, night *image.RGBA,
) error {
	w, h := framebufferSize(window)

	var err error
	if s.viewport, err = render.NewViewport(gc, w, h); err != nil {
		return fmt.Errorf("viewport: %w", err)
	}
	if s.quad, err = render.NewQuad(gc); err != nil {
		return fmt.Errorf("quad: %w", err)
	}

	s.background = render.NewBackground(clearColor(cfg.Background, gc.Format()))

	params := render.GlobeParams{
		PhaseOffset: cfg.PhaseOffset,
		MinLatitude: cfg.MinLatitude,
		MaxLatitude: cfg.MaxLatitude,
		Transform:   cfg.GlobeTransform(),
		Deflection:  cfg.DeflectionPoint,
	}
	if s.globe, err = render.NewGlobe(gc, s.viewport, s.quad, globeSrc, day, night, params); err != nil {
		return fmt.Errorf("globe: %w", err)
	}

	raster := clockface.New(cfg.ClockOptions())
	if s.clock, err = render.NewClockFace(gc, s.viewport, s.quad, clockSrc, raster); err != nil {
		return fmt.Errorf("clock face: %w", err)
	}

	s.compositor = compositor.New(surface,
		compositor.NewQueueSubmitter(gc.GPUDevice(), gc.GPUQueue()),
		window,
		s.background, s.globe, s.clock,
	)
	s.compositor.OnResize(s.viewport)
	return nil
}

// Redraw renders one frame for now.
func (s *Scene) Redraw(now time.Time) error {
	return s.compositor.Redraw(now)
}

// Resize reacts to a new framebuffer size in physical pixels. Zero sizes
// (minimized windows) are ignored. The viewport follows every surface
// reconfiguration, so Redraw alone also keeps it in step with the window.
func (s *Scene) Resize(width, height int) error {
	return s.compositor.Resize(width, height)
}

// Layers returns the layer names in draw order.
func (s *Scene) Layers() []string {
	layers := s.compositor.Layers()
	names := make([]string, len(layers))
	for i, l := range layers {
		names[i] = l.Name()
	}
	return names
}

// Destroy releases GPU resources in reverse creation order. It is safe to
// call on a partially built scene.
func (s *Scene) Destroy() {
	if s.clock != nil {
		s.clock.Destroy()
		s.clock = nil
	}
	if s.globe != nil {
		s.globe.Destroy()
		s.globe = nil
	}
	if s.quad != nil {
		s.quad.Destroy()
		s.quad = nil
	}
	if s.viewport != nil {
		s.viewport.Destroy()
		s.viewport = nil
	}
}

func framebufferSize(window gpucontext.WindowProvider) (int, int) {
	w, h := window.Size()
	sf := window.ScaleFactor()
	if sf <= 0 {
		sf = 1
	}
	return int(math.Round(float64(w) * sf)), int(math.Round(float64(h) * sf))
}

// clearColor converts an sRGB-encoded color into the clear value for a
// target of the given format. sRGB targets expect linear values.
func clearColor(c gg.RGBA, format gputypes.TextureFormat) gputypes.Color {
	if !format.IsSrgb() {
		return gputypes.Color{R: c.R, G: c.G, B: c.B, A: c.A}
	}
	return gputypes.Color{R: srgbToLinear(c.R), G: srgbToLinear(c.G), B: srgbToLinear(c.B), A: c.A}
}

func srgbToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}
