package render

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// quadPipeline holds the GPU objects every textured-quad layer needs.
type quadPipeline struct {
	shader     *wgpu.ShaderModule
	layout     *wgpu.BindGroupLayout
	pipeLayout *wgpu.PipelineLayout
	pipeline   *wgpu.RenderPipeline
}

// newQuadPipeline compiles src and builds a pipeline that draws the unit
// quad. Group 0 is the viewport projection, group 1 is entries.
func newQuadPipeline(gc *GraphicsContext, label, src string, viewport *wgpu.BindGroupLayout,
	entries []gputypes.BindGroupLayoutEntry, blend gputypes.BlendState,
) (*quadPipeline, error) {
	p := &quadPipeline{}

	var err error
	p.shader, err = gc.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label + "_shader",
		WGSL:  src,
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s shader: %w", label, err)
	}

	p.layout, err = gc.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   label + "_layout",
		Entries: entries,
	})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("create %s bind group layout: %w", label, err)
	}

	p.pipeLayout, err = gc.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label + "_pipe_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{viewport, p.layout},
	})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("create %s pipeline layout: %w", label, err)
	}

	p.pipeline, err = gc.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: wgpu.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    quadVertexLayout(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gc.format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("create %s pipeline: %w", label, err)
	}
	return p, nil
}

func (p *quadPipeline) destroy() {
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.pipeLayout.Release()
		p.pipeLayout = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	if p.shader != nil {
		p.shader.Release()
		p.shader = nil
	}
}

// Layout entries shared by the textured layers.

func uniformEntry(binding uint32, stages gputypes.ShaderStages) gputypes.BindGroupLayoutEntry {
	return gputypes.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: stages,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
	}
}

func samplerEntry(binding uint32) gputypes.BindGroupLayoutEntry {
	return gputypes.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: gputypes.ShaderStageFragment,
		Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
	}
}

func textureEntry(binding uint32) gputypes.BindGroupLayoutEntry {
	return gputypes.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: gputypes.ShaderStageFragment,
		Texture: &gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeFloat,
			ViewDimension: gputypes.TextureViewDimension2D,
		},
	}
}

// newLinearSampler creates a clamped bilinear sampler.
func newLinearSampler(gc *GraphicsContext, label string) (*wgpu.Sampler, error) {
	s, err := gc.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        label,
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
		LodMaxClamp:  32,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return s, nil
}

// texture is a sampled 2D RGBA8 sRGB texture and its default view.
type texture struct {
	tex    *wgpu.Texture
	view   *wgpu.TextureView
	width  int
	height int
}

func newTexture(gc *GraphicsContext, label string, width, height int) (*texture, error) {
	tex, err := gc.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8UnormSrgb,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s texture: %w", label, err)
	}
	view, err := gc.device.CreateTextureView(tex, nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("create %s view: %w", label, err)
	}
	return &texture{tex: tex, view: view, width: width, height: height}, nil
}

// write uploads a full image of tightly packed RGBA rows.
func (t *texture) write(gc *GraphicsContext, pix []byte) error {
	if want := t.width * t.height * 4; len(pix) != want {
		return fmt.Errorf("texture upload: got %d bytes, want %d", len(pix), want)
	}
	return gc.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: t.tex, Aspect: gputypes.TextureAspectAll},
		pix,
		&wgpu.ImageDataLayout{
			BytesPerRow:  uint32(t.width * 4),
			RowsPerImage: uint32(t.height),
		},
		&wgpu.Extent3D{Width: uint32(t.width), Height: uint32(t.height), DepthOrArrayLayers: 1},
	)
}

func (t *texture) destroy() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.tex != nil {
		t.tex.Release()
		t.tex = nil
	}
}

// newImageTexture creates a texture holding img.
func newImageTexture(gc *GraphicsContext, label string, img *image.RGBA) (*texture, error) {
	b := img.Bounds()
	t, err := newTexture(gc, label, b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	if err := t.write(gc, packedPixels(img)); err != nil {
		t.destroy()
		return nil, fmt.Errorf("upload %s: %w", label, err)
	}
	return t, nil
}

// packedPixels returns img's pixels with a stride of exactly width*4.
func packedPixels(img *image.RGBA) []byte {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	if img.Stride == rowLen && len(img.Pix) == rowLen*b.Dy() {
		return img.Pix
	}
	out := make([]byte, rowLen*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		src := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out[y*rowLen:(y+1)*rowLen], img.Pix[src:src+rowLen])
	}
	return out
}

// beginPass starts a single-attachment render pass on target.
func beginPass(enc *wgpu.CommandEncoder, label string, target *wgpu.TextureView,
	load gputypes.LoadOp, clear gputypes.Color,
) (*wgpu.RenderPassEncoder, error) {
	pass, err := enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       target,
				LoadOp:     load,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: clear,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("begin %s pass: %w", label, err)
	}
	return pass, nil
}
