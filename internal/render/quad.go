package render

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// quadVertexStride is the byte stride of one quad vertex:
//
//	position (vec2<f32>) = 8 bytes (location 0)
//	uv       (vec2<f32>) = 8 bytes (location 1)
const quadVertexStride = 16

// quadVertices covers [-1, 1]² with v growing downward.
var quadVertices = [...]float32{
	-1, -1, 0, 1,
	1, -1, 1, 1,
	1, 1, 1, 0,
	-1, 1, 0, 0,
}

var quadIndices = [...]uint16{0, 1, 2, 0, 2, 3}

// Quad is the static unit quad shared by the globe and clock face layers.
type Quad struct {
	vertices *wgpu.Buffer
	indices  *wgpu.Buffer
}

// NewQuad uploads the quad geometry.
func NewQuad(gc *GraphicsContext) (*Quad, error) {
	if gc == nil {
		return nil, ErrNilContext
	}
	q := &Quad{}

	vb := quadVertexBytes()
	var err error
	q.vertices, err = gc.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "quad_vertices",
		Size:  uint64(len(vb)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create quad vertex buffer: %w", err)
	}
	if err := gc.queue.WriteBuffer(q.vertices, 0, vb); err != nil {
		q.Destroy()
		return nil, fmt.Errorf("upload quad vertices: %w", err)
	}

	ib := quadIndexBytes()
	q.indices, err = gc.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "quad_indices",
		Size:  uint64(len(ib)),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		q.Destroy()
		return nil, fmt.Errorf("create quad index buffer: %w", err)
	}
	if err := gc.queue.WriteBuffer(q.indices, 0, ib); err != nil {
		q.Destroy()
		return nil, fmt.Errorf("upload quad indices: %w", err)
	}
	return q, nil
}

// draw binds the quad buffers and issues one indexed draw.
func (q *Quad) draw(pass *wgpu.RenderPassEncoder) {
	pass.SetVertexBuffer(0, q.vertices, 0)
	pass.SetIndexBuffer(q.indices, gputypes.IndexFormatUint16, 0)
	pass.DrawIndexed(uint32(len(quadIndices)), 1, 0, 0, 0)
}

// Destroy releases the quad buffers.
func (q *Quad) Destroy() {
	if q.indices != nil {
		q.indices.Release()
		q.indices = nil
	}
	if q.vertices != nil {
		q.vertices.Release()
		q.vertices = nil
	}
}

func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			},
		},
	}
}

func quadVertexBytes() []byte {
	buf := make([]byte, len(quadVertices)*4)
	for i, v := range quadVertices {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func quadIndexBytes() []byte {
	buf := make([]byte, len(quadIndices)*2)
	for i, v := range quadIndices {
		binary.LittleEndian.PutUint16(buf[i*2:], v)
	}
	return buf
}
