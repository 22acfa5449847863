package render

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// mat4Size is the byte size of a mat4x4<f32>.
const mat4Size = 64

// globeUniformSize is the byte size of the Globe uniform block:
//
//	local_transform  mat4x4<f32>  offset  0
//	rotation         f32          offset 64
//	axial_tilt       f32          offset 68
//	min_latitude     f32          offset 72
//	max_latitude     f32          offset 76
//	deflection_point vec2<f32>    offset 80
//	_pad             vec2<f32>    offset 88
const globeUniformSize = 96

func putFloat32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

// putMat4 writes m in column-major order, matching both mgl32 and WGSL.
func putMat4(buf []byte, off int, m mgl32.Mat4) {
	for i, v := range m {
		putFloat32(buf, off+i*4, v)
	}
}

// globeUniforms mirrors the Globe uniform block in the globe shader.
type globeUniforms struct {
	LocalTransform mgl32.Mat4
	Rotation       float32
	AxialTilt      float32
	MinLatitude    float32
	MaxLatitude    float32
	Deflection     mgl32.Vec2
	_              [2]float32
}

// Marshal encodes the block in the layout the shader expects.
func (u *globeUniforms) Marshal() []byte {
	buf := make([]byte, globeUniformSize)
	putMat4(buf, 0, u.LocalTransform)
	putFloat32(buf, 64, u.Rotation)
	putFloat32(buf, 68, u.AxialTilt)
	putFloat32(buf, 72, u.MinLatitude)
	putFloat32(buf, 76, u.MaxLatitude)
	putFloat32(buf, 80, u.Deflection[0])
	putFloat32(buf, 84, u.Deflection[1])
	return buf
}

func mat4Bytes(m mgl32.Mat4) []byte {
	buf := make([]byte, mat4Size)
	putMat4(buf, 0, m)
	return buf
}
