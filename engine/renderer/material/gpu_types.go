package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUDrawUniformSource is the canonical WGSL definition of the DrawUniform struct.
// Matches GPUDrawUniform layout exactly (288 bytes, uniform address space).
//
//go:embed assets/draw_uniform.wgsl
var GPUDrawUniformSource string

// GPUDrawUniformSize is the byte size of one DrawUniform, used as the uniform buffer size and
// the binding's minimum size.
const GPUDrawUniformSize = 288

// GPUDrawUniform is the per-draw uniform shared by every scene shader. It carries the matrix
// stack, the view-space light position and the scene's shading switches.
// Matches the WGSL DrawUniform struct layout exactly (see GPUDrawUniformSource).
type GPUDrawUniform struct {
	Model        [16]float32 // offset 0: model matrix, column-major
	View         [16]float32 // offset 64: view matrix
	Projection   [16]float32 // offset 128: projection matrix (WebGPU depth range)
	NormalMatrix [12]float32 // offset 192: mat3x3 with each column padded to 16 bytes
	LightPos     [4]float32  // offset 240: view-space light position
	ColourMode   uint32      // offset 256: 0 = textured, 1 = untextured (vertex colour only)
	Alpha        float32     // offset 260: output alpha for blended draws
	PointSize    float32     // offset 264: sprite size in pixels
	_            float32     // offset 268
	Viewport     [2]float32  // offset 272: framebuffer size in pixels
	_            [2]float32  // offset 280
}

// SetNormalMatrix stores a 3x3 normal matrix using the WGSL mat3x3 column padding.
//
// Parameters:
//   - m: the normal matrix
func (g *GPUDrawUniform) SetNormalMatrix(m mgl32.Mat3) {
	for col := range 3 {
		copy(g.NormalMatrix[col*4:col*4+3], m[col*3:col*3+3])
		g.NormalMatrix[col*4+3] = 0
	}
}

// Size returns the size of the GPUDrawUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUDrawUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUDrawUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 288-byte buffer ready for GPU upload.
func (g *GPUDrawUniform) Marshal() []byte {
	buf := make([]byte, GPUDrawUniformSize)
	putFloats(buf[0:], g.Model[:])
	putFloats(buf[64:], g.View[:])
	putFloats(buf[128:], g.Projection[:])
	putFloats(buf[192:], g.NormalMatrix[:])
	putFloats(buf[240:], g.LightPos[:])
	binary.LittleEndian.PutUint32(buf[256:260], g.ColourMode)
	binary.LittleEndian.PutUint32(buf[260:264], math.Float32bits(g.Alpha))
	binary.LittleEndian.PutUint32(buf[264:268], math.Float32bits(g.PointSize))
	putFloats(buf[272:], g.Viewport[:])
	return buf
}

func putFloats(dst []byte, values []float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(dst[i*4:i*4+4], math.Float32bits(v))
	}
}
