package model

import (
	"encoding/binary"
)

// DrawMode selects how a mesh is rasterised.
type DrawMode uint32

const (
	// DrawModeFill draws filled triangles.
	DrawModeFill DrawMode = iota
	// DrawModeLines draws the triangle edges as a wireframe.
	DrawModeLines
	// DrawModePoints draws one point per vertex.
	DrawModePoints

	// DrawModeCount is the number of draw modes, used to cycle through them.
	DrawModeCount
)

// String returns a lowercase name for the draw mode.
func (d DrawMode) String() string {
	switch d {
	case DrawModeFill:
		return "fill"
	case DrawModeLines:
		return "lines"
	case DrawModePoints:
		return "points"
	default:
		return "unknown"
	}
}

// Mesh is CPU-side triangle mesh data: vertices plus a triangle list of indices into them.
type Mesh struct {
	// Name is the mesh identifier.
	Name string

	// Vertices are the mesh vertices.
	Vertices []GPUVertex

	// Indices is a triangle list, three indices per triangle.
	Indices []uint32
}

// VertexData packs every vertex into a single buffer ready for GPU upload.
//
// Returns:
//   - []byte: len(Vertices) * GPUVertexSize bytes
func (m *Mesh) VertexData() []byte {
	buf := make([]byte, len(m.Vertices)*GPUVertexSize)
	for i := range m.Vertices {
		m.Vertices[i].marshalInto(buf[i*GPUVertexSize : (i+1)*GPUVertexSize])
	}
	return buf
}

// DrawIndices returns the index list that draws this mesh in the given mode: the triangle list for
// DrawModeFill, each triangle's three edges as line pairs for DrawModeLines, and every vertex once
// for DrawModePoints.
//
// Parameters:
//   - mode: the draw mode
//
// Returns:
//   - []uint32: the index list for the matching primitive topology
func (m *Mesh) DrawIndices(mode DrawMode) []uint32 {
	switch mode {
	case DrawModeLines:
		out := make([]uint32, 0, len(m.Indices)*2)
		for t := 0; t+2 < len(m.Indices); t += 3 {
			a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
			out = append(out, a, b, b, c, c, a)
		}
		return out
	case DrawModePoints:
		out := make([]uint32, len(m.Vertices))
		for i := range out {
			out[i] = uint32(i)
		}
		return out
	default:
		return m.Indices
	}
}

// IndexData packs DrawIndices(mode) into a little-endian uint32 buffer.
//
// Parameters:
//   - mode: the draw mode
//
// Returns:
//   - []byte: the packed indices
//   - int: the number of indices
func (m *Mesh) IndexData(mode DrawMode) ([]byte, int) {
	indices := m.DrawIndices(mode)
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf, len(indices)
}

// SetColor overrides the colour of every vertex.
//
// Parameters:
//   - color: the RGBA colour
func (m *Mesh) SetColor(color [4]float32) {
	for i := range m.Vertices {
		m.Vertices[i].Color = color
	}
}

// Bounds returns the axis-aligned bounding box of the mesh. An empty mesh returns zero vectors.
//
// Returns:
//   - [3]float32: the minimum corner
//   - [3]float32: the maximum corner
func (m *Mesh) Bounds() (lo, hi [3]float32) {
	if len(m.Vertices) == 0 {
		return lo, hi
	}
	lo = m.Vertices[0].Position
	hi = lo
	for _, v := range m.Vertices[1:] {
		for k := range 3 {
			lo[k] = min(lo[k], v.Position[k])
			hi[k] = max(hi[k], v.Position[k])
		}
	}
	return lo, hi
}
