package model

import (
	"math"
)

// QuadHalfExtent is the half width of the unit quad used for the floor and walls.
const QuadHalfExtent float32 = 2.75

var white = [4]float32{1, 1, 1, 1}

// NewSphere builds a unit sphere centred on the origin from a latitude/longitude grid.
// Normals point outwards and texture coordinates wrap once around the equator.
//
// Parameters:
//   - lats: the number of latitude bands, at least 2
//   - longs: the number of longitude segments, at least 3
//
// Returns:
//   - *Mesh: the sphere mesh
func NewSphere(lats, longs int) *Mesh {
	if lats < 2 || longs < 3 {
		panic("model: NewSphere requires at least 2 latitudes and 3 longitudes")
	}

	m := &Mesh{
		Name:     "sphere",
		Vertices: make([]GPUVertex, 0, (lats+1)*(longs+1)),
		Indices:  make([]uint32, 0, lats*longs*6),
	}

	for i := 0; i <= lats; i++ {
		theta := float64(i) * math.Pi / float64(lats)
		sinT, cosT := math.Sincos(theta)
		for j := 0; j <= longs; j++ {
			phi := float64(j) * 2 * math.Pi / float64(longs)
			sinP, cosP := math.Sincos(phi)
			p := [3]float32{float32(sinT * cosP), float32(cosT), float32(sinT * sinP)}
			m.Vertices = append(m.Vertices, GPUVertex{
				Position: p,
				Normal:   p,
				TexCoord: [2]float32{float32(j) / float32(longs), float32(i) / float32(lats)},
				Color:    white,
			})
		}
	}

	row := uint32(longs + 1)
	for i := range uint32(lats) {
		for j := range uint32(longs) {
			a := i*row + j
			b := a + row
			m.Indices = append(m.Indices, a, a+1, b, a+1, b+1, b)
		}
	}
	return m
}

// NewQuad builds the textured square used for the floor and walls: four corners at
// +/-QuadHalfExtent in the XZ plane facing +Y, split into two triangles.
//
// Returns:
//   - *Mesh: the quad mesh
func NewQuad() *Mesh {
	h := QuadHalfExtent
	up := [3]float32{0, 1, 0}
	return &Mesh{
		Name: "quad",
		Vertices: []GPUVertex{
			{Position: [3]float32{h, 0, -h}, Normal: up, TexCoord: [2]float32{0, 0}, Color: white},
			{Position: [3]float32{-h, 0, -h}, Normal: up, TexCoord: [2]float32{1, 0}, Color: white},
			{Position: [3]float32{-h, 0, h}, Normal: up, TexCoord: [2]float32{1, 1}, Color: white},
			{Position: [3]float32{h, 0, h}, Normal: up, TexCoord: [2]float32{0, 1}, Color: white},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}
