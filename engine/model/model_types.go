package model

// ImportedModel represents a 3D model loaded from an external format.
// This is the universal format that importers (Wavefront OBJ) produce.
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Meshes contains all mesh data, one entry per object or group in the source file.
	Meshes []ImportedMesh
}

// ImportedMesh represents a single mesh within an imported model.
type ImportedMesh struct {
	// Name is the mesh identifier.
	Name string

	// Vertices are the de-indexed mesh vertices.
	Vertices []GPUVertex

	// Indices are the triangle indices.
	Indices []uint32

	// BoundingMin is the minimum corner of the axis-aligned bounding box.
	BoundingMin [3]float32

	// BoundingMax is the maximum corner of the axis-aligned bounding box.
	BoundingMax [3]float32
}

// FromImported merges every mesh of an imported model into a single Mesh, offsetting indices so
// they keep pointing at their own vertices.
//
// Parameters:
//   - im: the imported model
//
// Returns:
//   - *Mesh: the merged mesh
func FromImported(im *ImportedModel) *Mesh {
	m := &Mesh{Name: im.Name}
	for _, sub := range im.Meshes {
		base := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices, sub.Vertices...)
		for _, idx := range sub.Indices {
			m.Indices = append(m.Indices, base+idx)
		}
	}
	return m
}
