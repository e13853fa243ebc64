package loader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/snowglobe/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// defaultVertexColor is applied to every parsed vertex that carries no colour of its own.
var defaultVertexColor = [4]float32{1, 1, 1, 1}

// objIndex is one resolved corner of a face: zero-based position, texcoord and normal indices,
// with -1 for an absent texcoord or normal.
type objIndex struct {
	v, t, n int
}

// objParser accumulates the shared attribute pools of a Wavefront OBJ file and the meshes built
// from its faces. Every "o" or "g" statement starts a new mesh; empty meshes are dropped.
type objParser struct {
	positions [][3]float32
	colors    [][4]float32
	texCoords [][2]float32
	normals   [][3]float32

	meshes  []model.ImportedMesh
	current *objMeshBuilder
	line    int
}

// objMeshBuilder de-indexes face corners into unique vertices for a single mesh.
type objMeshBuilder struct {
	mesh  model.ImportedMesh
	cache map[objIndex]uint32
}

func newObjMeshBuilder(name string) *objMeshBuilder {
	return &objMeshBuilder{
		mesh:  model.ImportedMesh{Name: name},
		cache: make(map[objIndex]uint32),
	}
}

// parseOBJ reads a Wavefront OBJ stream into an ImportedModel named name. Supported statements
// are v (with optional trailing RGB colour), vt, vn, f, o and g; everything else is skipped.
// Faces with more than three corners are fan-triangulated. Corners without a normal get the
// face normal.
//
// Parameters:
//   - name: the model name
//   - r: the OBJ text
//
// Returns:
//   - *model.ImportedModel: the parsed model with one mesh per non-empty object or group
//   - error: an error naming the offending line if the file is malformed
func parseOBJ(name string, r io.Reader) (*model.ImportedModel, error) {
	p := &objParser{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		p.line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		fields := strings.Fields(text)
		if err := p.statement(fields[0], fields[1:]); err != nil {
			return nil, fmt.Errorf("obj line %d: %w", p.line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read obj: %w", err)
	}

	p.flush()
	if len(p.meshes) == 0 {
		return nil, fmt.Errorf("obj %q contains no faces", name)
	}
	return &model.ImportedModel{Name: name, Meshes: p.meshes}, nil
}

func (p *objParser) statement(keyword string, args []string) error {
	switch keyword {
	case "v":
		vals, err := parseFloats(args, 3, 7)
		if err != nil {
			return err
		}
		p.positions = append(p.positions, [3]float32{vals[0], vals[1], vals[2]})
		color := defaultVertexColor
		if len(vals) >= 6 {
			color = [4]float32{vals[3], vals[4], vals[5], 1}
		}
		p.colors = append(p.colors, color)
	case "vt":
		vals, err := parseFloats(args, 1, 3)
		if err != nil {
			return err
		}
		uv := [2]float32{vals[0], 0}
		if len(vals) > 1 {
			uv[1] = vals[1]
		}
		p.texCoords = append(p.texCoords, uv)
	case "vn":
		vals, err := parseFloats(args, 3, 3)
		if err != nil {
			return err
		}
		p.normals = append(p.normals, [3]float32{vals[0], vals[1], vals[2]})
	case "f":
		return p.face(args)
	case "o", "g":
		p.flush()
		p.current = newObjMeshBuilder(strings.Join(args, " "))
	}
	return nil
}

func (p *objParser) face(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("face needs at least 3 corners, got %d", len(args))
	}

	corners := make([]objIndex, len(args))
	for i, a := range args {
		idx, err := p.resolveCorner(a)
		if err != nil {
			return err
		}
		corners[i] = idx
	}

	if p.current == nil {
		p.current = newObjMeshBuilder("default")
	}

	faceNormal := p.faceNormal(corners)
	for i := 1; i+1 < len(corners); i++ {
		for _, c := range [3]objIndex{corners[0], corners[i], corners[i+1]} {
			p.current.mesh.Indices = append(p.current.mesh.Indices, p.vertexFor(c, faceNormal))
		}
	}
	return nil
}

// resolveCorner parses one face corner in any of the forms v, v/t, v//n or v/t/n. Indices are
// one-based; negative indices count back from the most recent element.
func (p *objParser) resolveCorner(s string) (objIndex, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return objIndex{}, fmt.Errorf("malformed face corner %q", s)
	}

	idx := objIndex{v: -1, t: -1, n: -1}
	var err error
	if idx.v, err = resolveIndex(parts[0], len(p.positions)); err != nil {
		return objIndex{}, fmt.Errorf("corner %q position: %w", s, err)
	}
	if len(parts) > 1 && parts[1] != "" {
		if idx.t, err = resolveIndex(parts[1], len(p.texCoords)); err != nil {
			return objIndex{}, fmt.Errorf("corner %q texcoord: %w", s, err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if idx.n, err = resolveIndex(parts[2], len(p.normals)); err != nil {
			return objIndex{}, fmt.Errorf("corner %q normal: %w", s, err)
		}
	}
	return idx, nil
}

func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0 && i <= count:
		return i - 1, nil
	case i < 0 && -i <= count:
		return count + i, nil
	}
	return 0, fmt.Errorf("index %d out of range for %d elements", i, count)
}

// faceNormal returns the unit normal of the face's first three corners, or +Y for a degenerate face.
func (p *objParser) faceNormal(corners []objIndex) [3]float32 {
	a := mgl32.Vec3(p.positions[corners[0].v])
	b := mgl32.Vec3(p.positions[corners[1].v])
	c := mgl32.Vec3(p.positions[corners[2].v])
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() < 1e-12 {
		return [3]float32{0, 1, 0}
	}
	return n.Normalize()
}

func (p *objParser) vertexFor(c objIndex, faceNormal [3]float32) uint32 {
	// corners without a normal take the face normal, so they cannot share across faces
	key := c
	if c.n < 0 {
		key.n = -1 - len(p.current.mesh.Indices)
	}
	if idx, ok := p.current.cache[key]; ok {
		return idx
	}

	v := model.GPUVertex{
		Position: p.positions[c.v],
		Normal:   faceNormal,
		Color:    p.colors[c.v],
	}
	if c.t >= 0 {
		v.TexCoord = p.texCoords[c.t]
	}
	if c.n >= 0 {
		v.Normal = p.normals[c.n]
	}

	mesh := &p.current.mesh
	idx := uint32(len(mesh.Vertices))
	if idx == 0 {
		mesh.BoundingMin = v.Position
		mesh.BoundingMax = v.Position
	}
	for i := range 3 {
		mesh.BoundingMin[i] = min(mesh.BoundingMin[i], v.Position[i])
		mesh.BoundingMax[i] = max(mesh.BoundingMax[i], v.Position[i])
	}
	mesh.Vertices = append(mesh.Vertices, v)
	p.current.cache[key] = idx
	return idx
}

// flush closes the current mesh, keeping it only if it received faces.
func (p *objParser) flush() {
	if p.current != nil && len(p.current.mesh.Indices) > 0 {
		p.meshes = append(p.meshes, p.current.mesh)
	}
	p.current = nil
}

func parseFloats(args []string, minCount, maxCount int) ([]float32, error) {
	if len(args) < minCount {
		return nil, fmt.Errorf("expected at least %d values, got %d", minCount, len(args))
	}
	if len(args) > maxCount {
		args = args[:maxCount]
	}
	out := make([]float32, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", a, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}
