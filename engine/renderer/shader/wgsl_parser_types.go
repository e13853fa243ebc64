package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo pairs a vertex format with its size in bytes, used to lay out vertex and
// instance attributes back to back.
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

type sampledTextureInfo struct {
	viewDimension wgpu.TextureViewDimension
	multisampled  bool
}

// wgslTypeLayout is the host-shareable size and alignment of a WGSL type.
type wgslTypeLayout struct {
	size, align uint64
}

// parsedStruct is a WGSL struct as the parser saw it. Fields keep their @location index, or -1
// with isBuiltin set for @builtin members.
type parsedStruct struct {
	name   string
	fields []parsedField
}

type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}
