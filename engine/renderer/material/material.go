package material

import (
	"github.com/Carmen-Shannon/snowglobe/common"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer/bind_group_provider"
)

// material is the implementation of the Material interface.
type material struct {
	name              string
	pipelineKey       string
	texture           *common.TextureStagingData
	sampler           common.SamplerStagingData
	alpha             float32
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material describes how a drawable is shaded: the pipeline it is drawn with, the texture and
// sampler bound next to its uniform, and the alpha written by blended shaders.
//
// The texture and sampler are staging data consumed once by Renderer.InitDrawBindGroup. The
// resulting GPU resources live on the material's bind group provider.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// PipelineKey retrieves the key identifying the render pipeline this material uses.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// Texture retrieves the texture staging data. Materials built without a texture return a
	// single white pixel so untextured shaders can share the textured bind group layout.
	//
	// Returns:
	//   - common.TextureStagingData: the texture pixels
	Texture() common.TextureStagingData

	// Textured reports whether the material was given a texture.
	//
	// Returns:
	//   - bool: true if a texture was set
	Textured() bool

	// Sampler retrieves the sampler staging data.
	//
	// Returns:
	//   - common.SamplerStagingData: the sampler configuration
	Sampler() common.SamplerStagingData

	// Alpha retrieves the output alpha used by blended shaders.
	//
	// Returns:
	//   - float32: the alpha in [0, 1]
	Alpha() float32

	// BindGroupProvider retrieves the bind group provider holding GPU-side resources for this material.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider, or nil if not yet initialized
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider sets the bind group provider for this material.
	//
	// Parameters:
	//   - provider: the bind group provider containing GPU resources for this material
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// Materials are opaque and untextured by default.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		alpha: 1.0,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) PipelineKey() string {
	return m.pipelineKey
}

func (m *material) Texture() common.TextureStagingData {
	if m.texture == nil {
		return common.WhiteTexture()
	}
	return *m.texture
}

func (m *material) Textured() bool {
	return m.texture != nil
}

func (m *material) Sampler() common.SamplerStagingData {
	return m.sampler
}

func (m *material) Alpha() float32 {
	return m.alpha
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.bindGroupProvider = provider
}
