package model

import (
	"github.com/Carmen-Shannon/snowglobe/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer/material"
)

// model is the implementation of the Model interface.
type model struct {
	name          string
	mesh          *Mesh
	material      material.Material
	meshProviders [DrawModeCount]bind_group_provider.BindGroupProvider
}

// Model is a drawable mesh paired with the material it is shaded with.
// The Renderer uploads one vertex/index buffer pair per draw mode on demand, so switching between
// filled, wireframe and point rendering never rebuilds GPU buffers after the first use.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Mesh retrieves the CPU mesh data.
	//
	// Returns:
	//   - *Mesh: the mesh
	Mesh() *Mesh

	// Material retrieves the material this model is drawn with.
	//
	// Returns:
	//   - material.Material: the material, or nil if none was set
	Material() material.Material

	// MeshProvider retrieves the BindGroupProvider holding the GPU buffers for a draw mode.
	//
	// Parameters:
	//   - mode: the draw mode
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider, or nil if not uploaded yet
	MeshProvider(mode DrawMode) bind_group_provider.BindGroupProvider

	// SetMeshProvider stores the BindGroupProvider holding the GPU buffers for a draw mode.
	//
	// Parameters:
	//   - mode: the draw mode
	//   - provider: the provider created by the Renderer
	SetMeshProvider(mode DrawMode, provider bind_group_provider.BindGroupProvider)

	// Release releases every GPU resource owned by the model's providers.
	Release()
}

var _ Model = &model{}

// NewModel creates a new Model with the provided options.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new Model instance
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	if m.mesh == nil {
		panic("model: NewModel requires a mesh")
	}
	if m.name == "" {
		m.name = m.mesh.Name
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Mesh() *Mesh {
	return m.mesh
}

func (m *model) Material() material.Material {
	return m.material
}

func (m *model) MeshProvider(mode DrawMode) bind_group_provider.BindGroupProvider {
	if mode >= DrawModeCount {
		return nil
	}
	return m.meshProviders[mode]
}

func (m *model) SetMeshProvider(mode DrawMode, provider bind_group_provider.BindGroupProvider) {
	if mode >= DrawModeCount {
		return
	}
	m.meshProviders[mode] = provider
}

func (m *model) Release() {
	for i, p := range m.meshProviders {
		if p != nil {
			p.Release()
			m.meshProviders[i] = nil
		}
	}
	if m.material != nil && m.material.BindGroupProvider() != nil {
		m.material.BindGroupProvider().Release()
	}
}
