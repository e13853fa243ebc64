package material

import (
	"github.com/Carmen-Shannon/snowglobe/common"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithPipelineKey is an option builder that sets the render pipeline the material is drawn with.
//
// Parameters:
//   - key: the pipeline key
//
// Returns:
//   - MaterialBuilderOption: a function that applies the pipeline key option to a material
func WithPipelineKey(key string) MaterialBuilderOption {
	return func(m *material) {
		m.pipelineKey = key
	}
}

// WithTexture is an option builder that sets the decoded texture sampled by the material.
//
// Parameters:
//   - texture: the texture staging data
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithTexture(texture common.TextureStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.texture = &texture
	}
}

// WithSampler is an option builder that sets the sampler configuration.
//
// Parameters:
//   - sampler: the sampler staging data
//
// Returns:
//   - MaterialBuilderOption: a function that applies the sampler option to a material
func WithSampler(sampler common.SamplerStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.sampler = sampler
	}
}

// WithAlpha is an option builder that sets the alpha written by blended shaders.
//
// Parameters:
//   - alpha: the alpha in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the alpha option to a material
func WithAlpha(alpha float32) MaterialBuilderOption {
	return func(m *material) {
		m.alpha = alpha
	}
}
