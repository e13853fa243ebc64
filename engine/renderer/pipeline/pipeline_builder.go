package pipeline

import (
	"github.com/Carmen-Shannon/snowglobe/engine/model"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithSource parses a WGSL file holding both a vertex and a fragment entry point and sets
// both stages from it. The shaders are keyed by the pipeline key.
//
// Parameters:
//   - source: the WGSL source
//
// Returns:
//   - PipelineBuilderOption: a function that sets both shaders for this pipeline
func WithSource(source string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = shader.NewShader(p.pipelineKey, shader.ShaderTypeVertex, source)
		p.fragmentShader = shader.NewShader(p.pipelineKey, shader.ShaderTypeFragment, source)
	}
}

// WithDepthTestEnabled enables or disables the depth test.
//
// Parameters:
//   - enabled: whether depth testing is enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets depth testing for this pipeline
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

// WithDepthWriteEnabled enables or disables depth writes.
//
// Parameters:
//   - enabled: whether depth writes are enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets depth writes for this pipeline
func WithDepthWriteEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithBlendEnabled enables or disables alpha blending.
//
// Parameters:
//   - enabled: whether blending is enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets blending for this pipeline
func WithBlendEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

// WithCullMode sets the face culling mode.
//
// Parameters:
//   - mode: the cull mode
//
// Returns:
//   - PipelineBuilderOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithDrawMode sets the primitive topology matching a mesh draw mode.
//
// Parameters:
//   - mode: the draw mode
//
// Returns:
//   - PipelineBuilderOption: a function that sets the topology for this pipeline
func WithDrawMode(mode model.DrawMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = TopologyForDrawMode(mode)
	}
}
