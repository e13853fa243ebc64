package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/snowglobe/common"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// DrawGroup is the bind group index holding each draw's uniform, texture and sampler.
const DrawGroup = 0

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer defines the interface for the rendering system.
//
// The Renderer owns the GPU device and a cache of registered pipelines. Drawables hand it
// BindGroupProviders to fill with GPU resources and later draw them by pipeline key between
// BeginFrame and EndFrame.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines returns a copy of the pipeline cache.
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines creates the GPU objects for each pipeline and caches them by PipelineKey.
	// Keys that are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface for a new framebuffer size.
	Resize(width, height int)

	// SetPresentMode changes the present mode, taking effect on the next Resize.
	SetPresentMode(mode PresentMode)

	// InitMeshBuffers uploads a mesh's vertex and index data into the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider that will own the buffers
	//   - vertexData: marshalled vertices
	//   - indexData: marshalled uint32 indices
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitInstanceBuffers creates the per-instance vertex buffers of an instanced draw, one per
	// slot, sized stride*instanceCount, and records the vertex and instance counts on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider that will own the buffers
	//   - strides: the per-instance byte stride of each vertex buffer slot
	//   - vertexCount: vertices drawn per instance
	//   - instanceCount: the number of instances
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitInstanceBuffers(provider bind_group_provider.BindGroupProvider, strides []uint64, vertexCount, instanceCount int) error

	// InitDrawBindGroup fills the provider with the draw bind group of the given pipeline:
	// a uniform buffer per buffer binding, the texture at every texture binding and the sampler
	// at every sampler binding.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to populate
	//   - pipelineKey: a registered pipeline whose draw group layout is used
	//   - texture: the pixels bound to the texture bindings
	//   - sampler: the configuration of the sampler bindings
	//
	// Returns:
	//   - error: an error if the pipeline is unknown or GPU object creation fails
	InitDrawBindGroup(provider bind_group_provider.BindGroupProvider, pipelineKey string, texture common.TextureStagingData, sampler common.SamplerStagingData) error

	// WriteBuffers queues data writes into provider buffers.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next surface texture and opens the frame's render pass.
	//
	// Returns:
	//   - error: an error if the surface texture could not be acquired
	BeginFrame() error

	// DrawCall records an indexed draw of mesh with the pipeline stored under key.
	//
	// Parameters:
	//   - key: the pipeline key
	//   - mesh: the provider holding vertex and index buffers
	//   - bindGroups: the bind groups, in group order
	//
	// Returns:
	//   - error: an error if no pipeline is registered under key
	DrawCall(key string, mesh bind_group_provider.BindGroupProvider, bindGroups ...bind_group_provider.BindGroupProvider) error

	// DrawInstanced records an instanced, non-indexed draw with the pipeline stored under key.
	//
	// Parameters:
	//   - key: the pipeline key
	//   - instances: the provider holding per-instance buffers and counts
	//   - bindGroups: the bind groups, in group order
	//
	// Returns:
	//   - error: an error if no pipeline is registered under key
	DrawInstanced(key string, instances bind_group_provider.BindGroupProvider, bindGroups ...bind_group_provider.BindGroupProvider) error

	// EndFrame closes the render pass and submits the frame.
	EndFrame()

	// Present shows the submitted frame.
	Present()

	// Release frees every cached pipeline and the GPU device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the given surface and configures the surface at the
// source's current size.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - surface: the surface source, normally the window
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, surface SurfaceSource, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
	}

	// options first so forceFallbackAdapter is known before the adapter request
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(surface.Width(), surface.Height())
	return r
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]pipeline.Pipeline, len(r.pipelineCache))
	for k, p := range r.pipelineCache {
		out[k] = p
	}
	return out
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if existing, ok := r.pipelineCache[key]; ok && existing.RenderPipeline() != nil {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("register pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitInstanceBuffers(provider bind_group_provider.BindGroupProvider, strides []uint64, vertexCount, instanceCount int) error {
	if err := r.backend.InitInstanceBuffers(provider, instanceBufferSizes(strides, instanceCount)); err != nil {
		return err
	}
	provider.SetVertexCount(vertexCount)
	provider.SetInstanceCount(instanceCount)
	return nil
}

func (r *renderer) InitDrawBindGroup(provider bind_group_provider.BindGroupProvider, pipelineKey string, texture common.TextureStagingData, sampler common.SamplerStagingData) error {
	p := r.Pipeline(pipelineKey)
	if p == nil {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}

	descriptor, ok := drawGroupLayout(p)
	if !ok {
		return fmt.Errorf("render pipeline %q declares no bind group %d", pipelineKey, DrawGroup)
	}

	for _, entry := range descriptor.Entries {
		binding := int(entry.Binding)
		switch classifyEntry(entry) {
		case bindingKindTexture:
			if provider.TextureView(binding) != nil {
				continue
			}
			if err := r.backend.InitTextureView(provider, binding, texture); err != nil {
				return fmt.Errorf("init texture for %s: %w", provider.Label(), err)
			}
		case bindingKindSampler:
			if provider.Sampler(binding) != nil {
				continue
			}
			if err := r.backend.InitSampler(provider, binding, sampler); err != nil {
				return fmt.Errorf("init sampler for %s: %w", provider.Label(), err)
			}
		}
	}

	return r.backend.InitBindGroup(provider, pipelineKey, DrawGroup, descriptor)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(key string, mesh bind_group_provider.BindGroupProvider, bindGroups ...bind_group_provider.BindGroupProvider) error {
	p, err := r.registered(key)
	if err != nil {
		return err
	}
	r.backend.DrawCall(p, mesh, bindGroups)
	return nil
}

func (r *renderer) DrawInstanced(key string, instances bind_group_provider.BindGroupProvider, bindGroups ...bind_group_provider.BindGroupProvider) error {
	p, err := r.registered(key)
	if err != nil {
		return err
	}
	r.backend.DrawInstanced(p, instances, bindGroups)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()
	r.backend.Release()
}

func (r *renderer) registered(key string) (pipeline.Pipeline, error) {
	p := r.Pipeline(key)
	if p == nil || p.RenderPipeline() == nil {
		return nil, fmt.Errorf("render pipeline %q not found in cache", key)
	}
	return p, nil
}

// drawGroupLayout returns the merged vertex and fragment layout of the pipeline's draw group.
func drawGroupLayout(p pipeline.Pipeline) (wgpu.BindGroupLayoutDescriptor, bool) {
	vs := p.Shader(shader.ShaderTypeVertex)
	fs := p.Shader(shader.ShaderTypeFragment)
	if vs == nil || fs == nil {
		return wgpu.BindGroupLayoutDescriptor{}, false
	}
	desc, ok := mergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())[DrawGroup]
	return desc, ok
}

// instanceBufferSizes turns per-slot strides into buffer sizes for instanceCount instances.
// A zero instance count still allocates one element so the buffers are never empty.
func instanceBufferSizes(strides []uint64, instanceCount int) []uint64 {
	n := uint64(max(instanceCount, 1))
	sizes := make([]uint64, len(strides))
	for i, stride := range strides {
		sizes[i] = stride * n
	}
	return sizes
}
