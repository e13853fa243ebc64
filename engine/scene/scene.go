package scene

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/snowglobe/common"
	"github.com/Carmen-Shannon/snowglobe/engine/model"
	"github.com/Carmen-Shannon/snowglobe/engine/particle"
	"github.com/Carmen-Shannon/snowglobe/engine/profiler"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer/material"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrNotLoaded is returned by Frame before Load has succeeded.
var ErrNotLoaded = errors.New("scene: not loaded")

// spriteSampler keeps the snowflake's transparent border from wrapping into the sprite.
var spriteSampler = common.SamplerStagingData{
	AddressModeU: wgpu.AddressModeClampToEdge,
	AddressModeV: wgpu.AddressModeClampToEdge,
	AddressModeW: wgpu.AddressModeClampToEdge,
	MagFilter:    wgpu.FilterModeLinear,
	MinFilter:    wgpu.FilterModeLinear,
}

// Pipeline families. Families drawn in every draw mode register one pipeline per mode under
// "<family>/<mode>".
const (
	PipelineLampPost     = "lamppost"
	PipelineGlass        = "glass"
	PipelineGlassBlend   = "glass_blend"
	PipelinePointSprites = "point_sprites"
	PipelineFloor        = "floor"
)

const (
	// DefaultParticleCount is the number of snowflakes in the globe.
	DefaultParticleCount = 1000

	sphereLats  = 60
	sphereLongs = 60

	// every sprite is two triangles generated in the vertex shader
	spriteVertices = 6

	positionSlot = 0
	colorSlot    = 1
)

// meshColor replaces the colours of the imported lamppost and table.
var meshColor = [4]float32{0.8, 0.8, 0.8, 1}

// Assets are the imported meshes and decoded textures the scene is built from.
// A texture with no pixels falls back to plain white.
type Assets struct {
	LampPost *model.Mesh
	Table    *model.Mesh

	Glass     common.TextureStagingData
	Snowflake common.TextureStagingData
	Floor     common.TextureStagingData
	Wall      common.TextureStagingData
	TableWood common.TextureStagingData
	Window    common.TextureStagingData
}

// drawable is one indexed object in the draw list.
type drawable struct {
	model model.Model
	// pipeline family
	family string
	// modal drawables follow State.DrawMode, the rest are always filled
	modal     bool
	transform func(*State) mgl32.Mat4
}

// particles is the instanced snowflake draw.
type particles struct {
	material  material.Material
	instances bind_group_provider.BindGroupProvider
	// generation of the positions last written to the GPU, -1 before the first upload
	uploaded int64
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu sync.Mutex

	name   string
	active bool

	renderer renderer.Renderer
	profiler *profiler.Profiler
	state    *State

	particleCount uint32
	fieldOptions  []particle.FieldBuilderOption
	field         particle.Field

	// before and after are drawn either side of the particles
	before    []*drawable
	after     []*drawable
	particles *particles
	loaded    bool
}

// Scene is the snowglobe: a glass sphere of falling snow on a table in a small room, lit by
// one point light. It owns the State, the particle field and every GPU drawable.
//
// A Scene is driven by a single frame loop. Frame, HandleKey and Resize serialise on an internal
// lock so window callbacks may arrive from the loop's own goroutine between frames.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// State returns the scene's adjustable parameters.
	State() *State

	// Field returns the particle field.
	Field() particle.Field

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// Load registers the scene's pipelines, creates the GPU resources of every drawable and
	// initializes the particle field.
	//
	// Parameters:
	//   - assets: the imported meshes and textures
	//
	// Returns:
	//   - error: an error if an asset is missing or GPU resource creation fails
	Load(assets Assets) error

	// Frame runs one frame: orientation correction, uniform and particle uploads, the draw
	// calls, one simulation step and the angle advance, in that order.
	// Must be called within a BeginFrame/EndFrame block on the renderer.
	//
	// Returns:
	//   - error: ErrNotLoaded before Load, or the first draw or simulation error
	Frame() error

	// HandleKey applies a key event to the State and pushes changed particle parameters to
	// the field.
	//
	// Parameters:
	//   - key: the key code
	//   - action: press, repeat or release
	//
	// Returns:
	//   - KeyEffect: what the key changed
	HandleKey(key uint32, action common.KeyAction) KeyEffect

	// Resize updates the aspect ratio and viewport for a new framebuffer size.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	Resize(width, height int)

	// Release frees every GPU resource owned by the scene's drawables.
	Release()
}

var _ Scene = &scene{}

// NewScene creates a Scene drawing through r. The particle field is created here and
// initialized by Load.
//
// Panics if r is nil.
//
// Parameters:
//   - name: the scene identifier
//   - r: the renderer
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		name:          name,
		active:        true,
		renderer:      r,
		state:         NewState(),
		particleCount: DefaultParticleCount,
	}
	for _, opt := range options {
		opt(s)
	}

	s.field = particle.NewField(s.particleCount, s.state.MaxDistance, s.state.Speed, s.fieldOptions...)
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) State() *State {
	return s.state
}

func (s *scene) Field() particle.Field {
	return s.field
}

func (s *scene) Renderer() renderer.Renderer {
	return s.renderer
}

func (s *scene) Load(assets Assets) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}
	if assets.LampPost == nil || assets.Table == nil {
		return errors.New("scene: Load requires the lamppost and table meshes")
	}

	if err := s.renderer.RegisterPipelines(scenePipelines()...); err != nil {
		return fmt.Errorf("scene %s: %w", s.name, err)
	}

	assets.LampPost.SetColor(meshColor)
	assets.Table.SetColor(meshColor)
	sphere := model.NewSphere(sphereLats, sphereLongs)
	quad := model.NewQuad()

	s.before = []*drawable{
		s.newDrawable("light", sphere, nil, PipelineGlass, true, (*State).LightModel),
		s.newDrawable("lamppost", assets.LampPost, &assets.Glass, PipelineLampPost, true, (*State).LampModel),
		s.newDrawable("table", assets.Table, &assets.TableWood, PipelineLampPost, true, (*State).TableModel),
	}
	s.after = []*drawable{
		s.newDrawable("floor", quad, &assets.Floor, PipelineFloor, false, (*State).FloorModel),
		s.newDrawable("back_wall", quad, &assets.Wall, PipelineFloor, false, (*State).BackWallModel),
		s.newDrawable("side_wall", quad, &assets.Wall, PipelineFloor, false, (*State).SideWallModel),
		s.newDrawable("window", quad, &assets.Window, PipelineFloor, false, (*State).WindowModel),
		s.newDrawable("globe", sphere, nil, PipelineGlassBlend, true, (*State).GlobeModel),
	}

	for _, d := range s.drawables() {
		mat := d.model.Material()
		provider := bind_group_provider.NewBindGroupProvider(d.model.Name() + "/draw")
		if err := s.renderer.InitDrawBindGroup(provider, mat.PipelineKey(), mat.Texture(), mat.Sampler()); err != nil {
			return fmt.Errorf("scene %s: %s: %w", s.name, d.model.Name(), err)
		}
		mat.SetBindGroupProvider(provider)
	}

	if err := s.loadParticles(&assets.Snowflake); err != nil {
		return fmt.Errorf("scene %s: %w", s.name, err)
	}

	s.loaded = true
	return nil
}

func (s *scene) Frame() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}
	st := s.state

	start := time.Now()
	if err := s.field.UpdateOrientation(st.AngleX, st.AngleY, st.AngleZ, st.ParticleRotation()); err != nil {
		return err
	}
	s.profiler.Record(profiler.SectionOrientation, time.Since(start))

	start = time.Now()
	if err := s.draw(); err != nil {
		return err
	}
	s.profiler.Record(profiler.SectionDraw, time.Since(start))

	start = time.Now()
	if err := s.field.Step(); err != nil {
		return err
	}
	s.profiler.Record(profiler.SectionStep, time.Since(start))

	st.Advance()
	return nil
}

func (s *scene) HandleKey(key uint32, action common.KeyAction) KeyEffect {
	s.mu.Lock()
	defer s.mu.Unlock()

	effect := s.state.HandleKey(key, action)
	if effect.ParamsChanged {
		s.field.UpdateParams(s.state.MaxDistance, s.state.Speed)
		log.Printf("speed=%.3f maxdist=%.3f", s.state.Speed, s.state.MaxDistance)
	}
	if effect.ColourModeChanged {
		log.Printf("colourmode=%d", s.state.ColourMode)
	}
	if effect.DrawModeChanged {
		log.Printf("drawmode=%s", s.state.DrawMode)
	}
	return effect
}

func (s *scene) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Resize(width, height)
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.drawables() {
		d.model.Release()
	}
	if s.particles != nil {
		s.particles.instances.Release()
		if p := s.particles.material.BindGroupProvider(); p != nil {
			p.Release()
		}
	}
	s.before, s.after, s.particles = nil, nil, nil
	s.loaded = false
}

// draw uploads this frame's uniforms and records every draw call in scene order.
// The globe comes last so the blended glass covers everything behind it.
func (s *scene) draw() error {
	st := s.state
	view := st.View()
	frame := frameUniform{
		view:       view,
		projection: st.Projection(),
		lightPos:   st.LightPosition(view),
		colourMode: st.ColourMode,
		pointSize:  st.PointSize,
		viewport:   st.Viewport(),
	}

	writes := make([]bind_group_provider.BufferWrite, 0, len(s.before)+len(s.after)+3)
	for _, d := range s.drawables() {
		writes = append(writes, frame.write(d.model.Material(), d.transform(st)))
	}
	writes = append(writes, frame.write(s.particles.material, st.ParticleModel()))
	writes = append(writes, s.particleUploads()...)
	s.renderer.WriteBuffers(writes)

	for _, d := range s.before {
		if err := s.drawMesh(d); err != nil {
			return err
		}
	}
	if err := s.renderer.DrawInstanced(PipelinePointSprites, s.particles.instances, s.particles.material.BindGroupProvider()); err != nil {
		return err
	}
	for _, d := range s.after {
		if err := s.drawMesh(d); err != nil {
			return err
		}
	}
	return nil
}

func (s *scene) drawMesh(d *drawable) error {
	mode := model.DrawModeFill
	if d.modal {
		mode = s.state.DrawMode
	}

	mesh, err := s.meshProvider(d, mode)
	if err != nil {
		return err
	}
	return s.renderer.DrawCall(pipelineKey(d.family, d.modal, mode), mesh, d.model.Material().BindGroupProvider())
}

// meshProvider returns the drawable's buffers for a draw mode, uploading them on first use.
func (s *scene) meshProvider(d *drawable, mode model.DrawMode) (bind_group_provider.BindGroupProvider, error) {
	if p := d.model.MeshProvider(mode); p != nil {
		return p, nil
	}

	mesh := d.model.Mesh()
	indices, count := mesh.IndexData(mode)
	p := bind_group_provider.NewBindGroupProvider(d.model.Name()+"/"+mode.String(), bind_group_provider.WithIndexCount(count))
	if err := s.renderer.InitMeshBuffers(p, mesh.VertexData(), indices, count); err != nil {
		return nil, fmt.Errorf("upload %s mesh: %w", p.Label(), err)
	}
	d.model.SetMeshProvider(mode, p)
	return p, nil
}

// particleUploads returns the position write when the field has stepped since the last upload.
func (s *scene) particleUploads() []bind_group_provider.BufferWrite {
	gen := int64(s.field.Generation())
	if gen == s.particles.uploaded {
		return nil
	}
	s.particles.uploaded = gen
	return []bind_group_provider.BufferWrite{{
		Provider: s.particles.instances,
		Binding:  positionSlot,
		Data:     common.Vec3sToBytes(s.field.Positions()),
	}}
}

func (s *scene) loadParticles(texture *common.TextureStagingData) error {
	if !s.field.Initialized() {
		if err := s.field.Init(); err != nil {
			return err
		}
	}

	mat := material.NewMaterial(append(textureOptions(texture),
		material.WithName("particles"),
		material.WithPipelineKey(PipelinePointSprites),
		material.WithAlpha(s.state.Alpha),
		material.WithSampler(spriteSampler),
	)...)
	draw := bind_group_provider.NewBindGroupProvider("particles/draw")
	if err := s.renderer.InitDrawBindGroup(draw, PipelinePointSprites, mat.Texture(), mat.Sampler()); err != nil {
		return fmt.Errorf("particles: %w", err)
	}
	mat.SetBindGroupProvider(draw)

	instances := bind_group_provider.NewBindGroupProvider("particles/instances")
	strides := []uint64{model.ParticleInstanceStride, model.ParticleInstanceStride}
	if err := s.renderer.InitInstanceBuffers(instances, strides, spriteVertices, int(s.field.Count())); err != nil {
		return fmt.Errorf("particles: %w", err)
	}

	// colours never change after Init
	s.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: instances,
		Binding:  colorSlot,
		Data:     common.Vec3sToBytes(s.field.Colors()),
	}})

	s.particles = &particles{material: mat, instances: instances, uploaded: -1}
	return nil
}

func (s *scene) newDrawable(name string, mesh *model.Mesh, texture *common.TextureStagingData, family string, modal bool, transform func(*State) mgl32.Mat4) *drawable {
	mat := material.NewMaterial(append(textureOptions(texture),
		material.WithName(name),
		material.WithPipelineKey(pipelineKey(family, modal, model.DrawModeFill)),
		material.WithAlpha(s.state.Alpha),
	)...)
	return &drawable{
		model:     model.NewModel(model.WithName(name), model.WithMesh(mesh), model.WithMaterial(mat)),
		family:    family,
		modal:     modal,
		transform: transform,
	}
}

// drawables lists the indexed drawables in draw order.
func (s *scene) drawables() []*drawable {
	return append(append([]*drawable{}, s.before...), s.after...)
}

// frameUniform holds the uniform values shared by every draw of one frame.
type frameUniform struct {
	view, projection mgl32.Mat4
	lightPos         mgl32.Vec4
	colourMode       uint32
	pointSize        float32
	viewport         [2]float32
}

// write builds the uniform write of one draw.
func (f frameUniform) write(mat material.Material, m mgl32.Mat4) bind_group_provider.BufferWrite {
	u := material.GPUDrawUniform{
		Model:      [16]float32(m),
		View:       [16]float32(f.view),
		Projection: [16]float32(f.projection),
		LightPos:   [4]float32(f.lightPos),
		ColourMode: f.colourMode,
		Alpha:      mat.Alpha(),
		PointSize:  f.pointSize,
		Viewport:   f.viewport,
	}
	u.SetNormalMatrix(common.NormalMatrix(f.view, m))
	return bind_group_provider.BufferWrite{
		Provider: mat.BindGroupProvider(),
		Binding:  0,
		Data:     u.Marshal(),
	}
}

// pipelineKey names the pipeline a family is drawn with in a draw mode.
func pipelineKey(family string, modal bool, mode model.DrawMode) string {
	if !modal {
		return family
	}
	return family + "/" + mode.String()
}

// scenePipelines builds every pipeline the scene draws with. The light marker uses the glass
// shader without blending; blending is on from the particles onward.
func scenePipelines() []pipeline.Pipeline {
	var pipelines []pipeline.Pipeline
	modal := []struct {
		family string
		source string
		blend  bool
	}{
		{PipelineLampPost, shader.LampPostSource, false},
		{PipelineGlass, shader.GlassSource, false},
		{PipelineGlassBlend, shader.GlassSource, true},
	}
	for _, m := range modal {
		for mode := model.DrawModeFill; mode < model.DrawModeCount; mode++ {
			pipelines = append(pipelines, pipeline.NewPipeline(pipelineKey(m.family, true, mode),
				pipeline.WithSource(m.source),
				pipeline.WithDrawMode(mode),
				pipeline.WithBlendEnabled(m.blend),
			))
		}
	}

	return append(pipelines,
		pipeline.NewPipeline(PipelinePointSprites,
			pipeline.WithSource(shader.PointSpritesSource),
			pipeline.WithBlendEnabled(true),
		),
		pipeline.NewPipeline(PipelineFloor,
			pipeline.WithSource(shader.FloorSource),
			pipeline.WithBlendEnabled(true),
		),
	)
}

// textureOptions returns the material option for a texture, or none for a missing one.
func textureOptions(texture *common.TextureStagingData) []material.MaterialBuilderOption {
	if texture == nil || len(texture.Pixels) == 0 {
		return nil
	}
	return []material.MaterialBuilderOption{material.WithTexture(*texture)}
}
