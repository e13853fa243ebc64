package scene

import (
	"errors"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/snowglobe/common"
	"github.com/Carmen-Shannon/snowglobe/engine/model"
	"github.com/Carmen-Shannon/snowglobe/engine/particle"
	"github.com/Carmen-Shannon/snowglobe/engine/profiler"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer/pipeline"
	"github.com/go-gl/mathgl/mgl32"
)

// fakeRenderer records what a scene asks of the GPU.
type fakeRenderer struct {
	pipelines   map[string]pipeline.Pipeline
	bindGroups  []string
	meshUploads []string
	samplers    map[string]common.SamplerStagingData
	writes      []bind_group_provider.BufferWrite
	draws       []string
	drawErr     error
}

var _ renderer.Renderer = &fakeRenderer{}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		pipelines: make(map[string]pipeline.Pipeline),
		samplers:  make(map[string]common.SamplerStagingData),
	}
}

func (f *fakeRenderer) Pipeline(key string) pipeline.Pipeline { return f.pipelines[key] }

func (f *fakeRenderer) Pipelines() map[string]pipeline.Pipeline { return f.pipelines }

func (f *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		f.pipelines[p.PipelineKey()] = p
	}
	return nil
}

func (f *fakeRenderer) Resize(width, height int) {}

func (f *fakeRenderer) SetPresentMode(mode renderer.PresentMode) {}

func (f *fakeRenderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	f.meshUploads = append(f.meshUploads, provider.Label())
	provider.SetIndexCount(indexCount)
	return nil
}

func (f *fakeRenderer) InitInstanceBuffers(provider bind_group_provider.BindGroupProvider, strides []uint64, vertexCount, instanceCount int) error {
	provider.SetVertexCount(vertexCount)
	provider.SetInstanceCount(instanceCount)
	return nil
}

func (f *fakeRenderer) InitDrawBindGroup(provider bind_group_provider.BindGroupProvider, pipelineKey string, texture common.TextureStagingData, sampler common.SamplerStagingData) error {
	if _, ok := f.pipelines[pipelineKey]; !ok {
		return errors.New("unknown pipeline " + pipelineKey)
	}
	f.bindGroups = append(f.bindGroups, provider.Label())
	f.samplers[provider.Label()] = sampler
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes...)
}

func (f *fakeRenderer) BeginFrame() error { return nil }

func (f *fakeRenderer) DrawCall(key string, mesh bind_group_provider.BindGroupProvider, bindGroups ...bind_group_provider.BindGroupProvider) error {
	if f.drawErr != nil {
		return f.drawErr
	}
	f.draws = append(f.draws, key)
	return nil
}

func (f *fakeRenderer) DrawInstanced(key string, instances bind_group_provider.BindGroupProvider, bindGroups ...bind_group_provider.BindGroupProvider) error {
	f.draws = append(f.draws, key)
	return nil
}

func (f *fakeRenderer) EndFrame() {}

func (f *fakeRenderer) Present() {}

func (f *fakeRenderer) Release() {}

func testAssets() Assets {
	return Assets{
		LampPost:  model.NewSphere(4, 4),
		Table:     model.NewQuad(),
		Snowflake: common.WhiteTexture(),
	}
}

func loadedScene(t *testing.T, options ...SceneBuilderOption) (*scene, *fakeRenderer) {
	t.Helper()
	r := newFakeRenderer()
	s := NewScene("test", r, append([]SceneBuilderOption{WithParticleCount(50), WithSeed(1)}, options...)...).(*scene)
	if err := s.Load(testAssets()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return s, r
}

func TestNewSceneRequiresRenderer(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Expected NewScene to panic on a nil renderer")
		}
	}()
	NewScene("nil", nil)
}

func TestNewSceneOptions(t *testing.T) {
	s := NewScene("opts", newFakeRenderer(),
		WithParticleCount(10),
		WithMaxDistance(0.3),
		WithSpeed(2),
		WithPointSize(4),
		WithActive(false),
	)

	if s.Field().Count() != 10 || s.Field().MaxDistance() != 0.3 || s.Field().Speed() != 2 {
		t.Errorf("Expected field 10/0.3/2, got %d/%v/%v", s.Field().Count(), s.Field().MaxDistance(), s.Field().Speed())
	}
	if s.State().PointSize != 4 {
		t.Errorf("Expected point size 4, got %v", s.State().PointSize)
	}
	if s.Active() {
		t.Errorf("Expected an inactive scene")
	}
	if s.Field().Initialized() {
		t.Errorf("Expected the field to wait for Load")
	}
}

func TestNewSceneWithState(t *testing.T) {
	st := NewState()
	st.X, st.Scaler = 0.5, 2
	red := mgl32.Vec3{1, 0, 0}

	s := NewScene("custom", newFakeRenderer(),
		WithState(st),
		WithSpeed(3),
		WithParticleCount(4),
		WithFieldOptions(particle.WithColor(red)),
	)
	if s.State() != st {
		t.Fatalf("Expected the supplied state to be used")
	}
	if st.Speed != 3 || s.Field().Speed() != 3 {
		t.Errorf("Expected options after WithState to adjust it, got state %v field %v", st.Speed, s.Field().Speed())
	}

	if err := s.Load(testAssets()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for i, c := range s.Field().Colors() {
		if c != red {
			t.Errorf("particle %d color\nhave %v\nwant %v", i, c, red)
		}
	}
}

func TestFrameBeforeLoad(t *testing.T) {
	s := NewScene("early", newFakeRenderer())
	if err := s.Frame(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Expected ErrNotLoaded, got %v", err)
	}
}

func TestLoadRequiresMeshes(t *testing.T) {
	s := NewScene("bare", newFakeRenderer())
	if err := s.Load(Assets{}); err == nil {
		t.Errorf("Expected an error for missing meshes")
	}
}

func TestLoad(t *testing.T) {
	s, r := loadedScene(t)

	wantPipelines := []string{
		"lamppost/fill", "lamppost/lines", "lamppost/points",
		"glass/fill", "glass/lines", "glass/points",
		"glass_blend/fill", "glass_blend/lines", "glass_blend/points",
		PipelinePointSprites, PipelineFloor,
	}
	if len(r.pipelines) != len(wantPipelines) {
		t.Errorf("Expected %d pipelines, got %d", len(wantPipelines), len(r.pipelines))
	}
	for _, key := range wantPipelines {
		if r.pipelines[key] == nil {
			t.Errorf("Expected pipeline %q to be registered", key)
		}
	}

	if !r.pipelines["glass_blend/fill"].BlendEnabled() || r.pipelines["glass/fill"].BlendEnabled() {
		t.Errorf("Expected only the globe's glass pipeline to blend")
	}

	if len(r.bindGroups) != 9 {
		t.Errorf("Expected 9 draw bind groups, got %d: %v", len(r.bindGroups), r.bindGroups)
	}
	if !s.Field().Initialized() {
		t.Errorf("Expected Load to initialize the field")
	}
	if r.samplers["particles/draw"] != spriteSampler {
		t.Errorf("Expected the particles to sample with clamped edges")
	}

	// the colour upload happens once at load time
	if len(r.writes) != 1 || r.writes[0].Binding != colorSlot || len(r.writes[0].Data) != 50*12 {
		t.Errorf("Expected one colour upload of 600 bytes, got %d writes", len(r.writes))
	}

	for _, c := range s.before[1].model.Mesh().Vertices {
		if c.Color != meshColor {
			t.Fatalf("Expected the lamppost colour overridden, got %v", c.Color)
		}
	}
}

func TestFrameDrawOrder(t *testing.T) {
	s, r := loadedScene(t)

	if err := s.Frame(); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}

	want := []string{
		"glass/fill", "lamppost/fill", "lamppost/fill",
		PipelinePointSprites,
		PipelineFloor, PipelineFloor, PipelineFloor, PipelineFloor,
		"glass_blend/fill",
	}
	if !slices.Equal(r.draws, want) {
		t.Fatalf("draw order mismatch:\nhave %v\nwant %v", r.draws, want)
	}
}

func TestFrameStepsAndAdvances(t *testing.T) {
	s, _ := loadedScene(t)
	s.state.AngleIncY = 2

	for range 3 {
		if err := s.Frame(); err != nil {
			t.Fatalf("Frame failed: %v", err)
		}
	}

	if s.Field().Generation() != 3 {
		t.Errorf("Expected generation 3, got %d", s.Field().Generation())
	}
	if s.state.AngleY != 6 {
		t.Errorf("Expected angle y 6, got %v", s.state.AngleY)
	}
}

func TestFrameFollowsDrawMode(t *testing.T) {
	s, r := loadedScene(t)
	if err := s.Frame(); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	uploads := len(r.meshUploads)

	s.HandleKey(common.KeyN, common.KeyRelease)
	r.draws = nil
	if err := s.Frame(); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}

	if r.draws[0] != "glass/lines" || r.draws[1] != "lamppost/lines" || r.draws[8] != "glass_blend/lines" {
		t.Errorf("Expected modal draws in lines mode, got %v", r.draws)
	}
	if r.draws[4] != PipelineFloor {
		t.Errorf("Expected the floor to stay filled, got %q", r.draws[4])
	}
	// light, lamppost, table and globe upload their edge buffers
	if got := len(r.meshUploads) - uploads; got != 4 {
		t.Errorf("Expected 4 new mesh uploads, got %d", got)
	}

	r.draws = nil
	if err := s.Frame(); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if got := len(r.meshUploads) - uploads; got != 4 {
		t.Errorf("Expected mesh buffers to be reused, got %d uploads", got)
	}
}

func TestParticleUploadsFollowGeneration(t *testing.T) {
	s, _ := loadedScene(t)

	first := s.particleUploads()
	if len(first) != 1 || first[0].Binding != positionSlot {
		t.Fatalf("Expected the first position upload, got %d writes", len(first))
	}
	if len(s.particleUploads()) != 0 {
		t.Errorf("Expected no upload while the generation is unchanged")
	}

	if err := s.field.Step(); err != nil {
		t.Fatal(err)
	}
	if len(s.particleUploads()) != 1 {
		t.Errorf("Expected an upload after Step")
	}
}

func TestFrameWritesUniforms(t *testing.T) {
	s, r := loadedScene(t)
	s.state.ColourMode = 1
	r.writes = nil

	if err := s.Frame(); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}

	// 8 drawables, the particle uniform and the position upload
	if want := len(s.before) + len(s.after) + 2; len(r.writes) != 10 || len(r.writes) != want {
		t.Fatalf("Expected 10 writes, got %d", len(r.writes))
	}
	u := r.writes[0].Data
	if len(u) != 288 {
		t.Fatalf("Expected a 288-byte uniform, got %d", len(u))
	}
	if u[256] != 1 {
		t.Errorf("Expected colour mode 1 in the uniform, got %d", u[256])
	}
}

func TestFrameReturnsDrawErrors(t *testing.T) {
	s, r := loadedScene(t)
	r.drawErr = errors.New("lost device")

	if err := s.Frame(); err == nil {
		t.Errorf("Expected the draw error")
	}
	if s.Field().Generation() != 0 {
		t.Errorf("Expected no step after a failed draw")
	}
}

func TestHandleKeyUpdatesField(t *testing.T) {
	s, _ := loadedScene(t)

	effect := s.HandleKey(common.KeyG, common.KeyPress)
	if !effect.ParamsChanged {
		t.Errorf("Expected ParamsChanged")
	}
	if !mgl32.FloatEqualThreshold(s.Field().Speed(), 0.55, epsilon) {
		t.Errorf("Expected field speed 0.55, got %v", s.Field().Speed())
	}

	s.HandleKey(common.KeyJ, common.KeyPress)
	if !mgl32.FloatEqualThreshold(s.Field().MaxDistance(), 0.167, epsilon) {
		t.Errorf("Expected field max distance 0.167, got %v", s.Field().MaxDistance())
	}
}

func TestFrameRecordsSections(t *testing.T) {
	p := profiler.NewProfiler()
	s, _ := loadedScene(t, WithProfiler(p), WithParticleCount(5000))
	s.state.AngleX = 45

	if err := s.Frame(); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if p.Mean(profiler.SectionStep) <= 0 || p.Mean(profiler.SectionDraw) <= 0 {
		t.Errorf("Expected step and draw timings to be recorded")
	}
}

func TestRelease(t *testing.T) {
	s, _ := loadedScene(t)
	s.Release()

	if err := s.Frame(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Expected ErrNotLoaded after Release, got %v", err)
	}
}
