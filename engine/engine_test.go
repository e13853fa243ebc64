package engine

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/Carmen-Shannon/snowglobe/common"
	"github.com/Carmen-Shannon/snowglobe/engine/particle"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/snowglobe/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// calls is a shared log of the fakes' method calls.
type calls []string

func (c *calls) add(s string) { *c = append(*c, s) }

type fakeWindow struct {
	onUpdate func()
	onResize func(width, height int)
	onKey    func(key uint32, action common.KeyAction)
	closes   int
}

func (w *fakeWindow) SetUpdateCallback(callback func())                 { w.onUpdate = callback }
func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) { w.onResize = callback }
func (w *fakeWindow) SetKeyCallback(callback func(key uint32, action common.KeyAction)) {
	w.onKey = callback
}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) IsRunning() bool                            { return w.closes == 0 }
func (w *fakeWindow) RequestClose()                              { w.closes++ }
func (w *fakeWindow) Close() error                               { return nil }
func (w *fakeWindow) ProcessMessages() {
	for range 3 {
		if !w.IsRunning() {
			return
		}
		w.onUpdate()
	}
}
func (w *fakeWindow) Width() int  { return 1024 }
func (w *fakeWindow) Height() int { return 768 }

type fakeRenderer struct {
	log      *calls
	beginErr error
}

func (r *fakeRenderer) Pipeline(key string) pipeline.Pipeline                 { return nil }
func (r *fakeRenderer) Pipelines() map[string]pipeline.Pipeline               { return nil }
func (r *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error { return nil }
func (r *fakeRenderer) Resize(width, height int)                              { r.log.add("resize renderer") }
func (r *fakeRenderer) SetPresentMode(mode renderer.PresentMode)              {}
func (r *fakeRenderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return nil
}
func (r *fakeRenderer) InitInstanceBuffers(provider bind_group_provider.BindGroupProvider, strides []uint64, vertexCount, instanceCount int) error {
	return nil
}
func (r *fakeRenderer) InitDrawBindGroup(provider bind_group_provider.BindGroupProvider, pipelineKey string, texture common.TextureStagingData, sampler common.SamplerStagingData) error {
	return nil
}
func (r *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {}
func (r *fakeRenderer) BeginFrame() error {
	r.log.add("begin")
	return r.beginErr
}
func (r *fakeRenderer) DrawCall(key string, mesh bind_group_provider.BindGroupProvider, bindGroups ...bind_group_provider.BindGroupProvider) error {
	return nil
}
func (r *fakeRenderer) DrawInstanced(key string, instances bind_group_provider.BindGroupProvider, bindGroups ...bind_group_provider.BindGroupProvider) error {
	return nil
}
func (r *fakeRenderer) EndFrame() { r.log.add("end") }
func (r *fakeRenderer) Present()  { r.log.add("present") }
func (r *fakeRenderer) Release()  {}

type fakeScene struct {
	name     string
	log      *calls
	renderer renderer.Renderer
	active   bool
	frameErr error
	panics   bool
}

func (s *fakeScene) Name() string                      { return s.name }
func (s *fakeScene) Active() bool                      { return s.active }
func (s *fakeScene) SetActive(active bool)             { s.active = active }
func (s *fakeScene) State() *scene.State               { return nil }
func (s *fakeScene) Field() particle.Field             { return nil }
func (s *fakeScene) Renderer() renderer.Renderer       { return s.renderer }
func (s *fakeScene) Load(assets scene.Assets) error    { return nil }
func (s *fakeScene) Resize(width, height int)          { s.log.add("resize " + s.name) }
func (s *fakeScene) Release()                          {}
func (s *fakeScene) HandleKey(key uint32, action common.KeyAction) scene.KeyEffect {
	s.log.add("key " + s.name)
	return scene.KeyEffect{Handled: true}
}
func (s *fakeScene) Frame() error {
	if s.panics {
		panic("device lost")
	}
	s.log.add("frame " + s.name)
	return s.frameErr
}

func newTestEngine(scenes ...*fakeScene) (*engine, *fakeWindow, *calls) {
	log := &calls{}
	w := &fakeWindow{}
	r := &fakeRenderer{log: log}
	options := []EngineBuilderOption{WithWindow(w)}
	for i, s := range scenes {
		s.log = log
		if s.renderer == nil {
			s.renderer = r
		}
		options = append(options, WithScene(i, s))
	}
	return NewEngine(options...).(*engine), w, log
}

func TestRenderFrameOrder(t *testing.T) {
	_, w, log := newTestEngine(
		&fakeScene{name: "a", active: true},
		&fakeScene{name: "b"},
		&fakeScene{name: "c", active: true},
	)

	w.onUpdate()

	want := calls{"begin", "frame a", "frame c", "end", "present"}
	if !slices.Equal(*log, want) {
		t.Fatalf("frame mismatch:\nhave %v\nwant %v", *log, want)
	}
	if w.closes != 0 {
		t.Errorf("Expected the window to stay open")
	}
}

func TestRenderFrameSkipsScenesWhenBeginFails(t *testing.T) {
	r := &fakeRenderer{beginErr: errors.New("surface outdated")}
	_, w, log := newTestEngine(&fakeScene{name: "a", active: true, renderer: r})
	r.log = log

	w.onUpdate()

	if !slices.Equal(*log, calls{"begin"}) {
		t.Errorf("Expected only BeginFrame, got %v", *log)
	}
}

func TestRenderFrameQuitsOnSceneError(t *testing.T) {
	e, w, log := newTestEngine(&fakeScene{name: "a", active: true, frameErr: errors.New("broken")})

	w.onUpdate()
	w.onUpdate()

	if w.closes != 1 {
		t.Errorf("Expected one close request, got %d", w.closes)
	}
	// the frame is still submitted, the second iteration does nothing
	want := calls{"begin", "frame a", "end", "present"}
	if !slices.Equal(*log, want) {
		t.Errorf("frame mismatch:\nhave %v\nwant %v", *log, want)
	}
	select {
	case <-e.quitChannel:
	default:
		t.Errorf("Expected the quit channel to be closed")
	}
}

func TestRenderFrameRecoversPanics(t *testing.T) {
	_, w, _ := newTestEngine(&fakeScene{name: "a", active: true, panics: true})

	w.onUpdate()

	if w.closes != 1 {
		t.Errorf("Expected the panic to quit the engine, got %d close requests", w.closes)
	}
}

func TestRunStopsWithWindow(t *testing.T) {
	e, w, log := newTestEngine(&fakeScene{name: "a", active: true})

	e.Run()

	frames := 0
	for _, c := range *log {
		if c == "frame a" {
			frames++
		}
	}
	if frames != 3 {
		t.Errorf("Expected 3 frames, got %d", frames)
	}
	if w.closes != 1 {
		t.Errorf("Expected Run to quit once the loop ends, got %d close requests", w.closes)
	}
}

func TestQuitIsIdempotent(t *testing.T) {
	e, w, _ := newTestEngine()
	e.Quit()
	e.Quit()
	if w.closes != 1 {
		t.Errorf("Expected one close request, got %d", w.closes)
	}
}

func TestResizePropagation(t *testing.T) {
	_, w, log := newTestEngine(
		&fakeScene{name: "a", active: true},
		&fakeScene{name: "b"},
	)

	w.onResize(800, 600)

	want := calls{"resize renderer", "resize a", "resize b"}
	if !slices.Equal(*log, want) {
		t.Fatalf("resize mismatch:\nhave %v\nwant %v", *log, want)
	}
}

func TestKeysRouteToActiveScenes(t *testing.T) {
	_, w, log := newTestEngine(
		&fakeScene{name: "a"},
		&fakeScene{name: "b", active: true},
	)

	w.onKey(common.KeyQ, common.KeyPress)

	if !slices.Equal(*log, calls{"key b"}) {
		t.Errorf("Expected only the active scene to receive the key, got %v", *log)
	}
}

func TestRenderFrameLimit(t *testing.T) {
	e, w, _ := newTestEngine(&fakeScene{name: "a", active: true})
	e.SetRenderFrameLimit(50)
	if e.renderFrameLimit != 20*time.Millisecond {
		t.Fatalf("Expected 20ms, got %v", e.renderFrameLimit)
	}

	var slept time.Duration
	e.sleep = func(d time.Duration) { slept = d }
	w.onUpdate()
	if slept <= 0 || slept > 20*time.Millisecond {
		t.Errorf("Expected a sleep within the frame budget, got %v", slept)
	}

	e.SetRenderFrameLimit(0)
	if e.renderFrameLimit != 0 {
		t.Errorf("Expected uncapped, got %v", e.renderFrameLimit)
	}
}

func TestSceneRegistry(t *testing.T) {
	e, _, _ := newTestEngine()
	s := &fakeScene{name: "x"}

	e.AddScene(5, s)
	if e.Scene(5) != s || len(e.Scenes()) != 1 {
		t.Errorf("Expected the scene at key 5")
	}
	e.RemoveScene(5)
	if e.Scene(5) != nil {
		t.Errorf("Expected the scene removed")
	}
}

func TestFrameCallback(t *testing.T) {
	e, w, _ := newTestEngine(&fakeScene{name: "a", active: true})

	var deltas []float32
	e.SetFrameCallback(func(deltaTime float32) {
		deltas = append(deltas, deltaTime)
	})
	w.onUpdate()
	w.onUpdate()

	if len(deltas) != 2 {
		t.Fatalf("Expected 2 callbacks, got %d", len(deltas))
	}
	if deltas[0] != 0 || deltas[1] < 0 {
		t.Errorf("Expected a zero first delta and a non-negative second, got %v", deltas)
	}
}

func TestProfilerToggle(t *testing.T) {
	e, _, _ := newTestEngine()

	e.EnableProfiler()
	if !e.profilingEnabled {
		t.Errorf("Expected profiling enabled")
	}
	e.DisableProfiler()
	if e.profilingEnabled {
		t.Errorf("Expected profiling disabled")
	}
}
