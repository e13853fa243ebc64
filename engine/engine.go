package engine

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/snowglobe/common"
	"github.com/Carmen-Shannon/snowglobe/engine/profiler"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer"
	"github.com/Carmen-Shannon/snowglobe/engine/scene"
	"github.com/Carmen-Shannon/snowglobe/engine/window"
)

// engine implements the Engine interface.
type engine struct {
	mu sync.Mutex

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	frameCallback func(deltaTime float32)

	scenes map[int]scene.Scene

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastFrame        time.Time
	sleep            func(time.Duration)
}

// Engine is the main entry point for the engine.
// It runs the frame loop on the window's message loop: every iteration polls window events,
// then renders one frame of every active scene. Input, resize and rendering therefore all
// happen on one goroutine and scenes never see concurrent calls.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Profiler returns the profiler ticked once per frame.
	Profiler() *profiler.Profiler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetFrameCallback registers the function called after each rendered frame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetFrameCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key.
	// Scenes are rendered in ascending key order during the render loop.
	//
	// Parameters:
	//   - key: the z-index determining render order (lower renders first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	Scenes() map[int]scene.Scene

	// Run starts the frame loop and blocks until the window closes or Quit is called.
	// Panics if the engine has no window.
	Run()

	// Quit stops the frame loop and asks the window to close.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// When a window is supplied its key and resize callbacks are routed to the scenes.
//
// Parameters:
//   - options: functional options for engine configuration (window, scenes, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel: make(chan struct{}),
		scenes:      make(map[int]scene.Scene),
		profiler:    profiler.NewProfiler(),
		sleep:       time.Sleep,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.resize)
		e.window.SetKeyCallback(e.handleKey)
		e.window.SetUpdateCallback(e.renderFrame)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) Run() {
	if e.window == nil {
		panic("engine: Run requires a window")
	}
	e.lastFrame = time.Now()
	e.window.ProcessMessages()
	e.Quit()
}

// Quit closes the quit channel and requests the window to close.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

// renderFrame draws one frame of every active scene. The first active scene's renderer owns
// the frame: BeginFrame once, Frame for each scene, EndFrame and Present once.
// Recovers from panics to avoid crashing the process and quits on recovery.
func (e *engine) renderFrame() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render loop recovered from panic: %v", r)
			e.Quit()
		}
	}()

	select {
	case <-e.quitChannel:
		return
	default:
	}

	now := time.Now()
	if e.lastFrame.IsZero() {
		e.lastFrame = now
	}
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now

	active := e.activeScenes()
	if len(active) > 0 {
		if frameRenderer := active[0].Renderer(); frameRenderer != nil {
			if err := frameRenderer.BeginFrame(); err != nil {
				log.Printf("begin frame: %v", err)
			} else {
				for _, s := range active {
					if err := s.Frame(); err != nil {
						log.Printf("scene %s: %v", s.Name(), err)
						e.Quit()
						break
					}
				}
				frameRenderer.EndFrame()
				frameRenderer.Present()
			}
		}
	}

	if e.frameCallback != nil {
		e.frameCallback(dt)
	}

	if e.profilingEnabled {
		e.profiler.Tick()
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
			e.sleep(remaining)
		}
	}
}

// resize reconfigures each distinct renderer once and updates every scene's aspect ratio.
func (e *engine) resize(width, height int) {
	resized := make(map[renderer.Renderer]bool)
	for _, s := range e.sortedScenes() {
		if r := s.Renderer(); r != nil && !resized[r] {
			r.Resize(width, height)
			resized[r] = true
		}
		s.Resize(width, height)
	}
}

// handleKey routes a key event to the active scenes.
func (e *engine) handleKey(key uint32, action common.KeyAction) {
	for _, s := range e.activeScenes() {
		s.HandleKey(key, action)
	}
}

// sortedScenes returns the scenes in ascending z-index order.
func (e *engine) sortedScenes() []scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]scene.Scene, 0, len(keys))
	for _, k := range keys {
		out = append(out, e.scenes[k])
	}
	return out
}

func (e *engine) activeScenes() []scene.Scene {
	var active []scene.Scene
	for _, s := range e.sortedScenes() {
		if s.Active() {
			active = append(active, s)
		}
	}
	return active
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetFrameCallback(callback func(deltaTime float32)) {
	e.frameCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}

// frameDuration converts a frame rate cap to the minimum frame duration, 0 for uncapped.
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
