package scene

import (
	"github.com/Carmen-Shannon/snowglobe/common"
	"github.com/Carmen-Shannon/snowglobe/engine/camera"
	"github.com/Carmen-Shannon/snowglobe/engine/light"
	"github.com/Carmen-Shannon/snowglobe/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// Key step sizes.
const (
	angleIncStep   = 0.05
	scalerStep     = 0.02
	translateStep  = 0.05
	viewAngleStep  = 1
	stepBackStep   = 1
	speedStep      = 0.05
	maxDistStep    = 0.005
	minMaxDistance = maxDistStep
)

// Initial values of the scene parameters.
const (
	DefaultAlpha       = 0.4
	DefaultAspect      = 1.3333
	DefaultPointSize   = 15
	DefaultSpeed       = 0.5
	DefaultMaxDistance = 0.162
	DefaultLightY      = 0.5
	DefaultWidth       = 1024
	DefaultHeight      = 768
)

// State holds every user-adjustable scene parameter. It is owned by the Scene and mutated only
// from the frame loop: key events, resizes and the end-of-frame Advance.
type State struct {
	// object translation and uniform scale
	X, Y, Z float32
	Scaler  float32

	// object rotation in degrees and the amount added to it every frame
	AngleX, AngleY, AngleZ          float32
	AngleIncX, AngleIncY, AngleIncZ float32

	LightX, LightY, LightZ float32

	// view rotation in degrees and camera pull-back
	ViewX, ViewY, ViewZ float32
	StepBack            float32

	ColourMode  uint32
	DrawMode    model.DrawMode
	Alpha       float32
	AspectRatio float32
	PointSize   float32

	// particle field parameters
	Speed       float32
	MaxDistance float32

	// framebuffer size in pixels
	Width, Height int

	cam  camera.Camera
	lamp light.Light
}

// KeyEffect reports what a key event changed beyond plain State fields.
type KeyEffect struct {
	// Handled is true when the key is bound.
	Handled bool
	// ColourModeChanged is true when the colour mode toggled.
	ColourModeChanged bool
	// DrawModeChanged is true when the draw mode advanced.
	DrawModeChanged bool
	// ParamsChanged is true when Speed or MaxDistance changed and the field needs UpdateParams.
	ParamsChanged bool
}

// NewState returns a State with the scene's initial values.
//
// Returns:
//   - *State: the initial state
func NewState() *State {
	s := &State{
		Scaler:      1,
		LightY:      DefaultLightY,
		DrawMode:    model.DrawModeFill,
		Alpha:       DefaultAlpha,
		AspectRatio: DefaultAspect,
		PointSize:   DefaultPointSize,
		Speed:       DefaultSpeed,
		MaxDistance: DefaultMaxDistance,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		cam:         camera.NewCamera(camera.WithAspect(DefaultAspect)),
	}
	s.lamp = light.NewLight(light.WithPosition(s.LightX, s.LightY, s.LightZ))
	return s
}

// HandleKey applies a key event. Every bound key acts on press, repeat and release alike,
// except M and N whose toggles ignore the initial press. N also moves the object along +Z
// on every event.
//
// Parameters:
//   - key: the GLFW key code
//   - action: the key action
//
// Returns:
//   - KeyEffect: what changed
func (s *State) HandleKey(key uint32, action common.KeyAction) KeyEffect {
	effect := KeyEffect{Handled: true}

	switch key {
	case common.KeyQ:
		s.AngleIncX -= angleIncStep
	case common.KeyW:
		s.AngleIncX += angleIncStep
	case common.KeyE:
		s.AngleIncY -= angleIncStep
	case common.KeyR:
		s.AngleIncY += angleIncStep
	case common.KeyT:
		s.AngleIncZ -= angleIncStep
	case common.KeyY:
		s.AngleIncZ += angleIncStep
	case common.KeyA:
		s.Scaler -= scalerStep
	case common.KeyS:
		s.Scaler += scalerStep
	case common.KeyZ:
		s.X -= translateStep
	case common.KeyX:
		s.X += translateStep
	case common.KeyC:
		s.Y -= translateStep
	case common.KeyV:
		s.Y += translateStep
	case common.KeyB:
		s.Z -= translateStep
	case common.KeyN:
		s.Z += translateStep
		if action != common.KeyPress {
			s.DrawMode = common.Cycle(s.DrawMode, model.DrawModeCount-1)
			effect.DrawModeChanged = true
		}

	// the light moves by the particle speed
	case common.Key1:
		s.LightX -= s.Speed
	case common.Key2:
		s.LightX += s.Speed
	case common.Key3:
		s.LightY -= s.Speed
	case common.Key4:
		s.LightY += s.Speed
	case common.Key5:
		s.LightZ -= s.Speed
	case common.Key6:
		s.LightZ += s.Speed

	case common.Key7:
		s.ViewX -= viewAngleStep
	case common.Key8:
		s.ViewX += viewAngleStep
	case common.Key9:
		s.ViewY -= viewAngleStep
	case common.Key0:
		s.ViewY += viewAngleStep
	case common.KeyO:
		s.ViewZ -= viewAngleStep
	case common.KeyP:
		s.ViewZ += viewAngleStep
	case common.KeyK:
		s.StepBack += stepBackStep
	case common.KeyL:
		s.StepBack -= stepBackStep

	case common.KeyM:
		if action != common.KeyPress {
			s.ColourMode ^= 1
			effect.ColourModeChanged = true
		}

	case common.KeyF:
		s.Speed -= speedStep
		effect.ParamsChanged = true
	case common.KeyG:
		s.Speed += speedStep
		effect.ParamsChanged = true
	case common.KeyH:
		s.MaxDistance = max(s.MaxDistance-maxDistStep, minMaxDistance)
		effect.ParamsChanged = true
	case common.KeyJ:
		s.MaxDistance += maxDistStep
		effect.ParamsChanged = true

	default:
		effect.Handled = false
	}

	return effect
}

// Advance adds the per-frame angle increments to the rotation angles.
func (s *State) Advance() {
	s.AngleX += s.AngleIncX
	s.AngleY += s.AngleIncY
	s.AngleZ += s.AngleIncZ
}

// Resize records the framebuffer size and recomputes the aspect ratio, measured against a
// 640x480 window at 4:3. Zero sizes are ignored.
//
// Parameters:
//   - width: framebuffer width in pixels
//   - height: framebuffer height in pixels
func (s *State) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.Width, s.Height = width, height
	s.AspectRatio = (float32(width) / 640 * 4) / (float32(height) / 480 * 3)
	s.cam.SetAspect(s.AspectRatio)
}

// Viewport returns the framebuffer size as floats for the point sprite shader.
func (s *State) Viewport() [2]float32 {
	return [2]float32{float32(s.Width), float32(s.Height)}
}

// Camera returns the camera whose projection follows AspectRatio.
func (s *State) Camera() camera.Camera {
	return s.cam
}

// Light returns the point light, positioned at the current LightX, LightY, LightZ.
func (s *State) Light() light.Light {
	s.lamp.SetPosition(s.LightX, s.LightY, s.LightZ)
	return s.lamp
}

// Projection returns the perspective projection for the current aspect ratio.
func (s *State) Projection() mgl32.Mat4 {
	return s.cam.ProjectionMatrix()
}

// View returns the look-at view with the step-back translation and view rotations applied.
func (s *State) View() mgl32.Mat4 {
	return s.cam.ViewMatrix(s.StepBack, s.ViewX, s.ViewY, s.ViewZ)
}
