package scene

import (
	"github.com/Carmen-Shannon/snowglobe/engine/particle"
	"github.com/Carmen-Shannon/snowglobe/engine/profiler"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithState replaces the initial State. Options applied after it adjust the given State.
//
// Parameters:
//   - state: the state to start from
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithState(state *State) SceneBuilderOption {
	return func(s *scene) {
		if state != nil {
			s.state = state
		}
	}
}

// WithParticleCount sets the number of particles. The count is fixed for the life of the scene.
// Defaults to DefaultParticleCount.
//
// Parameters:
//   - count: the particle count
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithParticleCount(count uint32) SceneBuilderOption {
	return func(s *scene) {
		s.particleCount = count
	}
}

// WithMaxDistance sets the initial radius of the sphere confining the particles.
//
// Parameters:
//   - d: the radius
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMaxDistance(d float32) SceneBuilderOption {
	return func(s *scene) {
		s.state.MaxDistance = d
	}
}

// WithSpeed sets the initial particle speed multiplier.
//
// Parameters:
//   - speed: the multiplier
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSpeed(speed float32) SceneBuilderOption {
	return func(s *scene) {
		s.state.Speed = speed
	}
}

// WithPointSize sets the snowflake sprite size in pixels.
func WithPointSize(size float32) SceneBuilderOption {
	return func(s *scene) {
		s.state.PointSize = size
	}
}

// WithSeed makes particle sampling deterministic.
//
// Parameters:
//   - seed: the random seed
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSeed(seed uint64) SceneBuilderOption {
	return func(s *scene) {
		s.fieldOptions = append(s.fieldOptions, particle.WithSeed(seed))
	}
}

// WithFieldOptions passes extra options to the particle field.
func WithFieldOptions(options ...particle.FieldBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.fieldOptions = append(s.fieldOptions, options...)
	}
}

// WithProfiler records the orientation, draw and step timings of every frame.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) SceneBuilderOption {
	return func(s *scene) {
		s.profiler = p
	}
}
