package particle

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultSpawnRadius is the radius of the ball particles are spawned in. It is much smaller
	// than any sensible confinement radius so the snow starts bunched up around the centre.
	DefaultSpawnRadius float32 = 0.08

	// OrientationThreshold is the change in degrees, on any single axis, that triggers a
	// velocity recomputation in UpdateOrientation.
	OrientationThreshold float32 = 10

	// stepDivisor scales speed down to a per-step displacement factor.
	stepDivisor float32 = 50
)

// DefaultColor is the pale blue tint every snowflake is given.
var DefaultColor = mgl32.Vec3{170.0 / 255, 213.0 / 255, 247.0 / 255}

var (
	// ErrNotInitialized is returned when Step or UpdateOrientation is called before Init.
	ErrNotInitialized = errors.New("particle: field not initialized")

	// ErrAlreadyInitialized is returned when Init is called more than once.
	ErrAlreadyInitialized = errors.New("particle: field already initialized")
)

// field is the implementation of the Field interface.
// Particle data is kept in parallel slices (one slot per particle) that are all sized to count
// by Init and never resized afterwards.
type field struct {
	count       uint32
	maxDistance float32
	speed       float32

	spawnRadius float32
	color       mgl32.Vec3
	rng         *rand.Rand

	positions      []mgl32.Vec3
	velocities     []mgl32.Vec3
	restDirections []mgl32.Vec3
	colors         []mgl32.Vec3

	// lastOrientation holds the scene angles (degrees) at the last orientation correction.
	lastOrientation [3]float32

	initialized bool
	generation  uint64
}

// Field is a fixed-size set of particles confined to a sphere centred on the origin.
//
// Each particle has a position, a velocity, a rest direction (its velocity at spawn time) and a
// constant color. Step advances every particle along its velocity and keeps it inside the sphere;
// UpdateOrientation re-aims every velocity when the enclosing scene has been rotated far enough so
// that the snow keeps falling towards world-down.
//
// A Field is not safe for concurrent use. It is meant to be owned by a single render loop.
type Field interface {
	// Init allocates the particle slices and samples initial positions and velocities.
	// Must be called exactly once before Step or UpdateOrientation.
	//
	// Returns:
	//   - error: ErrAlreadyInitialized if Init was already called
	Init() error

	// Step advances the simulation by one tick.
	// A particle whose next position would leave the sphere is instead placed on the sphere surface
	// along the direction of its current (pre-step) position.
	//
	// Returns:
	//   - error: ErrNotInitialized if Init has not been called
	Step() error

	// UpdateOrientation recomputes every velocity from its rest direction and the inverse of the
	// supplied rotation when any of the angles differs from the last recorded orientation by more
	// than OrientationThreshold degrees. Otherwise it does nothing. A singular rotation inverts
	// to the zero matrix and stops every particle.
	//
	// Parameters:
	//   - angleX, angleY, angleZ: the current scene rotation angles in degrees
	//   - rotation: the rotation matrix currently applied to the scene
	//
	// Returns:
	//   - error: ErrNotInitialized if Init has not been called
	UpdateOrientation(angleX, angleY, angleZ float32, rotation mgl32.Mat4) error

	// UpdateParams replaces the confinement radius and the speed multiplier.
	// Values are not validated.
	//
	// Parameters:
	//   - maxDistance: the new radius of the confining sphere
	//   - speed: the new speed multiplier
	UpdateParams(maxDistance, speed float32)

	// Positions returns the current particle positions. The slice is owned by the field and must
	// not be modified; it is rewritten in place by every Step.
	//
	// Returns:
	//   - []mgl32.Vec3: count positions, or nil before Init
	Positions() []mgl32.Vec3

	// Colors returns the particle colors. The slice is owned by the field and must not be modified.
	//
	// Returns:
	//   - []mgl32.Vec3: count colors, or nil before Init
	Colors() []mgl32.Vec3

	// Count returns the fixed number of particles.
	Count() uint32

	// MaxDistance returns the radius of the confining sphere.
	MaxDistance() float32

	// Speed returns the speed multiplier.
	Speed() float32

	// Orientation returns the angles recorded at the last orientation correction.
	//
	// Returns:
	//   - x, y, z: angles in degrees
	Orientation() (x, y, z float32)

	// Initialized reports whether Init has been called.
	Initialized() bool

	// Generation returns a counter that increments each time Step publishes new positions.
	// Renderers compare it against the last uploaded generation to skip redundant uploads.
	Generation() uint64
}

var _ Field = &field{}

// NewField creates an uninitialized Field. Init must be called before the field is used.
//
// Parameters:
//   - count: the number of particles, fixed for the lifetime of the field
//   - maxDistance: the radius of the confining sphere
//   - speed: the scalar multiplier applied to velocity each step
//   - options: functional options to further configure the field
//
// Returns:
//   - Field: the newly created field
func NewField(count uint32, maxDistance, speed float32, options ...FieldBuilderOption) Field {
	f := &field{
		count:       count,
		maxDistance: maxDistance,
		speed:       speed,
		spawnRadius: DefaultSpawnRadius,
		color:       DefaultColor,
	}
	for _, opt := range options {
		opt(f)
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return f
}

func (f *field) Init() error {
	if f.initialized {
		return ErrAlreadyInitialized
	}

	f.positions = make([]mgl32.Vec3, f.count)
	f.velocities = make([]mgl32.Vec3, f.count)
	f.restDirections = make([]mgl32.Vec3, f.count)
	f.colors = make([]mgl32.Vec3, f.count)

	for i := range f.positions {
		f.positions[i] = ballRand(f.rng, f.spawnRadius)
		f.colors[i] = f.color
		f.velocities[i] = mgl32.Vec3{
			linearRand(f.rng, -0.01, 0.01),
			-linearRand(f.rng, 0.005, 0.01),
			linearRand(f.rng, -0.01, 0.01),
		}
		f.restDirections[i] = f.velocities[i]
	}

	f.initialized = true
	return nil
}

func (f *field) Step() error {
	if !f.initialized {
		return ErrNotInitialized
	}

	factor := f.speed / stepDivisor
	for i, pos := range f.positions {
		candidate := pos.Add(f.velocities[i].Mul(factor))
		d := candidate.Len()
		switch {
		case d < f.maxDistance:
			f.positions[i] = candidate
		case d == f.maxDistance:
			// exactly on the boundary: leave the particle where it is
		default:
			f.positions[i] = pos.Mul(f.maxDistance / d)
		}
	}

	f.generation++
	return nil
}

func (f *field) UpdateOrientation(angleX, angleY, angleZ float32, rotation mgl32.Mat4) error {
	if !f.initialized {
		return ErrNotInitialized
	}

	if !exceeds(angleX, f.lastOrientation[0]) &&
		!exceeds(angleY, f.lastOrientation[1]) &&
		!exceeds(angleZ, f.lastOrientation[2]) {
		return nil
	}

	fix := rotation.Inv()
	for i, rest := range f.restDirections {
		f.velocities[i] = fix.Mul4x1(rest.Vec4(0)).Vec3()
	}

	f.lastOrientation = [3]float32{angleX, angleY, angleZ}
	return nil
}

func (f *field) UpdateParams(maxDistance, speed float32) {
	f.maxDistance = maxDistance
	f.speed = speed
}

func (f *field) Positions() []mgl32.Vec3 {
	return f.positions
}

func (f *field) Colors() []mgl32.Vec3 {
	return f.colors
}

func (f *field) Count() uint32 {
	return f.count
}

func (f *field) MaxDistance() float32 {
	return f.maxDistance
}

func (f *field) Speed() float32 {
	return f.speed
}

func (f *field) Orientation() (x, y, z float32) {
	return f.lastOrientation[0], f.lastOrientation[1], f.lastOrientation[2]
}

func (f *field) Initialized() bool {
	return f.initialized
}

func (f *field) Generation() uint64 {
	return f.generation
}

// exceeds reports whether angle has moved more than OrientationThreshold degrees away from last.
func exceeds(angle, last float32) bool {
	return float32(math.Abs(float64(angle-last))) > OrientationThreshold
}
