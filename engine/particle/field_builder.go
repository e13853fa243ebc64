package particle

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// FieldBuilderOption is a functional option for configuring a Field.
// Use the With* functions to create options.
type FieldBuilderOption func(*field)

// WithRand sets the random source used by Init to sample positions and velocities.
// Supplying a seeded source makes the initial particle layout reproducible.
//
// Parameters:
//   - rng: the random source (ignored if nil)
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithRand(rng *rand.Rand) FieldBuilderOption {
	return func(f *field) {
		if rng != nil {
			f.rng = rng
		}
	}
}

// WithSeed is shorthand for WithRand with a PCG source seeded from seed.
//
// Parameters:
//   - seed: the seed for the random source
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithSeed(seed uint64) FieldBuilderOption {
	return func(f *field) {
		f.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithSpawnRadius sets the radius of the ball that initial positions are sampled from.
// Defaults to DefaultSpawnRadius.
//
// Parameters:
//   - radius: the spawn radius
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithSpawnRadius(radius float32) FieldBuilderOption {
	return func(f *field) {
		f.spawnRadius = radius
	}
}

// WithColor sets the color given to every particle by Init. Defaults to DefaultColor.
//
// Parameters:
//   - color: RGB color in [0, 1]
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithColor(color mgl32.Vec3) FieldBuilderOption {
	return func(f *field) {
		f.color = color
	}
}
