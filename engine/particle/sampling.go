package particle

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// linearRand returns a uniformly distributed value in [lo, hi).
func linearRand(rng *rand.Rand, lo, hi float32) float32 {
	return lo + (hi-lo)*rng.Float32()
}

// ballRand returns a uniformly distributed point inside a ball of the given radius centred on the
// origin. Points are drawn from the enclosing cube and rejected until one falls inside the ball.
func ballRand(rng *rand.Rand, radius float32) mgl32.Vec3 {
	if radius <= 0 {
		return mgl32.Vec3{}
	}
	for {
		p := mgl32.Vec3{
			linearRand(rng, -radius, radius),
			linearRand(rng, -radius, radius),
			linearRand(rng, -radius, radius),
		}
		if p.Len() <= radius {
			return p
		}
	}
}
