package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = mgl32.Vec3{x, y, z}
	}
}

// WithMarkerScale is an option builder that sets the scale of the marker sphere.
//
// Parameters:
//   - scale: the uniform marker scale
//
// Returns:
//   - LightBuilderOption: a function that applies the marker scale option to a lightImpl
func WithMarkerScale(scale float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.markerScale = scale
	}
}
