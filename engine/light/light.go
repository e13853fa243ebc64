package light

import "github.com/go-gl/mathgl/mgl32"

// DefaultMarkerScale is the uniform scale of the small sphere drawn at the light's position.
const DefaultMarkerScale = 0.05

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	position    mgl32.Vec3
	markerScale float32
}

// Light defines the interface for the scene's point light.
//
// The light is described in world space. Shaders light in view space, so the position
// uploaded each frame comes from ViewPosition.
type Light interface {
	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - mgl32.Vec3: position as (x, y, z)
	Position() mgl32.Vec3

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - x, y, z: the position components
	SetPosition(x, y, z float32)

	// ViewPosition transforms the light position into view space as a homogeneous point.
	//
	// Parameters:
	//   - view: the view matrix
	//
	// Returns:
	//   - mgl32.Vec4: view * vec4(position, 1)
	ViewPosition(view mgl32.Mat4) mgl32.Vec4

	// MarkerModel returns the model matrix of the marker sphere drawn at the light.
	//
	// Returns:
	//   - mgl32.Mat4: translate(position) * scale(markerScale)
	MarkerModel() mgl32.Mat4
}

var _ Light = &lightImpl{}

// NewLight creates a point light at the origin with the default marker scale,
// then applies the provided options.
//
// Parameters:
//   - opts: a variadic list of LightBuilderOption functions
//
// Returns:
//   - Light: the newly created light
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		markerScale: DefaultMarkerScale,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = mgl32.Vec3{x, y, z}
}

func (l *lightImpl) ViewPosition(view mgl32.Mat4) mgl32.Vec4 {
	return view.Mul4x1(l.position.Vec4(1))
}

func (l *lightImpl) MarkerModel() mgl32.Mat4 {
	s := l.markerScale
	return mgl32.Translate3D(l.position.X(), l.position.Y(), l.position.Z()).Mul4(mgl32.Scale3D(s, s, s))
}
