package camera

import (
	"sync"

	"github.com/Carmen-Shannon/snowglobe/common"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	projectionMatrix mgl32.Mat4
}

// Camera defines the interface for the fixed look-at camera the scene is viewed through.
// The eye, target and up vector are fixed at construction; the view matrix is further
// transformed each frame by a step-back distance and view rotations supplied by the caller.
type Camera interface {
	// Position returns the eye position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position in world space
	Position() mgl32.Vec3

	// Target returns the point the camera looks at.
	//
	// Returns:
	//   - mgl32.Vec3: the look-at target in world space
	Target() mgl32.Vec3

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// Fov returns the vertical field of view in degrees.
	//
	// Returns:
	//   - float32: field of view in degrees
	Fov() float32

	// Aspect returns the aspect ratio used by the projection.
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// SetAspect sets the aspect ratio and recomputes the projection matrix.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// ProjectionMatrix returns the perspective projection with depth mapped to the WebGPU [0, 1] range.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewMatrix returns the look-at matrix followed by a translation of -stepBack along Z and
	// clockwise rotations about X, Y and Z by the given angles.
	//
	// Parameters:
	//   - stepBack: distance to move the scene away from the eye
	//   - rx, ry, rz: view rotation angles in degrees
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix(stepBack, rx, ry, rz float32) mgl32.Mat4
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera looking from (0, 0, 4) at the origin with +Y up,
// a 30 degree field of view, a 4:3 aspect ratio and clip planes at 0.1 and 100.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		position: mgl32.Vec3{0, 0, 4},
		target:   mgl32.Vec3{0, 0, 0},
		up:       mgl32.Vec3{0, 1, 0},
		fov:      30,
		aspect:   1.3333,
		near:     0.1,
		far:      100,
	}
	for _, option := range options {
		option(c)
	}
	c.updateProjection()
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect == c.aspect {
		return
	}
	c.aspect = aspect
	c.updateProjection()
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewMatrix(stepBack, rx, ry, rz float32) mgl32.Mat4 {
	c.mu.Lock()
	view := mgl32.LookAtV(c.position, c.target, c.up)
	c.mu.Unlock()

	view = view.Mul4(mgl32.Translate3D(0, 0, -stepBack))
	return view.Mul4(common.EulerRotation(rx, ry, rz))
}

// updateProjection recomputes the cached projection matrix. Caller must hold the mutex
// or be the constructor.
func (c *cameraImpl) updateProjection() {
	c.projectionMatrix = common.ClipSpaceCorrection.Mul4(
		mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far),
	)
}
