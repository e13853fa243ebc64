package scene

import (
	"github.com/Carmen-Shannon/snowglobe/common"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	axisX = mgl32.Vec3{1, 0, 0}
	axisY = mgl32.Vec3{0, 1, 0}
)

// Model matrices of the scene objects. Each is composed right to left in the order the
// operations are listed, so the last factor is applied to the vertices first.

// LightModel places the small marker sphere at the light.
func (s *State) LightModel() mgl32.Mat4 {
	return s.Light().MarkerModel()
}

// LightPosition returns the light position in view space.
//
// Parameters:
//   - view: the view matrix
//
// Returns:
//   - mgl32.Vec4: the homogeneous view-space position
func (s *State) LightPosition(view mgl32.Mat4) mgl32.Vec4 {
	return s.Light().ViewPosition(view)
}

// LampModel rotates the lamppost about the origin after lifting it into place, so it orbits
// with the globe.
func (s *State) LampModel() mgl32.Mat4 {
	k := s.Scaler / 5
	return s.objectRotation().
		Mul4(mgl32.Translate3D(s.X, s.Y-0.1, s.Z)).
		Mul4(mgl32.Scale3D(k, k, k))
}

// TableModel puts the table under the globe. It follows the translation and scale but not the
// rotation.
func (s *State) TableModel() mgl32.Mat4 {
	k := s.Scaler / 2
	m := mgl32.Translate3D(s.X, s.Y-0.1, s.Z).
		Mul4(mgl32.Translate3D(0, -2, 0)).
		Mul4(mgl32.Scale3D(k, k, k))
	return common.RotateDeg(m, -90, axisY)
}

// ParticleModel scales the unit particle field up to fill the globe.
func (s *State) ParticleModel() mgl32.Mat4 {
	k := s.Scaler * 5
	return mgl32.Translate3D(s.X, s.Y, s.Z).
		Mul4(mgl32.Scale3D(k, k, k)).
		Mul4(s.objectRotation())
}

// ParticleRotation is the rotation handed to the field's orientation correction.
func (s *State) ParticleRotation() mgl32.Mat4 {
	return s.objectRotation()
}

// GlobeModel is the glass sphere around the particles.
func (s *State) GlobeModel() mgl32.Mat4 {
	k := s.Scaler / 1.2
	return mgl32.Translate3D(s.X, s.Y, s.Z).
		Mul4(mgl32.Scale3D(k, k, k)).
		Mul4(s.objectRotation())
}

// FloorModel is fixed: the room does not follow the object controls.
func (s *State) FloorModel() mgl32.Mat4 {
	return mgl32.Translate3D(0, -3, 0.7).Mul4(mgl32.Scale3D(2, 1, 1))
}

// BackWallModel stands the floor quad up behind the globe.
func (s *State) BackWallModel() mgl32.Mat4 {
	m := common.RotateDeg(mgl32.Translate3D(0, -0.3, -2), 90, axisX)
	return m.Mul4(mgl32.Scale3D(2, 1.5, 1))
}

// SideWallModel stands the floor quad up on the right.
func (s *State) SideWallModel() mgl32.Mat4 {
	m := common.RotateDeg(mgl32.Translate3D(2.5, -0.3, 0.7), 90, axisY)
	m = common.RotateDeg(m, 90, axisX)
	return m.Mul4(mgl32.Scale3D(1, 1, 1))
}

// WindowModel sits just in front of the side wall.
func (s *State) WindowModel() mgl32.Mat4 {
	m := common.RotateDeg(mgl32.Translate3D(2.499, 0.5, 0.7), 90, axisY)
	m = common.RotateDeg(m, 90, axisX)
	return m.Mul4(mgl32.Scale3D(0.6, 0.6, 0.6))
}

// NormalMatrix returns transpose(inverse(mat3(view * model))). A singular matrix yields zero.
//
// Parameters:
//   - view: the view matrix
//   - model: the model matrix
//
// Returns:
//   - mgl32.Mat3: the normal matrix
func (s *State) NormalMatrix(view, model mgl32.Mat4) mgl32.Mat3 {
	return common.NormalMatrix(view, model)
}

func (s *State) objectRotation() mgl32.Mat4 {
	return common.EulerRotation(s.AngleX, s.AngleY, s.AngleZ)
}
