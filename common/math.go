package common

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// ClipSpaceCorrection remaps OpenGL clip-space depth [-1, 1] to the WebGPU convention [0, 1].
// Pre-multiply any projection built with mgl32.Perspective by this matrix before uploading it.
var ClipSpaceCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// Vec3sToBytes is SliceToBytes specialised for tightly packed vec3 buffers such as particle
// positions and colors (12 bytes per element, no padding).
//
// Parameters:
//   - v: source vectors
//
// Returns:
//   - []byte: byte slice view of v
func Vec3sToBytes(v []mgl32.Vec3) []byte {
	return SliceToBytes(v)
}

// EulerRotation builds the rotation the scene applies to rotated objects: a clockwise rotation
// about X, then Y, then Z by the given angles in degrees, i.e. Rx(-x) * Ry(-y) * Rz(-z).
//
// Parameters:
//   - x, y, z: rotation angles in degrees
//
// Returns:
//   - mgl32.Mat4: the combined rotation matrix
func EulerRotation(x, y, z float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(-mgl32.DegToRad(x)).
		Mul4(mgl32.HomogRotate3DY(-mgl32.DegToRad(y))).
		Mul4(mgl32.HomogRotate3DZ(-mgl32.DegToRad(z)))
}

// RotateDeg post-multiplies m by a rotation of angle degrees about axis, mirroring glm::rotate.
//
// Parameters:
//   - m: the matrix to rotate
//   - angle: rotation angle in degrees
//   - axis: rotation axis (need not be normalized)
//
// Returns:
//   - mgl32.Mat4: m * R(angle, axis)
func RotateDeg(m mgl32.Mat4, angle float32, axis mgl32.Vec3) mgl32.Mat4 {
	return m.Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(angle), axis.Normalize()))
}

// NormalMatrix returns transpose(inverse(mat3(view * model))), the matrix that carries model
// normals into view space.
//
// Parameters:
//   - view: the view matrix
//   - model: the model matrix
//
// Returns:
//   - mgl32.Mat3: the normal matrix
func NormalMatrix(view, model mgl32.Mat4) mgl32.Mat3 {
	return view.Mul4(model).Mat3().Inv().Transpose()
}
