package camera

import (
	"testing"

	"github.com/Carmen-Shannon/snowglobe/common"
	"github.com/go-gl/mathgl/mgl32"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()

	if got := c.Position(); got != (mgl32.Vec3{0, 0, 4}) {
		t.Errorf("Expected eye (0, 0, 4), got %v", got)
	}
	if got := c.Target(); got != (mgl32.Vec3{}) {
		t.Errorf("Expected origin target, got %v", got)
	}
	if got := c.Up(); got != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("Expected +Y up, got %v", got)
	}
	if c.Fov() != 30 || c.Near() != 0.1 || c.Far() != 100 {
		t.Errorf("Expected fov 30 near 0.1 far 100, got %v %v %v", c.Fov(), c.Near(), c.Far())
	}
}

func TestBuilderOptions(t *testing.T) {
	c := NewCamera(
		WithPosition(1, 2, 3),
		WithTarget(0, 1, 0),
		WithUp(0, 0, 1),
		WithFov(60),
		WithNear(0.5),
		WithFar(50),
	)

	if c.Position() != (mgl32.Vec3{1, 2, 3}) || c.Target() != (mgl32.Vec3{0, 1, 0}) || c.Up() != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("Expected the eye, target and up options applied, got %v %v %v", c.Position(), c.Target(), c.Up())
	}
	if c.Fov() != 60 || c.Near() != 0.5 || c.Far() != 50 {
		t.Errorf("Expected fov 60 near 0.5 far 50, got %v %v %v", c.Fov(), c.Near(), c.Far())
	}

	want := mgl32.LookAtV(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1})
	if got := c.ViewMatrix(0, 0, 0, 0); !approxEqual(got, want, 1e-6) {
		t.Errorf("ViewMatrix:\nhave %v\nwant %v", got, want)
	}
}

func TestProjectionMatrix(t *testing.T) {
	c := NewCamera(WithAspect(2))
	want := common.ClipSpaceCorrection.Mul4(mgl32.Perspective(mgl32.DegToRad(30), 2, 0.1, 100))
	if got := c.ProjectionMatrix(); !approxEqual(got, want, 1e-6) {
		t.Fatalf("ProjectionMatrix:\nhave %v\nwant %v", got, want)
	}

	c.SetAspect(1)
	want = common.ClipSpaceCorrection.Mul4(mgl32.Perspective(mgl32.DegToRad(30), 1, 0.1, 100))
	if got := c.ProjectionMatrix(); !approxEqual(got, want, 1e-6) {
		t.Fatalf("ProjectionMatrix after SetAspect:\nhave %v\nwant %v", got, want)
	}
}

func TestProjectionDepthRange(t *testing.T) {
	c := NewCamera()
	p := c.ProjectionMatrix()

	tests := []struct {
		name  string
		z     float32
		depth float32
	}{
		{"Near plane maps to 0", -0.1, 0},
		{"Far plane maps to 1", -100, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip := p.Mul4x1(mgl32.Vec4{0, 0, tt.z, 1})
			if got := clip.Z() / clip.W(); !mgl32.FloatEqualThreshold(got, tt.depth, 1e-4) {
				t.Errorf("Expected depth %v, got %v", tt.depth, got)
			}
		})
	}
}

func TestViewMatrix(t *testing.T) {
	c := NewCamera()

	t.Run("Origin sits four units ahead", func(t *testing.T) {
		got := c.ViewMatrix(0, 0, 0, 0).Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
		if !approxEqual(got, mgl32.Vec3{0, 0, -4}, 1e-6) {
			t.Errorf("Expected (0, 0, -4), got %v", got)
		}
	})

	t.Run("Step back pushes the scene away", func(t *testing.T) {
		got := c.ViewMatrix(3, 0, 0, 0).Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
		if !approxEqual(got, mgl32.Vec3{0, 0, -7}, 1e-6) {
			t.Errorf("Expected (0, 0, -7), got %v", got)
		}
	})

	t.Run("Rotations compose after the step back", func(t *testing.T) {
		want := mgl32.LookAtV(mgl32.Vec3{0, 0, 4}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}).
			Mul4(mgl32.Translate3D(0, 0, -1.5)).
			Mul4(mgl32.HomogRotate3DX(-mgl32.DegToRad(10))).
			Mul4(mgl32.HomogRotate3DY(-mgl32.DegToRad(20))).
			Mul4(mgl32.HomogRotate3DZ(-mgl32.DegToRad(30)))
		got := c.ViewMatrix(1.5, 10, 20, 30)
		if !approxEqual(got, want, 1e-5) {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})
}

// approxEqual compares component-wise against an absolute tolerance. mgl32's ApproxEqualThreshold
// is relative and degrades to tol*tol when either side is zero.
func approxEqual[T ~[3]float32 | ~[4]float32 | ~[9]float32 | ~[16]float32](a, b T, tol float32) bool {
	for i := 0; i < len(a); i++ {
		if d := a[i] - b[i]; d > tol || d < -tol {
			return false
		}
	}
	return true
}
