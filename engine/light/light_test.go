package light

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewLight(t *testing.T) {
	l := NewLight(WithPosition(0, 0.5, 0))

	if got := l.Position(); got != (mgl32.Vec3{0, 0.5, 0}) {
		t.Errorf("Expected position (0, 0.5, 0), got %v", got)
	}
}

func TestViewPosition(t *testing.T) {
	l := NewLight(WithPosition(1, 2, 3))

	tests := []struct {
		name string
		view mgl32.Mat4
		want mgl32.Vec4
	}{
		{"Identity", mgl32.Ident4(), mgl32.Vec4{1, 2, 3, 1}},
		{"Translated", mgl32.Translate3D(0, 0, -4), mgl32.Vec4{1, 2, -1, 1}},
		{"Rotated", mgl32.HomogRotate3DY(mgl32.DegToRad(90)), mgl32.Vec4{3, 2, -1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.ViewPosition(tt.view); !approxEqual(got, tt.want, 1e-5) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMarkerModel(t *testing.T) {
	l := NewLight()
	l.SetPosition(0.2, 0.5, -0.1)

	want := mgl32.Translate3D(0.2, 0.5, -0.1).Mul4(mgl32.Scale3D(0.05, 0.05, 0.05))
	if got := l.MarkerModel(); !approxEqual(got, want, 1e-6) {
		t.Fatalf("MarkerModel:\nhave %v\nwant %v", got, want)
	}

	l = NewLight(WithMarkerScale(1))
	if got := l.MarkerModel(); got != mgl32.Ident4() {
		t.Errorf("Expected identity for a unit marker at the origin, got %v", got)
	}
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
