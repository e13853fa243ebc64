package particle

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-6

func newInitializedField(t *testing.T, count uint32, maxDistance, speed float32) *field {
	t.Helper()
	f := NewField(count, maxDistance, speed, WithSeed(42)).(*field)
	if err := f.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return f
}

func TestInitArrays(t *testing.T) {
	tests := []struct {
		name  string
		count uint32
	}{
		{"Empty", 0},
		{"Single", 1},
		{"Default scene", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInitializedField(t, tt.count, 0.162, 0.5)
			for name, n := range map[string]int{
				"positions":      len(f.Positions()),
				"colors":         len(f.Colors()),
				"velocities":     len(f.velocities),
				"restDirections": len(f.restDirections),
			} {
				if n != int(tt.count) {
					t.Errorf("Expected %s to have length %d, got %d", name, tt.count, n)
				}
			}
		})
	}
}

func TestInitSampling(t *testing.T) {
	f := newInitializedField(t, 2000, 0.162, 0.5)

	for i := range f.positions {
		if l := f.positions[i].Len(); l > DefaultSpawnRadius+epsilon {
			t.Fatalf("particle %d spawned outside the spawn ball: |p| = %v", i, l)
		}
		if f.colors[i] != DefaultColor {
			t.Fatalf("particle %d color\nhave %v\nwant %v", i, f.colors[i], DefaultColor)
		}
		v := f.velocities[i]
		if v[0] < -0.01 || v[0] > 0.01 {
			t.Fatalf("particle %d velocity x out of range: %v", i, v[0])
		}
		if v[1] < -0.01 || v[1] > -0.005 {
			t.Fatalf("particle %d velocity y out of range: %v", i, v[1])
		}
		if v[2] < -0.01 || v[2] > 0.01 {
			t.Fatalf("particle %d velocity z out of range: %v", i, v[2])
		}
		if f.restDirections[i] != v {
			t.Fatalf("particle %d rest direction\nhave %v\nwant %v", i, f.restDirections[i], v)
		}
	}
}

func TestInitTwice(t *testing.T) {
	f := newInitializedField(t, 4, 1, 1)
	if err := f.Init(); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("Expected ErrAlreadyInitialized, got %v", err)
	}
}

func TestSeedIsReproducible(t *testing.T) {
	a := NewField(16, 1, 1, WithSeed(7))
	b := NewField(16, 1, 1, WithSeed(7))
	_ = a.Init()
	_ = b.Init()
	for i := range a.Positions() {
		if a.Positions()[i] != b.Positions()[i] {
			t.Fatalf("particle %d differs between equally seeded fields\nhave %v\nwant %v", i, a.Positions()[i], b.Positions()[i])
		}
	}
}

func TestSpawnOptions(t *testing.T) {
	color := mgl32.Vec3{1, 0, 0}
	f := NewField(500, 1, 1,
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithSpawnRadius(0.5),
		WithColor(color),
	)
	if err := f.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	outside := 0
	for i, p := range f.Positions() {
		l := p.Len()
		if l > 0.5+epsilon {
			t.Fatalf("particle %d spawned outside the 0.5 ball: |p| = %v", i, l)
		}
		if l > DefaultSpawnRadius {
			outside++
		}
		if f.Colors()[i] != color {
			t.Fatalf("particle %d color\nhave %v\nwant %v", i, f.Colors()[i], color)
		}
	}
	if outside == 0 {
		t.Errorf("Expected the wider spawn ball to place particles beyond %v", DefaultSpawnRadius)
	}
}

func TestUninitialized(t *testing.T) {
	f := NewField(8, 1, 1)

	if f.Initialized() {
		t.Fatal("Expected a new field to be uninitialized")
	}
	if err := f.Step(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Step: expected ErrNotInitialized, got %v", err)
	}
	if err := f.UpdateOrientation(45, 0, 0, mgl32.Ident4()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("UpdateOrientation: expected ErrNotInitialized, got %v", err)
	}
	if f.Positions() != nil || f.Colors() != nil {
		t.Error("Expected nil buffers before Init")
	}
	if f.Generation() != 0 {
		t.Errorf("Expected generation 0, got %d", f.Generation())
	}
}

func TestStepFreeMovement(t *testing.T) {
	f := newInitializedField(t, 1, 1.0, 1.0)
	f.positions[0] = mgl32.Vec3{0, 0, 0}
	f.velocities[0] = mgl32.Vec3{1, 0, 0}

	if err := f.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	want := mgl32.Vec3{0.02, 0, 0}
	if !approxEqual(f.positions[0], want, epsilon) {
		t.Fatalf("Step\nhave %v\nwant %v", f.positions[0], want)
	}
	if f.Generation() != 1 {
		t.Errorf("Expected generation 1 after one step, got %d", f.Generation())
	}
}

func TestStepClampsPreviousPosition(t *testing.T) {
	f := newInitializedField(t, 1, 1.0, 50)
	f.positions[0] = mgl32.Vec3{0.99, 0, 0}
	f.velocities[0] = mgl32.Vec3{1, 0, 0}

	if err := f.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	d := float32(0.99) + 1
	want := mgl32.Vec3{0.99 * (1.0 / d), 0, 0}
	if !approxEqual(f.positions[0], want, epsilon) {
		t.Fatalf("Step\nhave %v\nwant %v", f.positions[0], want)
	}
	// The candidate projected onto the boundary would be (1, 0, 0); the pre-step position is used instead.
	if approxEqual(f.positions[0], mgl32.Vec3{1, 0, 0}, epsilon) {
		t.Fatal("Step projected the candidate instead of the previous position")
	}
}

func TestStepOnBoundaryIsNoop(t *testing.T) {
	f := newInitializedField(t, 1, 1.0, 50)
	f.positions[0] = mgl32.Vec3{0, 0, 0}
	f.velocities[0] = mgl32.Vec3{1, 0, 0}

	if err := f.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if f.positions[0] != (mgl32.Vec3{0, 0, 0}) {
		t.Fatalf("Expected particle with candidate on the boundary to stay put, got %v", f.positions[0])
	}
}

func TestStepBounding(t *testing.T) {
	tests := []struct {
		name        string
		maxDistance float32
		speed       float32
	}{
		{"Scene defaults", 0.162, 0.5},
		{"Fast", 0.162, 25},
		{"Spawn ball sized sphere", DefaultSpawnRadius, 5},
		{"Large sphere", 2, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInitializedField(t, 500, tt.maxDistance, tt.speed)
			for tick := 0; tick < 300; tick++ {
				if err := f.Step(); err != nil {
					t.Fatalf("Step: %v", err)
				}
				for i, p := range f.Positions() {
					if l := p.Len(); l > tt.maxDistance+epsilon {
						t.Fatalf("tick %d particle %d escaped: |p| = %v > %v", tick, i, l, tt.maxDistance)
					}
				}
			}
		})
	}
}

func TestImmutableRestDirectionsAndColors(t *testing.T) {
	f := newInitializedField(t, 200, 0.162, 0.5)
	rest := append([]mgl32.Vec3(nil), f.restDirections...)
	colors := append([]mgl32.Vec3(nil), f.colors...)

	for tick := 0; tick < 50; tick++ {
		_ = f.Step()
		angle := float32(tick * 15)
		_ = f.UpdateOrientation(angle, angle/2, -angle, mgl32.HomogRotate3DX(mgl32.DegToRad(angle)))
		f.UpdateParams(0.162+float32(tick)*0.001, 0.5+float32(tick)*0.1)
	}

	for i := range rest {
		if f.restDirections[i] != rest[i] {
			t.Fatalf("rest direction %d changed\nhave %v\nwant %v", i, f.restDirections[i], rest[i])
		}
		if f.colors[i] != colors[i] {
			t.Fatalf("color %d changed\nhave %v\nwant %v", i, f.colors[i], colors[i])
		}
	}
}

func TestUpdateOrientationNoopAtRest(t *testing.T) {
	f := newInitializedField(t, 50, 0.162, 0.5)
	before := append([]mgl32.Vec3(nil), f.velocities...)

	if err := f.UpdateOrientation(0, 0, 0, mgl32.Ident4()); err != nil {
		t.Fatalf("UpdateOrientation: %v", err)
	}
	for i := range before {
		if f.velocities[i] != before[i] {
			t.Fatalf("velocity %d changed\nhave %v\nwant %v", i, f.velocities[i], before[i])
		}
	}
}

func TestUpdateOrientationThreshold(t *testing.T) {
	rotation := mgl32.HomogRotate3DX(mgl32.DegToRad(-20))

	tests := []struct {
		name       string
		x, y, z    float32
		recomputed bool
	}{
		{"Below threshold on every axis", 9.999, 9.999, 9.999, false},
		{"Negative below threshold", -9.999, -9.999, -9.999, false},
		{"Exactly threshold", 10, 10, 10, false},
		{"Above threshold on x", 10.001, 0, 0, true},
		{"Above threshold on y", 0, 10.001, 0, true},
		{"Above threshold on z", 0, 0, -10.001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInitializedField(t, 50, 0.162, 0.5)
			before := append([]mgl32.Vec3(nil), f.velocities...)

			if err := f.UpdateOrientation(tt.x, tt.y, tt.z, rotation); err != nil {
				t.Fatalf("UpdateOrientation: %v", err)
			}

			inv := rotation.Inv()
			for i := range before {
				if !tt.recomputed {
					if f.velocities[i] != before[i] {
						t.Fatalf("velocity %d changed below threshold\nhave %v\nwant %v", i, f.velocities[i], before[i])
					}
					continue
				}
				want := inv.Mul4x1(f.restDirections[i].Vec4(0)).Vec3()
				if !approxEqual(f.velocities[i], want, epsilon) {
					t.Fatalf("velocity %d\nhave %v\nwant %v", i, f.velocities[i], want)
				}
			}

			x, y, z := f.Orientation()
			if tt.recomputed && (x != tt.x || y != tt.y || z != tt.z) {
				t.Errorf("Expected orientation (%v, %v, %v), got (%v, %v, %v)", tt.x, tt.y, tt.z, x, y, z)
			}
			if !tt.recomputed && (x != 0 || y != 0 || z != 0) {
				t.Errorf("Expected orientation to stay at zero, got (%v, %v, %v)", x, y, z)
			}
		})
	}
}

func TestUpdateOrientationRotatesRestDirection(t *testing.T) {
	f := newInitializedField(t, 100, 0.162, 0.5)
	r := mgl32.HomogRotate3DX(mgl32.DegToRad(20))

	if err := f.UpdateOrientation(20, 0, 0, r); err != nil {
		t.Fatalf("UpdateOrientation: %v", err)
	}

	// The inverse of a pure rotation is its transpose.
	inv := r.Transpose()
	for i := range f.velocities {
		want := inv.Mul4x1(f.restDirections[i].Vec4(0)).Vec3()
		if !approxEqual(f.velocities[i], want, epsilon) {
			t.Fatalf("velocity %d\nhave %v\nwant %v", i, f.velocities[i], want)
		}
		if !mgl32.FloatEqualThreshold(f.velocities[i].Len(), f.restDirections[i].Len(), epsilon) {
			t.Fatalf("velocity %d changed magnitude: %v vs %v", i, f.velocities[i].Len(), f.restDirections[i].Len())
		}
	}
}

func TestUpdateOrientationIgnoresTranslation(t *testing.T) {
	f := newInitializedField(t, 20, 0.162, 0.5)
	r := mgl32.Translate3D(5, -3, 2).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(45)))

	if err := f.UpdateOrientation(0, 45, 0, r); err != nil {
		t.Fatalf("UpdateOrientation: %v", err)
	}

	inv := mgl32.HomogRotate3DY(mgl32.DegToRad(-45))
	for i := range f.velocities {
		want := inv.Mul4x1(f.restDirections[i].Vec4(0)).Vec3()
		if !approxEqual(f.velocities[i], want, epsilon) {
			t.Fatalf("velocity %d\nhave %v\nwant %v", i, f.velocities[i], want)
		}
	}
}

func TestUpdateOrientationMeasuresFromLastCorrection(t *testing.T) {
	f := newInitializedField(t, 10, 0.162, 0.5)
	_ = f.UpdateOrientation(15, 0, 0, mgl32.HomogRotate3DX(mgl32.DegToRad(-15)))
	corrected := append([]mgl32.Vec3(nil), f.velocities...)

	// 24 degrees from the origin but only 9 from the last correction.
	_ = f.UpdateOrientation(24, 0, 0, mgl32.HomogRotate3DX(mgl32.DegToRad(-24)))
	for i := range corrected {
		if f.velocities[i] != corrected[i] {
			t.Fatalf("velocity %d recomputed within threshold of the last correction", i)
		}
	}
}

func TestUpdateParams(t *testing.T) {
	f := NewField(1, 1, 1)
	f.UpdateParams(0.3, 2)
	if f.MaxDistance() != 0.3 || f.Speed() != 2 {
		t.Fatalf("Expected (0.3, 2), got (%v, %v)", f.MaxDistance(), f.Speed())
	}
}

func TestUpdateParamsUnvalidated(t *testing.T) {
	tests := []struct {
		name        string
		maxDistance float32
		wantNaN     bool
	}{
		// d == 0 == maxDistance takes the no-op branch.
		{"Zero radius", 0, false},
		// d == 0 > maxDistance rescales by maxDistance/0.
		{"Negative radius", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInitializedField(t, 1, 1, 1)
			f.UpdateParams(tt.maxDistance, 1)
			f.positions[0] = mgl32.Vec3{}
			f.velocities[0] = mgl32.Vec3{}

			if err := f.Step(); err != nil {
				t.Fatalf("Step: %v", err)
			}
			gotNaN := math.IsNaN(float64(f.positions[0][0]))
			if gotNaN != tt.wantNaN {
				t.Fatalf("Expected NaN=%v, got position %v", tt.wantNaN, f.positions[0])
			}
		})
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
