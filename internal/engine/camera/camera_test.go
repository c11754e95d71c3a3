package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const tol = 1e-6

func assertMatEqual(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol, "element %d", i)
	}
}

func TestRotateFromIdentity(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
	}{
		{"horizontal", 10, 0},
		{"vertical", 0, 5},
		{"diagonal", 10, 5},
		{"negative", -7, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RotateFromMouse(mgl32.Ident4(), tt.dx, tt.dy)
			want := mgl32.HomogRotate3DX(float32(tt.dy * RotationSpeed)).
				Mul4(mgl32.HomogRotate3DY(float32(tt.dx * RotationSpeed)))
			assertMatEqual(t, want, got)
		})
	}
}

func TestRotateZeroDeltaIsNoop(t *testing.T) {
	m := mgl32.HomogRotate3DZ(0.3)
	assertMatEqual(t, m, RotateFromMouse(m, 0, 0))
}

func TestRotateKeepsOrthonormal(t *testing.T) {
	m := mgl32.Ident4()
	for i := 0; i < 50; i++ {
		m = RotateFromMouse(m, 3, -2)
	}
	// rotation only: determinant stays 1
	assert.InDelta(t, 1.0, m.Det(), 1e-4)
}

func TestRotateIsCameraRelative(t *testing.T) {
	// after a quarter turn about Y, a vertical drag must still rotate about
	// the viewer's X axis
	start := mgl32.HomogRotate3DY(math.Pi / 2)
	got := RotateFromMouse(start, 0, 10)

	want := mgl32.HomogRotate3DX(float32(10 * RotationSpeed)).Mul4(start)
	assertMatEqualTol(t, want, got, 1e-5)
}

func TestRotateDoesNotMutateInput(t *testing.T) {
	m := mgl32.Ident4()
	_ = RotateFromMouse(m, 4, 4)
	assert.Equal(t, mgl32.Ident4(), m)
}

func TestZoomFromIdentity(t *testing.T) {
	for _, delta := range []float64{1, -1, 2.5, 0, -10} {
		s := float32(1 + delta*ZoomSpeed)
		assertMatEqual(t, mgl32.Scale3D(s, s, s), ZoomFromScroll(mgl32.Ident4(), delta))
	}
}

func TestZoomComposes(t *testing.T) {
	view := DefaultView()
	got := ZoomFromScroll(view, 1)
	s := float32(1 + ZoomSpeed)
	assertMatEqual(t, view.Mul4(mgl32.Scale3D(s, s, s)), got)
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, mgl32.Ident4(), DefaultModel())

	view := DefaultView()
	// origin lands EyeDistance in front of the camera
	p := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, -EyeDistance, p.Z(), tol)

	proj := DefaultProjection(0)
	assert.Equal(t, mgl32.Perspective(FovY, 1, Near, Far), proj)
}

func assertMatEqualTol(t *testing.T, want, got mgl32.Mat4, eps float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], eps, "element %d", i)
	}
}
