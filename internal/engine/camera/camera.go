// Package camera provides the orbit camera transforms driven by pointer input.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// RotationSpeed is radians of rotation per logical pointer unit.
	RotationSpeed = 0.05
	// ZoomSpeed is the scale change per normalized scroll unit.
	ZoomSpeed = 0.03
)

// Default projection and view parameters.
const (
	FovY        float32 = 1.25
	Near        float32 = 0.1
	Far         float32 = 10.0
	EyeDistance float32 = 2.0
)

// RotateFromMouse rotates m by a pointer drag of (dx, dy).
//
// The rotation axes are the world X and Y axes taken through the inverse of m,
// so a horizontal drag always spins the object about the viewer's vertical
// axis no matter how it is currently oriented.
func RotateFromMouse(m mgl32.Mat4, dx, dy float64) mgl32.Mat4 {
	xRad := float32(dy * RotationSpeed)
	yRad := float32(dx * RotationSpeed)

	inv := m.Inv()
	xAxis := axis(inv.Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3(), mgl32.Vec3{1, 0, 0})
	yAxis := axis(inv.Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3(), mgl32.Vec3{0, 1, 0})

	xRot := mgl32.QuatRotate(xRad, xAxis).Mat4()
	yRot := mgl32.QuatRotate(yRad, yAxis).Mat4()

	return m.Mul4(xRot.Mul4(yRot))
}

// ZoomFromScroll scales m uniformly by 1 + delta*ZoomSpeed.
// delta must already be normalized by the caller (see input.ScrollDelta).
func ZoomFromScroll(m mgl32.Mat4, delta float64) mgl32.Mat4 {
	s := float32(1 + delta*ZoomSpeed)
	return m.Mul4(mgl32.Scale3D(s, s, s))
}

// DefaultProjection returns the perspective projection used by the globe view.
func DefaultProjection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(FovY, aspect, Near, Far)
}

// DefaultView looks at the origin from EyeDistance along +Z.
func DefaultView() mgl32.Mat4 {
	return mgl32.LookAtV(
		mgl32.Vec3{0, 0, EyeDistance},
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{0, 1, 0},
	)
}

// DefaultModel returns the identity model matrix.
func DefaultModel() mgl32.Mat4 {
	return mgl32.Ident4()
}

// axis normalizes v, falling back when the inverse was singular.
func axis(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return fallback
	}
	return v.Mul(1 / l)
}
