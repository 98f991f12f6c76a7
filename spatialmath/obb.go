package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// OBB is an oriented bounding box obstacle: a half-extent box in its own local frame, placed in
// the world by a rigid (or at minimum affine) 4x4 transform.
type OBB struct {
	HalfSize  r3.Vector
	Transform mgl64.Mat4
}

// NewOBB builds an OBB from its half-extents and world transform.
func NewOBB(halfSize r3.Vector, transform mgl64.Mat4) OBB {
	return OBB{HalfSize: halfSize, Transform: transform}
}

// collidesWithSphere transforms the sphere center into the box's local frame via the inverse of
// its world transform, clamps to the local half-extents, and compares squared distance to r^2.
func (b OBB) collidesWithSphere(center r3.Vector, radius float64) bool {
	inv, ok := inverse(b.Transform)
	if !ok {
		// degenerate transform; treat as non-colliding rather than producing NaNs.
		return false
	}
	local := inv.Mul4x1(mgl64.Vec4{center.X, center.Y, center.Z, 1})

	clamped := mgl64.Vec3{
		clamp(local[0], -b.HalfSize.X, b.HalfSize.X),
		clamp(local[1], -b.HalfSize.Y, b.HalfSize.Y),
		clamp(local[2], -b.HalfSize.Z, b.HalfSize.Z),
	}
	dx := local[0] - clamped[0]
	dy := local[1] - clamped[1]
	dz := local[2] - clamped[2]
	distSq := dx*dx + dy*dy + dz*dz
	return distSq <= radius*radius
}

// inverse returns the inverse of m, and whether m was invertible. mgl64.Mat4 does not expose this
// directly as a (Mat4, bool) pair, so this adapts it the way callers need.
func inverse(m mgl64.Mat4) (mgl64.Mat4, bool) {
	det := m.Det()
	if det == 0 {
		return mgl64.Mat4{}, false
	}
	return m.Inv(), true
}
