package spatialmath

import "github.com/golang/geo/r3"

// aabbExpansion pads every AABB obstacle outward by this much before testing, to paper over
// numeric noise at the boundary.
const aabbExpansion = 0.01

// AABB is an axis-aligned bounding box obstacle, given by its min and max corners in world space.
type AABB struct {
	Min, Max r3.Vector
}

// NewAABB builds an AABB from its min and max corners.
func NewAABB(min, max r3.Vector) AABB {
	return AABB{Min: min, Max: max}
}

// collidesWithSphere reports whether a sphere of the given radius centered at center intersects
// the box, using the standard squared-distance-to-clamped-point test. The box is pre-expanded by
// aabbExpansion on every face.
func (b AABB) collidesWithSphere(center r3.Vector, radius float64) bool {
	min := r3.Vector{X: b.Min.X - aabbExpansion, Y: b.Min.Y - aabbExpansion, Z: b.Min.Z - aabbExpansion}
	max := r3.Vector{X: b.Max.X + aabbExpansion, Y: b.Max.Y + aabbExpansion, Z: b.Max.Z + aabbExpansion}

	clamped := r3.Vector{
		X: clamp(center.X, min.X, max.X),
		Y: clamp(center.Y, min.Y, max.Y),
		Z: clamp(center.Z, min.Z, max.Z),
	}
	d := center.Sub(clamped)
	return d.Dot(d) <= radius*radius
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
