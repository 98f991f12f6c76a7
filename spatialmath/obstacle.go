package spatialmath

import "github.com/golang/geo/r3"

// ObstacleKind tags which variant a Obstacle holds. Obstacles dispatch on this tag rather than
// through an interface: the inner collision loop visits every obstacle per sample point, and a
// small set of tagged cases is faster and simpler than an open interface.
type ObstacleKind int

const (
	// ObstacleKindAABB marks an Obstacle as holding an AABB.
	ObstacleKindAABB ObstacleKind = iota
	// ObstacleKindOBB marks an Obstacle as holding an OBB.
	ObstacleKindOBB
)

// Obstacle is a box obstacle, either axis-aligned or oriented.
type Obstacle struct {
	Kind ObstacleKind
	AABB AABB
	OBB  OBB
}

// NewAABBObstacle wraps an AABB as an Obstacle.
func NewAABBObstacle(min, max r3.Vector) Obstacle {
	return Obstacle{Kind: ObstacleKindAABB, AABB: NewAABB(min, max)}
}

// NewOBBObstacle wraps an OBB as an Obstacle.
func NewOBBObstacle(obb OBB) Obstacle {
	return Obstacle{Kind: ObstacleKindOBB, OBB: obb}
}

// CollidesWithSphere reports whether a sphere of the given radius centered at center intersects
// this obstacle.
func (o Obstacle) CollidesWithSphere(center r3.Vector, radius float64) bool {
	switch o.Kind {
	case ObstacleKindAABB:
		return o.AABB.collidesWithSphere(center, radius)
	case ObstacleKindOBB:
		return o.OBB.collidesWithSphere(center, radius)
	default:
		return false
	}
}
