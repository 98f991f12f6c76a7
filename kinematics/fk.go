package kinematics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"kinedyne.dev/armplan/spatialmath"
)

// FKTransforms computes the world transform of every link in chain order for configuration q.
// Per link, forward kinematics composes a translation by the link's offset followed, for
// revolute links, by a rotation about the link's axis by its current angle.
func (c *Chain) FKTransforms(q []float64) ([]mgl64.Mat4, error) {
	if len(q) != c.dof {
		return nil, fmt.Errorf("expected %d joint angles, got %d", c.dof, len(q))
	}
	transforms := make([]mgl64.Mat4, len(c.links))
	world := mgl64.Ident4()
	qi := 0
	for i, l := range c.links {
		local := mgl64.Translate3D(l.Offset.X, l.Offset.Y, l.Offset.Z)
		if l.Kind == Revolute {
			angle := q[qi]
			qi++
			var rot mgl64.Mat4
			if l.Axis == AxisZ {
				rot = mgl64.HomogRotate3DZ(angle)
			} else {
				rot = mgl64.HomogRotate3DY(angle)
			}
			local = local.Mul4(rot)
		}
		world = world.Mul4(local)
		transforms[i] = world
	}
	return transforms, nil
}

// JointPositions computes the world-space pivot point of every link in chain order.
func (c *Chain) JointPositions(q []float64) ([]r3.Vector, error) {
	transforms, err := c.FKTransforms(q)
	if err != nil {
		return nil, err
	}
	points := make([]r3.Vector, len(transforms))
	for i, t := range transforms {
		p := t.Mul4x1(mgl64.Vec4{0, 0, 0, 1})
		points[i] = r3.Vector{X: p[0], Y: p[1], Z: p[2]}
	}
	return points, nil
}

// TipPosition returns the world position of the final (tip) link's pivot.
func (c *Chain) TipPosition(q []float64) (r3.Vector, error) {
	points, err := c.JointPositions(q)
	if err != nil {
		return r3.Vector{}, err
	}
	return points[len(points)-1], nil
}

// Segments returns the capsule segment between every pair of consecutive pivots whose
// originating link has nonzero visual length, in chain order.
func (c *Chain) Segments(q []float64) ([]spatialmath.Segment, error) {
	points, err := c.JointPositions(q)
	if err != nil {
		return nil, err
	}
	segments := make([]spatialmath.Segment, 0, len(c.links))
	for i, l := range c.links {
		if l.VisualLength <= 0 {
			continue
		}
		if i+1 >= len(points) {
			continue
		}
		segments = append(segments, spatialmath.NewSegment(points[i], points[i+1]))
	}
	return segments, nil
}
