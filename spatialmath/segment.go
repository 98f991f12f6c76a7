package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// degenerateEpsilon is how close a segment's squared length can be to zero before it is treated
// as a point rather than a line.
const degenerateEpsilon = 1e-12

// Segment is a directed line segment between two endpoints in world space.
type Segment struct {
	Start, End r3.Vector
}

// NewSegment builds a Segment between two endpoints.
func NewSegment(start, end r3.Vector) Segment {
	return Segment{Start: start, End: end}
}

// ClosestPointsDistance returns the minimum Euclidean distance between this segment and other,
// via the classic two-segment closest-point algorithm: parameterize S1(s) = a.Start + s*d1,
// S2(t) = b.Start + t*d2, solve the 2x2 normal-equations system for the unconstrained minimum,
// then clamp s and t into [0,1] and re-solve as needed. It is symmetric: dist(a,b) ==
// dist(b,a).
func (a Segment) ClosestPointsDistance(b Segment) float64 {
	d1 := a.End.Sub(a.Start)
	d2 := b.End.Sub(b.Start)
	r := a.Start.Sub(b.Start)

	aCoef := d1.Dot(d1)
	eCoef := d2.Dot(d2)
	fCoef := d2.Dot(r)

	var s, t float64

	switch {
	case aCoef <= degenerateEpsilon && eCoef <= degenerateEpsilon:
		// Both segments are effectively points.
		s, t = 0, 0
	case aCoef <= degenerateEpsilon:
		// First segment degenerates to a point.
		s = 0
		t = clamp(fCoef/eCoef, 0, 1)
	case eCoef <= degenerateEpsilon:
		// Second segment degenerates to a point.
		t = 0
		s = clamp(-d1.Dot(r)/aCoef, 0, 1)
	default:
		bCoef := d1.Dot(d2)
		cCoef := d1.Dot(r)
		denom := aCoef*eCoef - bCoef*bCoef

		if denom > degenerateEpsilon {
			s, t = solve2x2(aCoef, -bCoef, bCoef, -eCoef, -cCoef, -fCoef)
			s = clamp(s, 0, 1)
		} else {
			// Parallel segments: the 2x2 system is singular, pick an arbitrary s on the segment.
			s = 0
		}

		t = (bCoef*s + fCoef) / eCoef
		if t < 0 {
			t = 0
			s = clamp(-cCoef/aCoef, 0, 1)
		} else if t > 1 {
			t = 1
			s = clamp((bCoef-cCoef)/aCoef, 0, 1)
		}
	}

	p1 := a.Start.Add(d1.Mul(s))
	p2 := b.Start.Add(d2.Mul(t))
	diff := p1.Sub(p2)
	return diff.Norm()
}

// solve2x2 solves the linear system
//
//	[a b] [x]   [e]
//	[c d] [y] = [f]
//
// using gonum's dense solver, rather than hand-inverting the 2x2 matrix.
func solve2x2(a, b, c, d, e, f float64) (x, y float64) {
	A := mat.NewDense(2, 2, []float64{a, b, c, d})
	rhs := mat.NewVecDense(2, []float64{e, f})
	var sol mat.VecDense
	if err := sol.SolveVec(A, rhs); err != nil {
		return 0, 0
	}
	return sol.AtVec(0), sol.AtVec(1)
}

// SamplePoints returns k points uniformly spaced along the segment, including both endpoints
// (k must be >= 2). Used by the collision engine to approximate a capsule with a finite set of
// sphere checks.
func (a Segment) SamplePoints(k int) []r3.Vector {
	if k < 2 {
		k = 2
	}
	pts := make([]r3.Vector, k)
	dir := a.End.Sub(a.Start)
	for i := 0; i < k; i++ {
		frac := float64(i) / float64(k-1)
		pts[i] = a.Start.Add(dir.Mul(frac))
	}
	return pts
}

// Trimmed returns a copy of the segment shortened by trim inward from each end, clamping to the
// midpoint if the segment is shorter than 2*trim.
func (a Segment) Trimmed(trim float64) Segment {
	dir := a.End.Sub(a.Start)
	length := dir.Norm()
	if length <= 2*trim {
		mid := a.Start.Add(dir.Mul(0.5))
		return Segment{Start: mid, End: mid}
	}
	unit := dir.Mul(1 / length)
	return Segment{
		Start: a.Start.Add(unit.Mul(trim)),
		End:   a.End.Sub(unit.Mul(trim)),
	}
}
