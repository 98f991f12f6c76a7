package motionplan

import (
	"math"

	"kinedyne.dev/armplan/kinematics"
)

// identicalDist is how close two configurations must be before an extend step is treated as
// having made no progress and is skipped.
const identicalDist = 1e-6

// Collider is the minimal collision surface the planner primitives need: whether a configuration
// is in collision (self or obstacle — the caller decides what "collides" means).
type Collider interface {
	Collides(q []float64) bool
}

// distance is Euclidean distance in joint space.
func distance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// steer returns a configuration at most eps away from from, in the direction of to.
func steer(from, to []float64, eps float64) []float64 {
	d := distance(from, to)
	if d <= eps {
		return append([]float64(nil), to...)
	}
	out := make([]float64, len(from))
	scale := eps / d
	for i := range from {
		out[i] = from[i] + (to[i]-from[i])*scale
	}
	return out
}

// interpolate returns the configuration frac of the way from from to to (frac in [0,1]).
func interpolate(from, to []float64, frac float64) []float64 {
	out := make([]float64, len(from))
	for i := range from {
		out[i] = from[i] + (to[i]-from[i])*frac
	}
	return out
}

// randomConfig samples a configuration uniformly within every joint's limit, using rng.
func randomConfig(limits []kinematics.Limit, rng *RNG) []float64 {
	q := make([]float64, len(limits))
	for i, l := range limits {
		q[i] = rng.Uniform(l.Min, l.Max)
	}
	return q
}

// segmentValid checks collision along the straight-line path from to to at resolution, to
// prevent tunneling through thin obstacles when stepSize exceeds resolution.
func segmentValid(from, to []float64, resolution float64, collider Collider) bool {
	d := distance(from, to)
	if d < resolution {
		return !collider.Collides(to)
	}
	steps := int(math.Ceil(d / resolution))
	for i := 1; i <= steps; i++ {
		frac := float64(i) / float64(steps)
		if collider.Collides(interpolate(from, to, frac)) {
			return false
		}
	}
	return true
}
