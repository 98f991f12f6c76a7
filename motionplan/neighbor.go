package motionplan

import (
	"math"

	"github.com/golang/geo/r3"

	"kinedyne.dev/armplan/kinematics"
)

// neighborThresholds are the progressive task-space distances tried by findValidNeighbor.
var neighborThresholds = []float64{0.20, 0.30, 0.40, 0.50}

// candidatesPerThreshold is how many random perturbations are sampled within each threshold.
const candidatesPerThreshold = 75

// neighborJitter bounds the uniform per-joint perturbation added to qGoal.
const neighborJitter = 0.8

// findValidNeighbor looks for a collision-free configuration near qGoal whose tip lands within a
// progressively looser task-space threshold of target, used when the direct IK solution for the
// goal collides. It returns as soon as a collision-free candidate's tip lands within the current
// threshold; if none ever does, it returns the closest collision-free candidate seen. The bool
// reports whether any collision-free candidate was found at all.
func findValidNeighbor(
	chain *kinematics.Chain,
	qGoal []float64,
	target r3.Vector,
	collider Collider,
	rng *RNG,
) ([]float64, bool) {
	var best []float64
	bestDist := math.MaxFloat64

	for _, threshold := range neighborThresholds {
		for i := 0; i < candidatesPerThreshold; i++ {
			candidate := chain.Clamp(perturb(qGoal, rng))
			if collider.Collides(candidate) {
				continue
			}
			tip, err := chain.TipPosition(candidate)
			if err != nil {
				continue
			}
			d := tip.Sub(target).Norm()
			if d < bestDist {
				bestDist = d
				best = candidate
			}
			if d <= threshold {
				return candidate, true
			}
		}
		if best != nil && bestDist <= threshold {
			return best, true
		}
	}
	return best, best != nil
}

func perturb(q []float64, rng *RNG) []float64 {
	out := make([]float64, len(q))
	for i, v := range q {
		out[i] = v + rng.Uniform(-neighborJitter, neighborJitter)
	}
	return out
}
