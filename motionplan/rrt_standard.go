package motionplan

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"

	"kinedyne.dev/armplan/kinematics"
)

// standardGoalTolerance is the task-space distance that ends a standard-RRT run successfully.
const standardGoalTolerance = 0.20

// standardResult is the internal outcome of one runStandardRRT call.
type standardResult struct {
	path      [][]float64
	tree      *tree
	iteration int
	ok        bool
	timedOut  bool
}

// runStandardRRT grows a single tree rooted at qStart, goal-biased toward qGoal, until a new node
// lands within standardGoalTolerance of target or the iteration/wall-clock budget expires.
func runStandardRRT(
	chain *kinematics.Chain,
	qStart, qGoal []float64,
	target r3.Vector,
	collider Collider,
	rng *RNG,
	params Params,
	clk clock.Clock,
	deadline time.Time,
) standardResult {
	limits := chain.Limits()
	tr := newTree(qStart)

	for iter := 0; iter < params.MaxIter; iter++ {
		if clk.Now().After(deadline) {
			return standardResult{tree: tr, iteration: iter, timedOut: true}
		}

		var sample []float64
		if rng.Float64() < params.GoalBias {
			sample = qGoal
		} else {
			sample = randomConfig(limits, rng)
		}

		nearest := tr.nearest(sample)
		qNew := steer(nearest.q, sample, params.StepSize)
		if distance(nearest.q, qNew) < identicalDist {
			continue
		}
		if !segmentValid(nearest.q, qNew, resolution, collider) {
			continue
		}
		newNode := tr.add(qNew, nearest)

		tip, err := chain.TipPosition(qNew)
		if err != nil {
			continue
		}
		if tip.Sub(target).Norm() <= standardGoalTolerance {
			return standardResult{path: pathTo(newNode), tree: tr, iteration: iter, ok: true}
		}
	}
	return standardResult{tree: tr, iteration: params.MaxIter}
}
