package motionplan

import (
	"time"

	"github.com/benbjohnson/clock"

	"kinedyne.dev/armplan/kinematics"
)

// connectTolerance is the joint-space distance at which a Connect chain is considered to have
// met the other tree.
const connectTolerance = 0.1

// connectResult is the internal outcome of one runConnectRRT call.
type connectResult struct {
	path          [][]float64
	startTree     *tree
	goalTree      *tree
	meetIteration int
	ok            bool
}

// connect repeatedly steers tr's nearest node toward targetQ, appending every valid step, until it
// lands within connectTolerance of targetQ (success), or a step collides or makes no progress
// (both give up).
func connect(tr *tree, targetQ []float64, stepSize float64, collider Collider) (*node, bool) {
	near := tr.nearest(targetQ)
	for {
		qNew := steer(near.q, targetQ, stepSize)
		if distance(near.q, qNew) < identicalDist {
			return nil, false
		}
		if !segmentValid(near.q, qNew, resolution, collider) {
			return nil, false
		}
		newNode := tr.add(qNew, near)
		if distance(newNode.q, targetQ) < connectTolerance {
			return newNode, true
		}
		near = newNode
	}
}

// runConnectRRT grows two trees, treeA rooted at qStart and treeB rooted at qGoal, swapping their
// roles each iteration: each round extends the current "treeA" one step toward a sample, then
// tries to Connect "treeB" all the way to that new node. The identity of which physical
// tree is start-rooted is tracked by startIsA rather than by variable name, since the variables
// themselves are swapped.
func runConnectRRT(
	chain *kinematics.Chain,
	qStart, qGoal []float64,
	collider Collider,
	rng *RNG,
	params Params,
	clk clock.Clock,
	deadline time.Time,
) connectResult {
	limits := chain.Limits()
	treeA := newTree(qStart)
	treeB := newTree(qGoal)
	startIsA := true

	for iter := 0; iter < params.MaxIter; iter++ {
		if clk.Now().After(deadline) {
			break
		}

		var sample []float64
		if rng.Float64() < params.GoalBias {
			sample = qGoal
		} else {
			sample = randomConfig(limits, rng)
		}

		near := treeA.nearest(sample)
		qNew := steer(near.q, sample, params.StepSize)
		if distance(near.q, qNew) < identicalDist {
			treeA, treeB = treeB, treeA
			startIsA = !startIsA
			continue
		}
		if !segmentValid(near.q, qNew, resolution, collider) {
			treeA, treeB = treeB, treeA
			startIsA = !startIsA
			continue
		}
		newNode := treeA.add(qNew, near)

		connected, ok := connect(treeB, newNode.q, params.StepSize, collider)
		if ok {
			pathNew := pathTo(newNode)
			pathConnected := pathTo(connected)
			full := make([][]float64, 0, len(pathNew)+len(pathConnected))

			var startTree, goalTree *tree
			if startIsA {
				full = append(full, pathNew...)
				for i := len(pathConnected) - 1; i >= 0; i-- {
					full = append(full, pathConnected[i])
				}
				startTree, goalTree = treeA, treeB
			} else {
				full = append(full, pathConnected...)
				for i := len(pathNew) - 1; i >= 0; i-- {
					full = append(full, pathNew[i])
				}
				startTree, goalTree = treeB, treeA
			}
			return connectResult{path: full, startTree: startTree, goalTree: goalTree, meetIteration: iter, ok: true}
		}

		treeA, treeB = treeB, treeA
		startIsA = !startIsA
	}

	var startTree, goalTree *tree
	if startIsA {
		startTree, goalTree = treeA, treeB
	} else {
		startTree, goalTree = treeB, treeA
	}
	return connectResult{startTree: startTree, goalTree: goalTree, meetIteration: params.MaxIter}
}

// snapToTarget attempts to extend path's final configuration toward targetQ using a reduced step
// size, appending every successful intermediate step. Failure is non-fatal: on any collision or
// stall the original path (or whatever was appended so far) is returned.
func snapToTarget(path [][]float64, targetQ []float64, stepSize float64, collider Collider) [][]float64 {
	if len(path) == 0 {
		return path
	}
	out := append([][]float64(nil), path...)
	cur := out[len(out)-1]
	for {
		qNew := steer(cur, targetQ, stepSize)
		if distance(cur, qNew) < identicalDist {
			break
		}
		if !segmentValid(cur, qNew, resolution, collider) {
			break
		}
		out = append(out, qNew)
		cur = qNew
		if distance(cur, targetQ) < connectTolerance {
			break
		}
	}
	return out
}
