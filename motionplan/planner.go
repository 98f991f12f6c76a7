// Package motionplan implements the deterministic sampling-based planner: RNG, configuration-
// space primitives, and the standard-RRT and RRT-Connect engines built on top of the kinematics
// and collision packages.
package motionplan

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/google/uuid"

	"kinedyne.dev/armplan/collision"
	"kinedyne.dev/armplan/kinematics"
	"kinedyne.dev/armplan/logging"
	"kinedyne.dev/armplan/motionplan/ik"
	"kinedyne.dev/armplan/spatialmath"
)

// reachMargin is the fraction of total reach beyond which a target is declared unreachable
// before planning even starts.
const reachMargin = 0.95

// maxPlanDuration is the wall-clock budget per plan() call.
const maxPlanDuration = 3000 * time.Millisecond

// Planner ties the kinematic model, collision checker, and IK solver together to grow RRT paths.
// A Planner is reusable across calls to Plan; each call reseeds its own RNG and grows its own
// trees, so a single Planner is safe to reuse sequentially for many runs.
type Planner struct {
	chain          *kinematics.Chain
	checker        *collision.Checker
	clock          clock.Clock
	logger         *logging.Logger
	lastSerialized SerializedTree
}

// NewPlanner builds a Planner bound to chain and the given collision thickness parameters.
func NewPlanner(chain *kinematics.Chain, collisionParams collision.Params, logger *logging.Logger) *Planner {
	return &Planner{
		chain:   chain,
		checker: collision.NewChecker(chain, collisionParams),
		clock:   clock.New(),
		logger:  logger,
	}
}

// SetClock overrides the wall-clock source; tests use this to inject a mock clock so the
// wall-clock terminator never interferes with deterministic-seed assertions.
func (p *Planner) SetClock(c clock.Clock) {
	p.clock = c
}

// boundChecker adapts a collision.Checker plus a fixed obstacle set into the single-argument
// Collides(q) shape that both ik.Collider and motionplan.Collider expect.
type boundChecker struct {
	checker   *collision.Checker
	obstacles []spatialmath.Obstacle
}

func (b boundChecker) Collides(q []float64) bool {
	return b.checker.Collides(q, b.obstacles)
}

// Plan grows a path from qStart to within tolerance of target, avoiding obstacles and self-
// collision, per params.
func (p *Planner) Plan(qStart []float64, target r3.Vector, obstacles []spatialmath.Obstacle, params Params) PlanResult {
	params = params.normalize()
	runID := uuid.New()
	started := p.clock.Now()
	deadline := started.Add(maxPlanDuration)

	logger := p.logger.Named("motionplan")
	logger.Infow("plan started", "runID", runID, "algorithm", params.Algorithm, "maxIter", params.MaxIter)
	p.lastSerialized = SerializedTree{RunID: runID, Algorithm: params.Algorithm}

	var seed uint32
	if params.Seed != nil {
		seed = *params.Seed
	} else {
		seed = NewSystemRNG().state
	}
	rng := NewRNG(seed)

	collider := boundChecker{checker: p.checker, obstacles: obstacles}

	reach := p.chain.Reach()
	if target.Norm() > reachMargin*reach {
		detail := fmt.Sprintf(
			"target at distance %.2f exceeds the reachable limit of %.2f (chain reach is %.2f)",
			target.Norm(), reachMargin*reach, reach,
		)
		logger.Infow("plan preflight failed", "runID", runID, "reason", "unreachable")
		return PlanResult{
			RunID:         runID,
			FailureReason: FailureUnreachable,
			HumanDetails:  detail,
			TreeStats:     TreeStats{Duration: p.clock.Now().Sub(started)},
		}
	}

	qGoal := ik.RobustIK(p.chain, target, collider, rng, qStart)
	if collider.Collides(qGoal) {
		neighbor, found := findValidNeighbor(p.chain, qGoal, target, collider, rng)
		if !found {
			logger.Infow("plan goal in collision", "runID", runID)
			return PlanResult{
				RunID:         runID,
				FailureReason: FailureGoalInCollision,
				HumanDetails:  "converged goal configuration and its sampled neighbors all collide",
				TreeStats:     TreeStats{Duration: p.clock.Now().Sub(started)},
			}
		}
		qGoal = neighbor
	}

	switch params.Algorithm {
	case AlgorithmStandard:
		return p.planStandard(runID, started, deadline, qStart, qGoal, target, collider, rng, params, logger)
	default:
		return p.planConnect(runID, started, deadline, qStart, qGoal, target, collider, rng, params, logger)
	}
}

func (p *Planner) planStandard(
	runID uuid.UUID,
	started, deadline time.Time,
	qStart, qGoal []float64,
	target r3.Vector,
	collider Collider,
	rng *RNG,
	params Params,
	logger *logging.Logger,
) PlanResult {
	result := runStandardRRT(p.chain, qStart, qGoal, target, collider, rng, params, p.clock, deadline)
	p.lastSerialized = serializeTrees(runID, AlgorithmStandard, result.tree, nil)

	stats := TreeStats{StartNodes: len(result.tree.nodes), Duration: p.clock.Now().Sub(started)}
	if !result.ok {
		detail := "iteration cap exhausted without reaching the goal"
		if result.timedOut {
			detail = "wall-clock limit exhausted without reaching the goal"
		}
		logger.Infow("plan timed out", "runID", runID, "timedOut", result.timedOut, "nodes", stats.StartNodes)
		return PlanResult{RunID: runID, FailureReason: FailureTimeout, HumanDetails: detail, TreeStats: stats}
	}

	logger.Infow("plan succeeded", "runID", runID, "iterations", result.iteration, "nodes", stats.StartNodes)
	return PlanResult{RunID: runID, Path: result.path, FailureReason: FailureNone, HumanDetails: "success", TreeStats: stats}
}

func (p *Planner) planConnect(
	runID uuid.UUID,
	started, deadline time.Time,
	qStart, qGoal []float64,
	target r3.Vector,
	collider Collider,
	rng *RNG,
	params Params,
	logger *logging.Logger,
) PlanResult {
	result := runConnectRRT(p.chain, qStart, qGoal, collider, rng, params, p.clock, deadline)
	stats := TreeStats{
		StartNodes:    len(result.startTree.nodes),
		GoalNodes:     len(result.goalTree.nodes),
		MeetIteration: result.meetIteration,
		Duration:      p.clock.Now().Sub(started),
	}

	if !result.ok {
		p.lastSerialized = serializeTrees(runID, AlgorithmConnect, result.startTree, result.goalTree)
		logger.Infow("plan timed out", "runID", runID, "startNodes", stats.StartNodes, "goalNodes", stats.GoalNodes)
		return PlanResult{
			RunID:         runID,
			FailureReason: FailureTimeout,
			HumanDetails:  "iteration cap or wall-clock limit exhausted before the trees met",
			TreeStats:     stats,
		}
	}

	snapTarget := ik.RobustIK(p.chain, target, collider, rng, result.path[len(result.path)-1])
	path := snapToTarget(result.path, snapTarget, params.StepSize*0.75, collider)
	p.lastSerialized = serializeTrees(runID, AlgorithmConnect, result.startTree, result.goalTree)

	logger.Infow("plan succeeded", "runID", runID, "meetIteration", result.meetIteration, "pathLen", len(path))
	return PlanResult{RunID: runID, Path: path, FailureReason: FailureNone, HumanDetails: "success", TreeStats: stats}
}

// LastTree serializes the trees grown during the most recent Plan call. It remains valid after a failed plan so callers can still render the search for debugging.
func (p *Planner) LastTree() SerializedTree {
	return p.lastSerialized
}
