package motionplan

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"kinedyne.dev/armplan/kinematics"
)

// FailureReason is the structured taxonomy of ways a plan() call can fail to find a path; the
// core never aborts the process, it always returns a PlanResult.
type FailureReason int

const (
	// FailureNone indicates success.
	FailureNone FailureReason = iota
	// FailureTimeout means either the iteration cap or the wall-clock limit expired without a path.
	FailureTimeout
	// FailureUnreachable means the target lies beyond 0.95*reach, detected before planning starts.
	FailureUnreachable
	// FailureGoalInCollision means IK converged but the converged configuration (and its sampled
	// neighbors) collide with an obstacle.
	FailureGoalInCollision
	// FailureSelfCollision names a single direct IK solve that yields a self-intersecting
	// configuration. Planner.Plan never returns it: a self-colliding goal surfaces as
	// FailureGoalInCollision, and a blocked search as FailureTimeout.
	FailureSelfCollision
)

func (f FailureReason) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureTimeout:
		return "timeout"
	case FailureUnreachable:
		return "unreachable"
	case FailureGoalInCollision:
		return "goal_in_collision"
	case FailureSelfCollision:
		return "self_collision"
	default:
		return "unknown"
	}
}

// TreeStats reports how large the search trees grew and, for RRT-Connect, at which iteration the
// two trees met. Duration is wall-clock time spent inside plan(), recorded for diagnostics — not
// part of the reproducibility contract.
type TreeStats struct {
	StartNodes    int
	GoalNodes     int
	MeetIteration int
	Duration      time.Duration
}

// PlanResult is the output of a single plan() call.
type PlanResult struct {
	// RunID uniquely identifies this plan() invocation, for correlating logs, serialized trees,
	// and results across a host's retry loop.
	RunID uuid.UUID
	// Path is the sequence of configurations from start to goal. It is nil on failure.
	Path          [][]float64
	FailureReason FailureReason
	HumanDetails  string
	TreeStats     TreeStats
}

// Validate re-checks a PlanResult against chain and collider: a successful result must carry a
// non-empty path, every node of it must sit within the chain's joint limits and be collision-free
// against collider, and every consecutive pair must clear segmentValid at the same resolution the
// planner itself uses. A failed result must not carry a path. This is a pure "trust but verify"
// pass over an already-returned path; it never re-runs planning.
func (r PlanResult) Validate(chain *kinematics.Chain, collider Collider) error {
	if r.FailureReason == FailureNone {
		if len(r.Path) == 0 {
			return errors.New("plan result reports success but carries an empty path")
		}
		for i, q := range r.Path {
			if !chain.InLimits(q) {
				return errors.Errorf("path node %d violates joint limits", i)
			}
			if collider != nil && collider.Collides(q) {
				return errors.Errorf("path node %d collides", i)
			}
		}
		for i := 0; i+1 < len(r.Path); i++ {
			if !segmentValid(r.Path[i], r.Path[i+1], resolution, collider) {
				return errors.Errorf("segment %d->%d is not collision-free", i, i+1)
			}
		}
		return nil
	}
	if len(r.Path) != 0 {
		return errors.Errorf("plan result reports failure %q but carries a non-empty path", r.FailureReason)
	}
	return nil
}
