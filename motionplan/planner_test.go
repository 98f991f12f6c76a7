package motionplan

import (
	"fmt"
	"math"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"kinedyne.dev/armplan/collision"
	"kinedyne.dev/armplan/kinematics"
	"kinedyne.dev/armplan/logging"
	"kinedyne.dev/armplan/spatialmath"
)

// planarChain builds an n-DoF chain of unit-length segments, reach = n. Joint axes alternate
// Y/Z, the same pattern cmd/armplandemo uses: a joint's rotation only reorients offsets that
// aren't parallel to its own axis, so a chain rotating every joint about the same axis as its
// segment offsets can never bend off that axis.
func planarChain(t *testing.T, n int) *kinematics.Chain {
	t.Helper()
	links := []kinematics.Link{{Name: "base", Kind: kinematics.Fixed}}
	for i := 0; i < n; i++ {
		axis := kinematics.AxisY
		if i%2 == 1 {
			axis = kinematics.AxisZ
		}
		links = append(links, kinematics.Link{
			Name:         fmt.Sprintf("j%d", i+1),
			Kind:         kinematics.Revolute,
			Axis:         axis,
			Limit:        kinematics.Limit{Min: -math.Pi, Max: math.Pi},
			Offset:       kinematics.Offset{Y: 1},
			VisualLength: 1,
		})
	}
	links[1].Offset = kinematics.Offset{} // first joint sits at the base with no extra offset
	links = append(links, kinematics.Link{Name: "tip", Kind: kinematics.Fixed, Offset: kinematics.Offset{Y: 1}})

	c, err := kinematics.NewChain(links, nil)
	test.That(t, err, test.ShouldBeNil)
	return c
}

func fourLinkChain(t *testing.T) *kinematics.Chain { return planarChain(t, 4) }
func fiveLinkChain(t *testing.T) *kinematics.Chain { return planarChain(t, 5) }
func nineLinkChain(t *testing.T) *kinematics.Chain { return planarChain(t, 9) }

func zeros(n int) []float64 { return make([]float64, n) }

func pinnedClock() *clock.Mock {
	return clock.NewMock()
}

func seedParam(v uint32) *uint32 { return &v }

// boxSurfaceDistance is the Euclidean distance from p to the nearest point on the box [min,max],
// zero if p is inside the box.
func boxSurfaceDistance(min, max, p r3.Vector) float64 {
	clamp := func(v, lo, hi float64) float64 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	clamped := r3.Vector{
		X: clamp(p.X, min.X, max.X),
		Y: clamp(p.Y, min.Y, max.Y),
		Z: clamp(p.Z, min.Z, max.Z),
	}
	return p.Sub(clamped).Norm()
}

// assertPathClearsBoxByMargin re-derives every sampled capsule point on every path node and
// checks it stays at least margin away from the box surface, independent of the collision
// package's own (unexported) radius bookkeeping.
func assertPathClearsBoxByMargin(t *testing.T, chain *kinematics.Chain, path [][]float64, min, max r3.Vector, armRadius, margin float64) {
	t.Helper()
	for i, q := range path {
		segments, err := chain.Segments(q)
		test.That(t, err, test.ShouldBeNil)
		for _, seg := range segments {
			for _, p := range seg.SamplePoints(10) {
				d := boxSurfaceDistance(min, max, p)
				if d < armRadius+margin {
					t.Fatalf("path node %d: capsule point %v is only %.3f from the obstacle, want >= %.3f", i, p, d, armRadius+margin)
				}
			}
		}
	}
}

func TestPlanUnreachableTargetFailsPreflight(t *testing.T) {
	chain := fourLinkChain(t)
	planner := NewPlanner(chain, collision.DefaultParams(), logging.NewTestLogger())
	planner.SetClock(pinnedClock())

	result := planner.Plan(zeros(4), r3.Vector{X: 5, Y: 0, Z: 0}, nil, DefaultParams())
	test.That(t, result.FailureReason, test.ShouldEqual, FailureUnreachable)
	test.That(t, result.Path, test.ShouldBeNil)
	test.That(t, result.Validate(chain, boundChecker{checker: planner.checker}), test.ShouldBeNil)

	// spec.md Scenario 1: detail must carry the concrete reach/target numbers, not a static string.
	test.That(t, result.HumanDetails, test.ShouldContainSubstring, "4.00")
	test.That(t, result.HumanDetails, test.ShouldContainSubstring, "3.80")
}

// TestPlanUnobstructedGoalSucceedsScenario2 matches spec.md Scenario 2 literally: 5-DoF chain,
// connect algorithm, seed 40, stepSize 0.2, maxIter 2000, goalBias 0.15. Directed growth on open
// space is expected to meet within 50 iterations.
func TestPlanUnobstructedGoalSucceedsScenario2(t *testing.T) {
	chain := fiveLinkChain(t)
	planner := NewPlanner(chain, collision.DefaultParams(), logging.NewTestLogger())
	planner.SetClock(pinnedClock())

	params := Params{
		StepSize:  0.2,
		MaxIter:   2000,
		GoalBias:  0.15,
		Seed:      seedParam(40),
		Algorithm: AlgorithmConnect,
	}
	target := r3.Vector{X: 1.5, Y: 1.5, Z: 0}
	result := planner.Plan(zeros(5), target, nil, params)

	test.That(t, result.FailureReason, test.ShouldEqual, FailureNone)
	test.That(t, len(result.Path), test.ShouldBeGreaterThanOrEqualTo, 1)
	test.That(t, result.TreeStats.MeetIteration, test.ShouldBeLessThanOrEqualTo, 50)

	last := result.Path[len(result.Path)-1]
	tip, err := chain.TipPosition(last)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tip.Sub(target).Norm(), test.ShouldBeLessThanOrEqualTo, 0.05)
}

func TestPlanIsDeterministicForFixedSeedAndIterationCap(t *testing.T) {
	chain := fourLinkChain(t)
	params := Params{
		StepSize:  0.2,
		MaxIter:   1500,
		GoalBias:  0.15,
		Seed:      seedParam(7),
		Algorithm: AlgorithmStandard,
	}

	run := func() PlanResult {
		planner := NewPlanner(chain, collision.DefaultParams(), logging.NewTestLogger())
		planner.SetClock(pinnedClock())
		return planner.Plan(zeros(4), r3.Vector{X: 1.2, Y: 1.2, Z: 0}, nil, params)
	}

	a := run()
	b := run()
	test.That(t, a.FailureReason, test.ShouldEqual, b.FailureReason)
	test.That(t, a.Path, test.ShouldResemble, b.Path)
}

// TestPlanWallScenarioTimesOutScenario4 matches spec.md Scenario 4 literally: 9-DoF chain, same
// wall, weak standard-RRT parameters (stepSize 0.05, maxIter 5000, goalBias 0.0). Expected to
// exhaust its iteration cap without a path, and never grow past the cap.
func TestPlanWallScenarioTimesOutScenario4(t *testing.T) {
	chain := nineLinkChain(t)
	wall := spatialmath.NewAABBObstacle(
		r3.Vector{X: -0.1, Y: 0, Z: -1.5},
		r3.Vector{X: 0.1, Y: 3.0, Z: 1.5},
	)
	planner := NewPlanner(chain, collision.DefaultParams(), logging.NewTestLogger())
	planner.SetClock(pinnedClock())

	params := Params{
		StepSize:  0.05,
		MaxIter:   5000,
		GoalBias:  0.0,
		Seed:      seedParam(40),
		Algorithm: AlgorithmStandard,
	}
	result := planner.Plan(zeros(9), r3.Vector{X: 1.0, Y: 1.5, Z: 0}, []spatialmath.Obstacle{wall}, params)

	test.That(t, result.FailureReason, test.ShouldEqual, FailureTimeout)
	test.That(t, result.Path, test.ShouldBeNil)
	test.That(t, result.TreeStats.StartNodes, test.ShouldBeLessThan, 5000)
}

// TestPlanWallScenarioConnectClearsMarginScenario3 matches spec.md Scenario 3: 9-DoF chain,
// same wall, RRT-Connect with stepSize 0.2, maxIter 10000, goalBias 0.15. Expected to succeed
// with every capsule on the path at least 0.15 clear of the obstacle surface.
func TestPlanWallScenarioConnectClearsMarginScenario3(t *testing.T) {
	chain := nineLinkChain(t)
	wallMin := r3.Vector{X: -0.1, Y: 0, Z: -1.5}
	wallMax := r3.Vector{X: 0.1, Y: 3.0, Z: 1.5}
	wall := spatialmath.NewAABBObstacle(wallMin, wallMax)

	collisionParams := collision.DefaultParams()
	planner := NewPlanner(chain, collisionParams, logging.NewTestLogger())
	planner.SetClock(pinnedClock())

	params := Params{
		StepSize:  0.2,
		MaxIter:   10000,
		GoalBias:  0.15,
		Seed:      seedParam(40),
		Algorithm: AlgorithmConnect,
	}
	result := planner.Plan(zeros(9), r3.Vector{X: 1.0, Y: 1.5, Z: 0}, []spatialmath.Obstacle{wall}, params)

	test.That(t, result.FailureReason, test.ShouldEqual, FailureNone)
	test.That(t, len(result.Path), test.ShouldBeGreaterThanOrEqualTo, 1)

	// obstacle clearance margin baked into collision.Checker: ArmHalfWidth + 0.15.
	const obstacleMargin = 0.15
	assertPathClearsBoxByMargin(t, chain, result.Path, wallMin, wallMax, collisionParams.ArmHalfWidth, obstacleMargin-1e-6)
}

// TestPlanGoalInCollisionScenario5 is grounded in spec.md Scenario 5: the target sits inside an
// obstacle, so find_valid_neighbor must exhaust its progressive thresholds {0.20, 0.30, 0.40,
// 0.50} and the plan reports goal_in_collision instead of silently returning a colliding path.
// The box here is deliberately larger than Scenario 5's literal box (whose nearest surface sits
// only ~0.5 from the target, on the edge of the largest threshold) so the result is deterministic
// regardless of which direction find_valid_neighbor's random jitter happens to search in.
func TestPlanGoalInCollisionScenario5(t *testing.T) {
	chain := fourLinkChain(t)
	box := spatialmath.NewAABBObstacle(
		r3.Vector{X: -2, Y: -2, Z: -2},
		r3.Vector{X: 2, Y: 4, Z: 2},
	)
	planner := NewPlanner(chain, collision.DefaultParams(), logging.NewTestLogger())
	planner.SetClock(pinnedClock())

	params := Params{
		StepSize:  0.2,
		MaxIter:   2000,
		GoalBias:  0.15,
		Seed:      seedParam(40),
		Algorithm: AlgorithmConnect,
	}
	result := planner.Plan(zeros(4), r3.Vector{X: 0, Y: 1, Z: 0}, []spatialmath.Obstacle{box}, params)

	test.That(t, result.FailureReason, test.ShouldEqual, FailureGoalInCollision)
	test.That(t, result.Path, test.ShouldBeNil)
}

func TestPlanConnectAlgorithmReportsTreeStats(t *testing.T) {
	chain := fourLinkChain(t)
	planner := NewPlanner(chain, collision.DefaultParams(), logging.NewTestLogger())
	planner.SetClock(pinnedClock())

	params := Params{
		StepSize:  0.2,
		MaxIter:   3000,
		GoalBias:  0.15,
		Seed:      seedParam(40),
		Algorithm: AlgorithmConnect,
	}
	result := planner.Plan(zeros(4), r3.Vector{X: 1.5, Y: 1.5, Z: 0}, nil, params)

	test.That(t, result.FailureReason, test.ShouldEqual, FailureNone)
	test.That(t, result.TreeStats.StartNodes, test.ShouldBeGreaterThan, 0)
	test.That(t, result.TreeStats.GoalNodes, test.ShouldBeGreaterThan, 0)

	tree := planner.LastTree()
	test.That(t, tree.Algorithm, test.ShouldEqual, AlgorithmConnect)
	test.That(t, len(tree.Nodes), test.ShouldEqual, result.TreeStats.StartNodes+result.TreeStats.GoalNodes)
}

// TestPlanGateScenario6 matches spec.md Scenario 6: a 9-DoF chain threading an inverted-U gate
// with RRT-Connect. Demonstrates bidirectional efficiency by meeting well inside the iteration
// cap, in contrast to a standard-RRT run over the same scene which is given the same budget.
func TestPlanGateScenario6(t *testing.T) {
	chain := nineLinkChain(t)
	leftPillar := spatialmath.NewAABBObstacle(r3.Vector{X: -0.2, Y: 0, Z: -2.4}, r3.Vector{X: 0.2, Y: 3.6, Z: -0.8})
	rightPillar := spatialmath.NewAABBObstacle(r3.Vector{X: -0.2, Y: 0, Z: 0.8}, r3.Vector{X: 0.2, Y: 3.6, Z: 2.4})
	topBar := spatialmath.NewAABBObstacle(r3.Vector{X: -0.2, Y: 3.6, Z: -2.4}, r3.Vector{X: 0.2, Y: 4.0, Z: 2.4})
	obstacles := []spatialmath.Obstacle{leftPillar, rightPillar, topBar}
	target := r3.Vector{X: 3.31, Y: 1.53, Z: 1.88}

	connectParams := Params{
		StepSize:  0.2,
		MaxIter:   10000,
		GoalBias:  0.15,
		Seed:      seedParam(40),
		Algorithm: AlgorithmConnect,
	}
	connectPlanner := NewPlanner(chain, collision.DefaultParams(), logging.NewTestLogger())
	connectPlanner.SetClock(pinnedClock())
	connectResult := connectPlanner.Plan(zeros(9), target, obstacles, connectParams)

	test.That(t, connectResult.FailureReason, test.ShouldEqual, FailureNone)
	test.That(t, len(connectResult.Path), test.ShouldBeGreaterThanOrEqualTo, 1)
	test.That(t, connectResult.TreeStats.MeetIteration, test.ShouldBeLessThan, connectParams.MaxIter)

	standardParams := connectParams
	standardParams.Algorithm = AlgorithmStandard
	standardPlanner := NewPlanner(chain, collision.DefaultParams(), logging.NewTestLogger())
	standardPlanner.SetClock(pinnedClock())
	standardResult := standardPlanner.Plan(zeros(9), target, obstacles, standardParams)

	connectTreeSize := connectResult.TreeStats.StartNodes + connectResult.TreeStats.GoalNodes
	if standardResult.FailureReason == FailureNone {
		test.That(t, connectTreeSize, test.ShouldBeLessThan, standardResult.TreeStats.StartNodes)
	}
}
