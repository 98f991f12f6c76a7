// Command armplandemo is an example host that builds a small manipulator chain, runs the
// planner against a named scenario, and prints the resulting path as a table.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/fatih/color"
	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"kinedyne.dev/armplan/collision"
	"kinedyne.dev/armplan/kinematics"
	"kinedyne.dev/armplan/logging"
	"kinedyne.dev/armplan/motionplan"
	"kinedyne.dev/armplan/spatialmath"
)

func main() {
	app := &cli.App{
		Name:  "armplandemo",
		Usage: "run the sampling-based arm planner against a built-in scenario",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scenario", Value: "open", Usage: "open | wall | gate"},
			&cli.StringFlag{Name: "algorithm", Value: "connect", Usage: "connect | standard"},
			&cli.IntFlag{Name: "seed", Value: 40, Usage: "PRNG seed"},
			&cli.IntFlag{Name: "max-iter", Value: 10000},
			&cli.Float64Flag{Name: "step-size", Value: 0.2},
			&cli.Float64Flag{Name: "goal-bias", Value: 0.15},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger := logging.NewLogger("armplandemo", logging.NewStdoutAppender())

	chain, err := nineDOFChain(logger)
	if err != nil {
		return fmt.Errorf("build chain: %w", err)
	}

	target, obstacles := scenario(c.String("scenario"))

	algorithm := motionplan.AlgorithmConnect
	if c.String("algorithm") == "standard" {
		algorithm = motionplan.AlgorithmStandard
	}
	seed := uint32(c.Int("seed"))
	params := motionplan.Params{
		StepSize:  c.Float64("step-size"),
		MaxIter:   c.Int("max-iter"),
		GoalBias:  c.Float64("goal-bias"),
		Seed:      &seed,
		Algorithm: algorithm,
	}

	planner := motionplan.NewPlanner(chain, collision.DefaultParams(), logger)
	qStart := make([]float64, chain.DOF())
	result := planner.Plan(qStart, target, obstacles, params)

	printResult(result, chain, target)
	return nil
}

func printResult(result motionplan.PlanResult, chain *kinematics.Chain, target r3.Vector) {
	if result.FailureReason != motionplan.FailureNone {
		color.Red("plan failed: %s (%s)", result.FailureReason, result.HumanDetails)
		return
	}
	color.Green("plan succeeded: %d configurations, %d start nodes, %d goal nodes, met at iteration %d",
		len(result.Path), result.TreeStats.StartNodes, result.TreeStats.GoalNodes, result.TreeStats.MeetIteration)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "tip x", "tip y", "tip z", "dist to target"})
	for i, q := range result.Path {
		tip, err := chain.TipPosition(q)
		if err != nil {
			continue
		}
		t.AppendRow(table.Row{i, round(tip.X), round(tip.Y), round(tip.Z), round(tip.Sub(target).Norm())})
	}
	t.Render()
}

func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// nineDOFChain builds the 9-DoF reference chain used by the wall and gate scenarios.
func nineDOFChain(logger *logging.Logger) (*kinematics.Chain, error) {
	links := []kinematics.Link{{Name: "base", Kind: kinematics.Fixed}}
	for i := 0; i < 9; i++ {
		axis := kinematics.AxisY
		if i%2 == 1 {
			axis = kinematics.AxisZ
		}
		links = append(links, kinematics.Link{
			Name:         fmt.Sprintf("joint%d", i+1),
			Kind:         kinematics.Revolute,
			Axis:         axis,
			Limit:        kinematics.Limit{Min: -math.Pi, Max: math.Pi},
			VisualLength: 0.3,
			Color:        "#4477aa",
		})
	}
	for i := 2; i < len(links); i++ {
		links[i].Offset = kinematics.Offset{Y: links[i-1].VisualLength}
	}
	links = append(links, kinematics.Link{Name: "tip", Kind: kinematics.Fixed, Offset: kinematics.Offset{Y: 0.3}})
	return kinematics.NewChain(links, logger)
}

func scenario(name string) (r3.Vector, []spatialmath.Obstacle) {
	switch name {
	case "wall":
		wall := spatialmath.NewAABBObstacle(
			r3.Vector{X: -0.1, Y: 0, Z: -1.5},
			r3.Vector{X: 0.1, Y: 3.0, Z: 1.5},
		)
		return r3.Vector{X: 1.0, Y: 1.5, Z: 0}, []spatialmath.Obstacle{wall}
	case "gate":
		leftPillar := spatialmath.NewAABBObstacle(r3.Vector{X: -0.2, Y: 0, Z: -2.4}, r3.Vector{X: 0.2, Y: 3.6, Z: -0.8})
		rightPillar := spatialmath.NewAABBObstacle(r3.Vector{X: -0.2, Y: 0, Z: 0.8}, r3.Vector{X: 0.2, Y: 3.6, Z: 2.4})
		topBar := spatialmath.NewAABBObstacle(r3.Vector{X: -0.2, Y: 3.6, Z: -2.4}, r3.Vector{X: 0.2, Y: 4.0, Z: 2.4})
		return r3.Vector{X: 3.31, Y: 1.53, Z: 1.88}, []spatialmath.Obstacle{leftPillar, rightPillar, topBar}
	default:
		return r3.Vector{X: 1.5, Y: 1.5, Z: 0}, nil
	}
}
