package kinematics

import (
	"errors"
	"math"
	"testing"

	"go.viam.com/test"
)

// simpleChain builds a planar 2-link arm (base -> shoulder -> elbow -> tip), each segment of
// length 1, rotating about Y, with no joint limits beyond +/- pi.
func simpleChain(t *testing.T) *Chain {
	t.Helper()
	links := []Link{
		{Name: "base", Kind: Fixed},
		{Name: "shoulder", Kind: Revolute, Axis: AxisY, Limit: Limit{-math.Pi, math.Pi}, VisualLength: 1},
		{Name: "elbow", Kind: Revolute, Axis: AxisY, Limit: Limit{-math.Pi, math.Pi}, Offset: Offset{Y: 1}, VisualLength: 1},
		{Name: "tip", Kind: Fixed, Offset: Offset{Y: 1}},
	}
	c, err := NewChain(links, nil)
	test.That(t, err, test.ShouldBeNil)
	return c
}

func TestNewChainRejectsNonFixedEnds(t *testing.T) {
	links := []Link{
		{Name: "base", Kind: Revolute, Axis: AxisY, Limit: Limit{-1, 1}, VisualLength: 1},
		{Name: "tip", Kind: Fixed, Offset: Offset{Y: 1}},
	}
	_, err := NewChain(links, nil)
	test.That(t, err, test.ShouldBeError)

	links2 := []Link{
		{Name: "base", Kind: Fixed, VisualLength: 1},
		{Name: "tip", Kind: Revolute, Axis: AxisY, Limit: Limit{-1, 1}, Offset: Offset{Y: 1}},
	}
	_, err = NewChain(links2, nil)
	test.That(t, err, test.ShouldBeError)
}

func TestNewChainRejectsBadOffset(t *testing.T) {
	links := []Link{
		{Name: "base", Kind: Fixed, VisualLength: 1},
		{Name: "mid", Kind: Revolute, Axis: AxisY, Limit: Limit{-1, 1}, Offset: Offset{Y: 99}, VisualLength: 1},
		{Name: "tip", Kind: Fixed, Offset: Offset{Y: 1}},
	}
	_, err := NewChain(links, nil)
	test.That(t, err, test.ShouldBeError)
	var invalid *InvalidChainError
	test.That(t, errors.As(err, &invalid), test.ShouldBeTrue)
	test.That(t, invalid.LinkIndex, test.ShouldEqual, 1)
}

func TestNewChainRejectsInvertedLimit(t *testing.T) {
	links := []Link{
		{Name: "base", Kind: Fixed, VisualLength: 1},
		{Name: "mid", Kind: Revolute, Axis: AxisY, Limit: Limit{1, -1}, Offset: Offset{Y: 1}, VisualLength: 1},
		{Name: "tip", Kind: Fixed, Offset: Offset{Y: 1}},
	}
	_, err := NewChain(links, nil)
	test.That(t, err, test.ShouldBeError)
}

func TestDOFAndReach(t *testing.T) {
	c := simpleChain(t)
	test.That(t, c.DOF(), test.ShouldEqual, 2)
	test.That(t, c.Reach(), test.ShouldAlmostEqual, 2.0, 1e-9)
}

func TestTipPositionAtZero(t *testing.T) {
	c := simpleChain(t)
	tip, err := c.TipPosition([]float64{0, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tip.X, test.ShouldAlmostEqual, 0.0, 1e-9)
	test.That(t, tip.Y, test.ShouldAlmostEqual, 2.0, 1e-9)
	test.That(t, tip.Z, test.ShouldAlmostEqual, 0.0, 1e-9)
}

func TestTipPositionAfterRotation(t *testing.T) {
	c := simpleChain(t)
	// Rotate the shoulder 90 degrees about Y: every offset in this chain runs along Y, the
	// shoulder's own axis, so the rotation spins the arm in place and the tip does not move.
	tip, err := c.TipPosition([]float64{math.Pi / 2, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tip.X, test.ShouldAlmostEqual, 0.0, 1e-9)
	test.That(t, tip.Y, test.ShouldAlmostEqual, 2.0, 1e-9)
	test.That(t, tip.Z, test.ShouldAlmostEqual, 0.0, 1e-9)
}

func TestJointPositionsCount(t *testing.T) {
	c := simpleChain(t)
	joints, err := c.JointPositions([]float64{0, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(joints), test.ShouldEqual, 4)
}

func TestSegmentsSkipZeroLengthLinks(t *testing.T) {
	c := simpleChain(t)
	segs, err := c.Segments([]float64{0, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(segs), test.ShouldEqual, 2)
}

func TestFKTransformsRejectsWrongDOF(t *testing.T) {
	c := simpleChain(t)
	_, err := c.FKTransforms([]float64{0})
	test.That(t, err, test.ShouldBeError)
}

func TestInLimitsAndClamp(t *testing.T) {
	c := simpleChain(t)
	test.That(t, c.InLimits([]float64{0, 0}), test.ShouldBeTrue)
	test.That(t, c.InLimits([]float64{10, 0}), test.ShouldBeFalse)

	clamped := c.Clamp([]float64{10, -10})
	test.That(t, clamped[0], test.ShouldAlmostEqual, math.Pi, 1e-9)
	test.That(t, clamped[1], test.ShouldAlmostEqual, -math.Pi, 1e-9)
}
