// Package ik implements Cyclic Coordinate Descent inverse kinematics with seeded random-restart
// robustness, validated against the collision engine.
package ik

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"kinedyne.dev/armplan/kinematics"
)

const (
	maxSweeps      = 15
	tipTolerance   = 0.01
	maxRestarts    = 100
	robustTipSlack = 0.1
)

// PRNG is the minimal random source ik needs: a single uniform double in [0,1). It is satisfied
// by *motionplan.RNG without ik importing the motionplan package, keeping the dependency pointed
// inward from planner to solver.
type PRNG interface {
	Float64() float64
}

// Collider is the minimal collision surface ik needs to validate a candidate configuration.
type Collider interface {
	Collides(q []float64) bool
}

// CCD runs Cyclic Coordinate Descent from qInit toward target and returns the resulting
// configuration. It always returns a configuration (joint-limited), even if it never converges;
// callers check reachability themselves.
func CCD(chain *kinematics.Chain, target r3.Vector, qInit []float64) []float64 {
	q := append([]float64(nil), qInit...)
	revoluteLinks := revoluteLinkIndices(chain)

	for sweep := 0; sweep < maxSweeps; sweep++ {
		for i := len(revoluteLinks) - 1; i >= 0; i-- {
			linkIdx := revoluteLinks[i]
			q = stepJoint(chain, target, q, linkIdx, i)
		}
		tip, err := chain.TipPosition(q)
		if err == nil && tip.Sub(target).Norm() < tipTolerance {
			break
		}
	}
	return chain.Clamp(q)
}

// stepJoint rotates the single joint at revolute index qi (link index linkIdx) to reduce the
// angular error between the tip and target as seen in that joint's current local frame.
func stepJoint(chain *kinematics.Chain, target r3.Vector, q []float64, linkIdx, qi int) []float64 {
	transforms, err := chain.FKTransforms(q)
	if err != nil {
		return q
	}
	links := chain.Links()
	tipWorld, err := chain.TipPosition(q)
	if err != nil {
		return q
	}

	local, ok := invert(transforms[linkIdx])
	if !ok {
		return q
	}
	pTip := transformPoint(local, tipWorld)
	pTarget := transformPoint(local, target)

	var delta float64
	if links[linkIdx].Axis == kinematics.AxisZ {
		delta = math.Atan2(pTarget.Y, pTarget.X) - math.Atan2(pTip.Y, pTip.X)
	} else {
		delta = math.Atan2(pTarget.X, pTarget.Z) - math.Atan2(pTip.X, pTip.Z)
	}
	delta = normalizeAngle(delta)

	next := append([]float64(nil), q...)
	next[qi] += delta
	return chain.Clamp(next)
}

// RobustIK tries a direct CCD solve first; if that fails to reach the target without colliding,
// it retries up to maxRestarts times from random seeds drawn from rng, within joint limits.
// If nothing succeeds, the initial CCD result is returned anyway since it remains a
// useful bias direction for the caller's subsequent neighbor search.
func RobustIK(chain *kinematics.Chain, target r3.Vector, obstacles Collider, rng PRNG, qCurrent []float64) []float64 {
	direct := CCD(chain, target, qCurrent)
	if isGoodSolution(chain, target, obstacles, direct) {
		return direct
	}

	limits := chain.Limits()
	for attempt := 0; attempt < maxRestarts; attempt++ {
		seed := make([]float64, len(limits))
		for i, lim := range limits {
			seed[i] = lim.Min + rng.Float64()*(lim.Max-lim.Min)
		}
		candidate := CCD(chain, target, seed)
		if isGoodSolution(chain, target, obstacles, candidate) {
			return candidate
		}
	}
	return direct
}

func isGoodSolution(chain *kinematics.Chain, target r3.Vector, obstacles Collider, q []float64) bool {
	tip, err := chain.TipPosition(q)
	if err != nil {
		return false
	}
	if tip.Sub(target).Norm() >= robustTipSlack {
		return false
	}
	if obstacles != nil && obstacles.Collides(q) {
		return false
	}
	return true
}

func revoluteLinkIndices(chain *kinematics.Chain) []int {
	var idx []int
	for i, l := range chain.Links() {
		if l.Kind == kinematics.Revolute {
			idx = append(idx, i)
		}
	}
	return idx
}

func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func transformPoint(m mgl64.Mat4, p r3.Vector) r3.Vector {
	v := m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

func invert(m mgl64.Mat4) (mgl64.Mat4, bool) {
	if math.Abs(m.Det()) < 1e-12 {
		return mgl64.Mat4{}, false
	}
	return m.Inv(), true
}
