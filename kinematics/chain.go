// Package kinematics implements the chain descriptor and forward-kinematics engine for a
// revolute-jointed serial-chain manipulator.
package kinematics

import (
	"fmt"

	"kinedyne.dev/armplan/logging"
)

// Axis is a joint's rotation axis.
type Axis int

const (
	// AxisY rotates about the local Y axis.
	AxisY Axis = iota
	// AxisZ rotates about the local Z axis.
	AxisZ
)

func (a Axis) String() string {
	if a == AxisZ {
		return "Z"
	}
	return "Y"
}

// Kind distinguishes a fixed (non-actuated) link from a revolute (actuated) one.
type Kind int

const (
	// Fixed links never move; the chain's first and last links must be Fixed.
	Fixed Kind = iota
	// Revolute links rotate about Axis within [Limit.Min, Limit.Max].
	Revolute
)

// Limit is an inclusive joint-angle range in radians.
type Limit struct {
	Min, Max float64
}

// Offset is a translational offset from a link's parent, in the parent's local frame.
type Offset struct {
	X, Y, Z float64
}

// Link is one element of a chain descriptor.
type Link struct {
	Name string
	Kind Kind
	// Axis and Limit only apply when Kind == Revolute.
	Axis  Axis
	Limit Limit
	// Offset is this link's translation from its parent link's pivot.
	Offset Offset
	// VisualLength is this link's extent along its local +Y axis; the collision engine treats
	// the segment from this link's pivot to the next link's pivot as a capsule of this length.
	VisualLength float64
	// Color is a cosmetic hint for a host renderer; the core never reads it.
	Color string
}

// InvalidChainError reports a chain descriptor that violates a structural invariant, naming the
// offending link so a host can report a useful build-time error.
type InvalidChainError struct {
	LinkIndex int
	LinkName  string
	Reason    string
}

func (e *InvalidChainError) Error() string {
	return fmt.Sprintf("invalid chain at link %d (%q): %s", e.LinkIndex, e.LinkName, e.Reason)
}

// offsetTolerance is how closely a non-root link's offset.Y must match its parent's visual
// length for the chain to be considered valid.
const offsetTolerance = 1e-6

// Chain is an ordered, immutable sequence of links describing a manipulator. Build one with
// NewChain; a Chain may be rebuilt (discarded and replaced) only between planning runs.
type Chain struct {
	links  []Link
	dof    int
	logger *logging.Logger
}

// NewChain validates links and builds an immutable Chain, or returns an
// *InvalidChainError describing the first violation found.
func NewChain(links []Link, logger *logging.Logger) (*Chain, error) {
	if len(links) < 2 {
		return nil, &InvalidChainError{Reason: "chain must have at least a base and a tip link"}
	}
	if links[0].Kind != Fixed {
		return nil, &InvalidChainError{LinkIndex: 0, LinkName: links[0].Name, Reason: "first link must be fixed (base)"}
	}
	last := len(links) - 1
	if links[last].Kind != Fixed {
		return nil, &InvalidChainError{LinkIndex: last, LinkName: links[last].Name, Reason: "last link must be fixed (tip)"}
	}

	dof := 0
	for i, l := range links {
		if i > 0 {
			parent := links[i-1]
			if diff := l.Offset.Y - parent.VisualLength; diff > offsetTolerance || diff < -offsetTolerance {
				return nil, &InvalidChainError{
					LinkIndex: i,
					LinkName:  l.Name,
					Reason:    "offset.Y must equal parent link's visual length",
				}
			}
		}
		if l.Kind == Revolute {
			if l.Limit.Min > l.Limit.Max {
				return nil, &InvalidChainError{LinkIndex: i, LinkName: l.Name, Reason: "joint limit min must be <= max"}
			}
			dof++
		}
	}

	c := &Chain{links: append([]Link(nil), links...), dof: dof, logger: logger}
	logger.Debugw("chain rebuilt", "links", len(links), "dof", dof)
	return c, nil
}

// DOF returns the number of revolute links (the dimensionality of a configuration).
func (c *Chain) DOF() int { return c.dof }

// Links returns the chain's link descriptors, in order. The returned slice must not be mutated.
func (c *Chain) Links() []Link { return c.links }

// Limits returns the [min,max] limit of each revolute joint, in chain order.
func (c *Chain) Limits() []Limit {
	limits := make([]Limit, 0, c.dof)
	for _, l := range c.links {
		if l.Kind == Revolute {
			limits = append(limits, l.Limit)
		}
	}
	return limits
}

// Reach is the sum of every link's visual length: the farthest the tip can possibly be from the
// base, used for the reachability preflight check.
func (c *Chain) Reach() float64 {
	reach := 0.0
	for _, l := range c.links {
		reach += l.VisualLength
	}
	return reach
}

// InLimits reports whether every joint angle in q lies within its link's [min,max] limit.
func (c *Chain) InLimits(q []float64) bool {
	if len(q) != c.dof {
		return false
	}
	i := 0
	for _, l := range c.links {
		if l.Kind != Revolute {
			continue
		}
		if q[i] < l.Limit.Min || q[i] > l.Limit.Max {
			return false
		}
		i++
	}
	return true
}

// Clamp returns a copy of q with every joint angle clamped into its link's [min,max] limit.
func (c *Chain) Clamp(q []float64) []float64 {
	out := make([]float64, len(q))
	i := 0
	for _, l := range c.links {
		if l.Kind != Revolute {
			continue
		}
		v := q[i]
		if v < l.Limit.Min {
			v = l.Limit.Min
		} else if v > l.Limit.Max {
			v = l.Limit.Max
		}
		out[i] = v
		i++
	}
	return out
}
