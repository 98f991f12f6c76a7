package motionplan

import (
	"crypto/rand"
	"encoding/binary"
)

// RNG is a deterministic mulberry32-style 32-bit generator producing uniform doubles in [0,1).
// Given the same seed it produces the same sequence every time, which is what lets an entire
// plan() run — sampling, restart seeds, and goal-neighbor jitter alike — be reproduced exactly
// from the seed alone.
type RNG struct {
	state uint32
}

// NewRNG builds an RNG from an explicit seed.
func NewRNG(seed uint32) *RNG {
	return &RNG{state: seed}
}

// NewSystemRNG builds an RNG seeded from a nondeterministic system source, for callers that did
// not request a reproducible run.
func NewSystemRNG() *RNG {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing is exceedingly unlikely on any real platform; fall back to a fixed
		// seed rather than panicking, since this path only matters for non-reproducible runs.
		return NewRNG(0x9E3779B9)
	}
	return NewRNG(binary.LittleEndian.Uint32(buf[:]))
}

// Float64 returns the next uniform double in [0,1).
func (r *RNG) Float64() float64 {
	r.state += 0x6D2B79F5
	a := r.state
	t := (a ^ (a >> 15)) * (a | 1)
	t = (t + (t^(t>>7))*(t|61)) ^ t
	return float64(t^(t>>14)) / 4294967296.0
}

// Uniform returns a uniform double in [lo, hi).
func (r *RNG) Uniform(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
