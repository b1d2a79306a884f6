package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
// It is not safe for concurrent use; every consumer owns its own stream.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Float64 returns a uniform value in [0, 1).
func (r *RNG) Float64() float64 { return r.r.Float64() }

// Symmetric returns a uniform value in [-1, 1).
func (r *RNG) Symmetric() float64 { return r.r.Float64()*2 - 1 }

// Range returns a uniform value in [lo, hi).
func (r *RNG) Range(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.r.Float64()*(hi-lo)
}

// Exp returns an exponentially distributed value with the given rate
// (mean 1/rate). A non-positive rate yields +Inf: the event never happens.
func (r *RNG) Exp(rate float64) float64 {
	if rate <= 0 {
		return inf
	}
	return r.r.ExpFloat64() / rate
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
