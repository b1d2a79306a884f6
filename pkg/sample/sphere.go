package sample

import (
	"fmt"

	"sca-tree/pkg/core"
)

// Sphere samples uniformly inside a ball.
type Sphere struct {
	center core.Vec3
	radius float64
	rng    *core.RNG
}

// NewSphere returns a sampler over the ball at center with the given radius.
func NewSphere(center core.Vec3, radius float64, seed int64) (*Sphere, error) {
	if !positive(radius) {
		return nil, fmt.Errorf("%w: sphere radius must be finite and > 0, got %v", ErrConfig, radius)
	}
	if !center.IsFinite() {
		return nil, fmt.Errorf("%w: sphere center is not finite", ErrConfig)
	}
	return &Sphere{center: center, radius: radius, rng: core.NewRNG(seed)}, nil
}

// Next draws in the bounding cube until the point falls inside the ball.
func (s *Sphere) Next() core.Vec3 {
	for {
		p := core.V(s.rng.Symmetric(), s.rng.Symmetric(), s.rng.Symmetric())
		if p.Dot(p) <= 1 {
			return s.center.Add(p.Scale(s.radius))
		}
	}
}
