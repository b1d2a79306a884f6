package sample

import (
	"fmt"
	"math"

	"sca-tree/pkg/core"
)

// CrownConfig describes a biased ellipsoidal crown.
type CrownConfig struct {
	Center   core.Vec3
	RadiusXY float64
	RadiusZ  float64
	// SurfaceBias below 1 pushes points toward the surface, above 1 toward
	// the center.
	SurfaceBias float64
	// TopBias above 1 pushes points toward the bottom, below 1 toward the top.
	TopBias float64
	// Exclude lists volumes whose interior is never sampled.
	Exclude []Volume
	Seed    int64
}

// Crown samples in polar coordinates with surface and top bias and redraws
// points that fall inside an exclusion volume.
type Crown struct {
	cfg   CrownConfig
	rng   *core.RNG
	guard yieldGuard
}

// NewCrown validates cfg and returns a crown sampler.
func NewCrown(cfg CrownConfig, opts ...Option) (*Crown, error) {
	if !positive(cfg.RadiusXY) || !positive(cfg.RadiusZ) {
		return nil, fmt.Errorf("%w: crown radii must be finite and > 0, got %v, %v", ErrConfig, cfg.RadiusXY, cfg.RadiusZ)
	}
	if !positive(cfg.SurfaceBias) {
		return nil, fmt.Errorf("%w: surface bias must be finite and > 0, got %v", ErrConfig, cfg.SurfaceBias)
	}
	if !positive(cfg.TopBias) {
		return nil, fmt.Errorf("%w: top bias must be finite and > 0, got %v", ErrConfig, cfg.TopBias)
	}
	if !cfg.Center.IsFinite() {
		return nil, fmt.Errorf("%w: crown center is not finite", ErrConfig)
	}
	for i, v := range cfg.Exclude {
		if v == nil {
			return nil, fmt.Errorf("%w: exclusion volume %d is nil", ErrConfig, i)
		}
	}
	s := newSettings(opts)
	return &Crown{
		cfg:   cfg,
		rng:   core.NewRNG(cfg.Seed),
		guard: yieldGuard{name: "crown", logger: s.logger},
	}, nil
}

// Next returns the next crown point outside every exclusion volume.
func (c *Crown) Next() core.Vec3 {
	for {
		p := c.draw()
		if c.guard.admit(!excluded(c.cfg.Exclude, p)) {
			return p
		}
	}
}

// FailedOpen reports whether the low-yield valve opened.
func (c *Crown) FailedOpen() bool { return c.guard.open }

func (c *Crown) draw() core.Vec3 {
	phi := 2 * math.Pi * c.rng.Float64()
	theta := math.Pi * (c.rng.Float64() - 0.5)
	r := math.Pow(c.rng.Float64(), c.cfg.SurfaceBias/2)

	ct := math.Cos(theta)
	st := math.Sin(theta)
	st = math.Pow((st+1)/2, c.cfg.TopBias)*2 - 1

	return c.cfg.Center.Add(core.V(
		r*c.cfg.RadiusXY*ct*math.Cos(phi),
		r*c.cfg.RadiusXY*ct*math.Sin(phi),
		r*c.cfg.RadiusZ*st,
	))
}

func excluded(vols []Volume, p core.Vec3) bool {
	for _, v := range vols {
		if v.Contains(p) {
			return true
		}
	}
	return false
}
