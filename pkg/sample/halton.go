package sample

import (
	"fmt"

	"sca-tree/pkg/core"
)

// HaltonConfig describes a low-discrepancy sampler.
type HaltonConfig struct {
	// Crown bounds the sampled region; points outside it are rejected.
	Crown Volume
	// Shadow is optional. Points inside it are rejected with probability
	// ShadowDensity.
	Shadow        Volume
	ShadowDensity float64
	// Skip drops the first Skip sequence elements.
	Skip int
	Seed int64
}

// Halton maps the 3-D Halton sequence (bases 2, 3, 5) onto the bounding box
// of a crown volume.
type Halton struct {
	cfg      HaltonConfig
	min, ext core.Vec3
	index    uint64
	rng      *core.RNG
	guard    yieldGuard
}

// NewHalton validates cfg and returns a Halton sampler.
func NewHalton(cfg HaltonConfig, opts ...Option) (*Halton, error) {
	if cfg.Crown == nil {
		return nil, fmt.Errorf("%w: halton sampler needs a crown volume", ErrConfig)
	}
	if !finite(cfg.ShadowDensity) || cfg.ShadowDensity < 0 || cfg.ShadowDensity > 1 {
		return nil, fmt.Errorf("%w: shadow density must be in [0, 1], got %v", ErrConfig, cfg.ShadowDensity)
	}
	if cfg.Skip < 0 {
		return nil, fmt.Errorf("%w: skip must be >= 0, got %d", ErrConfig, cfg.Skip)
	}
	lo, hi := cfg.Crown.Bounds()
	if !lo.IsFinite() || !hi.IsFinite() {
		return nil, fmt.Errorf("%w: crown volume must be bounded", ErrConfig)
	}
	s := newSettings(opts)
	return &Halton{
		cfg:   cfg,
		min:   lo,
		ext:   hi.Sub(lo),
		index: uint64(cfg.Skip),
		rng:   core.NewRNG(cfg.Seed),
		guard: yieldGuard{name: "halton", logger: s.logger},
	}, nil
}

// Next returns the next sequence point accepted by the crown and shadow
// tests.
func (h *Halton) Next() core.Vec3 {
	for {
		h.index++
		p := h.min.Add(core.V(
			radicalInverse(h.index, 2),
			radicalInverse(h.index, 3),
			radicalInverse(h.index, 5),
		).Mul(h.ext))
		if h.guard.admit(h.accepts(p)) {
			return p
		}
	}
}

// FailedOpen reports whether the low-yield valve opened.
func (h *Halton) FailedOpen() bool { return h.guard.open }

func (h *Halton) accepts(p core.Vec3) bool {
	if !h.cfg.Crown.Contains(p) {
		return false
	}
	if h.cfg.Shadow == nil || h.cfg.ShadowDensity == 0 || !h.cfg.Shadow.Contains(p) {
		return true
	}
	return h.rng.Float64() >= h.cfg.ShadowDensity
}

// radicalInverse mirrors the base-b digits of i around the radix point.
func radicalInverse(i uint64, base uint64) float64 {
	inv := 1 / float64(base)
	f, r := inv, 0.0
	for i > 0 {
		r += float64(i%base) * f
		i /= base
		f *= inv
	}
	return r
}
