package sca

import (
	"fmt"
	"math"
	"time"

	"sca-tree/pkg/core"
)

// Sampler yields candidate attractor positions. Implementations are infinite
// and not restartable; see package sample.
type Sampler interface {
	Next() core.Vec3
}

// ExclusionFunc reports whether a candidate node position must be rejected.
type ExclusionFunc func(p core.Vec3) bool

// Config holds the growth parameters of one engine instance.
type Config struct {
	// BranchLength is the internode length d.
	BranchLength float64
	// KillDistance and InfluenceRange are multiples of BranchLength.
	// InfluenceRange may be +Inf for unbounded influence.
	KillDistance   float64
	InfluenceRange float64
	// Tropism is added to the vertical (Z) growth component.
	Tropism float64

	Seed int64

	ApicalControl float64
	ApicalFalloff float64

	MaxIterations       int
	MaxTime             time.Duration
	NewEndpointsPer1000 float64

	// Endpoints is the number of attractors drawn from Sampler at construction.
	Endpoints   int
	StartPoints []core.Vec3

	Exclude ExclusionFunc
	Sampler Sampler

	// Workers bounds the goroutines used for attractor association scans.
	Workers int
}

// DefaultConfig returns branch length 0.3 with kill distance 5 and influence
// range 15 branch lengths, and no sampler.
func DefaultConfig() Config {
	return Config{
		BranchLength:   0.3,
		KillDistance:   5,
		InfluenceRange: 15,
		Seed:           42,
		ApicalFalloff:  1,
		MaxIterations:  2000,
		Endpoints:      100,
		Workers:        1,
	}
}

// Validate checks every parameter and returns an error wrapping ErrConfig.
func (c Config) Validate() error {
	if !positive(c.BranchLength) {
		return fmt.Errorf("%w: branch length must be finite and > 0, got %v", ErrConfig, c.BranchLength)
	}
	if !positive(c.KillDistance) {
		return fmt.Errorf("%w: kill distance must be finite and > 0, got %v", ErrConfig, c.KillDistance)
	}
	if math.IsNaN(c.InfluenceRange) || c.InfluenceRange <= 0 {
		return fmt.Errorf("%w: influence range must be > 0, got %v", ErrConfig, c.InfluenceRange)
	}
	if !isFinite(c.Tropism) {
		return fmt.Errorf("%w: tropism must be finite, got %v", ErrConfig, c.Tropism)
	}
	if !isFinite(c.ApicalControl) {
		return fmt.Errorf("%w: apical control must be finite, got %v", ErrConfig, c.ApicalControl)
	}
	if !positive(c.ApicalFalloff) {
		return fmt.Errorf("%w: apical falloff must be finite and > 0, got %v", ErrConfig, c.ApicalFalloff)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("%w: max iterations must be >= 0, got %d", ErrConfig, c.MaxIterations)
	}
	if c.MaxTime < 0 {
		return fmt.Errorf("%w: max time must be >= 0, got %v", ErrConfig, c.MaxTime)
	}
	if !isFinite(c.NewEndpointsPer1000) || c.NewEndpointsPer1000 < 0 {
		return fmt.Errorf("%w: new endpoints per 1000 must be finite and >= 0, got %v", ErrConfig, c.NewEndpointsPer1000)
	}
	if c.Endpoints < 0 {
		return fmt.Errorf("%w: endpoints must be >= 0, got %d", ErrConfig, c.Endpoints)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrConfig, c.Workers)
	}
	if c.Sampler == nil && (c.Endpoints > 0 || c.NewEndpointsPer1000 > 0) {
		return fmt.Errorf("%w: a sampler is required for %d endpoints", ErrConfig, c.Endpoints)
	}
	for i, p := range c.StartPoints {
		if !p.IsFinite() {
			return fmt.Errorf("%w: start point %d is not finite", ErrConfig, i)
		}
	}
	return nil
}

// killRadius is the absolute kill distance.
func (c Config) killRadius() float64 { return c.KillDistance * c.BranchLength }

// influenceRadius is the absolute influence distance.
func (c Config) influenceRadius() float64 { return c.InfluenceRange * c.BranchLength }

func (c Config) workers() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}

func (c Config) startPoints() []core.Vec3 {
	if len(c.StartPoints) == 0 {
		return []core.Vec3{{}}
	}
	return c.StartPoints
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func positive(f float64) bool { return isFinite(f) && f > 0 }
