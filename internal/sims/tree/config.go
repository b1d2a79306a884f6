package tree

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"sca-tree/pkg/core"
	"sca-tree/pkg/sample"
	"sca-tree/pkg/sca"
)

// ErrPreset is returned when a preset cannot be loaded, decoded or built.
var ErrPreset = errors.New("tree: invalid preset")

// Sampler kinds.
const (
	SamplerCrown     = "crown"
	SamplerEllipsoid = "ellipsoid"
	SamplerSphere    = "sphere"
	SamplerHalton    = "halton"
)

// Volume kinds.
const (
	VolumeSphere    = "sphere"
	VolumeBox       = "box"
	VolumeEllipsoid = "ellipsoid"
	VolumeMesh      = "mesh"
)

// Config is a complete tree preset: growth parameters, the attractor
// volume, node exclusion volumes and render settings.
type Config struct {
	Name        string `mapstructure:"name" yaml:"name"`
	Description string `mapstructure:"description" yaml:"description,omitempty"`
	// Extends names a built-in preset whose values are used as defaults.
	Extends string `mapstructure:"extends" yaml:"extends,omitempty"`
	Seed    int64  `mapstructure:"seed" yaml:"seed"`

	Growth  GrowthConfig   `mapstructure:"growth" yaml:"growth"`
	Sampler SamplerConfig  `mapstructure:"sampler" yaml:"sampler"`
	Exclude []VolumeConfig `mapstructure:"exclude" yaml:"exclude,omitempty"`
	Render  RenderConfig   `mapstructure:"render" yaml:"render"`
}

// GrowthConfig holds the engine parameters. Distances other than
// BranchLength are multiples of BranchLength.
type GrowthConfig struct {
	BranchLength        float64       `mapstructure:"branch_length" yaml:"branch_length"`
	KillDistance        float64       `mapstructure:"kill_distance" yaml:"kill_distance"`
	InfluenceRange      float64       `mapstructure:"influence_range" yaml:"influence_range"`
	Tropism             float64       `mapstructure:"tropism" yaml:"tropism"`
	ApicalControl       float64       `mapstructure:"apical_control" yaml:"apical_control"`
	ApicalFalloff       float64       `mapstructure:"apical_falloff" yaml:"apical_falloff"`
	MaxIterations       int           `mapstructure:"max_iterations" yaml:"max_iterations"`
	MaxTime             time.Duration `mapstructure:"max_time" yaml:"max_time"`
	Endpoints           int           `mapstructure:"endpoints" yaml:"endpoints"`
	NewEndpointsPer1000 float64       `mapstructure:"new_endpoints_per_1000" yaml:"new_endpoints_per_1000"`
	Workers             int           `mapstructure:"workers" yaml:"workers"`
	StartPoints         [][]float64   `mapstructure:"start_points" yaml:"start_points,omitempty"`
	// Prune drops nodes below this generation from the output. 0 keeps all.
	Prune int `mapstructure:"prune" yaml:"prune,omitempty"`
}

// SamplerConfig describes the attractor volume. The crown is centered at
// (0, 0, Size+Offset) with vertical radius Size and horizontal radius
// Size*Shape; Offset is the length of the bole below the crown.
type SamplerConfig struct {
	Kind        string  `mapstructure:"kind" yaml:"kind"`
	Size        float64 `mapstructure:"size" yaml:"size"`
	Shape       float64 `mapstructure:"shape" yaml:"shape"`
	Offset      float64 `mapstructure:"offset" yaml:"offset"`
	Taper       float64 `mapstructure:"taper" yaml:"taper,omitempty"`
	SurfaceBias float64 `mapstructure:"surface_bias" yaml:"surface_bias"`
	TopBias     float64 `mapstructure:"top_bias" yaml:"top_bias"`

	// Exclude lists volumes that are never sampled (crown sampler).
	Exclude []VolumeConfig `mapstructure:"exclude" yaml:"exclude,omitempty"`

	// Shadow and ShadowDensity apply to the halton sampler.
	Shadow        *VolumeConfig `mapstructure:"shadow" yaml:"shadow,omitempty"`
	ShadowDensity float64       `mapstructure:"shadow_density" yaml:"shadow_density,omitempty"`
	Skip          int           `mapstructure:"skip" yaml:"skip,omitempty"`
}

// VolumeConfig describes one containment volume.
type VolumeConfig struct {
	Kind   string    `mapstructure:"kind" yaml:"kind"`
	Center []float64 `mapstructure:"center" yaml:"center,omitempty"`
	Radius float64   `mapstructure:"radius" yaml:"radius,omitempty"`
	Radii  []float64 `mapstructure:"radii" yaml:"radii,omitempty"`
	Min    []float64 `mapstructure:"min" yaml:"min,omitempty"`
	Max    []float64 `mapstructure:"max" yaml:"max,omitempty"`
	// Path is a Wavefront OBJ file for mesh volumes, relative to the preset.
	Path string `mapstructure:"path" yaml:"path,omitempty"`
}

// RenderConfig holds the branch tapering, (connections+1)^Power * Scale, and
// the default camera.
type RenderConfig struct {
	Power  float64 `mapstructure:"power" yaml:"power"`
	Scale  float64 `mapstructure:"scale" yaml:"scale"`
	Yaw    float64 `mapstructure:"yaw" yaml:"yaw"`
	Pitch  float64 `mapstructure:"pitch" yaml:"pitch"`
	Width  int     `mapstructure:"width" yaml:"width"`
	Height int     `mapstructure:"height" yaml:"height"`
}

// DefaultConfig returns the "tree" preset: a broad crown on a short bole
// with no tropism or apical control.
func DefaultConfig() Config {
	return Config{
		Name:        "tree",
		Description: "broad crown on a bole, no tropism or apical control",
		Growth: GrowthConfig{
			BranchLength:   0.75,
			KillDistance:   5,
			InfluenceRange: 15,
			ApicalFalloff:  1,
			MaxIterations:  100,
			Endpoints:      100,
			Workers:        1,
		},
		Sampler: SamplerConfig{
			Kind:        SamplerCrown,
			Size:        5,
			Shape:       1,
			Offset:      3,
			SurfaceBias: 1,
			TopBias:     1,
		},
		Render: RenderConfig{
			Power:  0.5,
			Scale:  0.01,
			Pitch:  0.15,
			Width:  800,
			Height: 800,
		},
	}
}

// Center returns the crown center.
func (s SamplerConfig) Center() core.Vec3 { return core.V(0, 0, s.Size+s.Offset) }

// Build turns the preset into an engine configuration with its sampler and
// exclusion predicate. Mesh volumes are loaded from disk.
func (c Config) Build(logger *slog.Logger) (sca.Config, error) {
	g := c.Growth
	cfg := sca.Config{
		BranchLength:        g.BranchLength,
		KillDistance:        g.KillDistance,
		InfluenceRange:      g.InfluenceRange,
		Tropism:             g.Tropism,
		Seed:                c.Seed,
		ApicalControl:       g.ApicalControl,
		ApicalFalloff:       g.ApicalFalloff,
		MaxIterations:       g.MaxIterations,
		MaxTime:             g.MaxTime,
		NewEndpointsPer1000: g.NewEndpointsPer1000,
		Endpoints:           g.Endpoints,
		Workers:             g.Workers,
	}
	for i, p := range g.StartPoints {
		v, err := vec(p)
		if err != nil {
			return sca.Config{}, fmt.Errorf("%w: growth.start_points[%d]: %v", ErrPreset, i, err)
		}
		cfg.StartPoints = append(cfg.StartPoints, v)
	}

	smp, err := c.Sampler.build(c.Seed+1, logger)
	if err != nil {
		return sca.Config{}, fmt.Errorf("%w: sampler: %w", ErrPreset, err)
	}
	cfg.Sampler = smp

	if len(c.Exclude) > 0 {
		vols, err := buildVolumes("exclude", c.Exclude)
		if err != nil {
			return sca.Config{}, fmt.Errorf("%w: %v", ErrPreset, err)
		}
		cfg.Exclude = sample.Excluder(vols...)
	}
	if err := cfg.Validate(); err != nil {
		return sca.Config{}, fmt.Errorf("%w: %w", ErrPreset, err)
	}
	return cfg, nil
}

func (s SamplerConfig) build(seed int64, logger *slog.Logger) (sca.Sampler, error) {
	rxy := s.Size * s.Shape
	switch s.Kind {
	case SamplerCrown, "":
		excl, err := buildVolumes("exclude", s.Exclude)
		if err != nil {
			return nil, err
		}
		return sample.NewCrown(sample.CrownConfig{
			Center:      s.Center(),
			RadiusXY:    rxy,
			RadiusZ:     s.Size,
			SurfaceBias: s.SurfaceBias,
			TopBias:     s.TopBias,
			Exclude:     excl,
			Seed:        seed,
		}, sample.WithLogger(logger))
	case SamplerEllipsoid:
		return sample.NewEllipsoid(s.Center(), rxy, s.Size, s.Taper, seed, sample.WithLogger(logger))
	case SamplerSphere:
		return sample.NewSphere(s.Center(), s.Size, seed)
	case SamplerHalton:
		if !(s.Size > 0) || !(rxy > 0) {
			return nil, fmt.Errorf("%w: size and shape must be > 0", sample.ErrConfig)
		}
		hc := sample.HaltonConfig{
			Crown:         sample.EllipsoidVolume{Center: s.Center(), Radii: core.V(rxy, rxy, s.Size)},
			ShadowDensity: s.ShadowDensity,
			Skip:          s.Skip,
			Seed:          seed,
		}
		if s.Shadow != nil {
			v, err := s.Shadow.build()
			if err != nil {
				return nil, fmt.Errorf("shadow: %v", err)
			}
			hc.Shadow = v
		}
		return sample.NewHalton(hc, sample.WithLogger(logger))
	default:
		return nil, fmt.Errorf("unknown sampler kind %q", s.Kind)
	}
}

func buildVolumes(field string, cfgs []VolumeConfig) ([]sample.Volume, error) {
	out := make([]sample.Volume, 0, len(cfgs))
	for i, vc := range cfgs {
		v, err := vc.build()
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %v", field, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (v VolumeConfig) build() (sample.Volume, error) {
	switch v.Kind {
	case VolumeSphere:
		c, err := vecOr(v.Center, core.Vec3{})
		if err != nil {
			return nil, err
		}
		if !(v.Radius > 0) {
			return nil, fmt.Errorf("sphere radius must be > 0, got %v", v.Radius)
		}
		return sample.SphereVolume{Center: c, Radius: v.Radius}, nil
	case VolumeBox:
		lo, err := vec(v.Min)
		if err != nil {
			return nil, fmt.Errorf("min: %v", err)
		}
		hi, err := vec(v.Max)
		if err != nil {
			return nil, fmt.Errorf("max: %v", err)
		}
		return sample.BoxVolume{Min: lo.Min(hi), Max: lo.Max(hi)}, nil
	case VolumeEllipsoid:
		c, err := vecOr(v.Center, core.Vec3{})
		if err != nil {
			return nil, err
		}
		r, err := vec(v.Radii)
		if err != nil {
			return nil, fmt.Errorf("radii: %v", err)
		}
		if !(r.X > 0 && r.Y > 0 && r.Z > 0) {
			return nil, fmt.Errorf("ellipsoid radii must be > 0")
		}
		return sample.EllipsoidVolume{Center: c, Radii: r}, nil
	case VolumeMesh:
		if v.Path == "" {
			return nil, fmt.Errorf("mesh volume needs a path")
		}
		f, err := os.Open(v.Path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return sample.LoadOBJ(f)
	default:
		return nil, fmt.Errorf("unknown volume kind %q", v.Kind)
	}
}

func vec(p []float64) (core.Vec3, error) {
	if len(p) != 3 {
		return core.Vec3{}, fmt.Errorf("need 3 coordinates, got %d", len(p))
	}
	v := core.V(p[0], p[1], p[2])
	if !v.IsFinite() {
		return core.Vec3{}, fmt.Errorf("coordinates must be finite")
	}
	return v, nil
}

func vecOr(p []float64, def core.Vec3) (core.Vec3, error) {
	if len(p) == 0 {
		return def, nil
	}
	return vec(p)
}
