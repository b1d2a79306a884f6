package tree

import (
	"strconv"
	"time"

	"sca-tree/internal/core"
)

// Parameters lists the preset values under their override keys.
func (s *Sim) Parameters() core.ParameterSnapshot {
	g := s.cfg.Growth
	smp := s.cfg.Sampler
	groups := []core.ParameterGroup{
		{
			Name:    "Run",
			Summary: s.cfg.Description,
			Params: []core.Parameter{
				int64Param("seed", "Seed", s.seed),
				intParam("growth.max_iterations", "Max iterations", g.MaxIterations),
				durationParam("growth.max_time", "Max time", g.MaxTime),
				intParam("growth.workers", "Workers", g.Workers),
			},
		},
		{
			Name: "Growth",
			Params: []core.Parameter{
				floatParam("growth.branch_length", "Branch length", g.BranchLength),
				floatParam("growth.kill_distance", "Kill distance", g.KillDistance),
				floatParam("growth.influence_range", "Influence range", g.InfluenceRange),
				floatParam("growth.tropism", "Tropism", g.Tropism),
				floatParam("growth.apical_control", "Apical control", g.ApicalControl),
				floatParam("growth.apical_falloff", "Apical falloff", g.ApicalFalloff),
				intParam("growth.prune", "Prune below generation", g.Prune),
			},
		},
		{
			Name: "Attractors",
			Params: []core.Parameter{
				intParam("growth.endpoints", "Endpoints", g.Endpoints),
				floatParam("growth.new_endpoints_per_1000", "New endpoints per 1000", g.NewEndpointsPer1000),
				{Key: "sampler.kind", Label: "Sampler", Value: smp.Kind},
				floatParam("sampler.size", "Crown size", smp.Size),
				floatParam("sampler.shape", "Crown shape", smp.Shape),
				floatParam("sampler.offset", "Crown offset", smp.Offset),
				floatParam("sampler.surface_bias", "Surface bias", smp.SurfaceBias),
				floatParam("sampler.top_bias", "Top bias", smp.TopBias),
				floatParam("sampler.taper", "Taper", smp.Taper),
			},
		},
		{
			Name: "Render",
			Params: []core.Parameter{
				floatParam("render.power", "Radius power", s.cfg.Render.Power),
				floatParam("render.scale", "Radius scale", s.cfg.Render.Scale),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the values adjustable from the HUD.
func (s *Sim) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "seed", Label: "Seed", Type: core.ParamTypeInt, Step: 1},
		{Key: "growth.branch_length", Label: "Branch length", Type: core.ParamTypeFloat, Step: 0.05, Min: 0.05, HasMin: true},
		{Key: "growth.kill_distance", Label: "Kill distance", Type: core.ParamTypeFloat, Step: 0.5, Min: 0.5, HasMin: true},
		{Key: "growth.influence_range", Label: "Influence range", Type: core.ParamTypeFloat, Step: 1, Min: 1, HasMin: true},
		{Key: "growth.tropism", Label: "Tropism", Type: core.ParamTypeFloat, Step: 0.05, Min: -1, Max: 1, HasMin: true, HasMax: true},
		{Key: "growth.apical_control", Label: "Apical control", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "growth.endpoints", Label: "Endpoints", Type: core.ParamTypeInt, Step: 50, Min: 0, HasMin: true},
		{Key: "growth.new_endpoints_per_1000", Label: "Injection rate", Type: core.ParamTypeFloat, Step: 50, Min: 0, HasMin: true},
		{Key: "sampler.size", Label: "Crown size", Type: core.ParamTypeFloat, Step: 0.5, Min: 0.5, HasMin: true},
		{Key: "sampler.shape", Label: "Crown shape", Type: core.ParamTypeFloat, Step: 0.1, Min: 0.1, HasMin: true},
		{Key: "sampler.surface_bias", Label: "Surface bias", Type: core.ParamTypeFloat, Step: 0.1, Min: 0.1, HasMin: true},
		{Key: "sampler.top_bias", Label: "Top bias", Type: core.ParamTypeFloat, Step: 0.1, Min: 0.1, HasMin: true},
	}
}

// SetIntParameter updates an integer value and regrows the tree.
func (s *Sim) SetIntParameter(key string, value int) bool {
	if key == "seed" {
		return s.Reset(int64(value)) == nil
	}
	return s.set(key, strconv.Itoa(value))
}

// SetFloatParameter updates a float value and regrows the tree.
func (s *Sim) SetFloatParameter(key string, value float64) bool {
	return s.set(key, strconv.FormatFloat(value, 'f', -1, 64))
}

// set applies one override and rebuilds the engine. Rejected values leave
// the sim untouched.
func (s *Sim) set(key, value string) bool {
	next, err := ApplyOverrides(s.cfg, map[string]string{key: value})
	if err != nil {
		s.logger.Warn("rejected parameter", "key", key, "value", value, "err", err)
		return false
	}
	prev := s.cfg
	s.cfg = next
	if err := s.Reset(s.seed); err != nil {
		s.cfg = prev
		s.logger.Warn("rejected parameter", "key", key, "value", value, "err", err)
		return false
	}
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func durationParam(key, label string, value time.Duration) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeDuration,
		Value: value.String(),
	}
}
