package tree

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var builtins = map[string]func() Config{
	"tree":    DefaultConfig,
	"bush":    bushConfig,
	"conifer": coniferConfig,
	"hedge":   hedgeConfig,
}

func bushConfig() Config {
	c := DefaultConfig()
	c.Name = "bush"
	c.Description = "low wide shrub on three stems with apical control"
	c.Growth.BranchLength = 0.3
	c.Growth.KillDistance = 3
	c.Growth.InfluenceRange = 12
	c.Growth.Tropism = 0.1
	c.Growth.ApicalControl = 0.3
	c.Growth.ApicalFalloff = 2
	c.Growth.Endpoints = 400
	c.Growth.MaxIterations = 150
	c.Growth.StartPoints = [][]float64{{-0.4, 0, 0}, {0.4, 0, 0}, {0, 0.4, 0}}
	c.Sampler.Size = 2
	c.Sampler.Shape = 1.6
	c.Sampler.Offset = 0
	c.Sampler.SurfaceBias = 0.6
	c.Sampler.TopBias = 1.4
	c.Render.Scale = 0.02
	return c
}

func coniferConfig() Config {
	c := DefaultConfig()
	c.Name = "conifer"
	c.Description = "narrow tapered crown with upward tropism"
	c.Growth.BranchLength = 0.5
	c.Growth.Tropism = 0.25
	c.Growth.ApicalControl = 0.5
	c.Growth.Endpoints = 500
	c.Growth.MaxIterations = 200
	c.Sampler.Kind = SamplerEllipsoid
	c.Sampler.Size = 6
	c.Sampler.Shape = 0.45
	c.Sampler.Offset = 1
	c.Sampler.Taper = 2
	return c
}

func hedgeConfig() Config {
	c := DefaultConfig()
	c.Name = "hedge"
	c.Description = "evenly filled crown from a Halton sequence, shaded underneath"
	c.Growth.BranchLength = 0.4
	c.Growth.Endpoints = 600
	c.Growth.MaxIterations = 150
	c.Growth.NewEndpointsPer1000 = 200
	c.Sampler.Kind = SamplerHalton
	c.Sampler.Size = 3
	c.Sampler.Shape = 1.8
	c.Sampler.Offset = 0.5
	c.Sampler.Shadow = &VolumeConfig{Kind: VolumeBox, Min: []float64{-6, -6, 0}, Max: []float64{6, 6, 2.5}}
	c.Sampler.ShadowDensity = 0.7
	return c
}

// Builtin returns a copy of the named built-in preset.
func Builtin(name string) (Config, bool) {
	f, ok := builtins[name]
	if !ok {
		return Config{}, false
	}
	return f(), true
}

// BuiltinNames lists the built-in presets in lexical order.
func BuiltinNames() []string {
	out := make([]string, 0, len(builtins))
	for name := range builtins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// decode applies raw onto out. Keys not present in raw keep their value,
// lists are replaced as a whole and unknown keys are rejected.
func decode(raw any, out *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		ZeroFields:       true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// ParsePreset decodes a YAML preset. Missing values come from the preset
// named by "extends", or from the "tree" preset.
func ParsePreset(data []byte) (Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrPreset, err)
	}
	cfg := DefaultConfig()
	if ext, ok := raw["extends"]; ok {
		name := fmt.Sprint(ext)
		base, ok := Builtin(name)
		if !ok {
			return Config{}, fmt.Errorf("%w: extends unknown preset %q", ErrPreset, name)
		}
		cfg = base
	}
	if _, ok := raw["name"]; !ok {
		cfg.Name = ""
	}
	if err := decode(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrPreset, err)
	}
	return cfg, nil
}

// LoadPreset reads a YAML preset file. An unnamed preset is named after the
// file, and relative mesh paths are resolved against the file's directory.
func LoadPreset(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrPreset, err)
	}
	cfg, err := ParsePreset(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// MarshalPreset encodes cfg as YAML.
func MarshalPreset(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

func (c *Config) resolvePaths(dir string) {
	resolve := func(v *VolumeConfig) {
		if v != nil && v.Path != "" && !filepath.IsAbs(v.Path) {
			v.Path = filepath.Join(dir, v.Path)
		}
	}
	for i := range c.Exclude {
		resolve(&c.Exclude[i])
	}
	for i := range c.Sampler.Exclude {
		resolve(&c.Sampler.Exclude[i])
	}
	resolve(c.Sampler.Shadow)
}

// ApplyOverrides sets dotted keys such as "growth.tropism" or "sampler.size"
// on a copy of cfg.
func ApplyOverrides(cfg Config, kv map[string]string) (Config, error) {
	if len(kv) == 0 {
		return cfg, nil
	}
	raw, err := nest(kv)
	if err != nil {
		return Config{}, err
	}
	out := cfg
	// decode writes into shared backing arrays otherwise
	out.Growth.StartPoints = append([][]float64(nil), cfg.Growth.StartPoints...)
	out.Exclude = append([]VolumeConfig(nil), cfg.Exclude...)
	out.Sampler.Exclude = append([]VolumeConfig(nil), cfg.Sampler.Exclude...)
	if cfg.Sampler.Shadow != nil {
		shadow := *cfg.Sampler.Shadow
		out.Sampler.Shadow = &shadow
	}
	if err := decode(raw, &out); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrPreset, err)
	}
	return out, nil
}

// ParseOverrides splits "key=value" pairs.
func ParseOverrides(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: override %q is not key=value", ErrPreset, p)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

func nest(kv map[string]string) (map[string]any, error) {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	root := map[string]any{}
	for _, key := range keys {
		parts := strings.Split(key, ".")
		m := root
		for i, part := range parts {
			if part == "" {
				return nil, fmt.Errorf("%w: malformed key %q", ErrPreset, key)
			}
			if i == len(parts)-1 {
				if _, exists := m[part]; exists {
					return nil, fmt.Errorf("%w: key %q conflicts with another override", ErrPreset, key)
				}
				m[part] = kv[key]
				break
			}
			next, exists := m[part]
			if !exists {
				child := map[string]any{}
				m[part] = child
				m = child
				continue
			}
			child, ok := next.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: key %q conflicts with another override", ErrPreset, key)
			}
			m = child
		}
	}
	return root, nil
}

// FromMap builds a preset from flag-style pairs. The "preset" key selects a
// built-in (default "tree") or a YAML file; every other key is an override.
func FromMap(m map[string]string) (Config, error) {
	cfg := DefaultConfig()
	rest := make(map[string]string, len(m))
	for k, v := range m {
		rest[k] = v
	}
	if name, ok := rest["preset"]; ok {
		delete(rest, "preset")
		var err error
		cfg, err = Resolve(name)
		if err != nil {
			return Config{}, err
		}
	}
	return ApplyOverrides(cfg, rest)
}

// Resolve returns the built-in preset called name, or loads name as a file.
func Resolve(name string) (Config, error) {
	if cfg, ok := Builtin(name); ok {
		return cfg, nil
	}
	if _, err := os.Stat(name); err == nil {
		return LoadPreset(name)
	}
	return Config{}, fmt.Errorf("%w: no built-in preset or file named %q (built-ins: %s)",
		ErrPreset, name, strings.Join(BuiltinNames(), ", "))
}

// Glob returns the preset files below dir that match a doublestar pattern
// such as "**/*.yaml", in lexical order.
func Glob(dir, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: bad glob pattern %q", ErrPreset, pattern)
	}
	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = filepath.Join(dir, filepath.FromSlash(m))
	}
	sort.Strings(out)
	return out, nil
}

// LoadDir loads every preset matched by Glob.
func LoadDir(dir, pattern string) ([]Config, error) {
	paths, err := Glob(dir, pattern)
	if err != nil {
		return nil, err
	}
	out := make([]Config, 0, len(paths))
	for _, p := range paths {
		cfg, err := LoadPreset(p)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, nil
}
