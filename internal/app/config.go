package app

import (
	"flag"
	"fmt"
	"strings"
)

// Config holds the viewer flags.
type Config struct {
	// Sim is a registered sim name or the path of a preset file.
	Sim      string
	Seed     int64
	TPS      int
	Width    int
	Height   int
	HUDWidth int
	Watch    bool
	LogLevel string
	Set      Overrides
}

// NewConfig returns the viewer defaults.
func NewConfig() *Config {
	return &Config{
		Sim:      "tree",
		Seed:     1,
		TPS:      20,
		Width:    800,
		Height:   800,
		HUDWidth: 300,
		LogLevel: "info",
		Set:      Overrides{},
	}
}

// Bind registers the viewer flags on fs.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "built-in preset name or preset file")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed")
	fs.IntVar(&c.TPS, "tps", c.TPS, "growth rounds per second")
	fs.IntVar(&c.Width, "w", c.Width, "view width in pixels")
	fs.IntVar(&c.Height, "h", c.Height, "view height in pixels")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "parameter panel width in pixels, 0 hides it")
	fs.BoolVar(&c.Watch, "watch", c.Watch, "reload the preset file when it changes")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.Var(&c.Set, "set", "override a preset value, key=value (repeatable)")
}

// Validate checks the sizes and rates.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("view size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.TPS <= 0 {
		return fmt.Errorf("tps must be positive, got %d", c.TPS)
	}
	if c.HUDWidth < 0 {
		return fmt.Errorf("hud width must be >= 0, got %d", c.HUDWidth)
	}
	return nil
}

// Overrides collects repeated key=value flags.
type Overrides map[string]string

func (o Overrides) String() string {
	parts := make([]string, 0, len(o))
	for k, v := range o {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

// Set implements flag.Value.
func (o Overrides) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	o[k] = strings.TrimSpace(v)
	return nil
}
