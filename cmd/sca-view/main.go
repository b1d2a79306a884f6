//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"sca-tree/internal/app"
	"sca-tree/internal/core"
	"sca-tree/internal/logging"
	"sca-tree/internal/render"
	"sca-tree/internal/sims/tree"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(level)

	preset, err := loadPreset(cfg)
	if err != nil {
		log.Fatal(err)
	}
	sim, err := tree.New(preset, tree.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}

	painter := render.NewPainter(preset.Render.Power, preset.Render.Scale)
	game := app.New(sim, painter, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Watch {
		if _, err := os.Stat(cfg.Sim); err != nil {
			log.Fatalf("-watch needs a preset file: %v", err)
		}
		go watch(ctx, cfg, game, logger)
	}

	ebiten.SetWindowTitle(fmt.Sprintf("sca-view: %s", sim.Name()))
	ebiten.SetTPS(60)
	ebiten.SetWindowSize(cfg.Width+cfg.HUDWidth, cfg.Height)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}

// loadPreset resolves -sim, applies -set and pins the seed.
func loadPreset(cfg *app.Config) (tree.Config, error) {
	preset, err := tree.Resolve(cfg.Sim)
	if err != nil {
		return tree.Config{}, fmt.Errorf("%w (registered: %v)", err, core.Names())
	}
	preset, err = tree.ApplyOverrides(preset, cfg.Set)
	if err != nil {
		return tree.Config{}, err
	}
	preset.Seed = cfg.Seed
	return preset, nil
}

// watch rebuilds the sim on every preset change. Render settings keep their
// startup values.
func watch(ctx context.Context, cfg *app.Config, game *app.Game, logger *slog.Logger) {
	err := tree.Watch(ctx, cfg.Sim, logger, func(preset tree.Config) {
		preset, err := tree.ApplyOverrides(preset, cfg.Set)
		if err != nil {
			logger.Warn("overrides rejected after reload", "err", err)
			return
		}
		preset.Seed = cfg.Seed
		sim, err := tree.New(preset, tree.WithLogger(logger))
		if err != nil {
			logger.Warn("reloaded preset does not build", "err", err)
			return
		}
		game.Replace(sim)
	})
	if err != nil {
		logger.Error("preset watcher stopped", "err", err)
	}
}
