//go:build ebiten

package app

import (
	"log/slog"
	"math"
	"time"

	"sca-tree/internal/core"
	"sca-tree/internal/render"
	"sca-tree/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const orbitStep = math.Pi / 90

// Game adapts a growth sim to the ebiten.Game interface. Rounds run at a
// fixed rate; the view stays fitted to the attractor cloud until the user
// orbits the camera.
type Game struct {
	sim     core.Sim
	painter *render.Painter
	overlay *ui.Overlay
	hud     *ui.HUD
	timer   *core.FixedStep
	logger  *slog.Logger

	cam      render.Camera
	width    int
	height   int
	hudWidth int

	paused   bool
	tickOnce bool
	seed     int64
	fitted   bool

	pending chan core.Sim
}

// New constructs a Game for the provided sim.
func New(sim core.Sim, painter *render.Painter, cfg *Config, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	return &Game{
		sim:      sim,
		painter:  painter,
		overlay:  ui.NewOverlay(painter),
		hud:      ui.NewHUD(sim, cfg.HUDWidth),
		timer:    core.NewFixedStep(cfg.TPS),
		logger:   logger,
		cam:      render.Camera{Pitch: 0.15, Width: cfg.Width, Height: cfg.Height},
		width:    cfg.Width,
		height:   cfg.Height,
		hudWidth: cfg.HUDWidth,
		seed:     sim.Seed(),
		pending:  make(chan core.Sim, 1),
	}
}

// Replace swaps in a new sim on the next frame. It is safe to call from any
// goroutine; a replacement that was not picked up yet is dropped.
func (g *Game) Replace(sim core.Sim) {
	select {
	case <-g.pending:
	default:
	}
	g.pending <- sim
}

// Reset regrows the tree with the provided seed.
func (g *Game) Reset(seed int64) {
	if err := g.sim.Reset(seed); err != nil {
		g.logger.Warn("reset failed", "seed", seed, "err", err)
		return
	}
	g.seed = seed
	g.tickOnce = false
	g.timer.Reset()
	g.refit()
}

func (g *Game) refit() {
	g.cam = g.cam.FitSnapshot(g.sim.Snapshot(), 24)
	g.fitted = true
}

// Update handles per-frame input and advances the sim.
func (g *Game) Update() error {
	select {
	case sim := <-g.pending:
		g.sim = sim
		g.seed = sim.Seed()
		g.hud = ui.NewHUD(sim, g.hudWidth)
		g.timer.Reset()
		g.refit()
		g.logger.Info("preset reloaded", "sim", sim.Name())
	default:
	}
	if !g.fitted {
		g.refit()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.refit()
	}
	g.orbit()

	g.overlay.Update()
	if g.hud.Update(g.width) {
		g.seed = g.sim.Seed()
		g.timer.Reset()
		g.refit()
	}

	if g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
		return nil
	}
	if g.paused {
		return nil
	}
	for n := g.timer.Due(4); n > 0; n-- {
		if !g.sim.Step() {
			break
		}
	}
	return nil
}

func (g *Game) orbit() {
	var dyaw, dpitch float64
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dyaw -= orbitStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dyaw += orbitStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dpitch += orbitStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dpitch -= orbitStep
	}
	if dyaw != 0 || dpitch != 0 {
		g.cam = g.cam.Orbit(dyaw, dpitch)
	}
}

// Draw renders the current tree, the overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	snap := g.sim.Snapshot()
	g.painter.Draw(screen, snap, g.cam)
	g.overlay.Draw(screen, snap, g.cam)
	g.hud.Draw(screen, g.width, g.height, ui.StatusLines(snap, g.seed, g.paused))
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width + g.hudWidth, g.height
}
