//go:build ebiten

package ui

import (
	"sca-tree/internal/core"
	"sca-tree/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws the attractor cloud and kill radii on top of the tree.
type Overlay struct {
	painter        *render.Painter
	showAttractors bool
	showKill       bool
}

// NewOverlay constructs an overlay with attractors visible.
func NewOverlay(painter *render.Painter) *Overlay {
	return &Overlay{painter: painter, showAttractors: true}
}

// Update toggles the layers: 1 attractors, 2 kill radii.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showAttractors = !o.showAttractors
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showKill = !o.showKill
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image, snap core.Snapshot, cam render.Camera) {
	if o.showKill {
		o.painter.DrawKillRadii(screen, snap, cam)
	}
	if o.showAttractors {
		o.painter.DrawAttractors(screen, snap, cam)
	}
}
