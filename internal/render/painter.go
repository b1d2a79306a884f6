//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"sca-tree/internal/core"
	"sca-tree/pkg/sca"
)

// Painter draws snapshots onto an ebiten image.
type Painter struct {
	Power float64
	Scale float64
}

// NewPainter returns a painter with the given branch taper.
func NewPainter(power, scale float64) *Painter {
	return &Painter{Power: power, Scale: scale}
}

// Draw fills dst with the background and paints the branches of snap. The
// camera must already be sized to dst.
func (p *Painter) Draw(dst *ebiten.Image, snap core.Snapshot, cam Camera) {
	dst.Fill(Background)
	maxGen := snap.Stats.MaxGeneration
	for _, s := range Segments(snap.Nodes, cam, p.Power, p.Scale, 1) {
		col := generationTint(snap.Nodes[s.Node].Generation, maxGen)
		vector.StrokeLine(dst, float32(s.X0), float32(s.Y0), float32(s.X1), float32(s.Y1), float32(s.Width), col, true)
	}
}

// DrawAttractors paints one dot per attractor colored by state.
func (p *Painter) DrawAttractors(dst *ebiten.Image, snap core.Snapshot, cam Camera) {
	for _, a := range snap.Attractors {
		x, y, _ := cam.Project(a.Pos)
		vector.DrawFilledCircle(dst, float32(x), float32(y), 2, StateColor(a.State), true)
	}
}

// DrawKillRadii outlines the kill distance around every Active attractor.
func (p *Painter) DrawKillRadii(dst *ebiten.Image, snap core.Snapshot, cam Camera) {
	if snap.KillRadius <= 0 {
		return
	}
	r := float32(snap.KillRadius * cam.Zoom)
	for _, a := range snap.Attractors {
		if a.State != sca.Active {
			continue
		}
		x, y, _ := cam.Project(a.Pos)
		vector.StrokeCircle(dst, float32(x), float32(y), r, 1, KillRing, true)
	}
}
