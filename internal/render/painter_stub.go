//go:build !ebiten

package render

import "sca-tree/internal/core"

// Painter is a placeholder used when the ebiten build tag is absent. Use
// EncodePNG for headless output.
type Painter struct {
	Power float64
	Scale float64
}

// NewPainter returns a stub painter.
func NewPainter(power, scale float64) *Painter {
	return &Painter{Power: power, Scale: scale}
}

// Draw is a no-op in headless builds.
func (p *Painter) Draw(any, core.Snapshot, Camera) {}

// DrawAttractors is a no-op in headless builds.
func (p *Painter) DrawAttractors(any, core.Snapshot, Camera) {}

// DrawKillRadii is a no-op in headless builds.
func (p *Painter) DrawKillRadii(any, core.Snapshot, Camera) {}
