//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"sca-tree/internal/core"
)

var (
	panelColor = color.RGBA{R: 24, G: 24, B: 30, A: 255}
	titleColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	textColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor   = color.RGBA{R: 160, G: 160, B: 170, A: 255}

	buttonColor    = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	buttonText     = color.RGBA{R: 230, G: 230, B: 240, A: 255}
	buttonOffColor = color.RGBA{R: 32, G: 34, B: 40, A: 255}
	buttonOffText  = color.RGBA{R: 120, G: 120, B: 130, A: 255}
)

// HUD is the parameter panel to the right of the tree view. Clicking - or +
// writes the adjusted value back through the sim's parameter setters.
type HUD struct {
	sim   core.Sim
	width int
	rows  []controlRow

	ints   core.IntParameterSetter
	floats core.FloatParameterSetter

	panel *ebiten.Image
	pixel *ebiten.Image
}

// NewHUD constructs a HUD for sim in a panel width pixels wide.
func NewHUD(sim core.Sim, width int) *HUD {
	h := &HUD{sim: sim, width: max(width, 0)}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if p, ok := sim.(core.ParameterControlsProvider); ok {
		h.rows = layoutRows(p.ParameterControls(), h.width)
	}
	h.ints, _ = sim.(core.IntParameterSetter)
	h.floats, _ = sim.(core.FloatParameterSetter)
	return h
}

// Update refreshes the displayed values and handles clicks on the panel,
// which starts at panelX on screen. It reports whether a parameter changed.
func (h *HUD) Update(panelX int) bool {
	if h == nil || len(h.rows) == 0 {
		return false
	}
	if p, ok := h.sim.(interface {
		Parameters() core.ParameterSnapshot
	}); ok {
		snap := p.Parameters()
		for i := range h.rows {
			h.rows[i].sync(snap)
		}
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return false
	}
	mx, my := ebiten.CursorPosition()
	i, dir := hitRow(h.rows, mx-panelX, my)
	if i < 0 {
		return false
	}
	return h.adjust(&h.rows[i], dir)
}

func (h *HUD) adjust(r *controlRow, dir int) bool {
	target, ok := adjustTarget(r.ctrl, r.current, dir)
	if !ok || !h.settable(r.ctrl) {
		return false
	}
	var applied bool
	if r.ctrl.Type == core.ParamTypeInt {
		applied = h.ints.SetIntParameter(r.ctrl.Key, int(target))
	} else {
		applied = h.floats.SetFloatParameter(r.ctrl.Key, target)
	}
	if applied {
		r.current = target
		r.text = formatValue(r.ctrl, target)
	}
	return applied
}

func (h *HUD) settable(c core.ParameterControl) bool {
	switch c.Type {
	case core.ParamTypeInt:
		return h.ints != nil
	case core.ParamTypeFloat:
		return h.floats != nil
	}
	return false
}

func (h *HUD) enabled(r *controlRow, dir int) bool {
	if !r.known || !h.settable(r.ctrl) {
		return false
	}
	_, ok := adjustTarget(r.ctrl, r.current, dir)
	return ok
}

// Draw paints the panel at offsetX with the status lines at the bottom.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int, status []string) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelColor)

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, buildTitle(h.sim.Name()), face, panelPadding, y, titleColor)
	if len(h.rows) == 0 {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, y+infoSpacing, dimColor)
	}
	for i := range h.rows {
		h.drawRow(&h.rows[i])
	}

	y = height - panelPadding - (len(status)-1)*statusSpacing
	for _, line := range status {
		text.Draw(h.panel, line, face, panelPadding, y, dimColor)
		y += statusSpacing
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawRow(r *controlRow) {
	face := basicfont.Face7x13
	y := r.top + labelBaseline
	text.Draw(h.panel, r.ctrl.Label, face, panelPadding, y, textColor)

	clr := textColor
	if !r.known {
		clr = dimColor
	}
	w := text.BoundString(face, r.text).Dx()
	text.Draw(h.panel, r.text, face, r.minus.Min.X-buttonGap-w, y, clr)

	h.drawButton(r.minus, "-", h.enabled(r, -1))
	h.drawButton(r.plus, "+", h.enabled(r, 1))
}

func (h *HUD) drawButton(rect image.Rectangle, label string, on bool) {
	bg, fg := buttonColor, buttonText
	if !on {
		bg, fg = buttonOffColor, buttonOffText
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-b.Dx())/2
	y := rect.Min.Y + (rect.Dy()+b.Dy())/2
	text.Draw(h.panel, label, face, x, y, fg)
}
