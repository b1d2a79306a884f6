package ui

import (
	"image"
	"strconv"

	"sca-tree/internal/core"
)

const (
	panelPadding   = 12
	lineHeight     = 30
	buttonSize     = 22
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 20
	infoSpacing    = 36
	statusSpacing  = 16
	controlsTop    = panelPadding + headerBaseline + 10
)

// controlRow is one adjustable parameter line of the panel, in panel
// coordinates.
type controlRow struct {
	ctrl    core.ParameterControl
	text    string
	current float64
	known   bool

	top   int
	minus image.Rectangle
	plus  image.Rectangle
}

// layoutRows stacks one row per control with the -/+ buttons right aligned
// in a panel width pixels wide.
func layoutRows(ctrls []core.ParameterControl, width int) []controlRow {
	rows := make([]controlRow, len(ctrls))
	right := width - panelPadding
	for i, c := range ctrls {
		top := controlsTop + i*lineHeight
		y := top + (lineHeight-buttonSize)/2
		plus := image.Rect(right-buttonSize, y, right, y+buttonSize)
		minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
		rows[i] = controlRow{ctrl: c, text: "--", top: top, minus: minus, plus: plus}
	}
	return rows
}

// sync reads the row's current value from snap.
func (r *controlRow) sync(snap core.ParameterSnapshot) {
	r.known, r.text = false, "--"
	p, ok := snap.Lookup(r.ctrl.Key)
	if !ok {
		return
	}
	v, ok := parseParam(r.ctrl.Type, p.Value)
	if !ok {
		return
	}
	r.current, r.known = v, true
	r.text = formatValue(r.ctrl, v)
}

// hit returns -1 or +1 when (x, y) is on the minus or plus button, else 0.
func (r *controlRow) hit(x, y int) int {
	pt := image.Pt(x, y)
	switch {
	case pt.In(r.minus):
		return -1
	case pt.In(r.plus):
		return 1
	}
	return 0
}

// hitRow finds the known row whose button is under (x, y).
func hitRow(rows []controlRow, x, y int) (int, int) {
	for i := range rows {
		if !rows[i].known {
			continue
		}
		if dir := rows[i].hit(x, y); dir != 0 {
			return i, dir
		}
	}
	return -1, 0
}

func parseParam(t core.ParamType, s string) (float64, bool) {
	switch t {
	case core.ParamTypeInt:
		n, err := strconv.ParseInt(s, 10, 64)
		return float64(n), err == nil
	case core.ParamTypeFloat:
		v, err := strconv.ParseFloat(s, 64)
		return v, err == nil
	}
	return 0, false
}
