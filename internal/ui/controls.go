package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"sca-tree/internal/core"
)

// adjustTarget returns the value one step from current in direction. ok is
// false when the bounds leave no room to move.
func adjustTarget(ctrl core.ParameterControl, current float64, direction int) (float64, bool) {
	if direction == 0 {
		return current, false
	}
	step := ctrl.StepOrDefault()
	if ctrl.Type == core.ParamTypeInt {
		step = math.Max(1, math.Round(step))
	}
	target := ctrl.Clamp(current + float64(direction)*step)
	if ctrl.Type == core.ParamTypeInt {
		target = math.Round(target)
	}
	if math.Abs(target-current) < 1e-9 {
		return current, false
	}
	return target, true
}

// formatValue renders v with a precision matching the control step.
func formatValue(ctrl core.ParameterControl, v float64) string {
	if ctrl.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(v)))
	}
	step := ctrl.StepOrDefault()
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

func buildTitle(name string) string {
	if name == "" {
		return "Controls"
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r) + " Controls"
}

// StatusLines summarizes a snapshot for the HUD footer.
func StatusLines(snap core.Snapshot, seed int64, paused bool) []string {
	st := snap.Stats
	state := snap.Reason.String()
	if paused && state == "running" {
		state = "paused"
	}
	return []string{
		fmt.Sprintf("seed %d  round %d", seed, st.Rounds),
		fmt.Sprintf("nodes %d  gen %d", st.Nodes, st.MaxGeneration),
		fmt.Sprintf("active %d  dead %d  far %d", st.Attractors.Active, st.Attractors.Dead, st.Attractors.OutOfRange),
		strings.ToUpper(state[:1]) + state[1:],
	}
}
