package render

import (
	"image/color"

	"sca-tree/pkg/sca"
)

// Colors used by both renderers.
var (
	Background = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	Bark       = color.RGBA{R: 196, G: 168, B: 128, A: 255}
	KillRing   = color.RGBA{R: 220, G: 90, B: 60, A: 90}
)

// statePalette is indexed by sca.AttractorState.
var statePalette = []color.RGBA{
	sca.Active:     {R: 120, G: 220, B: 110, A: 255},
	sca.Dead:       {R: 110, G: 60, B: 60, A: 160},
	sca.OutOfRange: {R: 120, G: 120, B: 140, A: 200},
}

// StateColor returns the dot color of an attractor state. Unknown states
// use the last palette entry.
func StateColor(s sca.AttractorState) color.RGBA {
	idx := int(s)
	if last := len(statePalette) - 1; idx > last {
		idx = last
	}
	return statePalette[idx]
}

// generationTint shades bark from dark at the root to light at the tips.
func generationTint(gen, maxGen int) color.RGBA {
	t := 1.0
	if maxGen > 0 {
		t = 0.55 + 0.45*float64(gen)/float64(maxGen)
	}
	return color.RGBA{
		R: uint8(float64(Bark.R) * t),
		G: uint8(float64(Bark.G) * t),
		B: uint8(float64(Bark.B) * t),
		A: Bark.A,
	}
}
