package sample

import (
	"fmt"
	"math"

	"sca-tree/pkg/core"
)

// Ellipsoid samples inside an ellipsoid whose horizontal extent is scaled
// along Z by a taper factor. Taper 0 is a plain ellipsoid, positive values
// narrow the top and negative values narrow the bottom.
type Ellipsoid struct {
	center core.Vec3
	r2, z2 float64
	half   float64
	taper  float64
	// bx and bz bound the accepted region; draws are taken in that box.
	bx, bz float64
	rng    *core.RNG
	guard  yieldGuard
}

// NewEllipsoid returns a tapered ellipsoid sampler with horizontal radius r
// and vertical radius rz. Tapers that leave almost nothing of the volume trip
// the low-yield valve instead of stalling Next.
func NewEllipsoid(center core.Vec3, r, rz, taper float64, seed int64, opts ...Option) (*Ellipsoid, error) {
	if !positive(r) || !positive(rz) {
		return nil, fmt.Errorf("%w: ellipsoid radii must be finite and > 0, got %v, %v", ErrConfig, r, rz)
	}
	if !finite(taper) {
		return nil, fmt.Errorf("%w: taper must be finite, got %v", ErrConfig, taper)
	}
	if !center.IsFinite() {
		return nil, fmt.Errorf("%w: ellipsoid center is not finite", ErrConfig)
	}
	half := math.Max(r, rz)
	// f >= 1 for non-negative tapers, so |x| and |y| never exceed r
	bx := half
	if taper >= 0 {
		bx = r
	}
	s := newSettings(opts)
	return &Ellipsoid{
		center: center,
		r2:     r * r,
		z2:     rz * rz,
		half:   half,
		taper:  taper,
		bx:     bx,
		bz:     rz,
		rng:    core.NewRNG(seed),
		guard:  yieldGuard{name: "ellipsoid", logger: s.logger},
	}, nil
}

// Next draws in the bounding box until the tapered test accepts.
func (e *Ellipsoid) Next() core.Vec3 {
	for {
		x := e.rng.Symmetric() * e.bx
		y := e.rng.Symmetric() * e.bx
		z := e.rng.Symmetric() * e.bz
		if e.guard.admit(e.accepts(x, y, z)) {
			return e.center.Add(core.V(x, y, z))
		}
	}
}

// FailedOpen reports whether the low-yield valve opened.
func (e *Ellipsoid) FailedOpen() bool { return e.guard.open }

func (e *Ellipsoid) accepts(x, y, z float64) bool {
	f := (z + e.half) / (2 * e.half)
	if e.taper >= 0 {
		f = 1 + f*e.taper
	} else {
		f = (1 - f) * -e.taper
	}
	return f*x*x/e.r2+f*y*y/e.r2+z*z/e.z2 <= 1
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func positive(f float64) bool { return finite(f) && f > 0 }
