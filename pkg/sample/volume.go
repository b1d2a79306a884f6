package sample

import (
	"math"

	"sca-tree/pkg/core"
)

// Volume is a closed region of space.
type Volume interface {
	Contains(p core.Vec3) bool
	// Bounds returns the axis-aligned bounding box.
	Bounds() (min, max core.Vec3)
}

// SphereVolume is a solid ball.
type SphereVolume struct {
	Center core.Vec3
	Radius float64
}

func (s SphereVolume) Contains(p core.Vec3) bool {
	d := p.Sub(s.Center)
	return d.Dot(d) <= s.Radius*s.Radius
}

func (s SphereVolume) Bounds() (core.Vec3, core.Vec3) {
	r := core.V(s.Radius, s.Radius, s.Radius)
	return s.Center.Sub(r), s.Center.Add(r)
}

// BoxVolume is an axis-aligned box.
type BoxVolume struct {
	Min, Max core.Vec3
}

func (b BoxVolume) Contains(p core.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

func (b BoxVolume) Bounds() (core.Vec3, core.Vec3) { return b.Min, b.Max }

// EllipsoidVolume is an axis-aligned solid ellipsoid.
type EllipsoidVolume struct {
	Center core.Vec3
	Radii  core.Vec3
}

func (e EllipsoidVolume) Contains(p core.Vec3) bool {
	d := p.Sub(e.Center)
	x, y, z := d.X/e.Radii.X, d.Y/e.Radii.Y, d.Z/e.Radii.Z
	return x*x+y*y+z*z <= 1
}

func (e EllipsoidVolume) Bounds() (core.Vec3, core.Vec3) {
	r := core.V(math.Abs(e.Radii.X), math.Abs(e.Radii.Y), math.Abs(e.Radii.Z))
	return e.Center.Sub(r), e.Center.Add(r)
}

// Excluder returns a predicate that reports whether p lies inside any of
// vols. It is suitable as an engine exclusion predicate.
func Excluder(vols ...Volume) func(core.Vec3) bool {
	return func(p core.Vec3) bool { return excluded(vols, p) }
}
