// Package render projects grown skeletons onto a 2-D view and draws them,
// headless to PNG through gg or on screen through ebiten.
package render

import (
	"math"
	"sort"

	"sca-tree/internal/core"
	"sca-tree/pkg/sca"
	vec "sca-tree/pkg/core"
)

// Camera is an orthographic orbit camera around Target. Z is up on screen.
// Yaw turns the scene about Z, a positive Pitch looks down from above.
type Camera struct {
	Target vec.Vec3
	Yaw    float64
	Pitch  float64
	// Zoom is the number of pixels per world unit.
	Zoom   float64
	Width  int
	Height int
}

// Project maps p to pixel coordinates. depth grows away from the viewer.
func (c Camera) Project(p vec.Vec3) (x, y, depth float64) {
	d := p.Sub(c.Target)
	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)
	x1 := d.X*cy - d.Y*sy
	y1 := d.X*sy + d.Y*cy
	cp, sp := math.Cos(c.Pitch), math.Sin(c.Pitch)
	depth = y1*cp - d.Z*sp
	up := y1*sp + d.Z*cp
	return float64(c.Width)/2 + x1*c.Zoom, float64(c.Height)/2 - up*c.Zoom, depth
}

// Orbit returns the camera turned by dyaw and tilted by dpitch. Pitch is
// kept within a quarter turn of the horizon.
func (c Camera) Orbit(dyaw, dpitch float64) Camera {
	c.Yaw = math.Mod(c.Yaw+dyaw, 2*math.Pi)
	c.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, c.Pitch+dpitch))
	return c
}

// Fit centers the camera on pts and sets Zoom so that every point lands at
// least margin pixels inside the frame.
func (c Camera) Fit(pts []vec.Vec3, margin float64) Camera {
	if len(pts) == 0 || c.Width <= 0 || c.Height <= 0 {
		if c.Zoom <= 0 {
			c.Zoom = 1
		}
		return c
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo, hi = lo.Min(p), hi.Max(p)
	}
	c.Target = lo.Add(hi).Scale(0.5)

	probe := c
	probe.Zoom = 1
	probe.Width, probe.Height = 0, 0
	var ex, ey float64
	for _, p := range pts {
		x, y, _ := probe.Project(p)
		ex = math.Max(ex, math.Abs(x))
		ey = math.Max(ey, math.Abs(y))
	}
	availX := float64(c.Width)/2 - margin
	availY := float64(c.Height)/2 - margin
	if availX <= 0 || availY <= 0 {
		availX, availY = float64(c.Width)/2, float64(c.Height)/2
	}
	zoom := math.Inf(1)
	if ex > 0 {
		zoom = availX / ex
	}
	if ey > 0 {
		zoom = math.Min(zoom, availY/ey)
	}
	if math.IsInf(zoom, 1) {
		zoom = 1
	}
	c.Zoom = zoom
	return c
}

// FitSnapshot fits the camera to the nodes and attractors of snap.
func (c Camera) FitSnapshot(snap core.Snapshot, margin float64) Camera {
	pts := make([]vec.Vec3, 0, len(snap.Nodes)+len(snap.Attractors))
	for _, n := range snap.Nodes {
		pts = append(pts, n.Pos)
	}
	for _, a := range snap.Attractors {
		pts = append(pts, a.Pos)
	}
	return c.Fit(pts, margin)
}

// BranchRadius is the tapered radius of the segment ending in a node with
// the given number of descendants: (connections+1)^power * scale.
func BranchRadius(connections int, power, scale float64) float64 {
	return math.Pow(float64(connections+1), power) * scale
}

// Segment is one projected branch segment from a node's parent to the node.
type Segment struct {
	X0, Y0, X1, Y1 float64
	// Width is the stroke width in pixels.
	Width float64
	Depth float64
	Node  int
}

// Segments projects every non-root node to a segment, farthest first.
// Widths never fall below minWidth pixels.
func Segments(nodes []sca.Node, cam Camera, power, scale, minWidth float64) []Segment {
	out := make([]Segment, 0, len(nodes))
	for i, n := range nodes {
		if n.IsRoot() || n.Parent >= len(nodes) {
			continue
		}
		x0, y0, d0 := cam.Project(nodes[n.Parent].Pos)
		x1, y1, d1 := cam.Project(n.Pos)
		w := 2 * BranchRadius(n.Connections, power, scale) * cam.Zoom
		out = append(out, Segment{
			X0: x0, Y0: y0, X1: x1, Y1: y1,
			Width: math.Max(w, minWidth),
			Depth: (d0 + d1) / 2,
			Node:  i,
		})
	}
	sortByDepth(out)
	return out
}

func sortByDepth(segs []Segment) {
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Depth > segs[j].Depth })
}
