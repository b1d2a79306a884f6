package sample

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"sca-tree/pkg/core"
)

// rayEpsilon is the minimum hit distance along the probe ray.
const rayEpsilon = 1e-9

// Triangle is one mesh face.
type Triangle [3]core.Vec3

// MeshVolume is the interior of a closed triangle mesh. Containment counts
// the crossings of a ray cast from the point along +Z; an odd count means
// inside.
type MeshVolume struct {
	tris     []Triangle
	min, max core.Vec3
}

// NewMeshVolume builds a volume from vertices and triangle indices.
func NewMeshVolume(vertices []core.Vec3, faces [][3]int) (*MeshVolume, error) {
	if len(faces) == 0 {
		return nil, fmt.Errorf("%w: mesh has no faces", ErrConfig)
	}
	m := &MeshVolume{tris: make([]Triangle, 0, len(faces))}
	for fi, f := range faces {
		var t Triangle
		for k, vi := range f {
			if vi < 0 || vi >= len(vertices) {
				return nil, fmt.Errorf("%w: face %d references vertex %d of %d", ErrConfig, fi, vi, len(vertices))
			}
			if !vertices[vi].IsFinite() {
				return nil, fmt.Errorf("%w: vertex %d is not finite", ErrConfig, vi)
			}
			t[k] = vertices[vi]
		}
		m.tris = append(m.tris, t)
	}
	m.min, m.max = m.tris[0][0], m.tris[0][0]
	for _, t := range m.tris {
		for _, v := range t {
			m.min = m.min.Min(v)
			m.max = m.max.Max(v)
		}
	}
	return m, nil
}

// BoxMesh returns the 12-triangle mesh of an axis-aligned box.
func BoxMesh(lo, hi core.Vec3) *MeshVolume {
	v := []core.Vec3{
		core.V(lo.X, lo.Y, lo.Z), core.V(hi.X, lo.Y, lo.Z),
		core.V(hi.X, hi.Y, lo.Z), core.V(lo.X, hi.Y, lo.Z),
		core.V(lo.X, lo.Y, hi.Z), core.V(hi.X, lo.Y, hi.Z),
		core.V(hi.X, hi.Y, hi.Z), core.V(lo.X, hi.Y, hi.Z),
	}
	f := [][3]int{
		{0, 2, 1}, {0, 3, 2}, // bottom
		{4, 5, 6}, {4, 6, 7}, // top
		{0, 1, 5}, {0, 5, 4},
		{1, 2, 6}, {1, 6, 5},
		{2, 3, 7}, {2, 7, 6},
		{3, 0, 4}, {3, 4, 7},
	}
	m, _ := NewMeshVolume(v, f)
	return m
}

// Triangles returns the number of faces.
func (m *MeshVolume) Triangles() int { return len(m.tris) }

func (m *MeshVolume) Bounds() (core.Vec3, core.Vec3) { return m.min, m.max }

func (m *MeshVolume) Contains(p core.Vec3) bool {
	if p.X < m.min.X || p.X > m.max.X || p.Y < m.min.Y || p.Y > m.max.Y || p.Z > m.max.Z {
		return false
	}
	crossings := 0
	for _, t := range m.tris {
		if hitsUp(p, t) {
			crossings++
		}
	}
	return crossings%2 == 1
}

// hitsUp reports whether the ray p + t·(0,0,1), t > rayEpsilon, crosses tri.
// Projected onto the XY plane the triangle is made counter-clockwise, and a
// ray through an edge shared by two faces is counted by exactly one of them.
func hitsUp(p core.Vec3, tri Triangle) bool {
	a, b, c := tri[0], tri[1], tri[2]
	if edge(a, b, c) < 0 {
		b, c = c, b
	}
	w0 := edge(b, c, p)
	w1 := edge(c, a, p)
	w2 := edge(a, b, p)
	area := w0 + w1 + w2
	if area == 0 {
		return false
	}
	if !owns(w0, b, c) || !owns(w1, c, a) || !owns(w2, a, b) {
		return false
	}
	z := (w0*a.Z + w1*b.Z + w2*c.Z) / area
	return z-p.Z > rayEpsilon
}

// edge is twice the signed area of (a, b, p) projected onto XY.
func edge(a, b, p core.Vec3) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// owns accepts a positive weight and breaks zero weights by edge direction.
func owns(w float64, a, b core.Vec3) bool {
	if w != 0 {
		return w > 0
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	return dy > 0 || (dy == 0 && dx < 0)
}

// LoadOBJ reads the vertices and faces of a Wavefront OBJ stream into a
// mesh volume. Polygons are fan-triangulated; texture and normal indices are
// ignored.
func LoadOBJ(r io.Reader) (*MeshVolume, error) {
	var verts []core.Vec3
	var faces [][3]int
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: obj line %d: vertex needs 3 coordinates", ErrConfig, line)
			}
			var xyz [3]float64
			for k := range xyz {
				f, err := strconv.ParseFloat(fields[k+1], 64)
				if err != nil {
					return nil, fmt.Errorf("%w: obj line %d: %v", ErrConfig, line, err)
				}
				xyz[k] = f
			}
			verts = append(verts, core.V(xyz[0], xyz[1], xyz[2]))
		case "f":
			idx := make([]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				ref, _, _ := strings.Cut(tok, "/")
				n, err := strconv.Atoi(ref)
				if err != nil {
					return nil, fmt.Errorf("%w: obj line %d: %v", ErrConfig, line, err)
				}
				if n < 0 {
					n = len(verts) + n + 1
				}
				idx = append(idx, n-1)
			}
			if len(idx) < 3 {
				return nil, fmt.Errorf("%w: obj line %d: face needs 3 vertices", ErrConfig, line)
			}
			for k := 1; k+1 < len(idx); k++ {
				faces = append(faces, [3]int{idx[0], idx[k], idx[k+1]})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return NewMeshVolume(verts, faces)
}
