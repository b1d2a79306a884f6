package sample

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sca-tree/pkg/core"
)

func TestPrimitiveVolumes(t *testing.T) {
	s := SphereVolume{Center: core.V(1, 0, 0), Radius: 1}
	assert.True(t, s.Contains(core.V(1.5, 0, 0)))
	assert.False(t, s.Contains(core.V(2.5, 0, 0)))
	lo, hi := s.Bounds()
	assert.Equal(t, core.V(0, -1, -1), lo)
	assert.Equal(t, core.V(2, 1, 1), hi)

	b := BoxVolume{Min: core.V(0, 0, 0), Max: core.V(1, 2, 3)}
	assert.True(t, b.Contains(core.V(1, 2, 3)))
	assert.False(t, b.Contains(core.V(1, 2, 3.1)))

	e := EllipsoidVolume{Center: core.Vec3{}, Radii: core.V(2, 1, 1)}
	assert.True(t, e.Contains(core.V(1.9, 0, 0)))
	assert.False(t, e.Contains(core.V(0, 1.1, 0)))
}

func TestBoxMesh(t *testing.T) {
	m := BoxMesh(core.V(0, 0, 0), core.V(1, 1, 1))
	assert.Equal(t, 12, m.Triangles())

	inside := []core.Vec3{
		core.V(0.5, 0.5, 0.5), // under the top diagonal
		core.V(0.2, 0.7, 0.1),
		core.V(0.9, 0.1, 0.99),
	}
	outside := []core.Vec3{
		core.V(0.5, 0.5, -1),
		core.V(0.5, 0.5, 2),
		core.V(1.5, 0.5, 0.5),
		core.V(0.3, 0.6, -0.2),
	}
	for _, p := range inside {
		assert.True(t, m.Contains(p), "%v", p)
	}
	for _, p := range outside {
		assert.False(t, m.Contains(p), "%v", p)
	}
}

func TestMeshMatchesBoxVolume(t *testing.T) {
	lo, hi := core.V(-1, -2, 0), core.V(2, 1, 3)
	m := BoxMesh(lo, hi)
	box := BoxVolume{Min: lo, Max: hi}
	rng := core.NewRNG(5)
	for i := 0; i < 2000; i++ {
		p := core.V(rng.Range(-3, 4), rng.Range(-4, 3), rng.Range(-2, 5))
		require.Equal(t, box.Contains(p), m.Contains(p), "%v", p)
	}
}

const tetraOBJ = `# tetrahedron
v 0 0 0
v 2 0 0
v 0 2 0
v 0 0 2
f 1 3 2
f 1 2 4
f 1 4 3
f 2/1 3/1 4/1
`

func TestLoadOBJ(t *testing.T) {
	m, err := LoadOBJ(strings.NewReader(tetraOBJ))
	require.NoError(t, err)
	assert.Equal(t, 4, m.Triangles())
	assert.True(t, m.Contains(core.V(0.3, 0.3, 0.3)))
	assert.False(t, m.Contains(core.V(1.2, 1.2, 0.3)))
	assert.False(t, m.Contains(core.V(0.3, 0.3, -0.5)))

	quad, err := LoadOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, quad.Triangles())

	neg, err := LoadOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, neg.Triangles())
}

func TestLoadOBJErrors(t *testing.T) {
	bad := []string{
		"",
		"v 1 2\n",
		"v a b c\n",
		"v 0 0 0\nf 1 2\n",
		"v 0 0 0\nf 1 2 3\n",
		"v 0 0 0\nf x y z\n",
	}
	for _, src := range bad {
		_, err := LoadOBJ(strings.NewReader(src))
		assert.ErrorIs(t, err, ErrConfig, "%q", src)
	}
}

func TestExcluder(t *testing.T) {
	ex := Excluder(SphereVolume{Radius: 1}, BoxVolume{Min: core.V(5, 5, 5), Max: core.V(6, 6, 6)})
	assert.True(t, ex(core.V(0.5, 0, 0)))
	assert.True(t, ex(core.V(5.5, 5.5, 5.5)))
	assert.False(t, ex(core.V(3, 3, 3)))
	assert.False(t, Excluder()(core.Vec3{}))
}
