package gaussmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/njchilds90/gaussmap"
)

func catalogField(t *testing.T, name string) *gaussmap.NormalField {
	t.Helper()
	in, err := gaussmap.Lookup(name)
	require.NoError(t, err)
	return mustField(t, in)
}

// ============================================================
// Orientation
// ============================================================

func TestIsInward(t *testing.T) {
	t.Parallel()
	sphere := catalogField(t, "sphere")
	g := gaussmap.NewGrid(sphere.Surface(), 20, 20)
	assert.True(t, sphere.IsInward(g))
	assert.False(t, sphere.Reversed().IsInward(g))

	cyl := catalogField(t, "cylinder")
	assert.False(t, cyl.IsInward(gaussmap.NewGrid(cyl.Surface(), 20, 20)))
}

func TestOutward(t *testing.T) {
	t.Parallel()
	sphere := catalogField(t, "sphere")
	g := gaussmap.NewGrid(sphere.Surface(), 20, 20)
	out := sphere.Outward(g)
	assert.False(t, out.IsInward(g))

	p, ok := sphere.Surface().Point(1, 1)
	require.True(t, ok)
	assert.Greater(t, r3.Dot(p, out.Evaluate(1, 1).Vec), 0.0)

	cyl := catalogField(t, "cylinder")
	assert.Same(t, cyl, cyl.Outward(gaussmap.NewGrid(cyl.Surface(), 20, 20)))
}

// ============================================================
// Gauss map dimension
// ============================================================

func TestDependence(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   gaussmap.Input
		want gaussmap.Dependence
		dim  int
	}{
		{"plane", surfaceInput("u", "v", "0"), gaussmap.Dependence{}, 0},
		{"tilted plane", surfaceInput("u", "v", "2*u - 3*v + 1"), gaussmap.Dependence{}, 0},
		{"cylinder", mustLookup(t, "cylinder"), gaussmap.Dependence{U: true}, 1},
		{"cone", mustLookup(t, "cone"), gaussmap.Dependence{U: true}, 1},
		{"sphere", mustLookup(t, "sphere"), gaussmap.Dependence{U: true, V: true}, 2},
		{"saddle", saddleInput(), gaussmap.Dependence{U: true, V: true}, 2},
		{"hyperbolic paraboloid", mustLookup(t, "hyperbolic_paraboloid"), gaussmap.Dependence{U: true, V: true}, 2},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := mustField(t, tt.in).Dependence(gaussmap.DefaultDependenceSamples)
			assert.Equal(t, tt.want, d)
			assert.Equal(t, tt.dim, d.Dim())
		})
	}
}

func mustLookup(t *testing.T, name string) gaussmap.Input {
	t.Helper()
	in, err := gaussmap.Lookup(name)
	require.NoError(t, err)
	return in
}
