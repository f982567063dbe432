package gaussmap_test

import (
	"encoding/json"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/njchilds90/gaussmap"
)

func mustField(t *testing.T, in gaussmap.Input, opts ...gaussmap.Option) *gaussmap.NormalField {
	t.Helper()
	f, err := gaussmap.NewNormalField(mustSurface(t, in), opts...)
	require.NoError(t, err)
	return f
}

func surfaceInput(x, y, z string) gaussmap.Input {
	return gaussmap.Input{X: x, Y: y, Z: z, UMin: "-1", UMax: "1", VMin: "-1", VMax: "1"}
}

// ============================================================
// Symbolic partials
// ============================================================

func TestNormalField_Partials(t *testing.T) {
	t.Parallel()
	f := mustField(t, saddleInput())
	assert.Equal(t, "(1, 0, 2*u)", f.PartialU().String())
	assert.Equal(t, "(0, 1, -2*v)", f.PartialV().String())
	assert.Equal(t, "(-2*u, 2*v, 1)", f.Raw().String())
	assert.Equal(t, gaussmap.DefaultEpsilon, f.Epsilon())
}

func TestNormalField_CoordinateDerivatives(t *testing.T) {
	t.Parallel()
	f := mustField(t, surfaceInput("u*cos(v)", "u*sin(v)", "u"))
	assert.True(t, f.PartialU()[0].Equal(gaussmap.CosOf(v)))
	want := gaussmap.MulOf(gaussmap.N(-1), u, gaussmap.SinOf(v))
	assert.True(t, f.PartialV()[0].Equal(want), f.PartialV()[0].String())
}

// ============================================================
// Evaluate
// ============================================================

func TestEvaluate_HyperbolicParaboloid(t *testing.T) {
	t.Parallel()
	f := mustField(t, saddleInput())

	xu, xv, ok := f.PartialsAt(1, 1)
	require.True(t, ok)
	assert.Equal(t, r3.Vec{X: 1, Y: 0, Z: 2}, xu)
	assert.Equal(t, r3.Vec{X: 0, Y: 1, Z: -2}, xv)

	n := f.Evaluate(1, 1)
	require.Equal(t, gaussmap.Regular, n.Kind)
	assert.Equal(t, r3.Vec{X: -2, Y: 2, Z: 1}, n.Raw)
	assert.InDelta(t, -2.0/3, n.Vec.X, 1e-12)
	assert.InDelta(t, 2.0/3, n.Vec.Y, 1e-12)
	assert.InDelta(t, 1.0/3, n.Vec.Z, 1e-12)
}

func TestEvaluate_MonkeySaddleOrigin(t *testing.T) {
	t.Parallel()
	f := mustField(t, surfaceInput("u", "v", "u^3 - 3*u*v^2"))
	n := f.Evaluate(0, 0)
	require.True(t, n.OK())
	assert.Equal(t, r3.Vec{X: 0, Y: 0, Z: 1}, n.Vec)
}

func TestEvaluate_ConeApexIsDegenerate(t *testing.T) {
	t.Parallel()
	f := mustField(t, gaussmap.Input{
		X: "u*cos(v)", Y: "u*sin(v)", Z: "u",
		UMin: "0", UMax: "1", VMin: "0", VMax: "2*pi",
	})
	for _, vv := range []float64{0, 1, 2.5, 2 * math.Pi} {
		n := f.Evaluate(0, vv)
		assert.Equal(t, gaussmap.Degenerate, n.Kind)
		assert.Equal(t, r3.Vec{}, n.Vec)
		assert.False(t, n.OK())
	}
	assert.Equal(t, gaussmap.Regular, f.Evaluate(0.5, 1).Kind)
}

func TestEvaluate_Undefined(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		z    string
		u, v float64
	}{
		{"pole of derivative", "log(u)", 0, 0.5},
		{"negative root", "sqrt(u)", -1, 0},
		{"nan sample", "u*v", math.NaN(), 0},
		{"infinite sample", "u*v", 0, math.Inf(-1)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := mustField(t, surfaceInput("u", "v", tt.z))
			n := f.Evaluate(tt.u, tt.v)
			assert.Equal(t, gaussmap.Undefined, n.Kind)
			assert.Equal(t, r3.Vec{}, n.Vec)
		})
	}
}

func TestEvaluate_UnitLengthOverCatalog(t *testing.T) {
	t.Parallel()
	for _, name := range gaussmap.CatalogNames() {
		in, err := gaussmap.Lookup(name)
		require.NoError(t, err)
		f := mustField(t, in)
		g := gaussmap.NewGrid(f.Surface(), 15, 15)
		for _, uu := range g.U {
			for _, vv := range g.V {
				n := f.Evaluate(uu, vv)
				if !n.OK() {
					continue
				}
				assert.InDelta(t, 1, r3.Norm(n.Vec), 1e-9, "%s at (%g, %g)", name, uu, vv)
			}
		}
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	t.Parallel()
	f := mustField(t, gaussmap.Input{
		X: "(3 + cos(u))*cos(v)", Y: "(3 + cos(u))*sin(v)", Z: "sin(u)",
		UMin: "0", UMax: "2*pi", VMin: "0", VMax: "2*pi",
	})
	a := f.Evaluate(0.3, 1.7)
	b := f.Evaluate(0.3, 1.7)
	assert.Equal(t, math.Float64bits(a.Vec.X), math.Float64bits(b.Vec.X))
	assert.Equal(t, math.Float64bits(a.Vec.Y), math.Float64bits(b.Vec.Y))
	assert.Equal(t, math.Float64bits(a.Vec.Z), math.Float64bits(b.Vec.Z))
}

func TestEvaluate_Concurrent(t *testing.T) {
	t.Parallel()
	f := mustField(t, saddleInput())
	want := f.Evaluate(0.25, -0.5)

	var wg sync.WaitGroup
	results := make([]gaussmap.Normal, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = f.Evaluate(0.25, -0.5)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

// ============================================================
// Options and orientation
// ============================================================

func TestWithEpsilon(t *testing.T) {
	t.Parallel()
	f := mustField(t, saddleInput(), gaussmap.WithEpsilon(10))
	assert.Equal(t, 10.0, f.Epsilon())
	n := f.Evaluate(1, 1)
	assert.Equal(t, gaussmap.Degenerate, n.Kind)
	assert.Equal(t, r3.Vec{X: -2, Y: 2, Z: 1}, n.Raw)

	assert.Panics(t, func() { gaussmap.WithEpsilon(0) })
	assert.Panics(t, func() { gaussmap.WithEpsilon(-1) })
	assert.Panics(t, func() { gaussmap.WithEpsilon(math.NaN()) })
}

func TestNewNormalField_NilSurface(t *testing.T) {
	t.Parallel()
	_, err := gaussmap.NewNormalField(nil)
	assert.ErrorIs(t, err, gaussmap.ErrNilSurface)
}

func TestReversed(t *testing.T) {
	t.Parallel()
	f := mustField(t, saddleInput())
	r := f.Reversed()
	assert.Equal(t, r3.Scale(-1, f.Evaluate(0.5, 0.5).Vec), r.Evaluate(0.5, 0.5).Vec)
	assert.Equal(t, "(2*u, -2*v, -1)", r.Raw().String())
	assert.Equal(t, f.Raw().String(), r.Reversed().Raw().String())
	// The original is untouched.
	assert.Equal(t, "(-2*u, 2*v, 1)", f.Raw().String())
}

func TestKind_JSON(t *testing.T) {
	t.Parallel()
	b, err := json.Marshal(gaussmap.Normal{Kind: gaussmap.Degenerate})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"kind":"degenerate"`)

	var n gaussmap.Normal
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"undefined"}`), &n))
	assert.Equal(t, gaussmap.Undefined, n.Kind)
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"odd"}`), &n))
	assert.Equal(t, "Kind(9)", gaussmap.Kind(9).String())
}
