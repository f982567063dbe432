package gaussmap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gaussmap"
)

func TestNewGrid(t *testing.T) {
	t.Parallel()
	s := mustSurface(t, gaussmap.Input{X: "u", Y: "v", Z: "0", UMin: "-1", UMax: "1", VMin: "0", VMax: "2"})

	g := gaussmap.NewGrid(s, 3, 5)
	assert.Equal(t, []float64{-1, 0, 1}, g.U)
	assert.Equal(t, []float64{0, 0.5, 1, 1.5, 2}, g.V)
	assert.Equal(t, 15, g.Len())

	g = gaussmap.NewGrid(s, 1, 0)
	assert.Equal(t, []float64{0}, g.U)
	assert.Empty(t, g.V)
	assert.Equal(t, 0, g.Len())
}

func TestSweep_Order(t *testing.T) {
	t.Parallel()
	f := mustField(t, saddleInput())
	g := gaussmap.NewGrid(f.Surface(), 7, 4)

	samples, err := f.Sweep(context.Background(), g, 3)
	require.NoError(t, err)
	require.Len(t, samples, g.Len())
	for i, uu := range g.U {
		for j, vv := range g.V {
			s := samples[i*len(g.V)+j]
			assert.Equal(t, uu, s.U)
			assert.Equal(t, vv, s.V)
			assert.Equal(t, f.Evaluate(uu, vv), s.Normal)
		}
	}
}

func TestSweep_WorkerCountDoesNotChangeResult(t *testing.T) {
	t.Parallel()
	in, err := gaussmap.Lookup("ring_torus")
	require.NoError(t, err)
	f := mustField(t, in)
	g := gaussmap.NewGrid(f.Surface(), 16, 16)

	one, err := f.Sweep(context.Background(), g, 1)
	require.NoError(t, err)
	many, err := f.Sweep(context.Background(), g, 8)
	require.NoError(t, err)
	all, err := f.Sweep(context.Background(), g, 0)
	require.NoError(t, err)
	assert.Equal(t, one, many)
	assert.Equal(t, one, all)
}

func TestSweep_KeepsDegenerateSamples(t *testing.T) {
	t.Parallel()
	f := mustField(t, gaussmap.Input{
		X: "u*cos(v)", Y: "u*sin(v)", Z: "u",
		UMin: "0", UMax: "1", VMin: "0", VMax: "2*pi",
	})
	g := gaussmap.NewGrid(f.Surface(), 3, 3)
	samples, err := f.Sweep(context.Background(), g, 2)
	require.NoError(t, err)
	require.Len(t, samples, 9)
	for j := range g.V {
		assert.Equal(t, gaussmap.Degenerate, samples[j].Normal.Kind)
	}
	assert.Equal(t, gaussmap.Regular, samples[8].Normal.Kind)
}

func TestSweep_Canceled(t *testing.T) {
	t.Parallel()
	f := mustField(t, saddleInput())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	samples, err := f.Sweep(ctx, gaussmap.NewGrid(f.Surface(), 10, 10), 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, samples)
}

func TestWithinRadius(t *testing.T) {
	t.Parallel()
	in, err := gaussmap.Lookup("sphere")
	require.NoError(t, err)
	f := mustField(t, in)
	samples, err := f.Sweep(context.Background(), gaussmap.NewGrid(f.Surface(), 5, 5), 0)
	require.NoError(t, err)

	assert.Len(t, gaussmap.WithinRadius(samples, 1.5), len(samples))
	assert.Empty(t, gaussmap.WithinRadius(samples, 0.5))

	samples[0].Normal = gaussmap.Normal{Kind: gaussmap.Undefined}
	assert.Len(t, gaussmap.WithinRadius(samples, 1.5), len(samples)-1)
}
