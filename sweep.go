package gaussmap

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// Grid is a rectangular set of parameter samples.
type Grid struct {
	U []float64 `json:"u"`
	V []float64 `json:"v"`
}

// NewGrid spaces uSteps and vSteps samples evenly over the ranges of s,
// endpoints included. A count of one samples the midpoint; zero or less
// yields an empty axis.
func NewGrid(s *Surface, uSteps, vSteps int) Grid {
	return Grid{U: span(s.URange(), uSteps), V: span(s.VRange(), vSteps)}
}

func span(r Range, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{r.Mid()}
	}
	return floats.Span(make([]float64, n), r.Min, r.Max)
}

// Len is the number of samples in the grid.
func (g Grid) Len() int { return len(g.U) * len(g.V) }

// Sample is one evaluated grid node.
type Sample struct {
	U      float64 `json:"u"`
	V      float64 `json:"v"`
	Point  r3.Vec  `json:"point"`
	Normal Normal  `json:"normal"`
}

func (f *NormalField) sample(u, v float64) Sample {
	p, ok := f.surface.Point(u, v)
	if !ok {
		return Sample{U: u, V: v, Normal: Normal{Kind: Undefined}}
	}
	return Sample{U: u, V: v, Point: p, Normal: f.Evaluate(u, v)}
}

// Sweep evaluates every node of g using at most workers goroutines (all
// CPUs if workers <= 0). Samples are returned in u-major order: index
// i*len(g.V)+j holds (g.U[i], g.V[j]). Degenerate and undefined samples are
// part of the result; only cancellation of ctx stops the sweep, in which
// case the context error is returned.
func (f *NormalField) Sweep(ctx context.Context, g Grid, workers int) ([]Sample, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	out := make([]Sample, g.Len())
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, u := range g.U {
		if gctx.Err() != nil {
			break
		}
		row := out[i*len(g.V) : (i+1)*len(g.V)]
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for j, v := range g.V {
				row[j] = f.sample(u, v)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// WithinRadius keeps the regular samples whose point lies strictly inside
// the ball of radius r about the origin.
func WithinRadius(samples []Sample, r float64) []Sample {
	var out []Sample
	for _, s := range samples {
		if s.Normal.OK() && r3.Norm(s.Point) < r {
			out = append(out, s)
		}
	}
	return out
}
