package gaussmap

import (
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

// ============================================================
// Orientation
// ============================================================

// pointsInward reports whether stepping a tenth of ‖p‖ along the unit
// normal n brings p closer to the origin.
func pointsInward(p, n r3.Vec) bool {
	d := r3.Norm(p)
	return r3.Norm(r3.Add(p, r3.Scale(0.1*d, n))) < d
}

// IsInward reports whether the normals over g point toward the origin more
// often than the reversed normals do. Samples that are not regular or whose
// point is not finite do not vote.
func (f *NormalField) IsInward(g Grid) bool {
	in, out := 0, 0
	for _, u := range g.U {
		for _, v := range g.V {
			s := f.sample(u, v)
			if !s.Normal.OK() {
				continue
			}
			if pointsInward(s.Point, s.Normal.Vec) {
				in++
			}
			if pointsInward(s.Point, r3.Scale(-1, s.Normal.Vec)) {
				out++
			}
		}
	}
	return in > out
}

// Outward returns f reversed if its normals point inward over g, and f
// otherwise.
func (f *NormalField) Outward(g Grid) *NormalField {
	if f.IsInward(g) {
		return f.Reversed()
	}
	return f
}

// ============================================================
// Gauss map dimension
// ============================================================

// DefaultDependenceSamples is the sample count per axis used by Dependence
// callers that have no preference.
const DefaultDependenceSamples = 50

// Closeness tolerances for comparing unit normals.
const (
	dependenceAbsTol = 1e-8
	dependenceRelTol = 1e-5
)

// Dependence records which parameters the unit normal varies with.
type Dependence struct {
	U bool `json:"u"`
	V bool `json:"v"`
}

// Dim is the dimension of the Gauss map image: 2 for a region of the
// sphere, 1 for a curve, 0 for a single point.
func (d Dependence) Dim() int {
	n := 0
	if d.U {
		n++
	}
	if d.V {
		n++
	}
	return n
}

// Dependence samples the unit normal along each parameter with the other
// held at its range midpoint. A parameter counts as a dependence when any
// pair of regular samples differs beyond the closeness tolerance.
func (f *NormalField) Dependence(samples int) Dependence {
	if samples < 2 {
		samples = 2
	}
	u, v := f.surface.URange(), f.surface.VRange()
	us := span(u, samples)
	vs := span(v, samples)

	alongU := make([]r3.Vec, 0, samples)
	for _, t := range us {
		if n := f.Evaluate(t, v.Mid()); n.OK() {
			alongU = append(alongU, n.Vec)
		}
	}
	alongV := make([]r3.Vec, 0, samples)
	for _, t := range vs {
		if n := f.Evaluate(u.Mid(), t); n.OK() {
			alongV = append(alongV, n.Vec)
		}
	}
	return Dependence{U: varies(alongU), V: varies(alongV)}
}

// varies reports whether some vector in vs is not close to the first.
func varies(vs []r3.Vec) bool {
	if len(vs) < 2 {
		return false
	}
	ref := vs[0]
	for _, w := range vs[1:] {
		if !closeVec(ref, w) {
			return true
		}
	}
	return false
}

func closeVec(a, b r3.Vec) bool {
	return scalar.EqualWithinAbsOrRel(a.X, b.X, dependenceAbsTol, dependenceRelTol) &&
		scalar.EqualWithinAbsOrRel(a.Y, b.Y, dependenceAbsTol, dependenceRelTol) &&
		scalar.EqualWithinAbsOrRel(a.Z, b.Z, dependenceAbsTol, dependenceRelTol)
}
