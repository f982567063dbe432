package gaussmap

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultEpsilon is the norm at or below which x_u × x_v counts as zero.
const DefaultEpsilon = 1e-9

// Kind classifies the outcome of evaluating the normal at one sample.
type Kind uint8

const (
	// Regular samples carry a unit normal.
	Regular Kind = iota
	// Degenerate samples have ‖x_u × x_v‖ <= ε; the tangent plane collapses.
	Degenerate
	// Undefined samples have a partial that is not finite there, or a
	// non-finite parameter.
	Undefined
)

func (k Kind) String() string {
	switch k {
	case Regular:
		return "regular"
	case Degenerate:
		return "degenerate"
	case Undefined:
		return "undefined"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	for _, c := range []Kind{Regular, Degenerate, Undefined} {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("gaussmap: unknown normal kind %q", b)
}

// Normal is the result of evaluating the Gauss map at one sample. Vec is
// the unit normal for Regular samples and the zero vector otherwise. Raw is
// the unnormalized x_u × x_v where it could be computed.
type Normal struct {
	Vec  r3.Vec `json:"vec"`
	Raw  r3.Vec `json:"raw"`
	Kind Kind   `json:"kind"`
}

func (n Normal) OK() bool { return n.Kind == Regular }

// Option configures a NormalField.
type Option func(*NormalField)

// WithEpsilon sets the degeneracy threshold. It panics if eps is not a
// positive finite number.
func WithEpsilon(eps float64) Option {
	if !(eps > 0) || math.IsInf(eps, 1) {
		panic("gaussmap: epsilon must be positive and finite")
	}
	return func(f *NormalField) { f.eps = eps }
}

// NormalField holds the symbolic partials of a surface and their compiled
// forms. It is immutable and safe for concurrent use.
type NormalField struct {
	surface  *Surface
	partialU Vec3
	partialV Vec3
	raw      Vec3
	du, dv   VecLambda
	eps      float64
	sign     float64
}

// NewNormalField differentiates the coordinates of s and compiles the
// partials for numeric evaluation.
func NewNormalField(s *Surface, opts ...Option) (*NormalField, error) {
	if s == nil {
		return nil, ErrNilSurface
	}
	f := &NormalField{surface: s, eps: DefaultEpsilon, sign: 1}
	for _, opt := range opts {
		opt(f)
	}
	f.partialU = s.coords.Diff(VarU)
	f.partialV = s.coords.Diff(VarV)
	f.raw = f.partialU.Cross(f.partialV)

	var err error
	if f.du, err = f.partialU.Lambdify(VarU, VarV); err != nil {
		return nil, fmt.Errorf("compile x_u: %w", err)
	}
	if f.dv, err = f.partialV.Lambdify(VarU, VarV); err != nil {
		return nil, fmt.Errorf("compile x_v: %w", err)
	}
	return f, nil
}

func (f *NormalField) Surface() *Surface { return f.surface }
func (f *NormalField) PartialU() Vec3    { return f.partialU }
func (f *NormalField) PartialV() Vec3    { return f.partialV }
func (f *NormalField) Epsilon() float64  { return f.eps }

// Raw returns the symbolic x_u × x_v, negated if the field was reversed.
func (f *NormalField) Raw() Vec3 {
	if f.sign < 0 {
		return f.raw.Neg()
	}
	return f.raw
}

// PartialsAt evaluates x_u and x_v. ok is false if either is not finite.
func (f *NormalField) PartialsAt(u, v float64) (xu, xv r3.Vec, ok bool) {
	if !finite(u) || !finite(v) {
		return r3.Vec{}, r3.Vec{}, false
	}
	if xu, ok = f.du.At(u, v); !ok {
		return r3.Vec{}, r3.Vec{}, false
	}
	if xv, ok = f.dv.At(u, v); !ok {
		return r3.Vec{}, r3.Vec{}, false
	}
	return xu, xv, true
}

// Evaluate returns the unit normal at (u, v). Samples outside the parameter
// ranges are evaluated like any other.
func (f *NormalField) Evaluate(u, v float64) Normal {
	xu, xv, ok := f.PartialsAt(u, v)
	if !ok {
		return Normal{Kind: Undefined}
	}
	raw := r3.Scale(f.sign, r3.Cross(xu, xv))
	norm := r3.Norm(raw)
	switch {
	case !finite(norm):
		return Normal{Kind: Undefined}
	case norm <= f.eps:
		return Normal{Raw: raw, Kind: Degenerate}
	}
	return Normal{Vec: r3.Scale(1/norm, raw), Raw: raw, Kind: Regular}
}

// Reversed returns a field whose normals point the opposite way.
func (f *NormalField) Reversed() *NormalField {
	g := *f
	g.sign = -f.sign
	return &g
}
