package gaussmap

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"
)

// Parameter names of every surface.
const (
	VarU = "u"
	VarV = "v"
)

// DefaultBoundLimit is the magnitude bounds are clamped to.
const DefaultBoundLimit = 100.0

// Input is the textual description of a surface.
type Input struct {
	X    string `yaml:"x" json:"x"`
	Y    string `yaml:"y" json:"y"`
	Z    string `yaml:"z" json:"z"`
	UMin string `yaml:"u_min" json:"u_min"`
	UMax string `yaml:"u_max" json:"u_max"`
	VMin string `yaml:"v_min" json:"v_min"`
	VMax string `yaml:"v_max" json:"v_max"`
}

// IsZero reports whether no field is set.
func (in Input) IsZero() bool { return in == Input{} }

// Range is a closed parameter interval with Min < Max.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) Contains(t float64) bool { return t >= r.Min && t <= r.Max }
func (r Range) Mid() float64            { return r.Min + (r.Max-r.Min)/2 }
func (r Range) Width() float64          { return r.Max - r.Min }

func (r Range) String() string {
	return "[" + strconv.FormatFloat(r.Min, 'g', -1, 64) + ", " + strconv.FormatFloat(r.Max, 'g', -1, 64) + "]"
}

// Surface is a validated parameterization x(u, v) over URange × VRange.
type Surface struct {
	coords   Vec3
	u, v     Range
	warnings []string
	point    VecLambda
}

// Coords returns the coordinate expressions (x, y, z).
func (s *Surface) Coords() Vec3     { return s.coords }
func (s *Surface) URange() Range    { return s.u }
func (s *Surface) VRange() Range    { return s.v }
func (s *Surface) Contains(u, v float64) bool {
	return s.u.Contains(u) && s.v.Contains(v)
}

// Warnings lists the adjustments made while parsing, such as clamped bounds.
func (s *Surface) Warnings() []string { return append([]string(nil), s.warnings...) }

// Point evaluates x(u, v). ok is false if any coordinate is not finite.
func (s *Surface) Point(u, v float64) (r3.Vec, bool) {
	return s.point.At(u, v)
}

func (s *Surface) String() string {
	return fmt.Sprintf("x(u, v) = %s, u in %s, v in %s", s.coords, s.u, s.v)
}

// NewSurface builds a surface from expressions. Coordinates may reference
// only u and v; ranges must be finite with Min < Max.
func NewSurface(coords Vec3, u, v Range) (*Surface, error) {
	for i, c := range coords {
		if c == nil {
			return nil, &ParseError{Field: coordFields[i], Pos: -1, Msg: "empty expression"}
		}
		for name := range FreeSymbols(c) {
			if name != VarU && name != VarV {
				return nil, &ParseError{Field: coordFields[i], Pos: -1, Msg: fmt.Sprintf("unknown symbol %q", name)}
			}
		}
	}
	if err := checkRange("u", u); err != nil {
		return nil, err
	}
	if err := checkRange("v", v); err != nil {
		return nil, err
	}
	point, err := coords.Lambdify(VarU, VarV)
	if err != nil {
		return nil, err
	}
	return &Surface{coords: coords, u: u, v: v, point: point}, nil
}

var coordFields = [3]string{"x", "y", "z"}

func checkRange(name string, r Range) error {
	for _, b := range []struct {
		field string
		val   float64
	}{{name + "_min", r.Min}, {name + "_max", r.Max}} {
		if math.IsNaN(b.val) || math.IsInf(b.val, 0) {
			return &RangeError{Field: b.field, Value: b.val, Msg: "bound is not a finite number"}
		}
	}
	if r.Min >= r.Max {
		return &RangeError{Field: name + "_max", Value: r.Max, Msg: fmt.Sprintf("must be greater than %s_min = %g", name, r.Min)}
	}
	return nil
}

// ParseOption configures ParseSurface.
type ParseOption func(*parseOptions)

type parseOptions struct {
	boundLimit float64
}

// WithBoundLimit sets the magnitude bounds are clamped to. It panics if
// limit is not a positive finite number.
func WithBoundLimit(limit float64) ParseOption {
	if !(limit > 0) || math.IsInf(limit, 1) {
		panic("gaussmap: bound limit must be positive and finite")
	}
	return func(o *parseOptions) { o.boundLimit = limit }
}

// ParseSurface validates in and returns the surface it describes.
// Coordinates are checked in the order x, y, z, then the bounds u_min,
// u_max, v_min, v_max. Bounds may use numbers, pi, e and the function
// table but no variables. Bounds beyond the limit are clamped and a warning
// is recorded; the min < max check applies to the clamped values.
func ParseSurface(in Input, opts ...ParseOption) (*Surface, error) {
	o := parseOptions{boundLimit: DefaultBoundLimit}
	for _, opt := range opts {
		opt(&o)
	}

	var coords Vec3
	for i, src := range [3]string{in.X, in.Y, in.Z} {
		e, err := parseField(coordFields[i], src, []string{VarU, VarV})
		if err != nil {
			return nil, err
		}
		coords[i] = e
	}

	var warnings []string
	var bounds [4]float64
	fields := [4]string{"u_min", "u_max", "v_min", "v_max"}
	for i, src := range [4]string{in.UMin, in.UMax, in.VMin, in.VMax} {
		b, err := parseBound(fields[i], src)
		if err != nil {
			return nil, err
		}
		if c := clamp(b, o.boundLimit); c != b {
			warnings = append(warnings, fmt.Sprintf("%s too large, truncated to %g", fields[i], c))
			b = c
		}
		bounds[i] = b
	}

	s, err := NewSurface(coords, Range{bounds[0], bounds[1]}, Range{bounds[2], bounds[3]})
	if err != nil {
		return nil, err
	}
	s.warnings = warnings
	return s, nil
}

// parseBound reduces a variable-free expression to a finite float64.
func parseBound(field, src string) (float64, error) {
	e, err := parseField(field, src, nil)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) && pe.nonFinite {
			return 0, &RangeError{Field: field, Value: pe.value, Msg: pe.Msg}
		}
		return 0, err
	}
	f, err := Lambdify(e)
	if err != nil {
		return 0, &ParseError{Field: field, Pos: -1, Msg: err.Error()}
	}
	val, ok := f(nil)
	if !ok {
		return 0, &RangeError{Field: field, Value: val, Msg: "bound is not a finite number"}
	}
	return val, nil
}

func clamp(x, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, x))
}
