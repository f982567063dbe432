package gaussmap

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a column of three symbolic components.
type Vec3 [3]Expr

// Cross returns a × b with each component simplified.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		AddOf(MulOf(a[1], b[2]), MulOf(N(-1), a[2], b[1])),
		AddOf(MulOf(a[2], b[0]), MulOf(N(-1), a[0], b[2])),
		AddOf(MulOf(a[0], b[1]), MulOf(N(-1), a[1], b[0])),
	}
}

func (a Vec3) Dot(b Vec3) Expr {
	return AddOf(MulOf(a[0], b[0]), MulOf(a[1], b[1]), MulOf(a[2], b[2]))
}

// Diff differentiates every component with respect to varName.
func (a Vec3) Diff(varName string) Vec3 {
	return Vec3{Diff(a[0], varName), Diff(a[1], varName), Diff(a[2], varName)}
}

func (a Vec3) Neg() Vec3 {
	return Vec3{MulOf(N(-1), a[0]), MulOf(N(-1), a[1]), MulOf(N(-1), a[2])}
}

func (a Vec3) Equal(b Vec3) bool {
	return a[0].Equal(b[0]) && a[1].Equal(b[1]) && a[2].Equal(b[2])
}

func (a Vec3) String() string {
	return "(" + a[0].String() + ", " + a[1].String() + ", " + a[2].String() + ")"
}

func (a Vec3) LaTeX() string {
	parts := []string{a[0].LaTeX(), a[1].LaTeX(), a[2].LaTeX()}
	return "\\begin{pmatrix}" + strings.Join(parts, " \\\\ ") + "\\end{pmatrix}"
}

// VecLambda evaluates a Vec3 numerically.
type VecLambda [3]Lambda

// Lambdify compiles all three components over vars.
func (a Vec3) Lambdify(vars ...string) (VecLambda, error) {
	var out VecLambda
	for i, e := range a {
		f, err := Lambdify(e, vars...)
		if err != nil {
			return VecLambda{}, err
		}
		out[i] = f
	}
	return out, nil
}

// At evaluates the three components. ok is false if any is not finite.
func (l VecLambda) At(args ...float64) (r3.Vec, bool) {
	x, ok := l[0](args)
	if !ok {
		return r3.Vec{}, false
	}
	y, ok := l[1](args)
	if !ok {
		return r3.Vec{}, false
	}
	z, ok := l[2](args)
	if !ok {
		return r3.Vec{}, false
	}
	return r3.Vec{X: x, Y: y, Z: z}, true
}
