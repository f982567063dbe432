package gaussmap

import "math"

// ============================================================
// Numeric evaluation
// ============================================================

// Lambda is a compiled float64 evaluator. args are bound positionally to the
// variable names given to Lambdify. The boolean is false when any
// intermediate result is NaN or infinite; the float is then that first
// non-finite intermediate. A Lambda holds no mutable state
// and may be called from many goroutines.
type Lambda func(args []float64) (float64, bool)

// Lambdify compiles e into a Lambda over vars. Every free symbol of e must
// appear in vars, otherwise the error wraps ErrUnboundSymbol.
func Lambdify(e Expr, vars ...string) (Lambda, error) {
	return e.compile(vars)
}

func compileAll(es []Expr, vars []string) ([]Lambda, error) {
	fs := make([]Lambda, len(es))
	for i, e := range es {
		f, err := e.compile(vars)
		if err != nil {
			return nil, err
		}
		fs[i] = f
	}
	return fs, nil
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
