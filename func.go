package gaussmap

import (
	"fmt"
	"math"
)

// ============================================================
// Func — closed table of named functions
// ============================================================

// FuncOp identifies one entry of the function table.
type FuncOp int

const (
	OpSin FuncOp = iota
	OpCos
	OpTan
	OpCsc
	OpSec
	OpCot
	OpSinh
	OpCosh
	OpTanh
	OpCsch
	OpSech
	OpCoth
	OpExp
	OpLog
	OpAsin
	OpAcos
	OpAtan
	numFuncOps
)

type funcSpec struct {
	name  string
	latex string
	eval  func(float64) float64
}

var funcTable = [numFuncOps]funcSpec{
	OpSin:  {"sin", `\sin`, math.Sin},
	OpCos:  {"cos", `\cos`, math.Cos},
	OpTan:  {"tan", `\tan`, math.Tan},
	OpCsc:  {"csc", `\csc`, func(x float64) float64 { return 1 / math.Sin(x) }},
	OpSec:  {"sec", `\sec`, func(x float64) float64 { return 1 / math.Cos(x) }},
	OpCot:  {"cot", `\cot`, func(x float64) float64 { return 1 / math.Tan(x) }},
	OpSinh: {"sinh", `\sinh`, math.Sinh},
	OpCosh: {"cosh", `\cosh`, math.Cosh},
	OpTanh: {"tanh", `\tanh`, math.Tanh},
	OpCsch: {"csch", `\operatorname{csch}`, func(x float64) float64 { return 1 / math.Sinh(x) }},
	OpSech: {"sech", `\operatorname{sech}`, func(x float64) float64 { return 1 / math.Cosh(x) }},
	OpCoth: {"coth", `\coth`, func(x float64) float64 { return 1 / math.Tanh(x) }},
	OpExp:  {"exp", `\exp`, math.Exp},
	OpLog:  {"log", `\log`, math.Log},
	OpAsin: {"asin", `\arcsin`, math.Asin},
	OpAcos: {"acos", `\arccos`, math.Acos},
	OpAtan: {"atan", `\arctan`, math.Atan},
}

func (op FuncOp) String() string {
	if op < 0 || op >= numFuncOps {
		return fmt.Sprintf("FuncOp(%d)", int(op))
	}
	return funcTable[op].name
}

// LookupFunc resolves a function name. "ln" is accepted for log.
func LookupFunc(name string) (FuncOp, bool) {
	if name == "ln" {
		return OpLog, true
	}
	for op := FuncOp(0); op < numFuncOps; op++ {
		if funcTable[op].name == name {
			return op, true
		}
	}
	return 0, false
}

type Func struct {
	op  FuncOp
	arg Expr
}

// FuncOf applies op to arg and simplifies.
func FuncOf(op FuncOp, arg Expr) Expr { return (&Func{op: op, arg: arg}).Simplify() }

func SinOf(arg Expr) Expr  { return FuncOf(OpSin, arg) }
func CosOf(arg Expr) Expr  { return FuncOf(OpCos, arg) }
func TanOf(arg Expr) Expr  { return FuncOf(OpTan, arg) }
func CscOf(arg Expr) Expr  { return FuncOf(OpCsc, arg) }
func SecOf(arg Expr) Expr  { return FuncOf(OpSec, arg) }
func CotOf(arg Expr) Expr  { return FuncOf(OpCot, arg) }
func SinhOf(arg Expr) Expr { return FuncOf(OpSinh, arg) }
func CoshOf(arg Expr) Expr { return FuncOf(OpCosh, arg) }
func TanhOf(arg Expr) Expr { return FuncOf(OpTanh, arg) }
func CschOf(arg Expr) Expr { return FuncOf(OpCsch, arg) }
func SechOf(arg Expr) Expr { return FuncOf(OpSech, arg) }
func CothOf(arg Expr) Expr { return FuncOf(OpCoth, arg) }
func ExpOf(arg Expr) Expr  { return FuncOf(OpExp, arg) }
func LogOf(arg Expr) Expr  { return FuncOf(OpLog, arg) }
func AsinOf(arg Expr) Expr { return FuncOf(OpAsin, arg) }
func AcosOf(arg Expr) Expr { return FuncOf(OpAcos, arg) }
func AtanOf(arg Expr) Expr { return FuncOf(OpAtan, arg) }

// Simplify folds only exact special values. sin(1) stays symbolic so that
// derivatives and printed forms never pick up rounding noise.
func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	zero := isNumEqual(arg, 0)
	switch f.op {
	case OpSin, OpTan, OpSinh, OpTanh, OpAsin, OpAtan:
		if zero {
			return N(0)
		}
	case OpCos, OpSec, OpCosh, OpSech:
		if zero {
			return N(1)
		}
	case OpExp:
		if zero {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.op == OpLog {
			return inner.arg
		}
	case OpLog:
		if isNumEqual(arg, 1) {
			return N(0)
		}
		if arg.Equal(E) {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.op == OpExp {
			return inner.arg
		}
	}
	return &Func{op: f.op, arg: arg}
}

func (f *Func) String() string { return funcTable[f.op].name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	return funcTable[f.op].latex + "\\left(" + f.arg.LaTeX() + "\\right)"
}

func (f *Func) Sub(varName string, value Expr) Expr {
	return FuncOf(f.op, f.arg.Sub(varName, value))
}

// Diff applies the chain rule: d f(a) = f'(a) * da.
func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	if isNumEqual(du, 0) {
		return N(0)
	}
	return MulOf(derivative(f.op, f.arg), du)
}

// derivative returns f'(a) for every entry of the table.
func derivative(op FuncOp, a Expr) Expr {
	switch op {
	case OpSin:
		return CosOf(a)
	case OpCos:
		return MulOf(N(-1), SinOf(a))
	case OpTan:
		return AddOf(N(1), PowOf(TanOf(a), N(2)))
	case OpCsc:
		return MulOf(N(-1), CscOf(a), CotOf(a))
	case OpSec:
		return MulOf(SecOf(a), TanOf(a))
	case OpCot:
		return MulOf(N(-1), AddOf(N(1), PowOf(CotOf(a), N(2))))
	case OpSinh:
		return CoshOf(a)
	case OpCosh:
		return SinhOf(a)
	case OpTanh:
		return AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(a), N(2))))
	case OpCsch:
		return MulOf(N(-1), CschOf(a), CothOf(a))
	case OpSech:
		return MulOf(N(-1), SechOf(a), TanhOf(a))
	case OpCoth:
		return AddOf(N(1), MulOf(N(-1), PowOf(CothOf(a), N(2))))
	case OpExp:
		return ExpOf(a)
	case OpLog:
		return PowOf(a, N(-1))
	case OpAsin:
		return PowOf(AddOf(N(1), MulOf(N(-1), PowOf(a, N(2)))), F(-1, 2))
	case OpAcos:
		return MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(a, N(2)))), F(-1, 2)))
	case OpAtan:
		return PowOf(AddOf(N(1), PowOf(a, N(2))), N(-1))
	}
	panic(fmt.Sprintf("gaussmap: no derivative for %v", op))
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.op == o.op && f.arg.Equal(o.arg)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "func", "name": funcTable[f.op].name, "arg": f.arg.toJSON()}
}
func (f *Func) Op() FuncOp { return f.op }
func (f *Func) Arg() Expr  { return f.arg }

func (f *Func) compile(vars []string) (Lambda, error) {
	arg, err := f.arg.compile(vars)
	if err != nil {
		return nil, err
	}
	eval := funcTable[f.op].eval
	return func(args []float64) (float64, bool) {
		a, ok := arg(args)
		if !ok {
			return a, false
		}
		r := eval(a)
		return r, finite(r)
	}, nil
}
