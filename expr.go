// Package gaussmap computes the Gauss map of a parametric surface: the unit
// normal field of x(u, v) = (x(u, v), y(u, v), z(u, v)).
//
// Design goals:
//   - Closed expression set with exact symbolic derivatives
//   - Exact rational coefficients (math/big.Rat)
//   - Deterministic simplification and stable output
//   - float64 evaluators that are safe for concurrent use
//   - JSON, LaTeX, and tool-call APIs for diagnostics
package gaussmap

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is a node of the closed expression set: *Num, *Sym, *Const, *Add,
// *Mul, *Pow and *Func. Values are immutable once built.
type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(varName string, value Expr) Expr
	Diff(varName string) Expr
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]interface{}
	compile(vars []string) (Lambda, error)
}

// ============================================================
// Num — exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("gaussmap: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat returns the exact rational value of f. It returns nil for NaN and
// infinities, which have no rational form.
func NFloat(f float64) *Num {
	r := new(big.Rat)
	if r.SetFloat64(f) == nil {
		return nil
	}
	return &Num{val: r}
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string      { return "num" }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.String()}
}

func (n *Num) compile([]string) (Lambda, error) {
	f := n.Float64()
	ok := finite(f)
	return func([]float64) (float64, bool) { return f, ok }, nil
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("gaussmap: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

func isNumEqual(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.val.Cmp(big.NewRat(v, 1)) == 0
}

// ============================================================
// Sym — free variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym                 { return &Sym{name: name} }
func (s *Sym) Simplify() Expr            { return s }
func (s *Sym) String() string            { return s.name }
func (s *Sym) LaTeX() string             { return s.name }
func (s *Sym) Equal(other Expr) bool     { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string          { return "sym" }
func (s *Sym) Name() string              { return s.name }
func (s *Sym) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": s.name}
}
func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}
func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

func (s *Sym) compile(vars []string) (Lambda, error) {
	for i, name := range vars {
		if name == s.name {
			return func(args []float64) (float64, bool) { return args[i], true }, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnboundSymbol, s.name)
}

// ============================================================
// Const — named irrational constant
// ============================================================

type Const struct {
	name  string
	latex string
	value float64
}

var (
	Pi = &Const{name: "pi", latex: `\pi`, value: math.Pi}
	E  = &Const{name: "e", latex: "e", value: math.E}
)

// constants maps input names to the constants the parser accepts.
var constants = map[string]*Const{"pi": Pi, "e": E}

func (c *Const) Simplify() Expr        { return c }
func (c *Const) String() string        { return c.name }
func (c *Const) LaTeX() string         { return c.latex }
func (c *Const) Sub(string, Expr) Expr { return c }
func (c *Const) Diff(string) Expr      { return N(0) }
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) exprType() string      { return "const" }
func (c *Const) Float64() float64      { return c.value }
func (c *Const) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "const", "name": c.name}
}
func (c *Const) compile([]string) (Lambda, error) {
	f := c.value
	return func([]float64) (float64, bool) { return f, true }, nil
}

// ============================================================
// Add — sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums, folds the numeric part, and collects like
// terms: 2*u*v + u*v becomes 3*u*v.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}
	constant := N(0)
	coeffs := map[string]*Num{}
	rests := map[string]Expr{}
	order := []string{}
	for _, t := range flat {
		if n, ok := t.(*Num); ok {
			constant = numAdd(constant, n)
			continue
		}
		c, rest := splitCoefficient(t)
		key := rest.String()
		if _, seen := coeffs[key]; !seen {
			order = append(order, key)
			coeffs[key] = N(0)
			rests[key] = rest
		}
		coeffs[key] = numAdd(coeffs[key], c)
	}
	sort.Strings(order)
	result := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		c := coeffs[key]
		switch {
		case c.IsZero():
		case c.IsOne():
			result = append(result, rests[key])
		default:
			result = append(result, MulOf(c, rests[key]))
		}
	}
	if !constant.IsZero() {
		result = append(result, constant)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

// splitCoefficient separates the rational factor of a product from the rest.
func splitCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) > 1 {
		if c, ok := m.factors[0].(*Num); ok {
			if len(m.factors) == 2 {
				return c, m.factors[1]
			}
			return c, &Mul{factors: m.factors[1:]}
		}
	}
	return N(1), e
}

func (a *Add) String() string {
	var b strings.Builder
	for i, t := range a.terms {
		c, rest := splitCoefficient(t)
		if n, ok := t.(*Num); ok {
			c, rest = n, nil
		}
		neg := c.IsNegative()
		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case i > 0 && neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		if neg {
			c = numNeg(c)
		}
		b.WriteString(termString(c, rest))
	}
	return b.String()
}

// termString prints a non-negative coefficient times rest.
func termString(c *Num, rest Expr) string {
	if rest == nil {
		return c.String()
	}
	s := rest.String()
	if _, ok := rest.(*Add); ok {
		s = "(" + s + ")"
	}
	if c.IsOne() {
		return s
	}
	return c.String() + "*" + s
}

func (a *Add) LaTeX() string {
	var b strings.Builder
	for i, t := range a.terms {
		s := t.LaTeX()
		if i > 0 {
			if strings.HasPrefix(s, "-") {
				b.WriteString(" - ")
				s = s[1:]
			} else {
				b.WriteString(" + ")
			}
		}
		b.WriteString(s)
	}
	return b.String()
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Diff(varName string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(varName)
	}
	return AddOf(dTerms...)
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) exprType() string { return "add" }
func (a *Add) toJSON() map[string]interface{} {
	ts := make([]map[string]interface{}, len(a.terms))
	for i, t := range a.terms {
		ts[i] = t.toJSON()
	}
	return map[string]interface{}{"type": "add", "terms": ts}
}
func (a *Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }

func (a *Add) compile(vars []string) (Lambda, error) {
	fs, err := compileAll(a.terms, vars)
	if err != nil {
		return nil, err
	}
	return func(args []float64) (float64, bool) {
		acc := 0.0
		for _, f := range fs {
			x, ok := f(args)
			if !ok {
				return x, false
			}
			acc += x
		}
		return acc, finite(acc)
	}, nil
}

// ============================================================
// Mul — product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds the rational coefficient to the
// front, and merges repeated bases: u*u^2 becomes u^3.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}
	type power struct {
		base Expr
		exps []Expr
	}
	coeff := N(1)
	powers := map[string]*power{}
	order := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := base.String()
		if _, seen := powers[key]; !seen {
			order = append(order, key)
			powers[key] = &power{base: base}
		}
		powers[key].exps = append(powers[key].exps, exp)
	}
	if coeff.IsZero() {
		return N(0)
	}

	others := make([]Expr, 0, len(order))
	remerge := false
	for _, key := range order {
		p := powers[key]
		var merged Expr
		if len(p.exps) == 1 {
			merged = PowOf(p.base, p.exps[0])
		} else {
			merged = PowOf(p.base, AddOf(p.exps...))
		}
		switch v := merged.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			others = append(others, v.factors...)
			remerge = true
		default:
			others = append(others, merged)
		}
	}
	if remerge {
		return MulOf(append([]Expr{coeff}, others...)...)
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	sorted := make([]Expr, 0, len(ks)+1)
	if !coeff.IsOne() {
		sorted = append(sorted, coeff)
	}
	for i := range ks {
		sorted = append(sorted, ks[i].e)
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	return &Mul{factors: sorted}
}

func (m *Mul) String() string {
	c, rest := splitCoefficient(m)
	if c.IsNegative() {
		return "-" + termString(numNeg(c), rest)
	}
	if c.IsOne() {
		parts := make([]string, len(m.factors))
		for i, f := range m.factors {
			parts[i] = factorString(f)
		}
		return strings.Join(parts, "*")
	}
	return termString(c, rest)
}

func factorString(f Expr) string {
	if _, isAdd := f.(*Add); isAdd {
		return "(" + f.String() + ")"
	}
	return f.String()
}

func (m *Mul) LaTeX() string {
	parts := make([]string, 0, len(m.factors))
	for i, f := range m.factors {
		if i == 0 && isNumEqual(f, -1) && len(m.factors) > 1 {
			parts = append(parts, "-")
			continue
		}
		if _, isAdd := f.(*Add); isAdd {
			parts = append(parts, "\\left("+f.LaTeX()+"\\right)")
		} else {
			parts = append(parts, f.LaTeX())
		}
	}
	if len(parts) > 1 && parts[0] == "-" {
		return "-" + strings.Join(parts[1:], " ")
	}
	return strings.Join(parts, " ")
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

// Diff applies the product rule across all factors.
func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, 0, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(varName)
		if isNumEqual(dfi, 0) {
			continue
		}
		others := make([]Expr, 0, len(m.factors))
		others = append(others, dfi)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		terms = append(terms, MulOf(others...))
	}
	return AddOf(terms...)
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toJSON() map[string]interface{} {
	fs := make([]map[string]interface{}, len(m.factors))
	for i, f := range m.factors {
		fs[i] = f.toJSON()
	}
	return map[string]interface{}{"type": "mul", "factors": fs}
}
func (m *Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }

func (m *Mul) compile(vars []string) (Lambda, error) {
	fs, err := compileAll(m.factors, vars)
	if err != nil {
		return nil, err
	}
	return func(args []float64) (float64, bool) {
		acc := 1.0
		for _, f := range fs {
			x, ok := f(args)
			if !ok {
				return x, false
			}
			acc *= x
		}
		return acc, finite(acc)
	}, nil
}

// ============================================================
// Pow — base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

// SqrtOf is base^(1/2).
func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	if en, ok := exp.(*Num); ok && en.IsZero() {
		return N(1)
	}
	if en, ok := exp.(*Num); ok && en.IsOne() {
		return base
	}

	// Handle 0^exp carefully.
	if bn, ok := base.(*Num); ok && bn.IsZero() {
		if en, ok2 := exp.(*Num); ok2 && en.IsNegative() {
			// 0^negative is division by zero; keep it for the evaluator to reject.
			return &Pow{base: base, exp: exp}
		}
		if _, ok2 := exp.(*Num); ok2 {
			return N(0)
		}
		return &Pow{base: base, exp: exp}
	}

	if bn, ok := base.(*Num); ok && bn.IsOne() {
		return N(1)
	}
	if bn, ok := base.(*Num); ok {
		if en, ok2 := exp.(*Num); ok2 && en.IsInteger() && en.val.Num().IsInt64() {
			e := en.val.Num().Int64()
			if e >= -20 && e <= 20 {
				result := N(1)
				for i := int64(0); i < abs64(e); i++ {
					result = numMul(result, bn)
				}
				if e < 0 {
					return numRecip(result)
				}
				return result
			}
		}
	}
	// Only integer exponents nest or distribute: (u^2)^(1/2) is |u|, not u.
	if en, ok := exp.(*Num); ok && en.IsInteger() {
		switch b := base.(type) {
		case *Pow:
			return PowOf(b.base, MulOf(b.exp, en))
		case *Mul:
			fs := make([]Expr, len(b.factors))
			for i, f := range b.factors {
				fs[i] = PowOf(f, en)
			}
			return MulOf(fs...)
		}
	}
	return &Pow{base: base, exp: exp}
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func (p *Pow) String() string {
	return powOperand(p.base, true) + "^" + powOperand(p.exp, false)
}

// powOperand parenthesizes anything that would not re-parse as a single
// operand of ^. Negative integer exponents are fine: u^-1.
func powOperand(e Expr, isBase bool) string {
	switch v := e.(type) {
	case *Sym, *Const, *Func:
		return e.String()
	case *Num:
		if v.IsInteger() && (!isBase || !v.IsNegative()) {
			return e.String()
		}
	}
	return "(" + e.String() + ")"
}

func (p *Pow) LaTeX() string {
	if en, ok := p.exp.(*Num); ok && en.Equal(F(1, 2)) {
		return "\\sqrt{" + p.base.LaTeX() + "}"
	}
	baseStr := p.base.LaTeX()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "\\left(" + baseStr + "\\right)"
	}
	return baseStr + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

// Diff uses the power rule when the exponent is constant, the exponential
// rule when the base is, and d(b^e) = b^e * (e' log(b) + e b'/b) otherwise.
func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	switch {
	case isNumEqual(dv, 0):
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), du)
	case isNumEqual(du, 0):
		return MulOf(p, LogOf(p.base), dv)
	}
	logTerm := MulOf(dv, LogOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(p, AddOf(logTerm, divTerm))
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

func (p *Pow) compile(vars []string) (Lambda, error) {
	base, err := p.base.compile(vars)
	if err != nil {
		return nil, err
	}
	if isNumEqual(p.exp, 2) {
		return func(args []float64) (float64, bool) {
			b, ok := base(args)
			if !ok {
				return b, false
			}
			r := b * b
			return r, finite(r)
		}, nil
	}
	exp, err := p.exp.compile(vars)
	if err != nil {
		return nil, err
	}
	return func(args []float64) (float64, bool) {
		b, ok := base(args)
		if !ok {
			return b, false
		}
		e, ok := exp(args)
		if !ok {
			return e, false
		}
		r := math.Pow(b, e)
		return r, finite(r)
	}, nil
}

// ============================================================
// Free Symbols
// ============================================================

// FreeSymbols returns the set of variable names referenced by e.
func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

// ============================================================
// Top-level convenience functions
// ============================================================

func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value).Simplify()
}

// Diff returns the exact partial derivative of expr with respect to varName.
func Diff(expr Expr, varName string) Expr {
	return expr.Diff(varName).Simplify()
}
