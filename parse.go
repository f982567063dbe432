package gaussmap

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"unicode"
)

// ============================================================
// Lexer
// ============================================================

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
	tokIllegal
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	s string
	i int
}

func (l *lexer) next() token {
	for l.i < len(l.s) && unicode.IsSpace(rune(l.s[l.i])) {
		l.i++
	}
	if l.i >= len(l.s) {
		return token{kind: tokEOF, pos: l.i}
	}
	start := l.i
	single := func(k tokenKind) token {
		l.i++
		return token{kind: k, text: l.s[start:l.i], pos: start}
	}
	switch l.s[l.i] {
	case '+':
		return single(tokPlus)
	case '-':
		return single(tokMinus)
	case '*':
		if l.i+1 < len(l.s) && l.s[l.i+1] == '*' {
			l.i += 2
			return token{kind: tokCaret, text: "**", pos: start}
		}
		return single(tokStar)
	case '/':
		return single(tokSlash)
	case '^':
		return single(tokCaret)
	case '(':
		return single(tokLParen)
	case ')':
		return single(tokRParen)
	}

	ch := rune(l.s[l.i])
	if isIdentStart(ch) {
		l.i++
		for l.i < len(l.s) && isIdentContinue(rune(l.s[l.i])) {
			l.i++
		}
		return token{kind: tokIdent, text: l.s[start:l.i], pos: start}
	}
	if ch == '.' || unicode.IsDigit(ch) {
		if end := scanNumber(l.s, l.i); end > start {
			l.i = end
			return token{kind: tokNumber, text: l.s[start:l.i], pos: start}
		}
	}
	l.i++
	return token{kind: tokIllegal, text: string(ch), pos: start}
}

// scanNumber returns the end of the numeric literal starting at i, or i if
// there is none. A '.' must be adjacent to at least one digit.
func scanNumber(s string, i int) int {
	start := i
	digits := 0
	for i < len(s) && unicode.IsDigit(rune(s[i])) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && unicode.IsDigit(rune(s[i])) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return start
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && unicode.IsDigit(rune(s[k])) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

func isIdentStart(r rune) bool {
	return r == '_' || (r < unicode.MaxASCII && unicode.IsLetter(r))
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

// ============================================================
// Parser
// ============================================================

// Grammar:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | power
//	power   = primary [ ("^" | "**") unary ]
//	primary = number | ident | ident "(" expr ")" | "(" expr ")"
//
// Exponentiation is right-associative and binds tighter than unary minus,
// so -u^2 is -(u^2) and u^-1 is accepted.
type parser struct {
	l     lexer
	cur   token
	field string
	vars  map[string]bool
}

// Parse parses src into a simplified expression whose only free symbols
// are vars. Errors are *ParseError values with Field "expr".
func Parse(src string, vars ...string) (Expr, error) {
	return parseField("expr", src, vars)
}

func parseField(field, src string, vars []string) (Expr, error) {
	p := &parser{l: lexer{s: src}, field: field, vars: map[string]bool{}}
	for _, v := range vars {
		p.vars[v] = true
	}
	p.next()
	if p.cur.kind == tokEOF {
		return nil, p.errorf(-1, "empty expression")
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	switch p.cur.kind {
	case tokEOF:
		return e, nil
	case tokRParen:
		return nil, p.errorf(p.cur.pos, "unbalanced parentheses: unexpected ')'")
	default:
		return nil, p.errorf(p.cur.pos, "unexpected %q", p.cur.text)
	}
}

func (p *parser) next() { p.cur = p.l.next() }

func (p *parser) errorf(pos int, format string, args ...interface{}) *ParseError {
	return &ParseError{Field: p.field, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// nonFinite reports a literal that has no finite value, such as 1e400 or
// 1/0. Bound parsing turns it into a *RangeError.
func (p *parser) nonFinite(pos int, value float64, msg string) *ParseError {
	return &ParseError{Field: p.field, Pos: pos, Msg: msg, nonFinite: true, value: value}
}

// quotientLimit is the value of x/0 when x is a literal, NaN otherwise.
func quotientLimit(x Expr) float64 {
	n, ok := x.(*Num)
	if !ok || n.IsZero() {
		return math.NaN()
	}
	if n.IsNegative() {
		return math.Inf(-1)
	}
	return math.Inf(1)
}

func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokPlus || p.cur.kind == tokMinus {
		neg := p.cur.kind == tokMinus
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if neg {
			right = MulOf(N(-1), right)
		}
		left = AddOf(left, right)
	}
	return left, nil
}

func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokStar || p.cur.kind == tokSlash {
		div := p.cur.kind == tokSlash
		pos := p.cur.pos
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if div {
			if isNumEqual(right, 0) {
				return nil, p.nonFinite(pos, quotientLimit(left), "division by zero")
			}
			right = PowOf(right, N(-1))
		}
		left = MulOf(left, right)
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	switch p.cur.kind {
	case tokMinus:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return MulOf(N(-1), x), nil
	case tokPlus:
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokCaret {
		return base, nil
	}
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return PowOf(base, exp), nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.cur
	switch tok.kind {
	case tokNumber:
		p.next()
		return p.number(tok)
	case tokIdent:
		p.next()
		if p.cur.kind == tokLParen {
			return p.call(tok)
		}
		if p.vars[tok.text] {
			return S(tok.text), nil
		}
		if c, ok := constants[tok.text]; ok {
			return c, nil
		}
		if _, ok := LookupFunc(tok.text); ok || tok.text == "sqrt" {
			return nil, p.errorf(tok.pos, "function %q requires an argument", tok.text)
		}
		return nil, p.errorf(tok.pos, "unknown symbol %q", tok.text)
	case tokLParen:
		p.next()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, p.errorf(p.cur.pos, "unbalanced parentheses: expected ')'")
		}
		p.next()
		return e, nil
	case tokEOF:
		return nil, p.errorf(tok.pos, "unexpected end of input")
	case tokRParen:
		return nil, p.errorf(tok.pos, "unbalanced parentheses: unexpected ')'")
	default:
		return nil, p.errorf(tok.pos, "unexpected %q", tok.text)
	}
}

// call parses the parenthesized argument of a function application. The
// current token is the opening parenthesis.
func (p *parser) call(name token) (Expr, error) {
	op, ok := LookupFunc(name.text)
	if !ok && name.text != "sqrt" {
		return nil, p.errorf(name.pos, "unknown function %q", name.text)
	}
	p.next()
	if p.cur.kind == tokRParen {
		return nil, p.errorf(p.cur.pos, "function %q requires an argument", name.text)
	}
	arg, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokRParen {
		return nil, p.errorf(p.cur.pos, "unbalanced parentheses: expected ')'")
	}
	p.next()
	if name.text == "sqrt" {
		return SqrtOf(arg), nil
	}
	return FuncOf(op, arg), nil
}

// number converts a literal to an exact rational.
func (p *parser) number(tok token) (Expr, error) {
	// Underflow is fine: the literal is kept exactly.
	if f, _ := strconv.ParseFloat(tok.text, 64); math.IsInf(f, 0) {
		return nil, p.nonFinite(tok.pos, f, fmt.Sprintf("number %q out of range", tok.text))
	}
	txt := tok.text
	if txt[0] == '.' {
		txt = "0" + txt
	}
	if txt[len(txt)-1] == '.' {
		txt += "0"
	}
	r, ok := new(big.Rat).SetString(txt)
	if !ok {
		return nil, p.errorf(tok.pos, "malformed number %q", tok.text)
	}
	return &Num{val: r}, nil
}
