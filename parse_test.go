package gaussmap_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gaussmap"
)

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src  string
		want string
	}{
		{"u**2", "u^2"},
		{"u^2", "u^2"},
		{"2^3^2", "512"},
		{"-u^2", "-u^2"},
		{"u^-1", "u^-1"},
		{"(u+v)*2", "2*(u + v)"},
		{"1.5*u", "3/2*u"},
		{"1e-3", "1/1000"},
		{".5", "1/2"},
		{"2*pi", "2*pi"},
		{"ln(u)", "log(u)"},
		{"sqrt(u)", "u^(1/2)"},
		{"  u  +  v ", "u + v"},
		{"u - v - u", "-v"},
		{"u/v", "u*v^-1"},
		{"+u", "u"},
		{"--u", "u"},
		{"csch(v) + sech(u)", "csch(v) + sech(u)"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()
			e, err := gaussmap.Parse(tt.src, "u", "v")
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.String())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src string
		msg string
		pos int
	}{
		{"", "empty expression", -1},
		{"   ", "empty expression", -1},
		{"u**", "unexpected end of input", 3},
		{"(u+v", "unbalanced parentheses: expected ')'", 4},
		{"u+v)", "unbalanced parentheses: unexpected ')'", 3},
		{"w", `unknown symbol "w"`, 0},
		{"foo(u)", `unknown function "foo"`, 0},
		{"u(2)", `unknown function "u"`, 0},
		{"sin", `function "sin" requires an argument`, 0},
		{"sin()", `function "sin" requires an argument`, 4},
		{"2u", `unexpected "u"`, 1},
		{"u $ v", `unexpected "$"`, 2},
		{"u/0", "division by zero", 1},
		{"1e400", `number "1e400" out of range`, 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()
			_, err := gaussmap.Parse(tt.src, "u", "v")
			require.Error(t, err)
			assert.True(t, errors.Is(err, gaussmap.ErrSyntax))

			var pe *gaussmap.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "expr", pe.Field)
			assert.Equal(t, tt.msg, pe.Msg)
			assert.Equal(t, tt.pos, pe.Pos)
		})
	}
}

func TestParse_NoVariables(t *testing.T) {
	t.Parallel()
	e, err := gaussmap.Parse("pi - 0.01")
	require.NoError(t, err)
	assert.Equal(t, "pi - 1/100", e.String())

	_, err = gaussmap.Parse("u + 1")
	var pe *gaussmap.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, `unknown symbol "u"`, pe.Msg)
}

func TestParse_HugeIntegerExponent(t *testing.T) {
	t.Parallel()
	e, err := gaussmap.Parse("2^18446744073709551619")
	require.NoError(t, err)
	assert.Equal(t, "2^18446744073709551619", e.String())

	f, err := gaussmap.Lambdify(e)
	require.NoError(t, err)
	val, ok := f(nil)
	assert.False(t, ok)
	assert.True(t, math.IsInf(val, 1))
}

func TestParse_UnderflowLiteral(t *testing.T) {
	t.Parallel()
	e, err := gaussmap.Parse("1e-400")
	require.NoError(t, err)
	n, ok := e.(*gaussmap.Num)
	require.True(t, ok)
	assert.False(t, n.IsZero())
	assert.False(t, n.IsNegative())
}
