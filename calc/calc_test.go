package calc

import (
	"testing"

	"github.com/dhamidi/comb"
	"github.com/dhamidi/comb/lex"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1", "1"},
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"(1 - 2) * 3", "((1 - 2) * 3)"},
		{"--x", "(-(-x))"},
		{"-a * b", "((-a) * b)"},
		{"max(1, y % 2, abs(-3))", "max(1, (y % 2), abs((-3)))"},
		{"f()", "f()"},
		{"2.50 / z", "(2.5 / z)"},
	}
	for _, tt := range tests {
		e, err := Parse(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, e.String(), tt.input)
	}
}

func TestSpans(t *testing.T) {
	e, err := Parse("12 +  -foo")
	require.NoError(t, err)
	b := e.(*Binary)
	assert.Equal(t, comb.Span{Start: 0, End: 10}, b.Span())
	assert.Equal(t, comb.Span{Start: 0, End: 2}, b.X.Span())
	assert.Equal(t, comb.Span{Start: 6, End: 10}, b.Y.Span())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("1 +")
	assert.EqualError(t, err, "3..3: expected expression, found end of input")

	_, err = Parse("1 2")
	require.Error(t, err)
	errs := err.(comb.ErrorList[lex.Token])
	require.Len(t, errs, 1)
	assert.Equal(t, comb.Span{Start: 2, End: 3}, errs[0].Span)

	_, err = Parse("1 @ 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `found ERROR "@"`)
}

func TestParseStatement(t *testing.T) {
	tests := []struct {
		src  string
		name string
		expr string
	}{
		{"rate = 2 * x", "rate", "(2 * x)"},
		{"x + 1", "", "(x + 1)"},
		{"x", "", "x"},
		{"y=(1)", "y", "1"},
	}
	for _, tt := range tests {
		b, ok, errs := ParseStatement(tt.src)
		require.True(t, ok, tt.src)
		assert.Empty(t, errs, tt.src)
		assert.Equal(t, tt.name, b.Name, tt.src)
		assert.Equal(t, tt.expr, b.Expr.String(), tt.src)
	}

	_, ok, errs := ParseStatement("1 = 2")
	assert.False(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, comb.Span{Start: 2, End: 3}, errs[0].Span)
	assert.Contains(t, errs[0].Error(), `found Punct "="`)
}

func TestRecoverGroup(t *testing.T) {
	e, ok, errs := ParseRecovery("(1 + ) * 2")
	require.True(t, ok)
	assert.Equal(t, "(<invalid> * 2)", e.String())
	require.Len(t, errs, 1)
	assert.Equal(t, comb.Span{Start: 5, End: 6}, errs[0].Span)
	assert.Equal(t, `5..6: expected expression, found Punct ")"`, errs[0].Error())

	inv := e.(*Binary).X.(*Invalid)
	assert.Equal(t, comb.Span{Start: 0, End: 6}, inv.Span())
}

func TestRecoverCall(t *testing.T) {
	e, ok, errs := ParseRecovery("max(1, ) + min(2, (3 *), 4)")
	require.True(t, ok)
	assert.Equal(t, "(<invalid> + min(2, <invalid>, 4))", e.String())
	assert.Len(t, errs, 2)
}

func TestWithoutRecovery(t *testing.T) {
	_, ok, errs := ParseRecovery("(1 + ) * 2", WithoutRecovery())
	assert.False(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, comb.Span{Start: 5, End: 6}, errs[0].Span)
}

func TestUnclosedGroup(t *testing.T) {
	_, ok, errs := ParseRecovery("(1 + 2")
	assert.False(t, ok)
	require.NotEmpty(t, errs)
	assert.Equal(t, comb.ReasonUnclosed, errs[0].Reason)
}

func TestEval(t *testing.T) {
	env := Env{"x": decimal.NewFromInt(4), "y": decimal.RequireFromString("0.5")}
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
		{"x / 8", "0.5"},
		{"-x + y", "-3.5"},
		{"7 % 4", "3"},
		{"max(1, x, 3) - min(y, 2)", "3.5"},
		{"abs(-2.25)", "2.25"},
		{"round(2.345, 2)", "2.35"},
		{"0.1 + 0.2", "0.3"},
	}
	for _, tt := range tests {
		e, err := Parse(tt.input)
		require.NoError(t, err, tt.input)
		got, err := Eval(e, env)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got.String(), tt.input)
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 / (x - x)", "5..10: division by zero"},
		{"1 % 0", "4..5: division by zero"},
		{"2 * nope", `4..8: unknown variable "nope"`},
		{"sqrt(2)", `0..7: unknown function "sqrt"`},
		{"abs(1, 2)", "0..9: wrong number of arguments to abs: 2"},
	}
	env := Env{"x": decimal.NewFromInt(1)}
	for _, tt := range tests {
		e, err := Parse(tt.input)
		require.NoError(t, err, tt.input)
		_, err = Eval(e, env)
		assert.EqualError(t, err, tt.want, tt.input)
	}

	e, _, _ := ParseRecovery("(1 +) + 1")
	_, err := Eval(e, nil)
	assert.EqualError(t, err, "0..5: cannot evaluate invalid expression")
}

func TestWalk(t *testing.T) {
	e, err := Parse("a + f(b, -c)")
	require.NoError(t, err)
	var vars []string
	Walk(e, func(e Expr) bool {
		if v, ok := e.(*Var); ok {
			vars = append(vars, v.Name)
		}
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, vars)
}
