package comb_test

import (
	"testing"

	"github.com/dhamidi/comb"
	"github.com/dhamidi/comb/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkipThenRetryResynchronizes(t *testing.T) {
	s := comb.FromSlice([]string{"x1", "x2", "S", "x3"})
	p := comb.RecoverWith(comb.Just("S"), comb.SkipThenRetryUntil[string]("never"))

	res := p.ParseInner(s)
	require.True(t, res.OK())
	assert.Equal(t, "S", res.Output)
	assert.Equal(t, 3, s.Offset())
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 0, res.Errors[0].At)
	assert.Equal(t, comb.Span{Start: 0, End: 1}, res.Errors[0].Err.Span)
}

func TestSkipThenRetryStopsOnSentinelMatch(t *testing.T) {
	s := comb.FromSlice([]string{"x1", "x2", "S", "x3"})
	p := comb.RecoverWith(comb.Just("S"), comb.SkipThenRetryUntil[string]("S"))

	res := p.ParseInner(s)
	require.True(t, res.OK())
	assert.Equal(t, "S", res.Output)
	assert.Equal(t, 3, s.Offset())
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 0, res.Errors[0].At)
}

func TestSkipThenRetryGivesUp(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
	}{
		{"at sentinel", []string{"x", ";", "S"}},
		{"at end of input", []string{"x", "y"}},
		{"immediately", []string{";", "S"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := comb.RecoverWith(comb.Just("S"), comb.SkipThenRetryUntil[string](";"))
			res := p.ParseInner(comb.FromSlice(tt.tokens))
			require.False(t, res.OK())
			assert.Empty(t, res.Errors)
			assert.Equal(t, 0, res.Err.At)
		})
	}
}

func TestSkipThenRetryKeepsEarlierDiagnostics(t *testing.T) {
	item := comb.RecoverWith(text.Digits(10), comb.SkipThenRetryUntil[string](';'))
	list := comb.ThenIgnore(comb.Repeated(item), comb.End[rune]())

	out, ok, errs := comb.ParseStringRecovery(list, "1x2yy3")
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2", "3"}, out)
	require.Len(t, errs, 2)
	assert.Equal(t, comb.Span{Start: 1, End: 2}, errs[0].Span)
	assert.Equal(t, comb.Span{Start: 3, End: 4}, errs[1].Span)
}

func TestNestedDelimitersBalances(t *testing.T) {
	s := comb.FromString("(())")
	fatal := comb.At(1, comb.Custom[rune](comb.Span{Start: 1, End: 2}, "broken"))
	strategy := comb.NestedDelimiters('(', ')', nil, func() int { return -1 })

	res := strategy.Recover(nil, fatal, nil, s)
	require.True(t, res.OK())
	assert.Equal(t, -1, res.Output)
	assert.Equal(t, 4, s.Offset())
	assert.Equal(t, []comb.Located[rune]{fatal}, res.Errors)
}

func TestNestedDelimitersStopsOutsideDelimiters(t *testing.T) {
	s := comb.FromString("a)")
	fatal := comb.At(0, comb.Custom[rune](comb.Span{Start: 0, End: 1}, "broken"))
	strategy := comb.NestedDelimiters('(', ')', nil, func() int { return -1 })

	res := strategy.Recover(nil, fatal, nil, s)
	assert.False(t, res.OK())
	assert.Equal(t, fatal, *res.Err)
}

func TestNestedDelimitersFailsOnNegativeBalance(t *testing.T) {
	s := comb.FromString(")x")
	fatal := comb.At(0, comb.Custom[rune](comb.Span{Start: 0, End: 1}, "broken"))
	strategy := comb.NestedDelimiters('(', ')', nil, func() int { return -1 })

	res := strategy.Recover(nil, fatal, nil, s)
	require.False(t, res.OK())
	assert.Equal(t, fatal, *res.Err)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 1, s.Offset())
}

func TestNestedDelimitersUnclosedAtEnd(t *testing.T) {
	p := comb.DelimitedBy(comb.Just('a'), '(', ')')

	_, ok, errs := comb.ParseStringRecovery(p, "(a")
	assert.False(t, ok)
	require.Len(t, errs, 2)

	unclosed := errs[0]
	assert.Equal(t, comb.ReasonUnclosed, unclosed.Reason)
	require.NotNil(t, unclosed.Delimiter)
	assert.Equal(t, comb.Span{Start: 0, End: 1}, unclosed.Delimiter.Span)
	assert.Equal(t, '(', unclosed.Delimiter.Delimiter)
	assert.True(t, unclosed.Expects(comb.TokenPattern(')')))
	assert.Nil(t, unclosed.Found)

	fatal := errs[1]
	assert.Equal(t, comb.Span{Start: 2, End: 2}, fatal.Span)
	assert.True(t, fatal.Expects(comb.TokenPattern(')')))
}

func TestNestedDelimitersForeignClose(t *testing.T) {
	inner := comb.ThenIgnore(comb.IgnoreThen(comb.Just('('), comb.Just('a')), comb.Just(')'))
	others := [][2]rune{{'[', ']'}}
	p := comb.RecoverWith(inner, comb.NestedDelimiters('(', ')', others, func() rune { return '?' }))

	s := comb.FromString("(a]b)")
	out, ok, errs := comb.ParseRecovery(p, s)
	require.True(t, ok)
	assert.Equal(t, '?', out)
	assert.Equal(t, 5, s.Offset())
	require.Len(t, errs, 1)
	assert.Equal(t, comb.ReasonUnclosed, errs[0].Reason)
	require.NotNil(t, errs[0].Found)
	assert.Equal(t, ']', *errs[0].Found)
	assert.Equal(t, comb.Span{Start: 2, End: 3}, errs[0].Span)
}

func TestNestedDelimitersIdenticalPanics(t *testing.T) {
	assert.Panics(t, func() {
		comb.NestedDelimiters('"', '"', nil, func() string { return "" })
	})
}

type sexpr struct {
	atom    string
	list    []sexpr
	invalid bool
}

func sexprParser() comb.Parser[rune, sexpr] {
	atom := comb.Map(comb.Or(text.Ident(), text.Int(10)), func(s string) sexpr { return sexpr{atom: s} })
	return comb.Recurse(func(self comb.Parser[rune, sexpr]) comb.Parser[rune, sexpr] {
		list := comb.Map(comb.DelimitedBy(comb.Repeated(self), '(', ')'), func(xs *[]sexpr) sexpr {
			if xs == nil {
				return sexpr{invalid: true}
			}
			return sexpr{list: *xs}
		})
		return text.Padded(comb.Or(atom, list))
	})
}

func TestSexprRecovery(t *testing.T) {
	p := comb.ThenIgnore(sexprParser(), comb.End[rune]())

	out, ok, errs := comb.ParseStringRecovery(p, "(add (mul ! 3) 15)")
	require.True(t, ok)
	want := sexpr{list: []sexpr{{atom: "add"}, {invalid: true}, {atom: "15"}}}
	assert.Equal(t, want, out)

	require.Len(t, errs, 1)
	assert.Equal(t, comb.Span{Start: 10, End: 11}, errs[0].Span)
	require.NotNil(t, errs[0].Found)
	assert.Equal(t, '!', *errs[0].Found)
	assert.True(t, errs[0].Expects(comb.TokenPattern('(')))
	assert.True(t, errs[0].Expects(comb.TokenPattern(')')))
}

func TestSexprClean(t *testing.T) {
	p := comb.ThenIgnore(sexprParser(), comb.End[rune]())

	out, err := comb.ParseString(p, " (a (b c) ()) ")
	require.NoError(t, err)
	want := sexpr{list: []sexpr{
		{atom: "a"},
		{list: []sexpr{{atom: "b"}, {atom: "c"}}},
		{list: nil},
	}}
	assert.Equal(t, want, out)
}

func TestSexprUnclosed(t *testing.T) {
	p := comb.ThenIgnore(sexprParser(), comb.End[rune]())

	_, ok, errs := comb.ParseStringRecovery(p, "(add 1")
	assert.False(t, ok)
	require.NotEmpty(t, errs)
	assert.Equal(t, comb.ReasonUnclosed, errs[0].Reason)
}
