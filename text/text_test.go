package text

import (
	"testing"

	"github.com/dhamidi/comb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whole[O any](p comb.Parser[rune, O]) comb.Parser[rune, O] {
	return comb.ThenIgnore(p, comb.End[rune]())
}

func TestDigits(t *testing.T) {
	tests := []struct {
		radix int
		input string
		ok    bool
	}{
		{10, "0123", true},
		{16, "dEaD", true},
		{2, "1011", true},
		{2, "102", false},
		{8, "9", false},
		{10, "", false},
	}
	for _, tt := range tests {
		out, err := comb.ParseString(whole(Digits(tt.radix)), tt.input)
		if !tt.ok {
			assert.Error(t, err, "%q in radix %d", tt.input, tt.radix)
			continue
		}
		require.NoError(t, err, "%q in radix %d", tt.input, tt.radix)
		assert.Equal(t, tt.input, out)
	}
}

func TestDigitsLabel(t *testing.T) {
	_, err := comb.ParseString(Digits(10), "x")
	assert.EqualError(t, err, "0..1: expected digit, found 'x'")
}

func TestInt(t *testing.T) {
	for _, input := range []string{"0", "7", "1234567890"} {
		out, err := comb.ParseString(whole(Int(10)), input)
		require.NoError(t, err)
		assert.Equal(t, input, out)
	}

	_, err := comb.ParseString(whole(Int(10)), "012")
	assert.Error(t, err, "leading zero")

	_, err = comb.ParseString(Int(10), "-1")
	assert.EqualError(t, err, "0..1: expected integer, found '-'")
}

func TestIdent(t *testing.T) {
	for _, input := range []string{"x", "_tmp", "snake_case_2", "héllo"} {
		out, err := comb.ParseString(whole(Ident()), input)
		require.NoError(t, err)
		assert.Equal(t, input, out)
	}
	_, err := comb.ParseString(Ident(), "2x")
	assert.EqualError(t, err, "0..1: expected identifier, found '2'")
}

func TestKeyword(t *testing.T) {
	let := Keyword("let")

	out, err := comb.ParseString(let, "let")
	require.NoError(t, err)
	assert.Equal(t, "let", out)

	s := comb.FromString("letter")
	_, err = comb.Parse(let, s)
	assert.EqualError(t, err, `0..6: expected "let", found 'l'`)
}

func TestPaddedAndNewline(t *testing.T) {
	lines := whole(comb.Repeated(comb.ThenIgnore(Ident(), Newline())))
	out, err := comb.ParseString(lines, "a\nb\r\nc\r")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, out)

	words := whole(comb.Repeated(Padded(Ident())))
	out, err = comb.ParseString(words, "  one\ttwo \n three ")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, out)
}
