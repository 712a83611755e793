// Package text provides character-level parsers for grammars over runes.
package text

import (
	"strconv"
	"unicode"

	"github.com/dhamidi/comb"
)

func digitValue(r rune) int {
	switch {
	case '0' <= r && r <= '9':
		return int(r - '0')
	case 'a' <= r && r <= 'z':
		return int(r-'a') + 10
	case 'A' <= r && r <= 'Z':
		return int(r-'A') + 10
	}
	return 36
}

// Digit accepts a single digit in the given radix (2 to 36).
func Digit(radix int) comb.Parser[rune, rune] {
	return comb.Labelled(comb.Filter(func(r rune) bool { return digitValue(r) < radix }), "digit")
}

// Collect turns a rune slice output into a string.
func Collect(p comb.Parser[rune, []rune]) comb.Parser[rune, string] {
	return comb.Map(p, func(rs []rune) string { return string(rs) })
}

// Digits accepts one or more digits in the given radix.
func Digits(radix int) comb.Parser[rune, string] {
	return comb.Labelled(Collect(comb.Repeated(Digit(radix)).AtLeast(1)), "digit")
}

// Int accepts an unsigned integer without leading zeros.
func Int(radix int) comb.Parser[rune, string] {
	nonZero := comb.Filter(func(r rune) bool { return r != '0' && digitValue(r) < radix })
	long := comb.Chain(comb.One(nonZero), comb.Repeated[rune, rune](Digit(radix)))
	zero := comb.One(comb.Just('0'))
	return comb.Labelled(Collect(comb.Or(long, zero)), "integer")
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Ident accepts an identifier: a letter or underscore followed by letters,
// digits and underscores.
func Ident() comb.Parser[rune, string] {
	head := comb.One(comb.Filter(isIdentStart))
	tail := comb.Repeated(comb.Filter(isIdentContinue))
	return comb.Labelled(Collect(comb.Chain[rune, rune](head, tail)), "identifier")
}

// Keyword accepts an identifier equal to kw.
func Keyword(kw string) comb.Parser[rune, string] {
	ident := Ident()
	return comb.ParserFunc[rune, string](func(s *comb.Stream[rune]) comb.Result[rune, string] {
		start := s.Offset()
		res := ident.ParseInner(s)
		if res.Err != nil || res.Output == kw {
			return res
		}
		span := s.SpanSince(start)
		s.Revert(start)
		_, first, ok := s.Peek()
		var found *rune
		if ok {
			found = &first
		}
		return comb.Fail[rune, string](res.Errors, comb.At(start, comb.ExpectedLabelFound(span, strconv.Quote(kw), found)))
	})
}

// Whitespace accepts zero or more whitespace runes.
func Whitespace() comb.Parser[rune, struct{}] {
	return comb.Ignored(comb.Repeated(comb.Filter(unicode.IsSpace)))
}

// Padded accepts p surrounded by optional whitespace.
func Padded[O any](p comb.Parser[rune, O]) comb.Parser[rune, O] {
	return comb.PaddedBy(p, Whitespace())
}

// Newline accepts "\r\n", "\n" or "\r".
func Newline() comb.Parser[rune, struct{}] {
	crlf := comb.Ignored(comb.Seq('\r', '\n'))
	return comb.Labelled(comb.Choice(crlf, comb.Ignored(comb.Just('\n')), comb.Ignored(comb.Just('\r'))), "newline")
}
