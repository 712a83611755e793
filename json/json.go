// Package json is a JSON parser that keeps going after syntax errors.
//
// With recovery enabled, which is the default, a malformed array or object
// is replaced by an Invalid value and a malformed element is skipped, so a
// single parse reports every error in the document.
package json

import (
	"strconv"
	"unicode/utf16"

	"github.com/dhamidi/comb"
	"github.com/dhamidi/comb/text"
	"github.com/shopspring/decimal"
)

type config struct {
	recovery bool
}

// Option configures the grammar.
type Option func(*config)

// WithoutRecovery makes the parser stop at the first syntax error.
func WithoutRecovery() Option {
	return func(c *config) {
		c.recovery = false
	}
}

func optional(p comb.Parser[rune, []rune]) comb.Parser[rune, []rune] {
	return comb.Map(comb.OrNot(p), func(rs *[]rune) []rune {
		if rs == nil {
			return nil
		}
		return *rs
	})
}

func between[O any](open rune, p comb.Parser[rune, O], close rune) comb.Parser[rune, O] {
	return comb.ThenIgnore(comb.IgnoreThen(comb.Just(open), p), comb.Just(close))
}

func keyword(word string) comb.Parser[rune, []rune] {
	return comb.Seq([]rune(word)...)
}

func number() comb.Parser[rune, decimal.Decimal] {
	digit := comb.Filter(func(r rune) bool { return '0' <= r && r <= '9' })
	digits := comb.Repeated(digit).AtLeast(1)
	nonZero := comb.Filter(func(r rune) bool { return '1' <= r && r <= '9' })

	minus := optional(comb.One(comb.Just('-')))
	integer := comb.Or(comb.One(comb.Just('0')), comb.Chain(comb.One(nonZero), comb.Repeated[rune, rune](digit)))
	frac := optional(comb.Chain(comb.One(comb.Just('.')), digits))
	exp := optional(comb.Chain(comb.Chain(comb.One(comb.OneOf('e', 'E')), optional(comb.One(comb.OneOf('+', '-')))), digits))

	literal := text.Collect(comb.Chain(comb.Chain(comb.Chain(minus, integer), frac), exp))
	return comb.Labelled(comb.TryMap(literal, func(s string, _ comb.Span) (decimal.Decimal, error) {
		return decimal.NewFromString(s)
	}), "number")
}

func str() comb.Parser[rune, string] {
	hex := text.Collect(comb.Repeated(text.Digit(16)).Exactly(4))
	unicode := comb.IgnoreThen(comb.Just('u'), comb.TryMap(hex, func(h string, _ comb.Span) (rune, error) {
		n, err := strconv.ParseUint(h, 16, 32)
		return rune(n), err
	}))
	escape := comb.IgnoreThen(comb.Just('\\'), comb.Labelled(comb.Choice(
		comb.Just('"'),
		comb.Just('\\'),
		comb.Just('/'),
		comb.To(comb.Just('b'), '\b'),
		comb.To(comb.Just('f'), '\f'),
		comb.To(comb.Just('n'), '\n'),
		comb.To(comb.Just('r'), '\r'),
		comb.To(comb.Just('t'), '\t'),
		unicode,
	), "escape sequence"))
	plain := comb.Filter(func(r rune) bool { return r != '"' && r != '\\' && r >= 0x20 })

	body := comb.Repeated(comb.Or(plain, escape))
	return comb.Labelled(decoded(between('"', body, '"')), "string")
}

// decoded joins the surrogate pairs in the output of p. An unpaired
// surrogate becomes U+FFFD and is reported without failing the string.
func decoded(p comb.Parser[rune, []rune]) comb.Parser[rune, string] {
	return comb.ParserFunc[rune, string](func(s *comb.Stream[rune]) comb.Result[rune, string] {
		start := s.Offset()
		res := p.ParseInner(s)
		if res.Err != nil {
			return comb.Fail[rune, string](res.Errors, *res.Err)
		}
		out, unpaired := decodeSurrogates(res.Output)
		errs := res.Errors
		if unpaired > 0 {
			errs = append(errs, comb.At(start, comb.Custom[rune](s.SpanSince(start), "unpaired surrogate in string")))
		}
		return comb.Ok(errs, out, res.Alt)
	})
}

// decodeSurrogates joins \uXXXX surrogate pairs into the runes they encode.
func decodeSurrogates(rs []rune) (string, int) {
	out := make([]rune, 0, len(rs))
	unpaired := 0
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if !utf16.IsSurrogate(r) {
			out = append(out, r)
			continue
		}
		if i+1 < len(rs) {
			if d := utf16.DecodeRune(r, rs[i+1]); d != '\uFFFD' {
				out = append(out, d)
				i++
				continue
			}
		}
		out = append(out, '\uFFFD')
		unpaired++
	}
	return string(out), unpaired
}

func invalid() Value {
	return Value{Kind: KindInvalid}
}

// Parser returns the grammar for a single JSON value with optional
// surrounding whitespace.
func Parser(opts ...Option) comb.BoxedParser[rune, Value] {
	cfg := config{recovery: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	ws := text.Whitespace()
	return comb.Boxed[rune, Value](comb.Recurse(func(value comb.Parser[rune, Value]) comb.Parser[rune, Value] {
		null := comb.To(keyword("null"), Value{Kind: KindNull})
		boolean := comb.Or(
			comb.To(keyword("true"), Value{Kind: KindBool, Bool: true}),
			comb.To(keyword("false"), Value{Kind: KindBool, Bool: false}),
		)
		num := comb.Map(number(), func(d decimal.Decimal) Value { return Value{Kind: KindNumber, Number: d} })
		s := comb.Map(str(), func(s string) Value { return Value{Kind: KindString, String: s} })

		elements := comb.IgnoreThen(ws, comb.SeparatedBy(value, comb.Just(',')))
		array := comb.Labelled(comb.Map(between('[', elements, ']'), func(xs []Value) Value {
			return Value{Kind: KindArray, Array: xs}
		}), "array")

		member := comb.Map(comb.Then(comb.ThenIgnore(text.Padded(str()), comb.Just(':')), value), func(p comb.Pair[string, Value]) Member {
			return Member{Key: p.First, Value: p.Second}
		})
		members := comb.IgnoreThen(ws, comb.SeparatedBy(member, comb.Just(',')))
		object := comb.Labelled(comb.Map(between('{', members, '}'), func(ms []Member) Value {
			return Value{Kind: KindObject, Object: ms}
		}), "object")

		v := comb.Labelled(comb.Choice(null, boolean, num, s, array, object), "value")
		if cfg.recovery {
			v = comb.RecoverWith(v, comb.NestedDelimiters('{', '}', [][2]rune{{'[', ']'}}, invalid))
			v = comb.RecoverWith(v, comb.NestedDelimiters('[', ']', [][2]rune{{'{', '}'}}, invalid))
			v = comb.RecoverWith(v, comb.SkipThenRetryUntil[Value]('}', ']'))
		}
		spanned := comb.MapWithSpan(v, func(v Value, span comb.Span) Value {
			v.Span = span
			return v
		})
		return text.Padded(spanned)
	}))
}

func document(opts []Option) comb.Parser[rune, Value] {
	return comb.ThenIgnore(Parser(opts...), comb.End[rune]())
}

// Parse parses a complete JSON document. Any syntax error, even one the
// parser recovered from, makes it fail; the error is a comb.ErrorList[rune]
// with spans in bytes.
func Parse(src string, opts ...Option) (Value, error) {
	return comb.ParseString(document(opts), src)
}

// ParseRecovery parses a complete JSON document, returning a best-effort
// value along with every syntax error. ok is false when nothing could be
// salvaged.
func ParseRecovery(src string, opts ...Option) (Value, bool, comb.ErrorList[rune]) {
	return comb.ParseStringRecovery(document(opts), src)
}
