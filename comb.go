package comb

// Result is the outcome of a single parsing step.
//
// Errors holds diagnostics that sub-parsers recovered from; they must be
// reported whether or not the step succeeded. A step failed fatally when
// Err is non-nil, in which case Output is meaningless. On success Alt may
// carry the best competing failure, so that a later failure at the same or
// an earlier depth can still report it.
type Result[T comparable, O any] struct {
	Errors []Located[T]
	Output O
	Alt    *Located[T]
	Err    *Located[T]
}

// OK reports whether the step succeeded, possibly after recovering.
func (r Result[T, O]) OK() bool {
	return r.Err == nil
}

// Ok builds a successful result.
func Ok[T comparable, O any](errors []Located[T], out O, alt *Located[T]) Result[T, O] {
	return Result[T, O]{Errors: errors, Output: out, Alt: alt}
}

// Fail builds a fatal result.
func Fail[T comparable, O any](errors []Located[T], err Located[T]) Result[T, O] {
	return Result[T, O]{Errors: errors, Err: &err}
}

// retype carries the diagnostics of a failed result over to another output
// type.
func retype[T comparable, O, U any](r Result[T, O]) Result[T, U] {
	return Result[T, U]{Errors: r.Errors, Err: r.Err}
}

// Parser is implemented by every parsing unit.
//
// ParseInner consumes tokens from the stream and reports the outcome. It is
// the one primitive that every combinator is written in terms of; grammar
// authors normally use Parse and ParseRecovery instead.
type Parser[T comparable, O any] interface {
	ParseInner(s *Stream[T]) Result[T, O]
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc[T comparable, O any] func(s *Stream[T]) Result[T, O]

func (f ParserFunc[T, O]) ParseInner(s *Stream[T]) Result[T, O] {
	return f(s)
}

// ParseRecovery parses s with p, producing an output if possible and every
// diagnostic encountered along the way. ok is false when no output could be
// produced.
func ParseRecovery[T comparable, O any](p Parser[T, O], s *Stream[T]) (out O, ok bool, errs ErrorList[T]) {
	res := p.ParseInner(s)
	located := res.Errors
	if res.Err != nil {
		located = append(located, *res.Err)
	} else {
		out, ok = res.Output, true
	}
	return out, ok, errorsOf(located)
}

// Parse parses s with p, producing either an output or the diagnostics that
// prevented a clean parse. The returned error is an ErrorList.
func Parse[T comparable, O any](p Parser[T, O], s *Stream[T]) (O, error) {
	out, ok, errs := ParseRecovery(p, s)
	if len(errs) > 0 {
		var zero O
		return zero, errs
	}
	if !ok {
		panic("comb: parsing failed without emitting any diagnostics")
	}
	return out, nil
}

// ParseString is Parse over the runes of src.
func ParseString[O any](p Parser[rune, O], src string) (O, error) {
	return Parse(p, FromString(src))
}

// ParseStringRecovery is ParseRecovery over the runes of src.
func ParseStringRecovery[O any](p Parser[rune, O], src string) (O, bool, ErrorList[rune]) {
	return ParseRecovery(p, FromString(src))
}
