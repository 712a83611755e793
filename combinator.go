package comb

// Pair is the output of Then.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Map transforms the output of p.
func Map[T comparable, O, U any](p Parser[T, O], f func(O) U) Parser[T, U] {
	return ParserFunc[T, U](func(s *Stream[T]) Result[T, U] {
		res := p.ParseInner(s)
		if res.Err != nil {
			return retype[T, O, U](res)
		}
		return Ok(res.Errors, f(res.Output), res.Alt)
	})
}

// MapWithSpan transforms the output of p together with the span of input
// it covered.
func MapWithSpan[T comparable, O, U any](p Parser[T, O], f func(O, Span) U) Parser[T, U] {
	return ParserFunc[T, U](func(s *Stream[T]) Result[T, U] {
		start := s.Offset()
		res := p.ParseInner(s)
		if res.Err != nil {
			return retype[T, O, U](res)
		}
		return Ok(res.Errors, f(res.Output, s.SpanSince(start)), res.Alt)
	})
}

// TryMap transforms the output of p with a function that may reject it. A
// rejection fails at the position p started from, with the returned Error[T]
// or a custom diagnostic covering the input p consumed.
func TryMap[T comparable, O, U any](p Parser[T, O], f func(O, Span) (U, error)) Parser[T, U] {
	return ParserFunc[T, U](func(s *Stream[T]) Result[T, U] {
		start := s.Offset()
		res := p.ParseInner(s)
		if res.Err != nil {
			return retype[T, O, U](res)
		}
		span := s.SpanSince(start)
		out, err := f(res.Output, span)
		if err != nil {
			return Fail[T, U](res.Errors, At(start, asError[T](err, span)))
		}
		return Ok(res.Errors, out, res.Alt)
	})
}

// MapErr transforms the fatal diagnostic of p. Diagnostics that sub-parsers
// recovered from are left alone.
func MapErr[T comparable, O any](p Parser[T, O], f func(Error[T]) Error[T]) Parser[T, O] {
	return ParserFunc[T, O](func(s *Stream[T]) Result[T, O] {
		res := p.ParseInner(s)
		if res.Err != nil {
			mapped := res.Err.Map(f)
			res.Err = &mapped
		}
		return res
	})
}

// Labelled names the pattern p parses, for more useful diagnostics. The
// label replaces what p expected only when p failed before consuming any
// input; once p got going its own diagnostic is more specific.
func Labelled[T comparable, O any](p Parser[T, O], label string) Parser[T, O] {
	return ParserFunc[T, O](func(s *Stream[T]) Result[T, O] {
		pre := s.Offset()
		res := p.ParseInner(s)
		if res.Err != nil && res.Err.At <= pre {
			labelled := At(res.Err.At, res.Err.Err.WithLabel(label))
			res.Err = &labelled
		}
		return res
	})
}

// To discards the output of p and yields v instead.
func To[T comparable, O, U any](p Parser[T, O], v U) Parser[T, U] {
	return Map(p, func(O) U { return v })
}

// Ignored discards the output of p.
func Ignored[T comparable, O any](p Parser[T, O]) Parser[T, struct{}] {
	return To(p, struct{}{})
}

// Then parses a and then b, yielding both outputs.
func Then[T comparable, A, B any](a Parser[T, A], b Parser[T, B]) Parser[T, Pair[A, B]] {
	return ParserFunc[T, Pair[A, B]](func(s *Stream[T]) Result[T, Pair[A, B]] {
		ra := a.ParseInner(s)
		if ra.Err != nil {
			return retype[T, A, Pair[A, B]](ra)
		}
		rb := b.ParseInner(s)
		errs := append(ra.Errors, rb.Errors...)
		if rb.Err != nil {
			return Fail[T, Pair[A, B]](errs, rb.Err.MaxOf(ra.Alt))
		}
		return Ok(errs, Pair[A, B]{First: ra.Output, Second: rb.Output}, mergeAlts(ra.Alt, rb.Alt))
	})
}

// IgnoreThen parses a and then b, yielding only the output of b.
func IgnoreThen[T comparable, A, B any](a Parser[T, A], b Parser[T, B]) Parser[T, B] {
	return Map(Then(a, b), func(p Pair[A, B]) B { return p.Second })
}

// ThenIgnore parses a and then b, yielding only the output of a.
func ThenIgnore[T comparable, A, B any](a Parser[T, A], b Parser[T, B]) Parser[T, A] {
	return Map(Then(a, b), func(p Pair[A, B]) A { return p.First })
}

// PaddedBy parses pad, p and pad again, yielding the output of p.
func PaddedBy[T comparable, O, P any](p Parser[T, O], pad Parser[T, P]) Parser[T, O] {
	return ThenIgnore(IgnoreThen(pad, p), pad)
}

// Chain parses a and then b, concatenating their outputs.
func Chain[T comparable, E any](a, b Parser[T, []E]) Parser[T, []E] {
	return Map(Then(a, b), func(p Pair[[]E, []E]) []E {
		out := make([]E, 0, len(p.First)+len(p.Second))
		out = append(out, p.First...)
		return append(out, p.Second...)
	})
}

// One lifts the output of p into a one-element slice, for use with Chain.
func One[T comparable, O any](p Parser[T, O]) Parser[T, []O] {
	return Map(p, func(o O) []O { return []O{o} })
}

// Flatten concatenates a nested slice output.
func Flatten[T comparable, E any](p Parser[T, [][]E]) Parser[T, []E] {
	return Map(p, func(xs [][]E) []E {
		var out []E
		for _, x := range xs {
			out = append(out, x...)
		}
		return out
	})
}

// DelimitedBy parses p between the open and close tokens. The output is nil
// if p failed and the delimited region was skipped by nested-delimiter
// recovery, so a syntax error inside the delimiters does not stop parsing
// of what follows them.
func DelimitedBy[T comparable, O any](p Parser[T, O], open, close T) Parser[T, *O] {
	inner := ThenIgnore(IgnoreThen(Just(open), p), Just(close))
	some := Map(inner, func(o O) *O { return &o })
	return RecoverWith(some, NestedDelimiters(open, close, nil, func() *O { return nil }))
}

// Or parses a or, should a fail, b from the same position. When both fail
// the diagnostic that got further wins; equally deep diagnostics merge.
// Only the winning branch's recovered diagnostics are kept, the left one's
// on a tie.
func Or[T comparable, O any](a, b Parser[T, O]) Parser[T, O] {
	return ParserFunc[T, O](func(s *Stream[T]) Result[T, O] {
		ra := Try(s, a)
		if ra.Err == nil {
			return ra
		}
		rb := Try(s, b)
		if rb.Err == nil {
			rb.Alt = mergeAlts(ra.Err, rb.Alt)
			return rb
		}
		errs := ra.Errors
		if rb.Err.At > ra.Err.At {
			errs = rb.Errors
		}
		return Fail[T, O](errs, ra.Err.Max(*rb.Err))
	})
}

// Choice is Or over any number of alternatives, tried left to right.
func Choice[T comparable, O any](first Parser[T, O], rest ...Parser[T, O]) Parser[T, O] {
	p := first
	for _, alt := range rest {
		p = Or(p, alt)
	}
	return p
}

// OrNot parses p if it is there. The output is nil, and no input is
// consumed, when it is not.
func OrNot[T comparable, O any](p Parser[T, O]) Parser[T, *O] {
	return ParserFunc[T, *O](func(s *Stream[T]) Result[T, *O] {
		res := Try(s, p)
		if res.Err != nil {
			return Ok[T, *O](nil, nil, res.Err)
		}
		out := res.Output
		return Ok(res.Errors, &out, res.Alt)
	})
}

// Foldl left-folds an output shaped (A, []B) into a single A.
func Foldl[T comparable, A, B any](p Parser[T, Pair[A, []B]], f func(A, B) A) Parser[T, A] {
	return Map(p, func(pair Pair[A, []B]) A {
		acc := pair.First
		for _, b := range pair.Second {
			acc = f(acc, b)
		}
		return acc
	})
}

// Foldr right-folds an output shaped ([]A, B) into a single B.
func Foldr[T comparable, A, B any](p Parser[T, Pair[[]A, B]], f func(A, B) B) Parser[T, B] {
	return Map(p, func(pair Pair[[]A, B]) B {
		acc := pair.Second
		for i := len(pair.First) - 1; i >= 0; i-- {
			acc = f(pair.First[i], acc)
		}
		return acc
	})
}
