package comb

import (
	"errors"
	"slices"
)

func found[T comparable](tok T, ok bool) *T {
	if !ok {
		return nil
	}
	return &tok
}

// Any accepts any single token.
func Any[T comparable]() Parser[T, T] {
	return ParserFunc[T, T](func(s *Stream[T]) Result[T, T] {
		at, span, tok, ok := s.Next()
		if !ok {
			return Fail[T, T](nil, At(at, ExpectedFound[T](span, nil, nil)))
		}
		return Ok[T](nil, tok, nil)
	})
}

// Just accepts exactly tok.
func Just[T comparable](tok T) Parser[T, T] {
	return ParserFunc[T, T](func(s *Stream[T]) Result[T, T] {
		at, span, got, ok := s.Next()
		if ok && got == tok {
			return Ok[T](nil, got, nil)
		}
		return Fail[T, T](nil, At(at, ExpectedTokensFound(span, []T{tok}, found(got, ok))))
	})
}

// Seq accepts the given tokens in order.
func Seq[T comparable](toks ...T) Parser[T, []T] {
	return ParserFunc[T, []T](func(s *Stream[T]) Result[T, []T] {
		for _, want := range toks {
			at, span, got, ok := s.Next()
			if !ok || got != want {
				return Fail[T, []T](nil, At(at, ExpectedTokensFound(span, []T{want}, found(got, ok))))
			}
		}
		return Ok[T](nil, slices.Clone(toks), nil)
	})
}

// OneOf accepts any one of toks.
func OneOf[T comparable](toks ...T) Parser[T, T] {
	return ParserFunc[T, T](func(s *Stream[T]) Result[T, T] {
		at, span, got, ok := s.Next()
		if ok && slices.Contains(toks, got) {
			return Ok[T](nil, got, nil)
		}
		return Fail[T, T](nil, At(at, ExpectedTokensFound(span, toks, found(got, ok))))
	})
}

// NoneOf accepts any single token not in toks.
func NoneOf[T comparable](toks ...T) Parser[T, T] {
	return ParserFunc[T, T](func(s *Stream[T]) Result[T, T] {
		at, span, got, ok := s.Next()
		if ok && !slices.Contains(toks, got) {
			return Ok[T](nil, got, nil)
		}
		return Fail[T, T](nil, At(at, ExpectedFound[T](span, nil, found(got, ok))))
	})
}

// Filter accepts a single token for which pred holds.
func Filter[T comparable](pred func(T) bool) Parser[T, T] {
	return ParserFunc[T, T](func(s *Stream[T]) Result[T, T] {
		at, span, got, ok := s.Next()
		if ok && pred(got) {
			return Ok[T](nil, got, nil)
		}
		return Fail[T, T](nil, At(at, ExpectedFound[T](span, nil, found(got, ok))))
	})
}

// FilterMap accepts a single token that f can convert. When f returns an
// Error[T] it is used as the diagnostic; any other error becomes a custom
// diagnostic at the token's span.
func FilterMap[T comparable, O any](f func(Span, T) (O, error)) Parser[T, O] {
	return ParserFunc[T, O](func(s *Stream[T]) Result[T, O] {
		at, span, got, ok := s.Next()
		if !ok {
			return Fail[T, O](nil, At(at, ExpectedFound[T](span, nil, nil)))
		}
		out, err := f(span, got)
		if err != nil {
			return Fail[T, O](nil, At(at, asError[T](err, span)))
		}
		return Ok[T](nil, out, nil)
	})
}

func asError[T comparable](err error, span Span) Error[T] {
	var diag Error[T]
	if !errors.As(err, &diag) {
		diag = Custom[T](span, err.Error())
	}
	return diag
}

// End accepts only the end of input.
func End[T comparable]() Parser[T, struct{}] {
	return ParserFunc[T, struct{}](func(s *Stream[T]) Result[T, struct{}] {
		at, span, got, ok := s.Next()
		if !ok {
			return Ok[T](nil, struct{}{}, nil)
		}
		return Fail[T, struct{}](nil, At(at, ExpectedFound(span, []Pattern[T]{EndPattern[T]()}, &got)))
	})
}

// Empty succeeds without consuming input.
func Empty[T comparable]() Parser[T, struct{}] {
	return ParserFunc[T, struct{}](func(s *Stream[T]) Result[T, struct{}] {
		return Ok[T](nil, struct{}{}, nil)
	})
}
