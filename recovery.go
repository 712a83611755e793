package comb

import (
	"slices"
)

// Strategy resynchronizes the stream after a parser failed fatally.
//
// Recover receives the diagnostics recovered so far, the fatal diagnostic,
// the parser that failed, and the stream positioned exactly where that
// parser started. It returns either a patched success or a failure.
type Strategy[T comparable, O any] interface {
	Recover(recovered []Located[T], fatal Located[T], p Parser[T, O], s *Stream[T]) Result[T, O]
}

// RecoverWith attaches a recovery strategy to p. The strategy is consulted
// only when p itself fails fatally, and its outcome is final.
func RecoverWith[T comparable, O any](p Parser[T, O], strategy Strategy[T, O]) Parser[T, O] {
	return ParserFunc[T, O](func(s *Stream[T]) Result[T, O] {
		res := Try(s, p)
		if res.Err == nil {
			return res
		}
		return strategy.Recover(res.Errors, *res.Err, p, s)
	})
}

type skipThenRetryUntil[T comparable, O any] struct {
	until []T
}

// SkipThenRetryUntil skips one token at a time and retries the failed
// parser, giving up at end of input or when the next token is one of until.
// The original failure is still reported when a retry succeeds.
//
// This strategy is blunt and can produce poor diagnostics in some
// languages; prefer more structured strategies and use it as a last resort.
func SkipThenRetryUntil[O any, T comparable](until ...T) Strategy[T, O] {
	return skipThenRetryUntil[T, O]{until: slices.Clone(until)}
}

func (st skipThenRetryUntil[T, O]) Recover(recovered []Located[T], fatal Located[T], p Parser[T, O], s *Stream[T]) Result[T, O] {
	skipped := 0
	for {
		advanced := s.Attempt(func(s *Stream[T]) bool {
			_, _, tok, ok := s.Next()
			return ok && !slices.Contains(st.until, tok)
		})
		if !advanced {
			log.Debugf("skip-then-retry gave up at offset %d after skipping %d tokens", s.Offset(), skipped)
			return Fail[T, O](recovered, fatal)
		}
		skipped++
		res := Try(s, p)
		if res.Err == nil {
			log.Debugf("skip-then-retry recovered at offset %d after skipping %d tokens", s.Offset(), skipped)
			errs := append(recovered, fatal)
			res.Errors = append(errs, res.Errors...)
			return res
		}
	}
}

type nestedDelimiters[T comparable, O any] struct {
	open, close T
	others      [][2]T
	fallback    func() O
}

// NestedDelimiters scans forward from a failure for the close token that
// balances open, respecting nesting, and yields fallback() in place of the
// failed parser's output. Pairs in others are tracked only to report
// foreign delimiters that close without having been opened.
//
// It panics if open and close are the same token.
func NestedDelimiters[T comparable, O any](open, close T, others [][2]T, fallback func() O) Strategy[T, O] {
	if open == close {
		panic("comb: NestedDelimiters cannot be used with identical delimiters")
	}
	return nestedDelimiters[T, O]{open: open, close: close, others: slices.Clone(others), fallback: fallback}
}

func (st nestedDelimiters[T, O]) Recover(recovered []Located[T], fatal Located[T], _ Parser[T, O], s *Stream[T]) Result[T, O] {
	var (
		balance       int
		othersBalance = make([]int, len(st.others))
		starts        []Span
		extra         *Located[T]
	)
	popStart := func() (Span, bool) {
		if len(starts) == 0 {
			return Span{}, false
		}
		last := starts[len(starts)-1]
		starts = starts[:len(starts)-1]
		return last, true
	}

	recoveredOK := false
scan:
	for {
		at, span, tok, ok := s.Next()
		delimiter := false
		switch {
		case !ok:
			if balance == 1 && extra == nil {
				var e Located[T]
				if start, has := popStart(); has {
					e = At(at, UnclosedDelimiter(start, st.open, span, st.close, nil))
				} else {
					e = At(at, ExpectedTokensFound(span, []T{st.close}, nil))
				}
				extra = &e
			}
			break scan
		case tok == st.open:
			balance++
			starts = append(starts, span)
			delimiter = true
		case tok == st.close:
			balance--
			popStart()
			delimiter = true
		default:
			for i, pair := range st.others {
				switch tok {
				case pair[0]:
					othersBalance[i]++
				case pair[1]:
					othersBalance[i]--
					if othersBalance[i] < 0 && balance == 1 && extra == nil {
						start, _ := popStart()
						found := tok
						e := At(at, UnclosedDelimiter(start, st.open, span, st.close, &found))
						extra = &e
					}
				}
			}
		}

		if delimiter {
			if balance == 0 {
				recoveredOK = true
				break scan
			}
			if balance < 0 {
				break scan
			}
		} else if balance == 0 {
			break scan
		}
	}

	if extra != nil {
		recovered = append(recovered, *extra)
	}
	if !recoveredOK {
		log.Debugf("nested-delimiter recovery failed at offset %d", s.Offset())
		return Fail[T, O](recovered, fatal)
	}
	if len(recovered) == 0 || fatal.At < recovered[len(recovered)-1].At {
		recovered = append(recovered, fatal)
	}
	log.Debugf("nested-delimiter recovery succeeded at offset %d", s.Offset())
	return Ok[T](recovered, st.fallback(), nil)
}
