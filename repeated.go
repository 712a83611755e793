package comb

// RepeatedParser parses a pattern any number of times. See Repeated.
type RepeatedParser[T comparable, O any] struct {
	item    Parser[T, O]
	atLeast int
	atMost  int // zero means unbounded
}

// Repeated parses p eagerly, zero or more times, yielding every output.
//
// p should not be able to succeed without consuming input. If it does,
// that output is kept and repetition stops there.
func Repeated[T comparable, O any](p Parser[T, O]) *RepeatedParser[T, O] {
	return &RepeatedParser[T, O]{item: p}
}

// AtLeast requires at least n repetitions.
func (r *RepeatedParser[T, O]) AtLeast(n int) *RepeatedParser[T, O] {
	out := *r
	out.atLeast = n
	return &out
}

// AtMost stops after n repetitions.
func (r *RepeatedParser[T, O]) AtMost(n int) *RepeatedParser[T, O] {
	out := *r
	out.atMost = n
	return &out
}

// Exactly requires exactly n repetitions.
func (r *RepeatedParser[T, O]) Exactly(n int) *RepeatedParser[T, O] {
	return r.AtLeast(n).AtMost(n)
}

func (r *RepeatedParser[T, O]) ParseInner(s *Stream[T]) Result[T, []O] {
	var (
		errs    []Located[T]
		outputs []O
		alt     *Located[T]
	)
	for r.atMost == 0 || len(outputs) < r.atMost {
		before := s.Offset()
		res := Try(s, r.item)
		if res.Err != nil {
			if len(outputs) < r.atLeast {
				errs = append(errs, res.Errors...)
				return Fail[T, []O](errs, res.Err.MaxOf(alt))
			}
			alt = mergeAlts(alt, res.Err)
			break
		}
		errs = append(errs, res.Errors...)
		alt = mergeAlts(alt, res.Alt)
		outputs = append(outputs, res.Output)
		if s.Offset() == before {
			break
		}
	}
	if len(outputs) < r.atLeast {
		// Only reachable when a zero-width item stopped the loop early.
		span, tok, ok := s.Peek()
		err := At(s.Offset(), ExpectedFound[T](span, nil, found(tok, ok))).MaxOf(alt)
		return Fail[T, []O](errs, err)
	}
	return Ok(errs, outputs, alt)
}

// SeparatedByParser parses a pattern separated by another. See SeparatedBy.
type SeparatedByParser[T comparable, O, U any] struct {
	item          Parser[T, O]
	sep           Parser[T, U]
	atLeast       int
	allowLeading  bool
	allowTrailing bool
}

// SeparatedBy parses p any number of times, separated by sep. Separator
// outputs are discarded.
func SeparatedBy[T comparable, O, U any](p Parser[T, O], sep Parser[T, U]) *SeparatedByParser[T, O, U] {
	return &SeparatedByParser[T, O, U]{item: p, sep: sep}
}

// AtLeast requires at least n items.
func (sb *SeparatedByParser[T, O, U]) AtLeast(n int) *SeparatedByParser[T, O, U] {
	out := *sb
	out.atLeast = n
	return &out
}

// AllowLeading permits a separator before the first item.
func (sb *SeparatedByParser[T, O, U]) AllowLeading() *SeparatedByParser[T, O, U] {
	out := *sb
	out.allowLeading = true
	return &out
}

// AllowTrailing permits a separator after the last item.
func (sb *SeparatedByParser[T, O, U]) AllowTrailing() *SeparatedByParser[T, O, U] {
	out := *sb
	out.allowTrailing = true
	return &out
}

func (sb *SeparatedByParser[T, O, U]) ParseInner(s *Stream[T]) Result[T, []O] {
	var (
		errs    []Located[T]
		outputs []O
		alt     *Located[T]
	)
	if sb.allowLeading {
		res := Try(s, sb.sep)
		if res.Err != nil {
			alt = mergeAlts(alt, res.Err)
		} else {
			errs = append(errs, res.Errors...)
			alt = mergeAlts(alt, res.Alt)
		}
	}

	first := Try(s, sb.item)
	if first.Err != nil {
		alt = mergeAlts(alt, first.Err)
	} else {
		errs = append(errs, first.Errors...)
		alt = mergeAlts(alt, first.Alt)
		outputs = append(outputs, first.Output)

		for {
			marker := s.Save()
			rs := Try(s, sb.sep)
			if rs.Err != nil {
				alt = mergeAlts(alt, rs.Err)
				break
			}
			ri := Try(s, sb.item)
			if ri.Err != nil {
				alt = mergeAlts(alt, ri.Err)
				if sb.allowTrailing {
					errs = append(errs, rs.Errors...)
				} else {
					s.Revert(marker)
				}
				break
			}
			errs = append(errs, rs.Errors...)
			errs = append(errs, ri.Errors...)
			alt = mergeAlts(mergeAlts(alt, rs.Alt), ri.Alt)
			outputs = append(outputs, ri.Output)
			if s.Offset() == marker {
				break
			}
		}
	}

	if len(outputs) < sb.atLeast {
		if alt == nil {
			span, tok, ok := s.Peek()
			l := At(s.Offset(), ExpectedFound[T](span, nil, found(tok, ok)))
			alt = &l
		}
		return Fail[T, []O](errs, *alt)
	}
	return Ok(errs, outputs, alt)
}
