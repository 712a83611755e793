package comb

import (
	"fmt"
	"unicode/utf8"
)

// Span represents a half-open range [Start, End) in the source.
// For streams built with FromString the bounds are byte offsets.
type Span struct {
	Start int
	End   int
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Len returns the length of the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Union returns the smallest span covering both s and other.
func (s Span) Union(other Span) Span {
	return Span{Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

// Token is a stream element together with the span it was read from.
type Token[T comparable] struct {
	Value T
	Span  Span
}

// Stream is a cursor over a sequence of positioned tokens.
//
// The offset is the token index, not a byte offset. Offsets are totally
// ordered and used to rank diagnostics by how far parsing progressed.
type Stream[T comparable] struct {
	tokens []Token[T]
	eoi    Span
	offset int
}

// NewStream creates a stream over tokens. eoi is the span reported for the
// end of input.
func NewStream[T comparable](tokens []Token[T], eoi Span) *Stream[T] {
	return &Stream[T]{tokens: tokens, eoi: eoi}
}

// FromSlice creates a stream whose spans are the indices of values.
func FromSlice[T comparable](values []T) *Stream[T] {
	tokens := make([]Token[T], len(values))
	for i, v := range values {
		tokens[i] = Token[T]{Value: v, Span: Span{Start: i, End: i + 1}}
	}
	n := len(values)
	return NewStream(tokens, Span{Start: n, End: n})
}

// FromString creates a stream of runes. Spans are byte offsets into src.
func FromString(src string) *Stream[rune] {
	tokens := make([]Token[rune], 0, utf8.RuneCountInString(src))
	for i, r := range src {
		tokens = append(tokens, Token[rune]{Value: r, Span: Span{Start: i, End: i + utf8.RuneLen(r)}})
	}
	n := len(src)
	return NewStream(tokens, Span{Start: n, End: n})
}

// Offset returns the index of the next token.
func (s *Stream[T]) Offset() int {
	return s.offset
}

// Len returns the number of tokens in the stream.
func (s *Stream[T]) Len() int {
	return len(s.tokens)
}

// Save returns a marker that Revert can restore.
func (s *Stream[T]) Save() int {
	return s.offset
}

// Revert moves the cursor back to a marker returned by Save.
func (s *Stream[T]) Revert(marker int) {
	s.offset = marker
}

// Next consumes the current token. It returns the offset the token was read
// at, its span and value. ok is false at the end of input, in which case the
// cursor does not move and span is the end-of-input span.
func (s *Stream[T]) Next() (at int, span Span, tok T, ok bool) {
	at = s.offset
	if s.offset >= len(s.tokens) {
		return at, s.eoi, tok, false
	}
	t := s.tokens[s.offset]
	s.offset++
	return at, t.Span, t.Value, true
}

// Peek returns the current token without consuming it.
func (s *Stream[T]) Peek() (span Span, tok T, ok bool) {
	if s.offset >= len(s.tokens) {
		return s.eoi, tok, false
	}
	t := s.tokens[s.offset]
	return t.Span, t.Value, true
}

// Attempt runs probe and keeps the input it consumed only if probe returns
// true. Otherwise the cursor is rolled back. It returns probe's verdict.
func (s *Stream[T]) Attempt(probe func(*Stream[T]) bool) bool {
	saved := s.offset
	if probe(s) {
		return true
	}
	s.offset = saved
	return false
}

// SpanSince returns the span covering every token consumed since start.
// An empty range yields an empty span at the start token.
func (s *Stream[T]) SpanSince(start int) Span {
	from := s.eoi.Start
	if start < len(s.tokens) {
		from = s.tokens[start].Span.Start
	}
	last := max(s.offset-1, start)
	to := s.eoi.End
	if last < len(s.tokens) {
		to = s.tokens[last].Span.End
	}
	if s.offset <= start {
		to = from
	}
	return Span{Start: from, End: to}
}

// Try runs p and rewinds the cursor to where it was before the call if p
// fails fatally.
func Try[T comparable, O any](s *Stream[T], p Parser[T, O]) Result[T, O] {
	saved := s.Save()
	res := p.ParseInner(s)
	if res.Err != nil {
		s.Revert(saved)
	}
	return res
}
