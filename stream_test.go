package comb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamNext(t *testing.T) {
	s := FromString("aé")

	at, span, tok, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, 0, at)
	assert.Equal(t, Span{0, 1}, span)
	assert.Equal(t, 'a', tok)

	at, span, tok, ok = s.Next()
	require.True(t, ok)
	assert.Equal(t, 1, at)
	assert.Equal(t, Span{1, 3}, span)
	assert.Equal(t, 'é', tok)

	at, span, _, ok = s.Next()
	assert.False(t, ok)
	assert.Equal(t, 2, at)
	assert.Equal(t, Span{3, 3}, span)
	assert.Equal(t, 2, s.Offset(), "end of input does not advance the cursor")
}

func TestStreamAttempt(t *testing.T) {
	s := FromSlice([]string{"a", "b"})

	committed := s.Attempt(func(s *Stream[string]) bool {
		s.Next()
		return true
	})
	assert.True(t, committed)
	assert.Equal(t, 1, s.Offset())

	committed = s.Attempt(func(s *Stream[string]) bool {
		s.Next()
		return false
	})
	assert.False(t, committed)
	assert.Equal(t, 1, s.Offset())
}

func TestTryRewindsOnFailure(t *testing.T) {
	inputs := []string{"abx", "ax", "x", "", "abc"}
	p := Seq('a', 'b', 'c')
	for _, input := range inputs {
		s := FromString(input)
		s.Next()
		before := s.Offset()
		res := Try(s, p)
		if res.OK() {
			assert.Equal(t, before+3, s.Offset(), "input %q", input)
			continue
		}
		assert.Equal(t, before, s.Offset(), "input %q", input)
	}

	s := FromString("abc")
	res := Try(s, p)
	require.True(t, res.OK())
	assert.Equal(t, 3, s.Offset())
}

func TestStreamSpanSince(t *testing.T) {
	s := FromString("hello world")
	for i := 0; i < 5; i++ {
		s.Next()
	}
	assert.Equal(t, Span{0, 5}, s.SpanSince(0))
	assert.Equal(t, Span{5, 5}, s.SpanSince(5), "nothing consumed")

	for s.Offset() < s.Len() {
		s.Next()
	}
	assert.Equal(t, Span{6, 11}, s.SpanSince(6))
	assert.Equal(t, Span{11, 11}, s.SpanSince(11))
}

func TestSpan(t *testing.T) {
	a := Span{2, 4}
	b := Span{3, 7}
	assert.Equal(t, Span{2, 7}, a.Union(b))
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, "2..4", a.String())
}
