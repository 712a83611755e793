package comb

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Reason classifies a diagnostic.
type Reason int

const (
	// ReasonUnexpected is an unexpected token or end of input.
	ReasonUnexpected Reason = iota
	// ReasonUnclosed is a delimiter that was opened but never closed.
	ReasonUnclosed
	// ReasonCustom is a diagnostic with a free-form message.
	ReasonCustom
)

func (r Reason) String() string {
	switch r {
	case ReasonUnexpected:
		return "unexpected"
	case ReasonUnclosed:
		return "unclosed"
	case ReasonCustom:
		return "custom"
	}
	return "Reason(" + strconv.Itoa(int(r)) + ")"
}

type patternKind int

const (
	patternToken patternKind = iota
	patternEnd
	patternLabel
)

// Pattern is one entry in the set of things a parser expected to see: a
// token, the end of input, or a label naming a whole construct.
type Pattern[T comparable] struct {
	kind  patternKind
	token T
	label string
}

// TokenPattern expects the given token.
func TokenPattern[T comparable](tok T) Pattern[T] {
	return Pattern[T]{kind: patternToken, token: tok}
}

// EndPattern expects the end of input.
func EndPattern[T comparable]() Pattern[T] {
	return Pattern[T]{kind: patternEnd}
}

// LabelPattern expects a labelled construct such as "expression".
func LabelPattern[T comparable](label string) Pattern[T] {
	return Pattern[T]{kind: patternLabel, label: label}
}

// Token returns the expected token, if this pattern names one.
func (p Pattern[T]) Token() (T, bool) {
	return p.token, p.kind == patternToken
}

// Label returns the expected label, if this pattern is one.
func (p Pattern[T]) Label() (string, bool) {
	return p.label, p.kind == patternLabel
}

// IsEnd reports whether the pattern expects the end of input.
func (p Pattern[T]) IsEnd() bool {
	return p.kind == patternEnd
}

func (p Pattern[T]) String() string {
	switch p.kind {
	case patternEnd:
		return "end of input"
	case patternLabel:
		return p.label
	}
	return describe(p.token)
}

// Unclosed records the delimiter an unclosed-delimiter diagnostic refers to.
type Unclosed[T comparable] struct {
	Span      Span
	Delimiter T
}

// Error is a parse diagnostic.
type Error[T comparable] struct {
	Span     Span
	Reason   Reason
	Expected []Pattern[T]
	// Found is nil when the end of input was found.
	Found *T
	// Delimiter is set for ReasonUnclosed.
	Delimiter *Unclosed[T]
	// Message is set for ReasonCustom.
	Message string
}

// ExpectedFound creates a diagnostic for an unexpected token or end of input.
func ExpectedFound[T comparable](span Span, expected []Pattern[T], found *T) Error[T] {
	return Error[T]{Span: span, Reason: ReasonUnexpected, Expected: dedupe(nil, expected), Found: found}
}

// ExpectedTokensFound is ExpectedFound for a list of concrete tokens.
func ExpectedTokensFound[T comparable](span Span, expected []T, found *T) Error[T] {
	patterns := make([]Pattern[T], len(expected))
	for i, tok := range expected {
		patterns[i] = TokenPattern(tok)
	}
	return ExpectedFound(span, patterns, found)
}

// ExpectedLabelFound creates a diagnostic expecting a labelled construct.
func ExpectedLabelFound[T comparable](span Span, label string, found *T) Error[T] {
	return ExpectedFound(span, []Pattern[T]{LabelPattern[T](label)}, found)
}

// UnclosedDelimiter creates a diagnostic for a delimiter opened at openSpan
// that was not closed before span.
func UnclosedDelimiter[T comparable](openSpan Span, open T, span Span, close T, found *T) Error[T] {
	return Error[T]{
		Span:      span,
		Reason:    ReasonUnclosed,
		Expected:  []Pattern[T]{TokenPattern(close)},
		Found:     found,
		Delimiter: &Unclosed[T]{Span: openSpan, Delimiter: open},
	}
}

// Custom creates a diagnostic with a free-form message.
func Custom[T comparable](span Span, msg string) Error[T] {
	return Error[T]{Span: span, Reason: ReasonCustom, Message: msg}
}

// Merge combines two diagnostics raised at the same position. Expected sets
// are unioned; an unclosed-delimiter reason takes precedence over others.
func (e Error[T]) Merge(other Error[T]) Error[T] {
	out := e
	if e.Reason != ReasonUnclosed && other.Reason == ReasonUnclosed {
		out.Reason = other.Reason
		out.Delimiter = other.Delimiter
	}
	if out.Message == "" {
		out.Message = other.Message
	}
	out.Expected = dedupe(dedupe(nil, e.Expected), other.Expected)
	return out
}

// WithLabel replaces what the diagnostic expected with label.
func (e Error[T]) WithLabel(label string) Error[T] {
	e.Expected = []Pattern[T]{LabelPattern[T](label)}
	return e
}

// Expects reports whether p is in the expected set.
func (e Error[T]) Expects(p Pattern[T]) bool {
	for _, x := range e.Expected {
		if x == p {
			return true
		}
	}
	return false
}

func (e Error[T]) found() string {
	if e.Found == nil {
		return "end of input"
	}
	return describe(*e.Found)
}

func (e Error[T]) expected() string {
	parts := make([]string, len(e.Expected))
	for i, p := range e.Expected {
		parts[i] = p.String()
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
}

// Describe returns the message without the span.
func (e Error[T]) Describe() string {
	switch e.Reason {
	case ReasonCustom:
		return e.Message
	case ReasonUnclosed:
		msg := "unclosed delimiter"
		if e.Delimiter != nil {
			msg = fmt.Sprintf("unclosed delimiter %s opened at %s", describe(e.Delimiter.Delimiter), e.Delimiter.Span)
		}
		if exp := e.expected(); exp != "" {
			return fmt.Sprintf("%s, expected %s, found %s", msg, exp, e.found())
		}
		return fmt.Sprintf("%s, found %s", msg, e.found())
	}
	if exp := e.expected(); exp != "" {
		return fmt.Sprintf("expected %s, found %s", exp, e.found())
	}
	return "unexpected " + e.found()
}

func (e Error[T]) Error() string {
	return e.Span.String() + ": " + e.Describe()
}

// ErrorList is the list of diagnostics produced by a parse.
type ErrorList[T comparable] []Error[T]

// Len returns the number of diagnostics.
func (l ErrorList[T]) Len() int {
	return len(l)
}

// Sort orders diagnostics by position.
func (l ErrorList[T]) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		if l[i].Span.Start != l[j].Span.Start {
			return l[i].Span.Start < l[j].Span.Start
		}
		return l[i].Span.End < l[j].Span.End
	})
}

func (l ErrorList[T]) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Err returns nil for an empty list and the list itself otherwise.
func (l ErrorList[T]) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func dedupe[T comparable](dst, src []Pattern[T]) []Pattern[T] {
outer:
	for _, p := range src {
		for _, q := range dst {
			if p == q {
				continue outer
			}
		}
		dst = append(dst, p)
	}
	return dst
}

func describe(v any) string {
	switch x := v.(type) {
	case rune:
		return strconv.QuoteRune(x)
	case byte:
		return strconv.QuoteRune(rune(x))
	case string:
		return strconv.Quote(x)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprintf("%v", v)
}
