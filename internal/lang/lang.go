// Package lang gives the packaged grammars a uniform interface for the
// command line tool and the language server.
package lang

import (
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/dhamidi/comb"
	"github.com/xlab/treeprint"
)

// Position is a location in source text. Line and Column are 1-based;
// Column counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Diagnostic is a syntax error in a form that does not depend on the
// grammar's token type.
type Diagnostic struct {
	Span    comb.Span
	Start   Position
	End     Position
	Message string
}

// Result is the outcome of parsing a document.
type Result struct {
	// Value is the grammar's own output, such as a json.Value.
	Value any
	// OK is false when nothing could be salvaged.
	OK          bool
	Diagnostics []Diagnostic
}

// Language is a named grammar.
type Language struct {
	Name       string
	Extensions []string
	parse      func(src string, recovery bool) Result
	plain      func(v any) any
	tree       func(v any, t treeprint.Tree)
}

// Parse parses src. Without recovery, parsing stops at the first error.
func (l *Language) Parse(src string, recovery bool) Result {
	return l.parse(src, recovery)
}

// Plain converts a parse output to plain Go values suitable for encoding.
func (l *Language) Plain(v any) any {
	return l.plain(v)
}

// Tree renders a parse output as a tree.
func (l *Language) Tree(v any) treeprint.Tree {
	t := treeprint.NewWithRoot(l.Name)
	l.tree(v, t)
	return t
}

var registry = map[string]*Language{}

func register(l *Language) {
	registry[l.Name] = l
}

// Lookup returns the language with the given name.
func Lookup(name string) (*Language, bool) {
	l, ok := registry[name]
	return l, ok
}

// ForFile returns the language for a file name, chosen by extension.
func ForFile(path string) (*Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, name := range Names() {
		l := registry[name]
		for _, e := range l.Extensions {
			if e == ext {
				return l, true
			}
		}
	}
	return nil, false
}

// Names returns the names of all languages, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Locate converts a byte offset in src to a position. Offsets past the end
// of src are clamped.
func Locate(src string, offset int) Position {
	offset = min(max(offset, 0), len(src))
	line, col := 1, 1
	for _, r := range src[:offset] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Position{Offset: offset, Line: line, Column: col}
}

// Diagnostics converts parse errors over any token type.
func Diagnostics[T comparable](src string, errs comb.ErrorList[T]) []Diagnostic {
	errs.Sort()
	out := make([]Diagnostic, len(errs))
	for i, e := range errs {
		out[i] = Diagnostic{
			Span:    e.Span,
			Start:   Locate(src, e.Span.Start),
			End:     Locate(src, e.Span.End),
			Message: e.Describe(),
		}
	}
	return out
}

// UTF16Column converts a position to a 0-based column in UTF-16 code units,
// as used by the language server protocol.
func UTF16Column(src string, p Position) int {
	start := strings.LastIndexByte(src[:p.Offset], '\n') + 1
	n := 0
	for _, r := range src[start:p.Offset] {
		n += utf16.RuneLen(r)
	}
	return n
}
