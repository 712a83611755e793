// Package lex turns bytes into token streams using an EBNF lexical grammar.
//
// Every production whose name starts with an uppercase letter is a token
// kind. At each position the lexer tries all of them and keeps the longest
// match; ties go to the alphabetically first kind. Bytes no production
// matches come out as single ERROR tokens, so lexing never fails and the
// parser gets to report the problem in context.
package lex

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/comb"
	"github.com/tliron/commonlog"
	"golang.org/x/exp/ebnf"
)

var log = commonlog.GetLogger("comb.lex")

// Token kinds produced by the lexer itself.
const (
	EOF   = "EOF"
	ERROR = "ERROR"
)

// Position represents a location in source code.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a lexical token. It is comparable, so it can be the element type
// of a comb.Stream.
type Token struct {
	Kind    string
	Literal string
}

func (t Token) String() string {
	switch {
	case t.Kind == EOF:
		return "end of input"
	case t.Literal == "":
		return t.Kind
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Literal)
}

// Item is a token together with where it was read.
type Item struct {
	Token
	Position Position
	End      int
}

// Span returns the byte range of the item.
func (i Item) Span() comb.Span {
	return comb.Span{Start: i.Position.Offset, End: i.End}
}

func (i Item) String() string {
	return fmt.Sprintf("%s %s %q", i.Position, i.Kind, i.Literal)
}

// memoKey is used for memoization of match results.
type memoKey struct {
	name   string
	offset int
}

// Lexer tokenizes input based on an EBNF grammar.
type Lexer struct {
	grammar  ebnf.Grammar
	kinds    []string
	skip     map[string]bool
	input    []byte
	filename string
	pos      int
	line     int
	column   int
	memo     map[memoKey]int  // match length, -1 = no match
	visiting map[memoKey]bool // cycle detection
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithFile sets the file name reported in positions.
func WithFile(name string) Option {
	return func(l *Lexer) {
		l.filename = name
	}
}

// WithSkipKinds drops tokens of the given kinds, typically whitespace and
// comments, from the lexer's output.
func WithSkipKinds(kinds ...string) Option {
	return func(l *Lexer) {
		for _, k := range kinds {
			l.skip[k] = true
		}
	}
}

// New creates a lexer for the given grammar and input.
func New(grammar ebnf.Grammar, input []byte, opts ...Option) *Lexer {
	l := &Lexer{
		grammar:  grammar,
		kinds:    Kinds(grammar),
		skip:     make(map[string]bool),
		input:    input,
		line:     1,
		column:   1,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Kinds returns the token kinds a grammar defines, sorted.
func Kinds(grammar ebnf.Grammar) []string {
	var kinds []string
	for name, prod := range grammar {
		if prod.Expr == nil || !isTokenName(name) {
			continue
		}
		kinds = append(kinds, name)
	}
	sort.Strings(kinds)
	return kinds
}

func isTokenName(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

// LoadGrammar loads an EBNF grammar from a file.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return ParseGrammar(filename, f)
}

// ParseGrammar parses an EBNF grammar. Every name the grammar refers to must
// be defined.
func ParseGrammar(filename string, r io.Reader) (ebnf.Grammar, error) {
	grammar, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if err := checkNames(grammar); err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return grammar, nil
}

// Verify checks that every production is reachable from start, on top of
// the checks ParseGrammar makes.
func Verify(grammar ebnf.Grammar, start string) error {
	if err := ebnf.Verify(grammar, start); err != nil {
		return fmt.Errorf("verify grammar: %w", err)
	}
	return nil
}

func checkNames(grammar ebnf.Grammar) error {
	var undefined []string
	var walk func(ebnf.Expression)
	walk = func(expr ebnf.Expression) {
		switch e := expr.(type) {
		case ebnf.Sequence:
			for _, x := range e {
				walk(x)
			}
		case ebnf.Alternative:
			for _, x := range e {
				walk(x)
			}
		case *ebnf.Repetition:
			walk(e.Body)
		case *ebnf.Option:
			walk(e.Body)
		case *ebnf.Group:
			walk(e.Body)
		case *ebnf.Name:
			if _, ok := grammar[e.String]; !ok {
				undefined = append(undefined, e.String)
			}
		}
	}
	for _, prod := range grammar {
		walk(prod.Expr)
	}
	if len(undefined) == 0 {
		return nil
	}
	sort.Strings(undefined)
	return fmt.Errorf("undefined: %s", strings.Join(undefined, ", "))
}

// Position returns the current position in the input.
func (l *Lexer) Position() Position {
	return Position{
		Filename: l.filename,
		Offset:   l.pos,
		Line:     l.line,
		Column:   l.column,
	}
}

func (l *Lexer) advance(n int) {
	for _, ch := range l.input[l.pos : l.pos+n] {
		switch {
		case ch == '\n':
			l.line++
			l.column = 1
		case utf8.RuneStart(ch):
			l.column++
		}
	}
	l.pos += n
}

// NextToken returns the next token from the input. At the end of input it
// returns an EOF item and io.EOF.
func (l *Lexer) NextToken() (Item, error) {
	for {
		item, err := l.scan()
		if err != nil || !l.skip[item.Kind] {
			return item, err
		}
	}
}

func (l *Lexer) scan() (Item, error) {
	start := l.Position()
	if l.pos >= len(l.input) {
		return Item{Token: Token{Kind: EOF}, Position: start, End: l.pos}, io.EOF
	}

	// Positions change between tokens.
	clear(l.memo)

	var bestKind string
	bestLen := 0
	for _, name := range l.kinds {
		clear(l.visiting)
		n := l.tryMatch(l.grammar[name].Expr, l.pos)
		if n > bestLen {
			bestLen = n
			bestKind = name
		}
	}

	if bestLen == 0 {
		_, size := utf8.DecodeRune(l.input[l.pos:])
		lit := string(l.input[l.pos : l.pos+size])
		l.advance(size)
		log.Debugf("no token matches %q at %s", lit, start)
		return Item{Token: Token{Kind: ERROR, Literal: lit}, Position: start, End: l.pos}, nil
	}

	lit := string(l.input[l.pos : l.pos+bestLen])
	l.advance(bestLen)
	return Item{Token: Token{Kind: bestKind, Literal: lit}, Position: start, End: l.pos}, nil
}

// tryMatch attempts to match an expression at the given offset. It returns
// the length of the match or -1 if there is none; options and repetitions
// can match the empty string.
func (l *Lexer) tryMatch(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case *ebnf.Token:
		return l.tryMatchToken(e.String, offset)

	case *ebnf.Range:
		return l.tryMatchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		pos := offset
		for _, item := range e {
			n := l.tryMatch(item, pos)
			if n < 0 {
				return -1
			}
			pos += n
		}
		return pos - offset

	case ebnf.Alternative:
		best := -1
		for _, alt := range e {
			if n := l.tryMatch(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		pos := offset
		for {
			n := l.tryMatch(e.Body, pos)
			if n <= 0 {
				break
			}
			pos += n
		}
		return pos - offset

	case *ebnf.Option:
		return max(l.tryMatch(e.Body, offset), 0)

	case *ebnf.Group:
		return l.tryMatch(e.Body, offset)

	case *ebnf.Name:
		return l.tryMatchName(e.String, offset)
	}
	return -1
}

// tryMatchName matches a named production with memoization and cycle detection.
func (l *Lexer) tryMatchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if result, ok := l.memo[key]; ok {
		return result
	}
	// Left recursion.
	if l.visiting[key] {
		return -1
	}

	prod, ok := l.grammar[name]
	if !ok || prod.Expr == nil {
		l.memo[key] = -1
		return -1
	}

	l.visiting[key] = true
	result := l.tryMatch(prod.Expr, offset)
	delete(l.visiting, key)

	l.memo[key] = result
	return result
}

// tryMatchToken matches a literal string token. The ebnf package has
// already unquoted it.
func (l *Lexer) tryMatchToken(token string, offset int) int {
	if offset+len(token) > len(l.input) {
		return -1
	}
	if string(l.input[offset:offset+len(token)]) == token {
		return len(token)
	}
	return -1
}

// tryMatchRange matches a character range such as "a" … "z".
func (l *Lexer) tryMatchRange(begin, end string, offset int) int {
	if offset >= len(l.input) {
		return -1
	}
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	ch, size := utf8.DecodeRune(l.input[offset:])
	if ch >= lo && ch <= hi {
		return size
	}
	return -1
}

// Tokenize reads all tokens from input. The last item is always EOF.
func (l *Lexer) Tokenize() []Item {
	var items []Item
	for {
		item, err := l.NextToken()
		items = append(items, item)
		if err == io.EOF {
			return items
		}
	}
}

// Stream tokenizes the remaining input into a stream for parsing. Spans are
// byte offsets into the input.
func (l *Lexer) Stream() *comb.Stream[Token] {
	items := l.Tokenize()
	eof := items[len(items)-1]
	tokens := make([]comb.Token[Token], len(items)-1)
	for i, item := range items[:len(items)-1] {
		tokens[i] = comb.Token[Token]{Value: item.Token, Span: item.Span()}
	}
	return comb.NewStream(tokens, eof.Span())
}

// Kind accepts any token of the given kind.
func Kind(kind string) comb.Parser[Token, Token] {
	return comb.Labelled(comb.Filter(func(t Token) bool { return t.Kind == kind }), kind)
}

// Literal accepts exactly the token with the given kind and text.
func Literal(kind, lit string) comb.Parser[Token, Token] {
	return comb.Just(Token{Kind: kind, Literal: lit})
}
