// Package calc parses and evaluates arithmetic expressions such as
// "max(2, x) * -(1.5 + y) % 7".
//
// Input is tokenized with an EBNF lexical grammar before parsing. A syntax
// error inside parentheses turns that group into an Invalid node and parsing
// continues after the closing parenthesis.
package calc

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/dhamidi/comb"
	"github.com/dhamidi/comb/lex"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/ebnf"
)

//go:embed calc.ebnf
var lexicalGrammarSource string

var lexicalGrammar ebnf.Grammar

func init() {
	g, err := lex.ParseGrammar("calc.ebnf", strings.NewReader(lexicalGrammarSource))
	if err != nil {
		panic(fmt.Sprintf("failed to parse calc grammar: %v", err))
	}
	lexicalGrammar = g
}

// LexicalGrammar returns the grammar used to tokenize expressions.
func LexicalGrammar() ebnf.Grammar {
	return lexicalGrammar
}

var (
	lparen = lex.Token{Kind: "Punct", Literal: "("}
	rparen = lex.Token{Kind: "Punct", Literal: ")"}
	comma  = lex.Token{Kind: "Punct", Literal: ","}
)

type config struct {
	recovery bool
}

// Option configures the grammar.
type Option func(*config)

// WithoutRecovery makes the parser stop at the first syntax error.
func WithoutRecovery() Option {
	return func(c *config) {
		c.recovery = false
	}
}

func punct(lit string) comb.Parser[lex.Token, lex.Token] {
	return lex.Literal("Punct", lit)
}

func operator(lits ...string) comb.Parser[lex.Token, string] {
	ps := make([]comb.Parser[lex.Token, string], len(lits))
	for i, lit := range lits {
		ps[i] = comb.To(punct(lit), lit)
	}
	return comb.Choice(ps[0], ps[1:]...)
}

func parenthesized[O any](p comb.Parser[lex.Token, O], recovery bool) comb.Parser[lex.Token, *O] {
	if recovery {
		return comb.DelimitedBy(p, lparen, rparen)
	}
	inner := comb.ThenIgnore(comb.IgnoreThen(comb.Just(lparen), p), comb.Just(rparen))
	return comb.Map(inner, func(o O) *O { return &o })
}

func binary(x Expr, rhs comb.Pair[string, Expr]) Expr {
	return &Binary{Op: rhs.First, X: x, Y: rhs.Second, At: x.Span().Union(rhs.Second.Span())}
}

// Grammar returns the expression grammar over calc tokens. Whitespace
// tokens must already be filtered out.
func Grammar(opts ...Option) comb.BoxedParser[lex.Token, Expr] {
	cfg := config{recovery: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	return comb.Boxed[lex.Token, Expr](comb.Recurse(func(expr comb.Parser[lex.Token, Expr]) comb.Parser[lex.Token, Expr] {
		num := comb.TryMap(lex.Kind("Number"), func(t lex.Token, span comb.Span) (Expr, error) {
			d, err := decimal.NewFromString(t.Literal)
			if err != nil {
				return nil, err
			}
			return &Num{Value: d, At: span}, nil
		})
		variable := comb.MapWithSpan(lex.Kind("Ident"), func(t lex.Token, span comb.Span) Expr {
			return &Var{Name: t.Literal, At: span}
		})

		args := parenthesized[[]Expr](comb.SeparatedBy(expr, comb.Just(comma)), cfg.recovery)
		call := comb.MapWithSpan(comb.Then(lex.Kind("Ident"), args), func(p comb.Pair[lex.Token, *[]Expr], span comb.Span) Expr {
			if p.Second == nil {
				return &Invalid{At: span}
			}
			return &Call{Func: p.First.Literal, Args: *p.Second, At: span}
		})
		group := comb.MapWithSpan(parenthesized(expr, cfg.recovery), func(e *Expr, span comb.Span) Expr {
			if e == nil {
				return &Invalid{At: span}
			}
			return *e
		})

		atom := comb.Labelled(comb.Choice(num, call, variable, group), "expression")

		minus := comb.MapWithSpan(punct("-"), func(_ lex.Token, span comb.Span) comb.Span { return span })
		unary := comb.Labelled(comb.Foldr(comb.Then(comb.Repeated(minus), atom), func(at comb.Span, x Expr) Expr {
			return &Neg{X: x, At: at.Union(x.Span())}
		}), "expression")
		product := comb.Foldl(comb.Then(unary, comb.Repeated(comb.Then(operator("*", "/", "%"), unary))), binary)
		return comb.Foldl(comb.Then(product, comb.Repeated(comb.Then(operator("+", "-"), product))), binary)
	}))
}

// Stream tokenizes src for Grammar, dropping whitespace.
func Stream(src string) *comb.Stream[lex.Token] {
	return lex.New(lexicalGrammar, []byte(src), lex.WithSkipKinds("WhiteSpace")).Stream()
}

func program(opts []Option) comb.Parser[lex.Token, Expr] {
	return comb.ThenIgnore(Grammar(opts...), comb.End[lex.Token]())
}

// Parse parses a complete expression. Any syntax error makes it fail; the
// error is a comb.ErrorList[lex.Token] with spans in bytes.
func Parse(src string, opts ...Option) (Expr, error) {
	return comb.Parse(program(opts), Stream(src))
}

// Binding is a line of input: either "name = expr" or a bare expression,
// in which case Name is empty.
type Binding struct {
	Name string
	Expr Expr
}

func statement(opts []Option) comb.Parser[lex.Token, Binding] {
	var expr comb.Parser[lex.Token, Expr] = Grammar(opts...)
	assign := comb.Map(comb.Then(comb.ThenIgnore(lex.Kind("Ident"), punct("=")), expr), func(p comb.Pair[lex.Token, Expr]) Binding {
		return Binding{Name: p.First.Literal, Expr: p.Second}
	})
	bare := comb.Map(expr, func(e Expr) Binding { return Binding{Expr: e} })
	return comb.ThenIgnore(comb.Or(assign, bare), comb.End[lex.Token]())
}

// ParseStatement parses a binding or a bare expression, returning a
// best-effort result along with every syntax error.
func ParseStatement(src string, opts ...Option) (Binding, bool, comb.ErrorList[lex.Token]) {
	return comb.ParseRecovery(statement(opts), Stream(src))
}

// ParseRecovery parses a complete expression, returning a best-effort tree
// along with every syntax error.
func ParseRecovery(src string, opts ...Option) (Expr, bool, comb.ErrorList[lex.Token]) {
	return comb.ParseRecovery(program(opts), Stream(src))
}
