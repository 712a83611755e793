package calc

import (
	"fmt"
	"strings"

	"github.com/dhamidi/comb"
	"github.com/shopspring/decimal"
)

// Expr is a node of the expression tree.
type Expr interface {
	// Span is the byte range the node was parsed from.
	Span() comb.Span
	String() string
}

// Num is a numeric literal.
type Num struct {
	Value decimal.Decimal
	At    comb.Span
}

// Var is a variable reference.
type Var struct {
	Name string
	At   comb.Span
}

// Neg is unary minus.
type Neg struct {
	X  Expr
	At comb.Span
}

// Binary is an infix operation; Op is one of + - * / %.
type Binary struct {
	Op   string
	X, Y Expr
	At   comb.Span
}

// Call is a function call.
type Call struct {
	Func string
	Args []Expr
	At   comb.Span
}

// Invalid stands in for a parenthesised expression or argument list that
// contained a syntax error.
type Invalid struct {
	At comb.Span
}

func (e *Num) Span() comb.Span     { return e.At }
func (e *Var) Span() comb.Span     { return e.At }
func (e *Neg) Span() comb.Span     { return e.At }
func (e *Binary) Span() comb.Span  { return e.At }
func (e *Call) Span() comb.Span    { return e.At }
func (e *Invalid) Span() comb.Span { return e.At }

func (e *Num) String() string     { return e.Value.String() }
func (e *Var) String() string     { return e.Name }
func (e *Neg) String() string     { return fmt.Sprintf("(-%s)", e.X) }
func (e *Binary) String() string  { return fmt.Sprintf("(%s %s %s)", e.X, e.Op, e.Y) }
func (e *Invalid) String() string { return "<invalid>" }

func (e *Call) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Func + "(" + strings.Join(args, ", ") + ")"
}

// Walk calls fn for e and each of its descendants, parents first. It stops
// descending into a node when fn returns false.
func Walk(e Expr, fn func(Expr) bool) {
	if !fn(e) {
		return
	}
	switch e := e.(type) {
	case *Neg:
		Walk(e.X, fn)
	case *Binary:
		Walk(e.X, fn)
		Walk(e.Y, fn)
	case *Call:
		for _, a := range e.Args {
			Walk(a, fn)
		}
	}
}
