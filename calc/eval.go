package calc

import (
	"fmt"

	"github.com/dhamidi/comb"
	"github.com/shopspring/decimal"
)

// Env binds variable names to values.
type Env map[string]decimal.Decimal

// EvalError is an error raised while evaluating an expression.
type EvalError struct {
	Span    comb.Span
	Message string
}

func (e *EvalError) Error() string {
	return e.Span.String() + ": " + e.Message
}

func errorf(at comb.Span, format string, args ...any) error {
	return &EvalError{Span: at, Message: fmt.Sprintf(format, args...)}
}

type function struct {
	minArgs, maxArgs int // maxArgs < 0 means variadic
	apply            func(args []decimal.Decimal) decimal.Decimal
}

var functions = map[string]function{
	"abs": {1, 1, func(a []decimal.Decimal) decimal.Decimal { return a[0].Abs() }},
	"min": {1, -1, func(a []decimal.Decimal) decimal.Decimal { return decimal.Min(a[0], a[1:]...) }},
	"max": {1, -1, func(a []decimal.Decimal) decimal.Decimal { return decimal.Max(a[0], a[1:]...) }},
	"round": {1, 2, func(a []decimal.Decimal) decimal.Decimal {
		places := int32(0)
		if len(a) == 2 {
			places = int32(a[1].IntPart())
		}
		return a[0].Round(places)
	}},
}

// Eval evaluates e. Variables are looked up in env.
func Eval(e Expr, env Env) (decimal.Decimal, error) {
	switch e := e.(type) {
	case *Num:
		return e.Value, nil

	case *Var:
		v, ok := env[e.Name]
		if !ok {
			return decimal.Zero, errorf(e.At, "unknown variable %q", e.Name)
		}
		return v, nil

	case *Neg:
		x, err := Eval(e.X, env)
		if err != nil {
			return decimal.Zero, err
		}
		return x.Neg(), nil

	case *Binary:
		x, err := Eval(e.X, env)
		if err != nil {
			return decimal.Zero, err
		}
		y, err := Eval(e.Y, env)
		if err != nil {
			return decimal.Zero, err
		}
		switch e.Op {
		case "+":
			return x.Add(y), nil
		case "-":
			return x.Sub(y), nil
		case "*":
			return x.Mul(y), nil
		case "/", "%":
			if y.IsZero() {
				return decimal.Zero, errorf(e.Y.Span(), "division by zero")
			}
			if e.Op == "/" {
				return x.Div(y), nil
			}
			return x.Mod(y), nil
		}
		return decimal.Zero, errorf(e.At, "unknown operator %q", e.Op)

	case *Call:
		fn, ok := functions[e.Func]
		if !ok {
			return decimal.Zero, errorf(e.At, "unknown function %q", e.Func)
		}
		if len(e.Args) < fn.minArgs || (fn.maxArgs >= 0 && len(e.Args) > fn.maxArgs) {
			return decimal.Zero, errorf(e.At, "wrong number of arguments to %s: %d", e.Func, len(e.Args))
		}
		args := make([]decimal.Decimal, len(e.Args))
		for i, a := range e.Args {
			v, err := Eval(a, env)
			if err != nil {
				return decimal.Zero, err
			}
			args[i] = v
		}
		return fn.apply(args), nil

	case *Invalid:
		return decimal.Zero, errorf(e.At, "cannot evaluate invalid expression")
	}
	return decimal.Zero, fmt.Errorf("unsupported expression %T", e)
}
