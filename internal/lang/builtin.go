package lang

import (
	"fmt"
	"strconv"

	"github.com/dhamidi/comb/calc"
	"github.com/dhamidi/comb/json"
	"github.com/xlab/treeprint"
)

func init() {
	register(&Language{
		Name:       "json",
		Extensions: []string{".json"},
		parse:      parseJSON,
		plain:      func(v any) any { return v.(json.Value).Interface() },
		tree:       func(v any, t treeprint.Tree) { jsonTree(v.(json.Value), t) },
	})
	register(&Language{
		Name:       "calc",
		Extensions: []string{".calc"},
		parse:      parseCalc,
		plain:      calcPlain,
		tree:       func(v any, t treeprint.Tree) { calcTree(v.(calc.Expr), t) },
	})
}

func parseJSON(src string, recovery bool) Result {
	var opts []json.Option
	if !recovery {
		opts = append(opts, json.WithoutRecovery())
	}
	v, ok, errs := json.ParseRecovery(src, opts...)
	return Result{Value: v, OK: ok, Diagnostics: Diagnostics(src, errs)}
}

func jsonTree(v json.Value, t treeprint.Tree) {
	switch v.Kind {
	case json.KindArray:
		branch := t.AddMetaBranch(v.Span.String(), fmt.Sprintf("array[%d]", len(v.Array)))
		for _, x := range v.Array {
			jsonTree(x, branch)
		}
	case json.KindObject:
		branch := t.AddMetaBranch(v.Span.String(), fmt.Sprintf("object{%d}", len(v.Object)))
		for _, m := range v.Object {
			jsonTree(m.Value, branch.AddBranch(strconv.Quote(m.Key)))
		}
	case json.KindString:
		t.AddMetaNode(v.Span.String(), strconv.Quote(v.String))
	case json.KindNumber:
		t.AddMetaNode(v.Span.String(), v.Number.String())
	case json.KindBool:
		t.AddMetaNode(v.Span.String(), strconv.FormatBool(v.Bool))
	default:
		t.AddMetaNode(v.Span.String(), v.Kind.String())
	}
}

func parseCalc(src string, recovery bool) Result {
	var opts []calc.Option
	if !recovery {
		opts = append(opts, calc.WithoutRecovery())
	}
	e, ok, errs := calc.ParseRecovery(src, opts...)
	var value any
	if ok {
		value = e
	}
	return Result{Value: value, OK: ok, Diagnostics: Diagnostics(src, errs)}
}

func calcPlain(v any) any {
	e := v.(calc.Expr)
	out := map[string]any{"expr": e.String()}
	if n, err := calc.Eval(e, nil); err == nil {
		out["value"] = n.String()
	} else {
		out["error"] = err.Error()
	}
	return out
}

func calcTree(e calc.Expr, t treeprint.Tree) {
	meta := e.Span().String()
	switch e := e.(type) {
	case *calc.Binary:
		branch := t.AddMetaBranch(meta, e.Op)
		calcTree(e.X, branch)
		calcTree(e.Y, branch)
	case *calc.Neg:
		calcTree(e.X, t.AddMetaBranch(meta, "-"))
	case *calc.Call:
		branch := t.AddMetaBranch(meta, e.Func+"()")
		for _, a := range e.Args {
			calcTree(a, branch)
		}
	default:
		t.AddMetaNode(meta, e.String())
	}
}
