package json

import (
	"github.com/dhamidi/comb"
	"github.com/shopspring/decimal"
)

// Kind identifies the type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	// KindInvalid marks a value that could not be parsed and was skipped
	// by error recovery.
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindInvalid:
		return "invalid"
	}
	return "unknown"
}

// Value is a parsed JSON value. Only the field matching Kind is set.
type Value struct {
	Kind   Kind
	Bool   bool
	Number decimal.Decimal
	String string
	Array  []Value
	Object []Member
	// Span is the byte range the value was parsed from.
	Span comb.Span
}

// Member is one key/value pair of an object. Members keep source order and
// duplicate keys are preserved.
type Member struct {
	Key   string
	Value Value
}

// Get returns the value of the last member named key.
func (v Value) Get(key string) (Value, bool) {
	for i := len(v.Object) - 1; i >= 0; i-- {
		if v.Object[i].Key == key {
			return v.Object[i].Value, true
		}
	}
	return Value{}, false
}

var maxExactInt = decimal.New(1, 18)

// Interface converts v to plain Go values: nil, bool, int64 or float64,
// string, []any and map[string]any. Invalid values become nil.
func (v Value) Interface() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		if v.Number.IsInteger() && v.Number.Abs().LessThan(maxExactInt) {
			return v.Number.IntPart()
		}
		return v.Number.InexactFloat64()
	case KindString:
		return v.String
	case KindArray:
		out := make([]any, len(v.Array))
		for i, x := range v.Array {
			out[i] = x.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.Object))
		for _, m := range v.Object {
			out[m.Key] = m.Value.Interface()
		}
		return out
	}
	return nil
}
