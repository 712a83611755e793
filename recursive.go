package comb

// Recursive is a parser whose definition may refer to itself, directly or
// through other rules. Declare it, build the rules that use it, then tie
// the knot with Define.
type Recursive[T comparable, O any] struct {
	cell *recursiveCell[T, O]
}

type recursiveCell[T comparable, O any] struct {
	inner Parser[T, O]
}

// Declare creates an undefined recursive parser.
func Declare[T comparable, O any]() Recursive[T, O] {
	return Recursive[T, O]{cell: &recursiveCell[T, O]{}}
}

// Recurse builds a self-referential parser: body receives the parser being
// defined and returns its definition.
//
//	nested := comb.Recurse(func(self comb.Parser[rune, int]) comb.Parser[rune, int] {
//		inner := comb.ThenIgnore(comb.IgnoreThen(comb.Just('('), self), comb.Just(')'))
//		return comb.Or(comb.Map(inner, func(n int) int { return n + 1 }), comb.To(comb.Just('x'), 0))
//	})
func Recurse[T comparable, O any](body func(self Parser[T, O]) Parser[T, O]) Recursive[T, O] {
	r := Declare[T, O]()
	r.Define(body(r))
	return r
}

// Define sets the definition. It panics if r is already defined.
func (r Recursive[T, O]) Define(p Parser[T, O]) {
	if r.cell.inner != nil {
		panic("comb: recursive parser defined twice")
	}
	r.cell.inner = p
}

func (r Recursive[T, O]) ParseInner(s *Stream[T]) Result[T, O] {
	inner := r.cell.inner
	if inner == nil {
		panic("comb: recursive parser used before it was defined")
	}
	return inner.ParseInner(s)
}
