package comb

// BoxedParser is a cheaply copyable handle to a parser. Copies share the
// underlying parser, so naming and storing a grammar rule never duplicates
// it.
type BoxedParser[T comparable, O any] struct {
	inner Parser[T, O]
}

// Boxed wraps p in a BoxedParser. Boxing a boxed parser returns it as is.
func Boxed[T comparable, O any](p Parser[T, O]) BoxedParser[T, O] {
	if b, ok := p.(BoxedParser[T, O]); ok {
		return b
	}
	return BoxedParser[T, O]{inner: p}
}

func (b BoxedParser[T, O]) ParseInner(s *Stream[T]) Result[T, O] {
	return b.inner.ParseInner(s)
}

// Or is the method form of Or.
func (b BoxedParser[T, O]) Or(other Parser[T, O]) BoxedParser[T, O] {
	return Boxed(Or[T, O](b, other))
}

// Labelled is the method form of Labelled.
func (b BoxedParser[T, O]) Labelled(label string) BoxedParser[T, O] {
	return Boxed(Labelled[T, O](b, label))
}

// MapErr is the method form of MapErr.
func (b BoxedParser[T, O]) MapErr(f func(Error[T]) Error[T]) BoxedParser[T, O] {
	return Boxed(MapErr[T, O](b, f))
}

// RecoverWith is the method form of RecoverWith.
func (b BoxedParser[T, O]) RecoverWith(strategy Strategy[T, O]) BoxedParser[T, O] {
	return Boxed(RecoverWith[T, O](b, strategy))
}

// Parse is the method form of Parse.
func (b BoxedParser[T, O]) Parse(s *Stream[T]) (O, error) {
	return Parse[T, O](b, s)
}

// ParseRecovery is the method form of ParseRecovery.
func (b BoxedParser[T, O]) ParseRecovery(s *Stream[T]) (O, bool, ErrorList[T]) {
	return ParseRecovery[T, O](b, s)
}
