package comb

// Located pairs a diagnostic with the stream offset it was raised at.
type Located[T comparable] struct {
	At  int
	Err Error[T]
}

// At creates a located diagnostic.
func At[T comparable](at int, err Error[T]) Located[T] {
	return Located[T]{At: at, Err: err}
}

// Max keeps the diagnostic that got further into the input. Diagnostics at
// the same offset are merged, keeping l's position and span.
func (l Located[T]) Max(other Located[T]) Located[T] {
	switch {
	case l.At > other.At:
		return l
	case other.At > l.At:
		return other
	}
	return Located[T]{At: l.At, Err: l.Err.Merge(other.Err)}
}

// MaxOf is Max with an optional other side.
func (l Located[T]) MaxOf(other *Located[T]) Located[T] {
	if other == nil {
		return l
	}
	return l.Max(*other)
}

// Map transforms the diagnostic, keeping its position.
func (l Located[T]) Map(f func(Error[T]) Error[T]) Located[T] {
	return Located[T]{At: l.At, Err: f(l.Err)}
}

func mergeAlts[T comparable](a, b *Located[T]) *Located[T] {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	m := a.Max(*b)
	return &m
}

func errorsOf[T comparable](located []Located[T]) ErrorList[T] {
	if len(located) == 0 {
		return nil
	}
	out := make(ErrorList[T], len(located))
	for i, l := range located {
		out[i] = l.Err
	}
	return out
}
