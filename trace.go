package comb

import (
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("comb")

// Trace logs entry to and exit from p at debug level, with the stream
// offsets and the outcome. Enable a commonlog backend to see the output.
func Trace[T comparable, O any](name string, p Parser[T, O]) Parser[T, O] {
	return ParserFunc[T, O](func(s *Stream[T]) Result[T, O] {
		start := s.Offset()
		log.Debugf("enter %s at %d", name, start)
		res := p.ParseInner(s)
		switch {
		case res.Err != nil:
			log.Debugf("fail %s at %d: %s", name, res.Err.At, res.Err.Err.Describe())
		case len(res.Errors) > 0:
			log.Debugf("exit %s %d..%d with %d recovered errors", name, start, s.Offset(), len(res.Errors))
		default:
			log.Debugf("exit %s %d..%d", name, start, s.Offset())
		}
		return res
	})
}
