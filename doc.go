// Package comb is a parser combinator engine with error recovery.
//
// Grammars are built from small parsers combined with Then, Or, Repeated,
// SeparatedBy, Map, Labelled and friends. Every parser reports a Result:
// diagnostics it recovered from, plus either an output or a fatal
// diagnostic. Recovery strategies attached with RecoverWith let parsing
// continue past a syntax error with a best-effort output, so a single pass
// reports every problem it can find:
//
//	digits := text.Digits(10)
//	list := comb.Repeated(comb.RecoverWith(digits, comb.SkipThenRetryUntil[string](';')))
//	out, ok, errs := comb.ParseStringRecovery(list, "12a34")
//	// out == []string{"12", "34"}, ok == true, len(errs) == 1
//
// Lookahead is limited to a single token; a failing branch never leaves the
// cursor where it stopped, because Or, OrNot, Repeated and RecoverWith run
// their children under Try. When two branches fail, the diagnostic that got
// further into the input wins and equally deep diagnostics are merged.
//
// Parsers are immutable once built. One parser value may be used by any
// number of goroutines, each driving its own Stream.
package comb
