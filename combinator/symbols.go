package combinator

import (
	"github.com/dhamidi/pcomb/input"
	"github.com/dhamidi/pcomb/symbol"
)

// Collapse flattens the values of p into one Value holding their
// concatenated text. Labels and markers are discarded. A match that produced
// no Value at all collapses to nothing.
func Collapse(p Parser[symbol.Symbol]) Parser[symbol.Symbol] {
	return collapse(p, false)
}

// Literal is Collapse that always produces exactly one Value, possibly empty.
func Literal(p Parser[symbol.Symbol]) Parser[symbol.Symbol] {
	return collapse(p, true)
}

func collapse(p Parser[symbol.Symbol], always bool) Parser[symbol.Symbol] {
	return New(func(v input.View) Outcome[symbol.Symbol] {
		o := p.Run(v)
		if !o.Succeeded() {
			return o
		}
		if !always && !hasValue(o.Values()) {
			return Success[symbol.Symbol](nil, o.Rest())
		}
		text := symbol.Collapse(o.Values())
		return Success([]symbol.Symbol{symbol.ValueAt(text, v.Offset(), o.Rest().Offset())}, o.Rest())
	})
}

func hasValue(symbols []symbol.Symbol) bool {
	for _, s := range symbols {
		switch s.Kind {
		case symbol.KindValue:
			return true
		case symbol.KindNonterminal:
			if hasValue(s.Children) {
				return true
			}
		}
	}
	return false
}

// Parent wraps the values of p in a single Nonterminal labeled label. This is
// the only operation that introduces nesting.
func Parent(label string, p Parser[symbol.Symbol]) Parser[symbol.Symbol] {
	return New(func(v input.View) Outcome[symbol.Symbol] {
		o := p.Run(v)
		if !o.Succeeded() {
			return o
		}
		n := symbol.Nonterminal(label, o.Values()...)
		n.Start, n.End = v.Offset(), o.Rest().Offset()
		return Success([]symbol.Symbol{n}, o.Rest())
	})
}

// Ignore matches p and discards its values.
func Ignore(p Parser[symbol.Symbol]) Parser[symbol.Symbol] {
	return p.Map(func([]symbol.Symbol) []symbol.Symbol { return nil })
}
