// Package combinator implements a parser-combinator algebra.
//
// A Parser is a pure function from an input.View to an Outcome. Parsers are
// built once from smaller parsers and can be run any number of times;
// backtracking is re-running a parser against an earlier view, so no state is
// shared between alternatives.
//
// The algebra is generic over the value type. Character-level primitives and
// the tree-building operations (Collapse, Literal, Parent, Ignore) work on
// symbol.Symbol values.
package combinator

import "github.com/dhamidi/pcomb/input"

// Parser wraps a parse function.
type Parser[T any] struct {
	parse func(input.View) Outcome[T]
}

// New creates a Parser from a parse function.
func New[T any](fn func(input.View) Outcome[T]) Parser[T] {
	return Parser[T]{parse: fn}
}

// Run applies the parser to v.
func (p Parser[T]) Run(v input.View) Outcome[T] {
	return p.parse(v)
}

// Parse applies the parser to the whole of text.
func (p Parser[T]) Parse(text string) Outcome[T] {
	return p.parse(input.New(text))
}

// Map transforms the values of successful runs.
func (p Parser[T]) Map(f func([]T) []T) Parser[T] {
	return New(func(v input.View) Outcome[T] {
		return p.parse(v).Map(f)
	})
}

// Bimap transforms values of successful runs with fs and errors of failed
// runs with ff.
func (p Parser[T]) Bimap(fs func([]T) []T, ff func(*Error) *Error) Parser[T] {
	return New(func(v input.View) Outcome[T] {
		return p.parse(v).Bimap(fs, ff)
	})
}

// MapErr transforms the errors of failed runs.
func (p Parser[T]) MapErr(ff func(*Error) *Error) Parser[T] {
	return p.Bimap(identity[T], ff)
}

// Chain runs p, then the parser built by f from p's values, continuing where
// p stopped.
func (p Parser[T]) Chain(f func([]T) Parser[T]) Parser[T] {
	return New(func(v input.View) Outcome[T] {
		return p.parse(v).Chain(f)
	})
}

// Fold runs p and dispatches on the variant of its outcome.
func (p Parser[T]) Fold(onSuccess func([]T, input.View) Outcome[T], onFailure func(*Error, input.View) Outcome[T]) Parser[T] {
	return New(func(v input.View) Outcome[T] {
		return p.parse(v).Fold(onSuccess, onFailure)
	})
}

func identity[T any](vs []T) []T { return vs }
