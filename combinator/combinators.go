package combinator

import (
	"slices"

	"github.com/dhamidi/pcomb/input"
)

// Always succeeds without consuming input, producing values.
func Always[T any](values ...T) Parser[T] {
	return New(func(v input.View) Outcome[T] {
		return Success(slices.Clone(values), v)
	})
}

// Never fails without consuming input.
func Never[T any](msg string) Parser[T] {
	return New(func(v input.View) Outcome[T] {
		return Failure[T](&Error{Offset: v.Offset(), Message: msg}, v)
	})
}

// Concat runs p1 then p2 and appends their values.
func Concat[T any](p1, p2 Parser[T]) Parser[T] {
	return p1.Chain(func(first []T) Parser[T] {
		return p2.Map(func(second []T) []T {
			out := make([]T, 0, len(first)+len(second))
			out = append(out, first...)
			return append(out, second...)
		})
	})
}

// Sequence runs parsers one after another. An empty sequence succeeds
// without consuming input or producing values.
func Sequence[T any](parsers ...Parser[T]) Parser[T] {
	if len(parsers) == 0 {
		return Always[T]()
	}
	acc := parsers[0]
	for _, p := range parsers[1:] {
		acc = Concat(acc, p)
	}
	return acc
}

// Alternate tries each parser against the same input in order and returns
// the first success. If all fail, the failure aggregates every branch error.
func Alternate[T any](parsers ...Parser[T]) Parser[T] {
	if len(parsers) == 1 {
		return parsers[0]
	}
	return New(func(v input.View) Outcome[T] {
		causes := make([]*Error, 0, len(parsers))
		for _, p := range parsers {
			o := p.Run(v)
			if o.Succeeded() {
				return o
			}
			causes = append(causes, o.Err())
		}
		if len(causes) == 0 {
			return Fail[T](v, "no alternatives")
		}
		return Failure[T](&Error{Offset: v.Offset(), Causes: causes}, v)
	})
}

// Maybe matches p zero or one time. It never fails; when p fails it succeeds
// with no values and consumes nothing.
func Maybe[T any](p Parser[T]) Parser[T] {
	return New(func(v input.View) Outcome[T] {
		o := p.Run(v)
		if o.Succeeded() {
			return o
		}
		return Success[T](nil, v)
	})
}

// Lookahead succeeds without consuming input or producing values iff p
// succeeds at the current position.
func Lookahead[T any](p Parser[T]) Parser[T] {
	return New(func(v input.View) Outcome[T] {
		o := p.Run(v)
		if o.Succeeded() {
			return Success[T](nil, v)
		}
		return Failure[T](o.Err(), v)
	})
}

// Star matches p zero or more times. The repetition ends at the first failing
// iteration or at the first one that consumes nothing.
func Star[T any](p Parser[T]) Parser[T] {
	return New(func(v input.View) Outcome[T] {
		values, rest := repeat(p, v)
		return Success(values, rest)
	})
}

// Plus matches p one or more times.
func Plus[T any](p Parser[T]) Parser[T] {
	return New(func(v input.View) Outcome[T] {
		first := p.Run(v)
		if !first.Succeeded() {
			return Failure[T](first.Err().Wrap("repetition failed"), v)
		}
		if first.Rest().Offset() == v.Offset() {
			return first
		}
		more, rest := repeat(p, first.Rest())
		return Success(append(slices.Clone(first.Values()), more...), rest)
	})
}

func repeat[T any](p Parser[T], v input.View) ([]T, input.View) {
	var values []T
	rest := v
	for {
		o := p.Run(rest)
		if !o.Succeeded() || o.Rest().Offset() == rest.Offset() {
			return values, rest
		}
		values = append(values, o.Values()...)
		rest = o.Rest()
	}
}

// EOF succeeds, consuming nothing, iff there is no input left.
func EOF[T any]() Parser[T] {
	return New(func(v input.View) Outcome[T] {
		if v.Empty() {
			return Success[T](nil, v)
		}
		r, _ := v.Head()
		return Fail[T](v, "expected end of input, found %q", string(r))
	})
}

// Delayed defers obtaining the parser until it is run. It allows parsers to
// refer to themselves or to parsers that are defined later.
func Delayed[T any](supplier func() Parser[T]) Parser[T] {
	return New(func(v input.View) Outcome[T] {
		return supplier().Run(v)
	})
}

// Named attributes failures of p to the rule name.
func Named[T any](name string, p Parser[T]) Parser[T] {
	return p.MapErr(func(err *Error) *Error {
		return &Error{Offset: err.Offset, Rule: name, Causes: []*Error{err}}
	})
}
