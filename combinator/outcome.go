package combinator

import "github.com/dhamidi/pcomb/input"

// Outcome is the result of running a Parser: either a success carrying the
// produced values, or a failure carrying an Error. Both record the view the
// next parser should continue from.
type Outcome[T any] struct {
	values []T
	rest   input.View
	err    *Error
}

// Success creates a successful outcome.
func Success[T any](values []T, rest input.View) Outcome[T] {
	return Outcome[T]{values: values, rest: rest}
}

// Failure creates a failed outcome. err must not be nil.
func Failure[T any](err *Error, rest input.View) Outcome[T] {
	if err == nil {
		panic("combinator: Failure with nil error")
	}
	return Outcome[T]{err: err, rest: rest}
}

// Fail creates a failed outcome at the start of v.
func Fail[T any](v input.View, format string, args ...any) Outcome[T] {
	return Failure[T](Errorf(v.Offset(), format, args...), v)
}

// Succeeded reports whether the outcome is a success.
func (o Outcome[T]) Succeeded() bool { return o.err == nil }

// Values returns the values of a success, nil for a failure.
func (o Outcome[T]) Values() []T { return o.values }

// Rest returns the remaining input.
func (o Outcome[T]) Rest() input.View { return o.rest }

// Err returns the failure, nil for a success.
func (o Outcome[T]) Err() *Error { return o.err }

// Map transforms the values of a success. Failures pass through untouched.
func (o Outcome[T]) Map(f func([]T) []T) Outcome[T] {
	if o.err != nil {
		return o
	}
	return Success(f(o.values), o.rest)
}

// Bimap transforms the values of a success with fs or the error of a failure
// with ff.
func (o Outcome[T]) Bimap(fs func([]T) []T, ff func(*Error) *Error) Outcome[T] {
	if o.err != nil {
		return Failure[T](ff(o.err), o.rest)
	}
	return Success(fs(o.values), o.rest)
}

// Chain runs the parser returned by f against the remaining input of a
// success. Failures pass through untouched.
func (o Outcome[T]) Chain(f func([]T) Parser[T]) Outcome[T] {
	if o.err != nil {
		return o
	}
	return f(o.values).Run(o.rest)
}

// Fold dispatches on the variant of the outcome.
func (o Outcome[T]) Fold(onSuccess func([]T, input.View) Outcome[T], onFailure func(*Error, input.View) Outcome[T]) Outcome[T] {
	if o.err != nil {
		return onFailure(o.err, o.rest)
	}
	return onSuccess(o.values, o.rest)
}
