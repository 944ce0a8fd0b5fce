package combinator

import (
	"fmt"

	"github.com/dhamidi/pcomb/input"
	"github.com/dhamidi/pcomb/symbol"
)

// Accept matches the single character ch. It is the only primitive that
// consumes input.
func Accept(ch rune) Parser[symbol.Symbol] {
	want := string(ch)
	return New(func(v input.View) Outcome[symbol.Symbol] {
		if v.Empty() {
			return Fail[symbol.Symbol](v, "unexpected end of input, expected %q", want)
		}
		r, n := v.Head()
		if r != ch {
			return Fail[symbol.Symbol](v, "%q did not match %q", string(r), want)
		}
		return Success([]symbol.Symbol{symbol.ValueAt(want, v.Offset(), v.Offset()+n)}, v.Advance(n))
	})
}

// Dot matches any single character. It fails only at the end of input.
func Dot() Parser[symbol.Symbol] {
	return New(func(v input.View) Outcome[symbol.Symbol] {
		if v.Empty() {
			return Fail[symbol.Symbol](v, "unexpected end of input")
		}
		r, n := v.Head()
		return Success([]symbol.Symbol{symbol.ValueAt(string(r), v.Offset(), v.Offset()+n)}, v.Advance(n))
	})
}

// String matches s character by character and produces a single Value
// holding s.
func String(s string) Parser[symbol.Symbol] {
	if s == "" {
		return Always(symbol.Value(""))
	}
	accepts := make([]Parser[symbol.Symbol], 0, len(s))
	for _, r := range s {
		accepts = append(accepts, Accept(r))
	}
	msg := fmt.Sprintf("Failed to match %q", s)
	return Literal(Sequence(accepts...)).MapErr(func(err *Error) *Error {
		return err.Wrap(msg)
	})
}

// Set matches any one character of chars. An empty set never matches.
func Set(chars string) Parser[symbol.Symbol] {
	if chars == "" {
		return Never[symbol.Symbol]("empty character set")
	}
	var accepts []Parser[symbol.Symbol]
	seen := make(map[rune]bool)
	for _, r := range chars {
		if seen[r] {
			continue
		}
		seen[r] = true
		accepts = append(accepts, Accept(r))
	}
	return Alternate(accepts...).MapErr(func(err *Error) *Error {
		return &Error{Offset: err.Offset, Message: fmt.Sprintf("expected one of %q", chars)}
	})
}

// Not matches a single character iff p fails at the current position. p must
// be a single-character parser. At the end of input Not fails.
func Not(p Parser[symbol.Symbol]) Parser[symbol.Symbol] {
	return New(func(v input.View) Outcome[symbol.Symbol] {
		if o := p.Run(v); o.Succeeded() {
			return Fail[symbol.Symbol](v, "unexpected %q", v.Slice(0, o.Rest().Offset()-v.Offset()).String())
		}
		if v.Empty() {
			return Fail[symbol.Symbol](v, "unexpected end of input")
		}
		r, n := v.Head()
		return Success([]symbol.Symbol{symbol.ValueAt(string(r), v.Offset(), v.Offset()+n)}, v.Advance(n))
	})
}
