package grammar

import (
	"fmt"

	"github.com/dhamidi/pcomb/input"
)

// ErrorKind classifies grammar compile errors. Each kind is also an error
// value so callers can test for it with errors.Is.
type ErrorKind int

const (
	ErrMalformed ErrorKind = iota + 1
	ErrDuplicateRule
	ErrUndefinedRule
	ErrNoStart
	ErrAmbiguousStart
	ErrLeftRecursion
)

var errorKindNames = map[ErrorKind]string{
	ErrMalformed:      "malformed grammar",
	ErrDuplicateRule:  "duplicate rule",
	ErrUndefinedRule:  "undefined rule",
	ErrNoStart:        "no start symbol",
	ErrAmbiguousStart: "ambiguous start symbol",
	ErrLeftRecursion:  "left recursion",
}

func (k ErrorKind) Error() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "unknown grammar error"
}

var errorKindHints = map[ErrorKind]string{
	ErrDuplicateRule:  "express alternatives with '|' inside a single rule definition",
	ErrUndefinedRule:  "define the rule or fix the spelling of the reference",
	ErrNoStart:        "exactly one rule must not be referenced by any other rule; or choose the start rule explicitly",
	ErrAmbiguousStart: "remove the unused rules or choose the start rule explicitly",
	ErrLeftRecursion:  "rewrite the rule so that it consumes input before referring to itself",
}

// CompileError reports an invalid grammar. Grammar construction stops at the
// first CompileError.
type CompileError struct {
	Kind    ErrorKind
	Rule    string
	Pos     input.Position
	Message string
}

func newError(kind ErrorKind, rule string, pos input.Position, format string, args ...any) *CompileError {
	return &CompileError{Kind: kind, Rule: rule, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (e *CompileError) Error() string {
	msg := e.Kind.Error() + ": " + e.Message
	if e.Pos.Line > 0 {
		return e.Pos.String() + ": " + msg
	}
	return msg
}

// Is makes errors.Is(err, ErrNoStart) and friends work.
func (e *CompileError) Is(target error) bool {
	kind, ok := target.(ErrorKind)
	return ok && kind == e.Kind
}

// Hint returns a suggestion on how to fix the error, or "".
func (e *CompileError) Hint() string {
	return errorKindHints[e.Kind]
}
