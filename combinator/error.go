package combinator

import (
	"fmt"
	"strings"

	"github.com/dhamidi/pcomb/input"
)

// Error is a parse failure. It records where the failure happened, the rule
// it happened in (if any) and the failures it was caused by.
//
// An Error with an empty Message and several causes is an aggregate of
// alternatives; its text is the causes joined with "; ".
type Error struct {
	Offset  int
	Rule    string
	Message string
	Causes  []*Error
}

// Errorf creates an Error at offset.
func Errorf(offset int, format string, args ...any) *Error {
	if len(args) > 0 {
		format = fmt.Sprintf(format, args...)
	}
	return &Error{Offset: offset, Message: format}
}

// Wrap returns a new Error at the same offset that carries msg and has e as
// its only cause.
func (e *Error) Wrap(msg string) *Error {
	return &Error{Offset: e.Offset, Message: msg, Causes: []*Error{e}}
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Rule != "" {
		sb.WriteString(e.Rule)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if len(e.Causes) > 0 {
		if e.Message != "" {
			sb.WriteString(": ")
		}
		for i, c := range e.Causes {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(c.Error())
		}
	}
	return sb.String()
}

// Messages returns the human-readable messages carried by the error. An
// aggregate yields one message per alternative.
func (e *Error) Messages() []string {
	if e.Message == "" && e.Rule == "" && len(e.Causes) > 0 {
		var msgs []string
		for _, c := range e.Causes {
			msgs = append(msgs, c.Messages()...)
		}
		return msgs
	}
	return []string{e.Error()}
}

// Furthest returns the leaf failure that got deepest into the input. Ties go
// to the first one in declaration order.
func (e *Error) Furthest() *Error {
	best := e
	if len(e.Causes) == 0 {
		return best
	}
	best = nil
	for _, c := range e.Causes {
		f := c.Furthest()
		if best == nil || f.Offset > best.Offset {
			best = f
		}
	}
	return best
}

// Position resolves the error offset against the text of v.
func (e *Error) Position(v input.View) input.Position {
	return input.PositionOf("", v.Text(), e.Offset)
}
