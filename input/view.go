// Package input provides an immutable cursor over parser input.
package input

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Position represents a location in source text.
type Position struct {
	Filename string `json:"filename,omitempty"`
	Offset   int    `json:"offset"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span represents a range in source text.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// View is a window over a shared input string. Advancing or slicing a View
// produces a new View over the same text; the text is never copied.
type View struct {
	text     string
	filename string
	offset   int
	length   int
}

// New returns a View covering all of text.
func New(text string) View {
	return View{text: text, length: len(text)}
}

// NewFile returns a View covering all of text that reports positions
// relative to filename.
func NewFile(filename, text string) View {
	return View{text: text, filename: filename, length: len(text)}
}

// Len returns the number of bytes remaining in the view.
func (v View) Len() int { return v.length }

// Offset returns the byte offset of the view into the underlying text.
func (v View) Offset() int { return v.offset }

// Empty reports whether the view has no input left.
func (v View) Empty() bool { return v.length == 0 }

// Text returns the whole underlying text, regardless of the view's window.
func (v View) Text() string { return v.text }

// String returns the remaining text of the view.
func (v View) String() string {
	return v.text[v.offset : v.offset+v.length]
}

// Head returns the next rune in the view and its width in bytes.
// It panics on an empty view.
func (v View) Head() (rune, int) {
	if v.length <= 0 {
		panic("input: Head called on empty view")
	}
	return utf8.DecodeRuneInString(v.String())
}

// Advance returns a view moved forward by n bytes.
func (v View) Advance(n int) View {
	if n < 0 || n > v.length {
		panic(fmt.Sprintf("input: advance %d out of range [0, %d]", n, v.length))
	}
	v.offset += n
	v.length -= n
	return v
}

// Slice returns the part of the view between start and stop, both relative
// to the view's offset.
func (v View) Slice(start, stop int) View {
	if stop < start {
		panic("input: slice stop < start")
	}
	if start < 0 || stop > v.length {
		panic(fmt.Sprintf("input: slice [%d:%d] out of range [0, %d]", start, stop, v.length))
	}
	v.offset += start
	v.length = stop - start
	return v
}

// At returns a view over the same text starting at the absolute offset and
// running to the end of the text.
func (v View) At(offset int) View {
	if offset < 0 || offset > len(v.text) {
		panic(fmt.Sprintf("input: offset %d out of range [0, %d]", offset, len(v.text)))
	}
	v.offset = offset
	v.length = len(v.text) - offset
	return v
}

// Position returns the line and column of the view's offset.
// Lines and columns are 1-based, columns count runes.
func (v View) Position() Position {
	return PositionOf(v.filename, v.text, v.offset)
}

// PositionOf computes the position of a byte offset within text.
func PositionOf(filename, text string, offset int) Position {
	if offset > len(text) {
		offset = len(text)
	}
	before := text[:offset]
	line := strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return Position{
		Filename: filename,
		Offset:   offset,
		Line:     line,
		Column:   utf8.RuneCountInString(before[lineStart:]) + 1,
	}
}
