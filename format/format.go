// Package format encodes parse trees for output.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/pcomb/tree"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(node *tree.Node) error
}

// Names lists the formats accepted by New.
var Names = []string{"tree", "json", "sexpr", "symbols"}

// New returns the encoder for the named format. source is the parsed input;
// encoders that report line and column positions resolve offsets against it.
func New(name string, w io.Writer, source string) (Encoder, error) {
	switch name {
	case "tree", "":
		return NewTreeEncoder(w), nil
	case "json":
		return NewJSONEncoder(w, source), nil
	case "sexpr":
		return NewSExprEncoder(w), nil
	case "symbols":
		return NewSymbolsEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q", name)
}

// write marshals through m and writes the result to w.
func write(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}

type TreeEncoder struct {
	w    io.Writer
	node *tree.Node
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(node *tree.Node) error {
	e.node = node
	return write(e.w, e)
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	return []byte(e.node.Render()), nil
}
