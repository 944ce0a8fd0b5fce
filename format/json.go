package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/pcomb/input"
	"github.com/dhamidi/pcomb/tree"
)

type JSONEncoder struct {
	w      io.Writer
	source string
	node   *tree.Node
}

func NewJSONEncoder(w io.Writer, source string) *JSONEncoder {
	return &JSONEncoder{w: w, source: source}
}

func (e *JSONEncoder) Encode(node *tree.Node) error {
	e.node = node
	return write(e.w, e)
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data, err := json.MarshalIndent(e.nodeToJSON(e.node), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

type jsonNode struct {
	Kind     string      `json:"kind"`
	Label    string      `json:"label,omitempty"`
	Text     *string     `json:"text,omitempty"`
	Span     input.Span  `json:"span"`
	Error    *jsonError  `json:"error,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonError struct {
	Message  string   `json:"message"`
	Rule     string   `json:"rule,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

func (e *JSONEncoder) position(offset int) input.Position {
	return input.PositionOf("", e.source, offset)
}

func (e *JSONEncoder) nodeToJSON(n *tree.Node) *jsonNode {
	jn := &jsonNode{
		Kind: n.Kind.String(),
		Span: input.Span{Start: e.position(n.Start), End: e.position(n.End)},
	}

	if n.IsTerminal() {
		text := n.Value
		jn.Text = &text
	} else {
		jn.Label = n.Value
	}

	if n.Err != nil {
		far := n.Err.Furthest()
		jn.Text = nil
		jn.Kind = "Error"
		jn.Error = &jsonError{
			Message:  n.Err.Error(),
			Rule:     n.Err.Rule,
			Messages: n.Err.Messages(),
		}
		jn.Span.Start = e.position(far.Offset)
		jn.Span.End = jn.Span.Start
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = e.nodeToJSON(child)
		}
	}

	return jn
}
