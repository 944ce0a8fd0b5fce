package tree

import (
	"fmt"
	"strings"

	"github.com/dhamidi/pcomb/combinator"
	"github.com/dhamidi/pcomb/symbol"
)

// StructuralError reports a malformed flattened symbol stream. It indicates a
// bug in the parser that produced the stream, not bad user input.
type StructuralError struct {
	Index   int
	Message string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("malformed symbol stream at %d: %s", e.Index, e.Message)
}

// Decode converts the outcome of a parse into a tree. It always returns a
// node: a failure becomes a single error terminal whose text is the failure
// messages joined with "; ".
func Decode(o combinator.Outcome[symbol.Symbol]) *Node {
	if !o.Succeeded() {
		return errorNode(o.Err())
	}

	values := o.Values()
	if hasMarkers(values) {
		n, err := FromSymbols(values)
		if err != nil {
			return errorNode(&combinator.Error{Offset: o.Rest().Offset(), Message: err.Error()})
		}
		return n
	}

	switch len(values) {
	case 0:
		n := NewTerminal("")
		n.Start, n.End = o.Rest().Offset(), o.Rest().Offset()
		return n
	case 1:
		return fromSymbol(values[0])
	}

	root := fromSymbol(values[0])
	root.Kind = KindNonterminal
	for _, s := range values[1:] {
		root.AddChild(fromSymbol(s))
	}
	root.End = values[len(values)-1].End
	return root
}

func errorNode(err *combinator.Error) *Node {
	return &Node{
		Kind:  KindTerminal,
		Value: strings.Join(err.Messages(), "; "),
		Start: err.Offset,
		End:   err.Offset,
		Err:   err,
	}
}

func hasMarkers(symbols []symbol.Symbol) bool {
	for _, s := range symbols {
		if !s.IsPayload() {
			return true
		}
	}
	return false
}

func fromSymbol(s symbol.Symbol) *Node {
	if s.Kind == symbol.KindValue {
		return &Node{Kind: KindTerminal, Value: s.Text, Start: s.Start, End: s.End}
	}
	n := &Node{Kind: KindNonterminal, Value: s.Text, Start: s.Start, End: s.End}
	for _, c := range s.Children {
		if c.IsPayload() {
			n.AddChild(fromSymbol(c))
		}
	}
	return n
}

// FromSymbols rebuilds a tree from a flattened pre-order symbol stream as
// produced by symbol.Flatten. The first symbol is the root; a Value root that
// receives children becomes a Nonterminal labeled with its text. A ChildMarker
// followed by a payload symbol adds a child to the current node and descends
// into it, a bare payload symbol adds a sibling of the current node, and a
// ParentMarker moves back up to the parent of the current node.
func FromSymbols(symbols []symbol.Symbol) (*Node, error) {
	var root, current *Node
	parentOf := make(map[*Node]*Node)

	for i := 0; i < len(symbols); i++ {
		s := symbols[i]
		switch s.Kind {
		case symbol.KindChildMarker:
			if i+1 >= len(symbols) || !symbols[i+1].IsPayload() {
				return nil, &StructuralError{Index: i, Message: "child marker is not followed by a payload symbol"}
			}
			if current == nil {
				return nil, &StructuralError{Index: i, Message: "child marker before the root symbol"}
			}
			if current == root && root.IsTerminal() {
				root.Kind = KindNonterminal
			}
			if current.IsTerminal() {
				return nil, &StructuralError{Index: i, Message: fmt.Sprintf("terminal %q cannot own children", current.Value)}
			}
			i++
			child := fromSymbol(symbols[i])
			current.AddChild(child)
			parentOf[child] = current
			current = child

		case symbol.KindParentMarker:
			parent, ok := parentOf[current]
			if !ok {
				return nil, &StructuralError{Index: i, Message: "parent marker without an open child"}
			}
			current = parent

		case symbol.KindValue, symbol.KindNonterminal:
			n := fromSymbol(s)
			if current == nil {
				root, current = n, n
				continue
			}
			parent, ok := parentOf[current]
			if !ok {
				return nil, &StructuralError{Index: i, Message: fmt.Sprintf("symbol %q is a second root", s.Text)}
			}
			parent.AddChild(n)
			parentOf[n] = parent
			current = n

		default:
			return nil, &StructuralError{Index: i, Message: fmt.Sprintf("unknown symbol kind %d", s.Kind)}
		}
	}

	if root == nil {
		return nil, &StructuralError{Message: "empty symbol stream"}
	}
	return root, nil
}
