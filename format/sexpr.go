package format

import (
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/pcomb/symbol"
	"github.com/dhamidi/pcomb/tree"
)

// SExprEncoder writes a tree as a single s-expression. Nonterminals become
// lists headed by their label, terminals quoted strings.
type SExprEncoder struct {
	w    io.Writer
	node *tree.Node
}

func NewSExprEncoder(w io.Writer) *SExprEncoder {
	return &SExprEncoder{w: w}
}

func (e *SExprEncoder) Encode(node *tree.Node) error {
	e.node = node
	return write(e.w, e)
}

func (e *SExprEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	writeSExpr(&sb, e.node)
	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}

func writeSExpr(sb *strings.Builder, n *tree.Node) {
	switch {
	case n.IsError():
		sb.WriteString("(error ")
		sb.WriteString(strconv.Quote(n.Value))
		sb.WriteByte(')')
	case n.IsTerminal():
		sb.WriteString(strconv.Quote(n.Value))
	default:
		sb.WriteByte('(')
		sb.WriteString(n.Value)
		for _, c := range n.Children {
			sb.WriteByte(' ')
			writeSExpr(sb, c)
		}
		sb.WriteByte(')')
	}
}

// SymbolsEncoder writes the flattened marker encoding of a tree: a label
// followed by "(" opens its children, ")" closes them.
type SymbolsEncoder struct {
	w    io.Writer
	node *tree.Node
}

func NewSymbolsEncoder(w io.Writer) *SymbolsEncoder {
	return &SymbolsEncoder{w: w}
}

func (e *SymbolsEncoder) Encode(node *tree.Node) error {
	e.node = node
	return write(e.w, e)
}

func (e *SymbolsEncoder) MarshalText() ([]byte, error) {
	flat := symbol.Flatten([]symbol.Symbol{ToSymbol(e.node)})
	for i, s := range flat {
		if s.Kind == symbol.KindValue {
			flat[i].Text = strconv.Quote(s.Text)
		}
	}
	return []byte(symbol.Join(flat) + "\n"), nil
}

// ToSymbol converts a tree back into the symbol it was decoded from.
func ToSymbol(n *tree.Node) symbol.Symbol {
	if n.IsTerminal() {
		return symbol.ValueAt(n.Value, n.Start, n.End)
	}
	children := make([]symbol.Symbol, len(n.Children))
	for i, c := range n.Children {
		children[i] = ToSymbol(c)
	}
	s := symbol.Nonterminal(n.Value, children...)
	s.Start, s.End = n.Start, n.End
	return s
}
