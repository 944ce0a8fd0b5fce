// Package tree provides the parse trees produced by compiled grammars.
package tree

import (
	"strconv"
	"strings"

	"github.com/dhamidi/pcomb/combinator"
)

// Kind distinguishes leaves from interior nodes.
type Kind int

const (
	KindTerminal Kind = iota
	KindNonterminal
)

func (k Kind) String() string {
	switch k {
	case KindTerminal:
		return "Terminal"
	case KindNonterminal:
		return "Nonterminal"
	}
	return "Unknown"
}

// Node represents a node in the parse tree.
// Terminals hold matched text in Value; nonterminals hold the rule label in
// Value and own Children. Start and End are byte offsets into the input.
type Node struct {
	Kind     Kind
	Value    string
	Children []*Node
	Start    int
	End      int
	Err      *combinator.Error // non-nil for the error node of a failed parse
}

// NewTerminal creates a leaf node.
func NewTerminal(text string) *Node {
	return &Node{Kind: KindTerminal, Value: text}
}

// NewNonterminal creates an interior node labeled label.
func NewNonterminal(label string, children ...*Node) *Node {
	n := &Node{Kind: KindNonterminal, Value: label}
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

// IsTerminal reports whether the node is a leaf.
func (n *Node) IsTerminal() bool {
	return n.Kind == KindTerminal
}

// IsError reports whether the node represents a parse failure.
func (n *Node) IsError() bool {
	return n.Err != nil
}

// Succeeded reports whether the tree is the result of a successful parse.
func (n *Node) Succeeded() bool {
	return n.Err == nil
}

// AddChild appends a child node. Only nonterminals may own children.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	if n.Kind != KindNonterminal {
		panic("tree: terminal node cannot own children")
	}
	n.Children = append(n.Children, child)
}

// Child returns the first nonterminal child labeled label, or nil.
func (n *Node) Child(label string) *Node {
	for _, c := range n.Children {
		if c.Kind == KindNonterminal && c.Value == label {
			return c
		}
	}
	return nil
}

// ChildrenLabeled returns the nonterminal children labeled label.
func (n *Node) ChildrenLabeled(label string) []*Node {
	var result []*Node
	for _, c := range n.Children {
		if c.Kind == KindNonterminal && c.Value == label {
			result = append(result, c)
		}
	}
	return result
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Leaves returns the text of every terminal below n, left to right.
func (n *Node) Leaves() []string {
	var leaves []string
	n.Walk(func(node *Node, _ int) bool {
		if node.IsTerminal() {
			leaves = append(leaves, node.Value)
		}
		return true
	})
	return leaves
}

// Text returns the concatenated text of all leaves.
func (n *Node) Text() string {
	return strings.Join(n.Leaves(), "")
}

// String returns the rendered tree.
func (n *Node) String() string {
	return n.Render()
}

// Render draws the tree as indented ASCII art. The last child of every node
// is drawn with `\-`, all others with `|-`.
func (n *Node) Render() string {
	var sb strings.Builder
	n.render(&sb, "", true)
	return sb.String()
}

func (n *Node) render(sb *strings.Builder, indent string, last bool) {
	sb.WriteString(indent)
	if last {
		sb.WriteString(`\-`)
		indent += "  "
	} else {
		sb.WriteString("|-")
		indent += "| "
	}
	sb.WriteString(n.display())
	sb.WriteByte('\n')
	for i, c := range n.Children {
		c.render(sb, indent, i == len(n.Children)-1)
	}
}

func (n *Node) display() string {
	if n.Kind == KindNonterminal || n.Err != nil {
		return n.Value
	}
	if n.Value == "" || strings.TrimSpace(n.Value) != n.Value || strings.ContainsAny(n.Value, "\n\r\t") {
		return strconv.Quote(n.Value)
	}
	return n.Value
}
