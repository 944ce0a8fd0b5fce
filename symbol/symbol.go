// Package symbol defines the tagged tokens produced by parsers.
//
// A Value carries matched text and a Nonterminal carries a grammar rule label
// together with the symbols it was built from. ChildMarker and ParentMarker
// only appear in the flattened pre-order encoding produced by Flatten, where
// ChildMarker opens the children of the preceding symbol and ParentMarker
// closes them.
package symbol

import "strings"

// Kind identifies the variant of a Symbol.
type Kind int

const (
	KindValue Kind = iota
	KindNonterminal
	KindChildMarker
	KindParentMarker
)

var kindNames = map[Kind]string{
	KindValue:        "Value",
	KindNonterminal:  "Nonterminal",
	KindChildMarker:  "ChildMarker",
	KindParentMarker: "ParentMarker",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Symbol is a single element of a parse result.
// Start and End are byte offsets into the parsed text; they are zero for
// symbols that were not produced by matching input.
type Symbol struct {
	Kind     Kind
	Text     string
	Children []Symbol
	Start    int
	End      int
}

// Value returns a Value symbol holding text.
func Value(text string) Symbol {
	return Symbol{Kind: KindValue, Text: text}
}

// ValueAt returns a Value symbol holding text matched between start and end.
func ValueAt(text string, start, end int) Symbol {
	return Symbol{Kind: KindValue, Text: text, Start: start, End: end}
}

// Nonterminal returns a Nonterminal symbol labeled name that owns children.
// Its span covers the spans of its children.
func Nonterminal(name string, children ...Symbol) Symbol {
	s := Symbol{Kind: KindNonterminal, Text: name, Children: children}
	if len(children) > 0 {
		s.Start = children[0].Start
		s.End = children[len(children)-1].End
	}
	return s
}

// ChildMarker returns the marker that opens a nesting level.
func ChildMarker() Symbol {
	return Symbol{Kind: KindChildMarker}
}

// ParentMarker returns the marker that closes a nesting level.
func ParentMarker() Symbol {
	return Symbol{Kind: KindParentMarker}
}

// IsPayload reports whether the symbol carries text, i.e. is a Value or a
// Nonterminal.
func (s Symbol) IsPayload() bool {
	return s.Kind == KindValue || s.Kind == KindNonterminal
}

func (s Symbol) String() string {
	switch s.Kind {
	case KindChildMarker:
		return "("
	case KindParentMarker:
		return ")"
	case KindValue, KindNonterminal:
		return s.Text
	}
	return "UntypedSymbol"
}

// Collapse concatenates the text of every Value in symbols, descending into
// nonterminals. Labels and markers are dropped.
func Collapse(symbols []Symbol) string {
	var sb strings.Builder
	collapseInto(&sb, symbols)
	return sb.String()
}

func collapseInto(sb *strings.Builder, symbols []Symbol) {
	for _, s := range symbols {
		switch s.Kind {
		case KindValue:
			sb.WriteString(s.Text)
		case KindNonterminal:
			collapseInto(sb, s.Children)
		}
	}
}

// Flatten returns the pre-order marker encoding of symbols. A Nonterminal
// with children becomes the Nonterminal, ChildMarker, its flattened children,
// ParentMarker; a childless Nonterminal is emitted on its own. The
// Nonterminal elements of the result own no children.
func Flatten(symbols []Symbol) []Symbol {
	var out []Symbol
	for _, s := range symbols {
		out = flattenInto(out, s)
	}
	return out
}

func flattenInto(out []Symbol, s Symbol) []Symbol {
	if s.Kind != KindNonterminal {
		return append(out, s)
	}
	label := s
	label.Children = nil
	out = append(out, label)
	if len(s.Children) == 0 {
		return out
	}
	out = append(out, ChildMarker())
	for _, c := range s.Children {
		out = flattenInto(out, c)
	}
	return append(out, ParentMarker())
}

// Join renders a flat symbol sequence as text, separating elements with a
// single space.
func Join(symbols []Symbol) string {
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}
