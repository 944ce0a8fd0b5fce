package grammar

import (
	"strings"

	"github.com/dhamidi/pcomb/input"
)

// TermKind identifies the variant of a Term.
type TermKind int

const (
	TermLiteral TermKind = iota
	TermClass
	TermRef
	TermGroup
	TermOptional
	TermRepeat
)

var termKindNames = map[TermKind]string{
	TermLiteral:  "literal",
	TermClass:    "class",
	TermRef:      "reference",
	TermGroup:    "group",
	TermOptional: "optional",
	TermRepeat:   "repeat",
}

func (k TermKind) String() string {
	if name, ok := termKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Term is a single element of a production.
//
// Literal terms hold the text to match, class terms the character-class
// pattern and reference terms the referenced rule name. Group, optional and
// repeat terms hold nested alternatives; the BNF text syntax never produces
// them, grammars imported from Go EBNF do.
type Term struct {
	Kind         TermKind
	Text         string
	Alternatives []Production
	Pos          input.Position
}

// Literal returns a literal term.
func Literal(text string) Term { return Term{Kind: TermLiteral, Text: text} }

// Class returns a character-class term.
func Class(pattern string) Term { return Term{Kind: TermClass, Text: pattern} }

// Ref returns a rule reference term.
func Ref(name string) Term { return Term{Kind: TermRef, Text: name} }

// Group returns a term matching one of alternatives.
func Group(alternatives ...Production) Term {
	return Term{Kind: TermGroup, Alternatives: alternatives}
}

// Optional returns a term matching one of alternatives or nothing.
func Optional(alternatives ...Production) Term {
	return Term{Kind: TermOptional, Alternatives: alternatives}
}

// Repeat returns a term matching alternatives zero or more times.
func Repeat(alternatives ...Production) Term {
	return Term{Kind: TermRepeat, Alternatives: alternatives}
}

func (t Term) String() string {
	switch t.Kind {
	case TermLiteral:
		if strings.ContainsRune(t.Text, '"') {
			return "'" + t.Text + "'"
		}
		return `"` + t.Text + `"`
	case TermClass:
		return "/" + t.Text + "/"
	case TermRef:
		return "<" + t.Text + ">"
	case TermGroup:
		return "( " + joinProductions(t.Alternatives) + " )"
	case TermOptional:
		return "[ " + joinProductions(t.Alternatives) + " ]"
	case TermRepeat:
		return "{ " + joinProductions(t.Alternatives) + " }"
	}
	return "?"
}

// Production is an ordered list of terms.
type Production struct {
	Terms []Term
}

// Seq returns a production of terms.
func Seq(terms ...Term) Production {
	return Production{Terms: terms}
}

func (p Production) String() string {
	if len(p.Terms) == 0 {
		return `""`
	}
	parts := make([]string, len(p.Terms))
	for i, t := range p.Terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

func joinProductions(ps []Production) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, " | ")
}

// Rule is a named list of alternative productions.
type Rule struct {
	Name        string
	Productions []Production
	Pos         input.Position
}

// String renders the rule in the BNF text syntax.
func (r Rule) String() string {
	return "<" + r.Name + "> ::= " + joinProductions(r.Productions)
}

// References returns the names of the rules r refers to, in order of first
// appearance, without duplicates.
func (r Rule) References() []string {
	var names []string
	seen := make(map[string]bool)
	walkTerms(r.Productions, func(t Term) {
		if t.Kind == TermRef && !seen[t.Text] {
			seen[t.Text] = true
			names = append(names, t.Text)
		}
	})
	return names
}

func walkTerms(ps []Production, fn func(Term)) {
	for _, p := range ps {
		for _, t := range p.Terms {
			fn(t)
			walkTerms(t.Alternatives, fn)
		}
	}
}
