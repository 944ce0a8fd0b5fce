// Package grammar compiles BNF grammar text into combinator parsers.
//
// A grammar is a list of rules:
//
//	<number> ::= /[0-9]+/
//	<op>     ::= /\s*[+\-*\/]\s*/
//	<term>   ::= "(" <expr> ")" | <number>
//	<expr>   ::= <term> <op> <expr> | <term>
//
// Terms are double or single quoted literals, character classes between
// slashes and references to other rules. A production may continue on the
// next line when that line starts with '|'.
//
// Each rule becomes a parser that wraps what it matched in a node labeled
// with the rule name. The start rule is the one no other rule refers to.
// When every rule is referenced, as above, the last declared rule of the
// outermost rule cycle is used. WithStart overrides both.
package grammar

import (
	"fmt"

	c "github.com/dhamidi/pcomb/combinator"
	"github.com/dhamidi/pcomb/input"
	"github.com/dhamidi/pcomb/symbol"
	"github.com/dhamidi/pcomb/tree"
)

// Grammar is a compiled grammar. It is immutable once compiled and safe for
// concurrent use.
type Grammar struct {
	rules    []Rule
	index    map[string]int
	parsers  []c.Parser[symbol.Symbol]
	compiled []bool
	start    int
	source   string
	filename string
}

// set stores the parser of rule i. Every slot is written exactly once.
func (g *Grammar) set(i int, p c.Parser[symbol.Symbol]) error {
	if g.compiled[i] {
		return fmt.Errorf("grammar: rule <%s> compiled twice", g.rules[i].Name)
	}
	g.parsers[i] = p
	g.compiled[i] = true
	return nil
}

// reference returns the parser of rule i, deferring the lookup when the rule
// has not been compiled yet.
func (g *Grammar) reference(i int) c.Parser[symbol.Symbol] {
	if g.compiled[i] {
		return g.parsers[i]
	}
	return c.Delayed(func() c.Parser[symbol.Symbol] {
		return g.parsers[i]
	})
}

// Start returns the name of the start rule.
func (g *Grammar) Start() string {
	return g.rules[g.start].Name
}

// Rules returns the rules in declaration order.
func (g *Grammar) Rules() []Rule {
	return g.rules
}

// Rule returns the rule named name.
func (g *Grammar) Rule(name string) (Rule, bool) {
	i, ok := g.index[name]
	if !ok {
		return Rule{}, false
	}
	return g.rules[i], true
}

// Source returns the grammar text the grammar was compiled from. It is empty
// for grammars compiled from rules.
func (g *Grammar) Source() string {
	return g.source
}

// Parser returns the parser of the rule named name.
func (g *Grammar) Parser(name string) (c.Parser[symbol.Symbol], bool) {
	i, ok := g.index[name]
	if !ok {
		return c.Parser[symbol.Symbol]{}, false
	}
	return g.parsers[i], true
}

// Run parses text with the start rule. The start rule has to consume all of
// text. The returned node is an error node if parsing failed.
func (g *Grammar) Run(text string) *tree.Node {
	return tree.Decode(g.run(g.start, text))
}

// RunRule parses text with the rule named name.
func (g *Grammar) RunRule(name, text string) (*tree.Node, error) {
	i, ok := g.index[name]
	if !ok {
		return nil, fmt.Errorf("grammar: no rule named <%s>", name)
	}
	return tree.Decode(g.run(i, text)), nil
}

// Outcome parses text with the start rule and returns the raw outcome.
func (g *Grammar) Outcome(text string) c.Outcome[symbol.Symbol] {
	return g.run(g.start, text)
}

func (g *Grammar) run(i int, text string) c.Outcome[symbol.Symbol] {
	trailing := c.EOF[symbol.Symbol]().MapErr(func(err *c.Error) *c.Error {
		return err.Wrap("unexpected trailing input")
	})
	return c.Concat(g.parsers[i], trailing).Run(input.New(text))
}

func positionIn(filename string) input.Position {
	return input.Position{Filename: filename}
}
