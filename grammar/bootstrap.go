package grammar

import (
	"fmt"

	c "github.com/dhamidi/pcomb/combinator"
	"github.com/dhamidi/pcomb/input"
	"github.com/dhamidi/pcomb/symbol"
)

const (
	letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
)

type symbolParser = c.Parser[symbol.Symbol]

// The grammar of grammars, built directly from combinators.
//
//	syntax     ::= blank* rule (newline+ rule)* blank* EOF
//	rule       ::= <rule-name> "::=" expression
//	expression ::= list ( [newline] "|" list )*
//	list       ::= term term*
//	term       ::= literal | class | rule-name
var (
	bootstrapRule   symbolParser
	bootstrapSyntax symbolParser
)

func init() {
	ws := c.Ignore(c.Star(c.Set(" \t")))
	newline := c.Ignore(c.Alternate(c.String("\r\n"), c.String("\n")))
	lineEnd := c.Concat(ws, newline)

	ruleName := c.Parent("rule-name", c.Sequence(
		c.Ignore(c.Accept('<')),
		c.Literal(c.Concat(c.Set(letters), c.Star(c.Set(letters+digits+"-_")))),
		c.Ignore(c.Accept('>')),
	))
	quoted := func(q rune) symbolParser {
		return c.Sequence(
			c.Ignore(c.Accept(q)),
			c.Literal(c.Star(c.Not(c.Set(string(q)+"\n")))),
			c.Ignore(c.Accept(q)),
		)
	}
	literal := c.Parent("literal", c.Alternate(quoted('"'), quoted('\'')))
	class := c.Parent("class", c.Sequence(
		c.Ignore(c.Accept('/')),
		c.Literal(c.Plus(c.Alternate(
			c.Concat(c.Accept('\\'), c.Not(c.Accept('\n'))),
			c.Not(c.Set("/\n")),
		))),
		c.Ignore(c.Accept('/')),
	))

	term := c.Alternate(literal, class, ruleName)
	list := c.Parent("list", c.Concat(term, c.Star(c.Concat(ws, term))))
	bar := c.Sequence(c.Star(lineEnd), ws, c.Ignore(c.Accept('|')), ws)
	expression := c.Parent("expression", c.Concat(list, c.Star(c.Concat(bar, list))))

	bootstrapRule = c.Parent("rule", c.Sequence(
		ws, ruleName, ws, c.Ignore(c.String("::=")), ws, expression, ws,
	))
	bootstrapSyntax = c.Sequence(
		c.Star(lineEnd),
		bootstrapRule,
		c.Star(c.Concat(c.Plus(lineEnd), bootstrapRule)),
		c.Star(lineEnd),
		ws,
		c.EOF[symbol.Symbol](),
	)
}

// Parse reads grammar text into rules without validating them. filename is
// only used for positions.
func Parse(filename, text string) ([]Rule, error) {
	v := input.NewFile(filename, text)
	o := bootstrapSyntax.Run(v)
	if !o.Succeeded() {
		return nil, malformed(filename, text, o.Err())
	}

	b := &ruleBuilder{filename: filename, text: text}
	rules := make([]Rule, 0, len(o.Values()))
	for _, s := range o.Values() {
		r, err := b.rule(s)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// malformed describes a syntax failure. When the syntax stops before a rule
// it could not make sense of, the rule parser is rerun there so the error
// points into the offending rule rather than at the trailing text.
func malformed(filename, text string, err *c.Error) *CompileError {
	furthest := err.Furthest()
	v := input.NewFile(filename, text).At(err.Offset)
	retry := c.Concat(c.Star(c.Set(" \t\r\n")), bootstrapRule).Run(v)
	if !retry.Succeeded() && retry.Err().Furthest().Offset > furthest.Offset {
		err, furthest = retry.Err(), retry.Err().Furthest()
	}
	pos := input.PositionOf(filename, text, furthest.Offset)
	return newError(ErrMalformed, "", pos, "%s", err.Error())
}

type ruleBuilder struct {
	filename string
	text     string
}

func (b *ruleBuilder) pos(offset int) input.Position {
	return input.PositionOf(b.filename, b.text, offset)
}

func (b *ruleBuilder) rule(s symbol.Symbol) (Rule, error) {
	if s.Text != "rule" || len(s.Children) != 2 {
		return Rule{}, fmt.Errorf("grammar: unexpected bootstrap symbol %s", s)
	}
	name, expr := s.Children[0], s.Children[1]
	r := Rule{Name: symbol.Collapse(name.Children), Pos: b.pos(name.Start)}
	for _, list := range expr.Children {
		var p Production
		for _, t := range list.Children {
			term := Term{Text: symbol.Collapse(t.Children), Pos: b.pos(t.Start)}
			switch t.Text {
			case "literal":
				term.Kind = TermLiteral
			case "class":
				term.Kind = TermClass
			case "rule-name":
				term.Kind = TermRef
			default:
				return Rule{}, fmt.Errorf("grammar: unexpected bootstrap term %s", t)
			}
			p.Terms = append(p.Terms, term)
		}
		r.Productions = append(r.Productions, p)
	}
	return r, nil
}
