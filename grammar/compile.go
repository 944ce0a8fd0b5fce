package grammar

import (
	"fmt"

	"github.com/tliron/commonlog"

	c "github.com/dhamidi/pcomb/combinator"
	"github.com/dhamidi/pcomb/symbol"
)

var log = commonlog.GetLogger("pcomb.grammar")

// Option configures grammar compilation.
type Option func(*options)

type options struct {
	start    string
	filename string
}

// WithStart selects the start rule instead of inferring it.
func WithStart(name string) Option {
	return func(o *options) {
		o.start = name
	}
}

// WithFilename sets the file name reported in compile error positions.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// Compile parses grammar text and compiles it into a Grammar.
func Compile(text string, opts ...Option) (*Grammar, error) {
	o := collect(opts)
	rules, err := Parse(o.filename, text)
	if err != nil {
		return nil, err
	}
	g, err := CompileRules(rules, opts...)
	if err != nil {
		return nil, err
	}
	g.source = text
	return g, nil
}

func collect(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CompileRules compiles rules that were parsed or constructed elsewhere, for
// example imported from Go EBNF.
func CompileRules(rules []Rule, opts ...Option) (*Grammar, error) {
	o := collect(opts)
	if len(rules) == 0 {
		return nil, newError(ErrNoStart, "", positionIn(o.filename), "grammar defines no rules")
	}

	a, err := analyze(rules)
	if err != nil {
		return nil, err
	}

	var start int
	if o.start != "" {
		i, ok := a.index[o.start]
		if !ok {
			return nil, newError(ErrUndefinedRule, o.start, positionIn(o.filename),
				"start rule <%s> is not defined", o.start)
		}
		start = i
	} else if start, err = a.inferStart(); err != nil {
		return nil, err
	}

	if err := a.checkLeftRecursion(); err != nil {
		return nil, err
	}

	g := &Grammar{
		rules:    rules,
		index:    a.index,
		parsers:  make([]c.Parser[symbol.Symbol], len(rules)),
		compiled: make([]bool, len(rules)),
		start:    start,
		filename: o.filename,
	}
	comp := &compiler{grammar: g, classes: a.classes}
	for i, r := range rules {
		if err := g.set(i, comp.rule(r)); err != nil {
			return nil, err
		}
	}

	log.Debugf("compiled %d rules, start rule <%s>", len(rules), rules[start].Name)
	return g, nil
}

type compiler struct {
	grammar *Grammar
	classes map[string]*ClassExpr
}

func (cc *compiler) rule(r Rule) c.Parser[symbol.Symbol] {
	return c.Named(r.Name, c.Parent(r.Name, cc.alternatives(r.Productions)))
}

func (cc *compiler) alternatives(ps []Production) c.Parser[symbol.Symbol] {
	if len(ps) == 1 {
		return cc.production(ps[0])
	}
	parsers := make([]c.Parser[symbol.Symbol], len(ps))
	for i, p := range ps {
		parsers[i] = cc.production(p)
	}
	return c.Alternate(parsers...)
}

func (cc *compiler) production(p Production) c.Parser[symbol.Symbol] {
	if len(p.Terms) == 0 {
		return c.Always(symbol.Value(""))
	}
	if len(p.Terms) == 1 {
		return cc.term(p.Terms[0])
	}
	parsers := make([]c.Parser[symbol.Symbol], len(p.Terms))
	for i, t := range p.Terms {
		parsers[i] = cc.term(t)
	}
	return c.Sequence(parsers...)
}

func (cc *compiler) term(t Term) c.Parser[symbol.Symbol] {
	switch t.Kind {
	case TermLiteral:
		return c.String(t.Text)
	case TermClass:
		return c.Literal(cc.classes[t.Text].Parser())
	case TermRef:
		return cc.grammar.reference(cc.grammar.index[t.Text])
	case TermGroup:
		return cc.alternatives(t.Alternatives)
	case TermOptional:
		return c.Maybe(cc.alternatives(t.Alternatives))
	case TermRepeat:
		return c.Star(cc.alternatives(t.Alternatives))
	}
	panic(fmt.Sprintf("grammar: unknown term kind %d", t.Kind))
}
