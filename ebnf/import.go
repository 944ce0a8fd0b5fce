// Package ebnf bridges grammars written in Go's EBNF notation and the BNF
// dialect of package grammar.
//
// Go EBNF grammars are parsed and verified with golang.org/x/exp/ebnf and
// imported as grammar rules; BNF rules can be exported to Go EBNF, which is
// also how compiled grammars are linted.
package ebnf

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/scanner"

	goebnf "golang.org/x/exp/ebnf"

	"github.com/dhamidi/pcomb/grammar"
	"github.com/dhamidi/pcomb/input"
)

// Load reads and parses a Go EBNF grammar file.
func Load(filename string) (goebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	return Parse(filename, f)
}

// Parse parses a Go EBNF grammar.
func Parse(filename string, r io.Reader) (goebnf.Grammar, error) {
	g, err := goebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return g, nil
}

// Import converts a Go EBNF grammar into rules, ordered as they appear in
// the source. Alternatives at the top of a production become separate
// productions; nested groups, options and repetitions become group, optional
// and repeat terms; ranges become character classes.
func Import(g goebnf.Grammar) ([]grammar.Rule, error) {
	prods := make([]*goebnf.Production, 0, len(g))
	for _, p := range g {
		prods = append(prods, p)
	}
	sort.Slice(prods, func(i, j int) bool {
		return prods[i].Name.StringPos.Offset < prods[j].Name.StringPos.Offset
	})

	rules := make([]grammar.Rule, 0, len(prods))
	for _, p := range prods {
		alts, err := importAlternatives(p.Expr)
		if err != nil {
			return nil, fmt.Errorf("production %s: %w", p.Name.String, err)
		}
		rules = append(rules, grammar.Rule{
			Name:        p.Name.String,
			Productions: alts,
			Pos:         position(p.Name.StringPos),
		})
	}
	return rules, nil
}

// ImportFile loads a Go EBNF file and compiles it with start as the start
// production.
func ImportFile(filename, start string) (*grammar.Grammar, error) {
	g, err := Load(filename)
	if err != nil {
		return nil, err
	}
	rules, err := Import(g)
	if err != nil {
		return nil, err
	}
	return grammar.CompileRules(rules, grammar.WithStart(start), grammar.WithFilename(filename))
}

func position(p scanner.Position) input.Position {
	return input.Position{Filename: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func importAlternatives(expr goebnf.Expression) ([]grammar.Production, error) {
	if alt, ok := expr.(goebnf.Alternative); ok {
		prods := make([]grammar.Production, 0, len(alt))
		for _, e := range alt {
			p, err := importSequence(e)
			if err != nil {
				return nil, err
			}
			prods = append(prods, p)
		}
		return prods, nil
	}
	p, err := importSequence(expr)
	if err != nil {
		return nil, err
	}
	return []grammar.Production{p}, nil
}

func importSequence(expr goebnf.Expression) (grammar.Production, error) {
	if expr == nil {
		return grammar.Production{}, nil
	}
	seq, ok := expr.(goebnf.Sequence)
	if !ok {
		seq = goebnf.Sequence{expr}
	}
	var p grammar.Production
	for _, e := range seq {
		t, err := importTerm(e)
		if err != nil {
			return grammar.Production{}, err
		}
		p.Terms = append(p.Terms, t)
	}
	return p, nil
}

func importTerm(expr goebnf.Expression) (grammar.Term, error) {
	var (
		t   grammar.Term
		err error
	)
	switch e := expr.(type) {
	case *goebnf.Name:
		t = grammar.Ref(e.String)
	case *goebnf.Token:
		t = grammar.Literal(e.String)
	case *goebnf.Range:
		t = grammar.Class("[" + escapeSetChar(e.Begin.String) + "-" + escapeSetChar(e.End.String) + "]")
	case *goebnf.Group:
		t.Kind = grammar.TermGroup
		t.Alternatives, err = importAlternatives(e.Body)
	case *goebnf.Option:
		t.Kind = grammar.TermOptional
		t.Alternatives, err = importAlternatives(e.Body)
	case *goebnf.Repetition:
		t.Kind = grammar.TermRepeat
		t.Alternatives, err = importAlternatives(e.Body)
	case goebnf.Alternative:
		t.Kind = grammar.TermGroup
		t.Alternatives, err = importAlternatives(e)
	case goebnf.Sequence:
		var p grammar.Production
		p, err = importSequence(e)
		t = grammar.Group(p)
	case *goebnf.Bad:
		return grammar.Term{}, fmt.Errorf("%s: %s", e.TokPos, e.Error)
	default:
		return grammar.Term{}, fmt.Errorf("%s: unsupported expression %T", expr.Pos(), expr)
	}
	if err != nil {
		return grammar.Term{}, err
	}
	t.Pos = position(expr.Pos())
	return t, nil
}

// escapeSetChar escapes the characters that are special inside a bracket
// expression of a character class.
func escapeSetChar(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case ']', '[', '\\', '-', '^', '/':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
