package ebnf

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/pcomb/grammar"
)

// ErrUnsupported is returned when a rule uses a construct Go EBNF cannot
// express, such as a negated character set.
var ErrUnsupported = errors.New("not expressible in Go EBNF")

// ProductionName converts a rule name into a Go EBNF production name.
func ProductionName(rule string) string {
	return strings.ReplaceAll(rule, "-", "_")
}

// lintPrefix starts every production name exported for linting. Go EBNF
// treats lowercase names as lexical productions, which may not refer to
// the others; a common uppercase prefix puts all rules in one class.
const lintPrefix = "R_"

type exporter struct {
	// lenient exports unsupported classes as tokens holding the pattern
	// instead of failing, and prefixes every name with lintPrefix.
	lenient bool
}

func (x exporter) name(rule string) string {
	if x.lenient {
		return lintPrefix + ProductionName(rule)
	}
	return ProductionName(rule)
}

// Export renders rules in Go EBNF notation, one production per line.
func Export(rules []grammar.Rule) (string, error) {
	var sb strings.Builder
	if err := Write(&sb, rules); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write writes rules to w in Go EBNF notation.
func Write(w io.Writer, rules []grammar.Rule) error {
	return exporter{}.write(w, rules)
}

func (x exporter) write(w io.Writer, rules []grammar.Rule) error {
	width := 0
	for _, r := range rules {
		width = max(width, len(x.name(r.Name)))
	}
	for _, r := range rules {
		body, err := x.alternatives(r.Productions)
		if err != nil {
			return fmt.Errorf("rule <%s>: %w", r.Name, err)
		}
		if body != "" {
			body = " " + body
		}
		if _, err := fmt.Fprintf(w, "%-*s =%s .\n", width, x.name(r.Name), body); err != nil {
			return err
		}
	}
	return nil
}

// alternatives renders ps. Empty alternatives turn the remaining ones into
// an option; Go EBNF has no empty token.
func (x exporter) alternatives(ps []grammar.Production) (string, error) {
	var parts []string
	empty := false
	for _, p := range ps {
		s, err := x.sequence(p.Terms)
		if err != nil {
			return "", err
		}
		if s == "" {
			empty = true
			continue
		}
		parts = append(parts, s)
	}
	body := strings.Join(parts, " | ")
	if empty && body != "" {
		return "[ " + body + " ]", nil
	}
	return body, nil
}

func (x exporter) sequence(terms []grammar.Term) (string, error) {
	var parts []string
	for _, t := range terms {
		s, err := x.term(t)
		if err != nil {
			return "", err
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " "), nil
}

func (x exporter) term(t grammar.Term) (string, error) {
	switch t.Kind {
	case grammar.TermLiteral:
		if t.Text == "" {
			return "", nil
		}
		return strconv.Quote(t.Text), nil
	case grammar.TermRef:
		return x.name(t.Text), nil
	case grammar.TermClass:
		class, err := grammar.ParseClass(t.Text)
		if err == nil {
			var s string
			if s, err = x.class(class); err == nil {
				return s, nil
			}
		}
		if x.lenient {
			return strconv.Quote("/" + t.Text + "/"), nil
		}
		return "", fmt.Errorf("class /%s/: %w", t.Text, err)
	}

	body, err := x.alternatives(t.Alternatives)
	if err != nil || body == "" {
		return "", err
	}
	switch t.Kind {
	case grammar.TermGroup:
		return "( " + body + " )", nil
	case grammar.TermOptional:
		return "[ " + body + " ]", nil
	case grammar.TermRepeat:
		return "{ " + body + " }", nil
	}
	return "", fmt.Errorf("unknown term kind %s", t.Kind)
}

func (x exporter) class(e *grammar.ClassExpr) (string, error) {
	switch e.Op {
	case grammar.ClassChar:
		return strconv.Quote(string(e.Char)), nil
	case grammar.ClassAny:
		return "", fmt.Errorf("'.': %w", ErrUnsupported)
	case grammar.ClassSet:
		if e.Negated {
			return "", fmt.Errorf("negated set: %w", ErrUnsupported)
		}
		parts := make([]string, len(e.Ranges))
		for i, r := range e.Ranges {
			parts[i] = strconv.Quote(string(r.Lo))
			if r.Hi != r.Lo {
				parts[i] += " … " + strconv.Quote(string(r.Hi))
			}
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		return "( " + strings.Join(parts, " | ") + " )", nil
	case grammar.ClassSeq, grammar.ClassAlt:
		parts := make([]string, 0, len(e.Subs))
		empty := false
		for _, sub := range e.Subs {
			s, err := x.class(sub)
			if err != nil {
				return "", err
			}
			if s == "" {
				empty = true
				continue
			}
			parts = append(parts, s)
		}
		switch {
		case e.Op == grammar.ClassSeq:
			return strings.Join(parts, " "), nil
		case len(parts) == 0:
			return "", nil
		case empty:
			return "[ " + strings.Join(parts, " | ") + " ]", nil
		}
		return "( " + strings.Join(parts, " | ") + " )", nil
	}

	sub, err := x.class(e.Subs[0])
	if err != nil || sub == "" {
		return "", err
	}
	switch e.Op {
	case grammar.ClassStar:
		return "{ " + sub + " }", nil
	case grammar.ClassOptional:
		return "[ " + sub + " ]", nil
	case grammar.ClassPlus:
		return sub + " { " + sub + " }", nil
	}
	return "", fmt.Errorf("unknown class op %d", e.Op)
}
