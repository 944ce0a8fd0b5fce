package ebnf

import (
	"reflect"
	"strconv"
	"strings"

	goebnf "golang.org/x/exp/ebnf"

	"github.com/dhamidi/pcomb/grammar"
	"github.com/dhamidi/pcomb/input"
)

// Verify checks that every production of g is defined and reachable from
// start. It returns one error per problem found.
func Verify(g goebnf.Grammar, start string) []error {
	return Errors(goebnf.Verify(g, start))
}

// Errors splits the error lists returned by x/exp/ebnf into their elements.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	v := reflect.ValueOf(err)
	if v.Kind() != reflect.Slice {
		return []error{err}
	}
	errs := make([]error, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		if e, ok := v.Index(i).Interface().(error); ok {
			errs = append(errs, e)
		}
	}
	return errs
}

// Diagnostic is a lint finding for a rule.
type Diagnostic struct {
	Rule    string
	Pos     input.Position
	Message string
}

func (d Diagnostic) String() string {
	if d.Pos.Line > 0 {
		return d.Pos.String() + ": " + d.Message
	}
	return d.Message
}

// Lint exports rules to Go EBNF and verifies the result from start. Classes
// Go EBNF cannot express are exported as plain tokens and all productions
// are made non-lexical, so rule names may mix case freely. Findings are reported
// against the rule whose exported production they refer to.
func Lint(rules []grammar.Rule, start string) []Diagnostic {
	var sb strings.Builder
	if err := (exporter{lenient: true}).write(&sb, rules); err != nil {
		return []Diagnostic{{Message: err.Error()}}
	}

	g, err := goebnf.Parse("lint", strings.NewReader(sb.String()))
	if err != nil {
		return diagnostics(rules, Errors(err))
	}
	return diagnostics(rules, Verify(g, lintPrefix+ProductionName(start)))
}

func diagnostics(rules []grammar.Rule, errs []error) []Diagnostic {
	result := make([]Diagnostic, 0, len(errs))
	for _, err := range errs {
		line, msg := splitPosition(err.Error())
		d := Diagnostic{Message: strings.Replace(msg, lintPrefix, "", 1)}
		if line >= 1 && line <= len(rules) {
			d.Rule = rules[line-1].Name
			d.Pos = rules[line-1].Pos
		}
		result = append(result, d)
	}
	return result
}

// splitPosition separates a "file:line:col: message" error text into the
// line number and the message.
func splitPosition(text string) (int, string) {
	parts := strings.SplitN(text, ":", 4)
	if len(parts) < 4 {
		return 0, text
	}
	line, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, text
	}
	return line, strings.TrimSpace(parts[3])
}
