package lsp

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/pcomb/ebnf"
	"github.com/dhamidi/pcomb/grammar"
	"github.com/dhamidi/pcomb/input"
)

// Severity orders problems found in a grammar document.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

// Problem is a diagnostic in editor-independent form. Lines and columns are
// 1-based.
type Problem struct {
	Severity Severity
	Pos      input.Position
	Message  string
	Hint     string
}

// Document is an open grammar file and what is known about it.
type Document struct {
	URI     string
	Text    string
	Rules   []grammar.Rule
	Grammar *grammar.Grammar
	Err     error
	Lint    []ebnf.Diagnostic
}

// Analyze parses and compiles text. The rules are kept even when
// compilation fails so navigation keeps working.
func Analyze(uri, text string) *Document {
	doc := &Document{URI: uri, Text: text}
	filename := uri
	if path, err := uriToPath(uri); err == nil {
		filename = path
	}

	rules, err := grammar.Parse(filename, text)
	if err != nil {
		doc.Err = err
		doc.Rules = salvage(filename, text)
		return doc
	}
	doc.Rules = rules

	g, err := grammar.CompileRules(rules, grammar.WithFilename(filename))
	if err != nil {
		doc.Err = err
		return doc
	}
	doc.Grammar = g
	doc.Lint = ebnf.Lint(rules, g.Start())
	return doc
}

// salvage parses the rules of a malformed document one at a time and keeps
// those that parse. Every rule starts on a line of its own; lines starting
// with '|' continue the previous rule.
func salvage(filename, text string) []grammar.Rule {
	var rules []grammar.Rule
	lines := strings.Split(text, "\n")
	flush := func(start, end int) {
		if start < 0 {
			return
		}
		chunk := strings.Repeat("\n", start) + strings.Join(lines[start:end], "\n")
		if parsed, err := grammar.Parse(filename, chunk); err == nil {
			rules = append(rules, parsed...)
		}
	}

	start := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|") {
			continue
		}
		flush(start, i)
		start = -1
		if trimmed != "" {
			start = i
		}
	}
	flush(start, len(lines))
	return rules
}

// Problems lists the compile error and lint findings of the document.
func (d *Document) Problems() []Problem {
	var problems []Problem
	if d.Err != nil {
		p := Problem{Severity: SeverityError, Message: d.Err.Error()}
		var ce *grammar.CompileError
		if errors.As(d.Err, &ce) {
			p.Pos = ce.Pos
			p.Message = ce.Kind.Error() + ": " + ce.Message
			p.Hint = ce.Hint()
		}
		if p.Pos.Line == 0 {
			p.Pos = input.Position{Line: 1, Column: 1}
		}
		problems = append(problems, p)
	}
	for _, l := range d.Lint {
		pos := l.Pos
		if pos.Line == 0 {
			pos = input.Position{Line: 1, Column: 1}
		}
		problems = append(problems, Problem{Severity: SeverityWarning, Pos: pos, Message: l.Message})
	}
	return problems
}

// Rule returns the rule named name.
func (d *Document) Rule(name string) (grammar.Rule, bool) {
	for _, r := range d.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return grammar.Rule{}, false
}

// ReferenceAt returns the name of the <rule> under the 1-based line and
// column, or "".
func (d *Document) ReferenceAt(line, column int) string {
	runes := []rune(lineText(d.Text, line))
	i := column - 1
	if i < 0 || i >= len(runes) {
		return ""
	}

	start := i
	if runes[start] == '>' {
		start--
	}
	for start >= 0 && isNameRune(runes[start]) {
		start--
	}
	if start < 0 || runes[start] != '<' {
		return ""
	}
	end := start + 1
	for end < len(runes) && isNameRune(runes[end]) {
		end++
	}
	if end == start+1 || end >= len(runes) || runes[end] != '>' {
		return ""
	}
	return string(runes[start+1 : end])
}

// Hover describes the rule under the cursor in Markdown.
func (d *Document) Hover(line, column int) (string, bool) {
	r, ok := d.Rule(d.ReferenceAt(line, column))
	if !ok {
		return "", false
	}
	var sb strings.Builder
	sb.WriteString("```bnf\n")
	sb.WriteString(r.String())
	sb.WriteString("\n```")
	if d.Grammar != nil && d.Grammar.Start() == r.Name {
		sb.WriteString("\n\nStart rule.")
	}
	if refs := d.referencedBy(r.Name); len(refs) > 0 {
		sb.WriteString("\n\nUsed by ")
		sb.WriteString(strings.Join(refs, ", "))
		sb.WriteByte('.')
	}
	return sb.String(), true
}

func (d *Document) referencedBy(name string) []string {
	var refs []string
	for _, r := range d.Rules {
		for _, ref := range r.References() {
			if ref == name && r.Name != name {
				refs = append(refs, "<"+r.Name+">")
				break
			}
		}
	}
	return refs
}

// Definition returns where the rule under the cursor is defined.
func (d *Document) Definition(line, column int) (input.Position, bool) {
	r, ok := d.Rule(d.ReferenceAt(line, column))
	if !ok {
		return input.Position{}, false
	}
	return r.Pos, true
}

// Completions returns the rule names that complete a reference being typed
// at the cursor, which sits right after the typed text. ok is false when the
// cursor is not inside a reference.
func (d *Document) Completions(line, column int) (names []string, ok bool) {
	runes := []rune(lineText(d.Text, line))
	end := min(column-1, len(runes))
	start := end - 1
	for start >= 0 && isNameRune(runes[start]) {
		start--
	}
	if start < 0 || runes[start] != '<' {
		return nil, false
	}
	prefix := string(runes[start+1 : end])
	for _, r := range d.Rules {
		if strings.HasPrefix(r.Name, prefix) {
			names = append(names, r.Name)
		}
	}
	sort.Strings(names)
	return names, true
}

func isNameRune(r rune) bool {
	return r == '-' || r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func lineText(text string, line int) string {
	lines := strings.Split(text, "\n")
	if line <= 0 || line > len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[line-1], "\r")
}

// Workspace holds the open documents.
type Workspace struct {
	mu   sync.Mutex
	docs map[string]*Document
}

func NewWorkspace() *Workspace {
	return &Workspace{docs: make(map[string]*Document)}
}

// Update analyzes text and stores it as the content of uri.
func (w *Workspace) Update(uri, text string) *Document {
	doc := Analyze(uri, text)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.docs[uri] = doc
	return doc
}

func (w *Workspace) Get(uri string) *Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.docs[uri]
}

func (w *Workspace) Close(uri string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.docs, uri)
}
