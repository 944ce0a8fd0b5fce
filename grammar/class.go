package grammar

import (
	"fmt"
	"strings"

	c "github.com/dhamidi/pcomb/combinator"
	"github.com/dhamidi/pcomb/symbol"
)

// ClassOp identifies a node of a parsed character-class pattern.
type ClassOp int

const (
	ClassChar ClassOp = iota
	ClassAny
	ClassSet
	ClassSeq
	ClassAlt
	ClassStar
	ClassPlus
	ClassOptional
)

// maxSetSize bounds the number of characters a bracket expression may expand
// to.
const maxSetSize = 4096

// RuneRange is an inclusive range of characters.
type RuneRange struct {
	Lo, Hi rune
}

// ClassExpr is the syntax tree of a character-class pattern such as
// `[0-9]+(\.[0-9]+)?`.
type ClassExpr struct {
	Op      ClassOp
	Char    rune        // ClassChar
	Ranges  []RuneRange // ClassSet
	Negated bool        // ClassSet
	Subs    []*ClassExpr
}

// Nullable reports whether the pattern can match the empty string.
func (e *ClassExpr) Nullable() bool {
	switch e.Op {
	case ClassSeq:
		for _, s := range e.Subs {
			if !s.Nullable() {
				return false
			}
		}
		return true
	case ClassAlt:
		for _, s := range e.Subs {
			if s.Nullable() {
				return true
			}
		}
		return false
	case ClassStar, ClassOptional:
		return true
	case ClassPlus:
		return e.Subs[0].Nullable()
	}
	return false
}

// Chars expands the ranges of a set into the characters they contain.
func (e *ClassExpr) Chars() string {
	var sb strings.Builder
	for _, r := range e.Ranges {
		for ch := r.Lo; ch <= r.Hi; ch++ {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

// Parser compiles the pattern to combinators. The result yields the matched
// characters as separate Values; callers collapse them.
func (e *ClassExpr) Parser() c.Parser[symbol.Symbol] {
	switch e.Op {
	case ClassChar:
		return c.Accept(e.Char)
	case ClassAny:
		return c.Dot()
	case ClassSet:
		if e.Negated {
			return c.Not(c.Set(e.Chars()))
		}
		return c.Set(e.Chars())
	case ClassSeq:
		return c.Sequence(e.subParsers()...)
	case ClassAlt:
		return c.Alternate(e.subParsers()...)
	case ClassStar:
		return c.Star(e.Subs[0].Parser())
	case ClassPlus:
		return c.Plus(e.Subs[0].Parser())
	case ClassOptional:
		return c.Maybe(e.Subs[0].Parser())
	}
	panic(fmt.Sprintf("grammar: unknown class op %d", e.Op))
}

func (e *ClassExpr) subParsers() []c.Parser[symbol.Symbol] {
	ps := make([]c.Parser[symbol.Symbol], len(e.Subs))
	for i, s := range e.Subs {
		ps[i] = s.Parser()
	}
	return ps
}

// ParseClass parses the body of a /.../ term.
func ParseClass(pattern string) (*ClassExpr, error) {
	p := &classParser{src: []rune(pattern)}
	e, err := p.alternation()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.errorf("unbalanced ')'")
	}
	return e, nil
}

type classParser struct {
	src []rune
	pos int
}

func (p *classParser) eof() bool { return p.pos >= len(p.src) }

func (p *classParser) peek() rune { return p.src[p.pos] }

func (p *classParser) next() rune {
	r := p.src[p.pos]
	p.pos++
	return r
}

func (p *classParser) errorf(format string, args ...any) error {
	return fmt.Errorf("character class at %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *classParser) alternation() (*ClassExpr, error) {
	var alts []*ClassExpr
	for {
		seq, err := p.sequence()
		if err != nil {
			return nil, err
		}
		alts = append(alts, seq)
		if p.eof() || p.peek() != '|' {
			break
		}
		p.next()
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	return &ClassExpr{Op: ClassAlt, Subs: alts}, nil
}

func (p *classParser) sequence() (*ClassExpr, error) {
	var items []*ClassExpr
	for !p.eof() && p.peek() != '|' && p.peek() != ')' {
		item, err := p.repetition()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return &ClassExpr{Op: ClassSeq, Subs: items}, nil
}

func (p *classParser) repetition() (*ClassExpr, error) {
	e, err := p.atom()
	if err != nil {
		return nil, err
	}
	for !p.eof() {
		var op ClassOp
		switch p.peek() {
		case '*':
			op = ClassStar
		case '+':
			op = ClassPlus
		case '?':
			op = ClassOptional
		default:
			return e, nil
		}
		p.next()
		e = &ClassExpr{Op: op, Subs: []*ClassExpr{e}}
	}
	return e, nil
}

func (p *classParser) atom() (*ClassExpr, error) {
	switch r := p.next(); r {
	case '(':
		e, err := p.alternation()
		if err != nil {
			return nil, err
		}
		if p.eof() || p.next() != ')' {
			return nil, p.errorf("missing ')'")
		}
		return e, nil
	case '[':
		return p.set()
	case '.':
		return &ClassExpr{Op: ClassAny}, nil
	case '\\':
		return p.escape()
	case '*', '+', '?':
		return nil, p.errorf("nothing to repeat before %q", r)
	default:
		return &ClassExpr{Op: ClassChar, Char: r}, nil
	}
}

var (
	digitRanges = []RuneRange{{'0', '9'}}
	wordRanges  = []RuneRange{{'a', 'z'}, {'A', 'Z'}, {'0', '9'}, {'_', '_'}}
	spaceRanges = []RuneRange{{' ', ' '}, {'\t', '\t'}, {'\n', '\n'}, {'\r', '\r'}, {'\f', '\f'}, {'\v', '\v'}}
)

// escapedRanges resolves \d, \w and \s.
func escapedRanges(r rune) ([]RuneRange, bool) {
	switch r {
	case 'd':
		return digitRanges, true
	case 'w':
		return wordRanges, true
	case 's':
		return spaceRanges, true
	}
	return nil, false
}

func escapedChar(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case 'f':
		return '\f'
	case 'v':
		return '\v'
	}
	return r
}

func (p *classParser) escape() (*ClassExpr, error) {
	if p.eof() {
		return nil, p.errorf("trailing backslash")
	}
	r := p.next()
	if ranges, ok := escapedRanges(r); ok {
		return &ClassExpr{Op: ClassSet, Ranges: ranges}, nil
	}
	return &ClassExpr{Op: ClassChar, Char: escapedChar(r)}, nil
}

func (p *classParser) set() (*ClassExpr, error) {
	e := &ClassExpr{Op: ClassSet}
	if !p.eof() && p.peek() == '^' {
		p.next()
		e.Negated = true
	}
	first := true
	for {
		if p.eof() {
			return nil, p.errorf("missing ']'")
		}
		r := p.next()
		if r == ']' && !first {
			break
		}
		first = false

		lo := r
		if r == '\\' {
			if p.eof() {
				return nil, p.errorf("trailing backslash")
			}
			r = p.next()
			if ranges, ok := escapedRanges(r); ok {
				e.Ranges = append(e.Ranges, ranges...)
				continue
			}
			lo = escapedChar(r)
		}

		hi := lo
		if p.pos+1 < len(p.src) && p.peek() == '-' && p.src[p.pos+1] != ']' {
			p.next()
			hi = p.next()
			if hi == '\\' {
				if p.eof() {
					return nil, p.errorf("trailing backslash")
				}
				hi = escapedChar(p.next())
			}
			if hi < lo {
				return nil, p.errorf("invalid range %q-%q", lo, hi)
			}
		}
		e.Ranges = append(e.Ranges, RuneRange{Lo: lo, Hi: hi})
	}

	size := 0
	for _, r := range e.Ranges {
		size += int(r.Hi-r.Lo) + 1
	}
	if size > maxSetSize {
		return nil, p.errorf("character set too large (%d characters)", size)
	}
	return e, nil
}
