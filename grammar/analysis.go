package grammar

import (
	"slices"
	"strings"
)

// analysis holds the static facts about a rule set that compilation needs.
type analysis struct {
	rules   []Rule
	index   map[string]int
	classes map[string]*ClassExpr
	refs    [][]int // refs[i] lists the rules referenced by rule i, self references included
}

func analyze(rules []Rule) (*analysis, error) {
	a := &analysis{
		rules:   rules,
		index:   make(map[string]int, len(rules)),
		classes: make(map[string]*ClassExpr),
		refs:    make([][]int, len(rules)),
	}

	for i, r := range rules {
		if first, ok := a.index[r.Name]; ok {
			return nil, newError(ErrDuplicateRule, r.Name, r.Pos,
				"rule <%s> is already defined at %s", r.Name, rules[first].Pos)
		}
		a.index[r.Name] = i
	}

	for i, r := range rules {
		var err error
		seen := make(map[int]bool)
		walkTerms(r.Productions, func(t Term) {
			if err != nil {
				return
			}
			switch t.Kind {
			case TermRef:
				j, ok := a.index[t.Text]
				if !ok {
					err = newError(ErrUndefinedRule, r.Name, t.Pos,
						"rule <%s> refers to undefined rule <%s>", r.Name, t.Text)
					return
				}
				if !seen[j] {
					seen[j] = true
					a.refs[i] = append(a.refs[i], j)
				}
			case TermClass:
				if _, ok := a.classes[t.Text]; ok {
					return
				}
				class, cerr := ParseClass(t.Text)
				if cerr != nil {
					err = newError(ErrMalformed, r.Name, t.Pos, "%s", cerr)
					return
				}
				a.classes[t.Text] = class
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *analysis) names(ids []int) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = "<" + a.rules[id].Name + ">"
	}
	return strings.Join(names, ", ")
}

// inferStart picks the start rule: the only rule no other rule refers to.
// When every rule is referenced, the root strongly connected components of
// the reference graph are considered instead. The only productive one wins
// if it refers to rules outside itself; its last declared rule is the start.
func (a *analysis) inferStart() (int, error) {
	n := len(a.rules)
	incoming := make([]int, n)
	for i, out := range a.refs {
		for _, j := range out {
			if j != i {
				incoming[j]++
			}
		}
	}

	var candidates []int
	for i := range a.rules {
		if incoming[i] == 0 {
			candidates = append(candidates, i)
		}
	}
	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
	default:
		return 0, newError(ErrAmbiguousStart, a.rules[candidates[1]].Name, a.rules[candidates[1]].Pos,
			"rules %s are not referenced by any other rule", a.names(candidates))
	}

	components := a.components()
	componentOf := make([]int, n)
	for ci, members := range components {
		for _, m := range members {
			componentOf[m] = ci
		}
	}
	isRoot := make([]bool, len(components))
	for i := range isRoot {
		isRoot[i] = true
	}
	open := make([]bool, len(components))
	for i, out := range a.refs {
		for _, j := range out {
			if componentOf[i] != componentOf[j] {
				isRoot[componentOf[j]] = false
				open[componentOf[i]] = true
			}
		}
	}

	productive := a.productive()
	var roots []int
	for ci, members := range components {
		if !isRoot[ci] {
			continue
		}
		for _, m := range members {
			if productive[m] {
				roots = append(roots, ci)
				break
			}
		}
	}

	switch len(roots) {
	case 0:
		return 0, newError(ErrNoStart, "", a.rules[0].Pos,
			"every rule is referenced by another rule and no rule cycle can derive a finite string")
	case 1:
		if !open[roots[0]] {
			return 0, newError(ErrNoStart, "", a.rules[0].Pos,
				"rules %s only refer to each other", a.names(components[roots[0]]))
		}
		last := 0
		for _, m := range components[roots[0]] {
			if m > last {
				last = m
			}
		}
		return last, nil
	}
	var heads []int
	for _, ci := range roots {
		heads = append(heads, slices.Min(components[ci]))
	}
	slices.Sort(heads)
	return 0, newError(ErrAmbiguousStart, "", a.rules[heads[1]].Pos,
		"independent rule cycles starting at %s could each be the start rule", a.names(heads))
}

// components returns the strongly connected components of the reference
// graph using Tarjan's algorithm.
func (a *analysis) components() [][]int {
	n := len(a.rules)
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var (
		stack  []int
		result [][]int
		next   int
	)

	var connect func(v int)
	connect = func(v int) {
		index[v], low[v] = next, next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range a.refs[v] {
			if index[w] < 0 {
				connect(w)
				low[v] = min(low[v], low[w])
			} else if onStack[w] {
				low[v] = min(low[v], index[w])
			}
		}

		if low[v] == index[v] {
			var component []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				component = append(component, w)
				if w == v {
					break
				}
			}
			result = append(result, component)
		}
	}

	for v := 0; v < n; v++ {
		if index[v] < 0 {
			connect(v)
		}
	}
	return result
}

// productive computes which rules can derive a finite string.
func (a *analysis) productive() []bool {
	productive := make([]bool, len(a.rules))
	var alternatives func(ps []Production) bool
	term := func(t Term) bool {
		switch t.Kind {
		case TermRef:
			return productive[a.index[t.Text]]
		case TermGroup:
			return alternatives(t.Alternatives)
		}
		return true
	}
	alternatives = func(ps []Production) bool {
		for _, p := range ps {
			ok := true
			for _, t := range p.Terms {
				if !term(t) {
					ok = false
					break
				}
			}
			if ok {
				return true
			}
		}
		return false
	}

	for changed := true; changed; {
		changed = false
		for i, r := range a.rules {
			if !productive[i] && alternatives(r.Productions) {
				productive[i] = true
				changed = true
			}
		}
	}
	return productive
}

// nullable computes which rules can match without consuming input.
func (a *analysis) nullable() []bool {
	nullable := make([]bool, len(a.rules))
	for changed := true; changed; {
		changed = false
		for i, r := range a.rules {
			if !nullable[i] && a.alternativesNullable(r.Productions, nullable) {
				nullable[i] = true
				changed = true
			}
		}
	}
	return nullable
}

func (a *analysis) alternativesNullable(ps []Production, nullable []bool) bool {
	for _, p := range ps {
		if a.sequenceNullable(p.Terms, nullable) {
			return true
		}
	}
	return false
}

func (a *analysis) sequenceNullable(terms []Term, nullable []bool) bool {
	for _, t := range terms {
		if !a.termNullable(t, nullable) {
			return false
		}
	}
	return true
}

func (a *analysis) termNullable(t Term, nullable []bool) bool {
	switch t.Kind {
	case TermLiteral:
		return t.Text == ""
	case TermClass:
		return a.classes[t.Text].Nullable()
	case TermRef:
		return nullable[a.index[t.Text]]
	case TermGroup:
		return a.alternativesNullable(t.Alternatives, nullable)
	}
	return true
}

// leftmost collects the rules that can be invoked at the start of ps before
// any input is consumed.
func (a *analysis) leftmost(ps []Production, nullable []bool, into map[int]bool) {
	for _, p := range ps {
		for _, t := range p.Terms {
			switch t.Kind {
			case TermRef:
				into[a.index[t.Text]] = true
			case TermGroup, TermOptional, TermRepeat:
				a.leftmost(t.Alternatives, nullable, into)
			}
			if !a.termNullable(t, nullable) {
				break
			}
		}
	}
}

// checkLeftRecursion rejects grammars in which a rule can reach itself
// without consuming input. Such rules would never terminate.
func (a *analysis) checkLeftRecursion() error {
	nullable := a.nullable()
	edges := make([][]int, len(a.rules))
	for i, r := range a.rules {
		set := make(map[int]bool)
		a.leftmost(r.Productions, nullable, set)
		for j := range a.rules {
			if set[j] {
				edges[i] = append(edges[i], j)
			}
		}
	}

	const (
		unvisited = iota
		active
		done
	)
	state := make([]int, len(a.rules))
	var path []int
	var cycle []int

	var visit func(v int) bool
	visit = func(v int) bool {
		state[v] = active
		path = append(path, v)
		for _, w := range edges[v] {
			switch state[w] {
			case active:
				for k, p := range path {
					if p == w {
						cycle = append(append([]int{}, path[k:]...), w)
						break
					}
				}
				return true
			case unvisited:
				if visit(w) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		state[v] = done
		return false
	}

	for v := range a.rules {
		if state[v] == unvisited && visit(v) {
			names := make([]string, len(cycle))
			for i, id := range cycle {
				names[i] = "<" + a.rules[id].Name + ">"
			}
			r := a.rules[cycle[0]]
			return newError(ErrLeftRecursion, r.Name, r.Pos,
				"rule <%s> is left recursive: %s", r.Name, strings.Join(names, " -> "))
		}
	}
	return nil
}
