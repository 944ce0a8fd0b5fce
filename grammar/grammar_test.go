package grammar

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/pcomb/tree"
)

const exprGrammar = `<number> ::= /[1-9][0-9]*/
<op> ::= /[+\-*\/]/
<term> ::= '(' <expr> ')' | <number>
<expr> ::= <term> ' ' <op> ' ' <term> | <term>
`

func mustCompile(t *testing.T, text string, opts ...Option) *Grammar {
	t.Helper()
	g, err := Compile(text, opts...)
	require.NoError(t, err)
	return g
}

func TestRecursiveRule(t *testing.T) {
	g := mustCompile(t, `<a> ::= "x" <a> | "x"`)
	n := g.Run("xxx")
	require.True(t, n.Succeeded(), n.Render())

	want := "" +
		"\\-a\n" +
		"  |-x\n" +
		"  \\-a\n" +
		"    |-x\n" +
		"    \\-a\n" +
		"      \\-x\n"
	assert.Equal(t, want, n.Render())
}

func TestExpressionGrammar(t *testing.T) {
	g := mustCompile(t, exprGrammar)
	assert.Equal(t, "expr", g.Start())

	n := g.Run("(1 + 2) / 304")
	require.True(t, n.Succeeded(), n.Render())
	assert.Equal(t, "expr", n.Value)
	assert.Equal(t, "(1 + 2) / 304", strings.Join(n.Leaves(), ""))
	assert.Equal(t, "/", n.Child("op").Text())
}

func TestExpressionGrammarFailure(t *testing.T) {
	g := mustCompile(t, exprGrammar)
	n := g.Run("(1 + )")
	assert.False(t, n.Succeeded())
	assert.True(t, n.IsError())
	assert.True(t, n.IsTerminal())
	assert.NotEmpty(t, n.Value)
}

func TestTrailingInput(t *testing.T) {
	g := mustCompile(t, `<a> ::= "x"`)
	n := g.Run("xy")
	require.False(t, n.Succeeded())
	assert.Contains(t, n.Value, "unexpected trailing input")
}

func TestRunRule(t *testing.T) {
	g := mustCompile(t, exprGrammar)

	n, err := g.RunRule("number", "304")
	require.NoError(t, err)
	assert.Equal(t, "number", n.Value)
	assert.Equal(t, "304", n.Text())

	_, err = g.RunRule("nope", "1")
	assert.Error(t, err)
}

func TestMultilineProductions(t *testing.T) {
	g := mustCompile(t, "<a> ::= \"x\"\n      | \"y\"\n\n<b> ::= <a> <a>\n")

	a, ok := g.Rule("a")
	require.True(t, ok)
	assert.Len(t, a.Productions, 2)
	assert.Equal(t, "b", g.Start())
	assert.True(t, g.Run("yx").Succeeded())
	assert.Len(t, g.Rules(), 2)
}

func TestSourceIsKept(t *testing.T) {
	g := mustCompile(t, exprGrammar)
	assert.Equal(t, exprGrammar, g.Source())
}

func TestWithStart(t *testing.T) {
	text := "<a> ::= \"x\"\n<b> ::= \"y\"\n"

	g := mustCompile(t, text, WithStart("b"))
	assert.Equal(t, "b", g.Start())
	assert.True(t, g.Run("y").Succeeded())

	_, err := Compile(text, WithStart("zzz"))
	assert.True(t, errors.Is(err, ErrUndefinedRule))
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		grammar string
		kind    ErrorKind
		line    int
	}{
		{"duplicate rule", "<a> ::= \"x\"\n<a> ::= \"y\"\n", ErrDuplicateRule, 2},
		{"undefined rule", `<a> ::= <b>`, ErrUndefinedRule, 1},
		{"mutual references only", "<a> ::= <b>\n<b> ::= <a>\n", ErrNoStart, 1},
		{"closed productive cycle", "<a> ::= \"x\" <b> | \"x\"\n<b> ::= \"y\" <a>\n", ErrNoStart, 1},
		{"two unreferenced rules", "<a> ::= \"x\"\n<b> ::= \"y\"\n", ErrAmbiguousStart, 2},
		{"two independent cycles", "<a> ::= <b> | \"x\"\n<b> ::= <a> | \"y\"\n<c> ::= <d> | \"z\"\n<d> ::= <c>\n", ErrAmbiguousStart, 3},
		{"direct left recursion", "<expr> ::= <expr> \"+\" <num> | <num>\n<num> ::= /[0-9]+/\n", ErrLeftRecursion, 1},
		{"indirect left recursion", "<n> ::= \"1\"\n<b> ::= <a> \"y\" | <n>\n<a> ::= <b> \"x\"\n", ErrLeftRecursion, 2},
		{"left recursion behind nullable class", `<e> ::= /\s*/ <e> "x" | "y"`, ErrLeftRecursion, 1},
		{"bad operator", "<a> ::= \"x\"\n<b> := \"y\"\n", ErrMalformed, 2},
		{"unterminated literal", `<a> ::= "x`, ErrMalformed, 1},
		{"bad character class", `<a> ::= /[z-a]/`, ErrMalformed, 1},
		{"empty grammar", "", ErrMalformed, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.grammar)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)

			var ce *CompileError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.line, ce.Pos.Line, "position of %v", err)
		})
	}
}

func TestCompileErrorDetails(t *testing.T) {
	_, err := Compile(`<a> ::= <b>`, WithFilename("g.bnf"))
	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "g.bnf:1:9: undefined rule: rule <a> refers to undefined rule <b>", ce.Error())
	assert.Equal(t, "a", ce.Rule)
	assert.NotEmpty(t, ce.Hint())

	_, err = Compile("<expr> ::= <expr> \"+\" \"1\" | \"1\"")
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Message, "<expr> -> <expr>")
}

func TestCompileRules(t *testing.T) {
	rules := []Rule{
		{Name: "digit", Productions: []Production{Seq(Class("[0-9]"))}},
		{Name: "list", Productions: []Production{
			Seq(Ref("digit"), Repeat(Seq(Literal(","), Ref("digit"))), Optional(Seq(Literal(";")))),
		}},
	}
	g, err := CompileRules(rules)
	require.NoError(t, err)
	assert.Equal(t, "list", g.Start())
	assert.Empty(t, g.Source())

	n := g.Run("1,2,3;")
	require.True(t, n.Succeeded(), n.Render())
	assert.Len(t, n.ChildrenLabeled("digit"), 3)
	assert.Equal(t, "1,2,3;", n.Text())

	_, err = CompileRules(nil)
	assert.True(t, errors.Is(err, ErrNoStart))
}

func TestLispyGrammar(t *testing.T) {
	text, err := os.ReadFile("testdata/lispy.bnf")
	require.NoError(t, err)
	g := mustCompile(t, string(text), WithFilename("lispy.bnf"))
	assert.Equal(t, "lispy", g.Start())

	input := "+ 1 (* 2 3) {a b}"
	n := g.Run(input)
	require.True(t, n.Succeeded(), n.Render())
	assert.Equal(t, input, n.Text())

	counts := make(map[string]int)
	n.Walk(func(node *tree.Node, _ int) bool {
		if !node.IsTerminal() {
			counts[node.Value]++
		}
		return true
	})
	assert.Equal(t, 3, counts["number"])
	assert.Equal(t, 4, counts["symbol"])
	assert.Equal(t, 1, counts["sexpr"])
	assert.Equal(t, 1, counts["qexpr"])
}

func TestRuleString(t *testing.T) {
	rules, err := Parse("", `<a> ::= "x" <a> | /[0-9]/ | 'say "hi"'`)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, `<a> ::= "x" <a> | /[0-9]/ | 'say "hi"'`, rules[0].String())
	assert.Equal(t, []string{"a"}, rules[0].References())
	assert.Equal(t, 1, rules[0].Pos.Line)
	assert.Equal(t, 1, rules[0].Pos.Column)
}
