package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/pcomb/combinator"
	"github.com/dhamidi/pcomb/input"
	"github.com/dhamidi/pcomb/symbol"
)

func sample() *Node {
	return NewNonterminal("sentence",
		NewNonterminal("word", NewTerminal("hello")),
		NewTerminal(" "),
		NewNonterminal("word", NewTerminal("world")),
	)
}

func TestNodeAddChild(t *testing.T) {
	parent := NewNonterminal("list")
	parent.AddChild(NewTerminal("a"))
	parent.AddChild(nil)
	parent.AddChild(NewTerminal("b"))

	require.Len(t, parent.Children, 2)
	assert.Panics(t, func() { NewTerminal("x").AddChild(NewTerminal("y")) })
}

func TestNodeQueries(t *testing.T) {
	n := sample()

	assert.Equal(t, "hello", n.Child("word").Text())
	assert.Len(t, n.ChildrenLabeled("word"), 2)
	assert.Nil(t, n.Child("missing"))
	assert.Equal(t, []string{"hello", " ", "world"}, n.Leaves())
	assert.Equal(t, "hello world", n.Text())
	assert.True(t, n.Succeeded())
	assert.False(t, n.IsTerminal())
}

func TestWalkSkipsChildren(t *testing.T) {
	var visited []string
	sample().Walk(func(node *Node, depth int) bool {
		visited = append(visited, node.Value)
		return node.Value != "word"
	})
	assert.Equal(t, []string{"sentence", "word", " ", "word"}, visited)
}

func TestRender(t *testing.T) {
	want := "" +
		"\\-sentence\n" +
		"  |-word\n" +
		"  | \\-hello\n" +
		"  |-\" \"\n" +
		"  \\-word\n" +
		"    \\-world\n"
	assert.Equal(t, want, sample().Render())
	assert.Equal(t, want, sample().String())
}

func TestDecodeFailure(t *testing.T) {
	err := &combinator.Error{Causes: []*combinator.Error{
		combinator.Errorf(0, "first"),
		combinator.Errorf(0, "second"),
	}}
	n := Decode(combinator.Failure[symbol.Symbol](err, input.New("x")))

	require.True(t, n.IsTerminal())
	assert.False(t, n.Succeeded())
	assert.True(t, n.IsError())
	assert.Equal(t, "first; second", n.Value)
	assert.Equal(t, "\\-first; second\n", n.Render())
}

func TestDecodeSingleValue(t *testing.T) {
	n := Decode(combinator.Success([]symbol.Symbol{symbol.Value("abc")}, input.New("")))
	require.True(t, n.IsTerminal())
	assert.Equal(t, "abc", n.Value)
	assert.True(t, n.Succeeded())
}

func TestDecodeEmpty(t *testing.T) {
	n := Decode(combinator.Success[symbol.Symbol](nil, input.New("")))
	require.True(t, n.IsTerminal())
	assert.Equal(t, "", n.Value)
}

func TestDecodeOwnedTree(t *testing.T) {
	s := symbol.Nonterminal("a", symbol.Value("x"), symbol.Nonterminal("a", symbol.Value("y")))
	n := Decode(combinator.Success([]symbol.Symbol{s}, input.New("")))

	require.False(t, n.IsTerminal())
	assert.Equal(t, "a", n.Value)
	require.Len(t, n.Children, 2)
	assert.Equal(t, "a", n.Children[1].Value)
	assert.Equal(t, []string{"x", "y"}, n.Leaves())
}

func TestDecodeSeveralTopLevelSymbols(t *testing.T) {
	values := []symbol.Symbol{symbol.Value("root"), symbol.Value("a"), symbol.Nonterminal("b", symbol.Value("c"))}
	n := Decode(combinator.Success(values, input.New("")))

	assert.Equal(t, KindNonterminal, n.Kind)
	assert.Equal(t, "root", n.Value)
	require.Len(t, n.Children, 2)
	assert.Equal(t, "a", n.Children[0].Value)
	assert.Equal(t, "b", n.Children[1].Value)
}

func TestDecodeMarkerStream(t *testing.T) {
	flat := symbol.Flatten([]symbol.Symbol{symbol.Nonterminal("a", symbol.Value("x"))})
	n := Decode(combinator.Success(flat, input.New("")))
	require.True(t, n.Succeeded())
	assert.Equal(t, "\\-a\n  \\-x\n", n.Render())
}

func TestFromSymbolsRoundTrip(t *testing.T) {
	owned := symbol.Nonterminal("expr",
		symbol.Nonterminal("term", symbol.Value("("), symbol.Nonterminal("expr", symbol.Nonterminal("term", symbol.Nonterminal("number", symbol.Value("1")))), symbol.Value(")")),
		symbol.Value(" "),
		symbol.Nonterminal("op", symbol.Value("/")),
		symbol.Value(" "),
		symbol.Nonterminal("term", symbol.Nonterminal("number", symbol.Value("304"))),
		symbol.Nonterminal("empty"),
	)
	want := Decode(combinator.Success([]symbol.Symbol{owned}, input.New("")))

	got, err := FromSymbols(symbol.Flatten([]symbol.Symbol{owned}))
	require.NoError(t, err)
	assert.Equal(t, want.Render(), got.Render())
	assert.Equal(t, KindNonterminal, got.Children[len(got.Children)-1].Kind)
}

func TestFromSymbolsPromotesValueRoot(t *testing.T) {
	stream := []symbol.Symbol{
		symbol.Value("sum"), symbol.ChildMarker(), symbol.Value("1"), symbol.Value("+"), symbol.ParentMarker(),
	}
	got, err := FromSymbols(stream)
	require.NoError(t, err)
	assert.Equal(t, KindNonterminal, got.Kind)
	assert.Equal(t, "sum", got.Value)
	assert.Equal(t, []string{"1", "+"}, got.Leaves())
}

func TestFromSymbolsStructuralErrors(t *testing.T) {
	v := symbol.Value
	nt := func(s string) symbol.Symbol { return symbol.Nonterminal(s) }
	cm, pm := symbol.ChildMarker(), symbol.ParentMarker()

	tests := []struct {
		name    string
		symbols []symbol.Symbol
	}{
		{"empty", nil},
		{"dangling child marker", []symbol.Symbol{nt("a"), cm}},
		{"child marker before marker", []symbol.Symbol{nt("a"), cm, pm}},
		{"leading child marker", []symbol.Symbol{cm, nt("a")}},
		{"terminal with children", []symbol.Symbol{nt("a"), cm, v("x"), cm, v("y")}},
		{"unbalanced parent marker", []symbol.Symbol{nt("a"), pm}},
		{"second root", []symbol.Symbol{nt("a"), v("b")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSymbols(tt.symbols)
			require.Error(t, err)
			var structural *StructuralError
			assert.True(t, errors.As(err, &structural))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Terminal", KindTerminal.String())
	assert.Equal(t, "Nonterminal", KindNonterminal.String())
	assert.Equal(t, "Unknown", Kind(7).String())
}
