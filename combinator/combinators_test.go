package combinator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/pcomb/input"
	"github.com/dhamidi/pcomb/symbol"
)

func texts(o Outcome[symbol.Symbol]) []string {
	var out []string
	for _, s := range o.Values() {
		out = append(out, s.Text)
	}
	return out
}

func TestAccept(t *testing.T) {
	o := Accept('a').Parse("ab")
	require.True(t, o.Succeeded())
	assert.Equal(t, []string{"a"}, texts(o))
	assert.Equal(t, "b", o.Rest().String())
	assert.Equal(t, 0, o.Values()[0].Start)
	assert.Equal(t, 1, o.Values()[0].End)

	o = Accept('a').Parse("b")
	require.False(t, o.Succeeded())
	assert.Equal(t, `"b" did not match "a"`, o.Err().Error())
	assert.Equal(t, 0, o.Rest().Offset())

	o = Accept('a').Parse("")
	require.False(t, o.Succeeded())
	assert.Contains(t, o.Err().Error(), "unexpected end of input")
}

func TestAlwaysNever(t *testing.T) {
	o := Always(symbol.Value("x")).Parse("abc")
	require.True(t, o.Succeeded())
	assert.Equal(t, []string{"x"}, texts(o))
	assert.Equal(t, "abc", o.Rest().String())

	o = Never[symbol.Symbol]("nope").Parse("abc")
	require.False(t, o.Succeeded())
	assert.Equal(t, "nope", o.Err().Error())
	assert.Equal(t, "abc", o.Rest().String())
}

func TestStringMatchesPrefix(t *testing.T) {
	o := String("abc").Parse("abcdef")
	require.True(t, o.Succeeded())
	require.Len(t, o.Values(), 1)
	assert.Equal(t, symbol.KindValue, o.Values()[0].Kind)
	assert.Equal(t, "abc", o.Values()[0].Text)
	assert.Equal(t, "def", o.Rest().String())
}

func TestStringFailureMessage(t *testing.T) {
	o := String("abc").Parse("abx")
	require.False(t, o.Succeeded())
	assert.Equal(t, `Failed to match "abc": "x" did not match "c"`, o.Err().Error())
	assert.Equal(t, 2, o.Err().Furthest().Offset)
}

func TestEmptyString(t *testing.T) {
	o := String("").Parse("abc")
	require.True(t, o.Succeeded())
	assert.Equal(t, []string{""}, texts(o))
	assert.Equal(t, 0, o.Rest().Offset())
}

func TestConcatAndSequence(t *testing.T) {
	o := Sequence(Accept('a'), Accept('b'), Accept('c')).Parse("abcd")
	require.True(t, o.Succeeded())
	assert.Equal(t, []string{"a", "b", "c"}, texts(o))
	assert.Equal(t, "d", o.Rest().String())

	o = Concat(Accept('a'), Accept('b')).Parse("ax")
	require.False(t, o.Succeeded())

	o = Sequence[symbol.Symbol]().Parse("abc")
	require.True(t, o.Succeeded())
	assert.Empty(t, o.Values())
	assert.Equal(t, 0, o.Rest().Offset())
}

func TestAlternateDeclarationOrder(t *testing.T) {
	p := Alternate(
		Literal(Sequence(Accept('a'))),
		String("ab"),
	)
	o := p.Parse("abc")
	require.True(t, o.Succeeded())
	assert.Equal(t, []string{"a"}, texts(o), "the first success wins, not the longest")
	assert.Equal(t, "bc", o.Rest().String())
}

func TestAlternateTriesFromSameStart(t *testing.T) {
	p := Alternate(String("abx"), String("aby"))
	o := p.Parse("aby")
	require.True(t, o.Succeeded())
	assert.Equal(t, []string{"aby"}, texts(o))
	assert.True(t, o.Rest().Empty())
}

func TestAlternateAggregatesErrors(t *testing.T) {
	o := Alternate(Accept('a'), Accept('b')).Parse("c")
	require.False(t, o.Succeeded())
	assert.Equal(t, `"c" did not match "a"; "c" did not match "b"`, o.Err().Error())
	assert.Equal(t, []string{`"c" did not match "a"`, `"c" did not match "b"`}, o.Err().Messages())
}

func TestMaybe(t *testing.T) {
	p := Maybe(String("ab"))

	o := p.Parse("abc")
	require.True(t, o.Succeeded())
	assert.Equal(t, []string{"ab"}, texts(o))

	o = p.Parse("axc")
	require.True(t, o.Succeeded(), "maybe never fails")
	assert.Empty(t, o.Values())
	assert.Equal(t, 0, o.Rest().Offset(), "a failed maybe consumes nothing")
}

func TestLookahead(t *testing.T) {
	p := Lookahead(String("ab"))

	o := p.Parse("abc")
	require.True(t, o.Succeeded())
	assert.Empty(t, o.Values())
	assert.Equal(t, 0, o.Rest().Offset())

	o = p.Parse("xbc")
	require.False(t, o.Succeeded())
	assert.Equal(t, 0, o.Rest().Offset())
}

func TestStar(t *testing.T) {
	o := Star(Accept('a')).Parse("aaab")
	require.True(t, o.Succeeded())
	assert.Equal(t, []string{"a", "a", "a"}, texts(o))
	assert.Equal(t, "b", o.Rest().String())

	o = Star(Accept('x')).Parse("aaab")
	require.True(t, o.Succeeded())
	assert.Empty(t, o.Values())
	assert.Equal(t, 0, o.Rest().Offset())
}

func TestStarStopsOnEmptyIteration(t *testing.T) {
	o := Star(Maybe(Accept('x'))).Parse("abc")
	require.True(t, o.Succeeded())
	assert.Empty(t, o.Values())
	assert.Equal(t, 0, o.Rest().Offset())
}

func TestStarLongInput(t *testing.T) {
	text := strings.Repeat("a", 200000)
	o := Collapse(Star(Accept('a'))).Parse(text)
	require.True(t, o.Succeeded())
	assert.Equal(t, text, o.Values()[0].Text)
	assert.True(t, o.Rest().Empty())
}

func TestPlus(t *testing.T) {
	o := Plus(Accept('a')).Parse("aab")
	require.True(t, o.Succeeded())
	assert.Equal(t, []string{"a", "a"}, texts(o))

	o = Plus(Accept('a')).Parse("baa")
	require.False(t, o.Succeeded())
	assert.Equal(t, `repetition failed: "b" did not match "a"`, o.Err().Error())
	assert.Equal(t, 0, o.Rest().Offset())
}

func TestSet(t *testing.T) {
	p := Set("+-")
	o := p.Parse("-1")
	require.True(t, o.Succeeded())
	assert.Equal(t, []string{"-"}, texts(o))

	o = p.Parse("*")
	require.False(t, o.Succeeded())
	assert.Equal(t, `expected one of "+-"`, o.Err().Error())

	o = Set("").Parse("a")
	require.False(t, o.Succeeded())
	assert.Equal(t, "empty character set", o.Err().Error())
}

func TestDot(t *testing.T) {
	o := Dot().Parse("é")
	require.True(t, o.Succeeded())
	assert.Equal(t, []string{"é"}, texts(o))
	assert.True(t, o.Rest().Empty())

	o = Dot().Parse("")
	require.False(t, o.Succeeded())
}

func TestNot(t *testing.T) {
	p := Not(Set("\"\n"))

	o := p.Parse("ab")
	require.True(t, o.Succeeded())
	assert.Equal(t, []string{"a"}, texts(o))
	assert.Equal(t, "b", o.Rest().String())

	o = p.Parse("\"b")
	require.False(t, o.Succeeded())
	assert.Equal(t, `unexpected "\""`, o.Err().Error())
	assert.Equal(t, 0, o.Rest().Offset())

	o = p.Parse("")
	require.False(t, o.Succeeded(), "not fails at end of input")
}

func TestEOF(t *testing.T) {
	assert.True(t, EOF[symbol.Symbol]().Parse("").Succeeded())

	o := Concat(Accept('a'), EOF[symbol.Symbol]()).Parse("ab")
	require.False(t, o.Succeeded())
	assert.Equal(t, `expected end of input, found "b"`, o.Err().Error())
	assert.Equal(t, 1, o.Err().Offset)
}

func TestDelayedRecursion(t *testing.T) {
	// parens = "(" parens ")" | ""
	var parens Parser[symbol.Symbol]
	parens = Parent("parens", Maybe(Sequence(
		Accept('('),
		Delayed(func() Parser[symbol.Symbol] { return parens }),
		Accept(')'),
	)))

	o := Concat(parens, EOF[symbol.Symbol]()).Parse("((()))")
	require.True(t, o.Succeeded())
	require.Len(t, o.Values(), 1)

	depth := 0
	for n := o.Values()[0]; ; depth++ {
		var next *symbol.Symbol
		for i := range n.Children {
			if n.Children[i].Kind == symbol.KindNonterminal {
				next = &n.Children[i]
			}
		}
		if next == nil {
			break
		}
		n = *next
	}
	assert.Equal(t, 3, depth)
}

func TestChainContextSensitive(t *testing.T) {
	// An opening quote must be closed by the same quote character.
	quoted := Set(`"'`).Chain(func(open []symbol.Symbol) Parser[symbol.Symbol] {
		q := []rune(open[0].Text)[0]
		body := Collapse(Star(Not(Accept(q))))
		return Sequence(body, Ignore(Accept(q)))
	})

	o := quoted.Parse(`'it"s'`)
	require.True(t, o.Succeeded())
	assert.Equal(t, []string{`it"s`}, texts(o), "chain continues with the values of the chained parser")
	assert.True(t, o.Rest().Empty())

	o = quoted.Parse(`'abc"`)
	require.False(t, o.Succeeded())
}

func TestMapBimapFold(t *testing.T) {
	upper := Accept('a').Map(func(vs []symbol.Symbol) []symbol.Symbol {
		return []symbol.Symbol{symbol.Value(strings.ToUpper(vs[0].Text))}
	})
	assert.Equal(t, []string{"A"}, texts(upper.Parse("a")))

	called := false
	failing := Accept('a').Map(func(vs []symbol.Symbol) []symbol.Symbol {
		called = true
		return vs
	})
	assert.False(t, failing.Parse("b").Succeeded())
	assert.False(t, called, "map must not run on failures")

	labeled := Accept('a').Bimap(
		func(vs []symbol.Symbol) []symbol.Symbol { return vs },
		func(err *Error) *Error { return err.Wrap("in greeting") },
	)
	o := labeled.Parse("b")
	assert.Equal(t, `in greeting: "b" did not match "a"`, o.Err().Error())

	recovered := Accept('a').Fold(
		func(vs []symbol.Symbol, rest input.View) Outcome[symbol.Symbol] { return Success(vs, rest) },
		func(err *Error, rest input.View) Outcome[symbol.Symbol] {
			return Success([]symbol.Symbol{symbol.Value("default")}, rest)
		},
	)
	assert.Equal(t, []string{"default"}, texts(recovered.Parse("b")))
}

func TestFailureShortCircuits(t *testing.T) {
	o := Failure[symbol.Symbol](Errorf(0, "boom"), input.New("x"))
	chained := o.Chain(func([]symbol.Symbol) Parser[symbol.Symbol] {
		t.Fatal("chain must not run on failure")
		return Always[symbol.Symbol]()
	})
	assert.Same(t, o.Err(), chained.Err())
	assert.Panics(t, func() { Failure[symbol.Symbol](nil, input.New("")) })
}

func TestNamed(t *testing.T) {
	o := Named("digit", Set("01")).Parse("x")
	require.False(t, o.Succeeded())
	assert.Equal(t, `digit: expected one of "01"`, o.Err().Error())
	assert.Equal(t, "digit", o.Err().Rule)
}

func TestErrorPosition(t *testing.T) {
	text := "ab\nac"
	o := Sequence(String("ab\na"), Accept('b')).Parse(text)
	require.False(t, o.Succeeded())

	pos := o.Err().Furthest().Position(input.New(text))
	assert.Equal(t, 4, pos.Offset)
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 2, pos.Column)
}
