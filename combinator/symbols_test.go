package combinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/pcomb/symbol"
)

func TestCollapse(t *testing.T) {
	word := Parent("word", Plus(Set("abc")))
	o := Collapse(Sequence(word, Accept(' '), word)).Parse("ab ca!")
	require.True(t, o.Succeeded())
	require.Len(t, o.Values(), 1)

	v := o.Values()[0]
	assert.Equal(t, symbol.KindValue, v.Kind)
	assert.Equal(t, "ab ca", v.Text)
	assert.Equal(t, 0, v.Start)
	assert.Equal(t, 5, v.End)
}

func TestCollapseWithoutValues(t *testing.T) {
	o := Collapse(Ignore(Accept('a'))).Parse("a")
	require.True(t, o.Succeeded())
	assert.Empty(t, o.Values())

	o = Literal(Ignore(Accept('a'))).Parse("a")
	require.True(t, o.Succeeded())
	require.Len(t, o.Values(), 1)
	assert.Equal(t, "", o.Values()[0].Text)
}

func TestParent(t *testing.T) {
	digits := Parent("number", Literal(Plus(Set("0123456789"))))
	o := Sequence(digits, Ignore(Accept('+')), digits).Parse("12+3")
	require.True(t, o.Succeeded())
	require.Len(t, o.Values(), 2)

	first := o.Values()[0]
	assert.Equal(t, symbol.KindNonterminal, first.Kind)
	assert.Equal(t, "number", first.Text)
	require.Len(t, first.Children, 1)
	assert.Equal(t, "12", first.Children[0].Text)

	second := o.Values()[1]
	assert.Equal(t, 3, second.Start)
	assert.Equal(t, 4, second.End)
}

func TestParentOfEmptyMatch(t *testing.T) {
	o := Parent("empty", Maybe(Accept('x'))).Parse("abc")
	require.True(t, o.Succeeded())
	require.Len(t, o.Values(), 1)
	assert.Empty(t, o.Values()[0].Children)
}

func TestIgnore(t *testing.T) {
	o := Sequence(Ignore(Accept('<')), Literal(Plus(Set("abc"))), Ignore(Accept('>'))).Parse("<ab>")
	require.True(t, o.Succeeded())
	require.Len(t, o.Values(), 1)
	assert.Equal(t, "ab", o.Values()[0].Text)
}
