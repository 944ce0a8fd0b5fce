package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	c "github.com/dhamidi/pcomb/combinator"
)

func TestClassMatches(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    string
	}{
		{`[0-9]+`, "123a", "123"},
		{`[^"]*`, `ab"c`, "ab"},
		{`\d+(\.\d+)?`, "3.14x", "3.14"},
		{`\d+(\.\d+)?`, "3.x", "3"},
		{`a|bc`, "bcd", "bc"},
		{`[+\-*\/]`, "-", "-"},
		{`.`, "é!", "é"},
		{`\s*`, "  x", "  "},
		{`\w+`, "snake_case9 rest", "snake_case9"},
		{`[]a]+`, "]a]b", "]a]"},
		{`\(x\)`, "(x)", "(x)"},
		{`a*`, "bbb", ""},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			e, err := ParseClass(tt.pattern)
			require.NoError(t, err)

			o := c.Literal(e.Parser()).Parse(tt.input)
			require.True(t, o.Succeeded(), "%v", o.Err())
			require.Len(t, o.Values(), 1)
			assert.Equal(t, tt.want, o.Values()[0].Text)
		})
	}
}

func TestClassRejects(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
	}{
		{`[0-9]+`, "x"},
		{`[^a-z]`, "q"},
		{`[^a-z]`, ""},
		{`ab`, "ac"},
	}
	for _, tt := range tests {
		e, err := ParseClass(tt.pattern)
		require.NoError(t, err)
		o := e.Parser().Parse(tt.input)
		assert.False(t, o.Succeeded(), "%s on %q", tt.pattern, tt.input)
	}
}

func TestClassSyntaxErrors(t *testing.T) {
	for _, pattern := range []string{`[a-`, `(ab`, `ab)`, `*a`, `[z-a]`, `a\`, `[^`} {
		_, err := ParseClass(pattern)
		assert.Error(t, err, pattern)
	}
}

func TestClassNullable(t *testing.T) {
	tests := map[string]bool{
		`a*`:    true,
		`a+`:    false,
		`a?b`:   false,
		`a|b?`:  true,
		`(a?)+`: true,
		`[ab]`:  false,
	}
	for pattern, want := range tests {
		e, err := ParseClass(pattern)
		require.NoError(t, err)
		assert.Equal(t, want, e.Nullable(), pattern)
	}
}

func TestClassGreedy(t *testing.T) {
	// PEG semantics: a* consumes every a, so the trailing a never matches.
	e, err := ParseClass(`a*a`)
	require.NoError(t, err)
	assert.False(t, e.Parser().Parse("aaa").Succeeded())
}
