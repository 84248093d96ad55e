package jsontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinifyStripsWhitespaceAndComments(t *testing.T) {
	out := Minify("/* c */ {\"a\":1} // tail")
	assert.Equal(t, `{"a":1}`, out)
}

func TestMinifyPreservesStringContent(t *testing.T) {
	out := Minify(`{ "a" : "x  y // not a comment \" still string" }`)
	assert.Equal(t, `{"a":"x  y // not a comment \" still string"}`, out)
}

func TestMinifyNeutrality(t *testing.T) {
	input := `{"a": 1, "b": [true, null, "x"]}`
	root, err := Parse(input)
	require.NoError(t, err)

	minified := Minify(input)
	reparsed, err := Parse(minified)
	require.NoError(t, err)
	assert.True(t, Compare(root, reparsed, true))

	assert.Equal(t, Minify(minified), minified)
}
