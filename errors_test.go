package jsontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseErrorOffsetClamping(t *testing.T) {
	pe := newParseError(ErrKindSyntax, "abc", 100, nil)
	assert.Equal(t, 3, pe.Offset)
	assert.Equal(t, "", pe.Input)

	pe = newParseError(ErrKindSyntax, "abc", -5, nil)
	assert.Equal(t, 0, pe.Offset)
	assert.Equal(t, "abc", pe.Input)
}

func TestParseErrorUnwrap(t *testing.T) {
	cause := newContractError("boom")
	pe := newParseError(ErrKindContract, "input", 1, cause)
	require.ErrorIs(t, pe, cause)
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "syntax", ErrKindSyntax.String())
	assert.Equal(t, "depth", ErrKindDepth.String())
	assert.Equal(t, "contract", ErrKindContract.String())
}
