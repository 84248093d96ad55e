package jsontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaAllocatorAllocateLength(t *testing.T) {
	a := newArenaAllocator()
	buf := a.Allocate(10)
	assert.Equal(t, 10, len(buf))
}

func TestArenaAllocatorReallocateGrows(t *testing.T) {
	a := newArenaAllocator()
	buf := a.Allocate(4)
	copy(buf, []byte("abcd"))
	grown := a.Reallocate(buf, 8)
	require.Equal(t, 8, len(grown))
	assert.Equal(t, []byte("abcd"), grown[:4])
}

func TestSetDefaultAllocatorAffectsSubsequentCalls(t *testing.T) {
	t.Cleanup(func() { SetDefaultAllocator(nil) })

	replacement := newArenaAllocator()
	SetDefaultAllocator(replacement)
	assert.Same(t, replacement, currentDefaultAllocator())
}

func TestCurrentDefaultAllocatorMintsDistinctInstancesWithoutOverride(t *testing.T) {
	t.Cleanup(func() { SetDefaultAllocator(nil) })
	SetDefaultAllocator(nil)

	a := currentDefaultAllocator()
	b := currentDefaultAllocator()
	assert.NotSame(t, a, b)
}
