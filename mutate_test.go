package jsontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendChildInvariant(t *testing.T) {
	arr := NewArray()
	var items []*Node
	for i := 0; i < 5; i++ {
		item := NewNumber(float64(i))
		require.NoError(t, AddItemToArray(arr, item))
		items = append(items, item)
	}
	assertSiblingInvariant(t, arr)
	assert.Equal(t, 5, GetArraySize(arr))
	for i, item := range items {
		assert.Same(t, item, GetArrayItem(arr, i))
	}
}

func assertSiblingInvariant(t *testing.T, parent *Node) {
	t.Helper()
	head := parent.Child
	if head == nil {
		return
	}
	tail := head.Prev
	require.NotNil(t, tail)
	require.Nil(t, tail.Next)
	for n := head; n != nil; n = n.Next {
		if n.Prev != nil && n != head {
			assert.Same(t, n, n.Prev.Next)
		}
		if n.Next != nil {
			assert.Same(t, n, n.Next.Prev)
		}
	}
}

func TestDetachRepairsInvariant(t *testing.T) {
	arr := NewArray()
	a, b, c := NewNumber(1), NewNumber(2), NewNumber(3)
	require.NoError(t, AddItemToArray(arr, a))
	require.NoError(t, AddItemToArray(arr, b))
	require.NoError(t, AddItemToArray(arr, c))

	detached := DetachItemViaPointer(arr, b)
	require.Same(t, b, detached)
	assert.Nil(t, detached.Next)
	assert.Nil(t, detached.Prev)
	assertSiblingInvariant(t, arr)
	assert.Equal(t, 2, GetArraySize(arr))
	assert.Same(t, a, GetArrayItem(arr, 0))
	assert.Same(t, c, GetArrayItem(arr, 1))
}

func TestDetachHeadAndTail(t *testing.T) {
	arr := NewArray()
	a, b := NewNumber(1), NewNumber(2)
	require.NoError(t, AddItemToArray(arr, a))
	require.NoError(t, AddItemToArray(arr, b))

	require.Same(t, a, DetachItemViaPointer(arr, a))
	assertSiblingInvariant(t, arr)
	assert.Equal(t, 1, GetArraySize(arr))

	require.Same(t, b, DetachItemViaPointer(arr, b))
	assert.Equal(t, 0, GetArraySize(arr))
	assert.Nil(t, arr.Child)
}

func TestInsertItemInArray(t *testing.T) {
	arr := NewArray()
	a, c := NewNumber(1), NewNumber(3)
	require.NoError(t, AddItemToArray(arr, a))
	require.NoError(t, AddItemToArray(arr, c))

	b := NewNumber(2)
	require.NoError(t, InsertItemInArray(arr, 1, b))
	assertSiblingInvariant(t, arr)
	assert.Equal(t, []float64{1, 2, 3}, arrayNumbers(arr))

	head := NewNumber(0)
	require.NoError(t, InsertItemInArray(arr, 0, head))
	assertSiblingInvariant(t, arr)
	assert.Equal(t, []float64{0, 1, 2, 3}, arrayNumbers(arr))
}

func arrayNumbers(arr *Node) []float64 {
	var out []float64
	for c := arr.Child; c != nil; c = c.Next {
		out = append(out, c.Number)
	}
	return out
}

func TestReplaceItemInArrayIdentityNoOp(t *testing.T) {
	arr := NewArray()
	a := NewNumber(1)
	require.NoError(t, AddItemToArray(arr, a))
	require.NoError(t, ReplaceItemViaPointer(arr, a, a))
	assert.Same(t, a, GetArrayItem(arr, 0))
}

func TestReplaceItemInObjectCopiesArgumentKey(t *testing.T) {
	obj := NewObject()
	require.NoError(t, AddItemToObject(obj, "old", NewNumber(1)))

	replacement := NewNumber(2)
	replacement.Key = "ignored-stale-key"
	require.NoError(t, ReplaceItemInObject(obj, "old", replacement))

	found := GetObjectItem(obj, "old", true)
	require.NotNil(t, found)
	assert.Equal(t, float64(2), found.Number)
	assert.Equal(t, "old", found.Key)
	assertSiblingInvariant(t, obj)
}

func TestDeleteDetachesAndFreesSubtree(t *testing.T) {
	obj := NewObject()
	child := NewArray()
	require.NoError(t, AddItemToObject(obj, "a", child))
	grandchild := NewNumber(1)
	require.NoError(t, AddItemToArray(child, grandchild))

	DeleteItemFromObject(obj, "a")
	assert.Nil(t, GetObjectItem(obj, "a", true))
	assert.Equal(t, 0, GetArraySize(obj))
	assert.Nil(t, child.Child)
	assert.Nil(t, grandchild.Next)
}

func TestReferenceDeletionDoesNotDescend(t *testing.T) {
	shared := NewArray()
	require.NoError(t, AddItemToArray(shared, NewNumber(1)))

	holder := NewObject()
	require.NoError(t, AddItemReferenceToObject(holder, "shared", shared))

	DeleteItemFromObject(holder, "shared")
	assert.Equal(t, 1, GetArraySize(shared))
}

func TestSetValueStringRejectsReference(t *testing.T) {
	ref := NewStringReference("borrowed")
	err := SetValueString(ref, "mutated")
	require.Error(t, err)
}

func TestSetNumberValueSyncsIntMirror(t *testing.T) {
	n := NewNumber(1)
	require.NoError(t, SetNumberValue(n, 1e20))
	assert.Equal(t, int32(2147483647), n.NumberInt)
	require.NoError(t, SetNumberValue(n, -1e20))
	assert.Equal(t, int32(-2147483648), n.NumberInt)
}

func TestSelfInsertionRejected(t *testing.T) {
	arr := NewArray()
	err := AddItemToArray(arr, arr)
	require.Error(t, err)
}

func TestCaseInsensitiveLookupIsASCIIOnly(t *testing.T) {
	obj := NewObject()
	require.NoError(t, AddItemToObject(obj, "Key", NewNumber(1)))
	assert.NotNil(t, GetObjectItem(obj, "key", false))
	assert.Nil(t, GetObjectItem(obj, "key", true))
}

func TestAddXToObjectFamily(t *testing.T) {
	obj := NewObject()
	_, err := AddStringToObject(obj, "s", "v")
	require.NoError(t, err)
	_, err = AddNumberToObject(obj, "n", 3.5)
	require.NoError(t, err)
	_, err = AddBoolToObject(obj, "b", true)
	require.NoError(t, err)

	assert.Equal(t, "v", GetObjectItem(obj, "s", true).Value)
	assert.Equal(t, 3.5, GetObjectItem(obj, "n", true).Number)
	assert.True(t, GetObjectItem(obj, "b", true).Bool())
}
