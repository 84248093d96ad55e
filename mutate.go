package jsontree

// appendChild splices item onto the tail of parent's sibling list in
// O(1), using the tail-in-head trick from the package doc: parent.Child
// points at the first child, and parent.Child.Prev points at the last
// child. item must be a freshly detached (nil Prev/Next) node.
func appendChild(parent, item *Node) {
	item.Next = nil
	if parent.Child == nil {
		item.Prev = item
		parent.Child = item
		return
	}
	tail := parent.Child.Prev
	tail.Next = item
	item.Prev = tail
	parent.Child.Prev = item
}

// AddItemToArray appends item as the last child of array. It is a
// contract error if array is not a KindArray, item is nil, or item ==
// array (self-insertion).
func AddItemToArray(array, item *Node) error {
	if array == nil || item == nil {
		return newContractError("AddItemToArray: nil argument")
	}
	if !array.IsArray() {
		return newContractError("AddItemToArray: target is not an array")
	}
	if array == item {
		return newContractError("AddItemToArray: self-insertion")
	}
	appendChild(array, item)
	return nil
}

// AddItemToObject appends item as the last child of object under key,
// copying key into item.Key. Use AddItemToObjectConstKey to instead
// borrow the caller's key string.
func AddItemToObject(object *Node, key string, item *Node) error {
	if object == nil || item == nil {
		return newContractError("AddItemToObject: nil argument")
	}
	if !object.IsObject() {
		return newContractError("AddItemToObject: target is not an object")
	}
	if object == item {
		return newContractError("AddItemToObject: self-insertion")
	}
	item.Key = key
	item.StringIsConst = false
	appendChild(object, item)
	return nil
}

// AddItemToObjectConstKey is AddItemToObject but flags the item's Key as
// borrowed (StringIsConst), matching spec.md §4.2's "borrow constant
// key" flavor: duplication will not treat the key as owned.
func AddItemToObjectConstKey(object *Node, key string, item *Node) error {
	if err := AddItemToObject(object, key, item); err != nil {
		return err
	}
	item.StringIsConst = true
	return nil
}

// AddItemReferenceToArray appends a IsReference-flagged wrapper around
// item, so item's own lifetime stays with the caller: deleting the
// array will not descend into or free item.
func AddItemReferenceToArray(array, item *Node) error {
	if item == nil {
		return newContractError("AddItemReferenceToArray: nil argument")
	}
	ref := referenceWrapper(item)
	return AddItemToArray(array, ref)
}

// AddItemReferenceToObject is AddItemReferenceToArray for objects.
func AddItemReferenceToObject(object *Node, key string, item *Node) error {
	if item == nil {
		return newContractError("AddItemReferenceToObject: nil argument")
	}
	ref := referenceWrapper(item)
	return AddItemToObject(object, key, ref)
}

// referenceWrapper produces a shallow, IsReference-flagged copy of item
// sharing its payload and children by value/pointer, per spec.md §4.2's
// reference-append semantics ("wrapping the argument so its lifetime
// stays with the caller").
func referenceWrapper(item *Node) *Node {
	ref := &Node{
		Kind:        item.Kind,
		Value:       item.Value,
		Number:      item.Number,
		NumberInt:   item.NumberInt,
		Child:       item.Child,
		IsReference: true,
	}
	return ref
}

// GetArraySize returns the number of children of array (0 for a nil
// node or one without children). It counts the children of any node,
// so it also gives the member count of an Object.
func GetArraySize(array *Node) int {
	if array == nil {
		return 0
	}
	n := 0
	for c := array.Child; c != nil; c = c.Next {
		n++
	}
	return n
}

// GetArrayItem returns the index-th child of array (O(n) sibling walk),
// or nil if out of range.
func GetArrayItem(array *Node, index int) *Node {
	if array == nil || index < 0 {
		return nil
	}
	c := array.Child
	for i := 0; c != nil && i < index; i++ {
		c = c.Next
	}
	return c
}

// GetObjectItem looks up a child of object by key, using asciiEqualFold
// when caseSensitive is false. Per spec.md §4.2/§9, the case-insensitive
// variant is ASCII-only and not aware of locale or Unicode case folding.
func GetObjectItem(object *Node, key string, caseSensitive bool) *Node {
	if object == nil {
		return nil
	}
	for c := object.Child; c != nil; c = c.Next {
		if caseSensitive {
			if c.Key == key {
				return c
			}
		} else if asciiEqualFold(c.Key, key) {
			return c
		}
	}
	return nil
}

// HasObjectItem reports whether object has a child under key.
func HasObjectItem(object *Node, key string) bool {
	return GetObjectItem(object, key, true) != nil
}

func asciiEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if asciiLower(a[i]) != asciiLower(b[i]) {
			return false
		}
	}
	return true
}

func asciiLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// DetachItemViaPointer removes item from parent's sibling list, repairing
// the head/tail invariant, and returns item with its sibling links
// cleared. It returns nil, changing nothing, if parent or item is nil or
// item has no Prev link (is not attached to any list). It does not check
// that item belongs to parent rather than to some other node.
func DetachItemViaPointer(parent, item *Node) *Node {
	if parent == nil || item == nil {
		return nil
	}
	if item.Prev == nil {
		return nil
	}
	if item == parent.Child {
		// head: next child (if any) becomes the new head and inherits the
		// tail pointer.
		if item.Next != nil {
			item.Next.Prev = item.Prev
		}
		parent.Child = item.Next
	} else {
		item.Prev.Next = item.Next
		if item.Next != nil {
			item.Next.Prev = item.Prev
		} else {
			// item was the tail: the new tail pointer lives at the head.
			parent.Child.Prev = item.Prev
		}
	}
	item.Prev = nil
	item.Next = nil
	return item
}

// DetachItemFromArray detaches the index-th child of array.
func DetachItemFromArray(array *Node, index int) *Node {
	return DetachItemViaPointer(array, GetArrayItem(array, index))
}

// DetachItemFromObject detaches the child of object with the given key
// (case-sensitive).
func DetachItemFromObject(object *Node, key string) *Node {
	return DetachItemViaPointer(object, GetObjectItem(object, key, true))
}

// DetachItemFromObjectCaseSensitive is an explicit-named alias for
// DetachItemFromObject, paired with DetachItemFromObjectCaseInsensitive.
func DetachItemFromObjectCaseSensitive(object *Node, key string) *Node {
	return DetachItemFromObject(object, key)
}

// DetachItemFromObjectCaseInsensitive detaches using ASCII
// case-insensitive key lookup.
func DetachItemFromObjectCaseInsensitive(object *Node, key string) *Node {
	return DetachItemViaPointer(object, GetObjectItem(object, key, false))
}

// Delete recursively frees node and everything it owns, honoring
// IsReference (stop, don't descend or claim payload) and StringIsConst
// (don't treat the key as owned — moot in Go, kept for symmetry with the
// flag's documented meaning). Per Design Notes §9, this walks an
// explicit worklist rather than recursing, so a pathological flat
// sibling chain or a deep (but depth-capped) tree cannot exhaust the
// goroutine stack.
func Delete(node *Node) {
	if node == nil {
		return
	}
	work := []*Node{node}
	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]
		for n != nil {
			next := n.Next
			if !n.IsReference && n.Child != nil {
				work = append(work, n.Child)
			}
			n.Next = nil
			n.Prev = nil
			n.Child = nil
			n = next
		}
	}
}

// DeleteItemFromArray detaches and deletes the index-th child of array.
func DeleteItemFromArray(array *Node, index int) {
	Delete(DetachItemFromArray(array, index))
}

// DeleteItemFromObject detaches and deletes the child of object with the
// given key (case-sensitive).
func DeleteItemFromObject(object *Node, key string) {
	Delete(DetachItemFromObject(object, key))
}

// DeleteItemFromObjectCaseInsensitive detaches and deletes using ASCII
// case-insensitive key lookup.
func DeleteItemFromObjectCaseInsensitive(object *Node, key string) {
	Delete(DetachItemFromObjectCaseInsensitive(object, key))
}

// InsertItemInArray splices item before the index-th child of array, or
// appends when index == GetArraySize(array). It is a contract error if
// index is negative or greater than the array's size.
func InsertItemInArray(array *Node, index int, item *Node) error {
	if array == nil || item == nil {
		return newContractError("InsertItemInArray: nil argument")
	}
	if index < 0 {
		return newContractError("InsertItemInArray: negative index")
	}
	at := GetArrayItem(array, index)
	if at == nil {
		if index != GetArraySize(array) {
			return newContractError("InsertItemInArray: index out of range")
		}
		appendChild(array, item)
		return nil
	}
	item.Next = at
	item.Prev = at.Prev
	if at == array.Child {
		array.Child = item
	} else {
		at.Prev.Next = item
	}
	at.Prev = item
	return nil
}

// ReplaceItemViaPointer substitutes replacement for item in parent's
// sibling list, then deletes item. Identity replacement (item ==
// replacement) is a no-op success. Returns a contract error if item has
// no Prev link (is not attached to any list); it does not check that
// item belongs to parent rather than to some other node.
func ReplaceItemViaPointer(parent, item, replacement *Node) error {
	if parent == nil || item == nil || replacement == nil {
		return newContractError("ReplaceItemViaPointer: nil argument")
	}
	if item == replacement {
		return nil
	}
	if item.Prev == nil {
		return newContractError("ReplaceItemViaPointer: item is not a child of parent")
	}
	spliceReplace(parent, item, replacement)
	item.Next = nil
	item.Prev = nil
	Delete(item)
	return nil
}

// spliceReplace swaps replacement into item's position in parent's
// sibling list, repairing the head/tail-in-head invariant.
func spliceReplace(parent, item, replacement *Node) {
	replacement.Next = item.Next
	replacement.Prev = item.Prev
	if replacement.Next != nil {
		replacement.Next.Prev = replacement
	}
	if item == parent.Child {
		parent.Child = replacement
	} else {
		item.Prev.Next = replacement
	}
	if item.Next == nil {
		parent.Child.Prev = replacement
	}
}

// ReplaceItemInArray replaces the index-th child of array.
func ReplaceItemInArray(array *Node, index int, replacement *Node) error {
	item := GetArrayItem(array, index)
	if item == nil {
		return newContractError("ReplaceItemInArray: index out of range")
	}
	return ReplaceItemViaPointer(array, item, replacement)
}

// ReplaceItemInObject replaces the child of object with the given key
// (case-sensitive), copying key into the replacement's Key rather than
// preserving the old child's key, per spec.md §4.2.
func ReplaceItemInObject(object *Node, key string, replacement *Node) error {
	item := GetObjectItem(object, key, true)
	if item == nil {
		return newContractError("ReplaceItemInObject: key not found")
	}
	return replaceItemInObjectAt(object, item, replacement, key)
}

// ReplaceItemInObjectCaseInsensitive is ReplaceItemInObject using ASCII
// case-insensitive key lookup.
func ReplaceItemInObjectCaseInsensitive(object *Node, key string, replacement *Node) error {
	item := GetObjectItem(object, key, false)
	if item == nil {
		return newContractError("ReplaceItemInObjectCaseInsensitive: key not found")
	}
	return replaceItemInObjectAt(object, item, replacement, key)
}

func replaceItemInObjectAt(object, item, replacement *Node, key string) error {
	if item == replacement {
		replacement.Key = key
		return nil
	}
	spliceReplace(object, item, replacement)
	replacement.Key = key
	replacement.StringIsConst = false
	item.Next = nil
	item.Prev = nil
	Delete(item)
	return nil
}

// SetValueString overwrites a KindString node's Value in place. It is a
// contract error to call this on a node flagged IsReference (spec.md
// §4.2/§7: "attempt to set value on a reference string").
func SetValueString(node *Node, s string) error {
	if node == nil || !node.IsString() {
		return newContractError("SetValueString: not a string node")
	}
	if node.IsReference {
		return newContractError("SetValueString: node is a reference")
	}
	node.Value = s
	return nil
}

// SetNumberValue overwrites a KindNumber node's double value, re-syncing
// the saturated int32 mirror.
func SetNumberValue(node *Node, v float64) error {
	if node == nil || !node.IsNumber() {
		return newContractError("SetNumberValue: not a number node")
	}
	node.Number = v
	syncNumberInt(node)
	return nil
}

// ─── AddXToObject convenience family ───
//
// Grounded in the reference system's AddXToObject helpers: one
// constructor-plus-attach call per common kind, reducing
// NewX + AddItemToObject to a single call at use sites.

// AddNullToObject constructs a Null node, attaches it to object under
// key, and returns it.
func AddNullToObject(object *Node, key string) (*Node, error) {
	n := NewNull()
	if err := AddItemToObject(object, key, n); err != nil {
		return nil, err
	}
	return n, nil
}

// AddBoolToObject constructs a Bool node, attaches it to object under
// key, and returns it.
func AddBoolToObject(object *Node, key string, v bool) (*Node, error) {
	n := NewBool(v)
	if err := AddItemToObject(object, key, n); err != nil {
		return nil, err
	}
	return n, nil
}

// AddNumberToObject constructs a Number node, attaches it to object
// under key, and returns it.
func AddNumberToObject(object *Node, key string, v float64) (*Node, error) {
	n := NewNumber(v)
	if err := AddItemToObject(object, key, n); err != nil {
		return nil, err
	}
	return n, nil
}

// AddStringToObject constructs a String node, attaches it to object
// under key, and returns it.
func AddStringToObject(object *Node, key string, v string) (*Node, error) {
	n := NewString(v)
	if err := AddItemToObject(object, key, n); err != nil {
		return nil, err
	}
	return n, nil
}

// AddRawToObject constructs a Raw node, attaches it to object under key,
// and returns it.
func AddRawToObject(object *Node, key string, raw string) (*Node, error) {
	n := NewRaw(raw)
	if err := AddItemToObject(object, key, n); err != nil {
		return nil, err
	}
	return n, nil
}

// AddArrayToObject constructs an empty Array node, attaches it to object
// under key, and returns it (for the common "build then populate"
// pattern).
func AddArrayToObject(object *Node, key string) (*Node, error) {
	n := NewArray()
	if err := AddItemToObject(object, key, n); err != nil {
		return nil, err
	}
	return n, nil
}

// AddObjectToObject constructs an empty Object node, attaches it to
// object under key, and returns it.
func AddObjectToObject(object *Node, key string) (*Node, error) {
	n := NewObject()
	if err := AddItemToObject(object, key, n); err != nil {
		return nil, err
	}
	return n, nil
}
