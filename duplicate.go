package jsontree

// Duplicate copies node. When recurse is true, children are copied too
// (bounded by MaxNestingDepth, matching the parser's depth cap per
// spec.md §3); when false, only node itself is copied, with no children
// attached. Every copy has IsReference cleared — the copy unconditionally
// owns its own payload, per spec.md §4.2 ("Deep copy clears the
// IsReference flag on copies"). StringIsConst is preserved on the key,
// since the copy's key is still the same Go string value either way.
func Duplicate(node *Node, recurse bool) (*Node, error) {
	return duplicateAt(node, recurse, 0)
}

func duplicateAt(node *Node, recurse bool, depth int) (*Node, error) {
	if node == nil {
		return nil, nil
	}
	if depth > MaxNestingDepth {
		return nil, newContractError("Duplicate: nesting depth exceeds limit")
	}

	copy := &Node{
		Kind:          node.Kind,
		Key:           node.Key,
		Value:         node.Value,
		Number:        node.Number,
		NumberInt:     node.NumberInt,
		StringIsConst: node.StringIsConst,
	}

	if !recurse || node.Child == nil {
		return copy, nil
	}

	for c := node.Child; c != nil; c = c.Next {
		childCopy, err := duplicateAt(c, true, depth+1)
		if err != nil {
			Delete(copy)
			return nil, err
		}
		appendChild(copy, childCopy)
	}
	return copy, nil
}
