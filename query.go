package jsontree

import (
	"strconv"
	"strings"
)

// Len returns GetArraySize for an Array and the child count for an
// Object, 0 otherwise — a one-name convenience over the size concept
// spec.md §6 lists alongside array size.
func Len(node *Node) int {
	if node == nil {
		return 0
	}
	switch node.Kind {
	case KindArray, KindObject:
		return GetArraySize(node)
	default:
		return 0
	}
}

// Query walks a dotted path of object keys and bracketed array indices
// (e.g. "a.b[2].c") from root, returning the node at that path or nil if
// any segment fails to resolve. This is a supplemental convenience over
// the DOM already built by Parse: a lazy non-DOM path lookup would walk
// raw unparsed bytes with a skip-table to avoid building a tree at all;
// Query instead walks an already-built Node tree, since this package's
// contract is DOM-first. It exists so callers porting code that expects
// a single path-lookup call don't have to hand-chain GetObjectItem and
// GetArrayItem.
func Query(root *Node, path string) *Node {
	cur := root
	for _, seg := range splitPath(path) {
		if cur == nil {
			return nil
		}
		if seg.isIndex {
			cur = GetArrayItem(cur, seg.index)
		} else {
			cur = GetObjectItem(cur, seg.key, true)
		}
	}
	return cur
}

type pathSegment struct {
	key     string
	index   int
	isIndex bool
}

// splitPath tokenizes "a.b[2].c" into [{key:"a"} {key:"b"} {index:2,
// isIndex:true} {key:"c"}]. Malformed bracket segments are skipped
// rather than erroring, so Query resolves the remaining segments as if
// the bad one were absent ("a.b[x]" finds "a.b"), in the tolerant style
// of the surrounding lookup API (GetObjectItem also just returns nil
// rather than an error).
func splitPath(path string) []pathSegment {
	var segs []pathSegment
	for _, part := range strings.Split(path, ".") {
		for part != "" {
			if part[0] == '[' {
				break
			}
			br := strings.IndexByte(part, '[')
			var key string
			if br < 0 {
				key, part = part, ""
			} else {
				key, part = part[:br], part[br:]
			}
			if key != "" {
				segs = append(segs, pathSegment{key: key})
			}
		}
		for strings.HasPrefix(part, "[") {
			end := strings.IndexByte(part, ']')
			if end < 0 {
				break
			}
			if idx, err := strconv.Atoi(part[1:end]); err == nil {
				segs = append(segs, pathSegment{index: idx, isIndex: true})
			}
			part = part[end+1:]
		}
	}
	return segs
}
