package membtree

import (
	"fmt"

	"github.com/ssargent/bpluskv/pkg/bpcommon"
	"github.com/ssargent/bpluskv/pkg/bpdebug"
)

// Shape renders the tree's structure for bpdebug.Dump. It never fails for
// the in-memory backend; the error return exists to satisfy
// bpdebug.Shaper, whose disk-backed implementation can fail on a fault.
func (t *Tree[K, V]) Shape() (bpdebug.TreeShape, error) {
	shape := bpdebug.TreeShape{Order: t.order, Len: t.length}
	if t.root != nil {
		n := shapeOf(t.root)
		shape.Root = &n
	}
	return shape, nil
}

func shapeOf[K bpcommon.Ordered, V any](n node[K, V]) bpdebug.NodeShape {
	switch x := n.(type) {
	case *leaf[K, V]:
		keys := make([]string, len(x.keys))
		for i, k := range x.keys {
			keys[i] = fmt.Sprint(k)
		}
		return bpdebug.NodeShape{Kind: "leaf", Keys: keys}
	case *internal[K, V]:
		keys := make([]string, len(x.keys))
		for i, k := range x.keys {
			keys[i] = fmt.Sprint(k)
		}
		children := make([]bpdebug.NodeShape, len(x.children))
		for i, c := range x.children {
			children[i] = shapeOf(c)
		}
		return bpdebug.NodeShape{Kind: "internal", Keys: keys, Children: children}
	default:
		panic("membtree: unreachable node kind")
	}
}
