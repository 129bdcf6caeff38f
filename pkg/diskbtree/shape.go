package diskbtree

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ssargent/bpluskv/pkg/bpdebug"
)

// Shape renders the tree's structure for bpdebug.Dump, faulting in any
// node along the way that is not already resident.
func (t *Tree[K, V]) Shape() (bpdebug.TreeShape, error) {
	shape := bpdebug.TreeShape{Order: t.order, Len: t.length}
	if !t.hasRoot {
		return shape, nil
	}
	n, err := t.shapeOf(t.rootID)
	if err != nil {
		return shape, err
	}
	shape.Root = &n
	return shape, nil
}

func (t *Tree[K, V]) shapeOf(id uuid.UUID) (bpdebug.NodeShape, error) {
	n, err := t.access(id)
	if err != nil {
		return bpdebug.NodeShape{}, err
	}
	switch x := n.(type) {
	case *leaf[K, V]:
		keys := make([]string, len(x.keys))
		for i, k := range x.keys {
			keys[i] = fmt.Sprint(k)
		}
		return bpdebug.NodeShape{Kind: "leaf", Keys: keys}, nil
	case *internal[K, V]:
		keys := make([]string, len(x.keys))
		for i, k := range x.keys {
			keys[i] = fmt.Sprint(k)
		}
		children := make([]bpdebug.NodeShape, len(x.children))
		for i, cid := range x.children {
			c, err := t.shapeOf(cid)
			if err != nil {
				return bpdebug.NodeShape{}, err
			}
			children[i] = c
		}
		return bpdebug.NodeShape{Kind: "internal", Keys: keys, Children: children}, nil
	default:
		panic("diskbtree: unreachable node kind")
	}
}
