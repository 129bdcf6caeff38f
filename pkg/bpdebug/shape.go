// Package bpdebug renders a tree's structure for diagnostics: an indented
// depth-first textual dump, grounded on the teacher's habit of collecting
// diagnostic state into a plain json-tagged struct (see ExplainResult in
// pkg/store/store.go) before presenting it.
package bpdebug

import (
	"fmt"
	"strings"
)

// NodeShape describes one node's contribution to a tree dump.
type NodeShape struct {
	Kind     string      `json:"kind"`
	Keys     []string    `json:"keys"`
	Children []NodeShape `json:"children,omitempty"`
}

// TreeShape is the root-level summary a tree's Shape method returns.
type TreeShape struct {
	Order int        `json:"order"`
	Len   int        `json:"len"`
	Root  *NodeShape `json:"root,omitempty"`
}

// Shaper is implemented directly by both membtree.Tree and diskbtree.Tree
// through their Shape methods, keeping bpdebug ignorant of either backend's
// internal node representation.
type Shaper interface {
	Shape() (TreeShape, error)
}

// Dump renders shape as indented text: one line per node, children nested
// under their parent.
func Dump(s Shaper) string {
	shape, err := s.Shape()
	if err != nil {
		return fmt.Sprintf("<dump failed: %v>", err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "order=%d len=%d\n", shape.Order, shape.Len)
	if shape.Root == nil {
		b.WriteString("(empty)\n")
		return b.String()
	}
	writeNode(&b, shape.Root, 0)
	return b.String()
}

func writeNode(b *strings.Builder, n *NodeShape, depth int) {
	fmt.Fprintf(b, "%s%s %v\n", strings.Repeat("  ", depth), n.Kind, n.Keys)
	for i := range n.Children {
		writeNode(b, &n.Children[i], depth+1)
	}
}
