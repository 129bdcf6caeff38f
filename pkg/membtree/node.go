// Package membtree implements the in-memory B+Tree backend: plain
// pointer-linked nodes, no node cache, no dirty tracking, and infallible
// operations (see spec §4.7 and §5).
package membtree

import "github.com/ssargent/bpluskv/pkg/bpcommon"

// node is the common shape shared by *leaf[K,V] and *internal[K,V]: both
// carry a parent back-reference, which is all the shared tree-walking code
// needs. Go generics give no natural sum type, so the two
// concrete node kinds are distinguished with a type switch at the handful
// of call sites that need to know which one they hold.
type node[K bpcommon.Ordered, V any] interface {
	parentNode() *internal[K, V]
	setParentNode(*internal[K, V])
}

type leaf[K bpcommon.Ordered, V any] struct {
	keys   []K
	values []V
	parent *internal[K, V]
	next   *leaf[K, V]
}

func (l *leaf[K, V]) parentNode() *internal[K, V]        { return l.parent }
func (l *leaf[K, V]) setParentNode(p *internal[K, V])     { l.parent = p }

type internal[K bpcommon.Ordered, V any] struct {
	keys     []K
	children []node[K, V]
	parent   *internal[K, V]
}

func (n *internal[K, V]) parentNode() *internal[K, V]    { return n.parent }
func (n *internal[K, V]) setParentNode(p *internal[K, V]) { n.parent = p }

// childIndex returns the position of child within parent.children.
func childIndex[K bpcommon.Ordered, V any](parent *internal[K, V], child node[K, V]) int {
	for i, c := range parent.children {
		if c == child {
			return i
		}
	}
	return -1
}

func insertAt[T any](s []T, i int, v T) []T {
	var zero T
	s = append(s, zero)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func removeAt[T any](s []T, i int) []T {
	var zero T
	copy(s[i:], s[i+1:])
	s[len(s)-1] = zero
	return s[:len(s)-1]
}
