package membtree

import "github.com/ssargent/bpluskv/pkg/bpcommon"

// DefaultOrder is used by New when no explicit order is supplied.
const DefaultOrder = 3

// Tree is the in-memory B+Tree-backed ordered map described in spec §4.2.
// Zero value is not usable; construct with New or WithOrder.
type Tree[K bpcommon.Ordered, V any] struct {
	root      node[K, V]
	order     int
	length    int
	guardHeld bool
}

// New creates an empty tree with DefaultOrder.
func New[K bpcommon.Ordered, V any]() *Tree[K, V] {
	return WithOrder[K, V](DefaultOrder)
}

// WithOrder creates an empty tree with branching order m, clamped to a
// minimum of 3 as required by spec §3 invariant 1.
func WithOrder[K bpcommon.Ordered, V any](m int) *Tree[K, V] {
	if m < 3 {
		m = 3
	}
	return &Tree[K, V]{order: m}
}

// Len returns the number of entries in the tree.
func (t *Tree[K, V]) Len() int { return t.length }

// IsEmpty reports whether the tree has no entries.
func (t *Tree[K, V]) IsEmpty() bool { return t.length == 0 }

// Order returns the tree's branching order.
func (t *Tree[K, V]) Order() int { return t.order }

// ContainsKey reports whether key is present.
func (t *Tree[K, V]) ContainsKey(key K) bool {
	_, ok := t.Get(key)
	return ok
}

// Get returns the value for key, if present.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	var zero V
	if t.root == nil {
		return zero, false
	}
	lf := t.descend(key)
	i, hit := bpcommon.Find(lf.keys, key)
	if !hit {
		return zero, false
	}
	return lf.values[i], true
}

// GetKeyValue returns the stored key (identical to the query key for
// comparable K) and value for key, if present.
func (t *Tree[K, V]) GetKeyValue(key K) (K, V, bool) {
	var zk K
	var zv V
	if t.root == nil {
		return zk, zv, false
	}
	lf := t.descend(key)
	i, hit := bpcommon.Find(lf.keys, key)
	if !hit {
		return zk, zv, false
	}
	return lf.keys[i], lf.values[i], true
}

// descend walks from the root to the leaf responsible for key, using the
// right-leaning duplicate-descent rule from spec §4.3: on an exact
// separator match at i, descend to children[i+1]; on a miss at i, descend
// to children[i].
func (t *Tree[K, V]) descend(key K) *leaf[K, V] {
	n := t.root
	for {
		switch x := n.(type) {
		case *internal[K, V]:
			i, hit := bpcommon.Find(x.keys, key)
			if hit {
				i++
			}
			n = x.children[i]
		case *leaf[K, V]:
			return x
		default:
			panic("membtree: unreachable node kind")
		}
	}
}

func minLeafKeys(order int) int { return (order + 1) / 2 } // ceil(m/2)
func minInternalKeys(order int) int { return order / 2 }   // floor(m/2)

func (t *Tree[K, V]) leftmostLeaf() *leaf[K, V] {
	if t.root == nil {
		return nil
	}
	n := t.root
	for {
		switch x := n.(type) {
		case *internal[K, V]:
			n = x.children[0]
		case *leaf[K, V]:
			return x
		default:
			panic("membtree: unreachable node kind")
		}
	}
}
