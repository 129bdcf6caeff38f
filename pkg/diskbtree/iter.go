package diskbtree

import (
	"github.com/google/uuid"

	"github.com/ssargent/bpluskv/pkg/bpcommon"
)

// Iterator performs an in-order walk of the tree via the leaf chain,
// starting at the leftmost leaf (spec §4.6). Errors from lazy loading are
// surfaced as per-item failures; after a failure the iterator yields no
// more items.
type Iterator[K bpcommon.Ordered, V any] struct {
	tree      *Tree[K, V]
	leaf      *leaf[K, V]
	idx       int
	remaining int
	failed    bool
}

// Iter returns a forward iterator over all entries in ascending key order.
func (t *Tree[K, V]) Iter() (*Iterator[K, V], error) {
	lf, err := t.leftmostLeaf()
	if err != nil {
		return nil, err
	}
	return &Iterator[K, V]{tree: t, leaf: lf, remaining: t.length}, nil
}

// Next returns the next (key, value) pair, or ok=false once exhausted, or
// an error if a lazy load along the leaf chain fails.
func (it *Iterator[K, V]) Next() (K, V, bool, error) {
	var zk K
	var zv V
	if it.failed {
		return zk, zv, false, nil
	}
	for it.leaf != nil {
		if it.idx < len(it.leaf.keys) {
			k, v := it.leaf.keys[it.idx], it.leaf.values[it.idx]
			it.idx++
			it.remaining--
			return k, v, true, nil
		}
		if it.leaf.next == uuid.Nil {
			it.leaf = nil
			break
		}
		next, err := it.tree.accessLeaf(it.leaf.next)
		if err != nil {
			it.failed = true
			return zk, zv, false, err
		}
		it.leaf = next
		it.idx = 0
	}
	return zk, zv, false, nil
}

// Len reports the number of entries remaining at iterator creation time.
func (it *Iterator[K, V]) Len() int { return it.remaining }

// MutIterator is the mutable counterpart of Iterator (mirroring
// disk/iter.rs's IterMut): it walks the same leaf chain but yields a
// per-entry Guard instead of a plain value, so an edit made through the
// guard marks the owning leaf dirty. Only one guard may be outstanding at
// a time, the same rule GetMut enforces (spec §5); callers must Release
// each guard before calling Next again.
type MutIterator[K bpcommon.Ordered, V any] struct {
	tree      *Tree[K, V]
	leaf      *leaf[K, V]
	idx       int
	remaining int
	failed    bool
}

// IterMut returns a forward iterator exposing a mutation guard per entry.
func (t *Tree[K, V]) IterMut() (*MutIterator[K, V], error) {
	lf, err := t.leftmostLeaf()
	if err != nil {
		return nil, err
	}
	return &MutIterator[K, V]{tree: t, leaf: lf, remaining: t.length}, nil
}

// Next returns the next key and a guard over its value, or ok=false once
// exhausted, or an error if a lazy load along the leaf chain fails. The
// returned guard must be released (or its value edited then released)
// before the next call to Next.
func (it *MutIterator[K, V]) Next() (K, *Guard[K, V], bool, error) {
	var zk K
	if it.failed {
		return zk, nil, false, nil
	}
	for it.leaf != nil {
		if it.idx < len(it.leaf.keys) {
			k := it.leaf.keys[it.idx]
			lf := it.leaf
			i := it.idx
			it.idx++
			it.remaining--
			it.tree.acquireGuard()
			g := &Guard[K, V]{value: &lf.values[i], leaf: lf, release: it.tree.releaseGuard}
			return k, g, true, nil
		}
		if it.leaf.next == uuid.Nil {
			it.leaf = nil
			break
		}
		next, err := it.tree.accessLeaf(it.leaf.next)
		if err != nil {
			it.failed = true
			return zk, nil, false, err
		}
		it.leaf = next
		it.idx = 0
	}
	return zk, nil, false, nil
}

// Len reports the number of entries remaining at iterator creation time.
func (it *MutIterator[K, V]) Len() int { return it.remaining }

// ValuesMut wraps a MutIterator, yielding only the value guard (mirroring
// disk/iter.rs's ValuesMut(IterMut)).
type ValuesMut[K bpcommon.Ordered, V any] struct {
	inner *MutIterator[K, V]
}

// NewValuesMut returns a value-only adapter over a MutIterator.
func NewValuesMut[K bpcommon.Ordered, V any](inner *MutIterator[K, V]) *ValuesMut[K, V] {
	return &ValuesMut[K, V]{inner: inner}
}

// Next returns the next entry's mutation guard, or ok=false once exhausted.
func (vm *ValuesMut[K, V]) Next() (*Guard[K, V], bool, error) {
	_, g, ok, err := vm.inner.Next()
	return g, ok, err
}
