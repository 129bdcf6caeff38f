package membtree

import "github.com/ssargent/bpluskv/pkg/bpcommon"

// Iterator performs an in-order walk of the tree via the leaf chain,
// starting at the leftmost leaf (spec §4.6). Next returns an error slot
// for uniformity with the disk backend's EntryIterator shape, but the
// in-memory backend never fails, so it is always nil.
type Iterator[K bpcommon.Ordered, V any] struct {
	leaf      *leaf[K, V]
	idx       int
	remaining int
}

// Iter returns a forward iterator over all entries in ascending key order.
func (t *Tree[K, V]) Iter() *Iterator[K, V] {
	return &Iterator[K, V]{leaf: t.leftmostLeaf(), remaining: t.length}
}

// Next returns the next (key, value) pair, or ok=false once exhausted.
func (it *Iterator[K, V]) Next() (K, V, bool, error) {
	for it.leaf != nil {
		if it.idx < len(it.leaf.keys) {
			k, v := it.leaf.keys[it.idx], it.leaf.values[it.idx]
			it.idx++
			it.remaining--
			return k, v, true, nil
		}
		it.leaf = it.leaf.next
		it.idx = 0
	}
	var zk K
	var zv V
	return zk, zv, false, nil
}

// Len reports the number of entries remaining at iterator creation time;
// it is not updated by concurrent structural modification (spec §4.6).
func (it *Iterator[K, V]) Len() int { return it.remaining }

// MutIterator is the mutable counterpart of Iterator, yielding a pointer to
// each value so callers can edit in place.
type MutIterator[K bpcommon.Ordered, V any] struct {
	leaf      *leaf[K, V]
	idx       int
	remaining int
}

// IterMut returns a forward iterator exposing mutable value pointers.
func (t *Tree[K, V]) IterMut() *MutIterator[K, V] {
	return &MutIterator[K, V]{leaf: t.leftmostLeaf(), remaining: t.length}
}

// Next returns the next key and a pointer to its value, or ok=false.
func (it *MutIterator[K, V]) Next() (K, *V, bool) {
	for it.leaf != nil {
		if it.idx < len(it.leaf.keys) {
			k := it.leaf.keys[it.idx]
			v := &it.leaf.values[it.idx]
			it.idx++
			it.remaining--
			return k, v, true
		}
		it.leaf = it.leaf.next
		it.idx = 0
	}
	var zk K
	return zk, nil, false
}

func (it *MutIterator[K, V]) Len() int { return it.remaining }
