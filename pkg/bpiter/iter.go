// Package bpiter provides adapter iterators (keys-only, values-only) over
// a tree's entry iterator, plus a Go range-over-func convenience, the way
// the original source's iter.rs files wrap its base map iterator.
package bpiter

// EntryIterator is satisfied by both membtree.Iterator and
// diskbtree.Iterator: Next yields the next entry, or ok=false once
// exhausted, surfacing a per-item error for the disk backend.
type EntryIterator[K any, V any] interface {
	Next() (K, V, bool, error)
}

// Keys adapts an EntryIterator to yield only keys.
type Keys[K any, V any] struct {
	inner EntryIterator[K, V]
}

// NewKeys wraps it as a keys-only iterator.
func NewKeys[K any, V any](it EntryIterator[K, V]) *Keys[K, V] {
	return &Keys[K, V]{inner: it}
}

// Next returns the next key, or ok=false once exhausted.
func (k *Keys[K, V]) Next() (K, bool, error) {
	key, _, ok, err := k.inner.Next()
	return key, ok, err
}

// Values adapts an EntryIterator to yield only values.
type Values[K any, V any] struct {
	inner EntryIterator[K, V]
}

// NewValues wraps it as a values-only iterator.
func NewValues[K any, V any](it EntryIterator[K, V]) *Values[K, V] {
	return &Values[K, V]{inner: it}
}

// Next returns the next value, or ok=false once exhausted.
func (v *Values[K, V]) Next() (V, bool, error) {
	_, val, ok, err := v.inner.Next()
	return val, ok, err
}

// All returns a range-over-func iterator over it's entries. Iteration
// stops early, without surfacing the cause, on the first error from a
// fallible (disk-backed) iterator — callers who need error visibility
// should drive EntryIterator.Next directly instead.
func All[K any, V any](it EntryIterator[K, V]) func(yield func(K, V) bool) {
	return func(yield func(K, V) bool) {
		for {
			k, v, ok, err := it.Next()
			if err != nil || !ok {
				return
			}
			if !yield(k, v) {
				return
			}
		}
	}
}
