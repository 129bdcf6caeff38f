// Package bptreeset provides a thin ordered-set wrapper over the tree
// backends, the way the original source's src/set.rs wraps its map type:
// every operation simply delegates to a map keyed by K with unit values.
package bptreeset

import (
	"github.com/ssargent/bpluskv/pkg/bpcommon"
	"github.com/ssargent/bpluskv/pkg/membtree"
)

type unit = struct{}

// Set is an ordered set backed by the in-memory tree.
type Set[K bpcommon.Ordered] struct {
	m *membtree.Tree[K, unit]
}

// New creates an empty set with the default branching order.
func New[K bpcommon.Ordered]() *Set[K] {
	return &Set[K]{m: membtree.New[K, unit]()}
}

// WithOrder creates an empty set with branching order m.
func WithOrder[K bpcommon.Ordered](m int) *Set[K] {
	return &Set[K]{m: membtree.WithOrder[K, unit](m)}
}

// Len returns the number of elements in the set.
func (s *Set[K]) Len() int { return s.m.Len() }

// IsEmpty reports whether the set has no elements.
func (s *Set[K]) IsEmpty() bool { return s.m.IsEmpty() }

// Contains reports whether key is a member of the set.
func (s *Set[K]) Contains(key K) bool { return s.m.ContainsKey(key) }

// Get returns the stored key equal to key, if a member.
func (s *Set[K]) Get(key K) (K, bool) {
	k, _, ok := s.m.GetKeyValue(key)
	return k, ok
}

// Insert adds key to the set, reporting true if it was not already present.
func (s *Set[K]) Insert(key K) bool {
	_, existed := s.m.Insert(key, unit{})
	return !existed
}

// Remove deletes key from the set, reporting true if it was present.
func (s *Set[K]) Remove(key K) bool {
	_, ok := s.m.Remove(key)
	return ok
}

// Iter returns a forward iterator over the set's elements in ascending
// order.
func (s *Set[K]) Iter() *Iterator[K] {
	return &Iterator[K]{inner: s.m.Iter()}
}

// Iterator walks a Set's elements in ascending order.
type Iterator[K bpcommon.Ordered] struct {
	inner *membtree.Iterator[K, unit]
}

// Next returns the next element, or ok=false once exhausted.
func (it *Iterator[K]) Next() (K, bool) {
	k, _, ok, _ := it.inner.Next()
	return k, ok
}
