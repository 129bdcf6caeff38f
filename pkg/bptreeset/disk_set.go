package bptreeset

import (
	"github.com/ssargent/bpluskv/pkg/bpcommon"
	"github.com/ssargent/bpluskv/pkg/diskbtree"
	"github.com/ssargent/bpluskv/pkg/diskbtree/codec"
)

// unitFuncs builds the codec.Funcs needed to persist a unit-valued disk
// tree: keys round-trip through the caller's codec, values are always the
// empty byte slice.
func unitFuncs[K bpcommon.Ordered](keyFuncs codec.Funcs[K, unit]) codec.Funcs[K, unit] {
	f := keyFuncs
	f.EncodeValue = func(unit) ([]byte, error) { return nil, nil }
	f.DecodeValue = func([]byte) (unit, error) { return unit{}, nil }
	return f
}

// DiskSet is an ordered set backed by the disk tree.
type DiskSet[K bpcommon.Ordered] struct {
	d *diskbtree.Tree[K, unit]
}

// NewDiskSet creates an empty set persisted under dir, using keyFuncs to
// encode/decode K (its EncodeValue/DecodeValue fields are ignored and
// replaced with the set's unit-value codec).
func NewDiskSet[K bpcommon.Ordered](dir string, keyFuncs codec.Funcs[K, unit]) (*DiskSet[K], error) {
	t, err := diskbtree.New[K, unit](dir, unitFuncs(keyFuncs))
	if err != nil {
		return nil, err
	}
	return &DiskSet[K]{d: t}, nil
}

// LoadDiskSet loads a previously persisted set from dir.
func LoadDiskSet[K bpcommon.Ordered](dir string, keyFuncs codec.Funcs[K, unit]) (*DiskSet[K], error) {
	t, err := diskbtree.Load[K, unit](dir, unitFuncs(keyFuncs))
	if err != nil {
		return nil, err
	}
	return &DiskSet[K]{d: t}, nil
}

func (s *DiskSet[K]) Len() int      { return s.d.Len() }
func (s *DiskSet[K]) IsEmpty() bool { return s.d.IsEmpty() }

func (s *DiskSet[K]) Contains(key K) (bool, error) { return s.d.ContainsKey(key) }

func (s *DiskSet[K]) Insert(key K) (bool, error) {
	_, existed, err := s.d.Insert(key, unit{})
	if err != nil {
		return false, err
	}
	return !existed, nil
}

func (s *DiskSet[K]) Remove(key K) (bool, error) {
	_, ok, err := s.d.Remove(key)
	return ok, err
}

func (s *DiskSet[K]) Persist() error { return s.d.Persist() }

// Iter returns a forward iterator over the set's elements in ascending
// order, for parity with Set.Iter. Unlike Set's iterator, Next can fail:
// the disk backend faults nodes in on demand.
func (s *DiskSet[K]) Iter() (*DiskIterator[K], error) {
	inner, err := s.d.Iter()
	if err != nil {
		return nil, err
	}
	return &DiskIterator[K]{inner: inner}, nil
}

// DiskIterator walks a DiskSet's elements in ascending order.
type DiskIterator[K bpcommon.Ordered] struct {
	inner *diskbtree.Iterator[K, unit]
}

// Next returns the next element, or ok=false once exhausted, or an error
// if a lazy load along the leaf chain fails.
func (it *DiskIterator[K]) Next() (K, bool, error) {
	k, _, ok, err := it.inner.Next()
	return k, ok, err
}
