package membtree

import "github.com/ssargent/bpluskv/pkg/bpcommon"

// Guard is the mutation guard returned by GetMut (spec §4.7). The
// in-memory backend has no dirty flag, so Release is a no-op beyond
// clearing the tree's exclusivity flag — Guard exists mainly to give
// callers a uniform handle across both backends.
type Guard[V any] struct {
	value    *V
	release  func()
	released bool
}

// Value returns a pointer to the guarded value.
func (g *Guard[V]) Value() *V { return g.value }

// Release ends the guard's exclusive hold on the tree. Calling Release
// more than once is a no-op.
func (g *Guard[V]) Release() {
	if g.released {
		return
	}
	g.released = true
	if g.release != nil {
		g.release()
	}
}

// GetMut returns a mutation guard for key's value, if present. Only one
// guard may be outstanding per tree at a time (spec §5); acquiring a
// second before releasing the first panics.
func (t *Tree[K, V]) GetMut(key K) (*Guard[V], bool) {
	if t.root == nil {
		return nil, false
	}
	lf := t.descend(key)
	i, hit := bpcommon.Find(lf.keys, key)
	if !hit {
		return nil, false
	}
	t.acquireGuard()
	return &Guard[V]{value: &lf.values[i], release: t.releaseGuard}, true
}

// GetKeyValueMut is GetMut plus the stored key.
func (t *Tree[K, V]) GetKeyValueMut(key K) (K, *Guard[V], bool) {
	var zk K
	if t.root == nil {
		return zk, nil, false
	}
	lf := t.descend(key)
	i, hit := bpcommon.Find(lf.keys, key)
	if !hit {
		return zk, nil, false
	}
	t.acquireGuard()
	return lf.keys[i], &Guard[V]{value: &lf.values[i], release: t.releaseGuard}, true
}

func (t *Tree[K, V]) acquireGuard() {
	if t.guardHeld {
		panic("membtree: a mutation guard is already outstanding for this tree")
	}
	t.guardHeld = true
}

func (t *Tree[K, V]) releaseGuard() {
	t.guardHeld = false
}
