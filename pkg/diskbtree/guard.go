package diskbtree

import "github.com/ssargent/bpluskv/pkg/bpcommon"

// Guard is the mutation guard returned by GetMut (spec §4.7). Unlike
// membtree's trivial guard, Release here marks the owning leaf dirty so a
// later persist/persist_key picks up the edit made through Value().
type Guard[K bpcommon.Ordered, V any] struct {
	value    *V
	leaf     *leaf[K, V]
	release  func()
	released bool
}

// Value returns a pointer to the guarded value.
func (g *Guard[K, V]) Value() *V { return g.value }

// Release ends the guard's exclusive hold on the tree and marks the owning
// leaf dirty. Calling Release more than once is a no-op.
func (g *Guard[K, V]) Release() {
	if g.released {
		return
	}
	g.released = true
	g.leaf.setDirty(true)
	if g.release != nil {
		g.release()
	}
}

// GetMut returns a mutation guard for key's value, if present. Only one
// guard may be outstanding per tree at a time (spec §5); acquiring a
// second before releasing the first panics.
func (t *Tree[K, V]) GetMut(key K) (*Guard[K, V], bool, error) {
	if !t.hasRoot {
		return nil, false, nil
	}
	lf, err := t.descend(key)
	if err != nil {
		return nil, false, err
	}
	i, hit := bpcommon.Find(lf.keys, key)
	if !hit {
		return nil, false, nil
	}
	t.acquireGuard()
	return &Guard[K, V]{value: &lf.values[i], leaf: lf, release: t.releaseGuard}, true, nil
}

// GetKeyValueMut is GetMut plus the stored key.
func (t *Tree[K, V]) GetKeyValueMut(key K) (K, *Guard[K, V], bool, error) {
	var zk K
	if !t.hasRoot {
		return zk, nil, false, nil
	}
	lf, err := t.descend(key)
	if err != nil {
		return zk, nil, false, err
	}
	i, hit := bpcommon.Find(lf.keys, key)
	if !hit {
		return zk, nil, false, nil
	}
	t.acquireGuard()
	return lf.keys[i], &Guard[K, V]{value: &lf.values[i], leaf: lf, release: t.releaseGuard}, true, nil
}

func (t *Tree[K, V]) acquireGuard() {
	if t.guardHeld {
		panic("diskbtree: a mutation guard is already outstanding for this tree")
	}
	t.guardHeld = true
}

func (t *Tree[K, V]) releaseGuard() {
	t.guardHeld = false
}
