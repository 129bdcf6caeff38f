package diskbtree

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ssargent/bpluskv/pkg/bpcommon"
	"github.com/ssargent/bpluskv/pkg/diskbtree/codec"
)

// cacheState is the two-state cell from spec §4.1: a node identity is
// either resident (its data loaded) or reference-only (only its identity
// known, content resolvable from its file).
type cacheState uint8

const (
	refOnly cacheState = iota
	resident
)

type cacheEntry[K bpcommon.Ordered, V any] struct {
	state cacheState
	node  node[K, V]
}

// access resolves id to its node, faulting it in from disk if the cell is
// currently reference-only. Returns bpcommon.ErrIO / bpcommon.ErrCodec on
// failure, per spec §4.1.
func (t *Tree[K, V]) access(id uuid.UUID) (node[K, V], error) {
	if e, ok := t.cache[id]; ok && e.state == resident {
		return e.node, nil
	}

	path := filepath.Join(t.dir, id.String())
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, bpcommon.WrapIO(err, "access")
	}
	rec, err := codec.DecodeNode(data)
	if err != nil {
		return nil, bpcommon.WrapCodec(err, "access")
	}
	n, err := t.nodeFromRecord(rec)
	if err != nil {
		return nil, err
	}

	t.cache[id] = &cacheEntry[K, V]{state: resident, node: n}
	if t.rec != nil {
		t.rec.RecordFault()
	}
	return n, nil
}

// accessMut is access with a name that documents intent at call sites that
// are about to mutate the returned node; per spec §4.1 it does not itself
// mark anything dirty.
func (t *Tree[K, V]) accessMut(id uuid.UUID) (node[K, V], error) {
	return t.access(id)
}

// putResident registers a newly created (not yet persisted) node as
// resident, used by the insert and split code paths.
func (t *Tree[K, V]) putResident(n node[K, V]) {
	t.cache[n.nodeID()] = &cacheEntry[K, V]{state: resident, node: n}
}

// reclaim removes the backing file for id, if any, and drops its cache
// entry. Idempotent against a never-persisted node (spec §4.8).
func (t *Tree[K, V]) reclaim(id uuid.UUID) error {
	delete(t.cache, id)
	path := filepath.Join(t.dir, id.String())
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return bpcommon.WrapIO(err, "reclaim")
	}
	return nil
}

func (t *Tree[K, V]) asLeaf(n node[K, V]) *leaf[K, V] {
	lf, ok := n.(*leaf[K, V])
	if !ok {
		panic("diskbtree: expected leaf node")
	}
	return lf
}

func (t *Tree[K, V]) asInternal(n node[K, V]) *internal[K, V] {
	in, ok := n.(*internal[K, V])
	if !ok {
		panic("diskbtree: expected internal node")
	}
	return in
}

func (t *Tree[K, V]) accessLeaf(id uuid.UUID) (*leaf[K, V], error) {
	n, err := t.access(id)
	if err != nil {
		return nil, err
	}
	return t.asLeaf(n), nil
}

func (t *Tree[K, V]) accessInternal(id uuid.UUID) (*internal[K, V], error) {
	n, err := t.access(id)
	if err != nil {
		return nil, err
	}
	return t.asInternal(n), nil
}
