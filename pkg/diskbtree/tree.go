package diskbtree

import (
	"os"

	"github.com/google/uuid"

	"github.com/ssargent/bpluskv/pkg/bpcommon"
	"github.com/ssargent/bpluskv/pkg/diskbtree/codec"
	"github.com/ssargent/bpluskv/pkg/diskopt"
	"github.com/ssargent/bpluskv/pkg/bptelemetry"
)

// DefaultOrder is used by New when no order override is supplied.
const DefaultOrder = 3

// Tree is the disk-backed B+Tree-backed ordered map described in spec §4.2.
// Construct with New, WithOrder or Load.
type Tree[K bpcommon.Ordered, V any] struct {
	dir    string
	order  int
	length int

	rootID    uuid.UUID
	hasRoot   bool
	rootDirty bool
	lenDirty  bool
	orderDirty bool

	cache map[uuid.UUID]*cacheEntry[K, V]
	funcs codec.Funcs[K, V]
	opt   diskopt.Options
	rec   bptelemetry.Recorder

	guardHeld bool
}

// Option configures a Tree at construction time.
type Option[K bpcommon.Ordered, V any] func(*Tree[K, V])

// WithDiskOptions overrides the default file modes and fsync behavior.
func WithDiskOptions[K bpcommon.Ordered, V any](o diskopt.Options) Option[K, V] {
	return func(t *Tree[K, V]) { t.opt = o }
}

// WithRecorder attaches telemetry to the tree's structural operations.
func WithRecorder[K bpcommon.Ordered, V any](r bptelemetry.Recorder) Option[K, V] {
	return func(t *Tree[K, V]) { t.rec = r }
}

func newTree[K bpcommon.Ordered, V any](dir string, order int, funcs codec.Funcs[K, V], opts []Option[K, V]) *Tree[K, V] {
	t := &Tree[K, V]{
		dir:        dir,
		order:      order,
		cache:      make(map[uuid.UUID]*cacheEntry[K, V]),
		funcs:      funcs,
		opt:        diskopt.DefaultOptions(),
		rootDirty:  true,
		lenDirty:   true,
		orderDirty: true,
	}
	for _, o := range opts {
		o(t)
	}
	t.opt.Order = order
	return t
}

// New creates an empty tree rooted at dir with DefaultOrder.
func New[K bpcommon.Ordered, V any](dir string, funcs codec.Funcs[K, V], opts ...Option[K, V]) (*Tree[K, V], error) {
	return WithOrder(dir, DefaultOrder, funcs, opts...)
}

// WithOrder creates an empty tree rooted at dir with branching order m,
// clamped to a minimum of 3 (spec §3 invariant 1).
func WithOrder[K bpcommon.Ordered, V any](dir string, m int, funcs codec.Funcs[K, V], opts ...Option[K, V]) (*Tree[K, V], error) {
	if m < 3 {
		m = 3
	}
	return newTree(dir, m, funcs, opts), nil
}

// Len returns the number of entries in the tree.
func (t *Tree[K, V]) Len() int { return t.length }

// IsEmpty reports whether the tree has no entries.
func (t *Tree[K, V]) IsEmpty() bool { return t.length == 0 }

// Order returns the tree's branching order.
func (t *Tree[K, V]) Order() int { return t.order }

// Dir returns the directory backing this tree.
func (t *Tree[K, V]) Dir() string { return t.dir }

// ContainsKey reports whether key is present.
func (t *Tree[K, V]) ContainsKey(key K) (bool, error) {
	_, ok, err := t.Get(key)
	return ok, err
}

// Get returns the value for key, if present.
func (t *Tree[K, V]) Get(key K) (V, bool, error) {
	var zero V
	if !t.hasRoot {
		return zero, false, nil
	}
	lf, err := t.descend(key)
	if err != nil {
		return zero, false, err
	}
	i, hit := bpcommon.Find(lf.keys, key)
	if !hit {
		return zero, false, nil
	}
	return lf.values[i], true, nil
}

// GetKeyValue returns the stored key and value for key, if present.
func (t *Tree[K, V]) GetKeyValue(key K) (K, V, bool, error) {
	var zk K
	var zv V
	if !t.hasRoot {
		return zk, zv, false, nil
	}
	lf, err := t.descend(key)
	if err != nil {
		return zk, zv, false, err
	}
	i, hit := bpcommon.Find(lf.keys, key)
	if !hit {
		return zk, zv, false, nil
	}
	return lf.keys[i], lf.values[i], true, nil
}

// descend walks from the root to the leaf responsible for key, faulting in
// nodes along the way, using the right-leaning duplicate-descent rule from
// spec §4.3.
func (t *Tree[K, V]) descend(key K) (*leaf[K, V], error) {
	id := t.rootID
	for {
		n, err := t.access(id)
		if err != nil {
			return nil, err
		}
		switch x := n.(type) {
		case *internal[K, V]:
			i, hit := bpcommon.Find(x.keys, key)
			if hit {
				i++
			}
			id = x.children[i]
		case *leaf[K, V]:
			return x, nil
		default:
			panic("diskbtree: unreachable node kind")
		}
	}
}

func (t *Tree[K, V]) leftmostLeaf() (*leaf[K, V], error) {
	if !t.hasRoot {
		return nil, nil
	}
	id := t.rootID
	for {
		n, err := t.access(id)
		if err != nil {
			return nil, err
		}
		switch x := n.(type) {
		case *internal[K, V]:
			id = x.children[0]
		case *leaf[K, V]:
			return x, nil
		default:
			panic("diskbtree: unreachable node kind")
		}
	}
}

func minLeafKeys(order int) int     { return (order + 1) / 2 }
func minInternalKeys(order int) int { return order / 2 }

func (t *Tree[K, V]) setRoot(id uuid.UUID, has bool) {
	t.rootID = id
	t.hasRoot = has
	t.rootDirty = true
}

func (t *Tree[K, V]) bumpLen(delta int) {
	t.length += delta
	t.lenDirty = true
}

func (t *Tree[K, V]) ensureDir() error {
	if err := os.MkdirAll(t.dir, t.opt.DirMode); err != nil {
		return bpcommon.WrapIO(err, "ensureDir")
	}
	return nil
}

func (t *Tree[K, V]) nodeFromRecord(rec *codec.NodeRecord) (node[K, V], error) {
	switch rec.Kind {
	case codec.KindLeaf:
		keys := make([]K, len(rec.Keys))
		for i, kb := range rec.Keys {
			k, err := t.funcs.DecodeKey(kb)
			if err != nil {
				return nil, bpcommon.WrapCodec(err, "decode key")
			}
			keys[i] = k
		}
		values := make([]V, len(rec.Values))
		for i, vb := range rec.Values {
			v, err := t.funcs.DecodeValue(vb)
			if err != nil {
				return nil, bpcommon.WrapCodec(err, "decode value")
			}
			values[i] = v
		}
		return &leaf[K, V]{id: rec.ID, keys: keys, values: values, parent: rec.Parent, next: rec.Next}, nil
	case codec.KindInternal:
		keys := make([]K, len(rec.Keys))
		for i, kb := range rec.Keys {
			k, err := t.funcs.DecodeKey(kb)
			if err != nil {
				return nil, bpcommon.WrapCodec(err, "decode key")
			}
			keys[i] = k
		}
		return &internal[K, V]{id: rec.ID, keys: keys, children: rec.Children, parent: rec.Parent}, nil
	default:
		return nil, bpcommon.BadTree("unknown node kind")
	}
}

func (t *Tree[K, V]) recordToEncode(n node[K, V]) (*codec.NodeRecord, error) {
	switch x := n.(type) {
	case *leaf[K, V]:
		keys := make([][]byte, len(x.keys))
		for i, k := range x.keys {
			kb, err := t.funcs.EncodeKey(k)
			if err != nil {
				return nil, bpcommon.WrapCodec(err, "encode key")
			}
			keys[i] = kb
		}
		values := make([][]byte, len(x.values))
		for i, v := range x.values {
			vb, err := t.funcs.EncodeValue(v)
			if err != nil {
				return nil, bpcommon.WrapCodec(err, "encode value")
			}
			values[i] = vb
		}
		return &codec.NodeRecord{Kind: codec.KindLeaf, ID: x.id, Parent: x.parent, Next: x.next, Keys: keys, Values: values}, nil
	case *internal[K, V]:
		keys := make([][]byte, len(x.keys))
		for i, k := range x.keys {
			kb, err := t.funcs.EncodeKey(k)
			if err != nil {
				return nil, bpcommon.WrapCodec(err, "encode key")
			}
			keys[i] = kb
		}
		return &codec.NodeRecord{Kind: codec.KindInternal, ID: x.id, Parent: x.parent, Keys: keys, Children: x.children}, nil
	default:
		return nil, bpcommon.BadTree("unknown node kind")
	}
}
