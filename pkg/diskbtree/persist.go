package diskbtree

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ssargent/bpluskv/pkg/bpcommon"
	"github.com/ssargent/bpluskv/pkg/diskbtree/codec"
)

const (
	rootFileName  = "root"
	orderFileName = "order"
	lenFileName   = "len"
)

func (t *Tree[K, V]) writeFile(name string, data []byte) error {
	path := filepath.Join(t.dir, name)
	if err := os.WriteFile(path, data, t.opt.FileMode); err != nil {
		return bpcommon.WrapIO(err, "write "+name)
	}
	if t.opt.FsyncOnPersist {
		f, err := os.Open(path)
		if err != nil {
			return bpcommon.WrapIO(err, "reopen "+name)
		}
		defer f.Close()
		if err := f.Sync(); err != nil {
			return bpcommon.WrapIO(err, "fsync "+name)
		}
	}
	return nil
}

func (t *Tree[K, V]) persistMetadata() error {
	if err := t.ensureDir(); err != nil {
		return err
	}
	if t.rootDirty {
		var id []byte
		if t.hasRoot {
			id = append([]byte(nil), t.rootID[:]...)
		}
		if err := t.writeFile(rootFileName, codec.EncodeMeta(id)); err != nil {
			return err
		}
		t.rootDirty = false
	}
	if t.orderDirty {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(t.order))
		if err := t.writeFile(orderFileName, codec.EncodeMeta(b)); err != nil {
			return err
		}
		t.orderDirty = false
	}
	if t.lenDirty {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(t.length))
		if err := t.writeFile(lenFileName, codec.EncodeMeta(b)); err != nil {
			return err
		}
		t.lenDirty = false
	}
	return nil
}

func (t *Tree[K, V]) writeNodeFile(n node[K, V]) error {
	rec, err := t.recordToEncode(n)
	if err != nil {
		return err
	}
	if err := t.writeFile(n.nodeID().String(), codec.EncodeNode(rec)); err != nil {
		return err
	}
	n.setDirty(false)
	return nil
}

// Persist implements spec §4.8: write dirty metadata, then walk the tree
// depth-first writing every resident dirty node. Unloaded nodes are
// skipped, since by definition they are unchanged.
func (t *Tree[K, V]) Persist() error {
	if err := t.persistMetadata(); err != nil {
		return err
	}
	if !t.hasRoot {
		return nil
	}

	flushed := 0
	var walk func(id uuid.UUID) error
	walk = func(id uuid.UUID) error {
		e, ok := t.cache[id]
		if !ok || e.state != resident {
			return nil
		}
		if e.node.isDirty() {
			if err := t.writeNodeFile(e.node); err != nil {
				return err
			}
			flushed++
		}
		if in, ok := e.node.(*internal[K, V]); ok {
			for _, c := range in.children {
				if err := walk(c); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(t.rootID); err != nil {
		return err
	}
	// A resident node whose parent is not loaded (a leaf reached along the
	// leaf chain) is not reached by the walk above.
	for _, e := range t.cache {
		if e.state == resident && e.node.isDirty() {
			if err := t.writeNodeFile(e.node); err != nil {
				return err
			}
			flushed++
		}
	}
	if t.rec != nil {
		t.rec.RecordFlush(flushed)
	}
	return nil
}

// PersistKey implements spec §4.8's persist_key: the metadata step, then
// descend along the path for k, writing each dirty resident node on the
// way down. Fails with bpcommon.ErrUnknownKey if the leaf does not contain
// k.
func (t *Tree[K, V]) PersistKey(key K) error {
	if err := t.persistMetadata(); err != nil {
		return err
	}
	if !t.hasRoot {
		return bpcommon.UnknownKey()
	}

	flushed := 0
	id := t.rootID
	for {
		n, err := t.access(id)
		if err != nil {
			return err
		}
		if n.isDirty() {
			if err := t.writeNodeFile(n); err != nil {
				return err
			}
			flushed++
		}
		switch x := n.(type) {
		case *internal[K, V]:
			i, hit := bpcommon.Find(x.keys, key)
			if hit {
				i++
			}
			id = x.children[i]
		case *leaf[K, V]:
			if _, hit := bpcommon.Find(x.keys, key); !hit {
				return bpcommon.UnknownKey()
			}
			if t.rec != nil {
				t.rec.RecordFlush(flushed)
			}
			return nil
		}
	}
}

// Load reads the three metadata files from dir and returns a tree whose
// root is materialized only as a reference cell; node data is faulted in
// on first access (spec §4.8).
func Load[K bpcommon.Ordered, V any](dir string, funcs codec.Funcs[K, V], opts ...Option[K, V]) (*Tree[K, V], error) {
	rootRaw, err := readMetaFile(dir, rootFileName)
	if err != nil {
		return nil, err
	}
	orderRaw, err := readMetaFile(dir, orderFileName)
	if err != nil {
		return nil, err
	}
	lenRaw, err := readMetaFile(dir, lenFileName)
	if err != nil {
		return nil, err
	}
	if len(orderRaw) != 4 || len(lenRaw) != 4 {
		return nil, bpcommon.BadTree("malformed order/len metadata")
	}

	order := int(binary.LittleEndian.Uint32(orderRaw))
	t := newTree(dir, order, funcs, opts)
	t.rootDirty = false
	t.orderDirty = false
	t.lenDirty = false
	t.length = int(binary.LittleEndian.Uint32(lenRaw))

	if len(rootRaw) == 16 {
		var id uuid.UUID
		copy(id[:], rootRaw)
		t.hasRoot = true
		t.rootID = id
	} else if len(rootRaw) != 0 {
		return nil, bpcommon.BadTree("malformed root metadata")
	}

	return t, nil
}

func readMetaFile(dir, name string) ([]byte, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, bpcommon.BadTree("missing metadata file: " + name)
		}
		return nil, bpcommon.WrapIO(err, "read "+name)
	}
	val, err := codec.DecodeMeta(data)
	if err != nil {
		return nil, bpcommon.WrapCodec(err, "decode "+name)
	}
	return val, nil
}
