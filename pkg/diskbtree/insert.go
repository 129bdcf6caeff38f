package diskbtree

import (
	"github.com/google/uuid"

	"github.com/ssargent/bpluskv/pkg/bpcommon"
)

// Insert inserts or updates (key, value). If key was already present, the
// prior value is returned alongside true; otherwise the zero value and
// false. Implements spec §4.4.
func (t *Tree[K, V]) Insert(key K, value V) (V, bool, error) {
	var zero V
	if !t.hasRoot {
		lf := &leaf[K, V]{id: uuid.New(), keys: []K{key}, values: []V{value}, dirty: true}
		t.putResident(lf)
		t.setRoot(lf.id, true)
		t.bumpLen(1)
		return zero, false, nil
	}

	lf, err := t.descend(key)
	if err != nil {
		return zero, false, err
	}
	i, hit := bpcommon.Find(lf.keys, key)
	if hit {
		old := lf.values[i]
		lf.values[i] = value
		lf.setDirty(true)
		return old, true, nil
	}

	lf.keys = insertAt(lf.keys, i, key)
	lf.values = insertAt(lf.values, i, value)
	lf.setDirty(true)
	t.bumpLen(1)

	if len(lf.keys) > t.order {
		if err := t.splitLeaf(lf); err != nil {
			return zero, false, err
		}
	}
	return zero, false, nil
}

// splitLeaf implements spec §4.4 step 5.
func (t *Tree[K, V]) splitLeaf(lf *leaf[K, V]) error {
	mid := len(lf.keys) / 2

	right := &leaf[K, V]{
		id:     uuid.New(),
		keys:   append([]K(nil), lf.keys[mid:]...),
		values: append([]V(nil), lf.values[mid:]...),
		parent: lf.parent,
		next:   lf.next,
		dirty:  true,
	}
	lf.keys = lf.keys[:mid:mid]
	lf.values = lf.values[:mid:mid]
	lf.next = right.id
	lf.setDirty(true)
	t.putResident(right)

	if t.rec != nil {
		t.rec.RecordSplit("leaf")
	}

	sep := right.keys[0]
	return t.insertIntoParent(lf, sep, right)
}

// insertIntoParent implements spec §4.4 steps 6-7: bottom-up internal
// insert, splitting and growing the root as needed.
func (t *Tree[K, V]) insertIntoParent(left node[K, V], sep K, right node[K, V]) error {
	parentID := left.parentID()
	if parentID == uuid.Nil {
		newRoot := &internal[K, V]{
			id:       uuid.New(),
			keys:     []K{sep},
			children: []uuid.UUID{left.nodeID(), right.nodeID()},
			dirty:    true,
		}
		left.setParentID(newRoot.id)
		left.setDirty(true)
		right.setParentID(newRoot.id)
		right.setDirty(true)
		t.putResident(newRoot)
		t.setRoot(newRoot.id, true)
		return nil
	}

	parent, err := t.accessInternal(parentID)
	if err != nil {
		return err
	}

	i := bpcommon.SearchLess(parent.keys, sep)
	parent.keys = insertAt(parent.keys, i, sep)
	parent.children = insertAt(parent.children, i+1, right.nodeID())
	right.setParentID(parent.id)
	right.setDirty(true)
	parent.setDirty(true)

	if len(parent.keys) > t.order {
		return t.splitInternal(parent)
	}
	return nil
}

func (t *Tree[K, V]) splitInternal(n *internal[K, V]) error {
	s := len(n.keys) / 2
	sep := n.keys[s]

	right := &internal[K, V]{
		id:       uuid.New(),
		keys:     append([]K(nil), n.keys[s+1:]...),
		children: append([]uuid.UUID(nil), n.children[s+1:]...),
		parent:   n.parent,
		dirty:    true,
	}
	for _, cid := range right.children {
		child, err := t.access(cid)
		if err != nil {
			return err
		}
		child.setParentID(right.id)
		child.setDirty(true)
	}
	t.putResident(right)

	n.keys = n.keys[:s:s]
	n.children = n.children[:s+1 : s+1]
	n.setDirty(true)

	if t.rec != nil {
		t.rec.RecordSplit("internal")
	}

	return t.insertIntoParent(n, sep, right)
}
