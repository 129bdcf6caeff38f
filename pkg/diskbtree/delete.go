package diskbtree

import (
	"github.com/google/uuid"

	"github.com/ssargent/bpluskv/pkg/bpcommon"
)

// Remove deletes key if present, returning its value and true; otherwise
// the zero value and false. Implements spec §4.5.
func (t *Tree[K, V]) Remove(key K) (V, bool, error) {
	_, v, ok, err := t.RemoveEntry(key)
	return v, ok, err
}

// RemoveEntry deletes key if present, returning (key, value, true);
// otherwise (zero, zero, false).
func (t *Tree[K, V]) RemoveEntry(key K) (K, V, bool, error) {
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

	rk, rv := lf.keys[i], lf.values[i]
	lf.keys = removeAt(lf.keys, i)
	lf.values = removeAt(lf.values, i)
	lf.setDirty(true)
	t.bumpLen(-1)

	if lf.parent == uuid.Nil {
		if len(lf.keys) == 0 {
			if err := t.reclaim(lf.id); err != nil {
				return zk, zv, false, err
			}
			t.setRoot(uuid.Nil, false)
		}
		return rk, rv, true, nil
	}

	if len(lf.keys) >= minLeafKeys(t.order) {
		return rk, rv, true, nil
	}

	if err := t.rebalanceLeaf(lf); err != nil {
		return zk, zv, false, err
	}
	return rk, rv, true, nil
}

// rebalanceLeaf implements spec §4.5 step 7: borrow-left, borrow-right,
// merge-left, merge-right, tried strictly in that order.
func (t *Tree[K, V]) rebalanceLeaf(lf *leaf[K, V]) error {
	parent, err := t.accessInternal(lf.parent)
	if err != nil {
		return err
	}
	idx := childIndexOf(parent.children, lf.id)
	min := minLeafKeys(t.order)

	if idx > 0 {
		left, err := t.accessLeaf(parent.children[idx-1])
		if err != nil {
			return err
		}
		if len(left.keys) > min {
			k := left.keys[len(left.keys)-1]
			v := left.values[len(left.values)-1]
			left.keys = left.keys[:len(left.keys)-1]
			left.values = left.values[:len(left.values)-1]
			lf.keys = insertAt(lf.keys, 0, k)
			lf.values = insertAt(lf.values, 0, v)
			parent.keys[idx-1] = lf.keys[0]
			left.setDirty(true)
			lf.setDirty(true)
			parent.setDirty(true)
			if t.rec != nil {
				t.rec.RecordBorrow("leaf")
			}
			return nil
		}
	}

	if idx < len(parent.children)-1 {
		right, err := t.accessLeaf(parent.children[idx+1])
		if err != nil {
			return err
		}
		if len(right.keys) > min {
			k := right.keys[0]
			v := right.values[0]
			right.keys = removeAt(right.keys, 0)
			right.values = removeAt(right.values, 0)
			lf.keys = append(lf.keys, k)
			lf.values = append(lf.values, v)
			parent.keys[idx] = right.keys[0]
			right.setDirty(true)
			lf.setDirty(true)
			parent.setDirty(true)
			if t.rec != nil {
				t.rec.RecordBorrow("leaf")
			}
			return nil
		}
	}

	if idx > 0 {
		left, err := t.accessLeaf(parent.children[idx-1])
		if err != nil {
			return err
		}
		left.keys = append(left.keys, lf.keys...)
		left.values = append(left.values, lf.values...)
		left.next = lf.next
		left.setDirty(true)
		if t.rec != nil {
			t.rec.RecordMerge("leaf")
		}
		if err := t.reclaim(lf.id); err != nil {
			return err
		}
		return t.removeFromInternal(parent, idx-1, idx)
	}

	right, err := t.accessLeaf(parent.children[idx+1])
	if err != nil {
		return err
	}
	lf.keys = append(lf.keys, right.keys...)
	lf.values = append(lf.values, right.values...)
	lf.next = right.next
	lf.setDirty(true)
	if t.rec != nil {
		t.rec.RecordMerge("leaf")
	}
	if err := t.reclaim(right.id); err != nil {
		return err
	}
	return t.removeFromInternal(parent, idx, idx+1)
}

// removeFromInternal removes the separator at sepIdx and the child at
// childIdx from parent, then recursively fixes up parent per spec §4.5
// step 8. sepIdx is always the separator between the surviving and removed
// child — the resolved form of the merge-right open question in spec §9
// (remove parent.keys[cursor_index], not cursor_index+1).
func (t *Tree[K, V]) removeFromInternal(parent *internal[K, V], sepIdx, childIdx int) error {
	parent.keys = removeAt(parent.keys, sepIdx)
	parent.children = removeAt(parent.children, childIdx)
	parent.setDirty(true)
	return t.fixupInternal(parent)
}

func (t *Tree[K, V]) fixupInternal(n *internal[K, V]) error {
	if n.parent == uuid.Nil {
		if len(n.keys) == 0 {
			childID := n.children[0]
			child, err := t.access(childID)
			if err != nil {
				return err
			}
			child.setParentID(uuid.Nil)
			child.setDirty(true)
			if err := t.reclaim(n.id); err != nil {
				return err
			}
			t.setRoot(childID, true)
		}
		return nil
	}

	if len(n.keys) >= minInternalKeys(t.order) {
		return nil
	}
	return t.rebalanceInternal(n)
}

// rebalanceInternal implements spec §4.5 step 8's rebalance, using
// rotate-through-parent borrowing: the parent separator moves into the
// underfull node and the donor's extreme key replaces it in the parent.
// The borrower — never the donor — reparents the moved child, per the
// resolved open question in spec §9.
func (t *Tree[K, V]) rebalanceInternal(n *internal[K, V]) error {
	parent, err := t.accessInternal(n.parent)
	if err != nil {
		return err
	}
	idx := childIndexOf(parent.children, n.id)
	min := minInternalKeys(t.order)

	if idx > 0 {
		left, err := t.accessInternal(parent.children[idx-1])
		if err != nil {
			return err
		}
		if len(left.keys) > min {
			borrowedKey := left.keys[len(left.keys)-1]
			borrowedChildID := left.children[len(left.children)-1]
			left.keys = left.keys[:len(left.keys)-1]
			left.children = left.children[:len(left.children)-1]

			n.keys = insertAt(n.keys, 0, parent.keys[idx-1])
			n.children = insertAt(n.children, 0, borrowedChildID)
			borrowedChild, err := t.access(borrowedChildID)
			if err != nil {
				return err
			}
			borrowedChild.setParentID(n.id)
			borrowedChild.setDirty(true)
			parent.keys[idx-1] = borrowedKey
			left.setDirty(true)
			n.setDirty(true)
			parent.setDirty(true)
			if t.rec != nil {
				t.rec.RecordBorrow("internal")
			}
			return nil
		}
	}

	if idx < len(parent.children)-1 {
		right, err := t.accessInternal(parent.children[idx+1])
		if err != nil {
			return err
		}
		if len(right.keys) > min {
			borrowedKey := right.keys[0]
			borrowedChildID := right.children[0]
			right.keys = removeAt(right.keys, 0)
			right.children = removeAt(right.children, 0)

			n.keys = append(n.keys, parent.keys[idx])
			n.children = append(n.children, borrowedChildID)
			borrowedChild, err := t.access(borrowedChildID)
			if err != nil {
				return err
			}
			borrowedChild.setParentID(n.id)
			borrowedChild.setDirty(true)
			parent.keys[idx] = borrowedKey
			right.setDirty(true)
			n.setDirty(true)
			parent.setDirty(true)
			if t.rec != nil {
				t.rec.RecordBorrow("internal")
			}
			return nil
		}
	}

	if idx > 0 {
		left, err := t.accessInternal(parent.children[idx-1])
		if err != nil {
			return err
		}
		left.keys = append(left.keys, parent.keys[idx-1])
		left.keys = append(left.keys, n.keys...)
		left.children = append(left.children, n.children...)
		for _, cid := range n.children {
			child, err := t.access(cid)
			if err != nil {
				return err
			}
			child.setParentID(left.id)
			child.setDirty(true)
		}
		left.setDirty(true)
		if t.rec != nil {
			t.rec.RecordMerge("internal")
		}
		if err := t.reclaim(n.id); err != nil {
			return err
		}
		return t.removeFromInternal(parent, idx-1, idx)
	}

	right, err := t.accessInternal(parent.children[idx+1])
	if err != nil {
		return err
	}
	n.keys = append(n.keys, parent.keys[idx])
	n.keys = append(n.keys, right.keys...)
	n.children = append(n.children, right.children...)
	for _, cid := range right.children {
		child, err := t.access(cid)
		if err != nil {
			return err
		}
		child.setParentID(n.id)
		child.setDirty(true)
	}
	n.setDirty(true)
	if t.rec != nil {
		t.rec.RecordMerge("internal")
	}
	if err := t.reclaim(right.id); err != nil {
		return err
	}
	return t.removeFromInternal(parent, idx, idx+1)
}
