package membtree

import "github.com/ssargent/bpluskv/pkg/bpcommon"

// Remove deletes key if present, returning its value and true; otherwise
// the zero value and false. Implements spec §4.5.
func (t *Tree[K, V]) Remove(key K) (V, bool) {
	_, v, ok := t.RemoveEntry(key)
	return v, ok
}

// RemoveEntry deletes key if present, returning (key, value, true);
// otherwise (zero, zero, false).
func (t *Tree[K, V]) RemoveEntry(key K) (K, V, bool) {
	var zk K
	var zv V
	if t.root == nil {
		return zk, zv, false
	}

	lf := t.descend(key)
	i, hit := bpcommon.Find(lf.keys, key)
	if !hit {
		return zk, zv, false
	}

	rk, rv := lf.keys[i], lf.values[i]
	lf.keys = removeAt(lf.keys, i)
	lf.values = removeAt(lf.values, i)
	t.length--

	if lf.parent == nil {
		if len(lf.keys) == 0 {
			t.root = nil
		}
		return rk, rv, true
	}

	if len(lf.keys) >= minLeafKeys(t.order) {
		return rk, rv, true
	}

	t.rebalanceLeaf(lf)
	return rk, rv, true
}

// rebalanceLeaf implements spec §4.5 step 7: borrow-left, borrow-right,
// merge-left, merge-right, tried strictly in that order.
func (t *Tree[K, V]) rebalanceLeaf(lf *leaf[K, V]) {
	parent := lf.parent
	idx := childIndex(parent, lf)
	min := minLeafKeys(t.order)

	if idx > 0 {
		left := parent.children[idx-1].(*leaf[K, V])
		if len(left.keys) > min {
			k := left.keys[len(left.keys)-1]
			v := left.values[len(left.values)-1]
			left.keys = left.keys[:len(left.keys)-1]
			left.values = left.values[:len(left.values)-1]
			lf.keys = insertAt(lf.keys, 0, k)
			lf.values = insertAt(lf.values, 0, v)
			parent.keys[idx-1] = lf.keys[0]
			return
		}
	}

	if idx < len(parent.children)-1 {
		right := parent.children[idx+1].(*leaf[K, V])
		if len(right.keys) > min {
			k := right.keys[0]
			v := right.values[0]
			right.keys = removeAt(right.keys, 0)
			right.values = removeAt(right.values, 0)
			lf.keys = append(lf.keys, k)
			lf.values = append(lf.values, v)
			parent.keys[idx] = right.keys[0]
			return
		}
	}

	if idx > 0 {
		left := parent.children[idx-1].(*leaf[K, V])
		left.keys = append(left.keys, lf.keys...)
		left.values = append(left.values, lf.values...)
		left.next = lf.next
		t.removeFromInternal(parent, idx-1, idx)
		return
	}

	right := parent.children[idx+1].(*leaf[K, V])
	lf.keys = append(lf.keys, right.keys...)
	lf.values = append(lf.values, right.values...)
	lf.next = right.next
	t.removeFromInternal(parent, idx, idx+1)
}

// removeFromInternal removes the separator at sepIdx and the child at
// childIdx from parent, then recursively fixes up parent per spec §4.5
// step 8. sepIdx is always the separator between the surviving and
// removed child — the resolved form of the merge-right open question in
// spec §9 (remove parent.keys[cursor_index], not cursor_index+1).
func (t *Tree[K, V]) removeFromInternal(parent *internal[K, V], sepIdx, childIdx int) {
	parent.keys = removeAt(parent.keys, sepIdx)
	parent.children = removeAt(parent.children, childIdx)
	t.fixupInternal(parent)
}

func (t *Tree[K, V]) fixupInternal(n *internal[K, V]) {
	if n.parent == nil {
		if len(n.keys) == 0 {
			child := n.children[0]
			child.setParentNode(nil)
			t.root = child
		}
		return
	}

	if len(n.keys) >= minInternalKeys(t.order) {
		return
	}
	t.rebalanceInternal(n)
}

// rebalanceInternal implements spec §4.5 step 8's rebalance, using
// rotate-through-parent borrowing: the parent separator moves into the
// underfull node and the donor's extreme key replaces it in the parent.
// The borrower — never the donor — reparents the moved child, per the
// resolved open question in spec §9.
func (t *Tree[K, V]) rebalanceInternal(n *internal[K, V]) {
	parent := n.parent
	idx := childIndex(parent, n)
	min := minInternalKeys(t.order)

	if idx > 0 {
		left := parent.children[idx-1].(*internal[K, V])
		if len(left.keys) > min {
			borrowedKey := left.keys[len(left.keys)-1]
			borrowedChild := left.children[len(left.children)-1]
			left.keys = left.keys[:len(left.keys)-1]
			left.children = left.children[:len(left.children)-1]

			n.keys = insertAt(n.keys, 0, parent.keys[idx-1])
			n.children = insertAt(n.children, 0, borrowedChild)
			borrowedChild.setParentNode(n)
			parent.keys[idx-1] = borrowedKey
			return
		}
	}

	if idx < len(parent.children)-1 {
		right := parent.children[idx+1].(*internal[K, V])
		if len(right.keys) > min {
			borrowedKey := right.keys[0]
			borrowedChild := right.children[0]
			right.keys = removeAt(right.keys, 0)
			right.children = removeAt(right.children, 0)

			n.keys = append(n.keys, parent.keys[idx])
			n.children = append(n.children, borrowedChild)
			borrowedChild.setParentNode(n)
			parent.keys[idx] = borrowedKey
			return
		}
	}

	if idx > 0 {
		left := parent.children[idx-1].(*internal[K, V])
		left.keys = append(left.keys, parent.keys[idx-1])
		left.keys = append(left.keys, n.keys...)
		left.children = append(left.children, n.children...)
		for _, c := range n.children {
			c.setParentNode(left)
		}
		t.removeFromInternal(parent, idx-1, idx)
		return
	}

	right := parent.children[idx+1].(*internal[K, V])
	n.keys = append(n.keys, parent.keys[idx])
	n.keys = append(n.keys, right.keys...)
	n.children = append(n.children, right.children...)
	for _, c := range right.children {
		c.setParentNode(n)
	}
	t.removeFromInternal(parent, idx, idx+1)
}
