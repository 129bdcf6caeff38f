package membtree

import "github.com/ssargent/bpluskv/pkg/bpcommon"

// Insert inserts or updates (key, value). If key was already present, the
// prior value is returned alongside true; otherwise the zero value and
// false are returned. Implements spec §4.4.
func (t *Tree[K, V]) Insert(key K, value V) (V, bool) {
	var zero V
	if t.root == nil {
		t.root = &leaf[K, V]{keys: []K{key}, values: []V{value}}
		t.length++
		return zero, false
	}

	lf := t.descend(key)
	i, hit := bpcommon.Find(lf.keys, key)
	if hit {
		old := lf.values[i]
		lf.values[i] = value
		return old, true
	}

	lf.keys = insertAt(lf.keys, i, key)
	lf.values = insertAt(lf.values, i, value)
	t.length++

	if len(lf.keys) > t.order {
		t.splitLeaf(lf)
	}
	return zero, false
}

// splitLeaf implements spec §4.4 step 5.
func (t *Tree[K, V]) splitLeaf(lf *leaf[K, V]) {
	mid := len(lf.keys) / 2

	right := &leaf[K, V]{
		keys:   append([]K(nil), lf.keys[mid:]...),
		values: append([]V(nil), lf.values[mid:]...),
		parent: lf.parent,
		next:   lf.next,
	}
	lf.keys = lf.keys[:mid:mid]
	lf.values = lf.values[:mid:mid]
	lf.next = right

	sep := right.keys[0]
	t.insertIntoParent(lf, sep, right)
}

// insertIntoParent implements spec §4.4 steps 6–7: bottom-up internal
// insert, splitting and growing the root as needed.
func (t *Tree[K, V]) insertIntoParent(left node[K, V], sep K, right node[K, V]) {
	parent := left.parentNode()
	if parent == nil {
		newRoot := &internal[K, V]{
			keys:     []K{sep},
			children: []node[K, V]{left, right},
		}
		left.setParentNode(newRoot)
		right.setParentNode(newRoot)
		t.root = newRoot
		return
	}

	i := bpcommon.SearchLess(parent.keys, sep)
	parent.keys = insertAt(parent.keys, i, sep)
	parent.children = insertAt(parent.children, i+1, right)
	right.setParentNode(parent)

	if len(parent.keys) > t.order {
		t.splitInternal(parent)
	}
}

func (t *Tree[K, V]) splitInternal(n *internal[K, V]) {
	s := len(n.keys) / 2
	sep := n.keys[s]

	right := &internal[K, V]{
		keys:     append([]K(nil), n.keys[s+1:]...),
		children: append([]node[K, V](nil), n.children[s+1:]...),
		parent:   n.parent,
	}
	for _, c := range right.children {
		c.setParentNode(right)
	}

	n.keys = n.keys[:s:s]
	n.children = n.children[:s+1 : s+1]

	t.insertIntoParent(n, sep, right)
}
