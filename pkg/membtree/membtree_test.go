package membtree

import (
	"testing"
)

func collect(t *testing.T, tr *Tree[int, int]) []int {
	var got []int
	it := tr.Iter()
	for {
		k, _, ok, err := it.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, k)
	}
	return got
}

func assertSlice(t *testing.T, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("mismatch at %d: got %v want %v", i, got, want)
		}
	}
}

// checkInvariants walks the tree and asserts size bounds (P1), in-node key
// order (P2), parent links (P4), the leaf chain (P5) and the entry count
// (P6) from spec §8. Separator consistency (P3) is not checked.
func checkInvariants(t *testing.T, tr *Tree[int, int]) {
	t.Helper()
	if tr.root == nil {
		if tr.length != 0 {
			t.Fatalf("empty tree with nonzero length %d", tr.length)
		}
		return
	}

	count := 0
	var walk func(n node[int, int], isRoot bool)
	walk = func(n node[int, int], isRoot bool) {
		switch x := n.(type) {
		case *leaf[int, int]:
			if !isRoot {
				if len(x.keys) < minLeafKeys(tr.order) || len(x.keys) > tr.order {
					t.Fatalf("leaf size %d out of bounds for order %d", len(x.keys), tr.order)
				}
			}
			for i := 1; i < len(x.keys); i++ {
				if x.keys[i-1] >= x.keys[i] {
					t.Fatalf("leaf keys not strictly ascending: %v", x.keys)
				}
			}
			count += len(x.keys)
		case *internal[int, int]:
			if !isRoot {
				if len(x.keys) < minInternalKeys(tr.order) || len(x.keys) > tr.order {
					t.Fatalf("internal size %d out of bounds for order %d", len(x.keys), tr.order)
				}
			}
			if len(x.children) != len(x.keys)+1 {
				t.Fatalf("internal children/keys mismatch: %d children, %d keys", len(x.children), len(x.keys))
			}
			for i := 1; i < len(x.keys); i++ {
				if x.keys[i-1] >= x.keys[i] {
					t.Fatalf("internal keys not strictly ascending: %v", x.keys)
				}
			}
			for _, c := range x.children {
				if c.parentNode() != x {
					t.Fatalf("child parent mismatch")
				}
				walk(c, false)
			}
		}
	}
	walk(tr.root, true)

	if count != tr.length {
		t.Fatalf("count mismatch: walked %d, tree.length %d", count, tr.length)
	}

	chain := collect(t, tr)
	for i := 1; i < len(chain); i++ {
		if chain[i-1] >= chain[i] {
			t.Fatalf("leaf chain not strictly ascending: %v", chain)
		}
	}
	if len(chain) != tr.length {
		t.Fatalf("leaf chain length %d != tree length %d", len(chain), tr.length)
	}
}

func TestEmptyLookup(t *testing.T) {
	tr := New[int, int]()
	if tr.Len() != 0 {
		t.Fatalf("expected empty tree")
	}
	if _, ok := tr.Get(7); ok {
		t.Fatalf("expected absent")
	}
	if _, ok := tr.Remove(7); ok {
		t.Fatalf("expected absent on remove")
	}
}

func TestInsertionForcesSplits(t *testing.T) {
	tr := WithOrder[int, int](3)
	keys := []int{25, 4, 1, 16, 9, 20, 13, 15, 10, 11, 12}
	for _, k := range keys {
		tr.Insert(k, k)
		checkInvariants(t, tr)
	}
	want := []int{1, 4, 9, 10, 11, 12, 13, 15, 16, 20, 25}
	assertSlice(t, collect(t, tr), want)
	if tr.Len() != 11 {
		t.Fatalf("expected len 11, got %d", tr.Len())
	}
}

func buildScenarioTree(t *testing.T) *Tree[int, int] {
	tr := WithOrder[int, int](3)
	for _, k := range []int{25, 4, 1, 16, 9, 20, 13, 15, 10, 11, 12} {
		tr.Insert(k, k)
	}
	return tr
}

func TestBorrowFromSiblingOnDelete(t *testing.T) {
	tr := buildScenarioTree(t)
	for _, k := range []int{13, 15, 1} {
		if _, ok := tr.Remove(k); !ok {
			t.Fatalf("expected to remove %d", k)
		}
		checkInvariants(t, tr)
		if _, ok := tr.Get(k); ok {
			t.Fatalf("key %d should be absent after removal", k)
		}
	}
	want := []int{4, 9, 10, 11, 12, 16, 20, 25}
	assertSlice(t, collect(t, tr), want)
}

func TestCascadingMergesAndRootShrink(t *testing.T) {
	tr := buildScenarioTree(t)
	for _, k := range []int{13, 15, 1} {
		tr.Remove(k)
	}
	for _, k := range []int{25, 4, 16, 9, 20, 10, 11, 12} {
		if _, ok := tr.Remove(k); !ok {
			t.Fatalf("expected to remove %d", k)
		}
		checkInvariants(t, tr)
	}
	if tr.root != nil {
		t.Fatalf("expected empty root after final removal")
	}
	if tr.Len() != 0 {
		t.Fatalf("expected len 0, got %d", tr.Len())
	}
}

func TestIdempotence(t *testing.T) {
	tr := New[int, int]()
	tr.Insert(1, 100)
	if old, existed := tr.Insert(1, 200); !existed || old != 100 {
		t.Fatalf("expected prior value 100, got %d existed=%v", old, existed)
	}
	if tr.Len() != 1 {
		t.Fatalf("expected len 1 after duplicate insert, got %d", tr.Len())
	}
	if _, ok := tr.Remove(1); !ok {
		t.Fatalf("expected remove to succeed")
	}
	if _, ok := tr.Remove(1); ok {
		t.Fatalf("expected second remove to report absent")
	}
}

func TestMutationGuard(t *testing.T) {
	tr := New[int, int]()
	tr.Insert(4, 40)

	g, ok := tr.GetMut(4)
	if !ok {
		t.Fatalf("expected to find key 4")
	}
	*g.Value()++
	g.Release()

	v, _ := tr.Get(4)
	if v != 41 {
		t.Fatalf("expected 41, got %d", v)
	}

	// A second guard must be acquirable once the first is released.
	g2, ok := tr.GetMut(4)
	if !ok {
		t.Fatalf("expected to find key 4 again")
	}
	g2.Release()
}

func TestGuardExclusivityPanics(t *testing.T) {
	tr := New[int, int]()
	tr.Insert(1, 1)
	g, _ := tr.GetMut(1)
	defer g.Release()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on reentrant guard acquisition")
		}
	}()
	tr.GetMut(1)
}

func TestMixedInsertRemoveSequence(t *testing.T) {
	tr := WithOrder[int, int](4)
	present := map[int]bool{}

	seq := []int{50, 20, 80, 10, 30, 70, 90, 5, 15, 25, 35, 60, 75, 85, 95, 1, 40, 45, 55, 65}
	for _, k := range seq {
		tr.Insert(k, k*10)
		present[k] = true
		checkInvariants(t, tr)
	}
	removeOrder := []int{20, 80, 10, 90, 1, 95, 45, 50, 30, 70}
	for _, k := range removeOrder {
		v, ok := tr.Remove(k)
		if !ok {
			t.Fatalf("expected %d present", k)
		}
		if v != k*10 {
			t.Fatalf("wrong value for %d: %d", k, v)
		}
		delete(present, k)
		checkInvariants(t, tr)
	}
	for k := range present {
		if _, ok := tr.Get(k); !ok {
			t.Fatalf("expected %d still present", k)
		}
	}
}
