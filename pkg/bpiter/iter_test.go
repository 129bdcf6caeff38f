package bpiter

import (
	"testing"

	"github.com/ssargent/bpluskv/pkg/membtree"
)

func buildTree() *membtree.Tree[int, string] {
	tr := membtree.New[int, string]()
	tr.Insert(2, "b")
	tr.Insert(1, "a")
	tr.Insert(3, "c")
	return tr
}

func TestKeysAdapter(t *testing.T) {
	tr := buildTree()
	keys := NewKeys[int, string](tr.Iter())
	var got []int
	for {
		k, ok, err := keys.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, k)
	}
	want := []int{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("mismatch at %d: got %v want %v", i, got, want)
		}
	}
}

func TestValuesAdapter(t *testing.T) {
	tr := buildTree()
	values := NewValues[int, string](tr.Iter())
	var got []string
	for {
		v, ok, err := values.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, v)
	}
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("mismatch at %d: got %v want %v", i, got, want)
		}
	}
}

func TestAllRangeFunc(t *testing.T) {
	tr := buildTree()
	var keys []int
	for k, v := range All[int, string](tr.Iter()) {
		keys = append(keys, k)
		if v == "" {
			t.Fatalf("expected non-empty value for key %d", k)
		}
	}
	if len(keys) != 3 {
		t.Fatalf("expected 3 keys, got %v", keys)
	}
}

func TestAllEarlyExit(t *testing.T) {
	tr := buildTree()
	var keys []int
	for k := range All[int, string](tr.Iter()) {
		keys = append(keys, k)
		if len(keys) == 2 {
			break
		}
	}
	if len(keys) != 2 {
		t.Fatalf("expected early exit after 2 keys, got %v", keys)
	}
}
