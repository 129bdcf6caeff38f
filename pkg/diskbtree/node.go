// Package diskbtree implements the disk-backed B+Tree backend: nodes carry
// a stable UUID identity, are faulted in from {directory}/{identity} on
// first access, and are tracked dirty until the next persist (spec §4.1,
// §4.8).
package diskbtree

import (
	"github.com/google/uuid"

	"github.com/ssargent/bpluskv/pkg/bpcommon"
)

// node is the shape shared by *leaf[K,V] and *internal[K,V]. Unlike
// membtree, children/parent/next are carried as identities, not pointers —
// resolving an identity to a node goes through the tree's cache (cache.go).
type node[K bpcommon.Ordered, V any] interface {
	nodeID() uuid.UUID
	parentID() uuid.UUID
	setParentID(uuid.UUID)
	isDirty() bool
	setDirty(bool)
}

type leaf[K bpcommon.Ordered, V any] struct {
	id     uuid.UUID
	keys   []K
	values []V
	parent uuid.UUID
	next   uuid.UUID
	dirty  bool
}

func (l *leaf[K, V]) nodeID() uuid.UUID          { return l.id }
func (l *leaf[K, V]) parentID() uuid.UUID        { return l.parent }
func (l *leaf[K, V]) setParentID(id uuid.UUID)   { l.parent = id }
func (l *leaf[K, V]) isDirty() bool              { return l.dirty }
func (l *leaf[K, V]) setDirty(d bool)            { l.dirty = d }

type internal[K bpcommon.Ordered, V any] struct {
	id       uuid.UUID
	keys     []K
	children []uuid.UUID
	parent   uuid.UUID
	dirty    bool
}

func (n *internal[K, V]) nodeID() uuid.UUID        { return n.id }
func (n *internal[K, V]) parentID() uuid.UUID      { return n.parent }
func (n *internal[K, V]) setParentID(id uuid.UUID) { n.parent = id }
func (n *internal[K, V]) isDirty() bool            { return n.dirty }
func (n *internal[K, V]) setDirty(d bool)          { n.dirty = d }

func childIndexOf(children []uuid.UUID, id uuid.UUID) int {
	for i, c := range children {
		if c == id {
			return i
		}
	}
	return -1
}

func insertAt[T any](s []T, i int, v T) []T {
	var zero T
	s = append(s, zero)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func removeAt[T any](s []T, i int) []T {
	var zero T
	copy(s[i:], s[i+1:])
	s[len(s)-1] = zero
	return s[:len(s)-1]
}
