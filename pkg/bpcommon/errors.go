// Package bpcommon holds the pieces shared by the in-memory (membtree) and
// disk-backed (diskbtree) B+Tree implementations: the key ordering
// constraint and the error taxonomy surfaced at operation boundaries.
package bpcommon

import (
	"github.com/cockroachdb/errors"
)

// Sentinel errors for the disk backend's fallible operations. Callers match
// against these with errors.Is; cockroachdb/errors preserves the sentinel
// identity through Wrap/Wrapf while still attaching a stack trace, which is
// why every fallible path below wraps rather than constructing a fresh
// errors.New each time.
var (
	// ErrIO marks a failure in the underlying filesystem operation.
	ErrIO = errors.New("bpcommon: io error")

	// ErrCodec marks a failure encoding or decoding a node or metadata file.
	ErrCodec = errors.New("bpcommon: codec error")

	// ErrBadTree marks a tree directory missing one of its metadata files.
	ErrBadTree = errors.New("bpcommon: bad tree metadata")

	// ErrUnknownKey marks a persist-by-key call for a key the tree does not
	// contain.
	ErrUnknownKey = errors.New("bpcommon: unknown key")
)

// WrapIO annotates err as an IO failure at op, preserving errors.Is(ErrIO).
func WrapIO(err error, op string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(ErrIO, "%s: %v", op, err)
}

// WrapCodec annotates err as a Codec failure at op.
func WrapCodec(err error, op string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(ErrCodec, "%s: %v", op, err)
}

// BadTree reports a missing or corrupt metadata file.
func BadTree(what string) error {
	return errors.Wrapf(ErrBadTree, "%s", what)
}

// UnknownKey reports that persist_key was called for an absent key.
func UnknownKey() error {
	return errors.WithStack(ErrUnknownKey)
}
