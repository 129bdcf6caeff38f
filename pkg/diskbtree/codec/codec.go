// Package codec defines the wire format used to persist disk-backed tree
// nodes and tree metadata: a length-prefixed, CRC32-trailed binary frame,
// generalized from the teacher's fixed-field record envelope to carry a
// variable number of byte fields.
package codec

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/cockroachdb/errors"
)

// ErrTruncated is returned when a frame is shorter than its declared length.
var ErrTruncated = errors.New("codec: truncated frame")

// ErrChecksum is returned when a frame's trailing CRC32 does not match its
// contents.
var ErrChecksum = errors.New("codec: checksum mismatch")

// EncodeFrame serializes fields into a single self-describing byte slice:
// a field count, each field as a length-prefixed blob, and a trailing
// CRC32 over everything that precedes it.
func EncodeFrame(fields ...[]byte) []byte {
	size := 4 // field count
	for _, f := range fields {
		size += 4 + len(f)
	}
	buf := make([]byte, size, size+4)

	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(fields)))
	off := 4
	for _, f := range fields {
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(len(f)))
		off += 4
		copy(buf[off:off+len(f)], f)
		off += len(f)
	}

	sum := crc32.ChecksumIEEE(buf)
	trailer := make([]byte, 4)
	binary.LittleEndian.PutUint32(trailer, sum)
	return append(buf, trailer...)
}

// DecodeFrame parses a frame produced by EncodeFrame and validates its
// checksum before returning the individual fields.
func DecodeFrame(data []byte) ([][]byte, error) {
	if len(data) < 8 {
		return nil, errors.WithStack(ErrTruncated)
	}
	body := data[:len(data)-4]
	wantSum := binary.LittleEndian.Uint32(data[len(data)-4:])
	if crc32.ChecksumIEEE(body) != wantSum {
		return nil, errors.WithStack(ErrChecksum)
	}

	count := binary.LittleEndian.Uint32(body[0:4])
	fields := make([][]byte, 0, count)
	off := 4
	for i := uint32(0); i < count; i++ {
		if off+4 > len(body) {
			return nil, errors.WithStack(ErrTruncated)
		}
		n := int(binary.LittleEndian.Uint32(body[off : off+4]))
		off += 4
		if off+n > len(body) {
			return nil, errors.WithStack(ErrTruncated)
		}
		fields = append(fields, body[off:off+n])
		off += n
	}
	return fields, nil
}

// Funcs bundles the application-supplied (de)serializers for a tree's key
// and value types. The node/metadata framing above is type-agnostic; Funcs
// is what lets diskbtree turn a K or V into the byte fields it frames.
type Funcs[K any, V any] struct {
	EncodeKey   func(K) ([]byte, error)
	DecodeKey   func([]byte) (K, error)
	EncodeValue func(V) ([]byte, error)
	DecodeValue func([]byte) (V, error)
}
