package codec

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Kind distinguishes a persisted leaf from a persisted internal node.
type Kind uint8

const (
	KindLeaf Kind = iota
	KindInternal
)

// NodeRecord is the on-disk shape of a single node: child, parent and
// next-leaf references are carried as bare identities only (spec §4.8),
// never as embedded node data, so a node file is self-contained.
type NodeRecord struct {
	Kind     Kind
	ID       uuid.UUID
	Parent   uuid.UUID // uuid.Nil when the node is the root
	Next     uuid.UUID // leaf only; uuid.Nil when there is no next leaf
	Keys     [][]byte
	Values   [][]byte   // leaf only, len(Values) == len(Keys)
	Children []uuid.UUID // internal only, len(Children) == len(Keys)+1
}

func u32(n int) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(n))
	return b
}

// EncodeNode serializes a NodeRecord using the frame format in codec.go.
func EncodeNode(r *NodeRecord) []byte {
	fields := make([][]byte, 0, 6+2*len(r.Keys))
	fields = append(fields, []byte{byte(r.Kind)}, r.ID[:], r.Parent[:])

	if r.Kind == KindLeaf {
		fields = append(fields, r.Next[:])
	} else {
		fields = append(fields, []byte{})
	}

	fields = append(fields, u32(len(r.Keys)))
	fields = append(fields, r.Keys...)

	if r.Kind == KindLeaf {
		fields = append(fields, u32(len(r.Values)))
		fields = append(fields, r.Values...)
	} else {
		fields = append(fields, u32(len(r.Children)))
		for _, c := range r.Children {
			fields = append(fields, append([]byte(nil), c[:]...))
		}
	}

	return EncodeFrame(fields...)
}

// DecodeNode parses the bytes written by EncodeNode.
func DecodeNode(data []byte) (*NodeRecord, error) {
	fields, err := DecodeFrame(data)
	if err != nil {
		return nil, err
	}
	if len(fields) < 5 {
		return nil, errors.WithStack(ErrTruncated)
	}

	r := &NodeRecord{Kind: Kind(fields[0][0])}
	copy(r.ID[:], fields[1])
	copy(r.Parent[:], fields[2])

	off := 3
	if r.Kind == KindLeaf {
		copy(r.Next[:], fields[off])
	}
	off++

	keyCount := int(binary.LittleEndian.Uint32(fields[off]))
	off++
	r.Keys = make([][]byte, keyCount)
	for i := 0; i < keyCount; i++ {
		r.Keys[i] = fields[off+i]
	}
	off += keyCount

	count := int(binary.LittleEndian.Uint32(fields[off]))
	off++
	if r.Kind == KindLeaf {
		r.Values = make([][]byte, count)
		for i := 0; i < count; i++ {
			r.Values[i] = fields[off+i]
		}
	} else {
		r.Children = make([]uuid.UUID, count)
		for i := 0; i < count; i++ {
			copy(r.Children[i][:], fields[off+i])
		}
	}

	return r, nil
}

// EncodeMeta frames a single metadata value (the root/order/len files).
func EncodeMeta(value []byte) []byte {
	return EncodeFrame(value)
}

// DecodeMeta unframes a metadata value written by EncodeMeta.
func DecodeMeta(data []byte) ([]byte, error) {
	fields, err := DecodeFrame(data)
	if err != nil {
		return nil, err
	}
	if len(fields) != 1 {
		return nil, errors.WithStack(ErrTruncated)
	}
	return fields[0], nil
}
