// Package value implements the in-memory carrier for a stored payload and
// its tombstone flag, along with the byte encoding of the value segment of
// a record frame (see package record for the full frame).
package value

import (
	"encoding/binary"
	"unicode/utf8"

	"lsmkv/kvserr"
)

// tombstoneLive and tombstoneDeleted are the only valid values for the
// trailing tombstone byte of an encoded value segment.
const (
	tombstoneLive    byte = 0x00
	tombstoneDeleted byte = 0x01
)

// Value is an immutable (payload, deleted) pair. A deleted value is a
// tombstone; the engine writes tombstones with an empty payload, but New
// and FromBytes keep whatever payload they are given.
type Value struct {
	payload string
	deleted bool
}

// New constructs a Value. Callers that want a tombstone should pass an
// empty payload, matching the convention the engine's Delete uses.
func New(payload string, deleted bool) Value {
	return Value{payload: payload, deleted: deleted}
}

// Payload returns the stored string. Empty for the engine's tombstones.
func (v Value) Payload() string { return v.payload }

// IsDeleted reports whether v is a tombstone.
func (v Value) IsDeleted() bool { return v.deleted }

// ByteLen is the encoded length of the value segment: 8 bytes for the
// length prefix, the payload itself, and 1 byte for the tombstone flag.
func (v Value) ByteLen() int {
	return 8 + len(v.payload) + 1
}

// ToBytes produces the value-segment portion of a record: an 8-byte
// big-endian value_len (payload length + 1, per the record frame's note on
// value_len), the payload bytes, and the trailing tombstone byte.
func (v Value) ToBytes() []byte {
	buf := make([]byte, v.ByteLen())
	binary.BigEndian.PutUint64(buf[:8], uint64(len(v.payload)+1))
	copy(buf[8:8+len(v.payload)], v.payload)
	if v.deleted {
		buf[len(buf)-1] = tombstoneDeleted
	} else {
		buf[len(buf)-1] = tombstoneLive
	}
	return buf
}

// FromBytes is the inverse of ToBytes. The caller supplies exactly the
// bytes from value_len through the tombstone byte - no more, no less.
func FromBytes(b []byte) (Value, error) {
	if len(b) < 8 {
		return Value{}, kvserr.Conversion("value segment too short to contain a length prefix: got %d bytes", len(b))
	}
	valueLen := binary.BigEndian.Uint64(b[:8])
	if valueLen == 0 {
		return Value{}, kvserr.Conversion("value_len must be payload length + 1, got 0")
	}
	payloadLen := int(valueLen - 1)
	want := 8 + payloadLen + 1
	if len(b) != want {
		return Value{}, kvserr.Conversion("value segment length mismatch: header declares %d bytes, got %d", want, len(b))
	}

	payloadBytes := b[8 : 8+payloadLen]
	if !utf8.Valid(payloadBytes) {
		return Value{}, kvserr.Conversion("value payload is not valid UTF-8")
	}

	switch tomb := b[len(b)-1]; tomb {
	case tombstoneLive:
		return Value{payload: string(payloadBytes), deleted: false}, nil
	case tombstoneDeleted:
		return Value{payload: string(payloadBytes), deleted: true}, nil
	default:
		return Value{}, kvserr.Conversion("invalid tombstone byte 0x%02x, expected 0x00 or 0x01", tomb)
	}
}
