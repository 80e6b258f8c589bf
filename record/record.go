// Package record implements the binary frame shared by the write-ahead log
// and SSTables: a length-prefixed key followed by a value segment (see
// package value). Big-endian throughout.
//
//	key_len   : uint64 (8 bytes)
//	key       : key_len bytes (UTF-8)
//	value_len : uint64 (8 bytes)  -- payload length + 1
//	value     : (value_len - 1) bytes (UTF-8; empty for tombstones)
//	tombstone : uint8 (0x00 live, 0x01 deleted)
package record

import (
	"encoding/binary"
	"errors"
	"io"
	"unicode/utf8"

	"lsmkv/kvserr"
	"lsmkv/value"
)

// Encode produces the full on-disk frame for one (key, value) pair.
func Encode(key string, v value.Value) []byte {
	keyBytes := []byte(key)
	valBytes := v.ToBytes()

	buf := make([]byte, 8+len(keyBytes)+len(valBytes))
	binary.BigEndian.PutUint64(buf[:8], uint64(len(keyBytes)))
	n := 8
	n += copy(buf[n:], keyBytes)
	copy(buf[n:], valBytes)
	return buf
}

// Len returns the encoded size of the frame for (key, v) without building
// it, useful for callers that need to track byte offsets before writing.
func Len(key string, v value.Value) int {
	return 8 + len(key) + v.ByteLen()
}

// DecodeFrom reads exactly one frame from r. It returns io.EOF, unmodified,
// only when r is exhausted before any byte of a new frame is read - that is
// the clean end-of-stream signal callers loop on. Any EOF reached partway
// through a frame is a torn write and is reported as a conversion error,
// per spec: this package does not attempt torn-write recovery.
func DecodeFrom(r io.Reader) (key string, v value.Value, n int, err error) {
	var lenBuf [8]byte

	if _, err = io.ReadFull(r, lenBuf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return "", value.Value{}, 0, io.EOF
		}
		return "", value.Value{}, 0, kvserr.Conversion("unexpected EOF reading key_len: %v", err)
	}
	keyLen := binary.BigEndian.Uint64(lenBuf[:])
	n = 8

	keyBytes := make([]byte, keyLen)
	if _, err = io.ReadFull(r, keyBytes); err != nil {
		return "", value.Value{}, 0, kvserr.Conversion("unexpected EOF reading key (want %d bytes): %v", keyLen, err)
	}
	if !utf8.Valid(keyBytes) {
		return "", value.Value{}, 0, kvserr.Conversion("key is not valid UTF-8")
	}
	n += len(keyBytes)

	if _, err = io.ReadFull(r, lenBuf[:]); err != nil {
		return "", value.Value{}, 0, kvserr.Conversion("unexpected EOF reading value_len: %v", err)
	}
	valueLen := binary.BigEndian.Uint64(lenBuf[:])
	if valueLen == 0 {
		return "", value.Value{}, 0, kvserr.Conversion("value_len must be payload length + 1, got 0")
	}
	n += 8

	// Reconstruct the full value segment (value_len, payload, tombstone) so
	// it can be handed to value.FromBytes unchanged: we already consumed the
	// 8-byte length prefix above, so re-prepend it here.
	segment := make([]byte, 8+valueLen)
	binary.BigEndian.PutUint64(segment[:8], valueLen)
	if _, err = io.ReadFull(r, segment[8:]); err != nil {
		return "", value.Value{}, 0, kvserr.Conversion("unexpected EOF reading value payload+tombstone (want %d bytes): %v", valueLen, err)
	}
	n += int(valueLen)

	v, err = value.FromBytes(segment)
	if err != nil {
		return "", value.Value{}, 0, err
	}

	return string(keyBytes), v, n, nil
}
