package encoding

import "encoding/binary"

// ZigZag maps signed values to unsigned ones so that small magnitudes stay small.
func ZigZag(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63)) //nolint:gosec
}

// UnZigZag reverses ZigZag.
func UnZigZag(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1) //nolint:gosec
}

// AppendVarint appends v as a zigzag varint.
func AppendVarint(dst []byte, v int64) []byte {
	u := ZigZag(v)
	if u <= 0x7F {
		return append(dst, byte(u))
	}

	return binary.AppendUvarint(dst, u)
}

// ReadVarint decodes a zigzag varint from data starting at offset.
//
// It returns the value, the offset just past it, and false if data ends early
// or the varint overflows 64 bits.
func ReadVarint(data []byte, offset int) (int64, int, bool) {
	if offset >= len(data) {
		return 0, offset, false
	}

	b0 := data[offset]
	if b0 < 0x80 {
		return UnZigZag(uint64(b0)), offset + 1, true
	}

	u, n := binary.Uvarint(data[offset:])
	if n <= 0 {
		return 0, offset, false
	}

	return UnZigZag(u), offset + n, true
}
