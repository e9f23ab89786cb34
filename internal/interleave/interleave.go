// Package interleave presents 64-bit integers as two 32-bit codec channels.
//
// Every int64 becomes the pair (low 32 bits, high 32 bits), in that order,
// regardless of host byte order. The low half is carried as a plain bit
// pattern: its top bit is data, not a sign, so 0x1_0000_0000 travels as the
// pair (0, 1) and 0x8000_0000 as (math.MinInt32, 0).
//
// On little-endian hosts the canonical layout is exactly the in-memory layout
// of an []int64, so Pairs and Target reinterpret the caller's slice without
// copying. Other hosts go through pooled scratch buffers and explicit
// shift/mask packing.
package interleave

import (
	"unsafe"

	"github.com/arloliu/flacarray/endian"
	"github.com/arloliu/flacarray/internal/pool"
)

// Channels is the number of codec channels per 64-bit sample.
const Channels = 2

// Split returns the canonical (low, high) halves of v.
func Split(v int64) (low int32, high int32) {
	u := uint64(v) //nolint:gosec

	return int32(uint32(u)), int32(uint32(u >> 32)) //nolint:gosec
}

// Join reassembles a value from its canonical halves.
func Join(low int32, high int32) int64 {
	return int64(uint64(uint32(high))<<32 | uint64(uint32(low))) //nolint:gosec
}

// PutPairs writes the canonical pairs of src into dst.
//
// dst must hold at least 2*len(src) values.
func PutPairs(dst []int32, src []int64) {
	_ = dst[:2*len(src)]
	for i, v := range src {
		dst[2*i], dst[2*i+1] = Split(v)
	}
}

// FromPairs reassembles dst from canonical pairs in src.
//
// src must hold at least 2*len(dst) values.
func FromPairs(dst []int64, src []int32) {
	_ = src[:2*len(dst)]
	for i := range dst {
		dst[i] = Join(src[2*i], src[2*i+1])
	}
}

// Pairs returns data as 2*len(data) canonical int32 pairs for encoding.
//
// The returned release function must be called once the pairs are no longer
// used. On little-endian hosts the pairs alias data and release does nothing.
func Pairs(data []int64) ([]int32, func()) {
	if len(data) == 0 {
		return nil, func() {}
	}

	if endian.IsNativeLittleEndian() {
		return view(data), func() {}
	}

	pairs, cleanup := pool.GetInt32Slice(2 * len(data))
	PutPairs(pairs, data)

	return pairs, cleanup
}

// Target returns a 2*len(out) int32 destination for decoding into out.
//
// After the pairs are filled, commit must be called exactly once: it assembles
// out from the pairs when a scratch buffer was needed and releases the scratch.
// On little-endian hosts the pairs alias out and commit does nothing.
func Target(out []int64) ([]int32, func()) {
	if len(out) == 0 {
		return nil, func() {}
	}

	if endian.IsNativeLittleEndian() {
		return view(out), func() {}
	}

	pairs, cleanup := pool.GetInt32Slice(2 * len(out))

	return pairs, func() {
		FromPairs(out, pairs)
		cleanup()
	}
}

// view reinterprets data in place; only valid on little-endian hosts.
func view(data []int64) []int32 {
	return unsafe.Slice((*int32)(unsafe.Pointer(unsafe.SliceData(data))), 2*len(data))
}
