// Package endian provides byte order utilities for the flacarray wire format
// and for host byte order detection.
//
// The codec stream and frame headers are always little-endian. Host byte order
// only matters to the 64-bit interleaving helper, which may reinterpret an
// []int64 as (low, high) []int32 pairs in place when the host is little-endian.
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, blockSize)
//
// All functions are safe for concurrent use.
package endian

import (
	"encoding/binary"
	"sync"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

var (
	nativeOnce sync.Once
	native     EndianEngine
)

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() EndianEngine {
	nativeOnce.Do(func() {
		// 0x0100 is 256; a little-endian host stores the low byte (0x00) first.
		var i uint16 = 0x0100
		b := (*[2]byte)(unsafe.Pointer(&i))
		if b[0] == 0x01 {
			native = binary.BigEndian
		} else {
			native = binary.LittleEndian
		}
	})

	return native
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// IsNativeBigEndian reports whether the host is big-endian.
func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

// GetLittleEndianEngine returns the little-endian engine used by the wire format.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
