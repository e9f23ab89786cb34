// Package hash wraps xxHash64 for frame checksums and container fingerprints.
package hash

import "github.com/cespare/xxhash/v2"

// Sum64 computes the xxHash64 of data.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Checksum returns the low 32 bits of the xxHash64 of the concatenated parts.
func Checksum(parts ...[]byte) uint32 {
	var d xxhash.Digest
	d.Reset()
	for _, p := range parts {
		_, _ = d.Write(p)
	}

	return uint32(d.Sum64()) //nolint:gosec
}
