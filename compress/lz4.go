package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances, which keep a hash table worth reusing.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// lz4MaxDecompressed bounds the adaptive decompression buffer.
const lz4MaxDecompressed = 128 * 1024 * 1024

// LZ4Compressor provides LZ4 block compression.
//
// The block format does not record the decompressed size, so Decompress grows
// its buffer until the block fits. Callers that know the size should use
// DecompressSized.
type LZ4Compressor struct{}

var (
	_ Codec             = (*LZ4Compressor)(nil)
	_ SizedDecompressor = (*LZ4Compressor)(nil)
)

// SizedDecompressor is implemented by codecs that decode faster when the
// decompressed size is known in advance.
type SizedDecompressor interface {
	DecompressSized(data []byte, size int) ([]byte, error)
}

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data using a pooled lz4.Compressor.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	// dst has the bound size, so the block always fits
	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress decompresses an LZ4 block of unknown size.
//
// It starts with a buffer 4x the compressed size and doubles it on
// ErrInvalidSourceShortBuffer, up to 128MB.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	for bufSize := len(data) * 4; bufSize <= lz4MaxDecompressed; bufSize *= 2 {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err == nil {
			return buf[:n], nil
		}
		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			return nil, fmt.Errorf("%w: lz4: %w", ErrCorruptPayload, err)
		}
	}

	return nil, fmt.Errorf("%w: lz4: %w", ErrCorruptPayload, lz4.ErrInvalidSourceShortBuffer)
}

// DecompressSized decompresses an LZ4 block whose decompressed size is known.
func (c LZ4Compressor) DecompressSized(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	buf := make([]byte, size)
	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4: %w", ErrCorruptPayload, err)
	}
	if n != size {
		return nil, fmt.Errorf("%w: lz4: decoded %d bytes, want %d", ErrCorruptPayload, n, size)
	}

	return buf, nil
}
