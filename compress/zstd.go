package compress

// Standard zstd levels used by the codec level table.
const (
	ZstdLevelFastest = 1
	ZstdLevelDefault = 3
	ZstdLevelBetter  = 7
	ZstdLevelBest    = 11
)

// ZstdCompressor provides Zstandard compression at a fixed level.
//
// Higher levels trade encode speed for ratio. Decompression speed does not
// depend on the level.
type ZstdCompressor struct {
	level int
}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd compressor for the given standard zstd level.
func NewZstdCompressor(level int) ZstdCompressor {
	return ZstdCompressor{level: level}
}

// Level returns the standard zstd level of the compressor.
func (c ZstdCompressor) Level() int {
	return c.level
}
