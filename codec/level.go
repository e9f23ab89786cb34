package codec

import (
	"fmt"

	"github.com/arloliu/flacarray/compress"
	"github.com/arloliu/flacarray/format"
)

// Session parameter limits.
const (
	MinLevel         = 0
	MaxLevel         = 8
	DefaultLevel     = 5
	MinBlockSize     = 16
	MaxBlockSize     = 65535
	MaxChannels      = 8
	MinBitsPerSample = 4
	MaxBitsPerSample = 32
)

// Level holds the encoder settings implied by one compression level.
type Level struct {
	// BlockSize is the default number of samples per channel in a frame.
	BlockSize int
	// MaxOrder is the highest fixed predictor order tried per subframe.
	MaxOrder int
	// Compression is the block compressor applied to frame payloads.
	Compression format.CompressionType
	// ZstdLevel is the standard zstd level when Compression is zstd.
	ZstdLevel int
}

var levels = [MaxLevel + 1]Level{
	{BlockSize: 1152, MaxOrder: 1, Compression: format.CompressionLZ4},
	{BlockSize: 1152, MaxOrder: 2, Compression: format.CompressionLZ4},
	{BlockSize: 1152, MaxOrder: 2, Compression: format.CompressionS2},
	{BlockSize: 4096, MaxOrder: 2, Compression: format.CompressionSnappy},
	{BlockSize: 4096, MaxOrder: 3, Compression: format.CompressionZstd, ZstdLevel: compress.ZstdLevelFastest},
	{BlockSize: 4096, MaxOrder: 4, Compression: format.CompressionZstd, ZstdLevel: compress.ZstdLevelDefault},
	{BlockSize: 8192, MaxOrder: 4, Compression: format.CompressionZstd, ZstdLevel: compress.ZstdLevelDefault},
	{BlockSize: 8192, MaxOrder: 4, Compression: format.CompressionZstd, ZstdLevel: compress.ZstdLevelBetter},
	{BlockSize: 8192, MaxOrder: 4, Compression: format.CompressionZstd, ZstdLevel: compress.ZstdLevelBest},
}

// LevelParams returns the settings for a compression level in [MinLevel, MaxLevel].
func LevelParams(level int) (Level, error) {
	if level < MinLevel || level > MaxLevel {
		return Level{}, fmt.Errorf("%w: compression level %d", ErrInvalidParameter, level)
	}

	return levels[level], nil
}
