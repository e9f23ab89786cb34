// Package compress provides the byte-level compression backends used by the
// codec package to shrink frame payloads.
//
// The codec first turns samples into predictor residuals packed as zigzag
// varints. Those payloads are highly repetitive and compress well with a
// general-purpose block compressor, which is the job of this package.
//
// Supported algorithms:
//   - None: payloads are stored unchanged
//   - LZ4: fastest, moderate ratio (pierrec/lz4 block format)
//   - S2: fast with a better ratio (klauspost/compress/s2)
//   - Snappy: fast, classic block format (golang/snappy)
//   - Zstd: best ratio, tunable level (klauspost/compress/zstd, or valyala/gozstd
//     when built with the gozstd tag and cgo enabled)
//
// All codecs are safe for concurrent use. Zstd encoders and decoders are kept
// in sync.Pools, one encoder pool per compression level.
package compress
