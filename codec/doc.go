// Package codec implements a framed lossless integer audio-style codec with a
// narrow session API.
//
// A StreamEncoder session turns interleaved 32-bit samples of one stream into
// bytes delivered through a WriteFunc: first a stream header, then one call per
// frame. Each frame holds up to BlockSize samples per channel, predicted with a
// fixed polynomial predictor and packed as zigzag varint residuals, and is then
// squeezed by the block compressor chosen by the compression level.
//
// A StreamDecoder session pulls bytes from a ByteSource and hands decoded
// frames to a FrameWriteFunc. Because every frame header records the index of
// its first sample, SeekAbsolute can jump to any sample by walking frame
// headers and skipping payloads.
//
// Sessions are not safe for concurrent use; create one per goroutine.
package codec
