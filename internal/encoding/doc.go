// Package encoding packs integer sample blocks into the subframe payloads used
// by the codec package.
//
// A subframe holds one channel of one frame. Three layouts exist:
//
//   - Constant: every sample equal, stored as one zigzag varint
//   - Verbatim: raw little-endian 32-bit samples
//   - Fixed: a fixed polynomial predictor of order 0-4; the first order samples
//     are stored as warmup varints and the rest as zigzag varint residuals
//
// Prediction runs in int64, so residuals of 32-bit samples never overflow.
// The packed varints are left for a general-purpose compressor to squeeze.
package encoding
