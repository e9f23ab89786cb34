// Package convert maps application numeric arrays onto the 32-bit (or 64-bit)
// integer samples the codec stores, and back.
//
// Every function works on a flat, stream-major array of nStream streams of
// streamSize samples and computes its parameters independently per stream:
//
//   - Int64ToInt32 subtracts the per-stream midpoint and fails with
//     errs.ErrConvertType if any value then exceeds Int32Limit in magnitude.
//   - Float32ToInt32 and Float64ToInt32 quantize with
//     q = round(gain*(x-offset)), where offset is the per-stream midpoint
//     (snapped to a whole number of steps by default) and gain = 1/step.
//     The step is either supplied per stream or derived from the data range
//     so that |q| stays below Int32Limit with a 1% margin.
//   - Float64ToInt64 does the same with Int64Limit for 64-bit samples.
//
// The inverse functions never fail except on shape errors. A caller-supplied
// step smaller than the safe minimum is accepted; quantized values that no
// longer fit are clipped to the target integer range.
package convert
