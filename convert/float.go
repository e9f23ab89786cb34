package convert

import (
	"math"

	"github.com/arloliu/flacarray/errs"
	"github.com/arloliu/flacarray/internal/parallel"
)

// Int64Limit is the largest magnitude a float value quantized to 64-bit
// integers may have. Two bits of headroom keep the interleaved halves valid
// for every codec level.
const Int64Limit = 1 << 62

// safetyMargin widens the auto step so the quantized range stays 1% inside the limit.
const safetyMargin = 1.01

// Float is the set of source types accepted by the float quantizers.
type Float interface {
	~float32 | ~float64
}

type quantInt interface {
	int32 | int64
}

// Float32ToInt32 quantizes float32 streams to 32-bit samples.
//
// quanta holds an optional quantization step per stream; nil selects the
// smallest step that keeps every value within Int32Limit. A zero step marks
// constant data and yields gain 1. Steps smaller than the safe minimum are
// accepted and out-of-range values clip to the int32 range.
func Float32ToInt32(in []float32, nStream int, streamSize int, quanta []float32, opts ...Option) ([]int32, []float32, []float32, error) {
	return quantize(in, nStream, streamSize, quanta, Int32Limit, clipInt32, opts)
}

// Float64ToInt32 quantizes float64 streams to 32-bit samples. See Float32ToInt32.
func Float64ToInt32(in []float64, nStream int, streamSize int, quanta []float64, opts ...Option) ([]int32, []float64, []float64, error) {
	return quantize(in, nStream, streamSize, quanta, Int32Limit, clipInt32, opts)
}

// Float64ToInt64 quantizes float64 streams to 64-bit samples with Int64Limit
// as the range limit. The result is meant for the two-channel 64-bit path.
func Float64ToInt64(in []float64, nStream int, streamSize int, quanta []float64, opts ...Option) ([]int64, []float64, []float64, error) {
	return quantize(in, nStream, streamSize, quanta, Int64Limit, clipInt64, opts)
}

// Int32ToFloat32 reverses Float32ToInt32.
func Int32ToFloat32(in []int32, nStream int, streamSize int, offsets []float32, gains []float32, opts ...Option) ([]float32, error) {
	out := make([]float32, len(in))
	if err := Int32ToFloat32Into(out, in, nStream, streamSize, offsets, gains, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// Int32ToFloat32Into reverses Float32ToInt32 into dst.
func Int32ToFloat32Into(dst []float32, in []int32, nStream int, streamSize int, offsets []float32, gains []float32, opts ...Option) error {
	return dequantize(dst, in, nStream, streamSize, offsets, gains, opts)
}

// Int32ToFloat64 reverses Float64ToInt32.
func Int32ToFloat64(in []int32, nStream int, streamSize int, offsets []float64, gains []float64, opts ...Option) ([]float64, error) {
	out := make([]float64, len(in))
	if err := Int32ToFloat64Into(out, in, nStream, streamSize, offsets, gains, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// Int32ToFloat64Into reverses Float64ToInt32 into dst.
func Int32ToFloat64Into(dst []float64, in []int32, nStream int, streamSize int, offsets []float64, gains []float64, opts ...Option) error {
	return dequantize(dst, in, nStream, streamSize, offsets, gains, opts)
}

// Int64ToFloat64 reverses Float64ToInt64.
func Int64ToFloat64(in []int64, nStream int, streamSize int, offsets []float64, gains []float64, opts ...Option) ([]float64, error) {
	out := make([]float64, len(in))
	if err := Int64ToFloat64Into(out, in, nStream, streamSize, offsets, gains, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// Int64ToFloat64Into reverses Float64ToInt64 into dst.
func Int64ToFloat64Into(dst []float64, in []int64, nStream int, streamSize int, offsets []float64, gains []float64, opts ...Option) error {
	return dequantize(dst, in, nStream, streamSize, offsets, gains, opts)
}

func quantize[F Float, I quantInt](
	in []F, nStream int, streamSize int, quanta []F, limit float64, clip func(float64) I, opts []Option,
) ([]I, []F, []F, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, nil, nil, err
	}
	code := checkShape(len(in), nStream, streamSize) | checkParams(len(quanta), nStream, quanta == nil)
	if code != errs.None {
		return nil, nil, nil, code
	}
	for _, q := range quanta {
		if !(q >= 0) || math.IsInf(float64(q), 0) {
			return nil, nil, nil, errs.ErrInvalidArgument
		}
	}

	out := make([]I, len(in))
	offsets := make([]F, nStream)
	gains := make([]F, nStream)
	code = parallel.ForEachStream(nStream, cfg.workers, func(_ int, s int) errs.Code {
		lo, hi := s*streamSize, (s+1)*streamSize
		step := -1.0
		if quanta != nil {
			step = float64(quanta[s])
		}
		offset, gain, ok := quantizeStream(out[lo:hi], in[lo:hi], step, limit, cfg.snap, clip)
		if !ok {
			return errs.ErrConvertType
		}
		offsets[s], gains[s] = offset, gain

		return errs.None
	})
	if code != errs.None {
		return nil, nil, nil, code
	}

	return out, offsets, gains, nil
}

// quantizeStream converts one stream. A negative step selects the automatic one.
// It reports false when the stream holds NaN or infinite values.
func quantizeStream[F Float, I quantInt](dst []I, src []F, step float64, limit float64, snap bool, clip func(float64) I) (F, F, bool) {
	smin, smax := float64(src[0]), float64(src[0])
	for _, v := range src {
		x := float64(v)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, 0, false
		}
		smin = min(smin, x)
		smax = max(smax, x)
	}

	offset := 0.5*smin + 0.5*smax
	if step < 0 {
		step = safetyMargin * (smax - offset) / limit
	}
	if snap && step != 0 {
		offset = step * math.Round(offset/step)
	}
	gain := 1.0
	if step != 0 {
		gain = 1 / step
	}

	// quantize with the stored precision so the inverse sees the same parameters
	fo, fg := F(offset), F(gain)
	o, g := float64(fo), float64(fg)
	for i, v := range src {
		dst[i] = clip(math.Round(g * (float64(v) - o)))
	}

	return fo, fg, true
}

func dequantize[F Float, I quantInt](dst []F, in []I, nStream int, streamSize int, offsets []F, gains []F, opts []Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}
	code := checkShape(len(in), nStream, streamSize) |
		checkParams(len(offsets), nStream, false) |
		checkParams(len(gains), nStream, false)
	if len(dst) != len(in) {
		code |= errs.ErrInvalidArgument
	}
	if code != errs.None {
		return code
	}

	_ = parallel.ForEachStream(nStream, cfg.workers, func(_ int, s int) errs.Code {
		lo, hi := s*streamSize, (s+1)*streamSize
		o, g := float64(offsets[s]), float64(gains[s])
		for i, q := range in[lo:hi] {
			dst[lo+i] = F(o + float64(q)/g)
		}

		return errs.None
	})

	return nil
}

func clipInt32(q float64) int32 {
	switch {
	case q >= math.MaxInt32:
		return math.MaxInt32
	case q <= math.MinInt32:
		return math.MinInt32
	default:
		return int32(q)
	}
}

func clipInt64(q float64) int64 {
	// 2^63 is the first float64 above the int64 range
	switch {
	case q >= 1<<63:
		return math.MaxInt64
	case q <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(q)
	}
}
