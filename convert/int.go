package convert

import (
	"github.com/arloliu/flacarray/errs"
	"github.com/arloliu/flacarray/internal/parallel"
)

// Int32Limit is the largest magnitude a converted 32-bit sample may have.
// The codec keeps one bit of headroom below the full int32 range.
const Int32Limit = 1 << 30

// Int64ToInt32 narrows 64-bit integers to 32-bit samples by subtracting the
// per-stream midpoint, rounded half up.
//
// It fails with errs.ErrConvertType when a stream spans more than
// 2*Int32Limit; streams after the failing one are not converted.
func Int64ToInt32(in []int64, nStream int, streamSize int, opts ...Option) ([]int32, []int64, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	if code := checkShape(len(in), nStream, streamSize); code != errs.None {
		return nil, nil, code
	}

	out := make([]int32, len(in))
	offsets := make([]int64, nStream)
	code := parallel.ForEachStream(nStream, cfg.workers, func(_ int, s int) errs.Code {
		lo, hi := s*streamSize, (s+1)*streamSize
		offset, ok := narrowStream(out[lo:hi], in[lo:hi])
		if !ok {
			return errs.ErrConvertType
		}
		offsets[s] = offset

		return errs.None
	})
	if code != errs.None {
		return nil, nil, code
	}

	return out, offsets, nil
}

func narrowStream(dst []int32, src []int64) (int64, bool) {
	smin, smax := src[0], src[0]
	for _, v := range src[1:] {
		smin = min(smin, v)
		smax = max(smax, v)
	}

	// unsigned span arithmetic stays exact over the whole int64 range
	span := uint64(smax) - uint64(smin) //nolint:gosec
	half := span>>1 + span&1
	if half > Int32Limit {
		return 0, false
	}
	offset := smin + int64(half) //nolint:gosec

	for i, v := range src {
		dst[i] = int32(v - offset) //nolint:gosec
	}

	return offset, true
}

// Int32ToInt64 reverses Int64ToInt32.
func Int32ToInt64(in []int32, nStream int, streamSize int, offsets []int64, opts ...Option) ([]int64, error) {
	out := make([]int64, len(in))
	if err := Int32ToInt64Into(out, in, nStream, streamSize, offsets, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// Int32ToInt64Into reverses Int64ToInt32 into dst, which must have len(in) elements.
func Int32ToInt64Into(dst []int64, in []int32, nStream int, streamSize int, offsets []int64, opts ...Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}
	code := checkShape(len(in), nStream, streamSize) | checkParams(len(offsets), nStream, false)
	if len(dst) != len(in) {
		code |= errs.ErrInvalidArgument
	}
	if code != errs.None {
		return code
	}

	_ = parallel.ForEachStream(nStream, cfg.workers, func(_ int, s int) errs.Code {
		lo, hi := s*streamSize, (s+1)*streamSize
		offset := offsets[s]
		for i, v := range in[lo:hi] {
			dst[lo+i] = int64(v) + offset
		}

		return errs.None
	})

	return nil
}
