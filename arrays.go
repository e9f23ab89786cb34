package flacarray

import (
	"github.com/arloliu/flacarray/convert"
	"github.com/arloliu/flacarray/errs"
	"github.com/arloliu/flacarray/stream"
)

// Int64Array is a compressed int64 array.
//
// When every stream fits in 32 bits after removing its midpoint, the array is
// stored as single-channel streams and Offsets holds the midpoints. Otherwise
// the values are stored as low and high 32-bit halves and Offsets is nil.
type Int64Array struct {
	Container *stream.Container
	Offsets   []int64
}

// Float32Array is a quantized float32 array.
type Float32Array struct {
	Container *stream.Container
	Offsets   []float32
	Gains     []float32
}

// Float64Array is a quantized float64 array. The container holds 64-bit
// streams when it was compressed WithInt64Quantization.
type Float64Array struct {
	Container *stream.Container
	Offsets   []float64
	Gains     []float64
}

// CompressInt32 compresses nStream streams of streamSize int32 values.
//
// Parameters:
//   - data: the streams, back to back
//   - nStream: number of streams
//   - streamSize: number of samples per stream
//   - opts: WithLevel, WithThreads, WithWorkers, WithLogger
//
// Returns an errs.Code error describing every failure kind on failure.
func CompressInt32(data []int32, nStream int, streamSize int, opts ...Option) (*stream.Container, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return stream.EncodeInt32(data, nStream, streamSize, cfg.level, cfg.streamOptions()...)
}

// DecompressInt32 decodes samples [first, last) of every stream in c.
// Negative bounds decode whole streams.
func DecompressInt32(c *stream.Container, first int64, last int64, opts ...Option) ([]int32, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return decodeInt32(c, first, last, cfg)
}

// CompressInt64 compresses nStream streams of streamSize int64 values.
//
// Streams spanning at most 2^31 are narrowed to 32 bits first, which
// compresses much better than storing both halves of every value.
func CompressInt64(data []int64, nStream int, streamSize int, opts ...Option) (*Int64Array, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	narrow, offsets, err := convert.Int64ToInt32(data, nStream, streamSize, cfg.convertOptions()...)
	switch {
	case err == nil:
		c, err := stream.EncodeInt32(narrow, nStream, streamSize, cfg.level, cfg.streamOptions()...)
		if err != nil {
			return nil, err
		}

		return &Int64Array{Container: c, Offsets: offsets}, nil
	case errs.From(err, errs.None) == errs.ErrConvertType:
		c, err := stream.EncodeInt64(data, nStream, streamSize, cfg.level, cfg.streamOptions()...)
		if err != nil {
			return nil, err
		}

		return &Int64Array{Container: c}, nil
	default:
		return nil, err
	}
}

// Decompress decodes samples [first, last) of every stream.
func (a *Int64Array) Decompress(first int64, last int64, opts ...Option) ([]int64, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	c := a.Container
	if a.Offsets == nil {
		n, err := stream.DecodedLen(c.StreamSize, first, last)
		if err != nil {
			return nil, err
		}
		out := make([]int64, c.NStream()*n)
		if err := c.DecodeInt64(first, last, out, cfg.streamOptions()...); err != nil {
			return nil, err
		}

		return out, nil
	}

	narrow, err := decodeInt32(c, first, last, cfg)
	if err != nil {
		return nil, err
	}

	return convert.Int32ToInt64(narrow, c.NStream(), len(narrow)/c.NStream(), a.Offsets, cfg.convertOptions()...)
}

// CompressFloat32 quantizes and compresses float32 streams.
//
// quanta optionally holds one quantization step per stream; nil picks the
// finest step that keeps every stream within the codec range. The
// reconstruction error never exceeds one step.
func CompressFloat32(data []float32, nStream int, streamSize int, quanta []float32, opts ...Option) (*Float32Array, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	q, offsets, gains, err := convert.Float32ToInt32(data, nStream, streamSize, quanta, cfg.convertOptions()...)
	if err != nil {
		return nil, err
	}
	c, err := stream.EncodeInt32(q, nStream, streamSize, cfg.level, cfg.streamOptions()...)
	if err != nil {
		return nil, err
	}

	return &Float32Array{Container: c, Offsets: offsets, Gains: gains}, nil
}

// Decompress decodes and dequantizes samples [first, last) of every stream.
func (a *Float32Array) Decompress(first int64, last int64, opts ...Option) ([]float32, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	q, err := decodeInt32(a.Container, first, last, cfg)
	if err != nil {
		return nil, err
	}
	nStream := a.Container.NStream()

	return convert.Int32ToFloat32(q, nStream, len(q)/nStream, a.Offsets, a.Gains, cfg.convertOptions()...)
}

// CompressFloat64 quantizes and compresses float64 streams. See CompressFloat32.
func CompressFloat64(data []float64, nStream int, streamSize int, quanta []float64, opts ...Option) (*Float64Array, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	if cfg.wide {
		q, offsets, gains, err := convert.Float64ToInt64(data, nStream, streamSize, quanta, cfg.convertOptions()...)
		if err != nil {
			return nil, err
		}
		c, err := stream.EncodeInt64(q, nStream, streamSize, cfg.level, cfg.streamOptions()...)
		if err != nil {
			return nil, err
		}

		return &Float64Array{Container: c, Offsets: offsets, Gains: gains}, nil
	}

	q, offsets, gains, err := convert.Float64ToInt32(data, nStream, streamSize, quanta, cfg.convertOptions()...)
	if err != nil {
		return nil, err
	}
	c, err := stream.EncodeInt32(q, nStream, streamSize, cfg.level, cfg.streamOptions()...)
	if err != nil {
		return nil, err
	}

	return &Float64Array{Container: c, Offsets: offsets, Gains: gains}, nil
}

// Decompress decodes and dequantizes samples [first, last) of every stream.
func (a *Float64Array) Decompress(first int64, last int64, opts ...Option) ([]float64, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	c := a.Container
	n, err := stream.DecodedLen(c.StreamSize, first, last)
	if err != nil {
		return nil, err
	}
	nStream := c.NStream()

	if c.Channels == 2 {
		q := make([]int64, nStream*n)
		if err := c.DecodeInt64(first, last, q, cfg.streamOptions()...); err != nil {
			return nil, err
		}

		return convert.Int64ToFloat64(q, nStream, n, a.Offsets, a.Gains, cfg.convertOptions()...)
	}

	q, err := decodeInt32(c, first, last, cfg)
	if err != nil {
		return nil, err
	}

	return convert.Int32ToFloat64(q, nStream, n, a.Offsets, a.Gains, cfg.convertOptions()...)
}

func decodeInt32(c *stream.Container, first int64, last int64, cfg *config) ([]int32, error) {
	if c == nil || c.Channels != 1 {
		return nil, errs.ErrInvalidArgument
	}
	n, err := stream.DecodedLen(c.StreamSize, first, last)
	if err != nil {
		return nil, err
	}

	out := make([]int32, c.NStream()*n)
	if err := c.DecodeInt32(first, last, out, cfg.streamOptions()...); err != nil {
		return nil, err
	}

	return out, nil
}
