// Package flacarray compresses large integer and floating point arrays made of
// many independent streams, using a lossless predictive codec per stream.
//
// An array is seen as nStream streams of streamSize samples laid out back to
// back. Every stream is compressed on its own, so any stream and any sample
// range within a stream can be decoded without touching the others.
//
// # Core Features
//
//   - Lossless compression of int32 and int64 arrays
//   - Quantized compression of float32 and float64 arrays with a bounded error
//   - Partial decode of a sample range through frame seeking
//   - Optional multi-worker encode and decode with identical output
//   - Compression levels 0-8 backed by lz4, s2, snappy and zstd
//   - Per-frame xxHash checksums
//
// # Basic Usage
//
// Compressing and restoring 32-bit integers:
//
//	c, err := flacarray.CompressInt32(data, nStream, streamSize)
//	if err != nil {
//	    return err
//	}
//	restored, err := flacarray.DecompressInt32(c, -1, -1)
//
// Compressing float64 values with an automatic quantization step:
//
//	arr, err := flacarray.CompressFloat64(data, nStream, streamSize, nil,
//	    flacarray.WithLevel(8),
//	    flacarray.WithThreads(true),
//	)
//	window, err := arr.Decompress(1000, 2000)
//
// # Package Structure
//
// This package provides one-call wrappers combining the convert and stream
// packages. For control over the byte layout or the quantization parameters,
// use those packages directly.
package flacarray

import (
	"github.com/rs/zerolog"

	"github.com/arloliu/flacarray/codec"
	"github.com/arloliu/flacarray/convert"
	"github.com/arloliu/flacarray/errs"
	"github.com/arloliu/flacarray/internal/options"
	"github.com/arloliu/flacarray/internal/parallel"
	"github.com/arloliu/flacarray/stream"
)

type config struct {
	level   int
	workers int
	snap    bool
	wide    bool
	logger  *zerolog.Logger
}

// Option configures a compress or decompress call.
type Option = options.Option[*config]

func newConfig(opts []Option) (*config, error) {
	cfg := &config{level: codec.DefaultLevel, workers: 1, snap: true}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *config) streamOptions() []stream.Option {
	opts := []stream.Option{stream.WithWorkers(c.workers)}
	if c.logger != nil {
		opts = append(opts, stream.WithLogger(*c.logger))
	}

	return opts
}

func (c *config) convertOptions() []convert.Option {
	return []convert.Option{convert.WithWorkers(c.workers), convert.WithOffsetSnapping(c.snap)}
}

// WithLevel sets the compression level, from 0 (fastest) to 8 (smallest).
// The default is 5.
func WithLevel(level int) Option {
	return options.New(func(c *config) error {
		if level < codec.MinLevel || level > codec.MaxLevel {
			return errs.ErrInvalidLevel
		}
		c.level = level

		return nil
	})
}

// WithThreads spreads streams over runtime.GOMAXPROCS workers when enabled.
func WithThreads(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.workers = 1
		if enabled {
			c.workers = parallel.DefaultWorkers()
		}
	})
}

// WithWorkers sets an explicit worker count.
func WithWorkers(n int) Option {
	return options.NoError(func(c *config) {
		c.workers = max(n, 1)
	})
}

// WithOffsetSnapping controls whether float offsets are snapped to a whole
// number of quantization steps. It is enabled by default.
func WithOffsetSnapping(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.snap = enabled
	})
}

// WithInt64Quantization makes CompressFloat64 quantize to 64-bit integers
// instead of 32-bit ones. This trades size for a much finer step.
func WithInt64Quantization(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.wide = enabled
	})
}

// WithLogger sets the diagnostic logger used by the stream codec.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(c *config) {
		c.logger = &logger
	})
}
