// Package bench runs compression round trips over generated arrays and
// reports their size and timing.
package bench

import (
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/arloliu/flacarray"
	"github.com/arloliu/flacarray/codec"
	"github.com/arloliu/flacarray/compress"
	"github.com/arloliu/flacarray/internal/config"
	"github.com/arloliu/flacarray/internal/hash"
	"github.com/arloliu/flacarray/internal/parallel"
	"github.com/arloliu/flacarray/stream"
)

// Result describes one round trip.
type Result struct {
	Type    string
	Level   int
	Workers int
	Stats   compress.CompressionStats
	// SliceTimeNs is the time taken to decode the slice around the midpoint.
	SliceTimeNs int64
	// Fingerprint is the xxHash64 of the compressed bytes.
	Fingerprint uint64
	// MaxError is the largest reconstruction error; zero for integer types.
	MaxError float64
}

// Run performs every combination of type, level and threading in cfg.
// It fails as soon as a round trip does not reproduce its input.
func Run(cfg config.BenchConfig, log zerolog.Logger) ([]Result, error) {
	workers := cfg.Workers
	if workers == 0 {
		workers = parallel.DefaultWorkers()
	}

	var results []Result
	for _, typ := range cfg.Types {
		for _, level := range cfg.Levels {
			for _, threaded := range cfg.Threads {
				w := 1
				if threaded {
					w = workers
				}
				r, err := runOne(cfg, typ, level, w)
				if err != nil {
					return nil, errors.Wrapf(err, "%s level %d with %d workers", typ, level, w)
				}
				log.Debug().Str("type", typ).Int("level", level).Int("workers", w).
					Float64("ratio", r.Stats.CompressionRatio()).Msg("round trip ok")
				results = append(results, r)
			}
		}
	}

	return results, nil
}

func runOne(cfg config.BenchConfig, typ string, level int, workers int) (Result, error) {
	params, err := codec.LevelParams(level)
	if err != nil {
		return Result{}, err
	}

	first := int64(max(cfg.StreamSize/2-cfg.SliceWidth/2, 0))
	last := first + int64(cfg.SliceWidth)
	r := Result{
		Type:    typ,
		Level:   level,
		Workers: workers,
		Stats:   compress.CompressionStats{Algorithm: params.Compression},
	}
	opts := []flacarray.Option{flacarray.WithLevel(level), flacarray.WithWorkers(workers)}
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec
	n := cfg.Streams * cfg.StreamSize

	switch typ {
	case config.TypeInt32:
		data := make([]int32, n)
		for i := range data {
			data[i] = int32(rng.Uint32()) //nolint:gosec
		}
		r.Stats.OriginalSize = int64(4 * n)

		var c *stream.Container
		err = measure(&r.Stats.CompressionTimeNs, func() (err error) {
			c, err = flacarray.CompressInt32(data, cfg.Streams, cfg.StreamSize, opts...)
			return err
		})
		if err != nil {
			return r, err
		}
		r.record(c)

		var out, part []int32
		err = measure(&r.Stats.DecompressionTimeNs, func() (err error) {
			out, err = flacarray.DecompressInt32(c, -1, -1, opts...)
			return err
		})
		if err == nil {
			err = measure(&r.SliceTimeNs, func() (err error) {
				part, err = flacarray.DecompressInt32(c, first, last, opts...)
				return err
			})
		}
		if err != nil {
			return r, err
		}

		return r, checkExact(data, out, part, cfg, first, last)

	case config.TypeInt64:
		data := make([]int64, n)
		for i := range data {
			data[i] = int64(rng.Uint64()) //nolint:gosec
		}
		r.Stats.OriginalSize = int64(8 * n)

		var a *flacarray.Int64Array
		err = measure(&r.Stats.CompressionTimeNs, func() (err error) {
			a, err = flacarray.CompressInt64(data, cfg.Streams, cfg.StreamSize, opts...)
			return err
		})
		if err != nil {
			return r, err
		}
		r.record(a.Container)

		var out, part []int64
		err = measure(&r.Stats.DecompressionTimeNs, func() (err error) {
			out, err = a.Decompress(-1, -1, opts...)
			return err
		})
		if err == nil {
			err = measure(&r.SliceTimeNs, func() (err error) {
				part, err = a.Decompress(first, last, opts...)
				return err
			})
		}
		if err != nil {
			return r, err
		}

		return r, checkExact(data, out, part, cfg, first, last)

	case config.TypeFloat32:
		data := make([]float32, n)
		for i := range data {
			data[i] = float32(signal(rng, i, cfg.StreamSize))
		}
		r.Stats.OriginalSize = int64(4 * n)

		var a *flacarray.Float32Array
		err = measure(&r.Stats.CompressionTimeNs, func() (err error) {
			a, err = flacarray.CompressFloat32(data, cfg.Streams, cfg.StreamSize, nil, opts...)
			return err
		})
		if err != nil {
			return r, err
		}
		r.record(a.Container)

		var out []float32
		err = measure(&r.Stats.DecompressionTimeNs, func() (err error) {
			out, err = a.Decompress(-1, -1, opts...)
			return err
		})
		if err == nil {
			err = measure(&r.SliceTimeNs, func() error {
				_, err := a.Decompress(first, last, opts...)
				return err
			})
		}
		if err != nil {
			return r, err
		}
		for i := range data {
			r.MaxError = max(r.MaxError, math.Abs(float64(data[i])-float64(out[i])))
		}

		return r, nil

	case config.TypeFloat64:
		data := make([]float64, n)
		for i := range data {
			data[i] = signal(rng, i, cfg.StreamSize)
		}
		r.Stats.OriginalSize = int64(8 * n)

		var a *flacarray.Float64Array
		err = measure(&r.Stats.CompressionTimeNs, func() (err error) {
			a, err = flacarray.CompressFloat64(data, cfg.Streams, cfg.StreamSize, nil, opts...)
			return err
		})
		if err != nil {
			return r, err
		}
		r.record(a.Container)

		var out []float64
		err = measure(&r.Stats.DecompressionTimeNs, func() (err error) {
			out, err = a.Decompress(-1, -1, opts...)
			return err
		})
		if err == nil {
			err = measure(&r.SliceTimeNs, func() error {
				_, err := a.Decompress(first, last, opts...)
				return err
			})
		}
		if err != nil {
			return r, err
		}
		for i := range data {
			step := 1 / a.Gains[i/cfg.StreamSize]
			diff := math.Abs(data[i] - out[i])
			if diff > step {
				return r, errors.Errorf("sample %d off by %g, step %g", i, diff, step)
			}
			r.MaxError = max(r.MaxError, diff)
		}

		return r, nil

	default:
		return r, errors.Errorf("unknown type %q", typ)
	}
}

func (r *Result) record(c *stream.Container) {
	r.Stats.CompressedSize = int64(len(c.Bytes))
	r.Fingerprint = hash.Sum64(c.Bytes)
}

func measure(dst *int64, fn func() error) error {
	start := time.Now()
	err := fn()
	*dst = time.Since(start).Nanoseconds()

	return err
}

// signal is a slow sine per stream with uniform noise on top.
func signal(rng *rand.Rand, i int, streamSize int) float64 {
	s := i / streamSize
	x := float64(i%streamSize) / float64(streamSize)

	return float64(s+1)*100*math.Sin(2*math.Pi*x) + rng.Float64()
}

func checkExact[T comparable](data []T, out []T, part []T, cfg config.BenchConfig, first int64, last int64) error {
	if !slices.Equal(data, out) {
		return errors.New("full decode differs from input")
	}

	width := int(last - first)
	for s := range cfg.Streams {
		lo := s*cfg.StreamSize + int(first)
		if !slices.Equal(data[lo:lo+width], part[s*width:(s+1)*width]) {
			return errors.Errorf("slice [%d, %d) of stream %d differs from input", first, last, s)
		}
	}

	return nil
}
