package stream

import (
	"errors"

	"github.com/arloliu/flacarray/codec"
	"github.com/arloliu/flacarray/errs"
	"github.com/arloliu/flacarray/internal/interleave"
	"github.com/arloliu/flacarray/internal/parallel"
	"github.com/arloliu/flacarray/internal/pool"
)

// Encode compresses nStream streams of streamSize samples, each sample made
// of nChannels interleaved values, at the given compression level (0-8).
//
// data holds the streams back to back. On failure no Container is returned
// and the error is an errs.Code carrying every failure kind that occurred.
func Encode(data []int32, nStream int, streamSize int, nChannels int, level int, opts ...Option) (*Container, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	switch {
	case level < codec.MinLevel || level > codec.MaxLevel:
		return nil, errs.ErrInvalidLevel
	case nStream <= 0:
		return nil, errs.ErrZeroNStream
	case streamSize <= 0:
		return nil, errs.ErrZeroStreamSize
	case nChannels < 1 || len(data) != nStream*streamSize*nChannels:
		return nil, errs.ErrInvalidArgument
	}

	job := &encodeJob{
		data:      data,
		nStream:   nStream,
		chunk:     streamSize * nChannels,
		nChannels: nChannels,
		level:     level,
		cfg:       cfg,
	}

	var (
		c    *Container
		code errs.Code
	)
	if cfg.threaded() {
		c, code = job.parallel()
	} else {
		c, code = job.sequential()
	}
	if code != errs.None {
		cfg.logger.Debug().Stringer("code", code).Int("streams", nStream).Msg("encode failed")
		return nil, code
	}
	c.StreamSize = streamSize
	c.Channels = nChannels

	return c, nil
}

// EncodeInt32 compresses single-channel 32-bit streams.
func EncodeInt32(data []int32, nStream int, streamSize int, level int, opts ...Option) (*Container, error) {
	return Encode(data, nStream, streamSize, 1, level, opts...)
}

// EncodeInt64 compresses 64-bit streams as two channels holding the low and
// high halves of every value.
func EncodeInt64(data []int64, nStream int, streamSize int, level int, opts ...Option) (*Container, error) {
	pairs, release := interleave.Pairs(data)
	defer release()

	return Encode(pairs, nStream, streamSize, interleave.Channels, level, opts...)
}

type encodeJob struct {
	data      []int32
	nStream   int
	chunk     int
	nChannels int
	level     int
	cfg       *config
}

// sequential appends every stream to one shared buffer.
func (j *encodeJob) sequential() (*Container, errs.Code) {
	buf := pool.GetStreamBuffer()
	defer pool.PutStreamBuffer(buf)

	starts := make([]int64, j.nStream)
	nbytes := make([]int64, j.nStream)
	last := -1
	code := parallel.ForEachStream(j.nStream, 1, func(_ int, s int) errs.Code {
		return j.encodeStream(s, func(p []byte) error {
			if s != last {
				// the first byte of a new stream marks its start
				if last >= 0 {
					starts[s] = int64(buf.Len())
				}
				last = s
			}
			if _, err := buf.Write(p); err != nil {
				return err
			}
			nbytes[s] += int64(len(p))

			return nil
		})
	})
	if code != errs.None {
		return nil, code
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return &Container{Bytes: out, Starts: starts, NBytes: nbytes}, errs.None
}

// parallel gives every stream its own buffer and concatenates them in
// stream-index order once all workers are done.
func (j *encodeJob) parallel() (*Container, errs.Code) {
	buffers := make([]*pool.ByteBuffer, j.nStream)
	defer func() {
		for _, bb := range buffers {
			pool.PutStreamBuffer(bb)
		}
	}()

	code := parallel.ForEachStream(j.nStream, j.cfg.workers, func(_ int, s int) errs.Code {
		return j.encodeStream(s, func(p []byte) error {
			if buffers[s] == nil {
				buffers[s] = pool.GetStreamBuffer()
			}
			_, err := buffers[s].Write(p)

			return err
		})
	})
	if code != errs.None {
		return nil, code
	}

	starts := make([]int64, j.nStream)
	nbytes := make([]int64, j.nStream)
	total := 0
	for s, bb := range buffers {
		if bb == nil {
			j.cfg.logger.Warn().Int("stream", s).Msg("stream produced no output")
			return nil, errs.ErrEncodeCollect
		}
		starts[s] = int64(total)
		nbytes[s] = int64(bb.Len())
		total += bb.Len()
	}
	if total > pool.MaxBufferSize {
		return nil, errs.ErrAlloc
	}

	out := make([]byte, 0, total)
	for _, bb := range buffers {
		out = append(out, bb.Bytes()...)
	}

	return &Container{Bytes: out, Starts: starts, NBytes: nbytes}, errs.None
}

// encodeStream runs one codec session over stream s, passing every encoded
// chunk to sink.
func (j *encodeJob) encodeStream(s int, sink func(p []byte) error) errs.Code {
	enc := codec.NewStreamEncoder()
	if err := enc.SetCompressionLevel(j.level); err != nil {
		return errs.ErrEncodeSetCompLevel
	}
	if err := enc.SetBlockSize(0); err != nil {
		return errs.ErrEncodeSetBlockSize
	}
	if err := enc.SetChannels(j.nChannels); err != nil {
		return errs.ErrEncodeSetChannels
	}
	if err := enc.SetBitsPerSample(codec.MaxBitsPerSample); err != nil {
		return errs.ErrEncodeSetBPS
	}

	code := errs.None
	write := func(p []byte, _ int, _ uint64) error {
		err := sink(p)
		if errors.Is(err, errs.ErrAlloc) {
			code |= errs.ErrAlloc
		}

		return err
	}

	log := j.cfg.logger
	if err := enc.Init(write); err != nil {
		log.Debug().Err(err).Int("stream", s).Msg("encoder init failed")
		return code | errs.ErrEncodeInit
	}

	n := j.chunk / j.nChannels
	if err := enc.ProcessInterleaved(j.data[s*j.chunk:(s+1)*j.chunk], n); err != nil {
		log.Debug().Err(err).Int("stream", s).Msg("encoder process failed")
		return code | errs.ErrEncodeProcess
	}
	if err := enc.Finish(); err != nil {
		log.Debug().Err(err).Int("stream", s).Msg("encoder finish failed")
		return code | errs.ErrEncodeFinish
	}

	return code
}
