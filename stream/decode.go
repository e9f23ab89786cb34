package stream

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arloliu/flacarray/codec"
	"github.com/arloliu/flacarray/errs"
	"github.com/arloliu/flacarray/internal/interleave"
	"github.com/arloliu/flacarray/internal/parallel"
)

// DecodedLen returns the number of samples per stream a decode of
// [first, last) produces. When either bound is negative the whole stream is
// decoded and the result is streamSize.
func DecodedLen(streamSize int, first int64, last int64) (int, error) {
	if streamSize <= 0 {
		return 0, errs.ErrZeroStreamSize
	}
	if first < 0 || last < 0 {
		return streamSize, nil
	}
	if last > int64(streamSize) || first > int64(streamSize)-1 || first >= last {
		return 0, errs.ErrDecodeSampleRange
	}

	return int(last - first), nil
}

// Decode decompresses every stream located by starts and nbytes within data
// into out.
//
// Each stream holds streamSize samples of nChannels values. When first and
// last are both non-negative only samples [first, last) are decoded, using a
// seek to the frame holding first. out must hold exactly
// len(starts)*DecodedLen(streamSize, first, last)*nChannels values; stream i
// lands at offset i*DecodedLen*nChannels. On failure out may be partly
// written.
func Decode(
	data []byte, starts []int64, nbytes []int64, streamSize int, nChannels int,
	first int64, last int64, out []int32, opts ...Option,
) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}

	job, code := newDecodeJob(data, starts, nbytes, streamSize, nChannels, first, last, cfg)
	if code != errs.None {
		return code
	}
	if len(out) != job.nStream*job.chunk {
		return errs.ErrInvalidArgument
	}

	decoders := make([]*codec.StreamDecoder, max(min(cfg.workers, job.nStream), 1))
	code = parallel.ForEachStream(job.nStream, cfg.workers, func(w int, s int) errs.Code {
		if decoders[w] == nil {
			decoders[w] = codec.NewStreamDecoder()
		}

		return job.decodeStream(decoders[w], s, out[s*job.chunk:(s+1)*job.chunk], cfg.logger)
	})

	return code.Err()
}

// DecodeInt32 decodes single-channel 32-bit streams. See Decode.
func DecodeInt32(
	data []byte, starts []int64, nbytes []int64, streamSize int,
	first int64, last int64, out []int32, opts ...Option,
) error {
	return Decode(data, starts, nbytes, streamSize, 1, first, last, out, opts...)
}

// DecodeInt64 decodes 64-bit streams produced by EncodeInt64.
// out must hold len(starts)*DecodedLen(streamSize, first, last) values.
func DecodeInt64(
	data []byte, starts []int64, nbytes []int64, streamSize int,
	first int64, last int64, out []int64, opts ...Option,
) error {
	pairs, commit := interleave.Target(out)
	err := Decode(data, starts, nbytes, streamSize, interleave.Channels, first, last, pairs, opts...)
	commit()

	return err
}

type decodeJob struct {
	data       []byte
	starts     []int64
	nbytes     []int64
	nStream    int
	streamSize int
	nChannels  int
	first      int64
	nDecode    int
	chunk      int
	ranged     bool
}

func newDecodeJob(
	data []byte, starts []int64, nbytes []int64, streamSize int, nChannels int,
	first int64, last int64, cfg *config,
) (*decodeJob, errs.Code) {
	switch {
	case len(starts) == 0:
		return nil, errs.ErrZeroNStream
	case streamSize <= 0:
		return nil, errs.ErrZeroStreamSize
	}

	nDecode, err := DecodedLen(streamSize, first, last)
	if err != nil {
		cfg.logger.Debug().Int64("first", first).Int64("last", last).Int("stream_size", streamSize).
			Msg("invalid sample range")
		return nil, errs.ErrDecodeSampleRange
	}
	if nChannels < 1 {
		return nil, errs.ErrInvalidArgument
	}
	if code := checkTables(len(data), starts, nbytes); code != errs.None {
		return nil, code
	}

	job := &decodeJob{
		data:       data,
		starts:     starts,
		nbytes:     nbytes,
		nStream:    len(starts),
		streamSize: streamSize,
		nChannels:  nChannels,
		nDecode:    nDecode,
		chunk:      nDecode * nChannels,
	}
	// a range covering the whole stream is decoded without seeking
	if nDecode != streamSize {
		job.first = first
		job.ranged = true
	}

	return job, errs.None
}

// decodeStream runs one codec session over stream s and writes its samples to slot.
func (j *decodeJob) decodeStream(dec *codec.StreamDecoder, s int, slot []int32, log zerolog.Logger) errs.Code {
	start := int(j.starts[s])
	src := newByteSource(j.data, start, start+int(j.nbytes[s]))

	// filled counts samples stored in slot, produced every sample the codec delivered
	filled, produced := 0, 0
	write := func(info codec.FrameInfo, channels [][]int32) error {
		if len(channels) != j.nChannels {
			return fmt.Errorf("%w: frame has %d, want %d", errChannels, len(channels), j.nChannels)
		}
		produced += info.Samples
		n := min(info.Samples, j.nDecode-filled)
		base := filled * j.nChannels
		for c, ch := range channels {
			for i, v := range ch[:n] {
				slot[base+i*j.nChannels+c] = v
			}
		}
		filled += n
		log.Trace().Int("stream", s).Uint64("frame", info.Frame).Int("samples", info.Samples).
			Int("decoded", filled).Msg("frame")

		return nil
	}
	onError := func(err error) {
		log.Warn().Err(err).
			Int("stream", s).
			Int("pos", src.pos).
			Int("end", src.end).
			Int("decoded", filled).
			Msg("decode error")
	}

	if err := dec.Init(src, write, onError); err != nil {
		return errs.ErrDecodeInit
	}

	code := errs.None
	if j.ranged {
		code = j.decodeRange(dec, &filled)
	} else {
		if err := dec.ProcessUntilEndOfStream(); err != nil {
			code |= errs.ErrDecodeProcess
		} else if produced != j.streamSize {
			log.Warn().Int("stream", s).Int("decoded", produced).Int("stream_size", j.streamSize).
				Msg("decoded sample count mismatch")
			code |= errs.ErrDecodeStreamSize
		}
	}

	if err := dec.Finish(); err != nil {
		code |= errs.ErrDecodeFinish
	}

	return code | src.code
}

func (j *decodeJob) decodeRange(dec *codec.StreamDecoder, filled *int) errs.Code {
	if err := dec.SeekAbsolute(uint64(j.first)); err != nil { //nolint:gosec
		return errs.ErrDecodeSeek
	}
	for *filled < j.nDecode {
		if err := dec.ProcessSingle(); err != nil {
			return errs.ErrDecodeProcess
		}
		if dec.State() == codec.DecoderEndOfStream {
			return errs.ErrDecodeStreamSize
		}
	}

	return errs.None
}
