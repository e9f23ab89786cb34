package stream

import (
	"github.com/arloliu/flacarray/codec"
	"github.com/arloliu/flacarray/errs"
)

// Verify decodes the streams one after another into scratch memory and
// returns the failure kinds it hit. Each stream's byte range and outcome is
// logged at debug level and every frame at trace level. Arguments follow
// Decode; worker options are ignored.
//
// Verify stops at the first failing stream.
func Verify(
	data []byte, starts []int64, nbytes []int64, streamSize int, nChannels int,
	first int64, last int64, opts ...Option,
) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}

	job, code := newDecodeJob(data, starts, nbytes, streamSize, nChannels, first, last, cfg)
	if code != errs.None {
		return code
	}

	log := cfg.logger
	scratch := make([]int32, job.chunk)
	dec := codec.NewStreamDecoder()
	for s := range job.nStream {
		log.Debug().
			Int("stream", s).
			Int64("start", starts[s]).
			Int64("end", starts[s]+nbytes[s]).
			Int("output_start", s*job.chunk).
			Bool("ranged", job.ranged).
			Msg("verifying stream")

		code = job.decodeStream(dec, s, scratch, log)
		if code != errs.None {
			log.Debug().Int("stream", s).Stringer("code", code).Msg("stream failed")
			return code
		}
		log.Debug().Int("stream", s).Msg("stream ok")
	}

	return nil
}
