package codec

import (
	"fmt"

	"github.com/arloliu/flacarray/compress"
	"github.com/arloliu/flacarray/format"
	"github.com/arloliu/flacarray/internal/encoding"
	"github.com/arloliu/flacarray/internal/hash"
	"github.com/arloliu/flacarray/section"
)

// EncoderState is the lifecycle state of a StreamEncoder.
type EncoderState uint8

const (
	EncoderUninitialized EncoderState = iota // setters allowed
	EncoderOK                                // initialized, accepting samples
	EncoderFinished                          // Finish succeeded
	EncoderFailed                            // a write or process call failed
)

func (s EncoderState) String() string {
	switch s {
	case EncoderUninitialized:
		return "Uninitialized"
	case EncoderOK:
		return "OK"
	case EncoderFinished:
		return "Finished"
	case EncoderFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// WriteFunc receives encoded bytes.
//
// During Init it is called once with the stream header, samples == 0 and
// frame == 0. Afterwards it is called once per frame with the number of
// samples per channel in the frame and the zero-based frame index.
// p is only valid for the duration of the call.
type WriteFunc func(p []byte, samples int, frame uint64) error

// StreamEncoder encodes one stream of interleaved 32-bit samples.
type StreamEncoder struct {
	state     EncoderState
	err       error
	level     int
	blockSize int
	channels  int
	bps       int

	params     Level
	write      WriteFunc
	compressor compress.Codec
	sub        *encoding.Encoder

	pending  []int32
	planar   [][]int32
	payload  []byte
	frameBuf []byte
	frame    uint64
	sample   uint64
}

// NewStreamEncoder returns an encoder with level 5, one channel, 32 bits per
// sample and the level's default block size.
func NewStreamEncoder() *StreamEncoder {
	return &StreamEncoder{
		level:    DefaultLevel,
		channels: 1,
		bps:      MaxBitsPerSample,
	}
}

// SetCompressionLevel sets the compression level in [0, 8].
func (e *StreamEncoder) SetCompressionLevel(level int) error {
	if e.state != EncoderUninitialized {
		return ErrState
	}
	if _, err := LevelParams(level); err != nil {
		return err
	}
	e.level = level

	return nil
}

// SetBlockSize sets the samples per channel in a frame. Zero selects the level default.
func (e *StreamEncoder) SetBlockSize(n int) error {
	if e.state != EncoderUninitialized {
		return ErrState
	}
	if n != 0 && (n < MinBlockSize || n > MaxBlockSize) {
		return fmt.Errorf("%w: block size %d", ErrInvalidParameter, n)
	}
	e.blockSize = n

	return nil
}

// SetChannels sets the number of interleaved channels per sample.
func (e *StreamEncoder) SetChannels(n int) error {
	if e.state != EncoderUninitialized {
		return ErrState
	}
	if n < 1 || n > MaxChannels {
		return fmt.Errorf("%w: %d channels", ErrInvalidParameter, n)
	}
	e.channels = n

	return nil
}

// SetBitsPerSample sets the signed sample width in bits.
func (e *StreamEncoder) SetBitsPerSample(bps int) error {
	if e.state != EncoderUninitialized {
		return ErrState
	}
	if bps < MinBitsPerSample || bps > MaxBitsPerSample {
		return fmt.Errorf("%w: %d bits per sample", ErrInvalidParameter, bps)
	}
	e.bps = bps

	return nil
}

// State returns the encoder state.
func (e *StreamEncoder) State() EncoderState {
	return e.state
}

// BlockSize returns the effective block size once the encoder is initialized,
// or the configured value before.
func (e *StreamEncoder) BlockSize() int {
	return e.blockSize
}

// Init starts the session and writes the stream header through write.
func (e *StreamEncoder) Init(write WriteFunc) error {
	if e.state != EncoderUninitialized {
		return ErrState
	}
	if write == nil {
		return fmt.Errorf("%w: nil write callback", ErrInvalidParameter)
	}

	params, err := LevelParams(e.level)
	if err != nil {
		return err
	}
	compressor, err := compress.CreateCodec(params.Compression, params.ZstdLevel)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}

	if e.blockSize == 0 {
		e.blockSize = params.BlockSize
	}
	e.params = params
	e.write = write
	e.compressor = compressor
	e.sub = encoding.NewEncoder(params.MaxOrder)
	e.planar = make([][]int32, e.channels)
	for c := range e.planar {
		e.planar[c] = make([]int32, e.blockSize)
	}
	e.pending = make([]int32, 0, e.blockSize*e.channels)

	header := section.StreamHeader{
		Channels:      uint8(e.channels),
		BitsPerSample: uint8(e.bps),
		Compression:   params.Compression,
		Level:         uint8(e.level),
		BlockSize:     uint32(e.blockSize),
	}
	if err := write(header.Bytes(), 0, 0); err != nil {
		return e.fail(fmt.Errorf("%w: stream header: %w", ErrWrite, err))
	}
	e.state = EncoderOK

	return nil
}

// ProcessInterleaved encodes n samples per channel taken from samples, which
// holds them interleaved by channel. Whole frames are written as soon as they
// fill up; the remainder is buffered until the next call or Finish.
func (e *StreamEncoder) ProcessInterleaved(samples []int32, n int) error {
	if e.state != EncoderOK {
		return e.stateErr()
	}
	total := n * e.channels
	if n < 0 || total > len(samples) {
		return e.fail(fmt.Errorf("%w: %d samples requested, %d available", ErrInvalidParameter, n, len(samples)/e.channels))
	}
	data := samples[:total]
	if err := e.checkRange(data); err != nil {
		return e.fail(err)
	}

	frameLen := e.blockSize * e.channels
	if len(e.pending) > 0 {
		take := min(frameLen-len(e.pending), len(data))
		e.pending = append(e.pending, data[:take]...)
		data = data[take:]
		if len(e.pending) == frameLen {
			if err := e.encodeFrame(e.pending); err != nil {
				return e.fail(err)
			}
			e.pending = e.pending[:0]
		}
	}

	for len(data) >= frameLen {
		if err := e.encodeFrame(data[:frameLen]); err != nil {
			return e.fail(err)
		}
		data = data[frameLen:]
	}
	e.pending = append(e.pending, data...)

	return nil
}

// Finish flushes the last partial frame and ends the session.
func (e *StreamEncoder) Finish() error {
	if e.state != EncoderOK {
		return e.stateErr()
	}
	if len(e.pending) > 0 {
		if err := e.encodeFrame(e.pending); err != nil {
			return e.fail(err)
		}
		e.pending = e.pending[:0]
	}
	e.state = EncoderFinished

	return nil
}

// Samples returns the number of samples per channel written in complete frames so far.
func (e *StreamEncoder) Samples() uint64 {
	return e.sample
}

func (e *StreamEncoder) checkRange(data []int32) error {
	if e.bps == MaxBitsPerSample {
		return nil
	}
	hi := int32(1)<<(e.bps-1) - 1
	lo := -hi - 1
	for i, v := range data {
		if v < lo || v > hi {
			return fmt.Errorf("%w: value %d at %d exceeds %d bits", ErrSampleRange, v, i, e.bps)
		}
	}

	return nil
}

func (e *StreamEncoder) encodeFrame(interleaved []int32) error {
	n := len(interleaved) / e.channels
	for c := range e.channels {
		ch := e.planar[c][:n]
		for i := range ch {
			ch[i] = interleaved[i*e.channels+c]
		}
	}

	e.payload = e.payload[:0]
	for c := range e.channels {
		e.payload = e.sub.AppendSubframe(e.payload, e.planar[c][:n])
	}
	if uint64(len(e.payload)) > section.MaxPayloadSize {
		return fmt.Errorf("%w: frame payload of %d bytes", ErrInvalidParameter, len(e.payload))
	}

	data, flags := e.payload, uint8(section.FlagStored)
	if e.params.Compression != format.CompressionNone {
		compressed, err := e.compressor.Compress(e.payload)
		// a failed or useless compression falls back to storing the payload
		if err == nil && len(compressed) < len(e.payload) {
			data, flags = compressed, 0
		}
	}

	header := section.FrameHeader{
		Flags:       flags,
		Channels:    uint8(e.channels),
		Samples:     uint32(n),
		FirstSample: e.sample,
		PayloadLen:  uint32(len(data)),
		RawLen:      uint32(len(e.payload)),
	}
	e.frameBuf = header.AppendTo(e.frameBuf[:0])
	header.Checksum = hash.Checksum(e.frameBuf[:section.FrameChecksumOffset], data)
	e.frameBuf = header.AppendTo(e.frameBuf[:0])
	e.frameBuf = append(e.frameBuf, data...)

	if err := e.write(e.frameBuf, n, e.frame); err != nil {
		return fmt.Errorf("%w: frame %d: %w", ErrWrite, e.frame, err)
	}
	e.frame++
	e.sample += uint64(n)

	return nil
}

func (e *StreamEncoder) fail(err error) error {
	e.state = EncoderFailed
	e.err = err

	return err
}

func (e *StreamEncoder) stateErr() error {
	if e.state == EncoderFailed && e.err != nil {
		return fmt.Errorf("%w: %w", ErrState, e.err)
	}

	return ErrState
}
