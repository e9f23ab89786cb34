package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/flacarray/compress"
	"github.com/arloliu/flacarray/internal/encoding"
	"github.com/arloliu/flacarray/internal/hash"
	"github.com/arloliu/flacarray/section"
)

// ByteSource supplies the bytes of exactly one encoded stream.
//
// Offsets are relative to the start of the stream.
type ByteSource interface {
	// Read fills p with up to len(p) bytes. It returns io.EOF once the stream
	// is exhausted and may fail when it cannot make progress.
	Read(p []byte) (int, error)
	// Seek moves the read position to offset.
	Seek(offset uint64) error
	// Tell returns the current read position.
	Tell() (uint64, error)
	// Length returns the stream length in bytes.
	Length() (uint64, error)
	// EOF reports whether the read position reached the end of the stream.
	EOF() bool
}

// FrameInfo describes the samples handed to a FrameWriteFunc.
type FrameInfo struct {
	// Channels is the number of channel slices passed along.
	Channels int
	// Samples is the number of samples per channel passed along.
	Samples int
	// FirstSample is the stream-absolute index of the first sample passed along.
	FirstSample uint64
	// Frame is the zero-based index of the frame within the stream.
	Frame uint64
}

// FrameWriteFunc receives decoded samples, one slice per channel.
// The slices are only valid for the duration of the call.
type FrameWriteFunc func(frame FrameInfo, channels [][]int32) error

// ErrorFunc receives every error that stops a decoder, before it is returned.
type ErrorFunc func(err error)

// DecoderState is the lifecycle state of a StreamDecoder.
type DecoderState uint8

const (
	DecoderUninitialized DecoderState = iota // Init not called
	DecoderReadHeader                        // stream header not read yet
	DecoderReadFrame                         // positioned on a frame boundary
	DecoderEndOfStream                       // no frames left
	DecoderSeekError                         // the last seek failed
	DecoderAborted                           // a read, write or format error stopped decoding
)

func (s DecoderState) String() string {
	switch s {
	case DecoderUninitialized:
		return "Uninitialized"
	case DecoderReadHeader:
		return "ReadHeader"
	case DecoderReadFrame:
		return "ReadFrame"
	case DecoderEndOfStream:
		return "EndOfStream"
	case DecoderSeekError:
		return "SeekError"
	case DecoderAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// StreamDecoder decodes one stream produced by StreamEncoder.
type StreamDecoder struct {
	state   DecoderState
	err     error
	src     ByteSource
	write   FrameWriteFunc
	onError ErrorFunc

	info         section.StreamHeader
	decompressor compress.Codec
	sub          *encoding.Decoder

	hdr     [section.FrameHeaderSize]byte
	payload []byte
	planar  [][]int32
	views   [][]int32

	// frame index and first sample of the frame at the read position
	frame      uint64
	nextSample uint64
}

// NewStreamDecoder returns an uninitialized decoder.
func NewStreamDecoder() *StreamDecoder {
	return &StreamDecoder{}
}

// Init binds the decoder to its byte source and callbacks. onError may be nil.
//
// No bytes are read until the first Process or Seek call.
func (d *StreamDecoder) Init(src ByteSource, write FrameWriteFunc, onError ErrorFunc) error {
	if d.state != DecoderUninitialized {
		return ErrState
	}
	if src == nil || write == nil {
		return fmt.Errorf("%w: nil byte source or write callback", ErrInvalidParameter)
	}

	d.src = src
	d.write = write
	d.onError = onError
	d.sub = encoding.NewDecoder()
	d.state = DecoderReadHeader

	return nil
}

// State returns the decoder state.
func (d *StreamDecoder) State() DecoderState {
	return d.state
}

// Info returns the stream header. It is zero until the header has been read.
func (d *StreamDecoder) Info() section.StreamHeader {
	return d.info
}

// ProcessSingle decodes the next frame, reading the stream header first if needed.
//
// At the end of the stream it moves to DecoderEndOfStream and returns nil.
func (d *StreamDecoder) ProcessSingle() error {
	switch d.state {
	case DecoderUninitialized:
		return ErrState
	case DecoderEndOfStream:
		return nil
	case DecoderSeekError, DecoderAborted:
		return d.stateErr()
	case DecoderReadHeader:
		if err := d.readStreamHeader(); err != nil {
			return err
		}
	}

	return d.readFrame(0)
}

// ProcessUntilEndOfStream decodes every remaining frame.
func (d *StreamDecoder) ProcessUntilEndOfStream() error {
	for d.state != DecoderEndOfStream {
		if err := d.ProcessSingle(); err != nil {
			return err
		}
	}

	return nil
}

// SeekAbsolute positions the decoder on sample and immediately delivers the
// rest of the frame holding it, starting at sample.
//
// Frames are located by walking frame headers. The walk starts at the current
// position when the target lies ahead of it and at the first frame otherwise.
func (d *StreamDecoder) SeekAbsolute(sample uint64) error {
	switch d.state {
	case DecoderUninitialized:
		return ErrState
	case DecoderAborted:
		return d.stateErr()
	case DecoderReadHeader:
		if err := d.readStreamHeader(); err != nil {
			return err
		}
	}

	length, err := d.src.Length()
	if err != nil {
		return d.seekFail(fmt.Errorf("%w: length: %w", ErrSeek, err))
	}

	pos := uint64(section.StreamHeaderSize)
	frame, first := uint64(0), uint64(0)
	if d.state == DecoderReadFrame && sample >= d.nextSample {
		if pos, err = d.src.Tell(); err != nil {
			return d.seekFail(fmt.Errorf("%w: tell: %w", ErrSeek, err))
		}
		frame, first = d.frame, d.nextSample
	}

	var h section.FrameHeader
	for {
		if pos+section.FrameHeaderSize > length {
			return d.seekFail(fmt.Errorf("%w: sample %d beyond last frame ending at %d", ErrSeek, sample, first))
		}
		if err := d.src.Seek(pos); err != nil {
			return d.seekFail(fmt.Errorf("%w: offset %d: %w", ErrSeek, pos, err))
		}
		if _, err := readFull(d.src, d.hdr[:]); err != nil {
			return d.seekFail(fmt.Errorf("%w: frame header at %d: %w", ErrSeek, pos, err))
		}
		if err := h.Parse(d.hdr[:]); err != nil {
			return d.seekFail(fmt.Errorf("%w: frame header at %d: %w", ErrSeek, pos, err))
		}
		if h.FirstSample != first {
			return d.seekFail(fmt.Errorf("%w: frame at %d starts at sample %d, want %d", ErrSeek, pos, h.FirstSample, first))
		}
		if err := d.checkFrame(&h, pos+section.FrameHeaderSize); err != nil {
			return d.seekFail(fmt.Errorf("%w: frame header at %d: %w", ErrSeek, pos, err))
		}
		if sample < h.EndSample() {
			break
		}
		pos += section.FrameHeaderSize + uint64(h.PayloadLen)
		frame++
		first = h.EndSample()
	}

	if err := d.src.Seek(pos); err != nil {
		return d.seekFail(fmt.Errorf("%w: offset %d: %w", ErrSeek, pos, err))
	}
	d.frame, d.nextSample = frame, first
	d.state = DecoderReadFrame

	return d.readFrame(int(sample - first))
}

// Finish ends the session and returns the decoder to the uninitialized state.
func (d *StreamDecoder) Finish() error {
	if d.state == DecoderUninitialized {
		return ErrState
	}
	*d = StreamDecoder{
		payload: d.payload[:0],
		planar:  d.planar,
		views:   d.views,
	}

	return nil
}

func (d *StreamDecoder) readStreamHeader() error {
	var buf [section.StreamHeaderSize]byte
	if _, err := readFull(d.src, buf[:]); err != nil {
		return d.abort(fmt.Errorf("%w: %w", ErrBadHeader, err))
	}

	info, err := section.ParseStreamHeader(buf[:])
	if err != nil {
		return d.abort(fmt.Errorf("%w: %w", ErrBadHeader, err))
	}
	if info.Channels > MaxChannels || info.BlockSize > MaxBlockSize {
		return d.abort(fmt.Errorf("%w: %d channels, block size %d", ErrBadHeader, info.Channels, info.BlockSize))
	}
	decompressor, err := compress.GetCodec(info.Compression)
	if err != nil {
		return d.abort(fmt.Errorf("%w: %w", ErrBadHeader, err))
	}

	d.info = info
	d.decompressor = decompressor
	if len(d.planar) < int(info.Channels) {
		d.planar = make([][]int32, info.Channels)
		d.views = make([][]int32, info.Channels)
	}
	d.planar = d.planar[:info.Channels]
	d.views = d.views[:info.Channels]
	d.frame, d.nextSample = 0, 0
	d.state = DecoderReadFrame

	return nil
}

// readFrame decodes the frame at the read position and delivers its samples
// from index skip onwards.
func (d *StreamDecoder) readFrame(skip int) error {
	if d.src.EOF() {
		d.state = DecoderEndOfStream
		return nil
	}

	n, err := readFull(d.src, d.hdr[:])
	if err != nil {
		if n == 0 && errors.Is(err, io.EOF) {
			d.state = DecoderEndOfStream
			return nil
		}

		return d.abort(fmt.Errorf("%w: frame %d header: %w", ErrBadFrame, d.frame, err))
	}

	var h section.FrameHeader
	if err := h.Parse(d.hdr[:]); err != nil {
		return d.abort(fmt.Errorf("%w: frame %d: %w", ErrBadFrame, d.frame, err))
	}
	if h.Channels != d.info.Channels || h.FirstSample != d.nextSample {
		return d.abort(fmt.Errorf("%w: frame %d: %d channels at sample %d, want %d at %d",
			ErrBadFrame, d.frame, h.Channels, h.FirstSample, d.info.Channels, d.nextSample))
	}
	end, err := d.src.Tell()
	if err != nil {
		return d.abort(fmt.Errorf("%w: frame %d: tell: %w", ErrRead, d.frame, err))
	}
	if err := d.checkFrame(&h, end); err != nil {
		return d.abort(fmt.Errorf("%w: frame %d: %w", ErrBadFrame, d.frame, err))
	}

	if cap(d.payload) < int(h.PayloadLen) {
		d.payload = make([]byte, h.PayloadLen)
	}
	d.payload = d.payload[:h.PayloadLen]
	if _, err := readFull(d.src, d.payload); err != nil {
		return d.abort(fmt.Errorf("%w: frame %d payload: %w", ErrBadFrame, d.frame, err))
	}
	if sum := hash.Checksum(d.hdr[:section.FrameChecksumOffset], d.payload); sum != h.Checksum {
		return d.abort(fmt.Errorf("%w: frame %d: got %08x, want %08x", ErrChecksum, d.frame, sum, h.Checksum))
	}

	raw, err := d.decompress(&h)
	if err != nil {
		return d.abort(fmt.Errorf("%w: frame %d: %w", ErrBadFrame, d.frame, err))
	}

	samples := int(h.Samples)
	pos := 0
	for c := range d.planar {
		if cap(d.planar[c]) < samples {
			d.planar[c] = make([]int32, samples)
		}
		d.planar[c] = d.planar[c][:samples]
		if pos, err = d.sub.ReadSubframe(d.planar[c], raw, pos); err != nil {
			return d.abort(fmt.Errorf("%w: frame %d channel %d: %w", ErrBadFrame, d.frame, c, err))
		}
	}
	if pos != len(raw) {
		return d.abort(fmt.Errorf("%w: frame %d: %d trailing payload bytes", ErrBadFrame, d.frame, len(raw)-pos))
	}

	skip = min(max(skip, 0), samples)
	for c := range d.planar {
		d.views[c] = d.planar[c][skip:]
	}
	info := FrameInfo{
		Channels:    len(d.planar),
		Samples:     samples - skip,
		FirstSample: h.FirstSample + uint64(skip),
		Frame:       d.frame,
	}
	d.frame++
	d.nextSample = h.EndSample()

	if err := d.write(info, d.views); err != nil {
		return d.abort(fmt.Errorf("%w: frame %d: %w", ErrAborted, info.Frame, err))
	}

	return nil
}

// checkFrame bounds the header fields that size decode buffers. end is the
// stream offset just past the header.
func (d *StreamDecoder) checkFrame(h *section.FrameHeader, end uint64) error {
	if h.Samples > d.info.BlockSize {
		return fmt.Errorf("%w: %d samples in a stream of %d-sample blocks", section.ErrInvalidField, h.Samples, d.info.BlockSize)
	}
	maxRaw := uint64(d.info.Channels) * uint64(encoding.MaxSubframeSize(int(h.Samples)))
	if uint64(h.RawLen) > maxRaw {
		return fmt.Errorf("%w: raw payload of %d bytes exceeds %d", section.ErrInvalidField, h.RawLen, maxRaw)
	}
	length, err := d.src.Length()
	if err != nil {
		return fmt.Errorf("%w: length: %w", ErrRead, err)
	}
	if end+uint64(h.PayloadLen) > length {
		return fmt.Errorf("%w: payload of %d bytes at %d overruns stream of %d bytes", section.ErrInvalidField, h.PayloadLen, end, length)
	}

	return nil
}

func (d *StreamDecoder) decompress(h *section.FrameHeader) ([]byte, error) {
	if h.Stored() {
		return d.payload, nil
	}

	var (
		raw []byte
		err error
	)
	if sized, ok := d.decompressor.(compress.SizedDecompressor); ok {
		raw, err = sized.DecompressSized(d.payload, int(h.RawLen))
	} else {
		raw, err = d.decompressor.Decompress(d.payload)
	}
	if err != nil {
		return nil, err
	}
	if len(raw) != int(h.RawLen) {
		return nil, fmt.Errorf("decompressed %d bytes, want %d", len(raw), h.RawLen)
	}

	return raw, nil
}

func (d *StreamDecoder) abort(err error) error {
	d.state = DecoderAborted
	d.err = err
	if d.onError != nil {
		d.onError(err)
	}

	return err
}

func (d *StreamDecoder) seekFail(err error) error {
	d.state = DecoderSeekError
	d.err = err
	if d.onError != nil {
		d.onError(err)
	}

	return err
}

func (d *StreamDecoder) stateErr() error {
	if d.err != nil {
		return fmt.Errorf("%w: %w", ErrState, d.err)
	}

	return ErrState
}

// readFull reads exactly len(p) bytes from src.
//
// It returns io.EOF if no byte was available and io.ErrUnexpectedEOF if the
// source ran out part way. Other source failures are wrapped in ErrRead.
func readFull(src ByteSource, p []byte) (int, error) {
	n := 0
	for n < len(p) {
		m, err := src.Read(p[n:])
		n += m
		switch {
		case err == nil && m == 0:
			return n, fmt.Errorf("%w: %w", ErrRead, io.ErrNoProgress)
		case errors.Is(err, io.EOF):
			if n == len(p) {
				return n, nil
			}
			if n == 0 {
				return 0, io.EOF
			}

			return n, io.ErrUnexpectedEOF
		case err != nil:
			return n, fmt.Errorf("%w: %w", ErrRead, err)
		}
	}

	return n, nil
}
