package stream

import (
	"fmt"
	"io"

	"github.com/arloliu/flacarray/errs"
)

// byteSource exposes the byte range [start, end) of a shared buffer as one
// stream. Positions handed to and returned from the codec are relative to start.
type byteSource struct {
	data  []byte
	start int
	end   int
	pos   int
	code  errs.Code
}

func newByteSource(data []byte, start int, end int) *byteSource {
	return &byteSource{data: data, start: start, end: end, pos: start}
}

func (s *byteSource) Read(p []byte) (int, error) {
	remaining := s.end - s.pos
	if remaining == 0 {
		return 0, io.EOF
	}
	if len(p) == 0 {
		s.code |= errs.ErrDecodeReadZeroBuf
		return 0, errZeroBuffer
	}

	n := copy(p, s.data[s.pos:s.end])
	s.pos += n

	return n, nil
}

func (s *byteSource) Seek(offset uint64) error {
	if offset > uint64(s.end-s.start) {
		return fmt.Errorf("%w: offset %d, length %d", errSeekRange, offset, s.end-s.start)
	}
	s.pos = s.start + int(offset) //nolint:gosec

	return nil
}

func (s *byteSource) Tell() (uint64, error) {
	return uint64(s.pos - s.start), nil //nolint:gosec
}

func (s *byteSource) Length() (uint64, error) {
	return uint64(s.end - s.start), nil //nolint:gosec
}

func (s *byteSource) EOF() bool {
	return s.pos >= s.end
}
