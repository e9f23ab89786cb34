package section

import "errors"

var (
	// ErrInvalidHeaderSize is returned when a header buffer has the wrong length.
	ErrInvalidHeaderSize = errors.New("invalid header size")
	// ErrInvalidMagic is returned when a stream does not start with StreamMagic.
	ErrInvalidMagic = errors.New("invalid stream magic")
	// ErrUnsupportedVersion is returned for an unknown stream format version.
	ErrUnsupportedVersion = errors.New("unsupported stream version")
	// ErrInvalidSync is returned when a frame header does not start with FrameSync.
	ErrInvalidSync = errors.New("invalid frame sync code")
	// ErrInvalidField is returned when a header field holds an impossible value.
	ErrInvalidField = errors.New("invalid header field")
)
