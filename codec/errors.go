package codec

import "errors"

var (
	// ErrInvalidParameter is returned when a setter or Init receives an unusable value.
	ErrInvalidParameter = errors.New("codec: invalid parameter")
	// ErrState is returned when an operation is not allowed in the session's current state.
	ErrState = errors.New("codec: invalid session state")
	// ErrSampleRange is returned when a sample does not fit the configured bits per sample.
	ErrSampleRange = errors.New("codec: sample out of range")
	// ErrWrite is returned when the WriteFunc of an encoder fails.
	ErrWrite = errors.New("codec: write callback failed")
	// ErrBadHeader is returned when a stream header is missing or malformed.
	ErrBadHeader = errors.New("codec: bad stream header")
	// ErrBadFrame is returned when a frame is truncated or malformed.
	ErrBadFrame = errors.New("codec: bad frame")
	// ErrChecksum is returned when a frame payload does not match its checksum.
	ErrChecksum = errors.New("codec: frame checksum mismatch")
	// ErrSeek is returned when a seek target cannot be reached.
	ErrSeek = errors.New("codec: seek failed")
	// ErrRead is returned when the ByteSource fails with anything but end of data.
	ErrRead = errors.New("codec: read callback failed")
	// ErrAborted is returned when the FrameWriteFunc of a decoder fails.
	ErrAborted = errors.New("codec: aborted by write callback")
)
