package compress

import "errors"

var (
	// ErrUnsupportedCompression is returned for an unknown compression type.
	ErrUnsupportedCompression = errors.New("unsupported compression type")
	// ErrCorruptPayload is returned when compressed data cannot be decoded.
	ErrCorruptPayload = errors.New("corrupt compressed payload")
)
