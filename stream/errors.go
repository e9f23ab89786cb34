package stream

import "errors"

var (
	// errZeroBuffer is returned by a byte source asked to fill an empty slice
	// while stream bytes remain.
	errZeroBuffer = errors.New("stream: read into zero-length buffer")
	// errSeekRange is returned by a byte source asked to move past the stream end.
	errSeekRange = errors.New("stream: seek beyond stream end")
	// errChannels is returned when a decoded frame has an unexpected channel count.
	errChannels = errors.New("stream: channel count mismatch")
)
