package stream

import (
	"github.com/arloliu/flacarray/errs"
)

// Container holds the encoded bytes of a set of streams.
//
// Stream i occupies Bytes[Starts[i] : Starts[i]+NBytes[i]]. Streams are laid
// out contiguously in stream-index order.
type Container struct {
	Bytes  []byte
	Starts []int64
	NBytes []int64

	// StreamSize is the number of samples per stream.
	StreamSize int
	// Channels is the number of codec channels per sample.
	Channels int
}

// NStream returns the number of streams.
func (c *Container) NStream() int {
	return len(c.Starts)
}

// Stream returns the encoded bytes of stream i.
func (c *Container) Stream(i int) []byte {
	start := c.Starts[i]
	return c.Bytes[start : start+c.NBytes[i]]
}

// Validate checks that the offset tables are consistent with the byte buffer.
func (c *Container) Validate() error {
	return checkTables(len(c.Bytes), c.Starts, c.NBytes).Err()
}

// DecodeInt32 decodes samples [first, last) of every single-channel stream
// into out. Negative bounds select whole streams.
func (c *Container) DecodeInt32(first int64, last int64, out []int32, opts ...Option) error {
	return Decode(c.Bytes, c.Starts, c.NBytes, c.StreamSize, c.Channels, first, last, out, opts...)
}

// DecodeInt64 decodes samples [first, last) of every 64-bit stream into out.
func (c *Container) DecodeInt64(first int64, last int64, out []int64, opts ...Option) error {
	if c.Channels != 2 {
		return errs.ErrInvalidArgument
	}

	return DecodeInt64(c.Bytes, c.Starts, c.NBytes, c.StreamSize, first, last, out, opts...)
}

// Verify decodes every stream into scratch memory and reports what failed.
func (c *Container) Verify(opts ...Option) error {
	return Verify(c.Bytes, c.Starts, c.NBytes, c.StreamSize, c.Channels, -1, -1, opts...)
}

func checkTables(size int, starts []int64, nbytes []int64) errs.Code {
	if len(starts) != len(nbytes) {
		return errs.ErrInvalidArgument
	}
	for i, start := range starts {
		n := nbytes[i]
		if start < 0 || n < 0 || start > int64(size) || n > int64(size)-start {
			return errs.ErrInvalidArgument
		}
	}

	return errs.None
}
