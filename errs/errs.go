// Package errs defines the failure kinds reported by flacarray.
//
// Every kind is a single bit of Code. Failures from independently processed
// streams are combined with a bitwise OR, so one returned Code can carry several
// kinds at once. Code implements error, and errors.Is matches a Code against any
// of the sentinel kinds it contains:
//
//	_, err := stream.EncodeInt32(data, nStream, streamSize, 9)
//	if errors.Is(err, errs.ErrInvalidLevel) {
//	    // ...
//	}
//
// The bit values match the integer codes of the original C library, so a Code
// can be exchanged with existing bindings through Code.Value.
package errs

import (
	"errors"
	"strings"
)

// Code is a set of simultaneously possible failure kinds.
//
// The zero Code means success and is never returned as a non-nil error by the
// flacarray packages; use Code.Err to convert an accumulated Code to an error.
type Code uint32

const (
	ErrAlloc              Code = 1 << iota // memory allocation failure
	ErrInvalidLevel                        // compression level outside 0-8
	ErrZeroNStream                         // zero stream count
	ErrZeroStreamSize                      // zero samples per stream
	ErrEncodeSetCompLevel                  // codec rejected the compression level
	ErrEncodeSetBlockSize                  // codec rejected the block size
	ErrEncodeSetChannels                   // codec rejected the channel count
	ErrEncodeSetBPS                        // codec rejected the bits per sample
	ErrEncodeInit                          // codec encode session init failure
	ErrEncodeProcess                       // codec encode processing failure
	ErrEncodeFinish                        // codec encode finish failure
	ErrEncodeCollect                       // a stream never produced output
	ErrDecodeReadZeroBuf                   // decoder asked to read into an empty buffer
	ErrDecodeInit                          // codec decode session init failure
	ErrDecodeProcess                       // codec decode processing failure
	ErrDecodeFinish                        // codec decode finish failure
	ErrDecodeStreamSize                    // decoded sample count differs from the stream size
	ErrDecodeSampleRange                   // invalid sample range
	ErrConvertType                         // numeric range overflow during conversion
	ErrDecodeSeek                          // codec seek failure
	ErrInvalidArgument                     // slice shapes disagree with the stream layout

	codeEnd
)

// None is the empty Code.
const None Code = 0

var codeNames = [...]string{
	"allocation failure",
	"invalid compression level",
	"zero stream count",
	"zero stream size",
	"encoder rejected compression level",
	"encoder rejected block size",
	"encoder rejected channel count",
	"encoder rejected bits per sample",
	"encoder init failed",
	"encoder process failed",
	"encoder finish failed",
	"encoder output collection failed",
	"decoder read into zero-length buffer",
	"decoder init failed",
	"decoder process failed",
	"decoder finish failed",
	"decoded stream size mismatch",
	"invalid sample range",
	"numeric conversion out of range",
	"decoder seek failed",
	"invalid argument",
}

// Error implements error. Multiple kinds are joined with "; ".
func (c Code) Error() string {
	if c == None {
		return "no error"
	}

	kinds := c.Kinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.name())
	}

	return "flacarray: " + strings.Join(names, "; ")
}

// String returns the same text as Error.
func (c Code) String() string {
	return c.Error()
}

// Is reports whether target is a Code whose kinds are all present in c.
func (c Code) Is(target error) bool {
	var t Code
	if !errors.As(target, &t) {
		return false
	}

	return t != None && c&t == t
}

// Has reports whether c contains every kind in k.
func (c Code) Has(k Code) bool {
	return k != None && c&k == k
}

// Kinds splits c into its single-bit kinds, lowest bit first.
func (c Code) Kinds() []Code {
	var kinds []Code
	for k := Code(1); k < codeEnd; k <<= 1 {
		if c&k != 0 {
			kinds = append(kinds, k)
		}
	}

	return kinds
}

// Value returns the raw bitmask, compatible with the original integer codes.
func (c Code) Value() uint32 {
	return uint32(c)
}

// Err returns nil for None and c otherwise.
func (c Code) Err() error {
	if c == None {
		return nil
	}

	return c
}

// From extracts the Code carried by err.
// A nil error gives None; an error that carries no Code gives fallback.
func From(err error, fallback Code) Code {
	if err == nil {
		return None
	}

	var c Code
	if errors.As(err, &c) {
		return c
	}

	return fallback
}

func (c Code) name() string {
	for i := range codeNames {
		if c == Code(1)<<i {
			return codeNames[i]
		}
	}

	return "unknown error"
}
