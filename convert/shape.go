package convert

import "github.com/arloliu/flacarray/errs"

// checkShape validates the stream layout of a flat array of n values.
func checkShape(n int, nStream int, streamSize int) errs.Code {
	switch {
	case nStream <= 0:
		return errs.ErrZeroNStream
	case streamSize <= 0:
		return errs.ErrZeroStreamSize
	case n != nStream*streamSize:
		return errs.ErrInvalidArgument
	}

	return errs.None
}

// checkParams validates a per-stream parameter slice. Nil is allowed when optional.
func checkParams(n int, nStream int, optional bool) errs.Code {
	if n == 0 && optional {
		return errs.None
	}
	if n != nStream {
		return errs.ErrInvalidArgument
	}

	return errs.None
}
