// Package stream encodes many equally sized integer streams into one
// compressed byte buffer and decodes them back, whole or by sample range.
//
// Every stream is an independent codec session. The encoder returns a
// Container holding the concatenated stream bytes together with the start
// offset and byte length of every stream, which is all a decoder needs to
// locate them again:
//
//	c, err := stream.EncodeInt32(data, nStream, streamSize, 5)
//	if err != nil {
//	    return err
//	}
//	out := make([]int32, nStream*10)
//	err = c.DecodeInt32(500, 510, out)
//
// Streams can be spread over several workers with WithThreads or
// WithWorkers. The result is identical to the sequential one. Failures are
// reported as an errs.Code combining the failure kinds of every stream.
package stream
