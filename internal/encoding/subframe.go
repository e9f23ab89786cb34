package encoding

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/arloliu/flacarray/endian"
	"github.com/arloliu/flacarray/format"
)

var (
	// ErrTruncated is returned when a subframe ends before all samples are read.
	ErrTruncated = errors.New("subframe truncated")
	// ErrInvalidSubframe is returned for an unknown subframe type or predictor order.
	ErrInvalidSubframe = errors.New("invalid subframe")
)

var engine = endian.GetLittleEndianEngine()

// Encoder packs channel blocks into subframes, reusing its residual scratch.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	maxOrder  int
	residuals []int64
}

// NewEncoder returns an Encoder that tries fixed predictors up to maxOrder.
func NewEncoder(maxOrder int) *Encoder {
	return &Encoder{maxOrder: min(max(maxOrder, 0), MaxOrder)}
}

// AppendSubframe appends the smallest subframe layout for x to dst.
// x must not be empty.
func (e *Encoder) AppendSubframe(dst []byte, x []int32) []byte {
	if isConstant(x) {
		dst = append(dst, byte(format.SubframeConstant))
		return AppendVarint(dst, int64(x[0]))
	}

	start := len(dst)
	verbatimSize := 1 + 4*len(x)

	order := BestOrder(x, e.maxOrder)
	dst = append(dst, byte(format.SubframeFixed), byte(order))
	for i := range order {
		dst = AppendVarint(dst, int64(x[i]))
	}
	e.residuals = Residuals(e.residuals, x, order)
	for _, r := range e.residuals {
		dst = AppendVarint(dst, r)
		if len(dst)-start > verbatimSize {
			return appendVerbatim(dst[:start], x)
		}
	}

	return dst
}

// MaxSubframeSize returns an upper bound on the encoded size of a subframe of
// n samples.
func MaxSubframeSize(n int) int {
	return 2 + 4*n + (MaxOrder+1)*binary.MaxVarintLen64
}

func appendVerbatim(dst []byte, x []int32) []byte {
	dst = append(dst, byte(format.SubframeVerbatim))
	for _, v := range x {
		dst = engine.AppendUint32(dst, uint32(v)) //nolint:gosec
	}

	return dst
}

func isConstant(x []int32) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}

	return true
}

// Decoder unpacks subframes, reusing its residual scratch.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	residuals []int64
}

// NewDecoder returns a Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// ReadSubframe fills x with one subframe read from data at offset and returns
// the offset just past it.
func (d *Decoder) ReadSubframe(x []int32, data []byte, offset int) (int, error) {
	if offset >= len(data) {
		return offset, ErrTruncated
	}

	kind := format.SubframeType(data[offset])
	pos := offset + 1

	switch kind {
	case format.SubframeConstant:
		v, next, ok := ReadVarint(data, pos)
		if !ok {
			return offset, ErrTruncated
		}
		for i := range x {
			x[i] = int32(v) //nolint:gosec
		}

		return next, nil

	case format.SubframeVerbatim:
		end := pos + 4*len(x)
		if end > len(data) {
			return offset, ErrTruncated
		}
		for i := range x {
			x[i] = int32(engine.Uint32(data[pos+4*i:])) //nolint:gosec
		}

		return end, nil

	case format.SubframeFixed:
		return d.readFixed(x, data, offset, pos)

	default:
		return offset, fmt.Errorf("%w: type %d", ErrInvalidSubframe, kind)
	}
}

func (d *Decoder) readFixed(x []int32, data []byte, offset int, pos int) (int, error) {
	if pos >= len(data) {
		return offset, ErrTruncated
	}
	order := int(data[pos])
	pos++
	if order > MaxOrder || order > len(x) {
		return offset, fmt.Errorf("%w: predictor order %d", ErrInvalidSubframe, order)
	}

	var (
		v  int64
		ok bool
	)
	for i := range order {
		v, pos, ok = ReadVarint(data, pos)
		if !ok {
			return offset, ErrTruncated
		}
		x[i] = int32(v) //nolint:gosec
	}

	d.residuals = d.residuals[:0]
	for range len(x) - order {
		v, pos, ok = ReadVarint(data, pos)
		if !ok {
			return offset, ErrTruncated
		}
		d.residuals = append(d.residuals, v)
	}
	Restore(x, d.residuals, order)

	return pos, nil
}
