package pool

import (
	"io"
	"sync"

	"github.com/arloliu/flacarray/errs"
)

const (
	// StreamBufferDefaultSize is the starting capacity of a pooled per-stream buffer.
	StreamBufferDefaultSize = 1024 * 64 // 64KiB
	// StreamBufferMaxThreshold is the largest capacity a pooled buffer may keep.
	StreamBufferMaxThreshold = 1024 * 1024 * 16 // 16MiB
)

// MaxBufferSize is the largest capacity a ByteBuffer is allowed to reach.
//
// Requests above it fail with errs.ErrAlloc instead of letting the runtime
// abort the process on an impossible allocation.
var MaxBufferSize = 1 << 40

// ByteBuffer is an owned byte container that grows by doubling.
//
// Capacity never shrinks. Reducing the length through Resize keeps the
// allocation for later growth.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a buffer with the given starting capacity and zero length.
//
// A negative or oversized capacity returns errs.ErrAlloc together with a valid,
// empty buffer.
func NewByteBuffer(initialCap int) (*ByteBuffer, error) {
	bb := &ByteBuffer{}
	if initialCap < 0 || initialCap > MaxBufferSize {
		return bb, errs.ErrAlloc
	}
	if initialCap > 0 {
		bb.B = make([]byte, 0, initialCap)
	}

	return bb, nil
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Resize sets the length of the buffer to n, growing the capacity if needed.
//
// Growth doubles the current capacity until it reaches n; an empty buffer is
// allocated with exactly n bytes. Existing bytes are preserved. When the
// doubled capacity would exceed MaxBufferSize the call returns errs.ErrAlloc
// and the buffer is left exactly as it was.
func (bb *ByteBuffer) Resize(n int) error {
	if n < 0 {
		return errs.ErrAlloc
	}
	if n <= cap(bb.B) {
		bb.B = bb.B[:n]
		return nil
	}

	newCap, ok := grownCap(cap(bb.B), n)
	if !ok {
		return errs.ErrAlloc
	}

	newBuf := make([]byte, n, newCap)
	copy(newBuf, bb.B)
	bb.B = newBuf

	return nil
}

// grownCap doubles cur until it reaches need.
func grownCap(cur int, need int) (int, bool) {
	if need > MaxBufferSize {
		return 0, false
	}
	if cur == 0 {
		return need, true
	}

	try := cur
	for try < need {
		if try > MaxBufferSize/2 {
			// the next doubling would pass the limit; settle for the limit itself
			try = MaxBufferSize
			break
		}
		try *= 2
	}

	return try, true
}

// Write appends data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	start := len(bb.B)
	if err := bb.Resize(start + len(data)); err != nil {
		return 0, err
	}
	copy(bb.B[start:], data)

	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// Buffers whose capacity grew past maxThreshold are dropped on Put instead of
// being retained.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return &ByteBuffer{B: make([]byte, 0, defaultSize)}
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var streamDefaultPool = NewByteBufferPool(StreamBufferDefaultSize, StreamBufferMaxThreshold)

// GetStreamBuffer retrieves a ByteBuffer from the default per-stream pool.
func GetStreamBuffer() *ByteBuffer {
	return streamDefaultPool.Get()
}

// PutStreamBuffer returns a ByteBuffer to the default per-stream pool.
func PutStreamBuffer(bb *ByteBuffer) {
	streamDefaultPool.Put(bb)
}
