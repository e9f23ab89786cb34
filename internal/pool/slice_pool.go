package pool

import "sync"

// int32SlicePool holds scratch buffers that live for a single encode or decode call.
var int32SlicePool = sync.Pool{
	New: func() any { return &[]int32{} },
}

// GetInt32Slice retrieves and resizes an int32 slice from the pool.
//
// The returned slice will have the exact length specified by the size parameter.
// Its contents are not cleared. The caller must call the returned cleanup function
// to return the slice to the pool.
//
// Example:
//
//	pairs, cleanup := pool.GetInt32Slice(2 * len(values))
//	defer cleanup()
func GetInt32Slice(size int) ([]int32, func()) {
	ptr, _ := int32SlicePool.Get().(*[]int32)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]int32, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { int32SlicePool.Put(ptr) }
}
