// Package parallel runs per-stream work on a fixed set of workers.
//
// Stream indices are split into contiguous, disjoint ranges, one per worker.
// There is no work stealing. Once any stream reports a failure the remaining
// streams are skipped, but streams already running on other workers finish
// normally. Each worker accumulates its own errs.Code and the caller combines
// them, so no mutable state is shared apart from the skip flag.
package parallel

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/flacarray/errs"
)

// StreamFunc processes one stream and returns the failure kinds it hit.
type StreamFunc func(worker int, stream int) errs.Code

// DefaultWorkers returns the worker count used when none is configured.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// Partition returns the half-open stream range [lo, hi) handled by worker w
// out of workers when n streams are split contiguously.
func Partition(n int, workers int, w int) (lo int, hi int) {
	return w * n / workers, (w + 1) * n / workers
}

// ForEachStream calls fn for every stream index in [0, n).
//
// With workers <= 1 everything runs on the calling goroutine, in index order.
// Otherwise min(workers, n) goroutines each walk their own contiguous range.
// The returned Code is the OR of every per-stream result.
func ForEachStream(n int, workers int, fn StreamFunc) errs.Code {
	if n <= 0 {
		return errs.None
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		return runRange(0, n, 0, nil, fn)
	}

	var failed atomic.Bool
	results := make([]errs.Code, workers)

	var g errgroup.Group
	g.SetLimit(workers)
	for w := range workers {
		lo, hi := Partition(n, workers, w)
		g.Go(func() error {
			results[w] = runRange(lo, hi, w, &failed, fn)
			return results[w].Err()
		})
	}
	// every worker's code is kept in results; the first error alone is not enough
	_ = g.Wait()

	combined := errs.None
	for _, code := range results {
		combined |= code
	}

	return combined
}

func runRange(lo int, hi int, worker int, failed *atomic.Bool, fn StreamFunc) errs.Code {
	code := errs.None
	for i := lo; i < hi; i++ {
		if code != errs.None || (failed != nil && failed.Load()) {
			break
		}

		code |= fn(worker, i)
		if code != errs.None && failed != nil {
			failed.Store(true)
		}
	}

	return code
}
