package sca

import "golang.org/x/sync/errgroup"

// minChunk keeps tiny scans on the calling goroutine.
const minChunk = 256

// forEachRange splits [0, n) into contiguous ranges and runs fn on up to
// workers goroutines. fn must only write state owned by its range. The call
// returns once every range is done.
func forEachRange(n, workers int, fn func(lo, hi int)) {
	if n == 0 {
		return
	}
	if workers <= 1 || n <= minChunk {
		fn(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
