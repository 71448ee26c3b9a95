// Package parallel provides a chunked parallel-for helper for per-feature
// and per-instance work.
package parallel

import (
	"runtime"
	"sync"
)

// For splits [0, items) into one contiguous chunk per worker and runs fn on
// each chunk concurrently. fn receives the half-open range [start, end).
func For(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	workers := runtime.NumCPU()
	if workers > items {
		workers = items
	}
	chunk := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunk {
		end := start + chunk
		if end > items {
			end = items
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ForThreshold runs fn sequentially over the whole range when items is at or
// below threshold, and falls back to For otherwise. Small inputs are not
// worth the goroutine overhead.
func ForThreshold(items, threshold int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if items <= threshold {
		fn(0, items)
		return
	}
	For(items, fn)
}
