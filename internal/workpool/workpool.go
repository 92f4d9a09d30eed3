// Package workpool runs independent, indexed units of work across a fixed number of goroutines. Workers claim the next
// unclaimed index from a shared counter, so fast workers keep taking work until none remains.
package workpool

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Workers returns the number of goroutines Split uses when asked for zero or fewer.
func Workers() int {
	return runtime.GOMAXPROCS(0)
}

// Split calls do once for every index in [0, n), spreading the calls over at most workers goroutines, and returns the
// first error any call returned. Once a call fails no further indexes are claimed. If workers is zero or less, Workers()
// is used.
func Split(workers, n int, do func(i int) error) error {
	if n <= 0 {
		return nil
	}

	if workers <= 0 {
		workers = Workers()
	}
	workers = min(workers, n)

	if workers == 1 {
		for i := range n {
			if err := do(i); err != nil {
				return err
			}
		}
		return nil
	}

	var (
		next   atomic.Int64
		failed atomic.Bool
		eg     errgroup.Group
	)
	for range workers {
		eg.Go(func() error {
			for !failed.Load() {
				i := int(next.Add(1) - 1)
				if i >= n {
					return nil
				}

				if err := do(i); err != nil {
					failed.Store(true)
					return err
				}
			}
			return nil
		})
	}
	return eg.Wait()
}
