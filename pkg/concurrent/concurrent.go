package concurrent

import (
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/zerodeaths/zerodeaths/pkg/sequence"
)

// ParallelMap applies mapFn to each element of the iterator in parallel, preserving order.
// The workers parameter caps the number of goroutines; zero or less means no cap.
// Every element is processed; the returned error joins the failures in input order.
func ParallelMap[T any, R any](i *sequence.Iterator[T], workers int, mapFn func(T) (R, error)) ([]R, error) {
	in := i.Collect()
	out := make([]R, len(in))
	errs := make([]error, len(in))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for idx, val := range in {
		g.Go(func() error {
			out[idx], errs[idx] = mapFn(val)
			return nil
		})
	}
	_ = g.Wait()

	return out, errors.Join(errs...)
}
