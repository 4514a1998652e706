package walk

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"
)

type slotResult[T any] struct {
	value T
	err   error
}

// ordered runs fn for positions 0..n-1 with at most width calls in flight
// and yields the results in position order.
//
// Results land in an arena of width slots indexed by position % width.
// Position i+width is admitted only after position i has been yielded, so a
// slot never holds more than one result. Stopping the iteration cancels the
// context passed to fn and waits for in-flight calls to return.
func ordered[T any](ctx context.Context, n, width int, fn func(ctx context.Context, i int) (T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		if n <= 0 {
			return
		}
		if width < 1 {
			width = 1
		}
		if width > n {
			width = n
		}

		ctx, cancel := context.WithCancel(ctx)
		g, gctx := errgroup.WithContext(ctx)
		defer func() {
			cancel()
			_ = g.Wait()
		}()

		slots := make([]chan slotResult[T], width)
		for i := range slots {
			slots[i] = make(chan slotResult[T], 1)
		}

		admit := func(i int) {
			slot := slots[i%width]
			g.Go(func() error {
				v, err := fn(gctx, i)
				slot <- slotResult[T]{value: v, err: err}
				return nil
			})
		}

		for i := 0; i < width; i++ {
			admit(i)
		}

		for i := 0; i < n; i++ {
			r := <-slots[i%width]
			if !yield(r.value, r.err) {
				return
			}
			if next := i + width; next < n {
				admit(next)
			}
		}
	}
}
