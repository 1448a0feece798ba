package ops

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// batchedMultiplyParallel is the fast path for the matrix product: rows
// of the output are computed concurrently and, within each row, the
// shared dimension is split into stripes whose partial row vectors are
// folded in completion order. The per-cell additions therefore happen
// in an order chosen by the scheduler, and results may differ run to
// run.
//
// Args: "a" [][]float64 (m×k), "b" [][]float64 (k×n), optional
// "workers" int. Returns [][]float64 (m×n).
func batchedMultiplyParallel(ctx context.Context, args map[string]any) (any, error) {
	a, b, err := multiplyOperands(args)
	if err != nil {
		return nil, err
	}
	workers, err := workerCount(args)
	if err != nil {
		return nil, err
	}

	k := len(b)
	n := len(b[0])
	stripes := workers
	if stripes > k {
		stripes = k
	}
	if stripes < 1 {
		stripes = 1
	}

	out := make([][]float64, len(a))
	g, ctx := errgroup.WithContext(ctx)

	for i := range a {
		i := i
		row := a[i]
		g.Go(func() error {
			partials := make(chan []float64, stripes)
			rg, rctx := errgroup.WithContext(ctx)

			stripe := (k + stripes - 1) / stripes
			for start := 0; start < k; start += stripe {
				end := start + stripe
				if end > k {
					end = k
				}
				lo, hi := start, end
				rg.Go(func() error {
					partial := make([]float64, n)
					for p := lo; p < hi; p++ {
						ap := row[p]
						for j := 0; j < n; j++ {
							partial[j] += ap * b[p][j]
						}
					}
					select {
					case partials <- partial:
						return nil
					case <-rctx.Done():
						return rctx.Err()
					}
				})
			}

			if err := rg.Wait(); err != nil {
				return err
			}
			close(partials)

			acc := make([]float64, n)
			for partial := range partials {
				for j, v := range partial {
					acc[j] += v
				}
			}
			out[i] = acc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// batchedMultiplySequential is the reproducible alternate: the
// canonical i, j, k triple loop with a fixed accumulation order.
func batchedMultiplySequential(ctx context.Context, args map[string]any) (any, error) {
	a, b, err := multiplyOperands(args)
	if err != nil {
		return nil, err
	}

	k := len(b)
	n := len(b[0])
	out := make([][]float64, len(a))
	for i := range a {
		row := make([]float64, n)
		for j := 0; j < n; j++ {
			var acc float64
			for p := 0; p < k; p++ {
				acc += a[i][p] * b[p][j]
			}
			row[j] = acc
		}
		out[i] = row
	}
	return out, nil
}

func multiplyOperands(args map[string]any) ([][]float64, [][]float64, error) {
	a, err := matrix(args, "a")
	if err != nil {
		return nil, nil, err
	}
	b, err := matrix(args, "b")
	if err != nil {
		return nil, nil, err
	}
	if len(a) == 0 || len(b) == 0 || len(b[0]) == 0 {
		return nil, nil, fmt.Errorf("%w: a and b", ErrEmptyInput)
	}
	for i := range a {
		if len(a[i]) != len(b) {
			return nil, nil, fmt.Errorf("dimension mismatch: a row %d has %d columns, b has %d rows", i, len(a[i]), len(b))
		}
	}
	return a, b, nil
}
