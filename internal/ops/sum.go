package ops

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// vectorSumParallel is the fast path: the input is sharded across
// workers and the partial sums are folded in completion order. Since
// floating-point addition is not associative, the result can differ
// between runs and between worker counts.
//
// Args: "values" []float64, optional "workers" int. Returns float64.
func vectorSumParallel(ctx context.Context, args map[string]any) (any, error) {
	values, err := floatSlice(args, "values")
	if err != nil {
		return nil, err
	}
	workers, err := workerCount(args)
	if err != nil {
		return nil, err
	}
	if workers > len(values) {
		workers = len(values)
	}
	if workers <= 1 {
		return sumRange(values), nil
	}

	partials := make(chan float64, workers)
	g, ctx := errgroup.WithContext(ctx)

	chunk := (len(values) + workers - 1) / workers
	for start := 0; start < len(values); start += chunk {
		end := start + chunk
		if end > len(values) {
			end = len(values)
		}
		part := values[start:end]
		g.Go(func() error {
			select {
			case partials <- sumRange(part):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(partials)

	// Fold in arrival order: whichever shard finished first is added
	// first. This is the order dependence the deterministic path
	// removes.
	var total float64
	for p := range partials {
		total += p
	}
	return total, nil
}

// vectorSumSequential is the reproducible alternate: a single
// left-to-right pass. Slower on large inputs, bit-identical always.
func vectorSumSequential(ctx context.Context, args map[string]any) (any, error) {
	values, err := floatSlice(args, "values")
	if err != nil {
		return nil, err
	}
	return sumRange(values), nil
}

func sumRange(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}
