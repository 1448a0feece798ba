package ops

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// selectMinParallel returns the index of a minimum element. Shards scan
// concurrently and publish their local winner; among equal minima the
// shard that publishes first wins, so the returned index is not
// reproducible when the minimum value occurs more than once. There is
// no known tie-break that keeps the parallel scan and fixes the index,
// which is why this operator registers as NondeterministicOnly rather
// than carrying an alternate.
//
// Args: "values" []float64, optional "workers" int. Returns int.
func selectMinParallel(ctx context.Context, args map[string]any) (any, error) {
	values, err := floatSlice(args, "values")
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: values", ErrEmptyInput)
	}
	workers, err := workerCount(args)
	if err != nil {
		return nil, err
	}
	if workers > len(values) {
		workers = len(values)
	}

	type candidate struct {
		index int
		value float64
	}

	candidates := make(chan candidate, workers)
	g, ctx := errgroup.WithContext(ctx)

	chunk := (len(values) + workers - 1) / workers
	for start := 0; start < len(values); start += chunk {
		end := start + chunk
		if end > len(values) {
			end = len(values)
		}
		lo, hi := start, end
		g.Go(func() error {
			best := candidate{index: lo, value: values[lo]}
			for i := lo + 1; i < hi; i++ {
				if values[i] < best.value {
					best = candidate{index: i, value: values[i]}
				}
			}
			select {
			case candidates <- best:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(candidates)

	// Strict less-than: ties keep the earliest arrival, which is
	// whichever shard the scheduler finished first.
	var winner *candidate
	for c := range candidates {
		if winner == nil || c.value < winner.value {
			w := c
			winner = &w
		}
	}
	return winner.index, nil
}
