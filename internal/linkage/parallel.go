package linkage

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// minChunk keeps goroutine overhead below scoring cost for small pools.
const minChunk = 64

// proposeAll evaluates fn for every pending slot with at most workers
// goroutines. Results are slot-indexed so the output never depends on
// scheduling.
func proposeAll(ctx context.Context, workers int, pending []int, fn func(li int) proposal) ([]proposal, error) {
	out := make([]proposal, len(pending))
	if len(pending) == 0 {
		return out, nil
	}
	if workers < 1 {
		workers = 1
	}

	chunk := (len(pending) + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(pending); start += chunk {
		end := min(start+chunk, len(pending))
		g.Go(func() error {
			for slot := start; slot < end; slot++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				out[slot] = fn(pending[slot])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
