package bunkai

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SegmentMany segments texts concurrently with at most workers goroutines.
// Results are in input order. It stops early and returns ctx's error when
// ctx is cancelled.
func (e *Engine) SegmentMany(ctx context.Context, texts []string, workers int) ([]Segmentation, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	out := make([]Segmentation, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, text := range texts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = e.Segment(text)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
