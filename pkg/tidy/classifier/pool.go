package classifier

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultPoolSize bounds concurrent classification calls.
const DefaultPoolSize = 4

// Result pairs a classification outcome with its per-request error.
type Result struct {
	Response Response
	Err      error
}

// ClassifyAll classifies every request with bounded concurrency and
// returns results in request order. Each request is independent: a
// failure is captured in its Result and never affects the others.
func ClassifyAll(ctx context.Context, c Classifier, reqs []Request, limit int) []Result {
	if limit <= 0 {
		limit = DefaultPoolSize
	}

	results := make([]Result, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, req := range reqs {
		g.Go(func() error {
			resp, err := c.Classify(ctx, req)
			results[i] = Result{Response: resp, Err: err}
			return nil
		})
	}

	// Goroutines never return errors; Wait only synchronizes.
	_ = g.Wait()
	return results
}
