package compliance

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/alexiusacademia/rcbeam/internal/rcerr"
)

// BatchResult is the outcome of one request in a batch. Exactly one of
// Verdict and Error is set.
type BatchResult struct {
	Index   int      `json:"index"`
	Name    string   `json:"name,omitempty"`
	Verdict *Verdict `json:"verdict,omitempty"`
	Code    string   `json:"code,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// EvaluateBatch evaluates requests independently on up to workers
// goroutines (unbounded when workers <= 0). Results are in input order;
// an item error never affects other items. The returned error is only
// set when ctx is cancelled.
func (e *Engine) EvaluateBatch(ctx context.Context, reqs []Request, workers int) ([]BatchResult, error) {
	results := make([]BatchResult, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range reqs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.evaluateItem(i, reqs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("batch cancelled: %w", err)
	}

	e.log.Info("batch evaluated", "items", len(reqs), "workers", workers)
	return results, nil
}

func (e *Engine) evaluateItem(i int, req Request) (res BatchResult) {
	res = BatchResult{Index: i, Name: req.Name}
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("evaluation panicked", "index", i, "beam", req.Name, "panic", r)
			res.Verdict = nil
			res.Error = fmt.Sprintf("internal error: %v", r)
		}
	}()

	v, err := e.Evaluate(req)
	if err != nil {
		res.Error = err.Error()
		if ie, ok := rcerr.AsInput(err); ok {
			res.Code = ie.Code
		}
		return res
	}
	res.Verdict = &v
	return res
}
