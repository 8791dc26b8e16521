package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// BatchItem is the outcome of one request within a batch. Exactly one of
// Result and Err is set.
type BatchItem struct {
	Index  int     `json:"index"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
}

// GenerateBatch runs every request through Generate with bounded
// concurrency. Items fail independently; one bad prompt never sinks its
// neighbors. The returned slice is index-aligned with reqs.
func (c *Coordinator) GenerateBatch(ctx context.Context, reqs []Request) ([]BatchItem, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("pipeline: batch is empty")
	}
	if len(reqs) > c.cfg.MaxBatchSize {
		return nil, fmt.Errorf("pipeline: batch of %d exceeds limit of %d", len(reqs), c.cfg.MaxBatchSize)
	}

	sem := semaphore.NewWeighted(c.cfg.BatchConcurrency)
	items := make([]BatchItem, len(reqs))

	var wg sync.WaitGroup
	for i, req := range reqs {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Cancelled mid-batch; mark the rest without starting them.
			for j := i; j < len(reqs); j++ {
				items[j] = BatchItem{Index: j, Err: err}
			}
			break
		}

		wg.Add(1)
		go func(i int, req Request) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := c.Generate(ctx, req)
			items[i] = BatchItem{Index: i, Result: res, Err: err}
		}(i, req)
	}
	wg.Wait()

	return items, nil
}
