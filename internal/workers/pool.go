// Package workers runs independent tasks on a bounded pool of goroutines.
package workers

import (
	"context"
	"sync"
)

// Result is the outcome of one item, at the item's input index.
type Result[R any] struct {
	Value R
	Err   error
}

// RunOrdered calls fn for every item using at most concurrency goroutines at
// a time and returns results in input order. Items not yet started when ctx
// is canceled are skipped and report ctx's error.
func RunOrdered[T any, R any](ctx context.Context, items []T, concurrency int, fn func(context.Context, T) (R, error)) []Result[R] {
	if len(items) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(items) {
		concurrency = len(items)
	}

	sem := make(chan struct{}, concurrency)
	results := make([]Result[R], len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = Result[R]{Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				results[i] = Result[R]{Err: err}
				return
			}
			v, err := fn(ctx, item)
			results[i] = Result[R]{Value: v, Err: err}
		}(i, item)
	}
	wg.Wait()
	return results
}
