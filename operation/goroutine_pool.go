package operation

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type goroutinePool struct {
	workers           []func(context.Context) error
	maxGoroutineCount int
}

func newGoroutinePool(maxGoroutineCount int) *goroutinePool {
	return &goroutinePool{maxGoroutineCount: maxGoroutineCount}
}

func (pool *goroutinePool) Go(worker func(context.Context) error) {
	pool.workers = append(pool.workers, worker)
}

// Wait runs the queued workers and returns the first error. That error cancels
// the context handed to the other workers, and queued workers that have not
// started yet are dropped.
func (pool *goroutinePool) Wait(ctx context.Context) error {
	count := pool.maxGoroutineCount
	if count <= 0 || count > len(pool.workers) {
		count = len(pool.workers)
	}
	if count == 0 {
		return nil
	}

	parent := ctx
	group, ctx := errgroup.WithContext(parent)
	workersChan := make(chan func(context.Context) error)

	for i := 0; i < count; i++ {
		group.Go(func() error {
			for worker := range workersChan {
				if err := worker(ctx); err != nil {
					return err
				}
			}
			return nil
		})
	}

feed:
	for _, worker := range pool.workers {
		select {
		case workersChan <- worker:
		case <-ctx.Done():
			break feed
		}
	}
	close(workersChan)

	if err := group.Wait(); err != nil {
		return err
	}
	return parent.Err()
}
