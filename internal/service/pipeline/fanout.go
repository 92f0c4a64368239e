package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// task is one unit of a stage's fan-out. Tasks report failures as data,
// never as errors.
type task[T any] func(ctx context.Context) T

// fanOut runs every task concurrently, at most limit at a time (0 means
// no limit), and waits for all of them. Result i belongs to task i, so the
// caller can merge in a fixed order regardless of completion order.
func fanOut[T any](ctx context.Context, limit int, tasks []task[T]) []T {
	results := make([]T, len(tasks))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, run := range tasks {
		g.Go(func() error {
			results[i] = run(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
