// Package worker bounds the external-I/O work dispatched across
// concurrent pipeline runs. The pool does not parallelize within one
// run; it only caps how many runs hit the collaborators at once.
package worker

import (
	"context"

	"golang.org/x/sync/semaphore"
)

type Pool struct {
	sem *semaphore.Weighted
}

func NewPool(size int64) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(size)}
}

// Do waits for a slot, runs fn to completion, and returns its error.
// A blocking pause inside fn (the rate-limit retry) holds only that
// run's slot.
func (p *Pool) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)

	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()
	return <-done
}
