package build

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/canvas/internal/parallel"
)

// Executor runs n independent work units and waits for all of them.
//
// fn must be safe to call concurrently for distinct indices. Execute
// returns the context error if ctx is cancelled; units not yet started are
// then skipped.
type Executor interface {
	Execute(ctx context.Context, n int, fn func(i int)) error
}

// Sequential runs every unit on the calling goroutine, in index order.
type Sequential struct{}

// Execute implements Executor.
func (Sequential) Execute(ctx context.Context, n int, fn func(i int)) error {
	for i := range n {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(i)
	}
	return ctx.Err()
}

// Pool runs units on a work-stealing worker pool.
// A Pool is safe for concurrent use; Close it when done.
type Pool struct {
	pool *parallel.WorkerPool
}

// NewPool starts a pool with the given number of workers.
// If workers <= 0, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	return &Pool{pool: parallel.NewWorkerPool(workers)}
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.pool.Workers()
}

// Execute implements Executor.
func (p *Pool) Execute(ctx context.Context, n int, fn func(i int)) error {
	p.pool.ForEach(n, func(i int) {
		if ctx.Err() != nil {
			return
		}
		fn(i)
	})
	return ctx.Err()
}

// Close stops the workers. Execute still works afterwards but runs inline.
func (p *Pool) Close() {
	p.pool.Close()
}

// Group runs each unit in its own goroutine through an errgroup.
// Limit bounds the number of active goroutines; <= 0 means unlimited.
type Group struct {
	Limit int
}

// Execute implements Executor.
func (g Group) Execute(ctx context.Context, n int, fn func(i int)) error {
	eg, gctx := errgroup.WithContext(ctx)
	if g.Limit > 0 {
		eg.SetLimit(g.Limit)
	}
	for i := range n {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

var (
	_ Executor = Sequential{}
	_ Executor = (*Pool)(nil)
	_ Executor = Group{}
)
