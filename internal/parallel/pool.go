// Package parallel provides the work-stealing worker pool used for
// fork-join scene building.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool runs closures on a fixed set of goroutines.
//
// Each worker owns a queue and steals from the others when its own queue is
// empty, which balances entries of very different tessellation cost.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]
	for {
		select {
		case <-p.done:
			drain(own)
			return
		case fn := <-own:
			fn()
			continue
		default:
		}

		if fn := p.steal(id); fn != nil {
			fn()
			continue
		}

		select {
		case <-p.done:
			drain(own)
			return
		case fn := <-own:
			fn()
		}
	}
}

func drain(q chan func()) {
	for {
		select {
		case fn := <-q:
			fn()
		default:
			return
		}
	}
}

// steal takes one queued closure from another worker, or returns nil.
func (p *WorkerPool) steal(self int) func() {
	for i := 1; i < p.workers; i++ {
		select {
		case fn := <-p.queues[(self+i)%p.workers]:
			return fn
		default:
		}
	}
	return nil
}

// ForEach calls fn(i) for every i in [0, n) on the pool and returns when
// all calls have finished. Indices are handed out round-robin.
//
// When the pool is closed the remaining calls run on the calling
// goroutine, so every index is always visited exactly once.
func (p *WorkerPool) ForEach(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		task := func() {
			defer wg.Done()
			fn(i)
		}
		if !p.running.Load() {
			task()
			continue
		}
		select {
		case p.queues[i%p.workers] <- task:
		case <-p.done:
			task()
		}
	}
	wg.Wait()
}

// Close stops the pool after queued work has run. It must not be called
// while a ForEach is in progress.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers.
func (p *WorkerPool) Workers() int {
	return p.workers
}
