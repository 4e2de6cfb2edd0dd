package vault

import (
	"context"
	"runtime"
	"sync"

	"github.com/jmgilman/go/errors"
)

// Offloader runs CPU-bound work away from the caller's goroutine.
//
// Do blocks until fn has finished and returns its error. The context only
// bounds the wait for capacity: once fn has started it runs to completion.
type Offloader interface {
	Do(ctx context.Context, fn func() error) error
}

type task struct {
	fn     func() error
	result chan error
}

// WorkerPool is a fixed set of goroutines that execute offloaded work.
//
// A panic inside a task is recovered and reported as an errors.CodeInternal
// error; the worker keeps serving.
type WorkerPool struct {
	tasks chan task
	done  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
}

// NewWorkerPool starts a pool with the given number of workers.
// Zero or a negative count uses runtime.NumCPU().
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	p := &WorkerPool{
		tasks: make(chan task),
		done:  make(chan struct{}),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

func (p *WorkerPool) work() {
	defer p.wg.Done()
	for {
		select {
		case t := <-p.tasks:
			t.result <- runTask(t.fn)
		case <-p.done:
			return
		}
	}
}

// Do hands fn to the next free worker and waits for its result.
func (p *WorkerPool) Do(ctx context.Context, fn func() error) error {
	t := task{fn: fn, result: make(chan error, 1)}

	select {
	case p.tasks <- t:
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), errors.CodeUnavailable, "no worker became available")
	case <-p.done:
		return errors.New(errors.CodeUnavailable, "worker pool is closed")
	}
	return <-t.result
}

// Close stops the workers after any running task finishes. It is safe to
// call more than once.
func (p *WorkerPool) Close() {
	p.once.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
}

func runTask(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.CodeInternal, "pixel task panicked: %v", r)
		}
	}()
	return fn()
}
