// Package tasks provides a bounded worker pool for background units of work.
// Callers enqueue a task and return immediately; execution proceeds on the
// pool's workers and outcomes are observed through persisted state, not
// through the pool.
package tasks

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/veridoc-io/veridoc/pkg/lifecycle"
)

// ErrQueueFull indicates the task queue is saturated and the task was not accepted.
var ErrQueueFull = errors.New("task queue full")

// ErrStopped indicates the pool is shutting down and no longer accepts tasks.
var ErrStopped = errors.New("task pool stopped")

// Task is a unit of background work. The context is cancelled on pool shutdown.
type Task func(ctx context.Context)

// Pool runs queued tasks on a fixed set of workers.
type Pool struct {
	queue   chan Task
	workers int
	logger  *slog.Logger

	mu      sync.Mutex
	stopped bool
	active  sync.WaitGroup
}

// NewPool creates a pool with the given worker count and queue depth.
// Values below one are clamped to one.
func NewPool(workers, depth int, logger *slog.Logger) *Pool {
	return &Pool{
		queue:   make(chan Task, max(depth, 1)),
		workers: max(workers, 1),
		logger:  logger.With("system", "tasks"),
	}
}

// Start launches the pool's workers and registers a shutdown hook that stops
// intake, runs any still-queued tasks, and waits for in-flight work to finish.
func (p *Pool) Start(lc *lifecycle.Coordinator) error {
	p.logger.Info("starting task pool", "workers", p.workers, "depth", cap(p.queue))

	for range p.workers {
		go p.work(lc.Context())
	}

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()

		p.drain(lc.Context())
		p.active.Wait()
		p.logger.Info("task pool drained")
	})

	return nil
}

// Enqueue submits a task for background execution. Returns ErrStopped after
// shutdown has begun and ErrQueueFull when the queue is saturated.
func (p *Pool) Enqueue(t Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrStopped
	}

	select {
	case p.queue <- t:
		p.active.Add(1)
		return nil
	default:
		return ErrQueueFull
	}
}

// drain runs tasks that were accepted before shutdown began but never
// picked up by a worker. Intake is already closed, so the queue can only
// shrink here; each task sees the cancelled shutdown context.
func (p *Pool) drain(ctx context.Context) {
	for {
		select {
		case t := <-p.queue:
			p.run(ctx, t)
		default:
			return
		}
	}
}

func (p *Pool) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-p.queue:
			p.run(ctx, t)
		}
	}
}

func (p *Pool) run(ctx context.Context, t Task) {
	defer p.active.Done()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked", "panic", r)
		}
	}()

	t(ctx)
}
