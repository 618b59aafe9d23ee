package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/manufgue/Monitor/internal/model"
)

// ErrClosed reports a submission against a closed coordinator.
var ErrClosed = errors.New("coordinator closed")

// RunError wraps an internal fault that aborted a run. Per-endpoint
// failures never produce one; those are absorbed into the result.
type RunError struct {
	Err error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run failed: %v", e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Completion is the single notification a submission yields. Err is a
// *RunError when the run itself faulted, nil otherwise.
type Completion struct {
	Result *model.AggregationResult
	Err    error
}

// Handle tracks one submitted run.
type Handle struct {
	done chan Completion
}

// Done returns the channel the completion arrives on. Exactly one value
// is delivered per handle.
func (h *Handle) Done() <-chan Completion {
	return h.done
}

// Wait blocks until the run completes.
func (h *Handle) Wait() Completion {
	return <-h.done
}

func (h *Handle) complete(c Completion) {
	h.done <- c
}

type job struct {
	targets []model.HostTarget
	creds   model.Credentials
	handle  *Handle
}

// Coordinator executes runs on a single dedicated goroutine so callers,
// the terminal UI in particular, never block on network I/O. Submissions
// queue and execute in order.
type Coordinator struct {
	engine *Engine
	ctx    context.Context
	cancel context.CancelFunc
	jobs   chan job
	quit   chan struct{}
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewCoordinator starts the worker goroutine.
func NewCoordinator(engine *Engine) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		engine: engine,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(chan job, 16),
		quit:   make(chan struct{}),
	}
	c.wg.Add(1)
	go c.worker()
	return c
}

// Submit queues one run. The returned handle always yields exactly one
// completion, including after Close and when the queue is full.
func (c *Coordinator) Submit(targets []model.HostTarget, creds model.Credentials) *Handle {
	handle := &Handle{done: make(chan Completion, 1)}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		handle.complete(Completion{Err: &RunError{Err: ErrClosed}})
		return handle
	}
	select {
	case c.jobs <- job{targets: targets, creds: creds, handle: handle}:
	default:
		handle.complete(Completion{Err: &RunError{Err: errors.New("submission queue full")}})
	}
	return handle
}

// Close stops the worker. An in-flight run is cancelled but still delivers
// its completion; queued runs complete with ErrClosed. Close is idempotent
// and returns once the worker has exited.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.wg.Wait()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	close(c.quit)
	c.wg.Wait()
}

func (c *Coordinator) worker() {
	defer c.wg.Done()
	for {
		select {
		case <-c.quit:
			c.drain()
			return
		case j := <-c.jobs:
			j.handle.complete(c.execute(j))
		}
	}
}

// drain fails whatever was queued behind the shutdown.
func (c *Coordinator) drain() {
	for {
		select {
		case j := <-c.jobs:
			j.handle.complete(Completion{Err: &RunError{Err: ErrClosed}})
		default:
			return
		}
	}
}

// execute runs one job, converting a panic into a RunError so the worker
// survives and later submissions still complete.
func (c *Coordinator) execute(j job) (completion Completion) {
	defer func() {
		if r := recover(); r != nil {
			completion = Completion{Err: &RunError{Err: fmt.Errorf("panic: %v", r)}}
		}
	}()
	return Completion{Result: c.engine.Run(c.ctx, j.targets, j.creds)}
}
