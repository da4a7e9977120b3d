package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// Task is one unit of background work
type Task func(ctx context.Context)

var (
	// ErrClosed is returned when enqueueing after shutdown
	ErrClosed = errors.New("queue is closed")
	// ErrFull is returned when the buffer cannot take more work
	ErrFull = errors.New("queue is full")
)

// Queue is an in-process background job queue. Hand-off is at-least-once
// from the caller's point of view: tasks must be safe to re-run (the
// migration executor guards with status compare-and-set).
type Queue struct {
	tasks   chan Task
	workers int

	mu     sync.Mutex
	closed bool

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New creates a queue with the given worker count and buffer size
func New(workers, buffer int) *Queue {
	if workers < 1 {
		workers = 1
	}
	if buffer < 1 {
		buffer = 1
	}
	return &Queue{
		tasks:   make(chan Task, buffer),
		workers: workers,
	}
}

// Start launches the worker goroutines. It returns immediately.
func (q *Queue) Start(ctx context.Context) {
	ctx, q.cancel = context.WithCancel(ctx)

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
}

func (q *Queue) worker(ctx context.Context, id int) {
	defer q.wg.Done()

	log := logrus.WithFields(logrus.Fields{"component": "queue", "worker": id})
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-q.tasks:
			q.run(ctx, log, task)
		}
	}
}

func (q *Queue) run(ctx context.Context, log *logrus.Entry, task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("task panicked: %v", r)
		}
	}()
	task(ctx)
}

// Enqueue hands a task to the workers without blocking the caller.
// A full buffer is reported as an error rather than waited out, so a
// stalled worker pool cannot hang request handlers.
func (q *Queue) Enqueue(task Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}

	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrFull
	}
}

// Shutdown stops accepting work, cancels the worker context and waits for
// in-flight tasks to return. Buffered tasks that never started are dropped;
// their requests stay in queued state and surface via the detail endpoint.
func (q *Queue) Shutdown() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	if q.cancel != nil {
		q.cancel()
	}
	q.wg.Wait()
}
