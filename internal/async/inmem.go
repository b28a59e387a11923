package async

import (
	"context"
	"sync"
)

// InMemoryQueue is a channel-backed Queue for single-binary deployments and
// tests, where no broker is configured.
type InMemoryQueue struct {
	jobs chan Job

	mu     sync.Mutex
	closed bool
}

func NewInMemoryQueue(buffer int) *InMemoryQueue {
	if buffer <= 0 {
		buffer = 64
	}
	return &InMemoryQueue{jobs: make(chan Job, buffer)}
}

func (q *InMemoryQueue) Enqueue(ctx context.Context, job Job) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *InMemoryQueue) Subscribe(ctx context.Context, handler func(context.Context, Job) error) error {
	for {
		select {
		case job, ok := <-q.jobs:
			if !ok {
				return nil
			}
			// handler reports its own errors
			_ = handler(ctx, job)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (q *InMemoryQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
}
