package tasks

import (
	"context"
	"sync"
	"time"
)

// MemoryQueue is a buffered channel queue living inside the API process.
// Tasks are lost on restart.
type MemoryQueue struct {
	ch      chan Task
	done    chan struct{}
	once    sync.Once
	mu      sync.Mutex
	failed  []FailedTask
	timeout time.Duration
}

// NewMemoryQueue creates a queue holding up to size pending tasks.
func NewMemoryQueue(size int) *MemoryQueue {
	if size < 1 {
		size = 1
	}
	return &MemoryQueue{
		ch:      make(chan Task, size),
		done:    make(chan struct{}),
		timeout: 5 * time.Second,
	}
}

// Enqueue adds the task, waiting for room if the buffer is full.
func (q *MemoryQueue) Enqueue(ctx context.Context, task Task) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}
	select {
	case q.ch <- task:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue waits up to the poll timeout for a task.
func (q *MemoryQueue) Dequeue(ctx context.Context) (Task, error) {
	timer := time.NewTimer(q.timeout)
	defer timer.Stop()

	select {
	case task := <-q.ch:
		return task, nil
	case <-q.done:
		return Task{}, ErrQueueClosed
	case <-ctx.Done():
		return Task{}, ctx.Err()
	case <-timer.C:
		return Task{}, ErrNoTask
	}
}

// Len returns the number of pending tasks.
func (q *MemoryQueue) Len() int { return len(q.ch) }

// Close stops the queue. Pending tasks are dropped.
func (q *MemoryQueue) Close() {
	q.once.Do(func() { close(q.done) })
}

// RecordFailure keeps the failed task for inspection.
func (q *MemoryQueue) RecordFailure(_ context.Context, task Task, reason string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.failed = append(q.failed, FailedTask{Task: task, Reason: reason, FailedAt: time.Now().UTC()})
	return nil
}

// Failed returns a copy of the recorded failures.
func (q *MemoryQueue) Failed() []FailedTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]FailedTask, len(q.failed))
	copy(out, q.failed)
	return out
}
