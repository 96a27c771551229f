package tasks

import (
	"context"
	"errors"
)

// ErrFailuresNotRecorded is returned by a hooked queue whose inner queue keeps no failures.
var ErrFailuresNotRecorded = errors.New("queue does not record failures")

type hookedQueue struct {
	Queue
	onEnqueue func(Task)
}

// WithEnqueueHook returns a Queue that calls hook after every successful Enqueue.
// RecordFailure is forwarded when the wrapped queue implements FailureRecorder.
func WithEnqueueHook(q Queue, hook func(Task)) Queue {
	return &hookedQueue{Queue: q, onEnqueue: hook}
}

func (q *hookedQueue) Enqueue(ctx context.Context, task Task) error {
	if err := q.Queue.Enqueue(ctx, task); err != nil {
		return err
	}
	q.onEnqueue(task)
	return nil
}

func (q *hookedQueue) RecordFailure(ctx context.Context, task Task, reason string) error {
	fr, ok := q.Queue.(FailureRecorder)
	if !ok {
		return ErrFailuresNotRecorded
	}
	return fr.RecordFailure(ctx, task, reason)
}
