// Package background runs queued tasks outside the request-response cycle.
// A pool of workers pulls tasks from a tasks.Queue, dispatches each one to the
// handler registered for its type and records failures for later inspection.
package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/user/storeapi-go/tasks"
)

const (
	// taskTimeout bounds a single handler run. In-flight tasks keep this budget
	// even after shutdown starts.
	taskTimeout = 30 * time.Second

	// dequeueBackoff is the pause after a queue error before polling again.
	dequeueBackoff = time.Second
)

// HandlerFunc processes one task. A returned error marks the task as failed.
type HandlerFunc func(ctx context.Context, task tasks.Task) error

// Observer receives the outcome of every handled task. *metrics.Metrics implements it.
type Observer interface {
	TaskHandled(taskType string, err error, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) TaskHandled(string, error, time.Duration) {}

// WorkerPool dispatches queued tasks to their handlers.
type WorkerPool struct {
	queue    tasks.Queue
	handlers map[string]HandlerFunc
	observer Observer
	log      logrus.FieldLogger
}

// NewWorkerPool creates a pool. A nil observer disables outcome reporting.
func NewWorkerPool(queue tasks.Queue, handlers map[string]HandlerFunc, observer Observer, log logrus.FieldLogger) *WorkerPool {
	if observer == nil {
		observer = nopObserver{}
	}
	return &WorkerPool{queue: queue, handlers: handlers, observer: observer, log: log}
}

// Start launches concurrency workers and returns a channel that is closed once
// every worker has exited. Workers stop taking new tasks when stopChan is closed;
// a task already running is allowed to finish.
func (p *WorkerPool) Start(concurrency int, stopChan <-chan struct{}) <-chan struct{} {
	if concurrency < 1 {
		concurrency = 1
	}
	p.log.WithField("concurrency", concurrency).Info("task workers starting")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-stopChan
		cancel()
	}()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			p.run(ctx, p.log.WithField("worker", workerID))
		}(i + 1)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		cancel()
		p.log.Info("task workers stopped")
		close(done)
	}()
	return done
}

func (p *WorkerPool) run(ctx context.Context, log logrus.FieldLogger) {
	for {
		if ctx.Err() != nil {
			return
		}
		task, err := p.queue.Dequeue(ctx)
		switch {
		case err == nil:
			p.Handle(ctx, task)
		case errors.Is(err, tasks.ErrNoTask):
		case errors.Is(err, tasks.ErrQueueClosed), ctx.Err() != nil:
			return
		default:
			log.WithError(err).Error("failed to dequeue task")
			select {
			case <-ctx.Done():
				return
			case <-time.After(dequeueBackoff):
			}
		}
	}
}

// Handle runs the handler for task, reports the outcome and records a failure
// on queues that keep them.
func (p *WorkerPool) Handle(ctx context.Context, task tasks.Task) {
	log := p.log.WithFields(logrus.Fields{"task_id": task.ID, "task_type": task.Type})

	taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), taskTimeout)
	defer cancel()

	start := time.Now()
	err := p.invoke(taskCtx, task)
	elapsed := time.Since(start)
	p.observer.TaskHandled(task.Type, err, elapsed)

	if err == nil {
		log.WithField("duration", elapsed).Info("task handled")
		return
	}

	log.WithError(err).Error("task failed")
	if fr, ok := p.queue.(tasks.FailureRecorder); ok {
		if rerr := fr.RecordFailure(taskCtx, task, err.Error()); rerr != nil && !errors.Is(rerr, tasks.ErrFailuresNotRecorded) {
			log.WithError(rerr).Error("failed to record task failure")
		}
	}
}

func (p *WorkerPool) invoke(ctx context.Context, task tasks.Task) (err error) {
	handler, ok := p.handlers[task.Type]
	if !ok {
		return fmt.Errorf("no handler registered for task type %q", task.Type)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task handler panicked: %v", r)
		}
	}()
	return handler(ctx, task)
}

// StartTaskWorkerService builds a WorkerPool and starts it. The returned channel
// is closed once every worker has exited after stopChan was closed.
func StartTaskWorkerService(queue tasks.Queue, handlers map[string]HandlerFunc, concurrency int, observer Observer, log logrus.FieldLogger, stopChan <-chan struct{}) <-chan struct{} {
	return NewWorkerPool(queue, handlers, observer, log).Start(concurrency, stopChan)
}
