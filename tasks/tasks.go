// Package tasks defines the background task envelope and the queues that carry it.
// Two backends share one interface: an in-process channel queue for single-binary
// deployments and a Redis list queue shared between the API and the worker command.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TypeSendWelcomeEmail is the task sent after a successful registration.
const TypeSendWelcomeEmail = "send_welcome_email"

// ErrNoTask is returned by Dequeue when the wait ended without a task.
var ErrNoTask = errors.New("no task available")

// ErrQueueClosed is returned once a queue has been closed.
var ErrQueueClosed = errors.New("queue closed")

// Task is one unit of background work. Payload is handler specific JSON.
type Task struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// WelcomeEmailPayload is the payload of a TypeSendWelcomeEmail task.
type WelcomeEmailPayload struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// NewTask builds a task with a fresh id, marshalling payload to JSON.
func NewTask(taskType string, payload interface{}) (Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Task{}, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return Task{
		ID:         uuid.NewString(),
		Type:       taskType,
		Payload:    raw,
		EnqueuedAt: time.Now().UTC(),
	}, nil
}

// Queue carries tasks from producers to workers.
type Queue interface {
	// Enqueue adds a task to the queue without waiting for it to be processed.
	Enqueue(ctx context.Context, task Task) error
	// Dequeue blocks until a task is available, the wait times out (ErrNoTask),
	// or ctx is done.
	Dequeue(ctx context.Context) (Task, error)
}

// FailureRecorder is implemented by queues that keep tasks whose handler failed.
type FailureRecorder interface {
	RecordFailure(ctx context.Context, task Task, reason string) error
}

// FailedTask is a task kept after its handler returned an error.
type FailedTask struct {
	Task     Task      `json:"task"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}
