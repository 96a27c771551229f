package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisQueue stores tasks as JSON in a Redis list. Producers LPUSH and workers
// BRPOP, so tasks are consumed in FIFO order across any number of processes.
type RedisQueue struct {
	client      *redis.Client
	key         string
	failedKey   string
	pollTimeout time.Duration
}

// NewRedisQueue creates a queue stored under "queue:<name>".
func NewRedisQueue(client *redis.Client, name string) *RedisQueue {
	key := "queue:" + name
	return &RedisQueue{
		client:      client,
		key:         key,
		failedKey:   key + ":failed",
		pollTimeout: 5 * time.Second,
	}
}

// Key returns the Redis list key holding pending tasks.
func (q *RedisQueue) Key() string { return q.key }

// Enqueue pushes the task onto the head of the list.
func (q *RedisQueue) Enqueue(ctx context.Context, task Task) error {
	raw, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, raw).Err(); err != nil {
		return fmt.Errorf("enqueue task %s: %w", task.ID, err)
	}
	return nil
}

// Dequeue pops from the tail of the list, blocking up to the poll timeout.
func (q *RedisQueue) Dequeue(ctx context.Context) (Task, error) {
	res, err := q.client.BRPop(ctx, q.pollTimeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return Task{}, ErrNoTask
	}
	if err != nil {
		if ctx.Err() != nil {
			return Task{}, ctx.Err()
		}
		return Task{}, fmt.Errorf("dequeue task: %w", err)
	}
	// BRPOP answers [key, value].
	if len(res) != 2 {
		return Task{}, fmt.Errorf("dequeue task: unexpected reply length %d", len(res))
	}

	var task Task
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		return Task{}, fmt.Errorf("decode task: %w", err)
	}
	return task, nil
}

// Len returns the number of pending tasks.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

// RecordFailure pushes the failed task onto "queue:<name>:failed".
func (q *RedisQueue) RecordFailure(ctx context.Context, task Task, reason string) error {
	raw, err := json.Marshal(FailedTask{Task: task, Reason: reason, FailedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal failed task: %w", err)
	}
	if err := q.client.LPush(ctx, q.failedKey, raw).Err(); err != nil {
		return fmt.Errorf("record failed task %s: %w", task.ID, err)
	}
	return nil
}
