package workqueue

import (
	"errors"
	"fmt"
)

// ErrQueueFull means Submit gave up after EnqueueTimeout because the target
// shard had no free slot. Callers may try again later.
var ErrQueueFull = errors.New("workqueue: shard queue full")

// ErrExecutorClosed means Stop has been called; no further jobs are accepted.
var ErrExecutorClosed = errors.New("workqueue: executor closed")

// QueueFullError reports which shard rejected the job. It matches
// ErrQueueFull under errors.Is.
type QueueFullError struct {
	Shard    int
	Length   int
	Capacity int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("workqueue: shard %d full (%d/%d queued)", e.Shard, e.Length, e.Capacity)
}

func (e *QueueFullError) Is(target error) bool { return target == ErrQueueFull }
