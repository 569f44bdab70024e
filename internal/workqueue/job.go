package workqueue

import (
	"context"
	"errors"
	"fmt"
)

// ErrNilJobFunc is returned when a nil JobFunc is run.
var ErrNilJobFunc = errors.New("nil JobFunc")

// Job is a unit of work executed by an Executor.
// Run must be safe for concurrent invocations when the same Job instance is reused.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc adapts a function to a Job.
type JobFunc func(ctx context.Context) error

// Run implements Job for JobFunc.
func (f JobFunc) Run(ctx context.Context) error {
	if f == nil {
		return fmt.Errorf("jobfunc: %w", ErrNilJobFunc)
	}
	return f(ctx)
}
