package workqueue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestExecutor_Retry(t *testing.T) {
	ex := New(Config{Shards: 1, QueueSize: 10, MaxAttempts: 3, BaseBackoff: 5 * time.Millisecond})
	defer ex.Stop()

	var attempts int32
	done := make(chan struct{})
	job := JobFunc(func(ctx context.Context) error {
		n := atomic.AddInt32(&attempts, 1)
		if n < 3 {
			return context.DeadlineExceeded
		}
		close(done)
		return nil
	})
	if err := ex.Submit(context.Background(), "k1", job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job never succeeded")
	}
	if atomic.LoadInt32(&attempts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestExecutor_RetryableFilterStopsEarly(t *testing.T) {
	permanent := errors.New("404 not found")
	handled := make(chan error, 1)
	ex := New(Config{
		Shards:       1,
		MaxAttempts:  5,
		BaseBackoff:  time.Millisecond,
		Retryable:    func(err error) bool { return !errors.Is(err, permanent) },
		ErrorHandler: func(err error) { handled <- err },
	})
	defer ex.Stop()

	var attempts int32
	_ = ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		atomic.AddInt32(&attempts, 1)
		return permanent
	}))
	select {
	case err := <-handled:
		if !errors.Is(err, permanent) {
			t.Fatalf("unexpected handled error %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("error handler not called")
	}
	if atomic.LoadInt32(&attempts) != 1 {
		t.Fatalf("non-retryable error retried %d times", attempts)
	}
}
