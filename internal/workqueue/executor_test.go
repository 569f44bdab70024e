package workqueue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type noopJob struct{}

func (n noopJob) Run(ctx context.Context) error { return nil }

func TestExecutor_SubmitAndStop(t *testing.T) {
	t.Parallel()
	exec := New(Config{})
	defer exec.Stop()

	if err := exec.Submit(context.Background(), "song-1", noopJob{}); err != nil {
		t.Fatalf("submit error: %v", err)
	}
}

func TestExecutor_SubmitAfterStop(t *testing.T) {
	t.Parallel()
	exec := New(Config{Shards: 1})
	exec.Stop()
	exec.Stop() // idempotent
	if err := exec.Submit(context.Background(), "k", noopJob{}); !errors.Is(err, ErrExecutorClosed) {
		t.Fatalf("expected ErrExecutorClosed, got %v", err)
	}
}

func TestExecutor_QueueFull(t *testing.T) {
	t.Parallel()
	exec := New(Config{Shards: 1, QueueSize: 1, EnqueueTimeout: 10 * time.Millisecond})
	defer exec.Stop()

	blockCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var started int32
	_ = exec.Submit(context.Background(), "same", JobFunc(func(ctx context.Context) error {
		atomic.StoreInt32(&started, 1)
		<-blockCtx.Done()
		return nil
	}))
	for atomic.LoadInt32(&started) == 0 {
		time.Sleep(time.Millisecond)
	}

	_ = exec.Submit(context.Background(), "same", noopJob{})
	err := exec.Submit(context.Background(), "same", noopJob{})
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected queue full error, got %v", err)
	}
}

// FIFO ordering for a single key.
func TestExecutor_FIFOOrdering(t *testing.T) {
	p := New(Config{Shards: 4, QueueSize: 10})
	defer p.Stop()

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	wg.Add(5)
	for i := 0; i < 5; i++ {
		v := i
		if err := p.Submit(context.Background(), "playlist-1", JobFunc(func(ctx context.Context) error {
			mu.Lock()
			order = append(order, v)
			mu.Unlock()
			wg.Done()
			return nil
		})); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for jobs")
	}
	for i, v := range order {
		if i != v {
			t.Fatalf("expected FIFO order, got %v", order)
		}
	}
}

// Jobs for different shards run in parallel (no head‑of‑line blocking).
func TestExecutor_ParallelDifferentKeys(t *testing.T) {
	p := New(Config{Shards: 4, QueueSize: 10})
	defer p.Stop()

	keyA, keyB := "A", "B"
	for p.shardFor(keyB) == p.shardFor(keyA) {
		keyB += "x"
	}

	start := make(chan struct{})
	done := make(chan struct{})
	_ = p.Submit(context.Background(), keyA, JobFunc(func(context.Context) error {
		<-start
		close(done)
		return nil
	}))
	_ = p.Submit(context.Background(), keyB, JobFunc(func(context.Context) error {
		close(start)
		<-done
		return nil
	}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("jobs blocked each other; expected parallelism")
	}
}

func TestExecutor_Barrier(t *testing.T) {
	p := New(Config{Shards: 2, QueueSize: 10})
	defer p.Stop()

	var ran int32
	for i := 0; i < 3; i++ {
		_ = p.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&ran, 1)
			return nil
		}))
	}
	if err := p.Barrier(context.Background(), "k"); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	if atomic.LoadInt32(&ran) != 3 {
		t.Fatalf("barrier returned before earlier jobs ran: %d", ran)
	}
}

func TestExecutor_StopDrainsQueuedJobs(t *testing.T) {
	p := New(Config{Shards: 1, QueueSize: 16})
	var ran int32
	for i := 0; i < 10; i++ {
		_ = p.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		}))
	}
	p.Stop()
	if atomic.LoadInt32(&ran) != 10 {
		t.Fatalf("expected all 10 jobs drained, got %d", ran)
	}
}
