package parallel

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolRunsSubmittedTasks(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Shutdown()

	var done int64
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := pool.Submit(ctx, func() { atomic.AddInt64(&done, 1) }); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt64(&done) < 5 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := atomic.LoadInt64(&done); got != 5 {
		t.Fatalf("expected 5 completed tasks, got %d", got)
	}
}

func TestWorkerPoolRecoversPanickingTask(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Shutdown()

	if err := pool.Submit(context.Background(), func() { panic("boom") }); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		_, _, failed, _, _, _ := pool.Stats().Snapshot()
		if failed == 1 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("expected one failed task to be recorded")
}

func TestWorkerPoolSubmitAfterShutdown(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Shutdown()

	if err := pool.Submit(context.Background(), func() {}); err != ErrPoolShutdown {
		t.Fatalf("expected ErrPoolShutdown, got %v", err)
	}
}

func TestWorkerPoolSubmitRespectsContextCancellation(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Shutdown()

	block := make(chan struct{})
	_ = pool.Submit(context.Background(), func() { <-block })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pool.Submit(ctx, func() {}); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	close(block)
}
