package train

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunner_ResultsAlignWithJobs(t *testing.T) {
	r := &Runner{}
	results, err := r.Run(context.Background(), []Job{
		{Name: "a", Run: func(context.Context) error { return nil }},
		{Name: "b", Run: func(context.Context) error { return nil }},
		{Name: "c", Run: func(context.Context) error { return nil }},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, name := range []string{"a", "b", "c"} {
		if results[i].Name != name || results[i].Err != nil {
			t.Errorf("results[%d] = %+v, want %s/nil", i, results[i], name)
		}
	}
}

func TestRunner_FirstErrorWins(t *testing.T) {
	boom := errors.New("boom")
	r := &Runner{MaxConcurrent: 1}
	_, err := r.Run(context.Background(), []Job{
		{Name: "bad", Run: func(context.Context) error { return boom }},
		{Name: "good", Run: func(context.Context) error { return nil }},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want wrapped boom", err)
	}
}

func TestRunner_MaxConcurrentBound(t *testing.T) {
	var running, peak int64
	job := func(ctx context.Context) error {
		n := atomic.AddInt64(&running, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&running, -1)
		return nil
	}

	r := &Runner{MaxConcurrent: 2}
	jobs := make([]Job, 6)
	for i := range jobs {
		jobs[i] = Job{Name: "j", Run: job}
	}
	if _, err := r.Run(context.Background(), jobs); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := atomic.LoadInt64(&peak); got > 2 {
		t.Fatalf("peak concurrency = %d, want <= 2", got)
	}
}

func TestRunner_NegativeMaxConcurrent(t *testing.T) {
	// 负值按无限制处理，不应 panic、不应阻塞
	r := &Runner{MaxConcurrent: -1}
	results, err := r.Run(context.Background(), []Job{
		{Name: "a", Run: func(context.Context) error { return nil }},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("results = %+v, want one clean result", results)
	}
}

func TestRunner_JobTimeout(t *testing.T) {
	r := &Runner{Timeout: 10 * time.Millisecond}
	results, err := r.Run(context.Background(), []Job{
		{Name: "slow", Run: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}},
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v, want deadline exceeded", err)
	}
	if results[0].Err == nil {
		t.Fatal("slow job result should carry its error")
	}
}

func TestRunner_NoJobs(t *testing.T) {
	r := &Runner{}
	results, err := r.Run(context.Background(), nil)
	if err != nil || results != nil {
		t.Fatalf("Run(nil) = %v, %v; want nil, nil", results, err)
	}
}
