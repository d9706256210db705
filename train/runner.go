package train

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Job 是一次模型训练任务：训练并持久化一个快照。
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// JobResult 记录单个任务的执行情况，供调用方打日志/出报表。
type JobResult struct {
	Name     string
	Duration time.Duration
	Err      error
}

// Runner 并发执行一组训练任务。模型之间无共享可变状态，
// 可以安全并行；数据源不可用（UNAVAILABLE）会让整个 run 失败。
type Runner struct {
	Timeout       time.Duration // 每个任务的超时时间（0 表示不限）
	MaxConcurrent int           // 最大并发数（0 表示无限制）
}

// Run 执行所有任务并返回各自结果（与 jobs 顺序对齐）。
// 任何任务失败都会取消其余任务并返回第一个错误。
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]JobResult, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	var (
		mu      sync.Mutex
		results = make([]JobResult, len(jobs))
	)
	eg, ctx := errgroup.WithContext(ctx)

	// 限流：使用 semaphore 控制并发数；非正值按无限制处理
	limit := r.MaxConcurrent
	if limit < 0 {
		limit = 0
	}
	sem := make(chan struct{}, limit)
	if limit == 0 {
		close(sem) // 无限制时直接关闭，避免阻塞
	}

	for i, job := range jobs {
		i, job := i, job

		eg.Go(func() error {
			if limit > 0 {
				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-ctx.Done():
					return ctx.Err()
				}
			}

			jobCtx := ctx
			if r.Timeout > 0 {
				var cancel context.CancelFunc
				jobCtx, cancel = context.WithTimeout(ctx, r.Timeout)
				defer cancel()
			}

			start := time.Now()
			err := job.Run(jobCtx)
			result := JobResult{Name: job.Name, Duration: time.Since(start), Err: err}

			mu.Lock()
			results[i] = result
			mu.Unlock()

			if err != nil {
				return fmt.Errorf("train: job %s: %w", job.Name, err)
			}
			return nil
		})
	}

	err := eg.Wait()
	return results, err
}
