// Package workerpool 提供有上限的 goroutine 池
// 用于后台投递（变更广播、清理任务），防止 goroutine 泄漏
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	// ErrWorkerPoolFull 当任务队列已满时返回
	ErrWorkerPoolFull = errors.New("worker pool queue is full")
	// ErrWorkerPoolClosed 当 Worker Pool 已关闭时返回
	ErrWorkerPoolClosed = errors.New("worker pool is closed")
	// ErrTaskCancelled is returned when the task context ended before it ran.
	ErrTaskCancelled = errors.New("task was cancelled")
)

// Config Worker Pool 配置
type Config struct {
	// MaxWorkers 最大并发 worker 数量，默认 8
	MaxWorkers int
	// QueueSize 任务队列大小，默认 256
	QueueSize int
}

func DefaultConfig() Config {
	return Config{MaxWorkers: 8, QueueSize: 256}
}

type task struct {
	ctx  context.Context
	fn   func(context.Context) error
	done chan error
}

// Pool runs submitted functions on a fixed set of workers.
type Pool struct {
	config Config
	logger *zap.Logger

	tasks   chan task
	workers sync.WaitGroup
	active  atomic.Int64
	failed  atomic.Int64

	// mu guards closed; sends on tasks happen under the read lock.
	mu     sync.RWMutex
	closed bool
}

// New 创建新的 Worker Pool，cfg 为 nil 时使用默认配置
func New(cfg *Config, logger *zap.Logger) *Pool {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.MaxWorkers > 0 {
			c.MaxWorkers = cfg.MaxWorkers
		}
		if cfg.QueueSize > 0 {
			c.QueueSize = cfg.QueueSize
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pool{
		config: c,
		logger: logger,
		tasks:  make(chan task, c.QueueSize),
	}
	for i := 0; i < c.MaxWorkers; i++ {
		p.workers.Add(1)
		go p.worker()
	}

	p.logger.Info("worker pool started",
		zap.Int("maxWorkers", c.MaxWorkers),
		zap.Int("queueSize", c.QueueSize))
	return p
}

func (p *Pool) worker() {
	defer p.workers.Done()
	for t := range p.tasks {
		err := p.run(t)
		if err != nil {
			p.failed.Add(1)
		}
		if t.done != nil {
			t.done <- err
		} else if err != nil && !errors.Is(err, ErrTaskCancelled) {
			p.logger.Warn("async task failed", zap.Error(err))
		}
	}
}

func (p *Pool) run(t task) (err error) {
	if t.ctx.Err() != nil {
		return ErrTaskCancelled
	}
	p.active.Add(1)
	defer p.active.Add(-1)
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panic", zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("task panic: %v", r)
		}
	}()
	return t.fn(t.ctx)
}

func (p *Pool) enqueue(t task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrWorkerPoolClosed
	}
	select {
	case p.tasks <- t:
		return nil
	default:
		return ErrWorkerPoolFull
	}
}

// Submit 提交任务并等待完成
func (p *Pool) Submit(ctx context.Context, fn func(context.Context) error) error {
	done := make(chan error, 1)
	if err := p.enqueue(task{ctx: ctx, fn: fn, done: done}); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SubmitAsync 异步提交任务（不等待结果）
func (p *Pool) SubmitAsync(ctx context.Context, fn func(context.Context) error) error {
	return p.enqueue(task{ctx: ctx, fn: fn})
}

// ActiveCount 返回当前活跃任务数
func (p *Pool) ActiveCount() int64 { return p.active.Load() }

// QueuedCount 返回当前队列中等待的任务数
func (p *Pool) QueuedCount() int { return len(p.tasks) }

// FailedCount returns how many tasks returned an error or panicked.
func (p *Pool) FailedCount() int64 { return p.failed.Load() }

func (p *Pool) IsClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// Shutdown 关闭 Worker Pool，排队中的任务仍会执行
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.logger.Info("worker pool shutting down",
		zap.Int64("activeCount", p.active.Load()),
		zap.Int("queuedCount", len(p.tasks)))

	done := make(chan struct{})
	go func() {
		p.workers.Wait()
		close(done)
	}()
	select {
	case <-done:
		p.logger.Info("worker pool shutdown completed")
		return nil
	case <-ctx.Done():
		p.logger.Warn("worker pool shutdown timeout")
		return ctx.Err()
	}
}
