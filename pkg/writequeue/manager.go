// Package writequeue serializes the writes of each user.
// Package writequeue 提供按用户串行化的写队列
//
// Every uid gets a FIFO queue drained by one goroutine, so two writes of the
// same user never run at the same time while different users proceed in
// parallel. Idle queues are reclaimed in the background.
package writequeue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrWriteQueueFull 当用户写队列已满时返回
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed 当写队列管理器已关闭时返回
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout is returned when the caller stops waiting. The write
	// itself may still run later.
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config 写队列配置
type Config struct {
	// QueueCapacity 每用户队列容量，默认 100
	QueueCapacity int
	// WriteTimeout 写操作等待超时，默认 30 秒
	WriteTimeout time.Duration
	// IdleTimeout 空闲清理超时时间，默认 10 分钟
	IdleTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		QueueCapacity: 100,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   10 * time.Minute,
	}
}

type writeOp struct {
	ctx    context.Context
	fn     func() error
	result chan error
}

type userQueue struct {
	uid      int64
	ops      chan writeOp
	lastUsed time.Time // guarded by Manager.mu
}

// Manager 管理所有用户的写队列
type Manager struct {
	config Config
	logger *zap.Logger

	// mu guards queues and closed. Every send on a queue channel happens
	// under mu, and a channel is only closed after its queue left the map.
	mu     sync.Mutex
	queues map[int64]*userQueue
	closed bool

	workers     sync.WaitGroup
	cleanupStop chan struct{}
	cleanupDone chan struct{}
}

// New creates a manager. A nil cfg or zero fields take the defaults.
func New(cfg *Config, logger *zap.Logger) *Manager {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.QueueCapacity > 0 {
			c.QueueCapacity = cfg.QueueCapacity
		}
		if cfg.WriteTimeout > 0 {
			c.WriteTimeout = cfg.WriteTimeout
		}
		if cfg.IdleTimeout > 0 {
			c.IdleTimeout = cfg.IdleTimeout
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		config:      c,
		logger:      logger,
		queues:      make(map[int64]*userQueue),
		cleanupStop: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
	go m.cleanupLoop()

	m.logger.Info("write queue manager started",
		zap.Int("queueCapacity", c.QueueCapacity),
		zap.Duration("writeTimeout", c.WriteTimeout),
		zap.Duration("idleTimeout", c.IdleTimeout))
	return m
}

// Execute queues fn behind the earlier writes of uid and waits for its
// result. A panic inside fn is returned as an error.
// Execute 执行写操作，同一用户的写操作按 FIFO 顺序处理
func (m *Manager) Execute(ctx context.Context, uid int64, fn func() error) error {
	op := writeOp{ctx: ctx, fn: fn, result: make(chan error, 1)}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrWriteQueueClosed
	}
	q := m.queues[uid]
	if q == nil {
		q = &userQueue{uid: uid, ops: make(chan writeOp, m.config.QueueCapacity)}
		m.queues[uid] = q
		m.workers.Add(1)
		go m.worker(q)
		m.logger.Debug("created write queue for user", zap.Int64("uid", uid))
	}
	q.lastUsed = time.Now()
	select {
	case q.ops <- op:
	default:
		m.mu.Unlock()
		return ErrWriteQueueFull
	}
	m.mu.Unlock()

	timer := time.NewTimer(m.config.WriteTimeout)
	defer timer.Stop()
	select {
	case err := <-op.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrWriteTimeout
	}
}

// worker drains q until its channel is closed.
func (m *Manager) worker(q *userQueue) {
	defer m.workers.Done()
	for op := range q.ops {
		op.result <- m.run(op)
	}
	m.logger.Debug("write queue worker stopped", zap.Int64("uid", q.uid))
}

func (m *Manager) run(op writeOp) (err error) {
	if err := op.ctx.Err(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("write operation panic", zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("write operation panic: %v", r)
		}
	}()
	return op.fn()
}

func (m *Manager) cleanupLoop() {
	defer close(m.cleanupDone)
	ticker := time.NewTicker(m.config.IdleTimeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-m.cleanupStop:
			return
		case <-ticker.C:
			m.reapIdle(time.Now())
		}
	}
}

// reapIdle closes the empty queues unused for longer than IdleTimeout.
func (m *Manager) reapIdle(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for uid, q := range m.queues {
		if len(q.ops) == 0 && now.Sub(q.lastUsed) > m.config.IdleTimeout {
			delete(m.queues, uid)
			close(q.ops)
			n++
		}
	}
	if n > 0 {
		m.logger.Debug("cleaned up idle write queues", zap.Int("count", n))
	}
	return n
}

// Shutdown stops accepting writes, lets queued writes finish and waits for
// the workers or ctx.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	for uid, q := range m.queues {
		delete(m.queues, uid)
		close(q.ops)
	}
	m.mu.Unlock()

	m.logger.Info("write queue manager shutting down")
	close(m.cleanupStop)

	done := make(chan struct{})
	go func() {
		m.workers.Wait()
		<-m.cleanupDone
		close(done)
	}()
	select {
	case <-done:
		m.logger.Info("write queue manager shutdown completed")
		return nil
	case <-ctx.Done():
		m.logger.Warn("write queue manager shutdown timeout")
		return ctx.Err()
	}
}

// QueueCount 返回当前活跃队列数量
func (m *Manager) QueueCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queues)
}

// QueuedCount 返回指定用户队列中等待的操作数
func (m *Manager) QueuedCount(uid int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.queues[uid]; ok {
		return len(q.ops)
	}
	return 0
}

func (m *Manager) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
