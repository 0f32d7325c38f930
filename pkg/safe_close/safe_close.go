// Package safe_close coordinates graceful shutdown of background goroutines.
package safe_close

import (
	"context"
	"sync"
)

// SafeClose broadcasts one close signal to every attached goroutine and
// waits for them to report done.
type SafeClose struct {
	signal chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

func NewSafeClose() *SafeClose {
	return &SafeClose{signal: make(chan struct{})}
}

// Attach runs fn in a goroutine. fn must call done when it returns.
func (s *SafeClose) Attach(fn func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	go fn(s.wg.Done, s.signal)
}

// SignalClose closes the signal channel. Safe to call more than once.
func (s *SafeClose) SignalClose() {
	s.once.Do(func() { close(s.signal) })
}

// Closed reports whether the signal was sent.
func (s *SafeClose) Closed() bool {
	select {
	case <-s.signal:
		return true
	default:
		return false
	}
}

// WaitClosed waits for every attached goroutine or for ctx.
func (s *SafeClose) WaitClosed(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close 发送关闭信号并等待
func (s *SafeClose) Close(ctx context.Context) error {
	s.SignalClose()
	return s.WaitClosed(ctx)
}
