package writequeue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_FIFOPerUser(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	release := make(chan struct{})
	started := make(chan struct{})
	var order []int
	var mu sync.Mutex

	// the first write blocks so the others pile up behind it
	go m.Execute(context.Background(), 1, func() error {
		close(started)
		<-release
		return nil
	})
	<-started

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Execute(context.Background(), 1, func() error {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			})
		}()
		require.Eventually(t, func() bool { return m.QueuedCount(1) == i+1 }, time.Second, time.Millisecond)
	}
	close(release)
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestExecute_SerialWithinUserParallelAcross(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	var active, maxActive atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Execute(context.Background(), 7, func() error {
				n := active.Add(1)
				for {
					cur := maxActive.Load()
					if n <= cur || maxActive.CompareAndSwap(cur, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				active.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxActive.Load())

	blockA := make(chan struct{})
	go m.Execute(context.Background(), 100, func() error { <-blockA; return nil })
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, m.Execute(ctx, 200, func() error { return nil }), "another user is not blocked")
	close(blockA)
}

func TestExecute_Errors(t *testing.T) {
	m := New(&Config{QueueCapacity: 1, WriteTimeout: 50 * time.Millisecond}, nil)

	boom := assert.AnError
	assert.ErrorIs(t, m.Execute(context.Background(), 1, func() error { return boom }), boom)
	assert.Error(t, m.Execute(context.Background(), 1, func() error { panic("bad") }))

	block := make(chan struct{})
	started := make(chan struct{})
	go m.Execute(context.Background(), 2, func() error { close(started); <-block; return nil })
	<-started
	go m.Execute(context.Background(), 2, func() error { return nil })
	require.Eventually(t, func() bool { return m.QueuedCount(2) == 1 }, time.Second, time.Millisecond)
	assert.ErrorIs(t, m.Execute(context.Background(), 2, func() error { return nil }), ErrWriteQueueFull)
	close(block)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Execute(cancelled, 3, func() error { return nil }), context.Canceled)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.True(t, m.IsClosed())
	assert.ErrorIs(t, m.Execute(context.Background(), 1, func() error { return nil }), ErrWriteQueueClosed)
	assert.NoError(t, m.Shutdown(context.Background()))
}

func TestExecute_Timeout(t *testing.T) {
	m := New(&Config{WriteTimeout: 20 * time.Millisecond}, nil)
	defer m.Shutdown(context.Background())

	release := make(chan struct{})
	defer close(release)
	err := m.Execute(context.Background(), 1, func() error {
		<-release
		return nil
	})
	assert.ErrorIs(t, err, ErrWriteTimeout)
}

func TestReapIdle(t *testing.T) {
	m := New(&Config{IdleTimeout: time.Hour}, nil)
	defer m.Shutdown(context.Background())

	require.NoError(t, m.Execute(context.Background(), 1, func() error { return nil }))
	require.NoError(t, m.Execute(context.Background(), 2, func() error { return nil }))
	assert.Equal(t, 0, m.reapIdle(time.Now()))
	assert.Equal(t, 2, m.reapIdle(time.Now().Add(2*time.Hour)))
	assert.Equal(t, 0, m.QueueCount())

	// a reaped user gets a fresh queue
	assert.NoError(t, m.Execute(context.Background(), 1, func() error { return nil }))
	assert.Equal(t, 1, m.QueueCount())
}
