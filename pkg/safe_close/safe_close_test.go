package safe_close

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSafeClose(t *testing.T) {
	sc := NewSafeClose()
	var stopped atomic.Int32
	for i := 0; i < 3; i++ {
		sc.Attach(func(done func(), closeSignal <-chan struct{}) {
			defer done()
			<-closeSignal
			stopped.Add(1)
		})
	}
	assert.False(t, sc.Closed())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, sc.Close(ctx))
	assert.Equal(t, int32(3), stopped.Load())
	assert.True(t, sc.Closed())

	sc.SignalClose()
}

func TestSafeClose_Timeout(t *testing.T) {
	sc := NewSafeClose()
	block := make(chan struct{})
	defer close(block)
	sc.Attach(func(done func(), _ <-chan struct{}) {
		defer done()
		<-block
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, sc.Close(ctx), context.DeadlineExceeded)
}
