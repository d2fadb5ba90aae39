package baseworker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunRecoversPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var calls int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		NewInstance("test", 0, 10*time.Millisecond).Run(ctx, func(ctx context.Context) {
			if atomic.AddInt32(&calls, 1) == 1 {
				panic("boom")
			}
		})
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestRunWithWake(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wake := make(chan struct{}, 1)
	var calls int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		NewInstance("test", time.Hour, time.Hour).RunWithWake(ctx, wake, func(ctx context.Context) {
			atomic.AddInt32(&calls, 1)
		})
	}()
	wake <- struct{}{}
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
	wake <- struct{}{}
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
