package game

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) (*Loop, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	loop := NewLoop(10 * time.Millisecond)
	go loop.Run(ctx)
	t.Cleanup(cancel)
	return loop, cancel
}

func TestLoop_Do(t *testing.T) {
	loop, _ := startLoop(t)

	order := []int{}
	for i := 0; i < 5; i++ {
		i := i
		require.True(t, loop.Post(func() { order = append(order, i) }))
	}
	err := loop.Do(context.Background(), func() error {
		order = append(order, 5)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, order)

	boom := errors.New("boom")
	assert.ErrorIs(t, loop.Do(context.Background(), func() error { return boom }), boom)
}

func TestLoop_DoAfterStop(t *testing.T) {
	loop, cancel := startLoop(t)
	cancel()
	<-loop.Done()

	err := loop.Do(context.Background(), func() error { return nil })
	assert.ErrorIs(t, err, ErrLoopStopped)
}

func TestLoop_AfterFunc(t *testing.T) {
	loop, _ := startLoop(t)

	var fired, cancelled atomic.Int32
	loop.AfterFunc(5*time.Millisecond, func() { fired.Add(1) })
	cancel := loop.AfterFunc(5*time.Millisecond, func() { cancelled.Add(1) })
	cancel()

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), cancelled.Load())
}

func TestLoop_Every(t *testing.T) {
	loop, _ := startLoop(t)

	var ticks atomic.Int32
	cancel := loop.Every(5*time.Millisecond, func() { ticks.Add(1) })
	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	// let a tick already posted drain
	require.NoError(t, loop.Do(context.Background(), func() error { return nil }))
	stopped := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, ticks.Load())
}
