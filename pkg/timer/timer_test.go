package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdown_expiresOnce(t *testing.T) {
	c := NewCountdown(2)
	gen := c.Start()

	tick, ok := c.Advance(gen)
	require.True(t, ok)
	assert.Equal(t, 1, tick.Remaining)
	assert.False(t, tick.Expired)

	tick, ok = c.Advance(gen)
	require.True(t, ok)
	assert.Equal(t, 0, tick.Remaining)
	assert.True(t, tick.Expired)

	_, ok = c.Advance(gen)
	assert.False(t, ok)
	assert.Equal(t, StateIdle, c.State())
}

func TestCountdown_staleTicksAreDiscarded(t *testing.T) {
	c := NewCountdown(5)
	gen := c.Start()
	c.Stop()

	_, ok := c.Advance(gen)
	assert.False(t, ok)

	newGen := c.Start()
	_, ok = c.Advance(gen)
	assert.False(t, ok)
	tick, ok := c.Advance(newGen)
	assert.True(t, ok)
	assert.Equal(t, 4, tick.Remaining)
}

func TestCountdown_pauseResumeIdempotent(t *testing.T) {
	c := NewCountdown(5)
	assert.False(t, c.Pause())
	gen := c.Start()
	c.Advance(gen)

	assert.True(t, c.Pause())
	assert.False(t, c.Pause())
	assert.Equal(t, StatePaused, c.State())

	_, ok := c.Advance(gen)
	assert.False(t, ok)
	assert.Equal(t, 4, c.Remaining())

	assert.True(t, c.Resume())
	assert.False(t, c.Resume())
	assert.Equal(t, StateRunning, c.State())
}

func TestCountdown_AddTime(t *testing.T) {
	c := NewCountdown(5)
	assert.False(t, c.AddTime(3))

	c.Start()
	assert.True(t, c.AddTime(3))
	assert.Equal(t, 8, c.Remaining())

	c.Pause()
	assert.False(t, c.AddTime(3))
	assert.Equal(t, 8, c.Remaining())
}

func TestTimer_deliversTicksUntilStopped(t *testing.T) {
	sched := NewManualScheduler()
	timer := New(3, time.Second, sched)

	ticks := []Tick{}
	timer.Start(func(tick Tick) { ticks = append(ticks, tick) })
	sched.Advance(2 * time.Second)
	require.Len(t, ticks, 2)
	assert.Equal(t, 1, ticks[1].Remaining)

	timer.Stop()
	sched.Advance(5 * time.Second)
	assert.Len(t, ticks, 2)
	assert.Equal(t, 0, sched.Pending())
	assert.Equal(t, 3, timer.Remaining())
}

func TestTimer_expiryUnsubscribes(t *testing.T) {
	sched := NewManualScheduler()
	timer := New(2, time.Second, sched)

	expired := 0
	timer.Start(func(tick Tick) {
		if tick.Expired {
			expired++
		}
	})
	sched.Advance(10 * time.Second)

	assert.Equal(t, 1, expired)
	assert.Equal(t, 0, sched.Pending())
}

func TestManualScheduler_AfterFuncCancel(t *testing.T) {
	sched := NewManualScheduler()
	ran := []string{}
	sched.AfterFunc(2*time.Second, func() { ran = append(ran, "late") })
	cancel := sched.AfterFunc(time.Second, func() { ran = append(ran, "cancelled") })
	sched.AfterFunc(time.Second, func() {
		ran = append(ran, "early")
		sched.AfterFunc(0, func() { ran = append(ran, "chained") })
	})
	cancel()

	sched.Advance(3 * time.Second)

	assert.Equal(t, []string{"early", "chained", "late"}, ran)
}

func TestTimer_pauseKeepsPartialSecond(t *testing.T) {
	tests := []struct {
		name          string
		beforePause   time.Duration
		afterResume   time.Duration
		wantRemaining int
	}{
		{name: "partial seconds add up to less than one", beforePause: 500 * time.Millisecond, afterResume: 100 * time.Millisecond, wantRemaining: 10},
		{name: "partial seconds add up to one", beforePause: 500 * time.Millisecond, afterResume: 500 * time.Millisecond, wantRemaining: 9},
		{name: "pause on a tick", beforePause: 2 * time.Second, afterResume: 999 * time.Millisecond, wantRemaining: 8},
		{name: "cadence continues after the first tick", beforePause: 1300 * time.Millisecond, afterResume: 1700 * time.Millisecond, wantRemaining: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := NewManualScheduler()
			timer := New(10, time.Second, sched)
			timer.Start(func(Tick) {})

			sched.Advance(tt.beforePause)
			require.True(t, timer.Pause())
			sched.Advance(400 * time.Millisecond)
			assert.Equal(t, 0, sched.Pending())

			require.True(t, timer.Resume())
			sched.Advance(tt.afterResume)
			assert.Equal(t, tt.wantRemaining, timer.Remaining())
		})
	}
}

func TestTimer_repeatedPausesLoseNoTime(t *testing.T) {
	sched := NewManualScheduler()
	timer := New(10, time.Second, sched)
	timer.Start(func(Tick) {})

	for i := 0; i < 5; i++ {
		sched.Advance(400 * time.Millisecond)
		require.True(t, timer.Pause())
		sched.Advance(time.Second)
		require.True(t, timer.Resume())
	}

	// 2s of running time
	assert.Equal(t, 8, timer.Remaining())
}
