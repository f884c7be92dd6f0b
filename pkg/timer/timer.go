package timer

import "time"

// Timer binds a Countdown to a Scheduler. Each Start subscribes a fresh tick
// source; Stop unsubscribes it, and any tick already in flight for the old
// subscription is dropped by generation. Pause keeps the part of the current
// second already run, so the first tick after Resume comes once the rest of
// that second has passed.
type Timer struct {
	countdown *Countdown
	scheduler Scheduler
	interval  time.Duration
	onTick    func(Tick)
	cancel    func()
	// secondStart is when the current second began running
	secondStart time.Time
	// elapsed is the part of the current second run before a pause
	elapsed time.Duration
}

func New(durationSeconds int, interval time.Duration, scheduler Scheduler) *Timer {
	return &Timer{
		countdown: NewCountdown(durationSeconds),
		scheduler: scheduler,
		interval:  interval,
	}
}

// Start resets the countdown and delivers its ticks to onTick.
func (t *Timer) Start(onTick func(Tick)) {
	t.onTick = onTick
	t.elapsed = 0
	t.subscribe(t.countdown.Start(), t.interval)
}

func (t *Timer) Stop() {
	t.unsubscribe()
	t.elapsed = 0
	t.countdown.Stop()
}

func (t *Timer) Pause() bool {
	if !t.countdown.Pause() {
		return false
	}
	t.unsubscribe()
	t.elapsed = t.scheduler.Now().Sub(t.secondStart)
	if t.elapsed < 0 {
		t.elapsed = 0
	}
	if t.elapsed > t.interval {
		t.elapsed = t.interval
	}
	return true
}

func (t *Timer) Resume() bool {
	if !t.countdown.Resume() {
		return false
	}
	t.subscribe(t.countdown.Generation(), t.interval-t.elapsed)
	t.elapsed = 0
	return true
}

func (t *Timer) AddTime(seconds int) bool {
	return t.countdown.AddTime(seconds)
}

func (t *Timer) Remaining() int {
	return t.countdown.Remaining()
}

func (t *Timer) State() State {
	return t.countdown.State()
}

func (t *Timer) IsRunning() bool {
	return t.countdown.State() == StateRunning
}

func (t *Timer) Duration() int {
	return t.countdown.Duration()
}

// subscribe delivers the first tick after first and the rest every interval.
func (t *Timer) subscribe(generation uint64, first time.Duration) {
	t.unsubscribe()
	t.secondStart = t.scheduler.Now().Add(first - t.interval)
	t.cancel = t.scheduler.AfterFunc(first, func() {
		t.cancel = t.scheduler.Every(t.interval, func() {
			t.tick(generation)
		})
		t.tick(generation)
	})
}

func (t *Timer) tick(generation uint64) {
	t.secondStart = t.scheduler.Now()
	tick, ok := t.countdown.Advance(generation)
	if !ok {
		return
	}
	if tick.Expired {
		t.unsubscribe()
	}
	t.onTick(tick)
}

func (t *Timer) unsubscribe() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
