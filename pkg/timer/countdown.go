// Package timer implements the per-challenge countdown. Time is advanced
// by explicit ticks so the same countdown runs under a real clock or a
// test scheduler.
package timer

type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Tick is emitted once per elapsed second while the countdown runs.
type Tick struct {
	// Generation identifies the Start call the tick belongs to
	Generation uint64
	Remaining  int
	Expired    bool
}

// Countdown is the tick-transition state of the timer. It is not safe for
// concurrent use; the owner serialises calls.
type Countdown struct {
	duration   int
	remaining  int
	state      State
	generation uint64
}

func NewCountdown(durationSeconds int) *Countdown {
	return &Countdown{
		duration:  durationSeconds,
		remaining: durationSeconds,
	}
}

// Start resets the remaining time to the configured duration and begins a
// new generation. Ticks of earlier generations are discarded.
func (c *Countdown) Start() uint64 {
	c.generation++
	c.remaining = c.duration
	c.state = StateRunning
	return c.generation
}

// Stop halts the countdown and resets it.
func (c *Countdown) Stop() {
	c.generation++
	c.remaining = c.duration
	c.state = StateIdle
}

// Pause reports whether the countdown went from running to paused.
func (c *Countdown) Pause() bool {
	if c.state != StateRunning {
		return false
	}
	c.state = StatePaused
	return true
}

// Resume reports whether the countdown went from paused to running.
func (c *Countdown) Resume() bool {
	if c.state != StatePaused {
		return false
	}
	c.state = StateRunning
	return true
}

// AddTime extends the remaining time. Only effective while running.
func (c *Countdown) AddTime(seconds int) bool {
	if c.state != StateRunning || seconds <= 0 {
		return false
	}
	c.remaining += seconds
	return true
}

// Advance applies one elapsed second for the given generation. It returns
// false when the tick is stale or the countdown is not running. The tick
// that reaches zero is reported once as expired and leaves the countdown idle.
func (c *Countdown) Advance(generation uint64) (Tick, bool) {
	if generation != c.generation || c.state != StateRunning {
		return Tick{}, false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	tick := Tick{Generation: generation, Remaining: c.remaining}
	if c.remaining == 0 {
		tick.Expired = true
		c.state = StateIdle
	}
	return tick, true
}

func (c *Countdown) Remaining() int {
	return c.remaining
}

func (c *Countdown) State() State {
	return c.state
}

func (c *Countdown) Duration() int {
	return c.duration
}

func (c *Countdown) Generation() uint64 {
	return c.generation
}
