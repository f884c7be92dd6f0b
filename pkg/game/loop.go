package game

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cbodonnell/breedadventure/pkg/log"
	"github.com/cbodonnell/breedadventure/pkg/queue"
)

const (
	// DefaultLoopInterval is how often the loop drains its queue when
	// nothing wakes it earlier.
	DefaultLoopInterval = 50 * time.Millisecond
)

var ErrLoopStopped = fmt.Errorf("event loop is stopped")

// Loop serialises every event of one session on a single goroutine: player
// commands, countdown ticks, delayed transitions and I/O completions. It is
// the session's timer.Scheduler.
type Loop struct {
	events   queue.Queue[func()]
	wake     chan struct{}
	done     chan struct{}
	interval time.Duration
	running  atomic.Bool
	stopOnce sync.Once
}

func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultLoopInterval
	}
	return &Loop{
		events:   queue.NewInMemoryQueue[func()](queue.QueueBufferSize),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
		interval: interval,
	}
}

// Run processes events until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	if !l.running.CompareAndSwap(false, true) {
		log.Warn("Event loop is already running")
		return
	}
	defer l.stopOnce.Do(func() { close(l.done) })

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
			l.drain()
		case <-ticker.C:
			l.drain()
		}
	}
}

func (l *Loop) drain() {
	for _, fn := range l.events.ReadAllMessages() {
		fn()
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post queues fn to run on the loop goroutine.
func (l *Loop) Post(fn func()) bool {
	if !l.events.Enqueue(fn) {
		log.Error("Event loop queue is full, dropping event")
		return false
	}
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do runs fn on the loop goroutine and waits for its result.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	if !l.Post(func() { result <- fn() }) {
		return fmt.Errorf("failed to post event: queue is full")
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopStopped
	}
}

func (l *Loop) Now() time.Time {
	return time.Now()
}

// AfterFunc runs fn on the loop after d. A cancelled callback never runs,
// even when its timer already fired.
func (l *Loop) AfterFunc(d time.Duration, fn func()) func() {
	var cancelled atomic.Bool
	t := time.AfterFunc(d, func() {
		l.Post(func() {
			if !cancelled.Load() {
				fn()
			}
		})
	})
	return func() {
		cancelled.Store(true)
		t.Stop()
	}
}

// Every runs fn on the loop once per d until cancelled.
func (l *Loop) Every(d time.Duration, fn func()) func() {
	var cancelled atomic.Bool
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-l.done:
				return
			case <-ticker.C:
				l.Post(func() {
					if !cancelled.Load() {
						fn()
					}
				})
			}
		}
	}()
	var once sync.Once
	return func() {
		cancelled.Store(true)
		once.Do(func() { close(stop) })
	}
}
