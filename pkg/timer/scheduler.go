package timer

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs callbacks later on the owner's event loop. Implementations
// must never run a callback concurrently with another one.
type Scheduler interface {
	// AfterFunc runs fn once after d. Calling cancel before it runs drops it.
	AfterFunc(d time.Duration, fn func()) (cancel func())
	// Every runs fn each d until cancel is called.
	Every(d time.Duration, fn func()) (cancel func())
	// Now is the scheduler's clock.
	Now() time.Time
}

type manualTask struct {
	id       uint64
	at       time.Duration
	interval time.Duration
	fn       func()
}

// ManualScheduler is a Scheduler driven by Advance. Callbacks run on the
// goroutine calling Advance, in due-time order.
type ManualScheduler struct {
	lock   sync.Mutex
	now    time.Duration
	nextID uint64
	tasks  map[uint64]*manualTask
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{
		tasks: make(map[uint64]*manualTask),
	}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) func() {
	return s.add(d, 0, fn)
}

func (s *ManualScheduler) Every(d time.Duration, fn func()) func() {
	return s.add(d, d, fn)
}

// Now starts at the Unix epoch and moves only with Advance.
func (s *ManualScheduler) Now() time.Time {
	s.lock.Lock()
	defer s.lock.Unlock()
	return time.Unix(0, 0).Add(s.now)
}

func (s *ManualScheduler) add(d, interval time.Duration, fn func()) func() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.nextID++
	id := s.nextID
	s.tasks[id] = &manualTask{id: id, at: s.now + d, interval: interval, fn: fn}
	return func() {
		s.lock.Lock()
		defer s.lock.Unlock()
		delete(s.tasks, id)
	}
}

// Advance moves the clock forward by d and runs every callback that falls
// due, including callbacks scheduled by other callbacks.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.lock.Lock()
	target := s.now + d
	s.lock.Unlock()

	for {
		task := s.nextDue(target)
		if task == nil {
			break
		}
		task.fn()
	}

	s.lock.Lock()
	s.now = target
	s.lock.Unlock()
}

func (s *ManualScheduler) nextDue(target time.Duration) *manualTask {
	s.lock.Lock()
	defer s.lock.Unlock()

	due := []*manualTask{}
	for _, task := range s.tasks {
		if task.at <= target {
			due = append(due, task)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at == due[j].at {
			return due[i].id < due[j].id
		}
		return due[i].at < due[j].at
	})
	task := due[0]
	s.now = task.at
	if task.interval > 0 {
		task.at += task.interval
	} else {
		delete(s.tasks, task.id)
	}
	return task
}

// Pending returns the number of scheduled callbacks.
func (s *ManualScheduler) Pending() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.tasks)
}
