// Package progresstest provides a manually advanced scheduler for tests.
package progresstest

import (
	"sync"
	"time"

	"github.com/revsum/revsum/internal/progress"
)

// Scheduler is a progress.Scheduler driven by Advance instead of the wall clock
type Scheduler struct {
	mu    sync.Mutex
	now   time.Duration
	tasks []*task
}

type task struct {
	s       *Scheduler
	at      time.Duration
	every   time.Duration
	fn      func()
	stopped bool
}

func (t *task) Stop() {
	t.s.mu.Lock()
	t.stopped = true
	t.s.mu.Unlock()
}

// New returns a scheduler at time zero
func New() *Scheduler {
	return &Scheduler{}
}

// Every implements progress.Scheduler
func (s *Scheduler) Every(d time.Duration, fn func()) progress.Task {
	return s.add(d, d, fn)
}

// After implements progress.Scheduler
func (s *Scheduler) After(d time.Duration, fn func()) progress.Task {
	return s.add(d, 0, fn)
}

func (s *Scheduler) add(first, every time.Duration, fn func()) *task {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &task{s: s, at: s.now + first, every: every, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance moves the clock forward by d, firing due callbacks in time order.
// Callbacks run on the calling goroutine without the scheduler lock held.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextLocked(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.at
		if next.every > 0 {
			next.at += next.every
		} else {
			next.stopped = true
		}
		fn := next.fn
		s.mu.Unlock()

		fn()
	}
}

// Active returns the number of tasks that have not been stopped or fired
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.tasks {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (s *Scheduler) nextLocked(target time.Duration) *task {
	var next *task
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if t.stopped {
			continue
		}
		live = append(live, t)
		if t.at <= target && (next == nil || t.at < next.at) {
			next = t
		}
	}
	s.tasks = live
	return next
}

// Sequence is a deterministic progress.Source that cycles through values
type Sequence struct {
	mu     sync.Mutex
	values []float64
	i      int
}

// NewSequence returns a source yielding values in order, repeating from the start
func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &Sequence{values: values}
}

// Float64 implements progress.Source
func (q *Sequence) Float64() float64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	v := q.values[q.i%len(q.values)]
	q.i++
	return v
}
