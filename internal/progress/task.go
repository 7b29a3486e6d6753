package progress

import (
	"sync"
	"time"
)

// Task is a scheduled callback. Stop is idempotent and safe to call from any goroutine.
type Task interface {
	Stop()
}

// Scheduler runs callbacks on a timer
type Scheduler interface {
	// Every runs fn repeatedly every d until the task is stopped
	Every(d time.Duration, fn func()) Task
	// After runs fn once after d unless the task is stopped first
	After(d time.Duration, fn func()) Task
}

// System schedules on the wall clock
var System Scheduler = systemScheduler{}

type systemScheduler struct{}

func (systemScheduler) Every(d time.Duration, fn func()) Task {
	t := &tickerTask{stop: make(chan struct{})}
	ticker := time.NewTicker(d)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				// Both channels can be ready at once; stop wins
				select {
				case <-t.stop:
					return
				default:
				}
				fn()
			}
		}
	}()

	return t
}

func (systemScheduler) After(d time.Duration, fn func()) Task {
	return timerTask{time.AfterFunc(d, fn)}
}

type tickerTask struct {
	stop chan struct{}
	once sync.Once
}

func (t *tickerTask) Stop() {
	t.once.Do(func() { close(t.stop) })
}

type timerTask struct {
	timer *time.Timer
}

func (t timerTask) Stop() {
	t.timer.Stop()
}

// stopAll stops every task and returns an empty slice for reuse
func stopAll(tasks []Task) []Task {
	for _, t := range tasks {
		if t != nil {
			t.Stop()
		}
	}
	return tasks[:0]
}
