package progress

import (
	"sync"
	"time"

	"github.com/revsum/revsum/internal/model"
)

// Steps advances the phase indicator on a fixed timetable: scraping at start,
// processing after one delay, summarizing after another. The phases are
// cosmetic; the service reports nothing about its real progress.
//
// The change listener runs without the Steps lock held and receives the run
// number it belongs to, so callers can drop callbacks from an earlier run.
type Steps struct {
	scheduler        Scheduler
	processingAfter  time.Duration
	summarizingAfter time.Duration
	onChange         func(run uint64, step int)

	mu    sync.Mutex
	run   uint64
	step  int
	tasks []Task
}

// NewSteps creates an idle indicator at step 0
func NewSteps(cfg model.ProgressConfig, scheduler Scheduler, onChange func(run uint64, step int)) *Steps {
	defaults := model.DefaultConfig().Progress
	if cfg.ProcessingAfter <= 0 {
		cfg.ProcessingAfter = defaults.ProcessingAfter
	}
	if cfg.SummarizingAfter <= cfg.ProcessingAfter {
		cfg.SummarizingAfter = cfg.ProcessingAfter + (defaults.SummarizingAfter - defaults.ProcessingAfter)
	}
	if scheduler == nil {
		scheduler = System
	}
	if onChange == nil {
		onChange = func(uint64, int) {}
	}

	return &Steps{
		scheduler:        scheduler,
		processingAfter:  cfg.ProcessingAfter,
		summarizingAfter: cfg.SummarizingAfter,
		onChange:         onChange,
	}
}

// Start moves to the scraping step and schedules the later phases.
// It returns the run number that later callbacks will carry.
// The initial step is not reported through the listener.
func (s *Steps) Start() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = stopAll(s.tasks)
	s.run++
	s.step = model.StepSubmitted

	run := s.run
	s.tasks = append(s.tasks,
		s.scheduler.After(s.processingAfter, func() { s.advance(run, model.StepProcessing) }),
		s.scheduler.After(s.summarizingAfter, func() { s.advance(run, model.StepSummarizing) }),
	)
	return run
}

// Reset cancels pending phases and returns to step 0
func (s *Steps) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = stopAll(s.tasks)
	s.run++
	s.step = model.StepNone
}

// Current returns the active step
func (s *Steps) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

func (s *Steps) advance(run uint64, step int) {
	s.mu.Lock()
	if run != s.run || step <= s.step {
		s.mu.Unlock()
		return
	}
	s.step = step
	s.mu.Unlock()

	s.onChange(run, step)
}
