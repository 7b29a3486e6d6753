package progress

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/revsum/revsum/internal/model"
)

// Source supplies uniform random values in [0, 1)
type Source interface {
	Float64() float64
}

// NewSource returns a seeded source suitable for display jitter
func NewSource() Source {
	return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
}

// Options configure a Simulator
type Options struct {
	Interval     time.Duration
	MinIncrement float64
	MaxIncrement float64
	Ceiling      float64 // Soft cap while running; clamped below 100
	Scheduler    Scheduler
	Source       Source
}

// OptionsFromConfig maps the progress config section onto Options
func OptionsFromConfig(cfg model.ProgressConfig) Options {
	return Options{
		Interval:     cfg.TickInterval,
		MinIncrement: cfg.MinIncrement,
		MaxIncrement: cfg.MaxIncrement,
		Ceiling:      cfg.Ceiling,
	}
}

// Simulator estimates completion while a request of unknown duration is in
// flight. While running it only ever climbs, and it stays below 100.
// Only Stop reports completion.
//
// The tick listener is called with the simulator lock held, so emissions are
// strictly ordered; it must not call back into the Simulator.
type Simulator struct {
	opts   Options
	onTick func(percent int)

	mu      sync.Mutex
	value   float64
	running bool
	gen     uint64
	ticker  Task
}

// NewSimulator creates a stopped simulator at 0%
func NewSimulator(opts Options, onTick func(percent int)) *Simulator {
	defaults := OptionsFromConfig(model.DefaultConfig().Progress)
	if opts.Interval <= 0 {
		opts.Interval = defaults.Interval
	}
	if opts.MinIncrement <= 0 {
		opts.MinIncrement = defaults.MinIncrement
	}
	if opts.MaxIncrement < opts.MinIncrement {
		opts.MaxIncrement = opts.MinIncrement
	}
	if opts.Ceiling <= 0 {
		opts.Ceiling = defaults.Ceiling
	}
	if opts.Ceiling > 99 {
		opts.Ceiling = 99
	}
	if opts.Scheduler == nil {
		opts.Scheduler = System
	}
	if opts.Source == nil {
		opts.Source = NewSource()
	}
	if onTick == nil {
		onTick = func(int) {}
	}

	return &Simulator{opts: opts, onTick: onTick}
}

// Start resets to 0% and begins ticking. Calling Start while running restarts.
func (s *Simulator) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.haltLocked()
	s.gen++
	s.value = 0
	s.running = true
	s.onTick(0)

	gen := s.gen
	s.ticker = s.opts.Scheduler.Every(s.opts.Interval, func() { s.tick(gen) })
}

// Stop halts ticking and jumps to final, which every later read reports until Start
func (s *Simulator) Stop(final int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.haltLocked()
	s.value = float64(clampPercent(final))
	s.onTick(s.percentLocked())
}

// Reset halts ticking and returns to 0%
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.haltLocked()
	s.value = 0
	s.onTick(0)
}

// Value returns the current percentage
func (s *Simulator) Value() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.percentLocked()
}

// Running reports whether the simulator is ticking
func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Simulator) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || gen != s.gen {
		return
	}
	s.advanceLocked()
	s.onTick(s.percentLocked())
}

// advanceLocked adds one random increment, never passing the ceiling
func (s *Simulator) advanceLocked() {
	if s.value >= s.opts.Ceiling {
		return
	}
	span := s.opts.MaxIncrement - s.opts.MinIncrement
	s.value = math.Min(s.value+s.opts.MinIncrement+s.opts.Source.Float64()*span, s.opts.Ceiling)
}

func (s *Simulator) haltLocked() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	s.running = false
	s.gen++
}

func (s *Simulator) percentLocked() int {
	return clampPercent(int(math.Round(s.value)))
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
