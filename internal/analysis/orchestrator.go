package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/revsum/revsum/internal/classify"
	"github.com/revsum/revsum/internal/model"
	"github.com/revsum/revsum/internal/normalize"
	"github.com/revsum/revsum/internal/progress"
	"github.com/revsum/revsum/internal/validate"
)

// ErrBusy is returned by Submit while an analysis is already pending
var ErrBusy = errors.New("analysis already in progress")

// Analyzer performs the remote analysis call
type Analyzer interface {
	Analyze(ctx context.Context, productURL string) (map[string]any, error)
}

// DirectorySource supplies the current supported-site directory
type DirectorySource interface {
	Directory() model.SiteDirectory
}

// Options configure an Orchestrator
type Options struct {
	Analyzer  Analyzer
	Directory DirectorySource // Optional; when nil only blank input is rejected locally
	Progress  model.ProgressConfig
	Currency  string
	Scheduler progress.Scheduler
	Random    progress.Source
	Logger    *slog.Logger
}

// Orchestrator owns the single current Outcome and drives one analysis at a time.
//
// Observers registered with Subscribe and OnProgress are called synchronously
// with internal locks held. They must return quickly and must not call back
// into the Orchestrator.
type Orchestrator struct {
	analyzer  Analyzer
	directory DirectorySource
	currency  string
	logger    *slog.Logger

	sim   *progress.Simulator
	steps *progress.Steps

	// Lock order: mu, then the simulator's lock, then progMu
	mu        sync.Mutex
	outcome   model.Outcome
	gen       uint64
	flight    *flight
	observers map[int]func(model.Outcome)
	nextID    int

	progMu      sync.Mutex
	progress    int
	progressFns []func(int)

	// settled is called with mu held after each remote response is handled
	settled func(applied bool)
}

// flight is one outstanding remote call
type flight struct {
	gen     uint64
	stepRun uint64
	done    chan struct{}
	once    sync.Once
}

func (f *flight) finish() {
	f.once.Do(func() { close(f.done) })
}

// New creates an idle orchestrator
func New(opts Options) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Currency == "" {
		opts.Currency = normalize.DefaultCurrency
	}

	o := &Orchestrator{
		analyzer:  opts.Analyzer,
		directory: opts.Directory,
		currency:  opts.Currency,
		logger:    opts.Logger,
		outcome:   model.Idle(),
		observers: make(map[int]func(model.Outcome)),
	}

	simOpts := progress.OptionsFromConfig(opts.Progress)
	simOpts.Scheduler = opts.Scheduler
	simOpts.Source = opts.Random
	o.sim = progress.NewSimulator(simOpts, o.setProgress)
	o.steps = progress.NewSteps(opts.Progress, opts.Scheduler, o.stepChanged)

	return o
}

// Submit validates rawURL and starts an analysis.
//
// Blank or unsupported input moves straight to a validation Failure without any
// network call and returns nil; the Failure is visible through State. ErrBusy
// is returned while another analysis is pending. The remote call runs on ctx;
// Cancel does not abort it, but its response is discarded.
func (o *Orchestrator) Submit(ctx context.Context, rawURL string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.outcome.Status == model.StatusPending {
		return ErrBusy
	}

	productURL, failure := Precheck(rawURL, o.directory)
	if failure != nil {
		o.gen++
		o.sim.Stop(100)
		o.steps.Reset()
		o.setLocked(model.Failed(failure.Category, failure.Message))
		o.logger.Debug("submission rejected", "url", rawURL, "category", failure.Category)
		return nil
	}

	o.gen++
	f := &flight{gen: o.gen, done: make(chan struct{})}
	o.flight = f

	o.sim.Start()
	f.stepRun = o.steps.Start()
	o.setLocked(model.Pending(model.StepSubmitted, 0))

	o.logger.Info("analysis submitted", "url", productURL)

	go func() {
		raw, err := o.analyzer.Analyze(ctx, productURL)
		o.complete(f, productURL, raw, err)
	}()

	return nil
}

// Precheck applies the local validation rules and returns the URL to submit.
// Blank input always fails. Shape and supported-site checks run only when dir
// is non-nil. A non-nil Failure means no network call should be made.
func Precheck(rawURL string, dir DirectorySource) (string, *model.Failure) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", &model.Failure{Category: model.CategoryValidation, Message: classify.MsgInvalidURL}
	}

	if dir != nil {
		if !validate.HasURLShape(trimmed) {
			return "", &model.Failure{Category: model.CategoryValidation, Message: classify.MsgInvalidURL}
		}
		if _, ok := validate.MatchSite(trimmed, dir.Directory()); !ok {
			return "", &model.Failure{Category: model.CategoryValidation, Message: classify.MsgUnsupportedURL}
		}
	}

	return validate.Normalize(trimmed), nil
}

func (o *Orchestrator) complete(f *flight, productURL string, raw map[string]any, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if f.gen != o.gen {
		o.logger.Debug("discarding stale analysis response", "url", productURL)
		o.notifySettled(false)
		return
	}

	outcome := Settle(raw, err, o.currency)
	if outcome.Failure != nil {
		o.logger.Warn("analysis failed", "url", productURL, "category", outcome.Failure.Category, "error", err)
	} else {
		o.logger.Info("analysis complete", "url", productURL, "product", outcome.Result.ProductName)
	}

	o.releaseLocked(100)
	o.setLocked(outcome)
	o.notifySettled(true)
}

func (o *Orchestrator) notifySettled(applied bool) {
	if o.settled != nil {
		o.settled(applied)
	}
}

// Cancel stops any pending analysis and returns to Idle. Valid from any state.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.gen++
	if o.flight != nil {
		o.logger.Info("analysis cancelled")
	}
	o.releaseLocked(0)
	o.setLocked(model.Idle())
}

// releaseLocked ends the current flight, if any, and disposes of its timers.
// Every exit from Pending goes through here.
func (o *Orchestrator) releaseLocked(final int) {
	if final >= 100 {
		o.sim.Stop(100)
	} else {
		o.sim.Reset()
	}
	o.steps.Reset()

	// Waiters re-read State, which blocks on mu until the caller has published
	if o.flight != nil {
		o.flight.finish()
		o.flight = nil
	}
}

// State returns a snapshot of the current outcome with live progress
func (o *Orchestrator) State() model.Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// Wait blocks until the pending analysis (if any) leaves Pending or ctx is done
func (o *Orchestrator) Wait(ctx context.Context) (model.Outcome, error) {
	o.mu.Lock()
	f := o.flight
	o.mu.Unlock()

	if f == nil {
		return o.State(), nil
	}

	select {
	case <-f.done:
		return o.State(), nil
	case <-ctx.Done():
		return o.State(), ctx.Err()
	}
}

// Subscribe registers fn for state transitions and step changes.
// fn receives the current outcome immediately. The returned func unsubscribes.
func (o *Orchestrator) Subscribe(fn func(model.Outcome)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextID
	o.nextID++
	o.observers[id] = fn
	fn(o.snapshotLocked())

	return func() {
		o.mu.Lock()
		delete(o.observers, id)
		o.mu.Unlock()
	}
}

// OnProgress registers fn for every simulated progress emission
func (o *Orchestrator) OnProgress(fn func(percent int)) {
	o.progMu.Lock()
	o.progressFns = append(o.progressFns, fn)
	o.progMu.Unlock()
}

// Settle turns the result of a remote call into a terminal outcome
func Settle(raw map[string]any, err error, currency string) model.Outcome {
	if err != nil {
		f := classify.Classify(err)
		return model.Failed(f.Category, f.Message)
	}
	return model.Succeeded(normalize.Normalize(raw, currency))
}

func (o *Orchestrator) setLocked(outcome model.Outcome) {
	o.outcome = outcome
	o.publishLocked()
}

func (o *Orchestrator) publishLocked() {
	snap := o.snapshotLocked()
	for _, fn := range o.observers {
		fn(snap)
	}
}

func (o *Orchestrator) snapshotLocked() model.Outcome {
	snap := o.outcome
	switch snap.Status {
	case model.StatusPending:
		o.progMu.Lock()
		snap.Progress = o.progress
		o.progMu.Unlock()
	case model.StatusSuccess, model.StatusFailure:
		snap.Progress = 100
	default:
		snap.Progress = 0
	}
	if snap.Result != nil {
		r := *snap.Result
		snap.Result = &r
	}
	if snap.Failure != nil {
		f := *snap.Failure
		snap.Failure = &f
	}
	return snap
}

func (o *Orchestrator) setProgress(percent int) {
	o.progMu.Lock()
	defer o.progMu.Unlock()

	o.progress = percent
	for _, fn := range o.progressFns {
		fn(percent)
	}
}

func (o *Orchestrator) stepChanged(run uint64, step int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.flight == nil || o.flight.stepRun != run || o.outcome.Status != model.StatusPending {
		return
	}
	if step <= o.outcome.Step {
		return
	}
	o.outcome.Step = step
	o.publishLocked()
}
