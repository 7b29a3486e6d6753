package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/revsum/revsum/internal/analysis"
	"github.com/revsum/revsum/internal/model"
	"github.com/revsum/revsum/internal/validate"
)

// AnalyzeJob is one URL in a batch
type AnalyzeJob struct {
	Index     int
	Input     string
	processor *BatchProcessor
}

// Execute validates, throttles and analyzes the URL
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	b := j.processor
	start := time.Now()
	item := &ItemResult{Index: j.Index, Input: j.Input}

	defer func() {
		item.Elapsed = time.Since(start)
		if b.onResult != nil {
			b.onResult(*item)
		}
	}()

	productURL, failure := analysis.Precheck(j.Input, b.directory)
	if failure != nil {
		item.Outcome = model.Failed(failure.Category, failure.Message)
		return item
	}
	item.URL = productURL

	if b.limiter != nil {
		if err := b.limiter.Wait(ctx, b.limitKey); err != nil {
			item.Err = err
			item.Outcome = analysis.Settle(nil, err, b.currency)
			return item
		}
	}

	raw, err := b.analyzer.Analyze(ctx, productURL)
	item.Err = err
	item.Outcome = analysis.Settle(raw, err, b.currency)

	if err != nil {
		b.logger.Warn("batch item failed", "url", productURL, "category", item.Outcome.Failure.Category, "error", err)
	} else {
		b.logger.Debug("batch item complete", "url", productURL)
	}

	return item
}

// ItemResult is the terminal outcome of one batch URL
type ItemResult struct {
	Index   int
	Input   string
	URL     string // Normalized URL; empty when rejected locally
	Outcome model.Outcome
	Err     error // Underlying transport error, if any
	Elapsed time.Duration
}

// GetError returns the classified failure, if any
func (r *ItemResult) GetError() error {
	if r.Outcome.Failure != nil {
		return *r.Outcome.Failure
	}
	return nil
}

// BatchOptions configure a BatchProcessor
type BatchOptions struct {
	Workers   int
	Limiter   *Limiter
	LimitKey  string                   // URL whose host is throttled, normally the API base URL
	Directory analysis.DirectorySource // Optional supported-site check
	Currency  string
	Logger    *slog.Logger
	OnResult  func(ItemResult) // Called from worker goroutines as items finish
}

// BatchProcessor analyzes multiple URLs concurrently
type BatchProcessor struct {
	analyzer  analysis.Analyzer
	workers   int
	limiter   *Limiter
	limitKey  string
	directory analysis.DirectorySource
	currency  string
	logger    *slog.Logger
	onResult  func(ItemResult)
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer analysis.Analyzer, opts BatchOptions) *BatchProcessor {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Limiter != nil && opts.LimitKey == "" {
		// Without a key every item would fail the host lookup
		opts.Limiter = nil
	}

	return &BatchProcessor{
		analyzer:  analyzer,
		workers:   opts.Workers,
		limiter:   opts.Limiter,
		limitKey:  opts.LimitKey,
		directory: opts.Directory,
		currency:  opts.Currency,
		logger:    opts.Logger,
		onResult:  opts.OnResult,
	}
}

// ProcessURLs analyzes every URL and returns results in input order.
// Items never started because ctx ended are reported as cancelled failures.
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []ItemResult {
	jobs := make([]Job, len(urls))
	for i, u := range urls {
		jobs[i] = &AnalyzeJob{Index: i, Input: u, processor: b}
	}

	results := NewPool(b.workers).Run(ctx, jobs)

	items := make([]ItemResult, len(urls))
	for i, r := range results {
		if r == nil {
			err := ctx.Err()
			items[i] = ItemResult{Index: i, Input: urls[i], Err: err, Outcome: analysis.Settle(nil, err, b.currency)}
			continue
		}
		items[i] = *r.(*ItemResult)
	}

	return items
}

// ProcessFile reads URLs from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]ItemResult, error) {
	urls, err := ReadURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}

	return b.ProcessURLs(ctx, urls), nil
}

// Tally counts successes and failures
func Tally(items []ItemResult) (succeeded, failed int) {
	for _, item := range items {
		if item.Outcome.Status == model.StatusSuccess {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}

// ReadURLsFromFile reads URLs from a file (one per line).
// Blank lines and # comments are skipped; duplicates are dropped after normalization.
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadURLs(file)
}

// ReadURLs reads URLs from r, one per line
func ReadURLs(r io.Reader) ([]string, error) {
	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key := validate.Normalize(line)
		if !seen[key] {
			seen[key] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
