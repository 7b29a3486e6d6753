package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/revsum/revsum/internal/render"
	"github.com/revsum/revsum/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchRPS     float64
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple product URLs from a file",
	Long: `Batch analyzes product URLs listed in a file (one per line):
- Blank lines and lines starting with # are skipped
- Duplicate URLs are analyzed once
- Unsupported or malformed URLs fail without contacting the service
- Submissions are throttled to the service rate limit
- JSON and Markdown reports are written per successful analysis

Example:
  revsum batch urls.txt
  revsum batch urls.txt --concurrency 2 --output-dir ./reports
  revsum batch urls.txt --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./revsum-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 20*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().Float64Var(&batchRPS, "rps", 0, "submissions per second (default from config)")
	batchCmd.Flags().BoolVar(&useCache, "cache", false, "reuse recent results for the same URL")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if batchRPS > 0 {
		cfg.RateLimiting.RequestsPerSecond = batchRPS
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache.Enabled = useCache
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  revsum Batch Analysis\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Rate limit:   %.3f/s (burst %d)\n", cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	a := newAppWithConfig(cfg)
	store := a.siteStore(ctx)
	if store.Directory().UsingFallback {
		fmt.Fprintf(os.Stderr, "⚠️  Site list unavailable, using built-in defaults\n")
	}

	processor := worker.NewBatchProcessor(a.analyzer(), worker.BatchOptions{
		Workers:   cfg.Concurrency.Workers,
		Limiter:   worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		LimitKey:  cfg.API.BaseURL,
		Directory: store,
		Currency:  cfg.Display.CurrencySymbol,
		Logger:    a.logger,
		OnResult:  printItem,
	})

	fmt.Fprintf(os.Stderr, "⚙️  Reading URLs from file...\n")
	urls, err := worker.ReadURLsFromFile(file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d URLs\n", len(urls))
	fmt.Fprintf(os.Stderr, "\n")

	results := processor.ProcessURLs(ctx, urls)

	written := 0
	for _, item := range results {
		if item.Outcome.Result == nil {
			continue
		}

		rep := render.Report{
			URL:         item.URL,
			GeneratedAt: time.Now().UTC(),
			Result:      *item.Outcome.Result,
		}
		slug := reportSlug(item.Index, item.Outcome.Result.ProductName)
		if err := render.WriteJSON(rep, filepath.Join(outputDir, slug+".json")); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", item.Input, err)
			continue
		}
		if err := render.WriteMarkdown(rep, filepath.Join(outputDir, slug+".md")); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", item.Input, err)
			continue
		}
		written++
	}

	succeeded, failed := worker.Tally(results)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d URLs\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", succeeded)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failed)
	fmt.Fprintf(os.Stderr, "  Reports:   %d in %s\n", written, outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}
	return nil
}

// printItem reports one finished item; called from worker goroutines
func printItem(item worker.ItemResult) {
	elapsed := item.Elapsed.Round(100 * time.Millisecond)
	if f := item.Outcome.Failure; f != nil {
		fmt.Fprintf(os.Stderr, "✗ %s: %s (%v)\n", item.Input, f.Message, elapsed)
		return
	}
	r := item.Outcome.Result
	fmt.Fprintf(os.Stderr, "✓ %s (%s reviews, %d%% positive, %v)\n",
		r.ProductName, render.FormatCount(r.TotalReviews), r.Sentiment.Positive, elapsed)
}

// reportSlug builds a unique, filesystem-safe report name
func reportSlug(index int, productName string) string {
	return fmt.Sprintf("%03d-%s", index+1, sanitizeFilename(productName))
}

// sanitizeFilename sanitizes a string for use as a filename
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(strings.TrimSpace(s))
	s = strings.Trim(s, ".-_")
	if s == "" {
		return "product"
	}

	// Limit length without splitting a rune
	if r := []rune(s); len(r) > 80 {
		s = string(r[:80])
	}

	return s
}
