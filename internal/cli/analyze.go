package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/revsum/revsum/internal/analysis"
	"github.com/revsum/revsum/internal/model"
	"github.com/revsum/revsum/internal/render"
	"github.com/spf13/cobra"
)

var (
	outJSON      string
	outMD        string
	timeout      time.Duration
	useCache     bool
	noProgress   bool
	skipSites    bool
	llmEnabled   bool
	llmProvider  string
	llmModel     string
	currencyFlag string
)

// errCancelled is returned when the user interrupts a pending analysis
var errCancelled = errors.New("analysis cancelled")

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyze reviews for a product page",
	Long: `Analyze submits a product URL to the analysis service and shows:
- Overall sentiment and review count
- Pros and cons summarized from reviews
- Key features with how reviewers feel about them

The URL must come from a supported site (see 'revsum sites'). Analysis can
take a minute or two; press Ctrl-C to cancel.

Example:
  revsum analyze https://www.amazon.in/dp/B0CX59H5W7
  revsum analyze www.flipkart.com/item/p/itm123 --json report.json --md report.md
  revsum analyze https://www.myntra.com/shoes/123 --llm --llm-provider ollama`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().BoolVar(&noProgress, "no-progress", false, "do not draw the progress bar")
	analyzeCmd.Flags().StringVar(&currencyFlag, "currency", "", "currency glyph for bare prices (default ₹)")

	// Request flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 0, "analysis request timeout (default 2m30s)")
	analyzeCmd.Flags().BoolVar(&useCache, "cache", false, "reuse recent results for the same URL")
	analyzeCmd.Flags().BoolVar(&skipSites, "skip-site-check", false, "skip the supported-site check and let the service decide")

	// LLM flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "add an LLM buying verdict")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (default from config)")
}

// applyAnalyzeFlags overlays explicitly set flags onto cfg
func applyAnalyzeFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("timeout") && timeout > 0 {
		cfg.API.Timeout = timeout
	}
	if flags.Changed("cache") {
		cfg.Cache.Enabled = useCache
	}
	if flags.Changed("currency") {
		cfg.Display.CurrencySymbol = currencyFlag
	}
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAnalyzeFlags(cmd, cfg)
	if llmEnabled && strings.EqualFold(cfg.LLM.Provider, "openai") && cfg.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	a := newAppWithConfig(cfg)
	stderr := cmd.ErrOrStderr()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := analysis.Options{
		Analyzer: a.analyzer(),
		Progress: cfg.Progress,
		Currency: cfg.Display.CurrencySymbol,
		Logger:   a.logger,
	}
	if !skipSites {
		store := a.siteStore(ctx)
		if store.Directory().UsingFallback {
			a.logger.Warn("using built-in site list; the service did not provide one")
		}
		opts.Directory = store
	}

	o := analysis.New(opts)

	if !noProgress {
		bar := &progressBar{w: stderr}
		o.OnProgress(bar.setPercent)
		unsubscribe := o.Subscribe(bar.setOutcome)
		defer unsubscribe()
		defer bar.finish()
	}

	// Cancel is local; the request keeps running on the service
	go func() {
		<-ctx.Done()
		o.Cancel()
	}()

	if err := o.Submit(context.Background(), args[0]); err != nil {
		return fmt.Errorf("submit: %w", err)
	}

	outcome, err := o.Wait(context.Background())
	if err != nil {
		return fmt.Errorf("wait: %w", err)
	}

	switch outcome.Status {
	case model.StatusIdle:
		return errCancelled
	case model.StatusFailure:
		return errors.New(outcome.Failure.Message)
	}

	// The submission succeeded, so the shape check cannot fail here
	productURL, _ := analysis.Precheck(args[0], nil)

	return finishAnalysis(cmd.Context(), a, cmd.OutOrStdout(), productURL, *outcome.Result)
}

// finishAnalysis adds the optional verdict and writes every requested output
func finishAnalysis(ctx context.Context, a *app, stdout io.Writer, productURL string, result model.AnalysisResult) error {
	if ctx == nil {
		ctx = context.Background()
	}

	summarizer, err := a.summarizer()
	if err != nil {
		return fmt.Errorf("llm: %w", err)
	}

	var verdict *model.Verdict
	if summarizer.IsEnabled() {
		verdict, _ = summarizer.GenerateVerdict(ctx, productURL, result)
	}

	render.Summary(stdout, result, verdict)

	rep := render.Report{
		URL:         productURL,
		GeneratedAt: time.Now().UTC(),
		Result:      result,
		Verdict:     verdict,
	}

	if outJSON != "" {
		if err := render.WriteJSON(rep, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		a.logger.Info("wrote JSON", "path", outJSON)
	}
	if outMD != "" {
		if err := render.WriteMarkdown(rep, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		a.logger.Info("wrote Markdown", "path", outMD)
	}

	return nil
}

// progressBar redraws a single stderr line from orchestrator callbacks.
// It never calls back into the orchestrator.
type progressBar struct {
	w io.Writer

	mu      sync.Mutex
	step    int
	percent int
	pending bool
	drawn   bool
}

func (b *progressBar) setPercent(p int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.percent = p
	b.drawLocked()
}

func (b *progressBar) setOutcome(o model.Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = o.Status == model.StatusPending
	switch {
	case b.pending:
		b.step = o.Step
		b.drawLocked()
	case o.Terminal() && b.drawn:
		// Keep the last step label on the completed bar
		b.percent = 100
		b.writeLocked()
		b.endLineLocked()
	default:
		b.endLineLocked()
	}
}

func (b *progressBar) drawLocked() {
	if b.pending {
		b.writeLocked()
	}
}

func (b *progressBar) writeLocked() {
	fmt.Fprintf(b.w, "\r\033[K%s", render.ProgressLine(b.step, b.percent))
	b.drawn = true
}

func (b *progressBar) endLineLocked() {
	if b.drawn {
		fmt.Fprintln(b.w)
		b.drawn = false
	}
}

func (b *progressBar) finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.endLineLocked()
}
