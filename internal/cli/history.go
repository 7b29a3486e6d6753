package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/revsum/revsum/internal/analysis"
	"github.com/revsum/revsum/internal/classify"
	"github.com/revsum/revsum/internal/render"
	"github.com/spf13/cobra"
)

var historyJSON bool

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent analyses stored by the service",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored analysis by ID",
	Long: `Show fetches an analysis the service stored earlier (see 'revsum history')
and renders it like analyze does.

Example:
  revsum show 42
  revsum show 42 --md report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the analysis service is reachable",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(healthCmd)

	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print history as JSON")
	showCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	showCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	entries, err := a.client.History(context.Background())
	if err != nil {
		return fmt.Errorf("history: %s", classify.Classify(err).Message)
	}

	if historyJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	render.History(cmd.OutOrStdout(), entries)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid analysis ID: %s", args[0])
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	ctx := context.Background()
	raw, err := a.client.Analysis(ctx, id)
	outcome := analysis.Settle(raw, err, a.cfg.Display.CurrencySymbol)
	if outcome.Failure != nil {
		a.logger.Debug("show failed", "id", id, "error", err)
		return fmt.Errorf("analysis %d: %s", id, outcome.Failure.Message)
	}

	productURL, _ := raw["url"].(string)
	return finishAnalysis(ctx, a, cmd.OutOrStdout(), productURL, *outcome.Result)
}

func runHealth(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	hs, err := a.client.Health(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %s is unreachable\n", a.cfg.API.BaseURL)
		return fmt.Errorf("health: %s", classify.Classify(err).Message)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ %s: %s\n", a.cfg.API.BaseURL, hs.Status)
	if hs.Timestamp != "" {
		fmt.Fprintf(out, "  Timestamp: %s\n", hs.Timestamp)
	}
	for _, f := range hs.Features {
		fmt.Fprintf(out, "  • %s\n", f)
	}
	return nil
}
