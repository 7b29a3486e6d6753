package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/revsum/revsum/internal/validate"
	"github.com/spf13/cobra"
)

var (
	checkJSON   bool
	checkRobots bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Check whether a URL would be accepted, without submitting it",
	Long: `Check runs the local URL validation and explains the result:
- Whether the input looks like a URL
- Which supported site it matched
- The normalized URL that analyze would submit

With --robots, the product host's robots.txt is also consulted.

Example:
  revsum check www.amazon.in/dp/B0CX59H5W7
  revsum check https://www.flipkart.com/item/p/itm1 --robots`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the report as JSON")
	checkCmd.Flags().BoolVar(&checkRobots, "robots", false, "consult robots.txt for the product host")
}

type checkOutput struct {
	validate.Report
	Robots *validate.CrawlAdvice `json:"robots,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ctx := context.Background()
	dir := a.siteStore(ctx).Directory()
	out := checkOutput{Report: validate.Check(args[0], dir)}

	if checkRobots && out.Shape {
		checker := validate.NewRobotsChecker(a.cfg.API.UserAgent, 10*time.Second)
		advice, err := checker.Advise(ctx, out.URL)
		if err != nil {
			a.logger.Warn("robots check skipped", "error", err)
		} else {
			out.Robots = &advice
		}
	}

	w := cmd.OutOrStdout()
	if checkJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "Input:      %s\n", out.Input)
	fmt.Fprintf(w, "Submits as: %s\n", out.URL)
	fmt.Fprintf(w, "URL shape:  %s\n", mark(out.Shape))
	if out.Supported {
		name := dir.Entries[out.SiteKey].Name
		fmt.Fprintf(w, "Site:       %s %s (%s)\n", mark(true), name, out.SiteKey)
	} else {
		fmt.Fprintf(w, "Site:       %s not supported\n", mark(false))
	}
	if out.Domain != "" {
		fmt.Fprintf(w, "Domain:     %s\n", out.Domain)
	}
	if out.Robots != nil {
		switch {
		case out.Robots.Unknown:
			fmt.Fprintf(w, "robots.txt: unavailable (%s)\n", out.Robots.RobotsURL)
		case out.Robots.Allowed:
			fmt.Fprintf(w, "robots.txt: %s allowed\n", mark(true))
		default:
			fmt.Fprintf(w, "robots.txt: %s disallowed for crawlers\n", mark(false))
		}
		if out.Robots.CrawlDelay > 0 {
			fmt.Fprintf(w, "Crawl delay: %v\n", out.Robots.CrawlDelay)
		}
	}

	if !out.Valid {
		return fmt.Errorf("URL would be rejected")
	}
	return nil
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
