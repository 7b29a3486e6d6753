package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/revsum/revsum/internal/render"
	"github.com/spf13/cobra"
)

var (
	sitesJSON bool
	sitesAll  bool
)

// sitesCmd represents the sites command
var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List supported shopping sites",
	Long: `Sites shows the shopping sites the analysis service accepts product URLs
from. When the service cannot provide its list, a built-in set is shown.

Example:
  revsum sites
  revsum sites --all
  revsum sites --json`,
	Args: cobra.NoArgs,
	RunE: runSites,
}

func init() {
	rootCmd.AddCommand(sitesCmd)

	sitesCmd.Flags().BoolVar(&sitesJSON, "json", false, "print the directory as JSON")
	sitesCmd.Flags().BoolVar(&sitesAll, "all", false, "list every site including disabled ones")
}

func runSites(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	dir := a.siteStore(context.Background()).Directory()
	out := cmd.OutOrStdout()

	if sitesJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(dir)
	}

	if dir.UsingFallback {
		fmt.Fprintf(os.Stderr, "⚠️  Could not load the site list from the service; showing built-in defaults\n\n")
	}

	if !sitesAll {
		fmt.Fprintln(out, "Supported sites:")
		fmt.Fprintf(out, "  %s\n", render.BadgeLine(dir.Badges(), a.cfg.Display.MaxBadges))
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tCATEGORY\tENABLED")
	for _, key := range dir.Keys() {
		e := dir.Entries[key]
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%t\n", e.Key, e.Icon, e.Name, e.Category, e.Enabled)
	}
	return tw.Flush()
}
