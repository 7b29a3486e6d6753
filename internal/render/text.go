package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/revsum/revsum/internal/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// Summary prints a normalized result for the terminal
func Summary(w io.Writer, r model.AnalysisResult, verdict *model.Verdict) {
	fmt.Fprintf(w, "\n%s\n", r.ProductName)
	fmt.Fprintln(w, strings.Repeat("=", min(len([]rune(r.ProductName)), 72)))

	fmt.Fprintf(w, "Price:    %s\n", r.FormattedPrice)
	fmt.Fprintf(w, "Rating:   %s", r.AverageRating)
	if r.ProductRating != "" && r.ProductRating != r.AverageRating {
		fmt.Fprintf(w, " (listing shows %s)", r.ProductRating)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Reviews:  %s analyzed\n", FormatCount(r.TotalReviews))
	if r.Platform != "" {
		fmt.Fprintf(w, "Platform: %s\n", r.Platform)
	}

	fmt.Fprintf(w, "\nSentiment: %d%% positive, %d%% neutral, %d%% negative\n",
		r.Sentiment.Positive, r.Sentiment.Neutral, r.Sentiment.Negative)

	printList(w, "Pros", "+", r.Summary.Pros)
	printList(w, "Cons", "-", r.Summary.Cons)

	if len(r.KeyFeatures) > 0 {
		fmt.Fprintln(w, "\nKey features:")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, f := range r.KeyFeatures {
			fmt.Fprintf(tw, "  %s\t%s\t%d%%\n", f.Feature, f.Sentiment, f.Mentions)
		}
		_ = tw.Flush()
	}

	if verdict != nil && verdict.Enabled && verdict.Text != "" {
		fmt.Fprintf(w, "\nVerdict (%s/%s):\n  %s\n", verdict.Provider, verdict.Model, verdict.Text)
	}
	if verdict != nil {
		for _, warning := range verdict.Warnings {
			fmt.Fprintf(w, "  note: %s\n", warning)
		}
	}
}

func printList(w io.Writer, title, bullet string, items []string) {
	fmt.Fprintf(w, "\n%s:\n", title)
	if len(items) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "  %s %s\n", bullet, item)
	}
}

// Failure prints a classified failure
func Failure(w io.Writer, f model.Failure) {
	fmt.Fprintf(w, "✗ %s\n", f.Message)
}

const barWidth = 30

// ProgressLine renders a single-line progress bar with the current phase label
func ProgressLine(step, percent int) string {
	percent = max(0, min(percent, 100))
	filled := percent * barWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	line := fmt.Sprintf("[%s] %3d%%", bar, percent)
	if label := model.StepLabel(step); label != "" {
		line += "  " + label
	}
	return line
}

// BadgeLine lists up to limit badges, then "+N more". A limit <= 0 shows all.
func BadgeLine(badges []model.Badge, limit int) string {
	if len(badges) == 0 {
		return ""
	}

	shown := badges
	if limit > 0 && len(badges) > limit {
		shown = badges[:limit]
	}

	parts := make([]string, 0, len(shown)+1)
	for _, b := range shown {
		parts = append(parts, strings.TrimSpace(b.Icon+" "+b.Name))
	}
	if extra := len(badges) - len(shown); extra > 0 {
		parts = append(parts, fmt.Sprintf("+%d more", extra))
	}
	return strings.Join(parts, "  ")
}

// History prints recent analyses as a table
func History(w io.Writer, entries []model.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No analyses yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tPLATFORM\tREVIEWS\tPOSITIVE\tCREATED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d%%\t%s\n",
			e.ID, truncate(e.ProductName, 48), orDash(e.Platform), FormatCount(e.TotalReviews), e.Sentiment.Positive, orDash(e.CreatedAt))
	}
	_ = tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
