// Package render writes normalized analysis results for people and files.
package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/revsum/revsum/internal/model"
)

// Report is the document written by --json and --md
type Report struct {
	URL         string               `json:"url"`
	GeneratedAt time.Time            `json:"generated_at"`
	Result      model.AnalysisResult `json:"result"`
	Verdict     *model.Verdict       `json:"verdict,omitempty"`
}

// WriteJSON writes the report as indented JSON
func WriteJSON(rep Report, path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// WriteMarkdown writes the report as Markdown
func WriteMarkdown(rep Report, path string) error {
	return writeFile(path, []byte(Markdown(rep)))
}

// Markdown renders the report as a Markdown document
func Markdown(rep Report) string {
	r := rep.Result
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.ProductName)
	if r.ProductImage != "" {
		fmt.Fprintf(&b, "![%s](%s)\n\n", escapeMD(r.ProductName), r.ProductImage)
	}

	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| **Price** | %s |\n", escapeMD(r.FormattedPrice))
	fmt.Fprintf(&b, "| **Average rating** | %s |\n", escapeMD(r.AverageRating))
	fmt.Fprintf(&b, "| **Reviews analyzed** | %s |\n", FormatCount(r.TotalReviews))
	if r.Platform != "" {
		fmt.Fprintf(&b, "| **Platform** | %s |\n", escapeMD(r.Platform))
	}
	if rep.URL != "" {
		fmt.Fprintf(&b, "| **Source** | <%s> |\n", rep.URL)
	}

	b.WriteString("\n## Sentiment\n\n")
	fmt.Fprintf(&b, "- Positive: %d%%\n- Neutral: %d%%\n- Negative: %d%%\n",
		r.Sentiment.Positive, r.Sentiment.Neutral, r.Sentiment.Negative)

	writeMDList(&b, "Pros", r.Summary.Pros)
	writeMDList(&b, "Cons", r.Summary.Cons)

	if len(r.KeyFeatures) > 0 {
		b.WriteString("\n## Key Features\n\n| Feature | Sentiment | Mentions |\n|---|---|---|\n")
		for _, f := range r.KeyFeatures {
			fmt.Fprintf(&b, "| %s | %s | %d%% |\n", escapeMD(f.Feature), f.Sentiment, f.Mentions)
		}
	}

	if rep.Verdict != nil && rep.Verdict.Enabled && rep.Verdict.Text != "" {
		b.WriteString("\n## Buying Verdict\n\n")
		fmt.Fprintf(&b, "_Generated by %s/%s._\n\n%s\n", rep.Verdict.Provider, rep.Verdict.Model, rep.Verdict.Text)
	}

	if !rep.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "\n---\n_Generated %s_\n", rep.GeneratedAt.UTC().Format(time.RFC3339))
	}

	return b.String()
}

func writeMDList(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "\n## %s\n\n", title)
	if len(items) == 0 {
		b.WriteString("_None reported._\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", escapeMD(item))
	}
}

// escapeMD keeps table cells intact
func escapeMD(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
