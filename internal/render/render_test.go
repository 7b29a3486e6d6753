package render

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/revsum/revsum/internal/model"
)

func sample() model.AnalysisResult {
	return model.AnalysisResult{
		ProductName:    "Boat Rockerz 450",
		TotalReviews:   1234567,
		AverageRating:  "4.1",
		FormattedPrice: "₹1,499",
		Platform:       "amazon",
		Summary: model.Summary{
			Pros: []string{"Loud", "Comfortable | light"},
			Cons: []string{},
		},
		Sentiment: model.Sentiment{Positive: 72, Neutral: 18, Negative: 10},
		KeyFeatures: []model.KeyFeature{
			{Feature: "Battery", Sentiment: model.FeaturePositive, Mentions: 40},
		},
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.in); got != tt.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, sample(), &model.Verdict{Enabled: true, Provider: "openai", Model: "gpt-4o-mini", Text: "Good value."})
	out := buf.String()

	for _, want := range []string{"Boat Rockerz 450", "₹1,499", "1,234,567 analyzed", "72% positive", "+ Loud", "(none)", "Battery", "Good value."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected summary to contain %q\n%s", want, out)
		}
	}
}

func TestProgressLine(t *testing.T) {
	line := ProgressLine(model.StepProcessing, 50)
	if !strings.Contains(line, " 50%") || !strings.Contains(line, "Processing with AI...") {
		t.Errorf("unexpected line: %q", line)
	}
	if strings.Count(line, "█") != barWidth/2 {
		t.Errorf("expected half-filled bar: %q", line)
	}

	if full := ProgressLine(model.StepNone, 150); !strings.Contains(full, "100%") || strings.Contains(full, "░") {
		t.Errorf("expected clamped full bar: %q", full)
	}
}

func TestBadgeLine(t *testing.T) {
	badges := make([]model.Badge, 0, 10)
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"} {
		badges = append(badges, model.Badge{Name: name, Icon: "🛒"})
	}

	line := BadgeLine(badges, 8)
	if !strings.HasSuffix(line, "+2 more") {
		t.Errorf("expected +2 more suffix, got %q", line)
	}
	if strings.Contains(line, "I") {
		t.Errorf("expected ninth badge to be hidden, got %q", line)
	}

	if line := BadgeLine(badges[:3], 8); strings.Contains(line, "more") {
		t.Errorf("expected no overflow marker, got %q", line)
	}
	if BadgeLine(nil, 8) != "" {
		t.Error("expected empty line for no badges")
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(Report{
		URL:         "https://www.amazon.in/dp/B0TEST",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Result:      sample(),
	})

	for _, want := range []string{
		"# Boat Rockerz 450",
		"| **Reviews analyzed** | 1,234,567 |",
		"- Comfortable \\| light",
		"_None reported._",
		"| Battery | positive | 40% |",
		"2026-01-02T03:04:05Z",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown to contain %q\n%s", want, md)
		}
	}
	if strings.Contains(md, "Buying Verdict") {
		t.Error("expected no verdict section without a verdict")
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	rep := Report{URL: "https://www.flipkart.com/p/1", Result: sample()}

	if err := WriteJSON(rep, path); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	result := decoded["result"].(map[string]any)
	if result["productPrice"] != "₹1,499" {
		t.Errorf("expected formatted price under productPrice, got %v", result["productPrice"])
	}
	if _, ok := decoded["verdict"]; ok {
		t.Error("expected verdict to be omitted")
	}
}

func TestHistory(t *testing.T) {
	var buf bytes.Buffer
	History(&buf, []model.HistoryEntry{
		{ID: 7, ProductName: "Kettle", Platform: "flipkart", TotalReviews: 2500, CreatedAt: "2026-01-01"},
	})
	out := buf.String()
	if !strings.Contains(out, "PRODUCT") || !strings.Contains(out, "Kettle") || !strings.Contains(out, "2,500") {
		t.Errorf("unexpected history output:\n%s", out)
	}

	buf.Reset()
	History(&buf, nil)
	if !strings.Contains(buf.String(), "No analyses yet.") {
		t.Errorf("unexpected empty history output: %q", buf.String())
	}
}
