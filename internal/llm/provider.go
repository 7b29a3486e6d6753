package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/revsum/revsum/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Verdict writes a short buying recommendation for an analysis result
	Verdict(ctx context.Context, req VerdictRequest) (*VerdictResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// VerdictRequest contains the input for a buying verdict
type VerdictRequest struct {
	Result model.AnalysisResult

	// AllowedURLs are the only URLs the response may mention
	AllowedURLs []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	Model     string
	MaxTokens int
}

// VerdictResponse contains the LLM output
type VerdictResponse struct {
	Text       string
	CitedURLs  []string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string
	Model    string
	APIKey   string

	// BaseURL for custom endpoints (e.g., Ollama's OpenAI-compatible API)
	BaseURL string

	Timeout   time.Duration
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30 * time.Second,
		MaxTokens: 400,
	}
}

// BuildPrompt constructs the default verdict prompt from a normalized result
func BuildPrompt(result model.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are advising a shopper using an automated review analysis. Base your answer ONLY on the data below.

RULES:
1. Do not invent facts, prices, or reviews that are not listed.
2. Do not cite or link any website.
3. If the data is thin (few reviews, missing rating), say so explicitly.

Product: %s
Price: %s
Average rating: %s
Reviews analyzed: %d
Sentiment: %d%% positive, %d%% neutral, %d%% negative
`, result.ProductName, result.FormattedPrice, result.AverageRating, result.TotalReviews,
		result.Sentiment.Positive, result.Sentiment.Neutral, result.Sentiment.Negative)

	writeList(&b, "Pros", result.Summary.Pros)
	writeList(&b, "Cons", result.Summary.Cons)

	if len(result.KeyFeatures) > 0 {
		b.WriteString("Key features:\n")
		for i, f := range result.KeyFeatures {
			if i >= 10 {
				fmt.Fprintf(&b, "- ... and %d more\n", len(result.KeyFeatures)-10)
				break
			}
			fmt.Fprintf(&b, "- %s (%s, %d%% of mentions)\n", f.Feature, f.Sentiment, f.Mentions)
		}
	}

	b.WriteString("\nIn 2-3 sentences, say who should buy this product and who should not.")
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(b, "%s: (none reported)\n", title)
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}
