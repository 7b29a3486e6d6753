package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/revsum/revsum/internal/model"
)

// Summarizer produces optional buying verdicts. A nil provider disables it.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer for config. An empty provider is not an error.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the configured provider name, or "" when disabled
func (s *Summarizer) ProviderName() string {
	if !s.IsEnabled() {
		return ""
	}
	return s.provider.Name()
}

// GenerateVerdict asks the provider for a verdict on result.
// Provider failures never fail the analysis; they come back as warnings on
// the returned Verdict. A nil Verdict means the summarizer is disabled.
func (s *Summarizer) GenerateVerdict(ctx context.Context, productURL string, result model.AnalysisResult) (*model.Verdict, error) {
	if !s.IsEnabled() {
		return nil, nil
	}

	verdict := &model.Verdict{
		Enabled:  true,
		Provider: s.provider.Name(),
		Model:    s.config.Model,
	}

	if !s.provider.IsAvailable(ctx) {
		verdict.Enabled = false
		verdict.Warnings = append(verdict.Warnings, fmt.Sprintf("Provider %s is not available (check API key or base URL)", verdict.Provider))
		return verdict, nil
	}

	resp, err := s.provider.Verdict(ctx, VerdictRequest{
		Result:      result,
		AllowedURLs: []string{productURL},
		Model:       s.config.Model,
		MaxTokens:   s.config.MaxTokens,
	})
	if err != nil {
		verdict.Warnings = append(verdict.Warnings, fmt.Sprintf("Verdict generation failed: %v", err))
		return verdict, nil
	}

	verdict.Text = resp.Text
	if resp.Model != "" {
		verdict.Model = resp.Model
	}
	if resp.TokensUsed > 0 {
		verdict.Warnings = append(verdict.Warnings, fmt.Sprintf("Tokens used: %d", resp.TokensUsed))
	}

	return verdict, nil
}

// RenderMarkdown renders a verdict as a standalone Markdown section.
// Disabled or empty verdicts render as "".
func RenderMarkdown(v *model.Verdict) string {
	if v == nil || !v.Enabled || v.Text == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Buying Verdict\n\n")
	b.WriteString("> GENERATED CONTENT: written by a language model from the statistics above.\n\n")
	fmt.Fprintf(&b, "- **Provider**: %s\n", v.Provider)
	fmt.Fprintf(&b, "- **Model**: %s\n\n", v.Model)
	b.WriteString(v.Text)
	b.WriteString("\n")

	if len(v.Warnings) > 0 {
		b.WriteString("\n### Notes\n\n")
		for _, w := range v.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
