package model

// Verdict is an optional LLM-written buying recommendation.
// It is derived from a normalized result and never changes it.
type Verdict struct {
	Enabled  bool     `json:"enabled"`
	Provider string   `json:"provider,omitempty"`
	Model    string   `json:"model,omitempty"`
	Text     string   `json:"text,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
