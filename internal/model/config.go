package model

import "time"

// Config is the complete revsum configuration
type Config struct {
	API          APIConfig         `yaml:"api" mapstructure:"api"`
	Progress     ProgressConfig    `yaml:"progress" mapstructure:"progress"`
	Display      DisplayConfig     `yaml:"display" mapstructure:"display"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
}

// APIConfig configures the analysis service client
type APIConfig struct {
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"` // Scraping + AI can take minutes
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ProgressConfig tunes the simulated progress display
type ProgressConfig struct {
	TickInterval     time.Duration `yaml:"tick_interval" mapstructure:"tick_interval"`
	MinIncrement     float64       `yaml:"min_increment" mapstructure:"min_increment"`
	MaxIncrement     float64       `yaml:"max_increment" mapstructure:"max_increment"`
	Ceiling          float64       `yaml:"ceiling" mapstructure:"ceiling"` // Must stay below 100
	ProcessingAfter  time.Duration `yaml:"processing_after" mapstructure:"processing_after"`
	SummarizingAfter time.Duration `yaml:"summarizing_after" mapstructure:"summarizing_after"`
}

// DisplayConfig controls rendering
type DisplayConfig struct {
	CurrencySymbol string `yaml:"currency_symbol" mapstructure:"currency_symbol"`
	MaxBadges      int    `yaml:"max_badges" mapstructure:"max_badges"`
}

// CacheConfig configures the optional analysis result cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitConfig throttles submissions per API host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst" mapstructure:"burst"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LLMConfig configures the optional buying verdict
type LLMConfig struct {
	Provider  string        `yaml:"provider" mapstructure:"provider"` // "", openai, ollama
	Model     string        `yaml:"model" mapstructure:"model"`
	APIKey    string        `yaml:"-" mapstructure:"api_key"` // Never written to disk
	BaseURL   string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	MaxTokens int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	NoColor bool `yaml:"no_color" mapstructure:"no_color"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:      "http://localhost:5000/api",
			Timeout:      150 * time.Second,
			UserAgent:    "revsum/0.3",
			MaxBodyBytes: 4 << 20,
		},
		Progress: ProgressConfig{
			TickInterval:     120 * time.Millisecond,
			MinIncrement:     1,
			MaxIncrement:     3,
			Ceiling:          90,
			ProcessingAfter:  2 * time.Second,
			SummarizingAfter: 4 * time.Second,
		},
		Display: DisplayConfig{
			CurrencySymbol: "₹",
			MaxBadges:      8,
		},
		Cache: CacheConfig{
			Enabled:   false,
			Dir:       ".revsum-cache",
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimiting: RateLimitConfig{
			// The service allows 10 analyses per minute per client
			RequestsPerSecond: 10.0 / 60.0,
			BurstSize:         2,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 2,
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "gpt-4o-mini",
			MaxTokens: 400,
			Timeout:   30 * time.Second,
		},
	}
}
