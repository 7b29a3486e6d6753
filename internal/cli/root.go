package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/revsum/revsum/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags
var Version = "v0.3.0"

var (
	cfgFile string
	verbose bool
	apiURL  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "revsum",
	Short: "revsum - AI product review summaries from the terminal",
	Long: `revsum submits a product page URL from a supported shopping site to a
review analysis service and shows the result: overall sentiment, pros and
cons, and the features reviewers mention most.

Scraping and summarization happen on the service; revsum validates input,
shows progress while the service works, and renders what comes back.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "revsum %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.revsum/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "analysis service base URL (default: http://localhost:5000/api)")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-url"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".revsum"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// REVSUM_API_BASE_URL overrides api.base_url, and so on
	viper.SetEnvPrefix("REVSUM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so env vars and Unmarshal see them
func setDefaults(cfg *model.Config) {
	viper.SetDefault("api.base_url", cfg.API.BaseURL)
	viper.SetDefault("api.timeout", cfg.API.Timeout)
	viper.SetDefault("api.user_agent", cfg.API.UserAgent)
	viper.SetDefault("api.max_body_bytes", cfg.API.MaxBodyBytes)
	viper.SetDefault("api.http_proxy", cfg.API.HTTPProxy)
	viper.SetDefault("api.https_proxy", cfg.API.HTTPSProxy)
	viper.SetDefault("api.no_proxy", cfg.API.NoProxy)

	viper.SetDefault("progress.tick_interval", cfg.Progress.TickInterval)
	viper.SetDefault("progress.min_increment", cfg.Progress.MinIncrement)
	viper.SetDefault("progress.max_increment", cfg.Progress.MaxIncrement)
	viper.SetDefault("progress.ceiling", cfg.Progress.Ceiling)
	viper.SetDefault("progress.processing_after", cfg.Progress.ProcessingAfter)
	viper.SetDefault("progress.summarizing_after", cfg.Progress.SummarizingAfter)

	viper.SetDefault("display.currency_symbol", cfg.Display.CurrencySymbol)
	viper.SetDefault("display.max_badges", cfg.Display.MaxBadges)

	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("cache.dir", cfg.Cache.Dir)
	viper.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	viper.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)

	viper.SetDefault("rate_limiting.requests_per_second", cfg.RateLimiting.RequestsPerSecond)
	viper.SetDefault("rate_limiting.burst", cfg.RateLimiting.BurstSize)

	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)

	viper.SetDefault("llm.provider", cfg.LLM.Provider)
	viper.SetDefault("llm.model", cfg.LLM.Model)
	viper.SetDefault("llm.api_key", cfg.LLM.APIKey)
	viper.SetDefault("llm.base_url", cfg.LLM.BaseURL)
	viper.SetDefault("llm.max_tokens", cfg.LLM.MaxTokens)
	viper.SetDefault("llm.timeout", cfg.LLM.Timeout)

	viper.SetDefault("output.verbose", cfg.Output.Verbose)
	viper.SetDefault("output.no_color", cfg.Output.NoColor)
}

// loadConfig merges defaults, config file, env vars and bound flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Conventional provider variables win over nothing, never over explicit config
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.BaseURL == "" && strings.EqualFold(cfg.LLM.Provider, "ollama") {
		cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}

	return cfg, nil
}

// newLogger returns the diagnostic logger: debug with --verbose, warnings otherwise
func newLogger(cfg *model.Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
