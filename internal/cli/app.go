package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/revsum/revsum/internal/analysis"
	"github.com/revsum/revsum/internal/api"
	"github.com/revsum/revsum/internal/cache"
	"github.com/revsum/revsum/internal/llm"
	"github.com/revsum/revsum/internal/model"
	"github.com/revsum/revsum/internal/sites"
)

// directoryTimeout bounds the site directory fetch; the loader falls back on expiry
const directoryTimeout = 10 * time.Second

// app holds the components shared by commands
type app struct {
	cfg    *model.Config
	logger *slog.Logger
	client *api.Client
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newAppWithConfig(cfg), nil
}

func newAppWithConfig(cfg *model.Config) *app {
	logger := newLogger(cfg)
	return &app{
		cfg:    cfg,
		logger: logger,
		client: api.NewClient(cfg.API, logger),
	}
}

// analyzer returns the remote analyzer, wrapped in the result cache when enabled
func (a *app) analyzer() analysis.Analyzer {
	if !a.cfg.Cache.Enabled {
		return a.client
	}

	c := cache.NewLayeredCache(a.cfg.Cache.MemoryTTL, a.cfg.Cache.Dir, a.cfg.Cache.DiskTTL)
	a.logger.Debug("result cache enabled", "dir", a.cfg.Cache.Dir)
	return cache.NewCachedAnalyzer(a.client, c, a.cfg.Cache.DiskTTL, a.logger)
}

// siteStore loads the supported-site directory. It never fails; the
// fallback set is used when the service cannot provide one.
func (a *app) siteStore(ctx context.Context) *sites.Store {
	store := sites.NewStore(sites.NewLoader(a.client, a.logger))

	ctx, cancel := context.WithTimeout(ctx, directoryTimeout)
	defer cancel()
	store.Reload(ctx)

	return store
}

// summarizer returns the optional verdict generator; nil when no provider is set
func (a *app) summarizer() (*llm.Summarizer, error) {
	if a.cfg.LLM.Provider == "" {
		return nil, nil
	}
	return llm.NewSummarizer(llm.ConfigFromModel(a.cfg.LLM))
}
