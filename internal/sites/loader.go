package sites

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/revsum/revsum/internal/api"
	"github.com/revsum/revsum/internal/model"
)

// ErrDirectoryUnavailable marks a directory load that fell back to the built-in set.
// It is logged, never returned.
var ErrDirectoryUnavailable = errors.New("site directory unavailable")

// Fetcher retrieves the raw site directory
type Fetcher interface {
	Websites(ctx context.Context) (*api.WebsitesResponse, error)
}

// Fallback returns the built-in directory used when the service is unreachable
func Fallback() model.SiteDirectory {
	entries := []model.SiteEntry{
		{Key: "amazon", Name: "Amazon", Icon: "🛒", Enabled: true},
		{Key: "flipkart", Name: "Flipkart", Icon: "🛒", Enabled: true},
		{Key: "myntra", Name: "Myntra", Icon: "👕", Enabled: true},
		{Key: "snapdeal", Name: "Snapdeal", Icon: "🛒", Enabled: true},
	}

	dir := model.SiteDirectory{
		Entries:       make(map[string]model.SiteEntry, len(entries)),
		Loaded:        true,
		UsingFallback: true,
	}
	for _, e := range entries {
		dir.Entries[e.Key] = e
	}
	return dir
}

// Loader loads the site directory, preferring availability over freshness
type Loader struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewLoader creates a new Loader
func NewLoader(fetcher Fetcher, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{fetcher: fetcher, logger: logger}
}

// Load performs a single fetch. Any failure yields the fallback directory;
// Load itself never fails.
func (l *Loader) Load(ctx context.Context) model.SiteDirectory {
	resp, err := l.fetcher.Websites(ctx)
	if err == nil {
		err = checkResponse(resp)
	}
	if err != nil {
		l.logger.Warn("using fallback site directory",
			"error", fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err))
		return Fallback()
	}

	dir := model.SiteDirectory{
		Entries: make(map[string]model.SiteEntry, len(resp.Websites)),
		Loaded:  true,
	}
	for _, w := range resp.Websites {
		key := strings.ToLower(strings.TrimSpace(w.Key))
		if key == "" {
			continue
		}
		dir.Entries[key] = model.SiteEntry{
			Key:         key,
			Name:        w.Name,
			Icon:        w.Icon,
			Category:    w.Category.Name,
			Description: w.Description,
			Enabled:     w.Enabled,
		}
	}

	l.logger.Debug("site directory loaded", "sites", len(dir.Entries))
	return dir
}

func checkResponse(resp *api.WebsitesResponse) error {
	switch {
	case resp == nil:
		return errors.New("empty response")
	case !resp.Success:
		return errors.New("response not marked successful")
	case resp.Websites == nil:
		return errors.New("response has no site list")
	}
	return nil
}

// Store holds the current directory. Reload swaps it wholesale.
type Store struct {
	loader *Loader

	mu  sync.RWMutex
	dir model.SiteDirectory
}

// NewStore creates an empty, not yet loaded store
func NewStore(loader *Loader) *Store {
	return &Store{
		loader: loader,
		dir:    model.SiteDirectory{Entries: map[string]model.SiteEntry{}},
	}
}

// Reload loads a fresh directory and replaces the current one
func (s *Store) Reload(ctx context.Context) model.SiteDirectory {
	dir := s.loader.Load(ctx)

	s.mu.Lock()
	s.dir = dir
	s.mu.Unlock()

	return dir
}

// Directory returns the current directory
func (s *Store) Directory() model.SiteDirectory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir
}
