package validate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/temoto/robotstxt"
)

// CrawlAdvice is the robots.txt verdict for a product page
type CrawlAdvice struct {
	RobotsURL  string        `json:"robots_url"`
	Allowed    bool          `json:"allowed"`
	CrawlDelay time.Duration `json:"crawl_delay,omitempty"`
	Unknown    bool          `json:"unknown"` // robots.txt could not be read
}

// RobotsChecker reads robots.txt for product hosts. The analysis service does
// the scraping; this only warns users before they submit a page the site
// asks crawlers to avoid.
type RobotsChecker struct {
	httpClient *http.Client
	userAgent  string
	cache      *gocache.Cache
}

// NewRobotsChecker creates a new robots.txt checker
func NewRobotsChecker(userAgent string, timeout time.Duration) *RobotsChecker {
	return &RobotsChecker{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		cache:      gocache.New(30*time.Minute, time.Hour),
	}
}

// Advise checks the product URL against its host's robots.txt.
// Fetch failures are reported as Unknown rather than as errors.
func (r *RobotsChecker) Advise(ctx context.Context, productURL string) (CrawlAdvice, error) {
	parsed, err := url.Parse(productURL)
	if err != nil || parsed.Host == "" {
		return CrawlAdvice{}, fmt.Errorf("parse URL %q: invalid host", productURL)
	}

	advice := CrawlAdvice{
		RobotsURL: fmt.Sprintf("%s://%s/robots.txt", parsed.Scheme, parsed.Host),
		Allowed:   true,
	}

	data, err := r.robots(ctx, parsed.Host, advice.RobotsURL)
	if err != nil {
		advice.Unknown = true
		return advice, nil
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	advice.Allowed = data.TestAgent(path, r.userAgent)
	if group := data.FindGroup(r.userAgent); group != nil {
		advice.CrawlDelay = group.CrawlDelay
	}

	return advice, nil
}

func (r *RobotsChecker) robots(ctx context.Context, host, robotsURL string) (*robotstxt.RobotsData, error) {
	if cached, ok := r.cache.Get(host); ok {
		return cached.(*robotstxt.RobotsData), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512<<10))
	if err != nil {
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}

	// FromStatusAndBytes allows everything on 4xx and disallows on 5xx
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	r.cache.SetDefault(host, data)
	return data, nil
}
