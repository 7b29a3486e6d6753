package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/revsum/revsum/internal/model"
)

// RequestIDHeader carries a per-call correlation ID to the service
const RequestIDHeader = "X-Request-ID"

// Client talks to the review analysis service
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	maxBytes   int64
	logger     *slog.Logger
}

// NewClient creates a new Client with the given configuration
func NewClient(cfg model.APIConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = model.DefaultConfig().API.MaxBodyBytes
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newTransport(cfg),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		maxBytes:  maxBytes,
		logger:    logger,
	}
}

// Analyze submits a product URL and returns the raw analysis payload.
// The call blocks until the service finishes scraping and summarizing.
func (c *Client) Analyze(ctx context.Context, productURL string) (map[string]any, error) {
	var raw map[string]any
	if err := c.do(ctx, http.MethodPost, "/analyze", model.AnalysisRequest{URL: productURL}, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// Analysis fetches a stored analysis by ID
func (c *Client) Analysis(ctx context.Context, id int) (map[string]any, error) {
	var raw map[string]any
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/analysis/%d", id), nil, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// History returns the most recent analyses, newest first
func (c *Client) History(ctx context.Context) ([]model.HistoryEntry, error) {
	var resp struct {
		History []model.HistoryEntry `json:"history"`
	}
	if err := c.do(ctx, http.MethodGet, "/history", nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// HealthStatus is the service health report
type HealthStatus struct {
	Status    string   `json:"status"`
	Timestamp string   `json:"timestamp"`
	Features  []string `json:"features,omitempty"`
}

// Health checks whether the service is up
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var hs HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, &hs); err != nil {
		return nil, err
	}
	return &hs, nil
}

// do performs a JSON round trip. Non-2xx answers become *StatusError.
func (c *Client) do(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("api request", "method", method, "path", path, "request_id", requestID)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api transport error", "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	c.logger.Debug("api response",
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Message:    serverMessage(data),
			RequestID:  requestID,
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
