package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/revsum/revsum/internal/model"
)

func newTestClient(serverURL string, timeout time.Duration) *Client {
	cfg := model.DefaultConfig().API
	cfg.BaseURL = serverURL + "/api/"
	cfg.Timeout = timeout
	cfg.UserAgent = "test-agent"
	return NewClient(cfg, nil)
}

func TestClient_Analyze_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/analyze" {
			t.Errorf("Expected path /api/analyze, got %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type, got %s", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("Expected test-agent, got %s", r.Header.Get("User-Agent"))
		}
		if r.Header.Get(RequestIDHeader) == "" {
			t.Error("Expected request ID header")
		}

		var req model.AnalysisRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.URL != "https://www.amazon.in/dp/XYZ" {
			t.Errorf("unexpected url in body: %s", req.URL)
		}

		_, _ = fmt.Fprint(w, `{"productName": "Widget", "totalReviews": 12}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)
	raw, err := client.Analyze(context.Background(), "https://www.amazon.in/dp/XYZ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if raw["productName"] != "Widget" {
		t.Errorf("Unexpected payload: %v", raw)
	}
}

func TestClient_Analyze_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, `{"error": "bad url"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)
	_, err := client.Analyze(context.Background(), "https://example.com")

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Expected *StatusError, got %T: %v", err, err)
	}
	if se.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", se.StatusCode)
	}
	if se.Message != "bad url" {
		t.Errorf("Expected server message 'bad url', got %q", se.Message)
	}
	if got := se.Error(); got != "unexpected status: 400 Bad Request: bad url" {
		t.Errorf("Unexpected error text: %s", got)
	}
}

func TestClient_Analyze_NonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = fmt.Fprint(w, "<html>bad gateway</html>")
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)
	_, err := client.Analyze(context.Background(), "https://example.com")

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Expected *StatusError, got %v", err)
	}
	if se.Message != "" {
		t.Errorf("Expected empty message for non-JSON body, got %q", se.Message)
	}
}

func TestClient_Analyze_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(server.URL, 50*time.Millisecond)
	_, err := client.Analyze(context.Background(), "https://example.com")
	if err == nil {
		t.Fatal("Expected timeout error")
	}

	var ue *url.Error
	if !errors.As(err, &ue) || !ue.Timeout() {
		t.Errorf("Expected timeout url.Error, got %v", err)
	}
}

func TestClient_Websites_CategoryShapes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/websites" {
			t.Errorf("Expected /api/websites, got %s", r.URL.Path)
		}
		_, _ = fmt.Fprint(w, `{"success": true, "websites": [
			{"key": "amazon", "name": "Amazon", "icon": "🛒", "category": {"name": "E-commerce", "icon": "🛍"}, "enabled": true},
			{"key": "nykaa", "name": "Nykaa", "icon": "💄", "category": "Beauty", "enabled": false},
			{"key": "ajio", "name": "Ajio", "icon": "👗", "category": null, "enabled": true}
		]}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)
	resp, err := client.Websites(context.Background())
	if err != nil {
		t.Fatalf("Websites failed: %v", err)
	}

	if !resp.Success || len(resp.Websites) != 3 {
		t.Fatalf("Unexpected response: %+v", resp)
	}
	if resp.Websites[0].Category.Name != "E-commerce" {
		t.Errorf("Expected object category, got %+v", resp.Websites[0].Category)
	}
	if resp.Websites[1].Category.Name != "Beauty" {
		t.Errorf("Expected string category, got %+v", resp.Websites[1].Category)
	}
	if resp.Websites[2].Category.Name != "" {
		t.Errorf("Expected empty category for null, got %+v", resp.Websites[2].Category)
	}
}

func TestClient_Websites_MissingList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"success": true}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)
	resp, err := client.Websites(context.Background())
	if err != nil {
		t.Fatalf("Websites failed: %v", err)
	}
	if resp.Websites != nil {
		t.Errorf("Expected nil websites when field is absent, got %v", resp.Websites)
	}
}

func TestClient_HistoryAndAnalysis(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/history":
			_, _ = fmt.Fprint(w, `{"history": [{"id": 7, "productName": "Kettle", "platform": "flipkart", "totalReviews": 30,
				"createdAt": "2026-09-30T08:00:00", "sentiment": {"positive": 60, "neutral": 30, "negative": 10}}]}`)
		case "/api/analysis/7":
			_, _ = fmt.Fprint(w, `{"productName": "Kettle", "analysisId": 7}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = fmt.Fprint(w, `{"error": "Analysis not found"}`)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)

	history, err := client.History(context.Background())
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 || history[0].ID != 7 || history[0].Sentiment.Positive != 60 {
		t.Errorf("Unexpected history: %+v", history)
	}

	raw, err := client.Analysis(context.Background(), 7)
	if err != nil {
		t.Fatalf("Analysis failed: %v", err)
	}
	if raw["productName"] != "Kettle" {
		t.Errorf("Unexpected analysis: %v", raw)
	}

	_, err = client.Analysis(context.Background(), 8)
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 status error, got %v", err)
	}
}

func TestProxyFunc_Explicit(t *testing.T) {
	proxy := proxyFunc("http://proxy.local:3128", "", "internal.example")

	req, _ := http.NewRequest(http.MethodGet, "http://api.example/analyze", nil)
	got, err := proxy(req)
	if err != nil {
		t.Fatalf("proxy failed: %v", err)
	}
	if got == nil || got.Host != "proxy.local:3128" {
		t.Errorf("Expected proxy.local:3128, got %v", got)
	}

	req, _ = http.NewRequest(http.MethodGet, "http://internal.example/analyze", nil)
	got, err = proxy(req)
	if err != nil {
		t.Fatalf("proxy failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected no_proxy host to bypass proxy, got %v", got)
	}
}
