package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/revsum/revsum/internal/api"
	"github.com/revsum/revsum/internal/classify"
	"github.com/revsum/revsum/internal/model"
	"github.com/revsum/revsum/internal/sites"
)

// MockAnalyzer implements analysis.Analyzer
type MockAnalyzer struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (m *MockAnalyzer) Analyze(ctx context.Context, productURL string) (map[string]any, error) {
	m.mu.Lock()
	m.calls = append(m.calls, productURL)
	err := m.fail[productURL]
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return map[string]any{"productName": "Item " + productURL, "price": 250}, nil
}

func (m *MockAnalyzer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type fixedDirectory struct{}

func (fixedDirectory) Directory() model.SiteDirectory { return sites.Fallback() }

func TestBatchProcessor_ProcessURLs(t *testing.T) {
	analyzer := &MockAnalyzer{}
	processor := NewBatchProcessor(analyzer, BatchOptions{Workers: 2, Currency: "₹"})

	urls := []string{"https://www.amazon.in/dp/1", "www.flipkart.com/p/2", "https://www.myntra.com/3"}
	results := processor.ProcessURLs(context.Background(), urls)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i, res := range results {
		if res.Index != i || res.Input != urls[i] {
			t.Errorf("result %d out of order: %+v", i, res)
		}
		if res.Outcome.Status != model.StatusSuccess {
			t.Errorf("unexpected failure for %s: %+v", res.Input, res.Outcome.Failure)
			continue
		}
		if res.Outcome.Result.FormattedPrice != "₹250" {
			t.Errorf("expected normalized price, got %s", res.Outcome.Result.FormattedPrice)
		}
	}

	if results[1].URL != "https://www.flipkart.com/p/2" {
		t.Errorf("expected www. input to be normalized, got %s", results[1].URL)
	}

	ok, failed := Tally(results)
	if ok != 3 || failed != 0 {
		t.Errorf("expected 3/0, got %d/%d", ok, failed)
	}
}

func TestBatchProcessor_ProcessURLs_Errors(t *testing.T) {
	analyzer := &MockAnalyzer{fail: map[string]error{
		"https://www.amazon.in/dp/429": &api.StatusError{StatusCode: 429},
		"https://www.amazon.in/dp/net": errors.New("connection reset"),
	}}

	var mu sync.Mutex
	seen := 0
	processor := NewBatchProcessor(analyzer, BatchOptions{
		Workers:   3,
		Directory: fixedDirectory{},
		OnResult: func(ItemResult) {
			mu.Lock()
			seen++
			mu.Unlock()
		},
	})

	urls := []string{
		"https://www.amazon.in/dp/429",
		"https://www.amazon.in/dp/net",
		"https://example.com/item",
		"   ",
		"https://www.amazon.in/dp/ok",
	}
	results := processor.ProcessURLs(context.Background(), urls)

	want := []struct {
		category model.ErrorCategory
		message  string
	}{
		{model.CategoryRateLimited, classify.MsgRateLimited},
		{model.CategoryNetworkError, classify.MsgNetworkError},
		{model.CategoryValidation, classify.MsgUnsupportedURL},
		{model.CategoryValidation, classify.MsgInvalidURL},
	}
	for i, w := range want {
		f := results[i].Outcome.Failure
		if f == nil || f.Category != w.category || f.Message != w.message {
			t.Errorf("result %d: got %+v, want %s %q", i, f, w.category, w.message)
		}
		if results[i].GetError() == nil {
			t.Errorf("result %d: expected GetError to report the failure", i)
		}
	}
	if results[4].Outcome.Status != model.StatusSuccess {
		t.Errorf("expected last URL to succeed, got %+v", results[4].Outcome)
	}

	if analyzer.callCount() != 3 {
		t.Errorf("expected locally rejected URLs to skip the network, got %d calls", analyzer.callCount())
	}
	mu.Lock()
	defer mu.Unlock()
	if seen != 5 {
		t.Errorf("expected OnResult for every item, got %d", seen)
	}
}

func TestBatchProcessor_Throttled(t *testing.T) {
	analyzer := &MockAnalyzer{}
	limiter := NewLimiter(1000, 1)
	processor := NewBatchProcessor(analyzer, BatchOptions{
		Workers:  2,
		Limiter:  limiter,
		LimitKey: "http://localhost:5000/api",
	})

	results := processor.ProcessURLs(context.Background(), []string{"https://www.amazon.in/dp/1", "https://www.amazon.in/dp/2"})
	if ok, _ := Tally(results); ok != 2 {
		t.Errorf("expected both to succeed under a generous limit, got %d", ok)
	}
}

func TestBatchProcessor_CancelledContext(t *testing.T) {
	analyzer := &MockAnalyzer{}
	processor := NewBatchProcessor(analyzer, BatchOptions{Workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := processor.ProcessURLs(ctx, []string{"https://www.amazon.in/dp/1", "https://www.amazon.in/dp/2"})
	for i, res := range results {
		if res.Outcome.Status != model.StatusFailure || !errors.Is(res.Err, context.Canceled) {
			t.Errorf("result %d: expected cancelled failure, got %+v", i, res)
		}
	}
	if analyzer.callCount() != 0 {
		t.Errorf("expected no calls after cancellation, got %d", analyzer.callCount())
	}
}

func TestBatchProcessor_ProcessURLs_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockAnalyzer{}, BatchOptions{Workers: 2})
	if results := processor.ProcessURLs(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestReadURLsFromFile(t *testing.T) {
	content := `
# Comment line
https://www.amazon.in/dp/1

www.flipkart.com/p/2
https://www.flipkart.com/p/2
  https://www.amazon.in/dp/1
`
	path := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	urls, err := ReadURLsFromFile(path)
	if err != nil {
		t.Fatalf("ReadURLsFromFile failed: %v", err)
	}

	want := []string{"https://www.amazon.in/dp/1", "www.flipkart.com/p/2"}
	if len(urls) != len(want) {
		t.Fatalf("expected %v, got %v", want, urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("url %d: expected %s, got %s", i, want[i], urls[i])
		}
	}
}

func TestReadURLsFromFile_NonExistent(t *testing.T) {
	if _, err := ReadURLsFromFile("non-existent-file.txt"); err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(path, []byte(strings.Join([]string{
		"https://www.amazon.in/dp/1",
		"https://www.snapdeal.com/p/2",
	}, "\n")), 0o644); err != nil {
		t.Fatal(err)
	}

	processor := NewBatchProcessor(&MockAnalyzer{}, BatchOptions{Workers: 2})
	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}

	if _, err := processor.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
