package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 1 {
		t.Errorf("expected default burst 1 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://localhost:5000/api"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different host should also work
	if err := limiter.Wait(ctx, "http://example.com"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(10.0/60.0, 2) // Matches the service limit

	if !limiter.Allow("http://localhost:5000/api") || !limiter.Allow("http://LOCALHOST:5000/api/analyze") {
		t.Fatal("expected burst of 2 to be allowed")
	}
	if limiter.Allow("http://localhost:5000/api") {
		t.Error("expected third immediate request to be throttled")
	}

	// Hosts are limited independently
	if !limiter.Allow("http://api.example.com") {
		t.Error("expected other host to be allowed")
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	_ = limiter.Allow("http://localhost:5000")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "http://localhost:5000"); err == nil {
		t.Error("expected wait to fail when the deadline is shorter than the delay")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 100; i++ {
		if !limiter.Allow("http://localhost:5000") {
			t.Fatalf("expected unlimited limiter to allow request %d", i)
		}
	}
}

func TestExtractHost(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"http://example.com/foo", "example.com", false},
		{"https://API.Example.com:8443/x", "api.example.com:8443", false},
		{"not a url", "", true},
		{"://bad", "", true},
	}

	for _, tt := range tests {
		got, err := extractHost(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("extractHost(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("extractHost(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
