package classify

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/revsum/revsum/internal/api"
	"github.com/revsum/revsum/internal/model"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category model.ErrorCategory
		message  string
	}{
		{
			name:     "429",
			err:      &api.StatusError{StatusCode: 429, Message: "slow down"},
			category: model.CategoryRateLimited,
			message:  MsgRateLimited,
		},
		{
			name:     "400 with server text",
			err:      &api.StatusError{StatusCode: 400, Message: "bad url"},
			category: model.CategoryBadRequest,
			message:  "bad url",
		},
		{
			name:     "400 without server text",
			err:      &api.StatusError{StatusCode: 400},
			category: model.CategoryBadRequest,
			message:  MsgBadRequest,
		},
		{
			name:     "500 ignores server text",
			err:      &api.StatusError{StatusCode: 500, Message: "Internal server error occurred"},
			category: model.CategoryServerError,
			message:  MsgServerError,
		},
		{
			name:     "404 with server text",
			err:      &api.StatusError{StatusCode: 404, Message: "Analysis not found"},
			category: model.CategoryNetworkError,
			message:  "Analysis not found",
		},
		{
			name:     "503 without server text",
			err:      &api.StatusError{StatusCode: 503},
			category: model.CategoryNetworkError,
			message:  MsgNetworkError,
		},
		{
			name:     "wrapped status error",
			err:      fmt.Errorf("analyze: %w", &api.StatusError{StatusCode: 429}),
			category: model.CategoryRateLimited,
			message:  MsgRateLimited,
		},
		{
			name:     "deadline exceeded",
			err:      fmt.Errorf("POST /analyze: %w", context.DeadlineExceeded),
			category: model.CategoryTimeout,
			message:  MsgTimeout,
		},
		{
			name:     "net timeout",
			err:      fmt.Errorf("POST /analyze: %w", timeoutErr{}),
			category: model.CategoryTimeout,
			message:  MsgTimeout,
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp 127.0.0.1:5000: connect: connection refused"),
			category: model.CategoryNetworkError,
			message:  MsgNetworkError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Category != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, got.Category)
			}
			if got.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, got.Message)
			}
		})
	}
}
