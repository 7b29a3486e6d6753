package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StatusError is returned when the service answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Status     string
	Message    string // Server-provided "error" text, when present
	RequestID  string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("unexpected status: %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("unexpected status: %d %s", e.StatusCode, e.Status)
}

// errorBody is the JSON shape the service uses for failures
type errorBody struct {
	Error string `json:"error"`
}

// serverMessage extracts the "error" field from a failure body, if any
func serverMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	return strings.TrimSpace(eb.Error)
}
