package model

import "fmt"

// Status is the orchestrator's current state tag
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Phase steps shown while a request is pending
const (
	StepNone        = 0
	StepSubmitted   = 1
	StepProcessing  = 2
	StepSummarizing = 3
)

// StepLabel returns the user-facing text for a phase step
func StepLabel(step int) string {
	switch step {
	case StepSubmitted:
		return "Scraping product reviews..."
	case StepProcessing:
		return "Processing with AI..."
	case StepSummarizing:
		return "Generating summary..."
	default:
		return ""
	}
}

// ErrorCategory classifies a failed analysis for display
type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "validation"
	CategoryRateLimited  ErrorCategory = "rate_limited"
	CategoryBadRequest   ErrorCategory = "bad_request"
	CategoryServerError  ErrorCategory = "server_error"
	CategoryTimeout      ErrorCategory = "timeout"
	CategoryNetworkError ErrorCategory = "network_error"
)

// Failure is a classified, user-facing error
type Failure struct {
	Category ErrorCategory `json:"category"`
	Message  string        `json:"message"`
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Category, f.Message)
}

// Outcome is a snapshot of the orchestrator state.
// Step and Progress are meaningful only while Pending; Result only on
// Success; Failure only on Failure.
type Outcome struct {
	Status   Status          `json:"status"`
	Step     int             `json:"step,omitempty"`
	Progress int             `json:"progress"`
	Result   *AnalysisResult `json:"result,omitempty"`
	Failure  *Failure        `json:"failure,omitempty"`
}

// Idle returns the idle outcome
func Idle() Outcome {
	return Outcome{Status: StatusIdle}
}

// Pending returns a pending outcome at the given step and progress
func Pending(step, progress int) Outcome {
	return Outcome{Status: StatusPending, Step: step, Progress: progress}
}

// Succeeded returns a terminal success outcome
func Succeeded(result AnalysisResult) Outcome {
	return Outcome{Status: StatusSuccess, Progress: 100, Result: &result}
}

// Failed returns a terminal failure outcome
func Failed(category ErrorCategory, message string) Outcome {
	return Outcome{Status: StatusFailure, Progress: 100, Failure: &Failure{Category: category, Message: message}}
}

// Terminal reports whether the outcome is Success or Failure
func (o Outcome) Terminal() bool {
	return o.Status == StatusSuccess || o.Status == StatusFailure
}
