package classify

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/revsum/revsum/internal/api"
	"github.com/revsum/revsum/internal/model"
)

// User-facing messages per category
const (
	MsgRateLimited    = "Too many requests. Please wait a moment and try again."
	MsgBadRequest     = "Invalid request"
	MsgServerError    = "Server error. Please try again later."
	MsgTimeout        = "Request timeout. The analysis is taking longer than expected."
	MsgNetworkError   = "Network error occurred"
	MsgInvalidURL     = "Please enter a valid product URL from supported sites (Amazon, Flipkart, etc.)"
	MsgUnsupportedURL = "This site is not supported yet. Please use a product URL from a supported site."
)

// Classify maps a failed remote call onto exactly one category.
// HTTP status takes precedence; timeouts only apply when no response arrived.
func Classify(err error) model.Failure {
	var se *api.StatusError
	if errors.As(err, &se) {
		switch se.StatusCode {
		case http.StatusTooManyRequests:
			return model.Failure{Category: model.CategoryRateLimited, Message: MsgRateLimited}
		case http.StatusBadRequest:
			return model.Failure{Category: model.CategoryBadRequest, Message: orDefault(se.Message, MsgBadRequest)}
		case http.StatusInternalServerError:
			return model.Failure{Category: model.CategoryServerError, Message: MsgServerError}
		default:
			return model.Failure{Category: model.CategoryNetworkError, Message: orDefault(se.Message, MsgNetworkError)}
		}
	}

	if isTimeout(err) {
		return model.Failure{Category: model.CategoryTimeout, Message: MsgTimeout}
	}

	return model.Failure{Category: model.CategoryNetworkError, Message: MsgNetworkError}
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
