package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/HerbHall/postreview/pkg/llm"
)

// statusError represents an HTTP error response from the Gemini API.
type statusError struct {
	StatusCode int
	Status     string // Google RPC status, e.g. "INVALID_ARGUMENT".
	Message    string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("gemini: %d %s: %s", e.StatusCode, e.Status, e.Message)
}

// mapError translates Gemini and network errors into typed llm.ProviderError values.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pe *llm.ProviderError
	if errors.As(err, &pe) {
		return err
	}

	// A caller that gave up is not a provider failure.
	if errors.Is(err, context.Canceled) {
		return err
	}

	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return llm.NewProviderError(llm.ErrCodeTimeout, "request timed out", err)
	}

	var se *statusError
	if errors.As(err, &se) {
		msg := strings.ToLower(se.Message)
		switch {
		case se.StatusCode == 401 || se.StatusCode == 403 ||
			se.Status == "UNAUTHENTICATED" || strings.Contains(msg, "api key not valid"):
			return llm.NewProviderError(llm.ErrCodeAuthentication, se.Message, err)
		case se.StatusCode == 429:
			return llm.NewProviderError(llm.ErrCodeRateLimit, se.Message, err)
		case se.StatusCode == 404:
			return llm.NewProviderError(llm.ErrCodeModelNotFound, se.Message, err)
		case strings.Contains(msg, "token") && strings.Contains(msg, "exceed"):
			return llm.NewProviderError(llm.ErrCodeContextLength, se.Message, err)
		case se.StatusCode >= 500:
			return llm.NewProviderError(llm.ErrCodeServerError, se.Message, err)
		case se.StatusCode >= 400:
			return llm.NewProviderError(llm.ErrCodeInvalidRequest, se.Message, err)
		}
	}

	msg := err.Error()
	if strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "dial tcp") {
		return llm.NewProviderError(llm.ErrCodeServerError, "gemini server unreachable", err)
	}

	return llm.NewProviderError(llm.ErrCodeServerError, "gemini error", err)
}
