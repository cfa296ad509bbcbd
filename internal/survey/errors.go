package survey

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrEmptyResponse indicates the completion contained no text.
	ErrEmptyResponse = errors.New("survey: empty completion")

	// ErrInvalidResponse indicates a body that is not a chat completion.
	ErrInvalidResponse = errors.New("survey: invalid completion response")
)

// APIError is a non-200 answer from the completion endpoint.
type APIError struct {
	StatusCode int
	Type       string // error.type from the body, when present
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("survey: completion API error (status %d, type %s): %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("survey: completion API error (status %d): %s", e.StatusCode, e.Message)
}

// newAPIError decodes the conventional {"error": {...}} body, falling back
// to the raw text.
func newAPIError(status int, body []byte) *APIError {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	apiErr := &APIError{StatusCode: status}
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
		apiErr.Message = parsed.Error.Message
		apiErr.Type = parsed.Error.Type
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// IsAuthError reports whether err is a rejected or missing API key.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// IsRateLimited reports whether err is a 429 from the endpoint.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}
