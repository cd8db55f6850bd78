package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is returned for any non-2xx GitHub response.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api error %d: %s", e.StatusCode, e.Message)
}

// NetworkError wraps transport failures (DNS, TLS, timeouts, truncated bodies).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func newAPIError(status int, body []byte) *APIError {
	var eb errorBody
	if len(body) > 0 {
		_ = json.Unmarshal(body, &eb)
	}
	if eb.Message == "" {
		eb.Message = fmt.Sprintf("GitHub API error: %d", status)
	}
	return &APIError{StatusCode: status, Message: eb.Message, Errors: eb.Errors}
}

// Status classification

// IsNotFound reports a missing repository, branch or file.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsAuthFailure reports a rejected or missing token.
func IsAuthFailure(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized ||
		strings.Contains(apiErr.Message, "Bad credentials")
}

// IsRateLimited reports primary or secondary rate limiting. GitHub answers
// with 429, or with 403 and a "rate limit" message. Any other 403 is a
// permission failure.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return strings.Contains(strings.ToLower(apiErr.Message), "rate limit")
}

// IsConflict reports a write rejected because the supplied sha is stale.
func IsConflict(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode == http.StatusConflict {
		return true
	}
	return apiErr.StatusCode == http.StatusUnprocessableEntity &&
		strings.Contains(strings.ToLower(apiErr.Message), "sha")
}

// IsNetwork reports a transport level failure.
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
