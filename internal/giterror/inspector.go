package giterror

import (
	"context"
	"errors"
	"fmt"
	"strings"

	explerrors "github.com/sirseerhq/sirseer-explorer/internal/errors"
)

// Inspector provides methods for analyzing GitHub API errors.
type Inspector interface {
	// IsNotFoundError returns true if the error represents an unknown user or resource.
	IsNotFoundError(err error) bool

	// IsRateLimitError returns true if the error represents a rate limit error.
	IsRateLimitError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool

	// IsRetryable returns true if repeating the request may succeed.
	IsRetryable(err error) bool
}

// GitHubErrorInspector implements the Inspector interface for GitHub API errors.
type GitHubErrorInspector struct{}

// NewInspector creates a new GitHubErrorInspector.
func NewInspector() Inspector {
	return &GitHubErrorInspector{}
}

// IsNotFoundError checks if the error is a not found error.
func (i *GitHubErrorInspector) IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "404") ||
		strings.Contains(errStr, "not found")
}

// IsRateLimitError checks if the error is a rate limit error.
func (i *GitHubErrorInspector) IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "api rate limit exceeded")
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *GitHubErrorInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "tls handshake") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "eof")
}

// IsRetryable reports network failures as retryable. Rate limits and
// unknown users are final.
func (i *GitHubErrorInspector) IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if i.IsRateLimitError(err) || i.IsNotFoundError(err) {
		return false
	}
	return i.IsNetworkError(err)
}

// ErrorChainInspector wraps a base inspector and adds support for checking errors
// in the error chain using errors.As.
type ErrorChainInspector struct {
	base Inspector
}

// NewErrorChainInspector creates a new ErrorChainInspector that checks both
// the error chain and falls back to string-based inspection.
func NewErrorChainInspector(base Inspector) Inspector {
	return &ErrorChainInspector{base: base}
}

// IsNotFoundError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsNotFoundError(err error) bool {
	var notFoundErr interface{ IsNotFoundError() bool }
	if errors.As(err, &notFoundErr) {
		return notFoundErr.IsNotFoundError()
	}
	return e.base.IsNotFoundError(err)
}

// IsRateLimitError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsRateLimitError(err error) bool {
	var rateLimitErr interface{ IsRateLimitError() bool }
	if errors.As(err, &rateLimitErr) {
		return rateLimitErr.IsRateLimitError()
	}
	return e.base.IsRateLimitError(err)
}

// IsNetworkError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsNetworkError(err error) bool {
	var networkErr interface{ IsNetworkError() bool }
	if errors.As(err, &networkErr) && networkErr.IsNetworkError() {
		return true
	}
	return e.base.IsNetworkError(err)
}

// IsRetryable only retries errors the chain identifies as network failures.
// Typed remote errors (any HTTP status) and decode failures are final.
func (e *ErrorChainInspector) IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, explerrors.ErrInvalidResponse) {
		return false
	}
	var statusErr interface{ IsRateLimitError() bool }
	if errors.As(err, &statusErr) {
		return false
	}
	return e.IsNetworkError(err)
}

// RetryError annotates an error with the attempt that produced it.
type RetryError struct {
	Err         error
	Attempt     int
	MaxAttempts int
}

func (r *RetryError) Error() string {
	return fmt.Sprintf("%v (attempt %d/%d)", r.Err, r.Attempt, r.MaxAttempts)
}

func (r *RetryError) Unwrap() error { return r.Err }

// WithRetryInfo wraps err with attempt bookkeeping.
func WithRetryInfo(err error, attempt, maxAttempts int) error {
	if err == nil {
		return nil
	}
	return &RetryError{Err: err, Attempt: attempt, MaxAttempts: maxAttempts}
}
