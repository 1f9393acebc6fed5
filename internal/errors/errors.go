// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errors defines sentinel errors and the typed fetch errors surfaced by
// the profile and repository fetchers. Sentinels map to specific exit codes in
// the CLI for proper scripting support.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrUserNotFound indicates the requested GitHub user does not exist.
	// Maps to exit code 2.
	ErrUserNotFound = errors.New("github user not found")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrInvalidResponse indicates the response body could not be decoded.
	ErrInvalidResponse = errors.New("invalid response from github")

	// ErrEmptyUsername is returned when a fetch is requested without a username.
	ErrEmptyUsername = errors.New("username must not be empty")
)

// NetworkError reports a request that never reached GitHub or never came back.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error connecting to GitHub API: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is reports ErrNetworkFailure so callers can match on the sentinel.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetworkFailure
}

// IsNetworkError marks the error for giterror.ErrorChainInspector.
func (e *NetworkError) IsNetworkError() bool { return true }

// RemoteError reports a non-2xx response from GitHub.
type RemoteError struct {
	Status     int
	StatusText string

	// RateLimited is set when the response carried x-ratelimit-remaining: 0.
	RateLimited bool
}

// NewRemoteError builds a RemoteError, filling StatusText from the status code
// when the response did not carry one.
func NewRemoteError(status int, statusText string, rateLimited bool) *RemoteError {
	if statusText == "" {
		statusText = http.StatusText(status)
	}
	return &RemoteError{Status: status, StatusText: statusText, RateLimited: rateLimited}
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("GitHub API returned %d: %s", e.Status, e.StatusText)
}

// Is maps well-known statuses onto the package sentinels.
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrUserNotFound:
		return e.Status == http.StatusNotFound
	case ErrRateLimit:
		return e.IsRateLimitError()
	}
	return false
}

// IsRateLimitError marks the error for giterror.ErrorChainInspector.
func (e *RemoteError) IsRateLimitError() bool {
	return e.Status == http.StatusTooManyRequests ||
		(e.Status == http.StatusForbidden && e.RateLimited)
}

// IsNotFoundError marks the error for giterror.ErrorChainInspector.
func (e *RemoteError) IsNotFoundError() bool {
	return e.Status == http.StatusNotFound
}

// ParseError reports a response body that was not the JSON shape we expected.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to decode GitHub response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidResponse
}
