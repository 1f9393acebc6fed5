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

package github

import (
	"context"
	"errors"
	"testing"
	"time"

	explerrors "github.com/sirseerhq/sirseer-explorer/internal/errors"
)

// mockClientWithErrors is a mock client that fails a fixed number of times
type mockClientWithErrors struct {
	attempts     int
	maxFailures  int
	failureError error
}

func (m *mockClientWithErrors) GetUser(ctx context.Context, username string) (*UserResult, error) {
	m.attempts++
	if m.attempts <= m.maxFailures {
		return &UserResult{}, m.failureError
	}
	return &UserResult{User: &UserProfile{Login: username}}, nil
}

func (m *mockClientWithErrors) ListRepositories(ctx context.Context, username string, page int) (*RepositoryPage, error) {
	m.attempts++
	if m.attempts <= m.maxFailures {
		return nil, m.failureError
	}
	return &RepositoryPage{Page: page, Repositories: []Repository{{Name: "r"}}}, nil
}

func fastRetryConfig(maxRetries int) *RetryConfig {
	return &RetryConfig{
		MaxRetries:        maxRetries,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetryClient_NetworkRetry(t *testing.T) {
	networkErr := &explerrors.NetworkError{Err: errors.New("dial tcp: connection refused")}

	tests := []struct {
		name             string
		maxFailures      int
		maxRetries       int
		expectError      bool
		expectedAttempts int
	}{
		{
			name:             "succeeds after one retry",
			maxFailures:      1,
			maxRetries:       3,
			expectError:      false,
			expectedAttempts: 2,
		},
		{
			name:             "succeeds after max retries",
			maxFailures:      3,
			maxRetries:       3,
			expectError:      false,
			expectedAttempts: 4,
		},
		{
			name:             "fails after max retries exceeded",
			maxFailures:      5,
			maxRetries:       2,
			expectError:      true,
			expectedAttempts: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockClientWithErrors{maxFailures: tt.maxFailures, failureError: networkErr}
			client := NewRetryClient(mock, fastRetryConfig(tt.maxRetries), nil)

			_, err := client.ListRepositories(context.Background(), "octocat", 1)
			if (err != nil) != tt.expectError {
				t.Fatalf("error = %v, expectError %v", err, tt.expectError)
			}
			if err != nil && !errors.Is(err, explerrors.ErrNetworkFailure) {
				t.Errorf("final error should still match ErrNetworkFailure: %v", err)
			}
			if mock.attempts != tt.expectedAttempts {
				t.Errorf("attempts = %d, want %d", mock.attempts, tt.expectedAttempts)
			}
		})
	}
}

func TestRetryClient_DoesNotRetryRemoteErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not found", explerrors.NewRemoteError(404, "Not Found", false)},
		{"rate limited", explerrors.NewRemoteError(403, "Forbidden", true)},
		{"parse error", &explerrors.ParseError{Err: errors.New("unexpected end of JSON input")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockClientWithErrors{maxFailures: 10, failureError: tt.err}
			client := NewRetryClient(mock, fastRetryConfig(3), nil)

			result, err := client.GetUser(context.Background(), "octocat")
			if !errors.Is(err, tt.err) {
				t.Fatalf("error = %v, want %v", err, tt.err)
			}
			if result == nil {
				t.Error("result should be passed through alongside the error")
			}
			if mock.attempts != 1 {
				t.Errorf("attempts = %d, want 1", mock.attempts)
			}
		})
	}
}

func TestRetryClient_ContextCancellation(t *testing.T) {
	mock := &mockClientWithErrors{
		maxFailures:  10,
		failureError: &explerrors.NetworkError{Err: errors.New("connection reset")},
	}
	cfg := fastRetryConfig(5)
	cfg.InitialBackoff = time.Second
	cfg.MaxBackoff = time.Second
	client := NewRetryClient(mock, cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.ListRepositories(ctx, "octocat", 1)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want deadline exceeded", err)
	}
	if mock.attempts != 1 {
		t.Errorf("attempts = %d, want 1", mock.attempts)
	}
}

func TestRetryClient_CalculateBackoff(t *testing.T) {
	r := &RetryClient{config: &RetryConfig{
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        time.Second,
		BackoffMultiplier: 2.0,
	}}

	tests := []struct {
		attempt int
		base    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{5, time.Second},
	}

	for _, tt := range tests {
		got := r.calculateBackoff(tt.attempt)
		low := time.Duration(float64(tt.base) * 0.9)
		high := time.Duration(float64(tt.base) * 1.1)
		if got < low || got > high {
			t.Errorf("calculateBackoff(%d) = %v, want within [%v, %v]", tt.attempt, got, low, high)
		}
	}
}
