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
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/sirseerhq/sirseer-explorer/internal/giterror"
	"github.com/sirseerhq/sirseer-explorer/internal/logging"
)

// RetryConfig configures the retry behavior for API calls
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts
	MaxRetries int
	// InitialBackoff is the initial backoff duration
	InitialBackoff time.Duration
	// MaxBackoff is the maximum backoff duration
	MaxBackoff time.Duration
	// BackoffMultiplier is the multiplier for exponential backoff
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        2,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryClient wraps a GitHub client with automatic retry of transient
// network errors using exponential backoff. Remote errors (any HTTP status,
// including rate limits) are returned immediately.
type RetryClient struct {
	client    Client
	config    *RetryConfig
	inspector giterror.Inspector
	log       *logging.Logger
}

// NewRetryClient creates a new RetryClient with the given configuration
func NewRetryClient(client Client, config *RetryConfig, log *logging.Logger) Client {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &RetryClient{
		client:    client,
		config:    config,
		inspector: giterror.NewErrorChainInspector(giterror.NewInspector()),
		log:       logging.OrNop(log),
	}
}

// GetUser implements the Client interface with retry logic
func (r *RetryClient) GetUser(ctx context.Context, username string) (*UserResult, error) {
	return withRetry(ctx, r, "get user", func() (*UserResult, error) {
		return r.client.GetUser(ctx, username)
	})
}

// ListRepositories implements the Client interface with retry logic
func (r *RetryClient) ListRepositories(ctx context.Context, username string, page int) (*RepositoryPage, error) {
	return withRetry(ctx, r, "list repositories", func() (*RepositoryPage, error) {
		return r.client.ListRepositories(ctx, username, page)
	})
}

func withRetry[T any](ctx context.Context, r *RetryClient, op string, call func() (T, error)) (T, error) {
	var (
		result T
		err    error
	)

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		result, err = call()
		if err == nil || !r.inspector.IsRetryable(err) {
			return result, err
		}
		if attempt == r.config.MaxRetries {
			break
		}
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		backoff := r.calculateBackoff(attempt)
		r.log.Warnw("network error, retrying",
			"operation", op, "error", err, "backoff", backoff,
			"attempt", attempt+1, "max_retries", r.config.MaxRetries)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return result, ctx.Err()
		}
	}

	return result, fmt.Errorf("failed after %d retries: %w", r.config.MaxRetries, err)
}

// calculateBackoff calculates the backoff duration for the given attempt
func (r *RetryClient) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.config.InitialBackoff) * math.Pow(r.config.BackoffMultiplier, float64(attempt))

	if backoff > float64(r.config.MaxBackoff) {
		backoff = float64(r.config.MaxBackoff)
	}

	// ±10% jitter
	jitter := backoff * 0.1 * (2*rand.Float64() - 1)
	return time.Duration(backoff + jitter)
}
