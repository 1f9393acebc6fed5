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
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirseerhq/sirseer-explorer/internal/giterror"
	"github.com/sirseerhq/sirseer-explorer/internal/logging"
)

// maxResponseBytes caps a single response body. A page of 30 repositories is
// a few hundred kilobytes at most.
const maxResponseBytes = 10 * 1024 * 1024

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	// Calculate how much we can read
	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// headerTransport sets identification headers and applies the body size limit.
// No Authorization header is ever sent: the explorer only reads public data.
type headerTransport struct {
	userAgent string
	base      http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseBytes,
		}
	}

	return resp, nil
}

// retryTransport retries gateway errors and transient network failures with
// exponential backoff. The final attempt's response is returned as-is, so a
// persistent 503 still reaches the caller as a status rather than an error.
type retryTransport struct {
	base        http.RoundTripper
	maxAttempts int
	backoff     time.Duration
	maxBackoff  time.Duration
	inspector   giterror.Inspector
	log         *logging.Logger
}

// newRetryTransport creates a new transport with retry logic.
func newRetryTransport(base http.RoundTripper, maxAttempts int, backoff, maxBackoff time.Duration, log *logging.Logger) http.RoundTripper {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &retryTransport{
		base:        base,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		maxBackoff:  maxBackoff,
		inspector:   giterror.NewInspector(),
		log:         logging.OrNop(log),
	}
}

// RoundTrip implements http.RoundTripper with retry logic.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	backoff := t.backoff

	for attempt := 1; ; attempt++ {
		resp, err := t.base.RoundTrip(req.Clone(req.Context()))

		last := attempt >= t.maxAttempts
		switch {
		case err == nil && !isRetryableStatusCode(resp.StatusCode):
			return resp, nil
		case last:
			return resp, err
		case err != nil:
			if !t.inspector.IsRetryable(err) {
				return nil, err
			}
			t.log.Debugw("retrying request", "url", req.URL.String(),
				"error", giterror.WithRetryInfo(err, attempt, t.maxAttempts))
		default:
			t.log.Debugw("retrying request", "url", req.URL.String(),
				"status", resp.StatusCode, "attempt", attempt, "max_attempts", t.maxAttempts)
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		select {
		case <-time.After(backoff):
			backoff *= 2
			if backoff > t.maxBackoff {
				backoff = t.maxBackoff
			}
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	}
}

// isRetryableStatusCode checks if an HTTP status code should trigger a retry.
func isRetryableStatusCode(code int) bool {
	switch code {
	case http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
