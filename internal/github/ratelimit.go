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
	"net/http"
	"strconv"
	"strings"
)

// Rate-limit response headers.
const (
	HeaderRateLimitLimit     = "X-Ratelimit-Limit"
	HeaderRateLimitRemaining = "X-Ratelimit-Remaining"
	HeaderRateLimitReset     = "X-Ratelimit-Reset"
	HeaderRateLimitUsed      = "X-Ratelimit-Used"
)

// ParseRateLimit extracts the quota snapshot from response headers. It returns
// nil unless all four headers are present and parse as integers; a partial
// snapshot is never fabricated.
func ParseRateLimit(h http.Header) *RateLimitInfo {
	if h == nil {
		return nil
	}

	limit, ok := headerInt(h, HeaderRateLimitLimit)
	if !ok {
		return nil
	}
	remaining, ok := headerInt(h, HeaderRateLimitRemaining)
	if !ok {
		return nil
	}
	reset, ok := headerInt(h, HeaderRateLimitReset)
	if !ok {
		return nil
	}
	used, ok := headerInt(h, HeaderRateLimitUsed)
	if !ok {
		return nil
	}

	return &RateLimitInfo{
		Limit:     int(limit),
		Remaining: int(remaining),
		Reset:     reset,
		Used:      int(used),
	}
}

// quotaExhausted reports whether the response says no calls are left.
func quotaExhausted(h http.Header) bool {
	remaining, ok := headerInt(h, HeaderRateLimitRemaining)
	return ok && remaining == 0
}

func headerInt(h http.Header, key string) (int64, bool) {
	v := strings.TrimSpace(h.Get(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
