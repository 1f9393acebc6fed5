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
	"testing"
	"time"
)

func TestParseRateLimit(t *testing.T) {
	full := func() http.Header {
		h := http.Header{}
		h.Set("x-ratelimit-limit", "60")
		h.Set("x-ratelimit-remaining", "57")
		h.Set("x-ratelimit-reset", "1700000000")
		h.Set("x-ratelimit-used", "3")
		return h
	}

	tests := []struct {
		name   string
		header func() http.Header
		want   *RateLimitInfo
	}{
		{
			name:   "all four headers",
			header: full,
			want:   &RateLimitInfo{Limit: 60, Remaining: 57, Reset: 1700000000, Used: 3},
		},
		{
			name: "missing used",
			header: func() http.Header {
				h := full()
				h.Del("x-ratelimit-used")
				return h
			},
			want: nil,
		},
		{
			name: "missing remaining",
			header: func() http.Header {
				h := full()
				h.Del("x-ratelimit-remaining")
				return h
			},
			want: nil,
		},
		{
			name: "non-integer reset",
			header: func() http.Header {
				h := full()
				h.Set("x-ratelimit-reset", "soon")
				return h
			},
			want: nil,
		},
		{
			name: "empty limit",
			header: func() http.Header {
				h := full()
				h.Set("x-ratelimit-limit", " ")
				return h
			},
			want: nil,
		},
		{
			name:   "no headers",
			header: func() http.Header { return http.Header{} },
			want:   nil,
		},
		{
			name:   "nil header",
			header: func() http.Header { return nil },
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRateLimit(tt.header())
			if tt.want == nil {
				if got != nil {
					t.Errorf("ParseRateLimit() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("ParseRateLimit() = nil, want snapshot")
			}
			if *got != *tt.want {
				t.Errorf("ParseRateLimit() = %+v, want %+v", *got, *tt.want)
			}
		})
	}
}

func TestRateLimitInfoHelpers(t *testing.T) {
	rl := RateLimitInfo{Limit: 60, Remaining: 20, Reset: 1700000000, Used: 40}

	if got := rl.PercentRemaining(); got != 33 {
		t.Errorf("PercentRemaining() = %d, want 33", got)
	}
	if got := rl.ResetTime(); !got.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("ResetTime() = %v", got)
	}
	if got := (RateLimitInfo{}).PercentRemaining(); got != 0 {
		t.Errorf("PercentRemaining() with zero limit = %d, want 0", got)
	}
}
