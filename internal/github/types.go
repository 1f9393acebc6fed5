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
	"math"
	"time"
)

// PerPage is the fixed number of repositories requested per page.
const PerPage = 30

// Repository is one public repository of a user. Values are immutable once
// fetched; private repositories never make it into this type because the
// client drops them on retrieval.
type Repository struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Topics          []string  `json:"topics,omitempty"`
	Language        string    `json:"language,omitempty"`
	Archived        bool      `json:"archived"`
	Private         bool      `json:"private"`
	Fork            bool      `json:"fork"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	WatchersCount   int       `json:"watchers_count"`
	Size            int       `json:"size"` // kilobytes
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	HTMLURL         string    `json:"html_url"`
	Homepage        string    `json:"homepage,omitempty"`
}

// UserProfile is the public profile of a GitHub user. Empty strings stand
// for fields GitHub reports as null.
type UserProfile struct {
	Login           string    `json:"login"`
	ID              int64     `json:"id"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	HTMLURL         string    `json:"html_url,omitempty"`
	Name            string    `json:"name,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	Company         string    `json:"company,omitempty"`
	Location        string    `json:"location,omitempty"`
	Blog            string    `json:"blog,omitempty"`
	TwitterUsername string    `json:"twitter_username,omitempty"`
	PublicRepos     int       `json:"public_repos"`
	PublicGists     int       `json:"public_gists"`
	Followers       int       `json:"followers"`
	Following       int       `json:"following"`
	CreatedAt       time.Time `json:"created_at"`
}

// RateLimitInfo is the quota snapshot GitHub reports in x-ratelimit-* headers.
// It only exists when all four headers were present; see ParseRateLimit.
type RateLimitInfo struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"` // epoch seconds
	Used      int   `json:"used"`
}

// ResetTime returns the reset instant as a time.Time.
func (r RateLimitInfo) ResetTime() time.Time {
	return time.Unix(r.Reset, 0)
}

// PercentRemaining returns the remaining quota as a rounded percentage.
func (r RateLimitInfo) PercentRemaining() int {
	if r.Limit <= 0 {
		return 0
	}
	return int(math.Round(float64(r.Remaining) / float64(r.Limit) * 100))
}

// UserResult is the outcome of a profile fetch. RateLimit may be set even
// when the fetch failed, since GitHub attaches quota headers to error
// responses too.
type UserResult struct {
	User      *UserProfile
	RateLimit *RateLimitInfo
}

// RepositoryPage is a single page of a user's repositories.
type RepositoryPage struct {
	Repositories []Repository

	// Page is the 1-based page that was requested.
	Page int

	// LastPage is the page number of the rel="last" Link relation, or 0 when
	// the response carried none (single page, or already on the last page).
	LastPage int
}
