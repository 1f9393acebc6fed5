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

// Package metadata types describe the summary printed at the end of a
// dashboard session.
package metadata

import (
	"time"
)

// SessionMetadata is the complete record for one dashboard session.
type SessionMetadata struct {
	ExplorerVersion string         `json:"explorer_version"`
	ClientVersion   string         `json:"client_version"`
	SessionID       string         `json:"session_id"`
	Parameters      SessionParams  `json:"parameters"`
	Results         SessionResults `json:"results"`
}

// SessionParams captures the inputs the session started with.
type SessionParams struct {
	Usernames    []string `json:"usernames"`
	APIEndpoint  string   `json:"api_endpoint"`
	SortKey      string   `json:"sort_key"`
	ShowArchived bool     `json:"show_archived"`
	PerPage      int      `json:"per_page"`
}

// SessionResults holds the counters accumulated during the session.
type SessionResults struct {
	ProfileCalls     int        `json:"profile_calls"`
	RepositoryCalls  int        `json:"repository_calls"`
	FailedCalls      int        `json:"failed_calls"`
	StaleDiscards    int        `json:"stale_discards"`
	RepositoriesSeen int        `json:"repositories_seen"`
	OldestCreated    time.Time  `json:"oldest_created_at"`
	NewestUpdated    time.Time  `json:"newest_updated_at"`
	RateLimit        *RateLimit `json:"rate_limit,omitempty"`
	Duration         string     `json:"session_duration"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      time.Time  `json:"completed_at"`
}

// RateLimit is the last rate-limit snapshot the session observed.
type RateLimit struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Used      int       `json:"used"`
	ResetsAt  time.Time `json:"resets_at"`
}
