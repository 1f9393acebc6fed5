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

// Package metadata records what a dashboard session did: how many API
// calls it made, how many repositories it saw, the date range they covered
// and the last rate-limit snapshot. The summary is written as indented JSON
// when the session ends so it can be inspected or piped to other tools.
//
// Session records are never written to disk; the only state that outlives a
// session is the last username kept by package state.
package metadata

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sirseerhq/sirseer-explorer/internal/github"
)

// ClientVersion identifies the remote API flavour the session talked to.
const ClientVersion = "rest-v3-unauthenticated"

// Call identifies the endpoint an API call was made against.
type Call int

const (
	ProfileCall Call = iota
	RepositoryCall
)

// Tracker collects statistics during a session. All methods are safe for
// concurrent use and a nil *Tracker ignores every call.
type Tracker struct {
	mu        sync.Mutex
	sessionID string
	startTime time.Time
	usernames []string
	results   SessionResults
	rateLimit *github.RateLimitInfo
}

// New creates a tracker with a fresh session id.
func New() *Tracker {
	return &Tracker{
		sessionID: uuid.NewString(),
		startTime: time.Now(),
	}
}

// SessionID returns the random id tagging this session's log lines.
func (t *Tracker) SessionID() string {
	if t == nil {
		return ""
	}
	return t.sessionID
}

// RecordUsername notes that the session switched to username.
func (t *Tracker) RecordUsername(username string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.usernames = append(t.usernames, username)
}

// RecordCall counts an API call and whether it failed.
func (t *Tracker) RecordCall(kind Call, err error) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	switch kind {
	case ProfileCall:
		t.results.ProfileCalls++
	case RepositoryCall:
		t.results.RepositoryCalls++
	}
	if err != nil {
		t.results.FailedCalls++
	}
}

// RecordDiscard counts a result dropped because a newer request replaced it.
func (t *Tracker) RecordDiscard() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.results.StaleDiscards++
}

// RecordRepositories updates the running totals with one fetched page.
func (t *Tracker) RecordRepositories(repos []github.Repository) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range repos {
		t.results.RepositoriesSeen++
		if !r.CreatedAt.IsZero() && (t.results.OldestCreated.IsZero() || r.CreatedAt.Before(t.results.OldestCreated)) {
			t.results.OldestCreated = r.CreatedAt
		}
		if r.UpdatedAt.After(t.results.NewestUpdated) {
			t.results.NewestUpdated = r.UpdatedAt
		}
	}
}

// RecordRateLimit keeps the latest snapshot. Nil snapshots are ignored.
func (t *Tracker) RecordRateLimit(rl *github.RateLimitInfo) {
	if t == nil || rl == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	c := *rl
	t.rateLimit = &c
}

// Results returns a copy of the counters collected so far.
func (t *Tracker) Results() SessionResults {
	if t == nil {
		return SessionResults{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.results
}

// GenerateMetadata snapshots the session into a SessionMetadata record.
// params.Usernames is filled from RecordUsername when left empty.
func (t *Tracker) GenerateMetadata(explorerVersion string, params SessionParams) *SessionMetadata {
	t.mu.Lock()
	defer t.mu.Unlock()

	completedAt := time.Now()
	results := t.results
	results.StartedAt = t.startTime
	results.CompletedAt = completedAt
	results.Duration = completedAt.Sub(t.startTime).Round(time.Millisecond).String()
	if t.rateLimit != nil {
		results.RateLimit = &RateLimit{
			Limit:     t.rateLimit.Limit,
			Remaining: t.rateLimit.Remaining,
			Used:      t.rateLimit.Used,
			ResetsAt:  t.rateLimit.ResetTime().UTC(),
		}
	}
	if len(params.Usernames) == 0 {
		params.Usernames = append([]string{}, t.usernames...)
	}

	return &SessionMetadata{
		ExplorerVersion: explorerVersion,
		ClientVersion:   ClientVersion,
		SessionID:       t.sessionID,
		Parameters:      params,
		Results:         results,
	}
}

// WriteMetadataToWriter serializes metadata as indented JSON to w.
func WriteMetadataToWriter(metadata *SessionMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}
