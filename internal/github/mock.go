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
	"sync"
	"time"

	explerrors "github.com/sirseerhq/sirseer-explorer/internal/errors"
)

// MockCall records one invocation of the mock.
type MockCall struct {
	Method   string // "GetUser" or "ListRepositories"
	Username string
	Page     int
}

// MockClient is an in-memory Client for tests. It is safe for concurrent use.
// Repositories are paginated PerPage at a time and LastPage is reported the
// way GitHub's Link header would report it.
type MockClient struct {
	mu sync.Mutex

	// Users maps login to profile.
	Users map[string]*UserProfile

	// Repos maps login to the user's full repository list.
	Repos map[string][]Repository

	// UserErrors and RepoErrors force a failure for a login.
	UserErrors map[string]error
	RepoErrors map[string]error

	// RateLimit is attached to every GetUser result, success or failure.
	RateLimit *RateLimitInfo

	// HideLastPage suppresses LastPage, as if the Link header were missing.
	HideLastPage bool

	// gates hold calls until released; keyed by gateKey.
	gates map[string]chan struct{}

	calls []MockCall
}

// NewMockClient creates an empty mock client.
func NewMockClient() *MockClient {
	return &MockClient{
		Users:      make(map[string]*UserProfile),
		Repos:      make(map[string][]Repository),
		UserErrors: make(map[string]error),
		RepoErrors: make(map[string]error),
		gates:      make(map[string]chan struct{}),
	}
}

// AddUser registers a user with the given number of generated repositories.
// PublicRepos on the profile matches the repository count.
func (m *MockClient) AddUser(login string, repoCount int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Users[login] = &UserProfile{
		Login:       login,
		ID:          int64(len(m.Users) + 1),
		Name:        login,
		PublicRepos: repoCount,
		CreatedAt:   time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	m.Repos[login] = GenerateRepositories(login, repoCount)
}

// Hold makes calls for (method, username, page) block until Release is called.
// Page is ignored for GetUser.
func (m *MockClient) Hold(method, username string, page int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gates[gateKey(method, username, page)] = make(chan struct{})
}

// Release unblocks calls held by Hold.
func (m *MockClient) Release(method, username string, page int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := gateKey(method, username, page)
	if ch, ok := m.gates[key]; ok {
		close(ch)
		delete(m.gates, key)
	}
}

// Calls returns a copy of the recorded calls in order.
func (m *MockClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// GetUser implements the Client interface
func (m *MockClient) GetUser(ctx context.Context, username string) (*UserResult, error) {
	if err := m.enter(ctx, MockCall{Method: "GetUser", Username: username}); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	result := &UserResult{}
	if m.RateLimit != nil {
		rl := *m.RateLimit
		result.RateLimit = &rl
	}

	if err := m.UserErrors[username]; err != nil {
		return result, err
	}
	user, ok := m.Users[username]
	if !ok {
		return result, explerrors.NewRemoteError(404, "Not Found", false)
	}

	u := *user
	result.User = &u
	return result, nil
}

// ListRepositories implements the Client interface
func (m *MockClient) ListRepositories(ctx context.Context, username string, page int) (*RepositoryPage, error) {
	if err := m.enter(ctx, MockCall{Method: "ListRepositories", Username: username, Page: page}); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.RepoErrors[username]; err != nil {
		return nil, err
	}
	all, ok := m.Repos[username]
	if !ok {
		return nil, explerrors.NewRemoteError(404, "Not Found", false)
	}

	result := &RepositoryPage{Page: page, Repositories: []Repository{}}

	lastPage := (len(all) + PerPage - 1) / PerPage
	if lastPage > 1 && page < lastPage && !m.HideLastPage {
		result.LastPage = lastPage
	}

	start := (page - 1) * PerPage
	if start < 0 || start >= len(all) {
		return result, nil
	}
	end := start + PerPage
	if end > len(all) {
		end = len(all)
	}
	for _, r := range all[start:end] {
		if r.Private {
			continue
		}
		result.Repositories = append(result.Repositories, r)
	}
	return result, nil
}

// enter records the call and waits on its gate, if any.
func (m *MockClient) enter(ctx context.Context, call MockCall) error {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	gate := m.gates[gateKey(call.Method, call.Username, call.Page)]
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return ctx.Err()
}

func gateKey(method, username string, page int) string {
	if method == "GetUser" {
		page = 0
	}
	return fmt.Sprintf("%s/%s/%d", method, username, page)
}

// GenerateRepositories creates n deterministic repositories for login. Every
// fifth repository is archived, languages rotate through a small set and
// every seventh has no language.
func GenerateRepositories(login string, n int) []Repository {
	languages := []string{"Go", "TypeScript", "Python", "Rust", "Shell"}
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	repos := make([]Repository, 0, n)
	for i := 0; i < n; i++ {
		lang := languages[i%len(languages)]
		if i%7 == 6 {
			lang = ""
		}
		repos = append(repos, Repository{
			ID:              int64(i + 1),
			Name:            fmt.Sprintf("%s-repo-%02d", login, i+1),
			Description:     fmt.Sprintf("Repository number %d", i+1),
			Topics:          []string{fmt.Sprintf("topic-%d", i%3)},
			Language:        lang,
			Archived:        i%5 == 4,
			StargazersCount: (i * 7) % 50,
			ForksCount:      (i * 3) % 11,
			WatchersCount:   i,
			Size:            100 * (i + 1),
			CreatedAt:       base.AddDate(0, 0, i),
			UpdatedAt:       base.AddDate(1, 0, -i),
			HTMLURL:         fmt.Sprintf("https://github.com/%s/%s-repo-%02d", login, login, i+1),
		})
	}
	return repos
}
