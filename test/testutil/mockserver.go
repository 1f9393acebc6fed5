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

// Package testutil provides common test helpers for sirseer-explorer
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// PerPage mirrors the page size the explorer always requests.
const PerPage = 30

// RateLimitHeaders is the quota snapshot the mock attaches to responses.
type RateLimitHeaders struct {
	Limit     int
	Remaining int
	Reset     int64
	Used      int
}

// MockServer is an httptest server answering GitHub-shaped REST requests:
//
//	GET /users/{login}
//	GET /users/{login}/repos?per_page=N&page=N&sort=updated
//
// Repository lists are paginated and carry a Link header with rel="next" and
// rel="last" relations just like api.github.com.
type MockServer struct {
	*httptest.Server

	mu sync.Mutex

	users map[string]map[string]interface{}
	repos map[string][]map[string]interface{}

	// RateLimit, when set, is sent on every response.
	RateLimit *RateLimitHeaders

	// OmitLinkHeader drops the Link header from repository responses.
	OmitLinkHeader bool

	// status forces an HTTP status for a path prefix.
	status map[string]int

	// failFirst makes the first N requests return failStatus.
	failFirst  int32
	failStatus int

	requestCount int32
	requests     []*http.Request
}

// NewMockServer creates and starts a GitHub-like REST server. It is closed
// automatically when the test ends.
func NewMockServer(t *testing.T) *MockServer {
	t.Helper()

	m := &MockServer{
		users:  make(map[string]map[string]interface{}),
		repos:  make(map[string][]map[string]interface{}),
		status: make(map[string]int),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(m.Close)
	return m
}

// AddUser registers a user profile and n generated public repositories.
// public_repos on the profile equals n.
func (m *MockServer) AddUser(login string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[login] = UserJSON(login, n)
	m.repos[login] = GenerateRepositoryJSON(login, n)
}

// SetRepositories replaces the repository list of login.
func (m *MockServer) SetRepositories(login string, repos []map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.repos[login] = repos
}

// SetPublicRepos overrides public_repos on a registered profile.
func (m *MockServer) SetPublicRepos(login string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[login]; ok {
		u["public_repos"] = n
	}
}

// ForceStatus makes every request whose path starts with prefix answer with
// status. A status of 0 removes the override.
func (m *MockServer) ForceStatus(prefix string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if status == 0 {
		delete(m.status, prefix)
		return
	}
	m.status[prefix] = status
}

// FailFirst makes the first n requests answer with status.
func (m *MockServer) FailFirst(n int, status int) {
	atomic.StoreInt32(&m.failFirst, int32(n))
	m.failStatus = status
}

// RequestCount returns how many requests the server received.
func (m *MockServer) RequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// Requests returns the received requests in order.
func (m *MockServer) Requests() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*http.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

func (m *MockServer) handle(w http.ResponseWriter, r *http.Request) {
	count := atomic.AddInt32(&m.requestCount, 1)

	m.mu.Lock()
	m.requests = append(m.requests, r.Clone(r.Context()))
	m.mu.Unlock()

	m.writeRateLimit(w)

	if count <= atomic.LoadInt32(&m.failFirst) {
		writeError(w, m.failStatus)
		return
	}

	m.mu.Lock()
	for prefix, status := range m.status {
		if strings.HasPrefix(r.URL.Path, prefix) {
			m.mu.Unlock()
			writeError(w, status)
			return
		}
	}
	m.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 2 && parts[0] == "users":
		m.handleUser(w, parts[1])
	case len(parts) == 3 && parts[0] == "users" && parts[2] == "repos":
		m.handleRepos(w, r, parts[1])
	default:
		writeError(w, http.StatusNotFound)
	}
}

func (m *MockServer) handleUser(w http.ResponseWriter, login string) {
	m.mu.Lock()
	user, ok := m.users[login]
	m.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound)
		return
	}
	writeJSON(w, user)
}

func (m *MockServer) handleRepos(w http.ResponseWriter, r *http.Request, login string) {
	m.mu.Lock()
	all, ok := m.repos[login]
	omitLink := m.OmitLinkHeader
	m.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound)
		return
	}

	perPage := queryInt(r, "per_page", PerPage)
	page := queryInt(r, "page", 1)

	lastPage := (len(all) + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	if !omitLink && lastPage > 1 && page < lastPage {
		base := fmt.Sprintf("%s/users/%s/repos?per_page=%d&sort=updated", m.URL, login, perPage)
		w.Header().Set("Link", fmt.Sprintf(`<%s&page=%d>; rel="next", <%s&page=%d>; rel="last"`,
			base, page+1, base, lastPage))
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}
	writeJSON(w, all[start:end])
}

func (m *MockServer) writeRateLimit(w http.ResponseWriter) {
	if m.RateLimit == nil {
		return
	}
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(m.RateLimit.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(m.RateLimit.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(m.RateLimit.Reset, 10))
	h.Set("X-RateLimit-Used", strconv.Itoa(m.RateLimit.Used))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"message": %q, "documentation_url": "https://docs.github.com/rest"}`,
		http.StatusText(status))
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return def
	}
	return v
}

// UserJSON builds a /users/{login} response body.
func UserJSON(login string, publicRepos int) map[string]interface{} {
	return map[string]interface{}{
		"login":            login,
		"id":               len(login) * 1000,
		"avatar_url":       "https://avatars.githubusercontent.com/u/1",
		"html_url":         "https://github.com/" + login,
		"name":             strings.ToUpper(login[:1]) + login[1:],
		"company":          nil,
		"blog":             "",
		"location":         "Earth",
		"bio":              nil,
		"twitter_username": nil,
		"public_repos":     publicRepos,
		"public_gists":     1,
		"followers":        10,
		"following":        2,
		"created_at":       "2015-03-01T00:00:00Z",
	}
}

// GenerateRepositoryJSON builds n public repositories for login.
func GenerateRepositoryJSON(login string, n int) []map[string]interface{} {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	repos := make([]map[string]interface{}, 0, n)
	for i := 0; i < n; i++ {
		repos = append(repos, NewRepositoryBuilder(int64(i+1), fmt.Sprintf("%s-repo-%02d", login, i+1)).
			WithLanguage("Go").
			WithStars(i).
			WithCreatedAt(base.AddDate(0, 0, i)).
			Build())
	}
	return repos
}
