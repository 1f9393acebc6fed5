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
package integration

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sirseerhq/sirseer-explorer/internal/dashboard"
	explerrors "github.com/sirseerhq/sirseer-explorer/internal/errors"
	"github.com/sirseerhq/sirseer-explorer/internal/github"
	"github.com/sirseerhq/sirseer-explorer/internal/logging"
	"github.com/sirseerhq/sirseer-explorer/internal/state"
	"github.com/sirseerhq/sirseer-explorer/internal/view"
	"github.com/sirseerhq/sirseer-explorer/test/testutil"
)

// newRESTDashboard wires the production client stack against server.
func newRESTDashboard(t *testing.T, server *testutil.MockServer, store state.Store) *dashboard.Dashboard {
	t.Helper()

	rest, err := github.NewRESTClient(github.RESTOptions{
		Endpoint:    server.URL,
		Timeout:     5 * time.Second,
		MaxAttempts: 3,
		Backoff:     time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewRESTClient() error = %v", err)
	}
	client := github.NewRetryClient(rest, &github.RetryConfig{
		MaxRetries:        1,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2,
	}, logging.Nop())

	if store == nil {
		store = state.NewMemoryStore()
	}
	d, err := dashboard.New(dashboard.Options{
		Client:        client,
		Store:         store,
		Logger:        logging.Nop(),
		DebounceDelay: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("dashboard.New() error = %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestDashboardREST_PagesThroughUser(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.AddUser("octocat", 65)
	server.RateLimit = &testutil.RateLimitHeaders{Limit: 60, Remaining: 42, Reset: 1700000000, Used: 18}

	d := newRESTDashboard(t, server, nil)
	d.SetUsername("octocat")
	d.Wait()

	snap := d.Snapshot()
	if snap.Err() != nil {
		t.Fatalf("unexpected error: %v", snap.Err())
	}
	if snap.TotalRepos != 65 || snap.TotalPages != 3 {
		t.Errorf("totals = %d repos / %d pages, want 65 / 3", snap.TotalRepos, snap.TotalPages)
	}
	if len(snap.Repositories) != github.PerPage {
		t.Errorf("page 1 has %d repositories, want %d", len(snap.Repositories), github.PerPage)
	}
	if snap.RateLimit == nil || snap.RateLimit.Remaining != 42 || snap.RateLimit.Limit != 60 {
		t.Errorf("rate limit = %+v, want 42/60", snap.RateLimit)
	}
	if snap.User == nil || snap.User.Login != "octocat" || snap.User.PublicRepos != 65 {
		t.Errorf("user = %+v", snap.User)
	}

	for _, r := range server.Requests() {
		if r.URL.Path != "/users/octocat/repos" {
			continue
		}
		q := r.URL.Query()
		if q.Get("per_page") != "30" || q.Get("sort") != "updated" {
			t.Errorf("repository request query = %s, want per_page=30&sort=updated", r.URL.RawQuery)
		}
	}

	if !d.SetCurrentPage(3) {
		t.Fatal("SetCurrentPage(3) rejected")
	}
	d.Wait()
	if got := len(d.Snapshot().Repositories); got != 5 {
		t.Errorf("page 3 has %d repositories, want 5", got)
	}
	if d.SetCurrentPage(4) {
		t.Error("SetCurrentPage(4) accepted beyond the last page")
	}
}

func TestDashboardREST_LinkHeaderEstimate(t *testing.T) {
	server := testutil.NewMockServer(t)
	// Repositories exist but the profile does not, so only the Link
	// header can supply a count.
	server.SetRepositories("orgless", testutil.GenerateRepositoryJSON("orgless", 65))

	d := newRESTDashboard(t, server, nil)
	d.SetUsername("orgless")
	d.Wait()

	snap := d.Snapshot()
	if !errors.Is(snap.UserError, explerrors.ErrUserNotFound) {
		t.Errorf("UserError = %v, want not found", snap.UserError)
	}
	if snap.RepositoryError != nil {
		t.Fatalf("RepositoryError = %v", snap.RepositoryError)
	}
	if snap.TotalRepos != 90 || snap.TotalPages != 3 {
		t.Errorf("totals = %d / %d, want 90 / 3 from rel=last", snap.TotalRepos, snap.TotalPages)
	}
}

func TestDashboardREST_NoLinkHeaderFallsBack(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.OmitLinkHeader = true
	server.SetRepositories("orgless", testutil.GenerateRepositoryJSON("orgless", 65))

	d := newRESTDashboard(t, server, nil)
	d.SetUsername("orgless")
	d.Wait()

	snap := d.Snapshot()
	if snap.TotalRepos != 0 || snap.TotalPages != 1 {
		t.Errorf("totals = %d / %d, want 0 / 1 without any count source", snap.TotalRepos, snap.TotalPages)
	}
	if d.NextPage() {
		t.Error("NextPage() accepted with a single known page")
	}
}

func TestDashboardREST_PrivateRepositoriesNeverSurface(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.AddUser("octocat", 3)
	server.SetRepositories("octocat", []map[string]interface{}{
		testutil.NewRepositoryBuilder(1, "public-one").WithLanguage("Go").Build(),
		testutil.NewRepositoryBuilder(2, "secret").WithLanguage("Go").Private().Build(),
		testutil.NewRepositoryBuilder(3, "public-two").WithLanguage("Rust").Archived().Build(),
	})

	d := newRESTDashboard(t, server, nil)
	d.SetUsername("octocat")
	d.Wait()

	snap := d.Snapshot()
	if len(snap.Repositories) != 2 {
		t.Fatalf("got %d repositories, want 2 public", len(snap.Repositories))
	}
	for _, r := range snap.Repositories {
		if r.Private || r.Name == "secret" {
			t.Errorf("private repository %q surfaced", r.Name)
		}
	}

	d.ToggleArchivedVisibility()
	snap = d.Snapshot()
	if len(snap.View.Repositories) != 1 || snap.View.Repositories[0].Name != "public-one" {
		t.Errorf("view = %v, want only public-one", snap.View.Repositories)
	}
	if snap.View.Statistics.TotalRepos != 1 {
		t.Errorf("statistics total = %d, want 1", snap.View.Statistics.TotalRepos)
	}
}

func TestDashboardREST_SearchAndStatistics(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.AddUser("octocat", 4)
	server.SetRepositories("octocat", []map[string]interface{}{
		testutil.NewRepositoryBuilder(1, "cli").WithLanguage("Go").WithSize(1500).WithDescription("A command line tool").Build(),
		testutil.NewRepositoryBuilder(2, "site").WithLanguage("TypeScript").WithSize(500).Build(),
		testutil.NewRepositoryBuilder(3, "notes").WithTopics("cli", "docs").WithSize(10).Build(),
		testutil.NewRepositoryBuilder(4, "infra").WithLanguage("Go").WithStars(9).Build(),
	})

	d := newRESTDashboard(t, server, nil)
	d.SetUsername("octocat")
	d.Wait()

	stats := d.Snapshot().View.Statistics
	most, ok := stats.MostUsed()
	if !ok || most.Language != "Go" || most.Count != 2 {
		t.Errorf("most used = %+v, want Go x2", most)
	}
	if stats.DistinctLanguages != 3 {
		t.Errorf("distinct languages = %d, want 3 (Go, TypeScript, Unknown)", stats.DistinctLanguages)
	}

	d.SetSearchTerm("CLI")
	if !d.FlushSearch() {
		t.Fatal("FlushSearch() found nothing pending")
	}
	snap := d.Snapshot()
	names := make([]string, 0, len(snap.View.Repositories))
	for _, r := range snap.View.Repositories {
		names = append(names, r.Name)
	}
	if len(names) != 2 {
		t.Fatalf("search matched %v, want cli and notes", names)
	}

	d.SetSortKey(view.SortName)
	snap = d.Snapshot()
	if snap.View.Repositories[0].Name != "cli" || snap.View.Repositories[1].Name != "notes" {
		t.Errorf("sorted view = %s, %s", snap.View.Repositories[0].Name, snap.View.Repositories[1].Name)
	}
}

func TestDashboardREST_TransientFailureRetried(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.AddUser("octocat", 2)
	server.FailFirst(1, http.StatusBadGateway)

	d := newRESTDashboard(t, server, nil)
	d.SetUsername("octocat")
	d.Wait()

	if err := d.Snapshot().Err(); err != nil {
		t.Fatalf("transient 502 was not retried: %v", err)
	}
	if server.RequestCount() < 3 {
		t.Errorf("RequestCount = %d, want at least 3 (one retry)", server.RequestCount())
	}
}

func TestDashboardREST_RefreshAfterServerError(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.AddUser("octocat", 2)
	server.ForceStatus("/users/octocat", http.StatusInternalServerError)

	d := newRESTDashboard(t, server, nil)
	d.SetUsername("octocat")
	d.Wait()

	snap := d.Snapshot()
	var remote *explerrors.RemoteError
	if !errors.As(snap.RepositoryError, &remote) || remote.Status != http.StatusInternalServerError {
		t.Fatalf("RepositoryError = %v, want 500 RemoteError", snap.RepositoryError)
	}
	if snap.Repositories == nil || len(snap.Repositories) != 0 {
		t.Errorf("Repositories = %v, want empty non-nil after failure", snap.Repositories)
	}

	server.ForceStatus("/users/octocat", 0)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := len(d.Snapshot().Repositories); got != 2 {
		t.Errorf("after refresh got %d repositories, want 2", got)
	}
}

func TestDashboardREST_PersistsToFileStore(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.AddUser("octocat", 1)

	dir := t.TempDir()
	store, err := state.Open(state.DriverFile, dir)
	testutil.AssertNoError(t, err)

	d := newRESTDashboard(t, server, store)
	d.SetUsername("octocat")
	d.Wait()
	testutil.AssertNoError(t, d.Close())

	reopened, err := state.Open(state.DriverFile, dir)
	testutil.AssertNoError(t, err)
	d2 := newRESTDashboard(t, server, reopened)
	testutil.AssertEqual(t, d2.RestoredUsername(), "octocat")
}
