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

package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	explerrors "github.com/sirseerhq/sirseer-explorer/internal/errors"
	"github.com/sirseerhq/sirseer-explorer/internal/github"
	"github.com/sirseerhq/sirseer-explorer/internal/view"
)

func loadedDashboard(t *testing.T, repos int, opts Options) (*Dashboard, *github.MockClient) {
	t.Helper()
	mock := github.NewMockClient()
	mock.AddUser("octocat", repos)
	d := newTestDashboard(t, mock, opts)
	d.SetUsername("octocat")
	d.Wait()
	return d, mock
}

func TestSetCurrentPage_Bounds(t *testing.T) {
	d, mock := loadedDashboard(t, 65, Options{})
	before := len(mock.Calls())

	tests := []struct {
		name string
		page int
	}{
		{"zero", 0},
		{"past the end", 4},
		{"current page", 1},
		{"negative", -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d.SetCurrentPage(tt.page) {
				t.Errorf("SetCurrentPage(%d) accepted", tt.page)
			}
		})
	}

	if got := len(mock.Calls()); got != before {
		t.Errorf("rejected page changes issued %d calls", got-before)
	}
	if got := d.Snapshot().CurrentPage; got != 1 {
		t.Errorf("CurrentPage = %d, want 1", got)
	}
}

func TestSetCurrentPage_IgnoredWhileLoading(t *testing.T) {
	d, mock := loadedDashboard(t, 65, Options{})
	mock.Hold("ListRepositories", "octocat", 2)

	if !d.SetCurrentPage(2) {
		t.Fatal("SetCurrentPage(2) rejected")
	}
	if !d.Snapshot().Loading {
		t.Error("Loading should be true while page 2 is in flight")
	}
	if d.SetCurrentPage(3) {
		t.Error("page change accepted while loading")
	}
	if d.NextPage() {
		t.Error("NextPage accepted while loading")
	}

	mock.Release("ListRepositories", "octocat", 2)
	d.Wait()

	s := d.Snapshot()
	if s.CurrentPage != 2 || len(s.Repositories) != 30 {
		t.Errorf("page %d with %d repos, want page 2 with 30", s.CurrentPage, len(s.Repositories))
	}
}

func TestNextAndPrevPage(t *testing.T) {
	d, _ := loadedDashboard(t, 65, Options{})

	if d.PrevPage() {
		t.Error("PrevPage accepted on page 1")
	}
	for want := 2; want <= 3; want++ {
		if !d.NextPage() {
			t.Fatalf("NextPage to %d rejected", want)
		}
		d.Wait()
		if got := d.Snapshot().CurrentPage; got != want {
			t.Fatalf("CurrentPage = %d, want %d", got, want)
		}
	}
	if d.NextPage() {
		t.Error("NextPage accepted on the last page")
	}
	if got := len(d.Snapshot().Repositories); got != 5 {
		t.Errorf("last page has %d repos, want 5", got)
	}
	if !d.PrevPage() {
		t.Error("PrevPage rejected on page 3")
	}
	d.Wait()
}

func TestSetCurrentPage_NoUsername(t *testing.T) {
	d := newTestDashboard(t, github.NewMockClient(), Options{})
	if d.SetCurrentPage(2) {
		t.Error("page change accepted without a username")
	}
	if err := d.Refresh(context.Background()); !errors.Is(err, explerrors.ErrEmptyUsername) {
		t.Errorf("Refresh() without username = %v", err)
	}
}

func TestSearch_Debounced(t *testing.T) {
	d, _ := loadedDashboard(t, 20, Options{DebounceDelay: 10 * time.Millisecond})

	d.SetSearchTerm("repo-1")
	if got := d.Snapshot().SearchInput; got != "repo-1" {
		t.Errorf("SearchInput = %q", got)
	}

	s := waitFor(t, d, func(s Snapshot) bool { return s.Filter.SearchTerm == "repo-1" })
	if len(s.View.Repositories) != 10 {
		t.Errorf("search matched %d repositories, want 10", len(s.View.Repositories))
	}
	if len(s.Repositories) != 20 {
		t.Error("search must not change the fetched set")
	}
}

func TestSearch_Flush(t *testing.T) {
	d, _ := loadedDashboard(t, 20, Options{})

	d.SetSearchTerm("r")
	d.SetSearchTerm("re")
	d.SetSearchTerm("repo-2")
	if d.Snapshot().Filter.SearchTerm != "" {
		t.Fatal("search applied before the quiet period")
	}
	if !d.FlushSearch() {
		t.Fatal("FlushSearch reported nothing pending")
	}

	s := d.Snapshot()
	if s.Filter.SearchTerm != "repo-2" {
		t.Errorf("SearchTerm = %q, want repo-2", s.Filter.SearchTerm)
	}
	if len(s.View.Repositories) != 1 || s.View.Repositories[0].Name != "octocat-repo-20" {
		t.Errorf("view = %v", s.View.Repositories)
	}
}

func TestSearch_CancelledByUsernameChange(t *testing.T) {
	d, mock := loadedDashboard(t, 5, Options{DebounceDelay: 20 * time.Millisecond})
	mock.AddUser("torvalds", 5)

	d.SetSearchTerm("zzz")
	d.SetUsername("torvalds")
	time.Sleep(60 * time.Millisecond)
	d.Wait()

	s := d.Snapshot()
	if s.Filter.SearchTerm != "" || s.SearchInput != "" {
		t.Errorf("stale search applied: term %q input %q", s.Filter.SearchTerm, s.SearchInput)
	}
	if len(s.View.Repositories) != 5 {
		t.Errorf("view has %d repositories, want 5", len(s.View.Repositories))
	}
}

func TestUsernameChange_ResetsSearchAndLanguages(t *testing.T) {
	d, mock := loadedDashboard(t, 10, Options{})
	mock.AddUser("torvalds", 10)

	d.SetSortKey(view.SortStars)
	d.ToggleArchivedVisibility()
	d.ToggleLanguage("Go")
	d.SetSearchTerm("repo")
	d.FlushSearch()

	d.SetUsername("torvalds")
	s := d.Snapshot()
	if s.Filter.SearchTerm != "" || len(s.Filter.SelectedLanguages) != 0 {
		t.Errorf("filters not reset: %+v", s.Filter)
	}
	if s.Filter.SortKey != view.SortStars || s.Filter.ShowArchived {
		t.Errorf("sort and archived visibility should survive: %+v", s.Filter)
	}
	d.Wait()
}

func TestFilterIntents(t *testing.T) {
	d, _ := loadedDashboard(t, 30, Options{})

	d.ToggleLanguage("Go")
	s := d.Snapshot()
	if len(s.View.Repositories) == 0 {
		t.Fatal("no Go repositories")
	}
	for _, r := range s.View.Repositories {
		if r.Language != "Go" {
			t.Errorf("%s has language %q", r.Name, r.Language)
		}
	}

	d.ClearLanguageFilters()
	if got := len(d.Snapshot().View.Repositories); got != 30 {
		t.Errorf("after clear: %d repositories, want 30", got)
	}

	d.ToggleArchivedVisibility()
	s = d.Snapshot()
	if len(s.View.Repositories) != 24 {
		t.Errorf("hiding archived left %d repositories, want 24", len(s.View.Repositories))
	}
	for _, r := range s.View.Repositories {
		if r.Archived {
			t.Errorf("%s is archived", r.Name)
		}
	}

	d.SetSortKey(view.SortStars)
	s = d.Snapshot()
	for i := 1; i < len(s.View.Repositories); i++ {
		if s.View.Repositories[i-1].StargazersCount < s.View.Repositories[i].StargazersCount {
			t.Fatalf("not sorted by stars at %d", i)
		}
	}
	if s.View.Statistics.TotalRepos != len(s.View.Repositories) {
		t.Error("statistics not computed from the filtered set")
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	d, _ := loadedDashboard(t, 10, Options{})
	d.ToggleLanguage("Go")

	s := d.Snapshot()
	s.Filter.SelectedLanguages["Rust"] = struct{}{}

	if d.Snapshot().Filter.SelectedLanguages.Has("Rust") {
		t.Error("mutating a snapshot changed dashboard state")
	}
	if got := s.PageNumbers(); len(got) != 1 || got[0] != 1 {
		t.Errorf("PageNumbers() = %v", got)
	}
}

func TestInitialFilter(t *testing.T) {
	d := newTestDashboard(t, github.NewMockClient(), Options{
		Filter: &view.FilterState{SortKey: view.SortName, ShowArchived: false, SearchTerm: "ignored"},
	})
	s := d.Snapshot()
	if s.Filter.SortKey != view.SortName || s.Filter.ShowArchived || s.Filter.SearchTerm != "" {
		t.Errorf("Filter = %+v", s.Filter)
	}
}
