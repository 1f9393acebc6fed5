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
	"strings"

	"golang.org/x/sync/errgroup"

	explerrors "github.com/sirseerhq/sirseer-explorer/internal/errors"
	"github.com/sirseerhq/sirseer-explorer/internal/paging"
	"github.com/sirseerhq/sirseer-explorer/internal/view"
)

// SetUsername switches the dashboard to username. It reports false when the
// name is empty, unchanged, or the dashboard is closed.
//
// On a switch the page returns to 1, the search term and language selection
// are cleared, previous results and the rate-limit snapshot are dropped, and
// both fetches are dispatched. The name is persisted as the last username.
func (d *Dashboard) SetUsername(username string) bool {
	username = strings.TrimSpace(username)
	if username == "" {
		return false
	}

	d.mu.Lock()
	if d.closed || username == d.username {
		d.mu.Unlock()
		return false
	}

	d.username = username
	d.currentPage = 1
	d.totalRepos = 0
	d.profileRepos = -1
	d.linkEstimate = 0

	d.user = nil
	d.userErr = nil
	d.rateLimit = nil
	d.repos = nil
	d.repoErr = nil

	d.searchInput = ""
	d.searchEpoch++
	d.filter.SearchTerm = ""
	d.filter.SelectedLanguages = view.LanguageSet{}
	d.rederiveLocked()

	d.dispatchProfileLocked()
	d.dispatchReposLocked()
	d.mu.Unlock()

	d.search.Cancel()
	d.tracker.RecordUsername(username)
	d.log.Infow("username changed", "username", username)
	d.persist(username)
	d.notify()
	return true
}

// Refresh re-fetches the profile and current page and waits for both. It
// returns the first error either request produced.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	if d.username == "" {
		d.mu.Unlock()
		return explerrors.ErrEmptyUsername
	}
	d.userGen++
	d.userLoading = true
	d.repoGen++
	d.repoLoading = true
	userGen, repoGen := d.userGen, d.repoGen
	username, page := d.username, d.currentPage
	d.wg.Add(2)
	d.mu.Unlock()
	d.notify()

	// A failed fetch does not cancel its sibling.
	var g errgroup.Group
	g.Go(func() error {
		defer d.wg.Done()
		return d.fetchProfile(ctx, userGen, username)
	})
	g.Go(func() error {
		defer d.wg.Done()
		return d.fetchRepos(ctx, repoGen, username, page)
	})
	return g.Wait()
}

// SetSearchTerm records raw search input. The filter applies it once input
// has been quiet for the debounce delay.
func (d *Dashboard) SetSearchTerm(term string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.searchInput = term
	epoch := d.searchEpoch
	d.mu.Unlock()

	d.search.Trigger(searchUpdate{term: term, epoch: epoch})
	d.notify()
}

// FlushSearch applies pending search input immediately.
func (d *Dashboard) FlushSearch() bool {
	return d.search.Flush()
}

func (d *Dashboard) applySearch(u searchUpdate) {
	d.mu.Lock()
	if d.closed || u.epoch != d.searchEpoch || u.term == d.filter.SearchTerm {
		d.mu.Unlock()
		return
	}
	d.filter.SearchTerm = u.term
	d.rederiveLocked()
	d.mu.Unlock()

	d.log.Debugw("search applied", "term", u.term)
	d.notify()
}

// SetSortKey changes the ordering of the derived list.
func (d *Dashboard) SetSortKey(key view.SortKey) {
	d.updateFilter(func(f *view.FilterState) bool {
		if f.SortKey == key {
			return false
		}
		f.SortKey = key
		return true
	})
}

// ToggleLanguage adds or removes lang from the language filter.
func (d *Dashboard) ToggleLanguage(lang string) {
	d.updateFilter(func(f *view.FilterState) bool {
		f.SelectedLanguages = f.SelectedLanguages.Toggle(lang)
		return true
	})
}

// ClearLanguageFilters removes every language restriction.
func (d *Dashboard) ClearLanguageFilters() {
	d.updateFilter(func(f *view.FilterState) bool {
		if len(f.SelectedLanguages) == 0 {
			return false
		}
		f.SelectedLanguages = view.LanguageSet{}
		return true
	})
}

// ToggleArchivedVisibility shows or hides archived repositories.
func (d *Dashboard) ToggleArchivedVisibility() {
	d.updateFilter(func(f *view.FilterState) bool {
		f.ShowArchived = !f.ShowArchived
		return true
	})
}

// updateFilter applies fn under the lock and re-derives if it reports a
// change.
func (d *Dashboard) updateFilter(fn func(*view.FilterState) bool) {
	d.mu.Lock()
	if d.closed || !fn(&d.filter) {
		d.mu.Unlock()
		return
	}
	d.rederiveLocked()
	d.mu.Unlock()
	d.notify()
}

// SetCurrentPage navigates to page. Out-of-range pages, the current page
// and any request made while a fetch is in flight are ignored.
func (d *Dashboard) SetCurrentPage(page int) bool {
	d.mu.Lock()
	if d.closed || d.username == "" ||
		!paging.CanChangePage(page, d.currentPage, d.totalPagesLocked(), d.loadingLocked()) {
		d.mu.Unlock()
		return false
	}
	d.currentPage = page
	d.dispatchReposLocked()
	d.mu.Unlock()

	d.log.Debugw("page changed", "page", page)
	d.notify()
	return true
}

// NextPage moves one page forward under the SetCurrentPage rules.
func (d *Dashboard) NextPage() bool {
	return d.SetCurrentPage(d.page() + 1)
}

// PrevPage moves one page back under the SetCurrentPage rules.
func (d *Dashboard) PrevPage() bool {
	return d.SetCurrentPage(d.page() - 1)
}

func (d *Dashboard) page() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.currentPage
}
