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

	explerrors "github.com/sirseerhq/sirseer-explorer/internal/errors"
	"github.com/sirseerhq/sirseer-explorer/internal/github"
	"github.com/sirseerhq/sirseer-explorer/internal/metadata"
)

// dispatchProfileLocked starts a profile fetch for the current username.
func (d *Dashboard) dispatchProfileLocked() {
	d.userGen++
	d.userLoading = true
	gen, username := d.userGen, d.username

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		_ = d.fetchProfile(d.ctx, gen, username)
	}()
}

// dispatchReposLocked starts a repository fetch for the current username
// and page.
func (d *Dashboard) dispatchReposLocked() {
	d.repoGen++
	d.repoLoading = true
	gen, username, page := d.repoGen, d.username, d.currentPage

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		_ = d.fetchRepos(d.ctx, gen, username, page)
	}()
}

// fetchProfile runs one profile request and applies the result if gen is
// still current. The returned error is the request's, applied or not.
func (d *Dashboard) fetchProfile(ctx context.Context, gen uint64, username string) error {
	d.log.Debugw("fetching profile", "username", username)
	res, err := d.client.GetUser(ctx, username)
	if err == nil && (res == nil || res.User == nil) {
		err = &explerrors.ParseError{Err: errors.New("empty profile response")}
	}
	d.tracker.RecordCall(metadata.ProfileCall, err)

	d.mu.Lock()
	if gen != d.userGen {
		d.mu.Unlock()
		d.tracker.RecordDiscard()
		d.log.Debugw("discarding stale profile result", "username", username)
		return err
	}

	d.userLoading = false
	if res != nil && res.RateLimit != nil {
		d.rateLimit = res.RateLimit
		d.tracker.RecordRateLimit(res.RateLimit)
	}
	if err != nil {
		d.user = nil
		d.userErr = err
	} else {
		d.user = res.User
		d.userErr = nil
		d.profileRepos = res.User.PublicRepos
		d.updateTotalsLocked()
	}
	d.mu.Unlock()

	if err != nil {
		d.log.Warnw("profile fetch failed", "username", username, "error", err)
	} else {
		d.log.Debugw("profile loaded", "username", username, "public_repos", res.User.PublicRepos)
	}
	d.notify()
	return err
}

// fetchRepos runs one repository page request and applies the result if
// gen is still current.
func (d *Dashboard) fetchRepos(ctx context.Context, gen uint64, username string, page int) error {
	d.log.Debugw("fetching repositories", "username", username, "page", page)
	res, err := d.client.ListRepositories(ctx, username, page)
	if err == nil && res == nil {
		err = &explerrors.ParseError{Err: errors.New("empty repository response")}
	}
	d.tracker.RecordCall(metadata.RepositoryCall, err)

	d.mu.Lock()
	if gen != d.repoGen {
		d.mu.Unlock()
		d.tracker.RecordDiscard()
		d.log.Debugw("discarding stale repository page", "username", username, "page", page)
		return err
	}

	d.repoLoading = false
	var repos []github.Repository
	if err != nil {
		d.repos = []github.Repository{}
		d.repoErr = err
	} else {
		repos = publicOnly(res.Repositories)
		d.repos = repos
		d.repoErr = nil
		if res.LastPage > 0 {
			d.linkEstimate = res.LastPage * github.PerPage
		}
		d.updateTotalsLocked()
	}
	d.rederiveLocked()
	d.mu.Unlock()

	if err != nil {
		d.log.Warnw("repository fetch failed", "username", username, "page", page, "error", err)
	} else {
		d.tracker.RecordRepositories(repos)
		d.log.Debugw("repositories loaded", "username", username, "page", page, "count", len(repos))
	}
	d.notify()
	return err
}

// updateTotalsLocked picks the best repository count known for the current
// username and clamps the page when the page count shrinks below it.
func (d *Dashboard) updateTotalsLocked() {
	switch {
	case d.profileRepos >= 0:
		d.totalRepos = d.profileRepos
	case d.linkEstimate > 0:
		d.totalRepos = d.linkEstimate
	}

	if total := d.totalPagesLocked(); d.currentPage > total {
		d.log.Debugw("clamping page", "from", d.currentPage, "to", total)
		d.currentPage = total
		d.dispatchReposLocked()
	}
}

// publicOnly returns repos without private entries. The result is never nil.
func publicOnly(repos []github.Repository) []github.Repository {
	out := make([]github.Repository, 0, len(repos))
	for _, r := range repos {
		if !r.Private {
			out = append(out, r)
		}
	}
	return out
}
