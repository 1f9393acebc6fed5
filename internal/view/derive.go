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

package view

import (
	"bytes"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sirseerhq/sirseer-explorer/internal/github"
)

// DerivedView is the filtered, sorted repository list plus its statistics.
type DerivedView struct {
	Repositories []github.Repository
	Statistics   Statistics
}

// Derive runs the filter pipeline over repos. A nil slice is treated as
// empty. The input slice is never modified and the result is never nil.
func Derive(repos []github.Repository, f FilterState) DerivedView {
	out := Filter(repos, f)
	Sort(out, f.SortKey)
	return DerivedView{
		Repositories: out,
		Statistics:   ComputeStatistics(out),
	}
}

// Filter applies the archived, search and language filters in that order
// and returns a new slice that preserves input order.
func Filter(repos []github.Repository, f FilterState) []github.Repository {
	term := strings.ToLower(f.SearchTerm)
	out := make([]github.Repository, 0, len(repos))
	for _, r := range repos {
		if !f.ShowArchived && r.Archived {
			continue
		}
		if term != "" && !matchesSearch(r, term) {
			continue
		}
		if len(f.SelectedLanguages) > 0 && (r.Language == "" || !f.SelectedLanguages.Has(r.Language)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// matchesSearch expects term to be lowercased already.
func matchesSearch(r github.Repository, term string) bool {
	if strings.Contains(strings.ToLower(r.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), term) {
		return true
	}
	for _, topic := range r.Topics {
		if strings.Contains(strings.ToLower(topic), term) {
			return true
		}
	}
	return false
}

// Sort orders repos in place. The sort is stable, so equal keys keep their
// relative input order. Unknown keys fall back to SortCreated.
func Sort(repos []github.Repository, key SortKey) {
	switch key {
	case SortStars:
		slices.SortStableFunc(repos, func(a, b github.Repository) int {
			return b.StargazersCount - a.StargazersCount
		})
	case SortForks:
		slices.SortStableFunc(repos, func(a, b github.Repository) int {
			return b.ForksCount - a.ForksCount
		})
	case SortUpdated:
		slices.SortStableFunc(repos, func(a, b github.Repository) int {
			return b.UpdatedAt.Compare(a.UpdatedAt)
		})
	case SortName:
		sortByName(repos)
	default:
		slices.SortStableFunc(repos, func(a, b github.Repository) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
}

// sortByName uses a case-insensitive, locale-aware collator and breaks
// collation ties on the raw bytes so the order is total.
func sortByName(repos []github.Repository) {
	// Collators carry internal buffers and are not safe for concurrent use.
	c := collate.New(language.English, collate.IgnoreCase)
	slices.SortStableFunc(repos, func(a, b github.Repository) int {
		if n := c.CompareString(a.Name, b.Name); n != 0 {
			return n
		}
		return bytes.Compare([]byte(a.Name), []byte(b.Name))
	})
}
