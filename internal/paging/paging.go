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

// Package paging computes page counts and the compact page-number list the
// dashboard renders under the repository table.
package paging

// Ellipsis marks a gap in the list returned by Numbers.
const Ellipsis = -1

// windowThreshold is the largest page count shown without gaps.
const windowThreshold = 5

// TotalPages is ceil(totalItems/perPage), never less than 1.
func TotalPages(totalItems, perPage int) int {
	if perPage <= 0 || totalItems <= 0 {
		return 1
	}
	pages := (totalItems + perPage - 1) / perPage
	if pages < 1 {
		return 1
	}
	return pages
}

// CanChangePage reports whether navigating from current to target is allowed.
func CanChangePage(target, current, total int, loading bool) bool {
	return !loading && target >= 1 && target <= total && target != current
}

// Clamp limits page to [1, total].
func Clamp(page, total int) int {
	if total < 1 {
		total = 1
	}
	switch {
	case page < 1:
		return 1
	case page > total:
		return total
	default:
		return page
	}
}

// Numbers returns the pages to display for current out of total. The first
// and last pages are always present and current is always present with its
// neighbours. Gaps are marked with Ellipsis.
func Numbers(current, total int) []int {
	if total < 1 {
		total = 1
	}
	current = Clamp(current, total)

	if total <= windowThreshold {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	start := max(2, current-1)
	end := min(total-1, current+1)
	if current <= 3 {
		end = 4
	}
	if current >= total-2 {
		start = total - 3
	}

	pages := []int{1}
	if start > 2 {
		pages = append(pages, Ellipsis)
	}
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	if end < total-1 {
		pages = append(pages, Ellipsis)
	}
	return append(pages, total)
}
