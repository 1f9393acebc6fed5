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
	"fmt"
	"sort"
	"strings"
)

// SortKey selects the ordering of the derived repository list.
type SortKey string

// Supported sort keys. SortCreated is the default.
const (
	SortCreated SortKey = "created"
	SortStars   SortKey = "stars"
	SortForks   SortKey = "forks"
	SortUpdated SortKey = "updated"
	SortName    SortKey = "name"
)

// SortKeys lists every valid key in display order.
var SortKeys = []SortKey{SortCreated, SortStars, SortForks, SortUpdated, SortName}

// ParseSortKey validates s. The empty string yields SortCreated.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortCreated, nil
	}
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range SortKeys {
		if k == key {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q (valid: created, stars, forks, updated, name)", s)
}

// LanguageSet is a set of language names. The zero value is an empty set,
// which places no restriction on languages.
type LanguageSet map[string]struct{}

// NewLanguageSet builds a set from names, skipping empty strings.
func NewLanguageSet(names ...string) LanguageSet {
	set := make(LanguageSet, len(names))
	for _, n := range names {
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// Has reports whether lang is in the set.
func (s LanguageSet) Has(lang string) bool {
	_, ok := s[lang]
	return ok
}

// Toggle returns a copy of the set with lang added or removed.
func (s LanguageSet) Toggle(lang string) LanguageSet {
	out := s.Clone()
	if out.Has(lang) {
		delete(out, lang)
	} else {
		out[lang] = struct{}{}
	}
	return out
}

// Clone returns an independent copy.
func (s LanguageSet) Clone() LanguageSet {
	out := make(LanguageSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Sorted returns the members in lexical order.
func (s LanguageSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FilterState is the user-controlled input to Derive.
type FilterState struct {
	SearchTerm        string
	SelectedLanguages LanguageSet
	SortKey           SortKey
	ShowArchived      bool
}

// DefaultFilterState shows everything, newest first.
func DefaultFilterState() FilterState {
	return FilterState{
		SelectedLanguages: LanguageSet{},
		SortKey:           SortCreated,
		ShowArchived:      true,
	}
}

// Clone returns a copy that shares nothing mutable with f.
func (f FilterState) Clone() FilterState {
	f.SelectedLanguages = f.SelectedLanguages.Clone()
	return f
}
