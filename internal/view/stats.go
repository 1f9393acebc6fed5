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
	"math"
	"slices"

	"github.com/sirseerhq/sirseer-explorer/internal/github"
)

const (
	// UnknownLanguage buckets repositories without a detected language.
	UnknownLanguage = "Unknown"
	// OtherLanguage is the aggregate bucket for the long tail.
	OtherLanguage = "Other"

	// maxChartLanguages is the most buckets shown before collapsing.
	maxChartLanguages = 7
)

// LanguageStat aggregates the repositories sharing one language.
type LanguageStat struct {
	Language   string
	Count      int
	Size       int // KB
	Percentage float64
	Color      string
}

// Statistics summarises a derived repository list.
type Statistics struct {
	// Languages holds every bucket, ordered by count descending. Ties keep
	// first-appearance order.
	Languages []LanguageStat
	// Chart is Languages with ranks 7 and beyond folded into one Other
	// bucket when there are more than seven.
	Chart []LanguageStat

	TotalRepos        int
	TotalSize         int // KB
	DistinctLanguages int
}

// MostUsed returns the largest bucket, or false when there are no repos.
func (s Statistics) MostUsed() (LanguageStat, bool) {
	if len(s.Languages) == 0 {
		return LanguageStat{}, false
	}
	return s.Languages[0], true
}

// ComputeStatistics groups repos by language.
func ComputeStatistics(repos []github.Repository) Statistics {
	stats := Statistics{
		Languages: []LanguageStat{},
		Chart:     []LanguageStat{},
	}
	index := make(map[string]int)
	for _, r := range repos {
		lang := r.Language
		if lang == "" {
			lang = UnknownLanguage
		}
		i, ok := index[lang]
		if !ok {
			i = len(stats.Languages)
			index[lang] = i
			stats.Languages = append(stats.Languages, LanguageStat{
				Language: lang,
				Color:    LanguageColor(lang),
			})
		}
		stats.Languages[i].Count++
		stats.Languages[i].Size += r.Size
		stats.TotalSize += r.Size
	}

	stats.TotalRepos = len(repos)
	stats.DistinctLanguages = len(stats.Languages)
	if stats.TotalRepos == 0 {
		return stats
	}

	for i := range stats.Languages {
		stats.Languages[i].Percentage = float64(stats.Languages[i].Count) / float64(stats.TotalRepos) * 100
	}
	slices.SortStableFunc(stats.Languages, func(a, b LanguageStat) int {
		return b.Count - a.Count
	})

	if len(stats.Languages) <= maxChartLanguages {
		stats.Chart = slices.Clone(stats.Languages)
		return stats
	}

	stats.Chart = slices.Clone(stats.Languages[:maxChartLanguages-1])
	other := LanguageStat{Language: OtherLanguage, Color: LanguageColor(OtherLanguage)}
	for _, l := range stats.Languages[maxChartLanguages-1:] {
		other.Count += l.Count
		other.Size += l.Size
		other.Percentage += l.Percentage
	}
	stats.Chart = append(stats.Chart, other)
	return stats
}

// Legend returns up to seven buckets for display and how many were left out.
func (s Statistics) Legend() ([]LanguageStat, int) {
	if len(s.Languages) <= maxChartLanguages {
		return s.Languages, 0
	}
	return s.Languages[:maxChartLanguages], len(s.Languages) - maxChartLanguages
}

// RoundedPercentage is p rounded to the nearest whole percent.
func RoundedPercentage(p float64) int {
	return int(math.Round(p))
}
