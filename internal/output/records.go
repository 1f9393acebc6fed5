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

package output

import (
	"time"

	"github.com/sirseerhq/sirseer-explorer/internal/github"
	"github.com/sirseerhq/sirseer-explorer/internal/view"
)

// Record types used in the "type" field.
const (
	TypeRepository = "repository"
	TypeStatistics = "statistics"
)

// RepositoryRecord is the NDJSON shape of one repository.
type RepositoryRecord struct {
	Type          string    `json:"type"`
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Topics        []string  `json:"topics,omitempty"`
	Language      string    `json:"language,omitempty"`
	LanguageColor string    `json:"language_color"`
	Archived      bool      `json:"archived"`
	Fork          bool      `json:"fork"`
	Stars         int       `json:"stargazers_count"`
	Forks         int       `json:"forks_count"`
	Watchers      int       `json:"watchers_count"`
	SizeKB        int       `json:"size"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	HTMLURL       string    `json:"html_url"`
	Homepage      string    `json:"homepage,omitempty"`
}

// NewRepositoryRecord converts r.
func NewRepositoryRecord(r github.Repository) RepositoryRecord {
	return RepositoryRecord{
		Type:          TypeRepository,
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Topics:        r.Topics,
		Language:      r.Language,
		LanguageColor: view.LanguageColor(r.Language),
		Archived:      r.Archived,
		Fork:          r.Fork,
		Stars:         r.StargazersCount,
		Forks:         r.ForksCount,
		Watchers:      r.WatchersCount,
		SizeKB:        r.Size,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		HTMLURL:       r.HTMLURL,
		Homepage:      r.Homepage,
	}
}

// LanguageRecord is one bucket of a StatisticsRecord.
type LanguageRecord struct {
	Language   string  `json:"language"`
	Count      int     `json:"count"`
	SizeKB     int     `json:"size"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// StatisticsRecord is the NDJSON shape of the language aggregate.
type StatisticsRecord struct {
	Type              string           `json:"type"`
	TotalRepos        int              `json:"total_repos"`
	TotalSizeKB       int              `json:"total_size"`
	TotalSize         string           `json:"total_size_human"`
	DistinctLanguages int              `json:"distinct_languages"`
	MostUsed          string           `json:"most_used,omitempty"`
	Languages         []LanguageRecord `json:"languages"`
}

// NewStatisticsRecord converts s, using the chart buckets so the Other
// aggregate appears as it does on screen.
func NewStatisticsRecord(s view.Statistics) StatisticsRecord {
	rec := StatisticsRecord{
		Type:              TypeStatistics,
		TotalRepos:        s.TotalRepos,
		TotalSizeKB:       s.TotalSize,
		TotalSize:         view.FormatSize(s.TotalSize),
		DistinctLanguages: s.DistinctLanguages,
		Languages:         make([]LanguageRecord, 0, len(s.Chart)),
	}
	if most, ok := s.MostUsed(); ok {
		rec.MostUsed = most.Language
	}
	for _, l := range s.Chart {
		rec.Languages = append(rec.Languages, LanguageRecord{
			Language:   l.Language,
			Count:      l.Count,
			SizeKB:     l.Size,
			Percentage: l.Percentage,
			Color:      l.Color,
		})
	}
	return rec
}
