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

package testutil

import (
	"time"
)

// RepositoryBuilder provides a fluent interface for building repository
// JSON payloads in the shape /users/{login}/repos returns.
type RepositoryBuilder struct {
	repo map[string]interface{}
}

// NewRepositoryBuilder creates a new builder with sensible defaults
func NewRepositoryBuilder(id int64, name string) *RepositoryBuilder {
	created := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	return &RepositoryBuilder{
		repo: map[string]interface{}{
			"id":               id,
			"name":             name,
			"full_name":        "owner/" + name,
			"private":          false,
			"html_url":         "https://github.com/owner/" + name,
			"description":      nil,
			"fork":             false,
			"created_at":       created.Format(time.RFC3339),
			"updated_at":       created.Add(24 * time.Hour).Format(time.RFC3339),
			"pushed_at":        created.Add(24 * time.Hour).Format(time.RFC3339),
			"homepage":         nil,
			"size":             128,
			"stargazers_count": 0,
			"watchers_count":   0,
			"language":         nil,
			"forks_count":      0,
			"archived":         false,
			"disabled":         false,
			"topics":           []string{},
			"visibility":       "public",
			"default_branch":   "main",
		},
	}
}

// WithDescription sets the description
func (b *RepositoryBuilder) WithDescription(desc string) *RepositoryBuilder {
	b.repo["description"] = desc
	return b
}

// WithLanguage sets the primary language
func (b *RepositoryBuilder) WithLanguage(lang string) *RepositoryBuilder {
	b.repo["language"] = lang
	return b
}

// WithTopics sets the topics
func (b *RepositoryBuilder) WithTopics(topics ...string) *RepositoryBuilder {
	b.repo["topics"] = topics
	return b
}

// WithStars sets the stargazer count
func (b *RepositoryBuilder) WithStars(n int) *RepositoryBuilder {
	b.repo["stargazers_count"] = n
	return b
}

// WithForks sets the fork count
func (b *RepositoryBuilder) WithForks(n int) *RepositoryBuilder {
	b.repo["forks_count"] = n
	return b
}

// WithSize sets the size in kilobytes
func (b *RepositoryBuilder) WithSize(kb int) *RepositoryBuilder {
	b.repo["size"] = kb
	return b
}

// Archived marks the repository archived
func (b *RepositoryBuilder) Archived() *RepositoryBuilder {
	b.repo["archived"] = true
	return b
}

// Private marks the repository private
func (b *RepositoryBuilder) Private() *RepositoryBuilder {
	b.repo["private"] = true
	b.repo["visibility"] = "private"
	return b
}

// WithCreatedAt sets the creation time
func (b *RepositoryBuilder) WithCreatedAt(t time.Time) *RepositoryBuilder {
	b.repo["created_at"] = t.Format(time.RFC3339)
	return b
}

// WithUpdatedAt sets the last update time
func (b *RepositoryBuilder) WithUpdatedAt(t time.Time) *RepositoryBuilder {
	b.repo["updated_at"] = t.Format(time.RFC3339)
	return b
}

// Build returns the repository payload
func (b *RepositoryBuilder) Build() map[string]interface{} {
	out := make(map[string]interface{}, len(b.repo))
	for k, v := range b.repo {
		out[k] = v
	}
	return out
}
