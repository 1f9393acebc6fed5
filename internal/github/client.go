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

package github

import "context"

// Client defines the interface for the two GitHub REST endpoints the
// explorer reads. This interface allows for easy mocking in tests.
type Client interface {
	// GetUser retrieves the public profile of username along with the
	// current rate-limit snapshot.
	GetUser(ctx context.Context, username string) (*UserResult, error)

	// ListRepositories retrieves one page of username's repositories, at
	// most PerPage entries, asking GitHub to order them by last update.
	// Private repositories are removed before the page is returned.
	ListRepositories(ctx context.Context, username string, page int) (*RepositoryPage, error)
}
