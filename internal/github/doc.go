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

// Package github provides a client for the public GitHub REST API endpoints
// used by the explorer: a user's profile and a user's repository list.
//
// The package includes:
//   - A Client interface for fetching profiles and repository pages
//   - A REST implementation built on google/go-github
//   - Rate-limit header parsing (all-or-nothing)
//   - A retry wrapper for transient network failures
//   - A mock client for testing
//
// Every failure is reported as one of the typed errors from internal/errors:
// NetworkError when no response came back, RemoteError for non-2xx statuses
// and ParseError when the body could not be decoded.
//
// Basic usage:
//
//	client, err := github.NewRESTClient(github.RESTOptions{})
//	if err != nil {
//	    // Handle error
//	}
//	page, err := client.ListRepositories(ctx, "octocat", 1)
//	if err != nil {
//	    // Handle error
//	}
//	for _, repo := range page.Repositories {
//	    // Process repository
//	}
package github
