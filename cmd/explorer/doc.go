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
// Package main implements the sirseer-explorer command-line interface.
// It looks up a GitHub user and lists their public repositories with the
// same search, language filter, sort and pagination rules as the
// interactive dashboard.
//
// Commands:
//   - show: render one user's profile, repositories and statistics once,
//     as tables or NDJSON
//   - explore: an interactive session that remembers the last username
//   - version: print build information
//
// Usage:
//
//	sirseer-explorer show <username> [flags]
//	sirseer-explorer explore [username]
//
// Example:
//
//	sirseer-explorer show octocat --sort stars --lang Go --stats
//	sirseer-explorer show torvalds --output ndjson --file repos.ndjson
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: User not found or rate limit exceeded
//   - 3: Network error
package main
