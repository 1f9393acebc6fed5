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

// Package output writes what the dashboard derived, either as NDJSON for
// other tools or as terminal tables and charts for people.
//
// Writer emits one JSON object per line. Repositories are written as
// RepositoryRecord values and the language aggregate as a single
// StatisticsRecord, each tagged with a "type" field so a consumer can tell
// them apart in one stream.
//
// Renderer draws the profile panel, the repository table, the language
// bar chart and the pagination line with pterm.
//
// Example usage:
//
//	w := output.NewWriter(os.Stdout)
//	if err := w.WriteRepositories(derived.Repositories); err != nil {
//	    return err
//	}
//	if err := w.WriteStatistics(derived.Statistics); err != nil {
//	    return err
//	}
package output
