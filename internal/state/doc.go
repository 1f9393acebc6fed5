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

// Package state persists small pieces of user state between runs, most
// importantly the last username the dashboard showed.
//
// Two durable backends are provided. FileStore keeps every key in one JSON
// document under ~/.sirseer/explorer/, written atomically through a
// temp-file-and-rename and guarded by a SHA256 checksum and a schema
// version. SQLiteStore keeps the same keys in a single table of a SQLite
// database. MemoryStore is a non-durable stand-in for tests and one-shot
// commands.
//
// Example usage:
//
//	store, err := state.Open(state.DriverFile, state.DefaultDir())
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	err = store.Set(state.KeyLastUsername, "octocat")
package state
