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

// Package dashboard is the stateful core behind the explorer's user
// interfaces. It owns the target username, the fetched profile and
// repository page, pagination and the user's filter state, and keeps the
// derived view current as any of them change.
//
// Profile and repository fetches run concurrently in their own goroutines.
// Each fetch is tagged with a generation number when it is dispatched and
// its result is applied only if no newer fetch of the same kind has been
// dispatched since, so a slow response for a previous username or page can
// never overwrite newer state.
//
// A username change resets the page to 1 before the first repository fetch
// for the new user is dispatched. Search input is debounced; sort, language
// and archived-visibility changes apply immediately.
//
// Example usage:
//
//	d, err := dashboard.New(dashboard.Options{
//	    Client:   client,
//	    Store:    store,
//	    OnChange: render,
//	})
//	if err != nil {
//	    return err
//	}
//	defer d.Close()
//	d.SetUsername("octocat")
package dashboard
