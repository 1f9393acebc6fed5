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

// Package view derives what the dashboard shows from the fetched repository
// page and the user's filter state. Everything here is a pure function of its
// inputs: no I/O, no clocks, no shared state, so it is safe to recompute on
// every state change.
//
// The pipeline runs in a fixed order:
//
//  1. drop archived repositories unless ShowArchived is set
//  2. keep repositories whose name, description or a topic contains the
//     search term (case-insensitive)
//  3. keep repositories whose language is one of the selected languages
//  4. stable-sort by the sort key
//  5. aggregate language statistics over the survivors
package view
