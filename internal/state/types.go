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

package state

import (
	"errors"
	"time"
)

// CurrentVersion is the current document schema version.
// Increment this when making breaking changes to Document.
const CurrentVersion = 1

// KeyLastUsername holds the most recently accepted username.
const KeyLastUsername = "github-explorer-username"

// ErrCorrupt is returned when a persisted document fails validation.
var ErrCorrupt = errors.New("state is corrupted")

// Store is a string key/value store.
type Store interface {
	// Get returns the value for key. The boolean is false when the key
	// has never been set.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Entry is a single persisted value.
type Entry struct {
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document is the on-disk format used by FileStore.
type Document struct {
	// Version indicates the schema version of this document.
	Version int `json:"version"`

	// Checksum is the SHA256 hash of the document (excluding this field).
	Checksum string `json:"checksum"`

	Entries map[string]Entry `json:"entries"`
}
