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
	"fmt"
	"os"
	"path/filepath"
)

// Storage drivers accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

const (
	stateFileName = "state.json"
	dbFileName    = "explorer.db"
)

// DefaultDir returns ~/.sirseer/explorer, falling back to a directory
// relative to the working directory when the home directory is unknown.
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".sirseer", "explorer")
}

// Open returns a Store for driver rooted at dir. An empty dir uses
// DefaultDir.
func Open(driver, dir string) (Store, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	switch driver {
	case "", DriverFile:
		return NewFileStore(filepath.Join(dir, stateFileName)), nil
	case DriverSQLite:
		return OpenSQLite(filepath.Join(dir, dbFileName))
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
