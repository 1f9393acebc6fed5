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
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/sirseerhq/sirseer-explorer/internal/state"
)

// Home is an isolated HOME directory with the default explorer layout.
type Home struct {
	Dir      string
	StateDir string
}

// NewHome creates a fresh HOME under t.TempDir with ~/.sirseer/explorer
// already in place.
func NewHome(t *testing.T) Home {
	t.Helper()

	dir := t.TempDir()
	return Home{Dir: dir, StateDir: CreateStateDir(t, dir)}
}

// StateFile is the file store document inside the state directory.
func (h Home) StateFile() string {
	return filepath.Join(h.StateDir, "state.json")
}

// Database is the SQLite store inside the state directory.
func (h Home) Database() string {
	return filepath.Join(h.StateDir, "explorer.db")
}

// StoredUsername reads the remembered username through the file store.
// It returns "" when nothing has been persisted.
func (h Home) StoredUsername(t *testing.T) string {
	t.Helper()

	store := state.NewFileStore(h.StateFile())
	defer store.Close()

	name, _, err := store.Get(state.KeyLastUsername)
	if err != nil {
		t.Fatalf("Failed to read state file: %v", err)
	}
	return name
}

// CreateStateDir creates the default ~/.sirseer/explorer layout under
// baseDir and returns its path.
func CreateStateDir(t *testing.T, baseDir string) string {
	t.Helper()

	stateDir := filepath.Join(baseDir, ".sirseer", "explorer")
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		t.Fatalf("Failed to create state dir: %v", err)
	}

	return stateDir
}

// WriteConfigFile writes a YAML configuration named explorer.yaml into dir.
// Leading indentation shared by every line is stripped so callers can use
// indented raw strings.
func WriteConfigFile(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "explorer.yaml")
	if err := os.WriteFile(path, []byte(dedent(content)), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

// WriteDotEnv writes vars as KEY=value lines to dir/.env.
func WriteDotEnv(t *testing.T, dir string, vars map[string]string) string {
	t.Helper()

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k + "=" + vars[k] + "\n")
	}

	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatalf("Failed to write .env file: %v", err)
	}
	return path
}

// AssertFileExists checks that a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks that a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("Expected file to not exist: %s", path)
	}
}

func dedent(s string) string {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return strings.Join(lines, "\n") + "\n"
	}
	for i, l := range lines {
		if len(l) >= indent {
			lines[i] = l[indent:]
		} else {
			lines[i] = strings.TrimLeft(l, " \t")
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
