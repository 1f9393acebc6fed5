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
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

// AssertNDJSONOutput validates that data holds one JSON object per line and
// that exactly expectedRepos of them are repository records with the
// fields consumers rely on. Other record types are allowed.
func AssertNDJSONOutput(t *testing.T, data string, expectedRepos int) []map[string]interface{} {
	t.Helper()

	scanner := bufio.NewScanner(strings.NewReader(data))
	var repos []map[string]interface{}
	line := 0

	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}

		var record map[string]interface{}
		if err := json.Unmarshal([]byte(text), &record); err != nil {
			t.Errorf("Line %d: invalid JSON: %v", line, err)
			continue
		}
		if record["type"] != "repository" {
			continue
		}

		requiredFields := []string{"id", "name", "html_url", "created_at", "updated_at", "language_color", "stargazers_count"}
		for _, field := range requiredFields {
			if _, ok := record[field]; !ok {
				t.Errorf("Line %d: missing required field '%s'", line, field)
			}
		}
		if record["private"] != nil {
			t.Errorf("Line %d: repository records must not expose a private flag", line)
		}
		repos = append(repos, record)
	}

	if err := scanner.Err(); err != nil {
		t.Fatalf("Error reading output: %v", err)
	}

	if len(repos) != expectedRepos {
		t.Errorf("Expected %d repositories, got %d", expectedRepos, len(repos))
	}
	return repos
}

// AssertNDJSONFile is AssertNDJSONOutput for a file on disk.
func AssertNDJSONFile(t *testing.T, filePath string, expectedRepos int) []map[string]interface{} {
	t.Helper()

	data, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("Failed to open output file: %v", err)
	}
	return AssertNDJSONOutput(t, string(data), expectedRepos)
}

// AssertSessionMetadata validates a session metadata JSON document and
// returns it decoded.
func AssertSessionMetadata(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()

	var metadata map[string]interface{}
	if err := json.Unmarshal(data, &metadata); err != nil {
		t.Fatalf("Invalid metadata JSON: %v\n%s", err, data)
	}

	requiredFields := []string{"explorer_version", "client_version", "session_id", "parameters", "results"}
	for _, field := range requiredFields {
		if _, ok := metadata[field]; !ok {
			t.Errorf("Missing required metadata field: %s", field)
		}
	}
	return metadata
}

// AssertContainsString checks if a string contains a substring
func AssertContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("Expected string to contain %q, got: %s", needle, haystack)
	}
}

// AssertNotContainsString checks if a string does not contain a substring
func AssertNotContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Errorf("Expected string to NOT contain %q, got: %s", needle, haystack)
	}
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertEqual compares two values and fails if they're not equal
func AssertEqual(t *testing.T, got, want interface{}) {
	t.Helper()
	if got != want {
		t.Errorf("Got %v, want %v", got, want)
	}
}

// AssertFilePermissions checks file has expected permissions
func AssertFilePermissions(t *testing.T, path string, expectedMode os.FileMode) {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}

	mode := info.Mode()
	if mode != expectedMode {
		t.Errorf("Expected file mode %v, got %v", expectedMode, mode)
	}
}

// AssertDirExists checks that a directory exists
func AssertDirExists(t *testing.T, path string) {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("Expected directory to exist: %s", path)
		}
		t.Fatalf("Failed to stat directory: %v", err)
	}

	if !info.IsDir() {
		t.Fatalf("Expected %s to be a directory", path)
	}
}
