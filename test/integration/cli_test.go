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
package integration

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirseerhq/sirseer-explorer/test/testutil"
)

func requireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}
}

func TestCLI_Help(t *testing.T) {
	requireIntegration(t)

	result := testutil.RunCLI(t, []string{"--help"}, nil)
	testutil.AssertCLISuccess(t, result)

	for _, want := range []string{"sirseer-explorer", "show", "explore", "version", "--config"} {
		testutil.AssertContainsString(t, result.Stdout, want)
	}
}

func TestCLI_Version(t *testing.T) {
	requireIntegration(t)

	result := testutil.RunCLI(t, []string{"version"}, nil)
	testutil.AssertCLISuccess(t, result)
	testutil.AssertContainsString(t, result.Stdout, "sirseer-explorer "+testutil.BuildVersion)
	testutil.AssertContainsString(t, result.Stdout, "rest-v3-unauthenticated")
}

func TestCLI_ShowNDJSON(t *testing.T) {
	requireIntegration(t)

	server := testutil.NewMockServer(t)
	server.AddUser("octocat", 45)

	tests := []struct {
		name      string
		args      []string
		wantRepos int
	}{
		{name: "first page", args: []string{"--output", "ndjson"}, wantRepos: 30},
		{name: "second page", args: []string{"--output", "ndjson", "--page", "2"}, wantRepos: 15},
		{name: "search", args: []string{"--output", "ndjson", "--search", "repo-1"}, wantRepos: 10},
		{name: "language miss", args: []string{"--output", "ndjson", "--lang", "Rust"}, wantRepos: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := testutil.RunWithMockServer(t, server, "octocat", tt.args...)
			testutil.AssertCLISuccess(t, result)
			testutil.AssertNDJSONOutput(t, result.Stdout, tt.wantRepos)
		})
	}
}

func TestCLI_ShowSortedByStars(t *testing.T) {
	requireIntegration(t)

	server := testutil.NewMockServer(t)
	server.AddUser("octocat", 12)

	result := testutil.RunWithMockServer(t, server, "octocat", "--output", "ndjson", "--sort", "stars")
	testutil.AssertCLISuccess(t, result)

	repos := testutil.AssertNDJSONOutput(t, result.Stdout, 12)
	if repos[0]["name"] != "octocat-repo-12" {
		t.Errorf("first repository = %v, want the most starred octocat-repo-12", repos[0]["name"])
	}
}

func TestCLI_ShowFileAndMetadata(t *testing.T) {
	requireIntegration(t)

	server := testutil.NewMockServer(t)
	server.AddUser("octocat", 5)

	outFile := filepath.Join(t.TempDir(), "repos.ndjson")
	result := testutil.RunWithMockServer(t, server, "octocat",
		"--output", "ndjson", "--file", outFile, "--stats", "--metadata")
	testutil.AssertCLISuccess(t, result)

	testutil.AssertFileExists(t, outFile)
	testutil.AssertNDJSONFile(t, outFile, 5)
	testutil.AssertContainsString(t, result.Stderr, "Wrote 6 records")

	start := strings.Index(result.Stderr, "{")
	if start < 0 {
		t.Fatalf("no metadata on stderr: %s", result.Stderr)
	}
	meta := testutil.AssertSessionMetadata(t, []byte(result.Stderr[start:]))
	params, _ := meta["parameters"].(map[string]interface{})
	if params["api_endpoint"] != server.URL {
		t.Errorf("api_endpoint = %v, want %s", params["api_endpoint"], server.URL)
	}
}

func TestCLI_ExitCodes(t *testing.T) {
	requireIntegration(t)

	tests := []struct {
		name     string
		setup    func(*testutil.MockServer)
		wantCode int
		wantErr  string
	}{
		{
			name:     "unknown user",
			setup:    func(*testutil.MockServer) {},
			wantCode: 2,
			wantErr:  "GitHub API returned 404",
		},
		{
			name: "rate limited",
			setup: func(s *testutil.MockServer) {
				s.AddUser("octocat", 3)
				s.RateLimit = &testutil.RateLimitHeaders{Limit: 60, Remaining: 0, Reset: 1700000000, Used: 60}
				s.ForceStatus("/users", http.StatusForbidden)
			},
			wantCode: 2,
			wantErr:  "403",
		},
		{
			name: "server error",
			setup: func(s *testutil.MockServer) {
				s.AddUser("octocat", 3)
				s.ForceStatus("/users", http.StatusInternalServerError)
			},
			wantCode: 1,
			wantErr:  "500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewMockServer(t)
			tt.setup(server)

			result := testutil.RunWithMockServer(t, server, "octocat", "--output", "ndjson")
			testutil.AssertCLIError(t, result, tt.wantErr)
			testutil.AssertExitCode(t, result, tt.wantCode)
		})
	}
}

func TestCLI_NetworkFailureExitCode(t *testing.T) {
	requireIntegration(t)

	server := testutil.NewMockServer(t)
	server.Close()

	home := testutil.NewHome(t)
	env := testutil.IsolatedEnv(server, home.Dir, home.StateDir)
	result := testutil.RunCLI(t, []string{"show", "octocat"}, env)

	testutil.AssertCLIError(t, result, "network error")
	testutil.AssertExitCode(t, result, 3)
}

func TestCLI_RemembersLastUsername(t *testing.T) {
	requireIntegration(t)

	server := testutil.NewMockServer(t)
	server.AddUser("octocat", 4)

	home := testutil.NewHome(t)
	env := testutil.IsolatedEnv(server, home.Dir, home.StateDir)

	first := testutil.RunCLI(t, []string{"show", "octocat", "--output", "ndjson"}, env)
	testutil.AssertCLISuccess(t, first)
	testutil.AssertEqual(t, home.StoredUsername(t), "octocat")

	second := testutil.RunCLI(t, []string{"show", "--output", "ndjson"}, env)
	testutil.AssertCLISuccess(t, second)
	testutil.AssertNDJSONOutput(t, second.Stdout, 4)
}

func TestCLI_SQLiteStore(t *testing.T) {
	requireIntegration(t)

	server := testutil.NewMockServer(t)
	server.AddUser("octocat", 2)

	home := testutil.NewHome(t)
	env := testutil.IsolatedEnv(server, home.Dir, home.StateDir)

	result := testutil.RunCLI(t, []string{"--store", "sqlite", "show", "octocat"}, env)
	testutil.AssertCLISuccess(t, result)
	testutil.AssertFileExists(t, home.Database())
	testutil.AssertFileNotExists(t, home.StateFile())
}

func TestCLI_Explore(t *testing.T) {
	requireIntegration(t)

	server := testutil.NewMockServer(t)
	server.AddUser("octocat", 40)

	home := testutil.NewHome(t)
	env := testutil.IsolatedEnv(server, home.Dir, home.StateDir)

	input := "sort name\nnext\nstats\nquit\n"
	result := testutil.RunCLIWithInput(t, []string{"explore", "octocat"}, env, input)
	testutil.AssertCLISuccess(t, result)

	for _, want := range []string{"Page 1 of 2", "Page 2 of 2", "sort: name", "Repository Statistics"} {
		testutil.AssertContainsString(t, result.Stdout, want)
	}
}

func TestCLI_ConfigPrecedence(t *testing.T) {
	requireIntegration(t)

	server := testutil.NewMockServer(t)
	server.AddUser("octocat", 3)

	home := testutil.NewHome(t)
	env := testutil.IsolatedEnv(server, home.Dir, home.StateDir)

	configPath := testutil.WriteConfigFile(t, t.TempDir(), `
		defaults:
		  username: octocat
		  sort: name
		  output_format: ndjson
		github:
		  api_endpoint: http://127.0.0.1:1
	`)

	// Environment wins over the file's endpoint, and the file supplies the
	// username, sort and format.
	result := testutil.RunCLI(t, []string{"--config", configPath, "show"}, env)
	testutil.AssertCLISuccess(t, result)
	repos := testutil.AssertNDJSONOutput(t, result.Stdout, 3)
	if repos[0]["name"] != "octocat-repo-01" {
		t.Errorf("first repository = %v, want octocat-repo-01 by name", repos[0]["name"])
	}

	// Flags win over the file.
	result = testutil.RunCLI(t, []string{"--config", configPath, "show", "--sort", "stars"}, env)
	testutil.AssertCLISuccess(t, result)
	repos = testutil.AssertNDJSONOutput(t, result.Stdout, 3)
	if repos[0]["name"] != "octocat-repo-03" {
		t.Errorf("first repository = %v, want octocat-repo-03 by stars", repos[0]["name"])
	}

	result = testutil.RunCLI(t, []string{"--config", configPath, "show", "--sort", "popularity"}, env)
	testutil.AssertCLIError(t, result, "unknown sort key")
	testutil.AssertExitCode(t, result, 1)
}
