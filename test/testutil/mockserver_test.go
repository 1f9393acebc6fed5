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
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func getJSON(t *testing.T, url string, v interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func TestMockServer_UserAndRepos(t *testing.T) {
	server := NewMockServer(t)
	server.AddUser("octocat", 65)
	server.RateLimit = &RateLimitHeaders{Limit: 60, Remaining: 59, Reset: 1700000000, Used: 1}

	var user map[string]interface{}
	resp := getJSON(t, server.URL+"/users/octocat", &user)
	AssertEqual(t, resp.StatusCode, http.StatusOK)
	AssertEqual(t, user["login"], "octocat")
	AssertEqual(t, user["public_repos"], float64(65))
	AssertEqual(t, resp.Header.Get("X-RateLimit-Remaining"), "59")

	var repos []map[string]interface{}
	resp = getJSON(t, server.URL+"/users/octocat/repos?per_page=30&page=1&sort=updated", &repos)
	AssertEqual(t, len(repos), 30)
	link := resp.Header.Get("Link")
	AssertContainsString(t, link, `page=3>; rel="last"`)
	AssertContainsString(t, link, `page=2>; rel="next"`)

	resp = getJSON(t, server.URL+"/users/octocat/repos?per_page=30&page=3", &repos)
	AssertEqual(t, len(repos), 5)
	AssertEqual(t, resp.Header.Get("Link"), "")

	AssertEqual(t, server.RequestCount(), 3)
	AssertEqual(t, server.Requests()[1].URL.Query().Get("sort"), "updated")
}

func TestMockServer_Errors(t *testing.T) {
	server := NewMockServer(t)
	server.AddUser("octocat", 1)

	resp := getJSON(t, server.URL+"/users/ghost", nil)
	AssertEqual(t, resp.StatusCode, http.StatusNotFound)

	server.ForceStatus("/users/octocat", http.StatusForbidden)
	resp = getJSON(t, server.URL+"/users/octocat/repos", nil)
	AssertEqual(t, resp.StatusCode, http.StatusForbidden)

	server.ForceStatus("/users/octocat", 0)
	resp = getJSON(t, server.URL+"/users/octocat", nil)
	AssertEqual(t, resp.StatusCode, http.StatusOK)

	server.FailFirst(1, http.StatusBadGateway)
	// FailFirst counts every request the server has seen.
	resp = getJSON(t, server.URL+"/users/octocat", nil)
	AssertEqual(t, resp.StatusCode, http.StatusOK)
}

func TestMockServer_OmitLinkHeader(t *testing.T) {
	server := NewMockServer(t)
	server.AddUser("octocat", 45)
	server.OmitLinkHeader = true

	resp := getJSON(t, server.URL+"/users/octocat/repos?page=1", nil)
	AssertEqual(t, resp.Header.Get("Link"), "")
}

func TestRepositoryBuilder(t *testing.T) {
	repo := NewRepositoryBuilder(7, "tool").
		WithDescription("A tool").
		WithLanguage("Go").
		WithTopics("cli").
		WithStars(3).
		WithForks(1).
		WithSize(2048).
		Archived().
		Private().
		Build()

	AssertEqual(t, repo["name"], "tool")
	AssertEqual(t, repo["private"], true)
	AssertEqual(t, repo["archived"], true)
	AssertEqual(t, repo["visibility"], "private")
	AssertEqual(t, repo["size"], 2048)

	data, err := json.Marshal(repo)
	AssertNoError(t, err)
	AssertContainsString(t, string(data), `"topics":["cli"]`)
	AssertNotContainsString(t, strings.ToLower(string(data)), "pull")
}

func TestAssertNDJSONOutput(t *testing.T) {
	data := strings.Join([]string{
		`{"type":"repository","id":1,"name":"a","html_url":"u","created_at":"t","updated_at":"t","language_color":"#fff","stargazers_count":1}`,
		`{"type":"statistics","total_repositories":1}`,
		``,
	}, "\n")

	repos := AssertNDJSONOutput(t, data, 1)
	AssertEqual(t, repos[0]["name"], "a")
}
