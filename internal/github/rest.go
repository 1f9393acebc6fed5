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

package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v68/github"
	explerrors "github.com/sirseerhq/sirseer-explorer/internal/errors"
	"github.com/sirseerhq/sirseer-explorer/internal/logging"
	"github.com/sirseerhq/sirseer-explorer/pkg/version"
)

// DefaultAPIEndpoint is the public GitHub REST API.
const DefaultAPIEndpoint = "https://api.github.com"

// RESTOptions configures a RESTClient. The zero value talks to api.github.com
// with a 30 second timeout and three transport attempts.
type RESTOptions struct {
	// Endpoint is the REST API root, e.g. https://api.github.com.
	Endpoint string

	// UserAgent overrides the default sirseer-explorer/<version> agent.
	UserAgent string

	// Timeout bounds a single HTTP exchange including retries.
	Timeout time.Duration

	// MaxAttempts is the number of transport attempts for 502/503/504 and
	// transient network failures.
	MaxAttempts int

	// Backoff is the initial wait between transport attempts.
	Backoff time.Duration

	// Logger receives retry diagnostics. Optional.
	Logger *logging.Logger
}

// RESTClient implements Client against the GitHub REST API using go-github.
// It never authenticates.
type RESTClient struct {
	gh  *gh.Client
	log *logging.Logger
}

// NewRESTClient creates a REST client. The transport chain is
// retry -> headers/size limit -> pooled http.Transport.
func NewRESTClient(opts RESTOptions) (*RESTClient, error) {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultAPIEndpoint
	}
	if opts.UserAgent == "" {
		opts.UserAgent = fmt.Sprintf("sirseer-explorer/%s", version.Version)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}

	baseURL, err := url.Parse(strings.TrimSuffix(opts.Endpoint, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid API endpoint %q: %w", opts.Endpoint, err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid API endpoint %q: missing scheme or host", opts.Endpoint)
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	httpClient := &http.Client{
		Timeout: opts.Timeout,
		Transport: newRetryTransport(
			&headerTransport{userAgent: opts.UserAgent, base: transport},
			opts.MaxAttempts, opts.Backoff, 10*time.Second, opts.Logger,
		),
	}

	client := gh.NewClient(httpClient)
	client.BaseURL = baseURL
	client.UserAgent = opts.UserAgent

	return &RESTClient{
		gh:  client,
		log: logging.OrNop(opts.Logger),
	}, nil
}

// GetUser fetches GET /users/{username}. On failure the returned result is
// still non-nil and carries the rate-limit snapshot if the error response had
// one.
func (c *RESTClient) GetUser(ctx context.Context, username string) (*UserResult, error) {
	if strings.TrimSpace(username) == "" {
		return nil, explerrors.ErrEmptyUsername
	}

	user, resp, err := c.gh.Users.Get(ctx, username)
	result := &UserResult{RateLimit: responseRateLimit(resp)}
	if err != nil {
		return result, c.mapError(err, resp)
	}

	result.User = convertUser(user)
	return result, nil
}

// ListRepositories fetches GET /users/{username}/repos?per_page=30&page=N&sort=updated.
func (c *RESTClient) ListRepositories(ctx context.Context, username string, page int) (*RepositoryPage, error) {
	if strings.TrimSpace(username) == "" {
		return nil, explerrors.ErrEmptyUsername
	}
	if page < 1 {
		page = 1
	}

	opts := &gh.RepositoryListByUserOptions{
		Sort: "updated",
		ListOptions: gh.ListOptions{
			PerPage: PerPage,
			Page:    page,
		},
	}

	repos, resp, err := c.gh.Repositories.ListByUser(ctx, username, opts)
	if err != nil {
		return nil, c.mapError(err, resp)
	}

	result := &RepositoryPage{
		Page:         page,
		Repositories: make([]Repository, 0, len(repos)),
	}
	if resp != nil {
		result.LastPage = resp.LastPage
	}

	for _, r := range repos {
		if r == nil || r.GetPrivate() {
			continue
		}
		result.Repositories = append(result.Repositories, convertRepository(r))
	}

	return result, nil
}

// mapError sorts a go-github failure into the three typed error kinds.
func (c *RESTClient) mapError(err error, resp *gh.Response) error {
	if err == nil {
		return nil
	}

	if resp == nil || resp.Response == nil {
		return &explerrors.NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var rateErr *gh.RateLimitError
		rateLimited := errors.As(err, &rateErr) || quotaExhausted(resp.Header)
		return explerrors.NewRemoteError(resp.StatusCode, statusText(resp.Response), rateLimited)
	}

	// 2xx with a body that did not decode. A body cut short by the network
	// still counts as a network failure.
	if c.isTransportReadError(err) {
		return &explerrors.NetworkError{Err: err}
	}
	return &explerrors.ParseError{Err: err}
}

func (c *RESTClient) isTransportReadError(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

func responseRateLimit(resp *gh.Response) *RateLimitInfo {
	if resp == nil || resp.Response == nil {
		return nil
	}
	return ParseRateLimit(resp.Header)
}

// statusText returns the reason phrase of resp.Status ("404 Not Found" -> "Not Found").
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func convertUser(u *gh.User) *UserProfile {
	return &UserProfile{
		Login:           u.GetLogin(),
		ID:              u.GetID(),
		AvatarURL:       u.GetAvatarURL(),
		HTMLURL:         u.GetHTMLURL(),
		Name:            u.GetName(),
		Bio:             u.GetBio(),
		Company:         u.GetCompany(),
		Location:        u.GetLocation(),
		Blog:            u.GetBlog(),
		TwitterUsername: u.GetTwitterUsername(),
		PublicRepos:     u.GetPublicRepos(),
		PublicGists:     u.GetPublicGists(),
		Followers:       u.GetFollowers(),
		Following:       u.GetFollowing(),
		CreatedAt:       u.GetCreatedAt().Time,
	}
}

func convertRepository(r *gh.Repository) Repository {
	topics := make([]string, len(r.Topics))
	copy(topics, r.Topics)

	return Repository{
		ID:              r.GetID(),
		Name:            r.GetName(),
		Description:     r.GetDescription(),
		Topics:          topics,
		Language:        r.GetLanguage(),
		Archived:        r.GetArchived(),
		Private:         r.GetPrivate(),
		Fork:            r.GetFork(),
		StargazersCount: r.GetStargazersCount(),
		ForksCount:      r.GetForksCount(),
		WatchersCount:   r.GetWatchersCount(),
		Size:            r.GetSize(),
		CreatedAt:       r.GetCreatedAt().Time,
		UpdatedAt:       r.GetUpdatedAt().Time,
		HTMLURL:         r.GetHTMLURL(),
		Homepage:        r.GetHomepage(),
	}
}
