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

package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sirseerhq/sirseer-explorer/internal/debounce"
	"github.com/sirseerhq/sirseer-explorer/internal/github"
	"github.com/sirseerhq/sirseer-explorer/internal/logging"
	"github.com/sirseerhq/sirseer-explorer/internal/metadata"
	"github.com/sirseerhq/sirseer-explorer/internal/paging"
	"github.com/sirseerhq/sirseer-explorer/internal/state"
	"github.com/sirseerhq/sirseer-explorer/internal/view"
)

// ErrClosed is returned by Refresh after Close.
var ErrClosed = errors.New("dashboard: closed")

// Options configures a Dashboard. Only Client is required.
type Options struct {
	Client github.Client

	// Store persists the last username. Defaults to an in-memory store.
	Store state.Store

	Logger  *logging.Logger
	Tracker *metadata.Tracker

	// DebounceDelay is the quiet period before search input applies.
	DebounceDelay time.Duration

	// Filter seeds the sort key and archived visibility. Search term and
	// language selection always start empty.
	Filter *view.FilterState

	// OnChange receives a snapshot after every state change. Calls are
	// serialized and snapshots are delivered in order. The callback may
	// call Snapshot but must not call intent methods synchronously.
	OnChange func(Snapshot)
}

// Dashboard holds the session state. Its methods are safe for concurrent
// use.
type Dashboard struct {
	client   github.Client
	store    state.Store
	log      *logging.Logger
	tracker  *metadata.Tracker
	session  string
	restored string
	onChange func(Snapshot)
	search   *debounce.Debouncer[searchUpdate]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	notifyMu sync.Mutex

	mu     sync.Mutex
	closed bool

	username string

	user        *github.UserProfile
	userErr     error
	userLoading bool
	userGen     uint64
	rateLimit   *github.RateLimitInfo

	repos       []github.Repository // nil until the first page arrives
	repoErr     error
	repoLoading bool
	repoGen     uint64

	currentPage  int
	totalRepos   int
	profileRepos int // -1 until the profile for username arrives
	linkEstimate int

	searchInput string
	searchEpoch uint64
	filter      view.FilterState
	derived     view.DerivedView
}

type searchUpdate struct {
	term  string
	epoch uint64
}

// New creates a Dashboard and reads the last persisted username once. It
// does not start any fetch.
func New(opts Options) (*Dashboard, error) {
	if opts.Client == nil {
		return nil, errors.New("dashboard: client is required")
	}

	session := opts.Tracker.SessionID()
	if session == "" {
		session = uuid.NewString()
	}

	store := opts.Store
	if store == nil {
		store = state.NewMemoryStore()
	}

	filter := view.DefaultFilterState()
	if opts.Filter != nil {
		filter.SortKey = opts.Filter.SortKey
		filter.ShowArchived = opts.Filter.ShowArchived
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dashboard{
		client:       opts.Client,
		store:        store,
		log:          logging.OrNop(opts.Logger).With("session", session),
		tracker:      opts.Tracker,
		session:      session,
		onChange:     opts.OnChange,
		ctx:          ctx,
		cancel:       cancel,
		currentPage:  1,
		profileRepos: -1,
		filter:       filter,
	}
	d.search = debounce.New(opts.DebounceDelay, d.applySearch)
	d.rederiveLocked()

	last, ok, err := store.Get(state.KeyLastUsername)
	switch {
	case err != nil:
		d.log.Warnw("failed to restore last username", "error", err)
	case ok:
		d.restored = last
		d.log.Debugw("restored last username", "username", last)
	}

	return d, nil
}

// Session returns the id tagging this dashboard's log lines.
func (d *Dashboard) Session() string {
	return d.session
}

// RestoredUsername is the username persisted by a previous session, if any.
func (d *Dashboard) RestoredUsername() string {
	return d.restored
}

// Wait blocks until every fetch dispatched so far, and any fetch those
// dispatched in turn, has finished.
func (d *Dashboard) Wait() {
	d.wg.Wait()
}

// Close discards in-flight results, cancels outstanding requests and waits
// for their goroutines. The store is not closed.
func (d *Dashboard) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.userGen++
	d.repoGen++
	d.mu.Unlock()

	d.search.Stop()
	d.cancel()
	d.wg.Wait()
	return nil
}

// Snapshot is a consistent copy of the dashboard state.
type Snapshot struct {
	Session  string
	Username string

	User      *github.UserProfile
	UserError error
	RateLimit *github.RateLimitInfo

	// Repositories is nil before the first page has loaded and empty
	// after a failed or empty fetch.
	Repositories    []github.Repository
	RepositoryError error

	Loading bool

	CurrentPage int
	TotalPages  int
	TotalRepos  int

	Filter view.FilterState
	// SearchInput is the raw, not yet debounced, search text.
	SearchInput string

	View view.DerivedView
}

// Err returns the profile error, else the repository error.
func (s Snapshot) Err() error {
	if s.UserError != nil {
		return s.UserError
	}
	return s.RepositoryError
}

// PageNumbers is the compact page list for the current position.
func (s Snapshot) PageNumbers() []int {
	return paging.Numbers(s.CurrentPage, s.TotalPages)
}

// Snapshot returns the current state.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	var rl *github.RateLimitInfo
	if d.rateLimit != nil {
		c := *d.rateLimit
		rl = &c
	}

	return Snapshot{
		Session:         d.session,
		Username:        d.username,
		User:            d.user,
		UserError:       d.userErr,
		RateLimit:       rl,
		Repositories:    d.repos,
		RepositoryError: d.repoErr,
		Loading:         d.loadingLocked(),
		CurrentPage:     d.currentPage,
		TotalPages:      d.totalPagesLocked(),
		TotalRepos:      d.totalRepos,
		Filter:          d.filter.Clone(),
		SearchInput:     d.searchInput,
		View:            d.derived,
	}
}

func (d *Dashboard) notify() {
	if d.onChange == nil {
		return
	}
	d.notifyMu.Lock()
	defer d.notifyMu.Unlock()
	d.onChange(d.Snapshot())
}

func (d *Dashboard) loadingLocked() bool {
	return d.userLoading || d.repoLoading
}

func (d *Dashboard) totalPagesLocked() int {
	return paging.TotalPages(d.totalRepos, github.PerPage)
}

func (d *Dashboard) rederiveLocked() {
	d.derived = view.Derive(d.repos, d.filter)
}

func (d *Dashboard) persist(username string) {
	if err := d.store.Set(state.KeyLastUsername, username); err != nil {
		d.log.Warnw("failed to persist username", "username", username, "error", err)
	}
}
