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
package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirseerhq/sirseer-explorer/internal/config"
	"github.com/sirseerhq/sirseer-explorer/internal/dashboard"
	explerrors "github.com/sirseerhq/sirseer-explorer/internal/errors"
	"github.com/sirseerhq/sirseer-explorer/internal/github"
	"github.com/sirseerhq/sirseer-explorer/internal/logging"
	"github.com/sirseerhq/sirseer-explorer/internal/metadata"
	"github.com/sirseerhq/sirseer-explorer/internal/state"
	"github.com/sirseerhq/sirseer-explorer/internal/view"
)

// globalOptions are the persistent flags. Empty values leave the
// configuration untouched.
type globalOptions struct {
	configPath  string
	logLevel    string
	logFormat   string
	storeDriver string
	stateDir    string
	endpoint    string
}

// app holds the collaborators shared by every command.
type app struct {
	cfg     *config.Config
	log     *logging.Logger
	client  github.Client
	store   state.Store
	tracker *metadata.Tracker
}

// newClient builds the GitHub client. Tests replace it with a mock.
var newClient = func(cfg *config.Config, log *logging.Logger) (github.Client, error) {
	rest, err := github.NewRESTClient(github.RESTOptions{
		Endpoint:  cfg.GitHub.APIEndpoint,
		UserAgent: cfg.GitHub.UserAgent,
		Timeout:   cfg.GitHub.Timeout,
		Logger:    log,
	})
	if err != nil {
		return nil, err
	}

	retry := github.DefaultRetryConfig()
	retry.MaxRetries = cfg.Retry.MaxRetries
	if cfg.Retry.InitialBackoff > 0 {
		retry.InitialBackoff = cfg.Retry.InitialBackoff
	}
	if cfg.Retry.MaxBackoff > 0 {
		retry.MaxBackoff = cfg.Retry.MaxBackoff
	}
	return github.NewRetryClient(rest, retry, log), nil
}

// newApp loads configuration, applies flag overrides and opens the
// client, store and logger.
func newApp(opts *globalOptions) (*app, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return nil, err
	}

	client, err := newClient(cfg, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	store, err := state.Open(cfg.Storage.Driver, cfg.Storage.Dir)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("failed to open username store: %w", err)
	}

	return &app{
		cfg:     cfg,
		log:     log,
		client:  client,
		store:   store,
		tracker: metadata.New(),
	}, nil
}

func (o *globalOptions) apply(cfg *config.Config) {
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Logging.Format = o.logFormat
	}
	if o.storeDriver != "" {
		cfg.Storage.Driver = o.storeDriver
	}
	if o.stateDir != "" {
		cfg.Storage.Dir = o.stateDir
	}
	if o.endpoint != "" {
		cfg.GitHub.APIEndpoint = o.endpoint
	}
}

// newDashboard creates a dashboard seeded with the given sort and archived
// visibility.
func (a *app) newDashboard(sortKey view.SortKey, showArchived bool, onChange func(dashboard.Snapshot)) (*dashboard.Dashboard, error) {
	filter := view.DefaultFilterState()
	filter.SortKey = sortKey
	filter.ShowArchived = showArchived

	return dashboard.New(dashboard.Options{
		Client:        a.client,
		Store:         a.store,
		Logger:        a.log,
		Tracker:       a.tracker,
		DebounceDelay: a.cfg.DebounceDelay(),
		Filter:        &filter,
		OnChange:      onChange,
	})
}

// writeMetadata prints the session summary as JSON.
func (a *app) writeMetadata(w io.Writer, sortKey view.SortKey, showArchived bool, ver string) error {
	meta := a.tracker.GenerateMetadata(ver, metadata.SessionParams{
		APIEndpoint:  a.cfg.GitHub.APIEndpoint,
		SortKey:      string(sortKey),
		ShowArchived: showArchived,
		PerPage:      github.PerPage,
	})
	return metadata.WriteMetadataToWriter(meta, w)
}

func (a *app) Close() error {
	err := a.store.Close()
	a.log.Sync()
	return err
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, explerrors.ErrUserNotFound) ||
		errors.Is(err, explerrors.ErrRateLimit) {
		return 2
	}

	if errors.Is(err, explerrors.ErrNetworkFailure) {
		return 3
	}

	return 1
}
