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
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-explorer/internal/config"
	"github.com/sirseerhq/sirseer-explorer/internal/dashboard"
	explerrors "github.com/sirseerhq/sirseer-explorer/internal/errors"
	"github.com/sirseerhq/sirseer-explorer/internal/output"
	"github.com/sirseerhq/sirseer-explorer/internal/view"
	"github.com/sirseerhq/sirseer-explorer/pkg/version"
)

type showOptions struct {
	search       string
	sort         string
	languages    []string
	hideArchived bool
	page         int
	format       string
	outputFile   string
	stats        bool
	metadata     bool
}

func newShowCommand(global *globalOptions) *cobra.Command {
	var opts showOptions

	cmd := &cobra.Command{
		Use:   "show [username]",
		Short: "Show a user's profile and one page of repositories",
		Long: `Show a GitHub user's profile and one page (30) of public repositories.

Search, language filters, archived visibility and sorting apply to the
fetched page. Without a username argument the configured default user is
used, then the last username from a previous session.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(global)
			if err != nil {
				return err
			}
			defer a.Close()

			var username string
			if len(args) == 1 {
				username = args[0]
			}
			return runShow(cmd.Context(), a, username, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.search, "search", "", "Only repositories whose name, description or topics contain this text")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Sort by created, stars, forks, updated or name")
	cmd.Flags().StringArrayVar(&opts.languages, "lang", nil, "Only repositories in this language (repeatable)")
	cmd.Flags().BoolVar(&opts.hideArchived, "hide-archived", false, "Hide archived repositories")
	cmd.Flags().IntVar(&opts.page, "page", 1, "Page of repositories to show")
	cmd.Flags().StringVar(&opts.format, "output", "", "Output format: table or ndjson")
	cmd.Flags().StringVar(&opts.outputFile, "file", "", "Write NDJSON to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "Include language statistics")
	cmd.Flags().BoolVar(&opts.metadata, "metadata", false, "Print session metadata as JSON to stderr")

	return cmd
}

// runShow loads one page for username and renders it to stdout.
func runShow(ctx context.Context, a *app, username string, opts showOptions, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	sortKey := a.cfg.SortKey()
	if opts.sort != "" {
		key, err := view.ParseSortKey(opts.sort)
		if err != nil {
			return err
		}
		sortKey = key
	}
	showArchived := a.cfg.Defaults.ShowArchived && !opts.hideArchived

	format := opts.format
	if format == "" {
		format = a.cfg.Defaults.OutputFormat
	}
	if format != config.FormatTable && format != config.FormatNDJSON {
		return fmt.Errorf("unknown output format %q (want table or ndjson)", format)
	}
	if opts.outputFile != "" && format != config.FormatNDJSON {
		return fmt.Errorf("--file requires --output ndjson")
	}
	if opts.page < 1 {
		return fmt.Errorf("page must be at least 1, got %d", opts.page)
	}

	dash, err := a.newDashboard(sortKey, showArchived, nil)
	if err != nil {
		return err
	}
	defer dash.Close()

	username = resolveUsername(username, a.cfg.Defaults.Username, dash.RestoredUsername())
	if username == "" {
		return fmt.Errorf("no username given and none remembered: %w", explerrors.ErrEmptyUsername)
	}

	dash.SetUsername(username)
	if err := waitSettled(ctx, dash); err != nil {
		return err
	}

	if snap := dash.Snapshot(); snap.Err() != nil {
		return snap.Err()
	}

	if opts.page > 1 {
		snap := dash.Snapshot()
		if !dash.SetCurrentPage(opts.page) {
			return fmt.Errorf("page %d out of range (1-%d)", opts.page, snap.TotalPages)
		}
		if err := waitSettled(ctx, dash); err != nil {
			return err
		}
	}

	if opts.search != "" {
		dash.SetSearchTerm(opts.search)
		dash.FlushSearch()
	}
	for _, lang := range view.NewLanguageSet(opts.languages...).Sorted() {
		dash.ToggleLanguage(lang)
	}

	snap := dash.Snapshot()
	if err := snap.Err(); err != nil {
		return err
	}

	if format == config.FormatNDJSON {
		err = writeNDJSON(snap, opts, stdout, stderr)
	} else {
		err = writeTables(snap, opts, stdout)
	}
	if err != nil {
		return err
	}

	if opts.metadata {
		return a.writeMetadata(stderr, sortKey, showArchived, version.Version)
	}
	return nil
}

// resolveUsername picks the first non-blank candidate.
func resolveUsername(candidates ...string) string {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return ""
}

// waitSettled blocks until all in-flight fetches finish or ctx is done.
func waitSettled(ctx context.Context, dash *dashboard.Dashboard) error {
	done := make(chan struct{})
	go func() {
		dash.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func writeNDJSON(snap dashboard.Snapshot, opts showOptions, stdout, stderr io.Writer) error {
	var w *output.Writer
	if opts.outputFile != "" {
		fw, err := output.NewFileWriter(opts.outputFile)
		if err != nil {
			return err
		}
		w = fw
	} else {
		w = output.NewWriter(stdout)
	}
	defer w.Close()

	if err := w.WriteRepositories(snap.View.Repositories); err != nil {
		return err
	}
	if opts.stats {
		if err := w.WriteStatistics(snap.View.Statistics); err != nil {
			return err
		}
	}
	if opts.outputFile != "" {
		fmt.Fprintf(stderr, "Wrote %d records to %s\n", w.Count(), opts.outputFile)
	}
	return w.Close()
}

func writeTables(snap dashboard.Snapshot, opts showOptions, stdout io.Writer) error {
	r := output.NewRenderer(stdout)
	if err := r.Profile(snap.User, snap.RateLimit); err != nil {
		return err
	}
	if err := r.Repositories(snap.View.Repositories); err != nil {
		return err
	}
	if err := r.Pagination(snap.CurrentPage, snap.TotalPages); err != nil {
		return err
	}
	if opts.stats {
		return r.Statistics(snap.View.Statistics)
	}
	return nil
}
