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
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-explorer/internal/dashboard"
	"github.com/sirseerhq/sirseer-explorer/internal/output"
	"github.com/sirseerhq/sirseer-explorer/internal/view"
	"github.com/sirseerhq/sirseer-explorer/pkg/version"
)

const exploreHelp = `Commands:
  user <name>       switch to a GitHub user
  search [text]     filter by name, description or topic (empty clears)
  sort <key>        created, stars, forks, updated or name
  lang <language>   toggle a language filter
  clear             remove all language filters
  archived          show or hide archived repositories
  page <n>          go to page n
  next, prev        move one page
  refresh           fetch the profile and current page again
  stats             show language statistics
  help              show this help
  quit              leave
`

func newExploreCommand(global *globalOptions) *cobra.Command {
	var showMetadata bool

	cmd := &cobra.Command{
		Use:   "explore [username]",
		Short: "Browse users and repositories interactively",
		Long: `Start an interactive session. The last username from a previous session
is loaded automatically unless a username is given.

` + exploreHelp,
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
			s, err := newSession(cmd.Context(), a, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.run(username, cmd.InOrStdin()); err != nil {
				return err
			}
			if showMetadata {
				snap := s.dash.Snapshot()
				return a.writeMetadata(cmd.ErrOrStderr(), snap.Filter.SortKey, snap.Filter.ShowArchived, version.Version)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showMetadata, "metadata", false, "Print session metadata as JSON to stderr on exit")
	return cmd
}

// session is one interactive explore loop.
type session struct {
	ctx    context.Context
	app    *app
	dash   *dashboard.Dashboard
	out    io.Writer
	render *output.Renderer
}

func newSession(ctx context.Context, a *app, out io.Writer) (*session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	dash, err := a.newDashboard(a.cfg.SortKey(), a.cfg.Defaults.ShowArchived, nil)
	if err != nil {
		return nil, err
	}
	return &session{
		ctx:    ctx,
		app:    a,
		dash:   dash,
		out:    out,
		render: output.NewRenderer(out),
	}, nil
}

func (s *session) close() {
	_ = s.dash.Close()
}

// run starts with username (or the remembered one) and then executes one
// command per input line until quit or end of input.
func (s *session) run(username string, in io.Reader) error {
	start := resolveUsername(username, s.dash.RestoredUsername(), s.app.cfg.Defaults.Username)
	if start != "" {
		if err := s.exec("user " + start); err != nil {
			return err
		}
	} else {
		fmt.Fprint(s.out, "Enter a GitHub username with: user <name>\n")
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" || line == "q" {
			return nil
		}
		if err := s.exec(line); err != nil {
			return err
		}
	}
}

// exec runs a single command line. Only context cancellation and output
// failures are returned; fetch errors are rendered inline.
func (s *session) exec(line string) error {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "user", "u":
		if arg == "" {
			fmt.Fprintln(s.out, "usage: user <name>")
			return nil
		}
		if !s.dash.SetUsername(arg) {
			fmt.Fprintf(s.out, "Already showing %s\n", arg)
			return nil
		}
		return s.settleAndShow(true)

	case "search", "s", "/":
		s.dash.SetSearchTerm(arg)
		s.dash.FlushSearch()
		return s.show(false)

	case "sort":
		key, err := view.ParseSortKey(arg)
		if err != nil {
			fmt.Fprintln(s.out, err)
			return nil
		}
		s.dash.SetSortKey(key)
		return s.show(false)

	case "lang", "l":
		if arg == "" {
			fmt.Fprintln(s.out, "usage: lang <language>")
			return nil
		}
		s.dash.ToggleLanguage(arg)
		return s.show(false)

	case "clear":
		s.dash.ClearLanguageFilters()
		return s.show(false)

	case "archived", "a":
		s.dash.ToggleArchivedVisibility()
		return s.show(false)

	case "page", "p":
		n, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintln(s.out, "usage: page <n>")
			return nil
		}
		return s.changePage(s.dash.SetCurrentPage(n))

	case "next", "n":
		return s.changePage(s.dash.NextPage())

	case "prev":
		return s.changePage(s.dash.PrevPage())

	case "refresh", "r":
		if err := s.dash.Refresh(s.ctx); err != nil && s.ctx.Err() != nil {
			return s.ctx.Err()
		}
		return s.settleAndShow(true)

	case "stats":
		return s.render.Statistics(s.dash.Snapshot().View.Statistics)

	case "help", "h", "?":
		_, err := io.WriteString(s.out, exploreHelp)
		return err

	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type help for a list.\n", cmd)
		return nil
	}
}

func (s *session) changePage(accepted bool) error {
	if !accepted {
		snap := s.dash.Snapshot()
		fmt.Fprintf(s.out, "Cannot change page (page %d of %d)\n", snap.CurrentPage, snap.TotalPages)
		return nil
	}
	return s.settleAndShow(false)
}

func (s *session) settleAndShow(withProfile bool) error {
	if err := waitSettled(s.ctx, s.dash); err != nil {
		return err
	}
	return s.show(withProfile)
}

// show renders the current snapshot. Filter changes only redraw the list.
func (s *session) show(withProfile bool) error {
	snap := s.dash.Snapshot()

	if withProfile {
		s.render.Error("Profile", snap.UserError)
		if err := s.render.Profile(snap.User, snap.RateLimit); err != nil {
			return err
		}
	}
	if snap.RepositoryError != nil {
		s.render.Error("Repositories", snap.RepositoryError)
		return nil
	}
	if snap.Repositories == nil {
		return nil
	}
	if err := s.render.Repositories(snap.View.Repositories); err != nil {
		return err
	}
	fmt.Fprintln(s.out, filterLine(snap))
	return s.render.Pagination(snap.CurrentPage, snap.TotalPages)
}

// filterLine summarises the active filters, e.g.
// "Showing 4 of 30 | sort: stars | search: "cli" | languages: Go".
func filterLine(snap dashboard.Snapshot) string {
	parts := []string{
		fmt.Sprintf("Showing %d of %d", len(snap.View.Repositories), len(snap.Repositories)),
		"sort: " + string(snap.Filter.SortKey),
	}
	if snap.Filter.SearchTerm != "" {
		parts = append(parts, fmt.Sprintf("search: %q", snap.Filter.SearchTerm))
	}
	if len(snap.Filter.SelectedLanguages) > 0 {
		parts = append(parts, "languages: "+strings.Join(snap.Filter.SelectedLanguages.Sorted(), ", "))
	}
	if !snap.Filter.ShowArchived {
		parts = append(parts, "archived hidden")
	}
	return strings.Join(parts, " | ")
}
