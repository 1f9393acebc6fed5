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

package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/sirseerhq/sirseer-explorer/internal/github"
	"github.com/sirseerhq/sirseer-explorer/internal/paging"
	"github.com/sirseerhq/sirseer-explorer/internal/view"
)

const maxDescriptionWidth = 48

// Renderer draws dashboard panels to a terminal.
type Renderer struct {
	w io.Writer
}

// NewRenderer returns a Renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Profile renders the user panel and, when known, the rate-limit line.
func (r *Renderer) Profile(u *github.UserProfile, rl *github.RateLimitInfo) error {
	if u == nil {
		return nil
	}

	title := u.Login
	if u.Name != "" && u.Name != u.Login {
		title = fmt.Sprintf("%s (%s)", u.Name, u.Login)
	}

	rows := pterm.TableData{}
	add := func(k, v string) {
		if v != "" {
			rows = append(rows, []string{k, v})
		}
	}
	add("Bio", u.Bio)
	add("Company", u.Company)
	add("Location", u.Location)
	add("Blog", u.Blog)
	if u.TwitterUsername != "" {
		add("Twitter", "@"+u.TwitterUsername)
	}
	add("Repositories", strconv.Itoa(u.PublicRepos))
	add("Gists", strconv.Itoa(u.PublicGists))
	add("Followers", strconv.Itoa(u.Followers))
	add("Following", strconv.Itoa(u.Following))
	add("Joined", view.FormatDate(u.CreatedAt))
	add("Profile", u.HTMLURL)

	table, err := pterm.DefaultTable.WithData(rows).Srender()
	if err != nil {
		return fmt.Errorf("failed to render profile: %w", err)
	}

	var b strings.Builder
	b.WriteString(pterm.DefaultSection.Sprint(title))
	b.WriteString(table)
	b.WriteString("\n")
	if rl != nil {
		b.WriteString(RateLimitLine(*rl))
		b.WriteString("\n")
	}
	_, err = io.WriteString(r.w, b.String())
	return err
}

// RateLimitLine summarises rl for display.
func RateLimitLine(rl github.RateLimitInfo) string {
	return fmt.Sprintf("API rate limit: %d/%d remaining (%d%%), resets %s",
		rl.Remaining, rl.Limit, rl.PercentRemaining(), rl.ResetTime().Format("15:04:05"))
}

// Repositories renders repos as a table in the order given.
func (r *Renderer) Repositories(repos []github.Repository) error {
	if len(repos) == 0 {
		_, err := io.WriteString(r.w, pterm.Info.Sprintln("No repositories found"))
		return err
	}

	rows := pterm.TableData{{"Name", "Language", "Stars", "Forks", "Updated", "Flags", "Description"}}
	for _, repo := range repos {
		lang := repo.Language
		if lang == "" {
			lang = view.UnknownLanguage
		}
		rows = append(rows, []string{
			repo.Name,
			lang,
			strconv.Itoa(repo.StargazersCount),
			strconv.Itoa(repo.ForksCount),
			view.FormatDate(repo.UpdatedAt),
			flags(repo),
			truncate(repo.Description, maxDescriptionWidth),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return fmt.Errorf("failed to render repositories: %w", err)
	}
	_, err = fmt.Fprintln(r.w, table)
	return err
}

// Statistics renders the summary numbers and the language bar chart.
func (r *Renderer) Statistics(s view.Statistics) error {
	var b strings.Builder
	b.WriteString(pterm.DefaultSection.Sprint("Repository Statistics"))

	if s.TotalRepos == 0 {
		b.WriteString("No repository data available\n")
		_, err := io.WriteString(r.w, b.String())
		return err
	}

	fmt.Fprintf(&b, "Repositories (current page): %d\n", s.TotalRepos)
	fmt.Fprintf(&b, "Languages used: %d\n", s.DistinctLanguages)
	if most, ok := s.MostUsed(); ok {
		fmt.Fprintf(&b, "Most used: %s (%d%%)\n", most.Language, view.RoundedPercentage(most.Percentage))
	}
	fmt.Fprintf(&b, "Total size: %s\n\n", view.FormatSize(s.TotalSize))

	bars := make(pterm.Bars, 0, len(s.Chart))
	for _, l := range s.Chart {
		bars = append(bars, pterm.Bar{
			Label:      fmt.Sprintf("%s %d%%", l.Language, view.RoundedPercentage(l.Percentage)),
			Value:      l.Count,
			Style:      pterm.NewStyle(pterm.FgCyan),
			LabelStyle: pterm.NewStyle(pterm.FgDefault),
		})
	}
	chart, err := pterm.DefaultBarChart.WithHorizontal().WithShowValue().WithBars(bars).Srender()
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	b.WriteString(chart)
	b.WriteString("\n")

	legend, more := s.Legend()
	parts := make([]string, 0, len(legend)+1)
	for _, l := range legend {
		parts = append(parts, fmt.Sprintf("%s (%d) %s", l.Language, l.Count, l.Color))
	}
	if more > 0 {
		parts = append(parts, fmt.Sprintf("+%d more", more))
	}
	b.WriteString(strings.Join(parts, "  "))
	b.WriteString("\n")

	_, err = io.WriteString(r.w, b.String())
	return err
}

// Pagination renders the page list, marking the current page.
func (r *Renderer) Pagination(current, total int) error {
	_, err := fmt.Fprintln(r.w, PaginationLine(current, total))
	return err
}

// PaginationLine formats the compact page list, e.g.
// "Page 7 of 12: 1 … 6 [7] 8 … 12".
func PaginationLine(current, total int) string {
	pages := paging.Numbers(current, total)
	parts := make([]string, len(pages))
	for i, p := range pages {
		switch p {
		case paging.Ellipsis:
			parts[i] = "…"
		case current:
			parts[i] = "[" + strconv.Itoa(p) + "]"
		default:
			parts[i] = strconv.Itoa(p)
		}
	}
	return fmt.Sprintf("Page %d of %d: %s", current, total, strings.Join(parts, " "))
}

// Error renders an inline error panel labelled with where it came from.
func (r *Renderer) Error(source string, err error) {
	if err == nil {
		return
	}
	_, _ = io.WriteString(r.w, pterm.Error.Sprintfln("%s: %v", source, err))
}

func flags(r github.Repository) string {
	var f []string
	if r.Archived {
		f = append(f, "archived")
	}
	if r.Fork {
		f = append(f, "fork")
	}
	return strings.Join(f, ",")
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
