// Package format renders client results for the terminal: go-pretty
// tables for lists and plain text for issue detail.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"

	"github.com/glouie/jirapeek/internal/jira"
	"github.com/glouie/jirapeek/internal/scan"
)

// termWidth returns the terminal width, defaulting to 120 when stdout
// is not a terminal.
func termWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 120
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetAllowedRowLength(termWidth())
	return t
}

// SearchResults renders a page of search results as a table, followed
// by a paging hint when more results exist.
func SearchResults(w io.Writer, res *jira.SearchResult) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Key", "Type", "Status", "Priority", "Assignee", "Summary"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Summary", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})
	for _, issue := range res.Issues {
		t.AppendRow(table.Row{
			issue.Key,
			namedOrDash(issue.Fields.IssueType),
			statusOrDash(issue.Fields.Status),
			namedOrDash(issue.Fields.Priority),
			assigneeName(issue.Fields.Assignee),
			issue.Fields.Summary,
		})
	}
	t.Render()

	switch {
	case res.NextPageToken != "" && !res.IsLast:
		fmt.Fprintf(w, "%d issue(s). More available: rerun with --page-token %s\n",
			len(res.Issues), res.NextPageToken)
	case res.Total > 0:
		fmt.Fprintf(w, "Showing %d of %d issue(s).\n", len(res.Issues), res.Total)
	default:
		fmt.Fprintf(w, "%d issue(s).\n", len(res.Issues))
	}
}

// ScanMatches renders issue keys found in files with their positions.
func ScanMatches(w io.Writer, matches []scan.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No issue keys found.")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Key", "Line", "Col"})
	for _, m := range matches {
		t.AppendRow(table.Row{m.Key, m.Line, m.Col})
	}
	t.Render()
}

// HistoryEntries renders one of the histories, newest first. header
// names the entry kind, e.g. "Search" or "Issue".
func HistoryEntries(w io.Writer, header string, entries []string) {
	if len(entries) == 0 {
		fmt.Fprintf(w, "No %s history.\n", strings.ToLower(header))
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"#", header})
	for i, e := range entries {
		t.AppendRow(table.Row{i + 1, e})
	}
	t.Render()
}

// IssueDetail renders a single issue as plain text.
func IssueDetail(w io.Writer, issue *jira.Issue, comments []jira.Comment, browseURL string) {
	fmt.Fprintf(w, "%s  %s\n", issue.Key, issue.Fields.Summary)
	fmt.Fprintln(w, strings.Repeat("-", len(issue.Key)+len(issue.Fields.Summary)+2))

	t := newTable(w)
	t.AppendRow(table.Row{"Type", namedOrDash(issue.Fields.IssueType)})
	t.AppendRow(table.Row{"Status", statusOrDash(issue.Fields.Status)})
	t.AppendRow(table.Row{"Priority", namedOrDash(issue.Fields.Priority)})
	t.AppendRow(table.Row{"Assignee", assigneeName(issue.Fields.Assignee)})
	t.AppendRow(table.Row{"Reporter", userOrDash(issue.Fields.Reporter)})
	if len(issue.Fields.Labels) > 0 {
		t.AppendRow(table.Row{"Labels", strings.Join(issue.Fields.Labels, ", ")})
	}
	if issue.Fields.DueDate != "" {
		t.AppendRow(table.Row{"Due", issue.Fields.DueDate})
	}
	if issue.Fields.Parent != nil {
		t.AppendRow(table.Row{"Parent", issue.Fields.Parent.Key})
	}
	if browseURL != "" {
		t.AppendRow(table.Row{"URL", browseURL})
	}
	t.Render()

	if desc := jira.ADFText(issue.Fields.Description); desc != "" {
		fmt.Fprintf(w, "\n%s\n", desc)
	}

	if len(comments) > 0 {
		fmt.Fprintf(w, "\nComments (%d):\n", len(comments))
		for _, c := range comments {
			fmt.Fprintf(w, "\n  %s (%s)\n", userOrDash(c.Author), c.Created)
			body := jira.ADFText(c.Body)
			for _, line := range strings.Split(body, "\n") {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
}

// JSON renders any value as indented JSON, for --format json.
func JSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func namedOrDash(n *jira.Named) string {
	if n == nil || n.Name == "" {
		return "-"
	}
	return n.Name
}

func statusOrDash(s *jira.Status) string {
	if s == nil || s.Name == "" {
		return "-"
	}
	return s.Name
}

func userOrDash(u *jira.User) string {
	if u == nil || u.DisplayName == "" {
		return "-"
	}
	return u.DisplayName
}

func assigneeName(u *jira.User) string {
	if u == nil || u.DisplayName == "" {
		return "Unassigned"
	}
	return u.DisplayName
}
