package tui

import (
	"github.com/charmbracelet/bubbles/table"

	"github.com/glouie/jirapeek/internal/jira"
)

// resultsState represents the loading state of the results view.
type resultsState int

const (
	resultsIdle resultsState = iota
	resultsLoading
	resultsReady
	resultsError
	resultsEmpty
)

// resultColumns is the fixed column layout of the results table.
var resultColumns = []string{"key", "type", "status", "priority", "assignee", "summary"}

// resultsView holds the state for the search results table.
type resultsView struct {
	table  table.Model
	issues []jira.Issue
	state  resultsState
	errMsg string

	jql           string // the query these results belong to
	total         int
	nextPageToken string
	isLast        bool
	loadingMore   bool
}

// newResultsView creates an empty results view. Columns and rows are
// set once data loads and the width is known.
func newResultsView() resultsView {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(10), // will be resized
	)
	s := table.DefaultStyles()
	s.Header = tableHeaderStyle
	s.Selected = tableSelectedStyle
	s.Cell = tableCellStyle
	t.SetStyles(s)

	return resultsView{table: t, state: resultsIdle}
}

// setSize updates the table dimensions.
func (r *resultsView) setSize(width, height int) {
	r.table.SetColumns(buildColumns(resultColumns, width))
	r.table.SetWidth(width)
	r.table.SetHeight(height)
	if r.state == resultsReady {
		r.table.SetRows(issuesToRows(r.issues, resultColumns))
	}
}

// setResult installs the first page of a search.
func (r *resultsView) setResult(jql string, res *jira.SearchResult) {
	r.jql = jql
	r.issues = res.Issues
	r.total = res.Total
	r.nextPageToken = res.NextPageToken
	r.isLast = res.IsLast || res.NextPageToken == ""
	r.loadingMore = false

	if len(r.issues) == 0 {
		r.state = resultsEmpty
		return
	}
	r.state = resultsReady
	r.table.SetRows(issuesToRows(r.issues, resultColumns))
	r.table.GotoTop()
}

// appendResult adds a follow-up page, keeping the cursor in place.
func (r *resultsView) appendResult(res *jira.SearchResult) {
	cursor := r.table.Cursor()
	r.issues = append(r.issues, res.Issues...)
	r.nextPageToken = res.NextPageToken
	r.isLast = res.IsLast || res.NextPageToken == ""
	r.loadingMore = false

	r.table.SetRows(issuesToRows(r.issues, resultColumns))
	r.table.SetCursor(cursor)
}

// hasMore reports whether another page can be fetched.
func (r *resultsView) hasMore() bool {
	return r.state == resultsReady && !r.isLast && r.nextPageToken != "" && !r.loadingMore
}

// setError marks the view as having an error.
func (r *resultsView) setError(msg string) {
	r.state = resultsError
	r.errMsg = msg
	r.loadingMore = false
}

// setLoading resets the view to loading state.
func (r *resultsView) setLoading() {
	r.state = resultsLoading
	r.issues = nil
	r.nextPageToken = ""
	r.isLast = false
}

// selectedIssue returns the issue at the cursor, or nil.
func (r *resultsView) selectedIssue() *jira.Issue {
	if r.state != resultsReady || len(r.issues) == 0 {
		return nil
	}
	idx := r.table.Cursor()
	if idx >= 0 && idx < len(r.issues) {
		return &r.issues[idx]
	}
	return nil
}

// columnDef holds display metadata for a known Jira field column.
type columnDef struct {
	title    string
	minWidth int
	flex     bool // if true, absorbs remaining space
}

// knownColumns maps column names to display metadata.
var knownColumns = map[string]columnDef{
	"key":      {title: "Key", minWidth: 12},
	"summary":  {title: "Summary", minWidth: 20, flex: true},
	"status":   {title: "Status", minWidth: 14},
	"priority": {title: "Priority", minWidth: 10},
	"assignee": {title: "Assignee", minWidth: 14},
	"reporter": {title: "Reporter", minWidth: 14},
	"type":     {title: "Type", minWidth: 10},
	"project":  {title: "Project", minWidth: 10},
	"created":  {title: "Created", minWidth: 12},
	"updated":  {title: "Updated", minWidth: 12},
}

// buildColumns creates bubbles table columns from column names,
// auto-sizing to the given total width.
func buildColumns(names []string, totalWidth int) []table.Column {
	cols := make([]table.Column, len(names))
	fixedTotal := 0
	flexCount := 0

	for i, name := range names {
		def, ok := knownColumns[name]
		if !ok {
			def = columnDef{title: name, minWidth: 12}
		}
		cols[i] = table.Column{Title: def.title, Width: def.minWidth}
		if def.flex {
			flexCount++
		} else {
			fixedTotal += def.minWidth
		}
	}

	// Distribute remaining width to flex columns
	if flexCount > 0 {
		// Reserve a small gap per column for padding
		padding := len(names) * 2
		remaining := totalWidth - fixedTotal - padding
		if remaining < 0 {
			remaining = 0
		}
		perFlex := remaining / flexCount
		if perFlex < 20 {
			perFlex = 20
		}
		for i, name := range names {
			def := knownColumns[name]
			if def.flex {
				cols[i].Width = perFlex
			}
		}
	}

	return cols
}

// issuesToRows converts issues to table rows based on the given columns.
// Priority columns display a colored icon instead of text.
func issuesToRows(issues []jira.Issue, columns []string) []table.Row {
	rows := make([]table.Row, len(issues))
	for i, issue := range issues {
		row := make(table.Row, len(columns))
		for j, col := range columns {
			if col == "priority" && issue.Fields.Priority != nil {
				row[j] = priorityIcon(issue.Fields.Priority.Name)
			} else {
				row[j] = fieldValue(issue, col)
			}
		}
		rows[i] = row
	}
	return rows
}

// fieldValue extracts a display string for a given column name from an issue.
func fieldValue(issue jira.Issue, column string) string {
	switch column {
	case "key":
		return issue.Key
	case "summary":
		return issue.Fields.Summary
	case "status":
		if issue.Fields.Status != nil {
			return issue.Fields.Status.Name
		}
	case "priority":
		if issue.Fields.Priority != nil {
			return issue.Fields.Priority.Name
		}
	case "assignee":
		if issue.Fields.Assignee != nil {
			return issue.Fields.Assignee.DisplayName
		}
	case "reporter":
		if issue.Fields.Reporter != nil {
			return issue.Fields.Reporter.DisplayName
		}
	case "type":
		if issue.Fields.IssueType != nil {
			return issue.Fields.IssueType.Name
		}
	case "project":
		if issue.Fields.Project != nil {
			return issue.Fields.Project.Name
		}
	case "created":
		return formatDate(issue.Fields.Created)
	case "updated":
		return formatDate(issue.Fields.Updated)
	case "duedate", "due":
		return formatDate(issue.Fields.DueDate)
	}
	return ""
}

// formatDate trims a Jira datetime to just the date portion.
func formatDate(dt string) string {
	if len(dt) >= 10 {
		return dt[:10]
	}
	return dt
}
