package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/glouie/jirapeek/internal/jira"
)

// --- Styles for detail view ---

var (
	detailKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	detailTypeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	detailStatusStyle = lipgloss.NewStyle().
				Bold(true)

	detailSectionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				MarginTop(1)

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Width(14)

	detailValueStyle = lipgloss.NewStyle()

	detailSubtaskDone = lipgloss.NewStyle().
				Foreground(lipgloss.Color("10")) // green ✓

	detailSubtaskOpen = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")) // dim ·

	detailParentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))
)

// statusColor returns a lipgloss style colored by status category.
func statusColor(status *jira.Status) lipgloss.Style {
	s := detailStatusStyle
	if status == nil || status.StatusCategory == nil {
		return s
	}
	switch status.StatusCategory.Key {
	case "new":
		return s.Foreground(lipgloss.Color("12")) // blue
	case "indeterminate":
		return s.Foreground(lipgloss.Color("11")) // yellow
	case "done":
		return s.Foreground(lipgloss.Color("10")) // green
	default:
		return s.Foreground(lipgloss.Color("252")) // light gray
	}
}

// issueDetailView is the full detail view for a single issue.
type issueDetailView struct {
	issue           jira.Issue
	viewport        viewport.Model
	ready           bool
	loading         bool // true while the full issue fetch is in-flight
	comments        []jira.Comment
	commentsLoading bool
	width           int
	height          int
}

func newIssueDetailView(issue jira.Issue, width, height int) issueDetailView {
	v := issueDetailView{
		issue:           issue,
		width:           width,
		height:          height,
		loading:         true,
		commentsLoading: true,
	}
	v.buildViewport()
	return v
}

// buildViewport creates the viewport with rendered content.
func (v *issueDetailView) buildViewport() {
	content := v.renderContent()

	// Height available for the viewport: total height minus prompt bar (2) and status bar (1)
	vpHeight := v.height - 3
	if vpHeight < 3 {
		vpHeight = 3
	}

	vp := viewport.New(v.width, vpHeight)
	vp.SetContent(content)
	// Use j/k for scrolling
	vp.KeyMap.Up.SetKeys("up", "k")
	vp.KeyMap.Down.SetKeys("down", "j")
	v.viewport = vp
	v.ready = true
}

// renderContent builds the full detail text.
func (v *issueDetailView) renderContent() string {
	issue := v.issue
	fields := issue.Fields
	maxWidth := v.width - 2 // small margin
	if maxWidth < 20 {
		maxWidth = 20
	}

	var b strings.Builder

	// Header: KEY ▸ Parent (if any)
	header := detailKeyStyle.Render(issue.Key)
	if fields.Parent != nil {
		parentLabel := fields.Parent.Key
		if fields.Parent.Fields != nil && fields.Parent.Fields.Summary != "" {
			parentLabel += " " + fields.Parent.Fields.Summary
		}
		header += detailParentStyle.Render("  ▸ " + parentLabel)
	}
	b.WriteString(header)
	b.WriteString("\n")

	// Type · Status · Priority
	var meta []string
	if fields.IssueType != nil {
		meta = append(meta, detailTypeStyle.Render(fields.IssueType.Name))
	}
	if fields.Status != nil {
		meta = append(meta, statusColor(fields.Status).Render(fields.Status.Name))
	}
	if fields.Priority != nil {
		meta = append(meta, priorityLabel(fields.Priority.Name))
	}
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, detailTypeStyle.Render(" · ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")

	// Summary
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(fields.Summary))
	b.WriteString("\n\n")

	// Description
	b.WriteString(detailSectionStyle.Render("Description") + "\n")
	if v.loading {
		b.WriteString(detailTypeStyle.Render("Loading…") + "\n")
	} else if desc := jira.ADFText(fields.Description); desc != "" {
		b.WriteString(desc)
		b.WriteString("\n")
	} else {
		b.WriteString(detailTypeStyle.Render("No description") + "\n")
	}

	// Fields section
	b.WriteString("\n")
	b.WriteString(renderSection("Fields", maxWidth))

	b.WriteString(renderField("Assignee", userName(fields.Assignee, "Unassigned")))
	b.WriteString(renderField("Reporter", userName(fields.Reporter, "")))
	b.WriteString(renderField("Project", namedValue(fields.Project)))
	if v.loading {
		b.WriteString(renderField("Labels", "Loading…"))
	} else {
		b.WriteString(renderField("Labels", labelsValue(fields.Labels)))
	}
	b.WriteString(renderField("Created", formatDetailDate(fields.Created)))
	b.WriteString(renderField("Updated", formatDetailDate(fields.Updated)))
	b.WriteString(renderField("Due", formatDetailDate(fields.DueDate)))

	// Subtasks (only available from full fetch)
	if !v.loading && len(fields.Subtasks) > 0 {
		b.WriteString("\n")
		b.WriteString(renderSection(fmt.Sprintf("Subtasks (%d)", len(fields.Subtasks)), maxWidth))
		for _, sub := range fields.Subtasks {
			icon := detailSubtaskOpen.Render("·")
			if sub.Fields.Status != nil && sub.Fields.Status.StatusCategory != nil &&
				sub.Fields.Status.StatusCategory.Key == "done" {
				icon = detailSubtaskDone.Render("✓")
			}
			b.WriteString(fmt.Sprintf("  %s %s  %s\n",
				icon,
				detailKeyStyle.Render(sub.Key),
				sub.Fields.Summary,
			))
		}
	}

	// Comments
	if v.commentsLoading {
		b.WriteString("\n")
		b.WriteString(renderSection("Comments", maxWidth))
		b.WriteString(detailTypeStyle.Render("  Loading…") + "\n")
	} else if len(v.comments) > 0 {
		b.WriteString("\n")
		b.WriteString(renderSection(fmt.Sprintf("Comments (%d)", len(v.comments)), maxWidth))
		for i, c := range v.comments {
			author := "Unknown"
			if c.Author != nil {
				author = c.Author.DisplayName
			}
			date := formatDetailDate(c.Created)
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				lipgloss.NewStyle().Bold(true).Render(author),
				detailTypeStyle.Render(date),
			))
			body := jira.ADFText(c.Body)
			if body != "" {
				// Indent comment body
				for _, line := range strings.Split(body, "\n") {
					b.WriteString("  " + line + "\n")
				}
			}
			if i < len(v.comments)-1 {
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// Update processes key events for the detail view's viewport.
func (v *issueDetailView) Update(msg tea.Msg) tea.Cmd {
	if !v.ready {
		return nil
	}
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

// View renders the detail view viewport.
func (v *issueDetailView) View() string {
	if !v.ready {
		return loadingStyle.Render("Loading...")
	}
	return v.viewport.View()
}

// setSize updates the viewport dimensions.
func (v *issueDetailView) setSize(width, height int) {
	v.width = width
	v.height = height
	if v.ready {
		v.buildViewport()
	}
}

// setIssue replaces the displayed issue once the full fetch lands.
func (v *issueDetailView) setIssue(issue jira.Issue) {
	v.issue = issue
	v.loading = false
	v.buildViewport()
}

// setComments installs the fetched comments.
func (v *issueDetailView) setComments(comments []jira.Comment) {
	v.comments = comments
	v.commentsLoading = false
	if v.ready {
		v.buildViewport()
	}
}

// --- Helpers ---

func renderSection(label string, maxWidth int) string {
	// "─── Label ─────────"
	// prefix "─── " = 4 display cols, " " after label = 1
	remaining := maxWidth - 4 - len(label) - 1
	if remaining < 0 {
		remaining = 0
	}
	tail := strings.Repeat("─", remaining)
	return detailSectionStyle.Render(fmt.Sprintf("─── %s %s", label, tail)) + "\n"
}

func renderField(label, value string) string {
	if value == "" {
		return ""
	}
	return detailLabelStyle.Render(label) + detailValueStyle.Render(value) + "\n"
}

func userName(user *jira.User, fallback string) string {
	if user == nil {
		return fallback
	}
	return user.DisplayName
}

func namedValue(n *jira.Named) string {
	if n == nil {
		return ""
	}
	return n.Name
}

func labelsValue(labels []string) string {
	if len(labels) == 0 {
		return "None"
	}
	return strings.Join(labels, ", ")
}

func formatDetailDate(s string) string {
	if s == "" {
		return ""
	}
	// Jira dates are ISO 8601: "2025-07-01T10:23:45.000+0000"
	// Show just "2025-07-01 10:23"
	if len(s) >= 16 && s[10] == 'T' {
		return s[:10] + " " + s[11:16]
	}
	return s
}
