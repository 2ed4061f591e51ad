// Package tui is the interactive bubbletea front end: a JQL prompt
// with completion, a results table, and an issue detail view.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/glouie/jirapeek/internal/history"
	"github.com/glouie/jirapeek/internal/jira"
	"github.com/glouie/jirapeek/internal/jql"
)

// --- Messages ---

// connStatusMsg is sent when the startup auth check completes.
type connStatusMsg struct {
	user *jira.User
	err  error
}

// autocompleteMsg delivers JQL autocomplete metadata.
type autocompleteMsg struct {
	data *jira.AutocompleteData
	err  error
}

// searchResultMsg delivers a page of search results (or an error).
type searchResultMsg struct {
	jql        string
	result     *jira.SearchResult
	appendPage bool // true when this is a follow-up page
	err        error
}

// issueDetailMsg delivers a fully-fetched issue for the detail view.
type issueDetailMsg struct {
	issueKey string
	issue    *jira.Issue
	err      error
}

// commentsMsg delivers the comments for the detail view.
type commentsMsg struct {
	issueKey string
	comments []jira.Comment
	err      error
}

// flashMsg sets a temporary status message.
type flashMsg struct {
	text  string
	isErr bool
}

// overlayPurpose identifies what a completed overlay selection is for.
type overlayPurpose int

const (
	overlayNone overlayPurpose = iota
	overlaySearchHistory
	overlayIssueHistory
)

// --- App model ---

// Options configures the App.
type Options struct {
	MaxResults int
	Fields     []string
	Debounce   time.Duration
	Searches   *history.Store
	Issues     *history.Store
	Logger     *zap.Logger
}

// App is the root bubbletea model for jirapeek.
type App struct {
	width  int
	height int
	ready  bool

	client    *jira.Client
	logger    *zap.Logger
	user      *jira.User
	connErr   error
	checking  bool
	connected bool

	prompt  searchPrompt
	results resultsView
	detail  *issueDetailView

	overlay        overlay
	overlayPurpose overlayPurpose

	searches *history.Store
	issues   *history.Store

	maxResults int
	fields     []string

	flash      string // transient status message
	flashIsErr bool   // true if the flash is an error
}

// NewApp creates a new App model.
// Pass nil client to run without a Jira connection (for testing).
func NewApp(client *jira.Client, opts Options) App {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 50
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 200 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	prompt := newSearchPrompt(opts.Debounce)
	prompt.fetchValues = cmdFetchSuggestions(client)

	return App{
		client:     client,
		logger:     opts.Logger,
		checking:   client != nil,
		prompt:     prompt,
		results:    newResultsView(),
		searches:   opts.Searches,
		issues:     opts.Issues,
		maxResults: opts.MaxResults,
		fields:     opts.Fields,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.prompt.focus()}
	if a.client != nil {
		cmds = append(cmds, a.checkConnection())
	}
	return tea.Batch(cmds...)
}

// checkConnection returns a Cmd that verifies Jira credentials.
func (a App) checkConnection() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		user, err := client.GetMyself(context.Background())
		return connStatusMsg{user: user, err: err}
	}
}

// cmdFetchAutocomplete loads the JQL completion metadata.
func (a App) cmdFetchAutocomplete() tea.Cmd {
	if a.client == nil {
		return nil
	}
	client := a.client
	return func() tea.Msg {
		data, err := client.AutocompleteData(context.Background())
		return autocompleteMsg{data: data, err: err}
	}
}

// cmdFetchSuggestions builds the remote value fetcher for the prompt.
func cmdFetchSuggestions(client *jira.Client) fetchValuesFunc {
	return func(field, prefix string, gen int) tea.Cmd {
		if client == nil {
			return func() tea.Msg { return suggestionsMsg{gen: gen} }
		}
		return func() tea.Msg {
			values, err := client.SuggestFieldValues(context.Background(), field, prefix)
			if err != nil {
				return suggestionsMsg{gen: gen, err: err}
			}
			return suggestionsMsg{gen: gen, items: jql.FromSuggestions(values)}
		}
	}
}

// cmdSearch runs a JQL search. token carries pagination state for
// follow-up pages and is sent to Jira exactly as received.
func (a App) cmdSearch(query, token string, appendPage bool) tea.Cmd {
	if a.client == nil {
		return nil
	}
	client := a.client
	fields := a.fields
	maxResults := a.maxResults
	return func() tea.Msg {
		result, err := client.SearchIssues(context.Background(), jira.SearchOptions{
			JQL:           query,
			Fields:        fields,
			MaxResults:    maxResults,
			NextPageToken: token,
		})
		return searchResultMsg{jql: query, result: result, appendPage: appendPage, err: err}
	}
}

// cmdFetchIssue fetches the full issue plus its comments.
func (a App) cmdFetchIssue(issueKey string) tea.Cmd {
	if a.client == nil {
		return nil
	}
	client := a.client
	fetchIssue := func() tea.Msg {
		issue, err := client.GetIssue(context.Background(), issueKey)
		return issueDetailMsg{issueKey: issueKey, issue: issue, err: err}
	}
	fetchComments := func() tea.Msg {
		comments, err := client.GetComments(context.Background(), issueKey)
		return commentsMsg{issueKey: issueKey, comments: comments, err: err}
	}
	return tea.Batch(fetchIssue, fetchComments)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.results.setSize(a.width, a.tableHeight())
		if a.detail != nil {
			a.detail.setSize(a.width, a.height)
		}

	case connStatusMsg:
		a.checking = false
		if msg.err != nil {
			a.connErr = msg.err
		} else {
			a.user = msg.user
			a.connected = true
			return a, a.cmdFetchAutocomplete()
		}

	case autocompleteMsg:
		if msg.err != nil {
			// Completion falls back to static keywords; not fatal.
			a.logger.Debug("autocomplete metadata unavailable", zap.Error(msg.err))
			a.prompt.setEngine(jql.NewEngine(nil))
		} else {
			a.prompt.setEngine(jql.NewEngine(msg.data))
		}

	case completionTickMsg:
		return a, a.prompt.handleTick(msg)

	case suggestionsMsg:
		a.prompt.handleSuggestions(msg)

	case searchResultMsg:
		if msg.err != nil {
			if msg.appendPage {
				a.results.loadingMore = false
				a.flash = msg.err.Error()
				a.flashIsErr = true
			} else {
				a.results.setError(msg.err.Error())
			}
		} else if msg.appendPage {
			a.results.appendResult(msg.result)
		} else {
			a.results.setResult(msg.jql, msg.result)
		}

	case issueDetailMsg:
		if a.detail == nil || a.detail.issue.Key != msg.issueKey {
			break
		}
		if msg.err != nil {
			a.flash = msg.err.Error()
			a.flashIsErr = true
			a.detail.loading = false
			a.detail.buildViewport()
		} else if msg.issue != nil {
			a.detail.setIssue(*msg.issue)
		}

	case commentsMsg:
		if a.detail == nil || a.detail.issue.Key != msg.issueKey {
			break
		}
		if msg.err != nil {
			a.detail.setComments(nil)
		} else {
			a.detail.setComments(msg.comments)
		}

	case flashMsg:
		a.flash = msg.text
		a.flashIsErr = msg.isErr

	case tea.KeyMsg:
		a.flash = "" // clear flash on any keypress
		return a.handleKey(msg)
	}
	return a, nil
}

// handleKey processes key input.
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global keys always work
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// If an overlay is active, route ALL keys to it
	if a.overlay != nil {
		var cmd tea.Cmd
		a.overlay, cmd = a.overlay.Update(msg)
		if isDone, result := a.overlay.done(); isDone {
			return a.handleOverlayResult(result)
		}
		return a, cmd
	}

	// Detail view on top
	if a.detail != nil {
		switch key {
		case "q":
			return a, tea.Quit
		case "esc":
			a.detail = nil
			return a, nil
		case "y":
			return a.copyToClipboard(a.detail.issue.Key, "Copied "+a.detail.issue.Key), nil
		case "u":
			if a.client != nil {
				return a.copyToClipboard(a.client.BrowseURL(a.detail.issue.Key), "Copied URL"), nil
			}
			return a, nil
		}
		// Delegate remaining keys to viewport (j/k scrolling, etc.)
		return a, a.detail.Update(msg)
	}

	// Prompt focused: completion and editing first, app keys second.
	if a.prompt.focused() {
		switch key {
		case "ctrl+r":
			return a.openSearchHistory()
		case "esc":
			if cmd, handled := a.prompt.handleKey(msg); handled {
				return a, cmd
			}
			// Dropdown closed: leave the prompt if there is anything below.
			if a.results.state != resultsIdle {
				a.prompt.blur()
			}
			return a, nil
		case "enter":
			if cmd, handled := a.prompt.handleKey(msg); handled {
				return a, cmd
			}
			return a.submitSearch()
		}
		cmd, _ := a.prompt.handleKey(msg)
		return a, cmd
	}

	// Results-level keys
	switch key {
	case "q":
		return a, tea.Quit

	case "/":
		return a, a.prompt.focus()

	case "ctrl+r", "s":
		return a.openSearchHistory()

	case "i":
		return a.openIssueHistory()

	case "r":
		if a.connected && a.results.jql != "" {
			a.results.setLoading()
			return a, a.cmdSearch(a.results.jql, "", false)
		}

	case "n":
		// Fetch the next page using the continuation token as-is.
		if a.connected && a.results.hasMore() {
			a.results.loadingMore = true
			return a, a.cmdSearch(a.results.jql, a.results.nextPageToken, true)
		}

	case "enter":
		if issue := a.results.selectedIssue(); issue != nil {
			return a.openDetail(*issue)
		}

	case "y":
		if issue := a.results.selectedIssue(); issue != nil {
			return a.copyToClipboard(issue.Key, "Copied "+issue.Key), nil
		}

	case "u":
		if issue := a.results.selectedIssue(); issue != nil && a.client != nil {
			return a.copyToClipboard(a.client.BrowseURL(issue.Key), "Copied URL"), nil
		}

	default:
		// Delegate to table for j/k/up/down scrolling
		if a.results.state == resultsReady {
			var cmd tea.Cmd
			a.results.table, cmd = a.results.table.Update(msg)
			return a, cmd
		}
	}

	return a, nil
}

// submitSearch runs the prompt's query and records it in history.
func (a App) submitSearch() (tea.Model, tea.Cmd) {
	query := strings.TrimSpace(a.prompt.value())
	if query == "" {
		return a, nil
	}
	if !a.connected {
		a.flash = "Not connected to Jira"
		a.flashIsErr = true
		return a, nil
	}
	if a.searches != nil {
		if err := a.searches.Add(query); err != nil {
			a.logger.Debug("saving search history", zap.Error(err))
		}
	}
	a.prompt.blur()
	a.results.setLoading()
	return a, a.cmdSearch(query, "", false)
}

// openDetail pushes the detail view and records the issue in history.
func (a App) openDetail(issue jira.Issue) (tea.Model, tea.Cmd) {
	if a.issues != nil {
		if err := a.issues.Add(issue.Key); err != nil {
			a.logger.Debug("saving issue history", zap.Error(err))
		}
	}
	dv := newIssueDetailView(issue, a.width, a.height)
	a.detail = &dv
	return a, a.cmdFetchIssue(issue.Key)
}

// openSearchHistory shows the saved searches picker.
func (a App) openSearchHistory() (tea.Model, tea.Cmd) {
	entries := a.historyEntries(a.searches)
	if len(entries) == 0 {
		a.flash = "No search history"
		a.flashIsErr = false
		return a, nil
	}
	a.overlay = newSelectionOverlay("Search History", entries)
	a.overlayPurpose = overlaySearchHistory
	return a, nil
}

// openIssueHistory shows the viewed issues picker.
func (a App) openIssueHistory() (tea.Model, tea.Cmd) {
	entries := a.historyEntries(a.issues)
	if len(entries) == 0 {
		a.flash = "No issue history"
		a.flashIsErr = false
		return a, nil
	}
	a.overlay = newSelectionOverlay("Recent Issues", entries)
	a.overlayPurpose = overlayIssueHistory
	return a, nil
}

func (a App) historyEntries(store *history.Store) []selectionItem {
	if store == nil {
		return nil
	}
	saved := store.Load()
	items := make([]selectionItem, len(saved))
	for i, entry := range saved {
		items[i] = selectionItem{ID: entry, Label: entry}
	}
	return items
}

// handleOverlayResult processes a completed overlay selection.
func (a App) handleOverlayResult(result interface{}) (tea.Model, tea.Cmd) {
	purpose := a.overlayPurpose
	a.overlay = nil
	a.overlayPurpose = overlayNone

	item, ok := result.(*selectionItem)
	if !ok || item == nil {
		// User cancelled
		return a, nil
	}

	switch purpose {
	case overlaySearchHistory:
		a.prompt.setValue(item.ID)
		return a.submitSearch()

	case overlayIssueHistory:
		return a.openDetail(jira.Issue{Key: item.ID})
	}

	return a, nil
}

// copyToClipboard writes text to the system clipboard with a flash.
func (a App) copyToClipboard(text, okFlash string) App {
	if err := clipboard.WriteAll(text); err != nil {
		a.flash = "Clipboard unavailable"
		a.flashIsErr = true
	} else {
		a.flash = okFlash
		a.flashIsErr = false
	}
	return a
}

// tableHeight returns the height available for the results table.
func (a App) tableHeight() int {
	// Reserve: prompt bar (2) + margin (1) + status line (1)
	h := a.height - 4
	if h < 3 {
		h = 3
	}
	return h
}

// --- View ---

// View implements tea.Model.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, titleStyle.Render("jirapeek"))
	sections = append(sections, a.prompt.viewBar())

	if dropdown := a.prompt.viewDropdown(); dropdown != "" {
		sections = append(sections, dropdown)
	}

	switch {
	case a.overlay != nil:
		sections = append(sections, a.overlay.View(a.width, a.height-2))
	case a.detail != nil:
		sections = append(sections, a.detail.View())
	case a.checking:
		sections = append(sections, loadingStyle.Render("Connecting to Jira..."))
	case a.connErr != nil:
		sections = append(sections, errorStyle.Render(
			fmt.Sprintf("Connection failed: %v", a.connErr),
		))
	default:
		sections = append(sections, a.renderResults())
	}

	sections = append(sections, a.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderResults draws the results area under the prompt.
func (a App) renderResults() string {
	switch a.results.state {
	case resultsIdle:
		return emptyStyle.Render("Type a JQL query and press enter.")
	case resultsLoading:
		return loadingStyle.Render("Searching...")
	case resultsError:
		return errorStyle.Render(a.results.errMsg)
	case resultsEmpty:
		return emptyStyle.Render("No issues found")
	}

	parts := []string{a.results.table.View()}
	if a.results.loadingMore {
		parts = append(parts, loadingStyle.Render("Loading more..."))
	} else if a.results.hasMore() {
		parts = append(parts, helpStyle.Render(fmt.Sprintf("%d loaded · n: next page", len(a.results.issues))))
	} else if a.results.total > 0 {
		parts = append(parts, helpStyle.Render(fmt.Sprintf("%d of %d issues", len(a.results.issues), a.results.total)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderStatusBar draws the bottom help/status line.
func (a App) renderStatusBar() string {
	var parts []string

	if a.user != nil {
		parts = append(parts, successStyle.Render("Connected as "+a.user.DisplayName))
	}

	// Flash message (transient feedback)
	if a.flash != "" {
		if a.flashIsErr {
			parts = append(parts, errorStyle.Render(a.flash))
		} else {
			parts = append(parts, successStyle.Render(a.flash))
		}
	}

	switch {
	case a.detail != nil:
		parts = append(parts, helpStyle.Render("j/k: scroll  y: copy key  u: copy url  esc: back  q: quit"))
	case a.prompt.focused():
		parts = append(parts, helpStyle.Render("tab: complete  enter: search  ctrl+r: history  esc: cancel"))
	default:
		parts = append(parts, helpStyle.Render("j/k: navigate  enter: open  /: edit query  n: next page  s/i: history  q: quit"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(parts, helpStyle.Render("  │  ")),
	)
}
