package tui

import (
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/glouie/jirapeek/internal/jql"
)

// completionTickMsg fires after the debounce delay. gen identifies the
// edit that scheduled it; a stale gen means the user kept typing and
// the tick is ignored.
type completionTickMsg struct {
	gen int
}

// suggestionsMsg delivers remote field-value candidates for gen.
type suggestionsMsg struct {
	gen   int
	items []jql.Candidate
	err   error
}

// fetchValuesFunc asynchronously fetches value suggestions for a field.
// The app wires this to the Jira client so the prompt stays testable
// without a connection.
type fetchValuesFunc func(field, prefix string, gen int) tea.Cmd

// searchPrompt is the JQL input line with syntax highlighting and a
// debounced completion dropdown.
type searchPrompt struct {
	input  textinput.Model
	engine *jql.Engine

	candidates []jql.Candidate
	analysis   jql.Analysis
	cursor     int
	open       bool // dropdown visible

	gen         int // bumped on every edit; stale ticks and fetches are dropped
	debounce    time.Duration
	fetchValues fetchValuesFunc
}

func newSearchPrompt(debounce time.Duration) searchPrompt {
	ti := textinput.New()
	ti.Placeholder = "project = PROJ and status != Done order by updated desc"
	ti.Prompt = "jql> "
	ti.CharLimit = 500
	return searchPrompt{
		input:    ti,
		engine:   jql.NewEngine(nil),
		debounce: debounce,
	}
}

// setEngine swaps in an engine built from fetched autocomplete metadata.
func (p *searchPrompt) setEngine(e *jql.Engine) {
	p.engine = e
}

func (p *searchPrompt) value() string {
	return p.input.Value()
}

func (p *searchPrompt) setValue(s string) {
	p.input.SetValue(s)
	p.input.CursorEnd()
	p.closeDropdown()
}

func (p *searchPrompt) focused() bool {
	return p.input.Focused()
}

func (p *searchPrompt) focus() tea.Cmd {
	return p.input.Focus()
}

func (p *searchPrompt) blur() {
	p.input.Blur()
	p.closeDropdown()
}

func (p *searchPrompt) closeDropdown() {
	p.open = false
	p.candidates = nil
	p.cursor = 0
}

// cursorOffset converts the text input's rune-indexed cursor into a
// byte offset into Value(). Analysis and candidate splicing both work
// in byte offsets, so runes before the cursor must be counted by size.
func (p *searchPrompt) cursorOffset() int {
	runes := []rune(p.input.Value())
	pos := min(p.input.Position(), len(runes))
	return len(string(runes[:pos]))
}

// bump invalidates pending completions and schedules a fresh tick.
func (p *searchPrompt) bump() tea.Cmd {
	p.gen++
	gen := p.gen
	return tea.Tick(p.debounce, func(time.Time) tea.Msg {
		return completionTickMsg{gen: gen}
	})
}

// handleTick computes completion candidates once typing has settled.
// It returns a fetch Cmd when the context calls for remote field values.
func (p *searchPrompt) handleTick(msg completionTickMsg) tea.Cmd {
	if msg.gen != p.gen || !p.focused() {
		return nil
	}
	p.analysis = jql.Analyze(p.input.Value(), p.cursorOffset())

	if field, ok := p.engine.NeedsValues(p.analysis); ok && p.fetchValues != nil {
		return p.fetchValues(field, p.analysis.Prefix, p.gen)
	}

	p.candidates = p.engine.Candidates(p.analysis)
	p.cursor = 0
	p.open = len(p.candidates) > 0
	return nil
}

// handleSuggestions installs remote value candidates, dropping stale ones.
func (p *searchPrompt) handleSuggestions(msg suggestionsMsg) {
	if msg.gen != p.gen || !p.focused() {
		return
	}
	if msg.err != nil || len(msg.items) == 0 {
		// Fall back to the local candidates for this context.
		p.candidates = p.engine.Candidates(p.analysis)
	} else {
		p.candidates = jql.FilterPrefix(msg.items, p.analysis.Prefix)
	}
	p.cursor = 0
	p.open = len(p.candidates) > 0
}

// accept replaces the word being completed with the selected candidate.
func (p *searchPrompt) accept() {
	if !p.open || p.cursor >= len(p.candidates) {
		return
	}
	chosen := p.candidates[p.cursor].Value
	text := p.input.Value()
	pos := p.cursorOffset()
	start := p.analysis.Start
	if start < 0 || start > pos || pos > len(text) {
		return
	}
	updated := text[:start] + chosen + text[pos:]
	p.input.SetValue(updated)
	// SetCursor counts runes, not bytes.
	p.input.SetCursor(utf8.RuneCountInString(text[:start]) + utf8.RuneCountInString(chosen))
	p.closeDropdown()
}

// handleKey processes prompt-local keys. handled is false when the app
// should act on the key instead (e.g. enter with no dropdown open).
func (p *searchPrompt) handleKey(msg tea.KeyMsg) (cmd tea.Cmd, handled bool) {
	switch msg.String() {
	case "tab":
		if p.open {
			p.accept()
			return p.bump(), true
		}
		return nil, false
	case "enter":
		if p.open {
			p.accept()
			return p.bump(), true
		}
		return nil, false
	case "down", "ctrl+n":
		if p.open {
			if p.cursor < len(p.candidates)-1 {
				p.cursor++
			}
			return nil, true
		}
		return nil, false
	case "up", "ctrl+p":
		if p.open {
			if p.cursor > 0 {
				p.cursor--
			}
			return nil, true
		}
		return nil, false
	case "esc":
		if p.open {
			p.closeDropdown()
			return nil, true
		}
		return nil, false
	}

	// Forward to the text input; any edit re-arms the debounce.
	before := p.input.Value()
	var inputCmd tea.Cmd
	p.input, inputCmd = p.input.Update(msg)
	if p.input.Value() != before {
		return tea.Batch(inputCmd, p.bump()), true
	}
	return inputCmd, true
}

// viewBar renders the prompt line. When unfocused it shows the query
// with JQL syntax highlighting instead of the raw input.
func (p *searchPrompt) viewBar() string {
	if p.focused() {
		return promptBarStyle.Render(p.input.View())
	}
	query := p.input.Value()
	if query == "" {
		return promptBarStyle.Render(helpStyle.Render("jql> press / to search"))
	}
	return promptBarStyle.Render(helpStyle.Render("jql> ") + jql.Highlight(query))
}

// viewDropdown renders the completion list under the prompt, or "".
func (p *searchPrompt) viewDropdown() string {
	if !p.open || len(p.candidates) == 0 {
		return ""
	}
	maxVisible := 8
	start := 0
	if p.cursor >= maxVisible {
		start = p.cursor - maxVisible + 1
	}

	var lines []string
	for i := start; i < len(p.candidates) && i < start+maxVisible; i++ {
		c := p.candidates[i]
		line := c.Value
		if c.Display != "" && c.Display != c.Value {
			line += completionDescStyle.Render("  " + c.Display)
		}
		if i == p.cursor {
			line = completionSelectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return completionBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
