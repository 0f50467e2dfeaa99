// Package tui provides the interactive review and confirmation prompts.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	hperrors "github.com/chazuruo/histprune/internal/errors"
	"github.com/chazuruo/histprune/internal/prune"
)

type reviewKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Toggle  key.Binding
	All     key.Binding
	None    key.Binding
	Filter  key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

func (k reviewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Toggle, k.All, k.None, k.Filter, k.Quit}
}

func (k reviewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Toggle, k.All, k.None},
		{k.Filter, k.Confirm, k.Quit},
	}
}

var reviewKeys = reviewKeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Top:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
	Bottom:  key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
	Toggle:  key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "keep/remove")),
	All:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "remove all")),
	None:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "keep all")),
	Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "cancel")),
}

// ReviewModel is a Bubble Tea model for reviewing removal candidates.
// Every candidate starts out marked for removal; the user toggles lines
// back to keep them.
type ReviewModel struct {
	// Candidates is the full list of lines proposed for removal.
	Candidates []prune.Candidate

	// Kept holds the candidate positions the user chose to keep.
	Kept map[int]bool

	// Filtered is the list of candidate positions matching the filter.
	Filtered []int

	// FilterInput is the text input for filtering.
	FilterInput textinput.Model

	// Filtering is true while the filter input has focus.
	Filtering bool

	// Quit indicates whether the user canceled the review.
	Quit bool

	// Confirmed indicates whether the user applied the review.
	Confirmed bool

	cursor int
	help   help.Model

	normalStyle lipgloss.Style
	cursorStyle lipgloss.Style
	keptStyle   lipgloss.Style
	reasonStyle lipgloss.Style
	dimStyle    lipgloss.Style
}

// NewReviewModel creates a review model over candidates.
func NewReviewModel(candidates []prune.Candidate) ReviewModel {
	ti := textinput.New()
	ti.Placeholder = "Filter commands or reasons..."

	filtered := make([]int, len(candidates))
	for i := range candidates {
		filtered[i] = i
	}

	return ReviewModel{
		Candidates:  candidates,
		Kept:        make(map[int]bool),
		Filtered:    filtered,
		FilterInput: ti,
		help:        help.New(),
		normalStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		cursorStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
		keptStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		reasonStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Italic(true),
		dimStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Init implements tea.Model.
func (m ReviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.Filtering {
		return m.updateFilter(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, reviewKeys.Quit):
		m.Quit = true
		return m, tea.Quit

	case key.Matches(keyMsg, reviewKeys.Confirm):
		m.Confirmed = true
		return m, tea.Quit

	case key.Matches(keyMsg, reviewKeys.Filter):
		m.Filtering = true
		return m, m.FilterInput.Focus()

	case key.Matches(keyMsg, reviewKeys.Toggle):
		if len(m.Filtered) > 0 {
			pos := m.Filtered[m.cursor]
			if m.Kept[pos] {
				delete(m.Kept, pos)
			} else {
				m.Kept[pos] = true
			}
		}

	case key.Matches(keyMsg, reviewKeys.All):
		for _, pos := range m.Filtered {
			delete(m.Kept, pos)
		}

	case key.Matches(keyMsg, reviewKeys.None):
		for _, pos := range m.Filtered {
			m.Kept[pos] = true
		}

	case key.Matches(keyMsg, reviewKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, reviewKeys.Down):
		if m.cursor < len(m.Filtered)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, reviewKeys.Top):
		m.cursor = 0

	case key.Matches(keyMsg, reviewKeys.Bottom):
		m.cursor = max(0, len(m.Filtered)-1)
	}

	return m, nil
}

func (m ReviewModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.Filtering = false
		m.FilterInput.Blur()
		return m, nil
	case tea.KeyCtrlC:
		m.Quit = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	old := m.FilterInput.Value()
	m.FilterInput, cmd = m.FilterInput.Update(msg)
	if m.FilterInput.Value() != old {
		m.applyFilter(m.FilterInput.Value())
	}
	return m, cmd
}

// applyFilter keeps candidates whose command or reason contains query.
func (m *ReviewModel) applyFilter(query string) {
	query = strings.ToLower(query)

	m.Filtered = nil
	for i, c := range m.Candidates {
		if strings.Contains(strings.ToLower(c.Command), query) ||
			strings.Contains(strings.ToLower(c.Reason), query) {
			m.Filtered = append(m.Filtered, i)
		}
	}

	if m.cursor >= len(m.Filtered) {
		m.cursor = max(0, len(m.Filtered)-1)
	}
}

// View implements tea.Model.
func (m ReviewModel) View() string {
	if len(m.Candidates) == 0 {
		return "\n  Nothing to remove.\n"
	}

	var b strings.Builder

	b.WriteString("\n  ")
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Render("Review removals"))
	b.WriteString("\n\n")

	if m.Filtering || m.FilterInput.Value() != "" {
		b.WriteString("  Filter: ")
		b.WriteString(m.FilterInput.View())
		b.WriteString("\n\n")
	}

	b.WriteString("  ")
	b.WriteString(m.dimStyle.Render(fmt.Sprintf("%d shown, %d to remove, %d kept",
		len(m.Filtered), len(m.Candidates)-len(m.Kept), len(m.Kept))))
	b.WriteString("\n\n")

	if len(m.Filtered) == 0 {
		b.WriteString("  (no matches)\n")
	} else {
		start := max(0, m.cursor-10)
		end := min(len(m.Filtered), m.cursor+11)

		for i := start; i < end; i++ {
			b.WriteString(m.renderRow(i))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n  ")
	b.WriteString(m.help.View(reviewKeys))
	b.WriteString("\n")

	return b.String()
}

func (m ReviewModel) renderRow(i int) string {
	pos := m.Filtered[i]
	c := m.Candidates[pos]

	mark := "[x]"
	style := m.normalStyle
	if m.Kept[pos] {
		mark = "[ ]"
		style = m.keptStyle
	}
	if i == m.cursor {
		style = m.cursorStyle
	}

	cmd := c.Command
	if runes := []rune(cmd); len(runes) > 50 {
		cmd = string(runes[:47]) + "..."
	}

	return fmt.Sprintf("  %s %s  %s", mark, style.Render(cmd), m.reasonStyle.Render(c.Reason))
}

// Removals returns the candidates still marked for removal, in order.
func (m ReviewModel) Removals() []prune.Candidate {
	out := make([]prune.Candidate, 0, len(m.Candidates)-len(m.Kept))
	for i, c := range m.Candidates {
		if !m.Kept[i] {
			out = append(out, c)
		}
	}
	return out
}

// DidQuit returns true if the user canceled the review.
func (m ReviewModel) DidQuit() bool {
	return m.Quit
}

// DidConfirm returns true if the user applied the review.
func (m ReviewModel) DidConfirm() bool {
	return m.Confirmed
}

// Review runs the review program and returns the candidates the user left
// marked. Canceling returns errors.ErrCanceled.
func Review(candidates []prune.Candidate) ([]prune.Candidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	final, err := tea.NewProgram(NewReviewModel(candidates), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, fmt.Errorf("review: %w", err)
	}

	return reviewResult(final.(ReviewModel))
}

// reviewResult turns a finished model into the accepted removals.
func reviewResult(m ReviewModel) ([]prune.Candidate, error) {
	if m.DidQuit() || !m.DidConfirm() {
		return nil, hperrors.ErrCanceled
	}
	return m.Removals(), nil
}
