package switcher

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/killallgit/scrollback/pkg/store"
)

// SelectedMsg is sent when a conversation is picked
type SelectedMsg struct {
	ID string
}

// ClosedMsg is sent when the switcher is dismissed without a choice
type ClosedMsg struct{}

// conversationItem implements list.Item for a stored conversation
type conversationItem struct {
	summary store.Summary
	now     time.Time
}

func (i conversationItem) FilterValue() string { return i.summary.ID }
func (i conversationItem) Title() string       { return "#" + i.summary.ID }
func (i conversationItem) Description() string {
	count := fmt.Sprintf("%s messages", humanize.Comma(int64(i.summary.Count)))
	if i.summary.Last.CreatedAt.IsZero() {
		return count
	}
	return count + ", last " + humanize.RelTime(i.summary.Last.CreatedAt, i.now, "ago", "from now")
}

// Model represents the conversation switcher modal
type Model struct {
	list   list.Model
	width  int
	height int
}

// New creates a switcher over convs with current preselected
func New(convs []store.Summary, current string, now time.Time) Model {
	items := make([]list.Item, len(convs))
	selected := 0
	maxWidth := 0
	for i, c := range convs {
		item := conversationItem{summary: c, now: now}
		items[i] = item
		if c.ID == current {
			selected = i
		}
		maxWidth = max(maxWidth, lipgloss.Width(item.Title()), lipgloss.Width(item.Description()))
	}

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	// Style the selected item
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("170")).
		Background(lipgloss.Color("235"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("245"))

	delegate.Styles.NormalTitle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("250"))

	l := list.New(items, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(len(items) > 8)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Select(selected)

	// Add some padding for the list item styling
	listWidth := max(maxWidth+6, 24)
	l.SetSize(listWidth, min(len(items), 8)*delegate.Height())

	return Model{list: l}
}

// Init initializes the switcher
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the switcher
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			item, ok := m.list.SelectedItem().(conversationItem)
			if !ok {
				return m, closed
			}
			id := item.summary.ID
			return m, func() tea.Msg { return SelectedMsg{ID: id} }
		case "esc", "tab", "q":
			return m, closed
		}
	}

	// Let the list handle navigation
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func closed() tea.Msg { return ClosedMsg{} }

// View renders the switcher
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "no conversations"
	}
	return m.list.View()
}

// SelectedIndex returns the currently selected index
func (m Model) SelectedIndex() int {
	return m.list.Index()
}
