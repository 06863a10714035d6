package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/scrollback/pkg/store"
	"github.com/killallgit/scrollback/pkg/tui/chat"
	"github.com/killallgit/scrollback/pkg/tui/switcher"
)

// ConversationLister supplies the switcher's entries
type ConversationLister interface {
	Conversations() ([]store.Summary, error)
}

type rootModel struct {
	chat          *chat.Model
	conversations ConversationLister
	switcher      *switcher.Model // nil while closed
	current       string
	now           func() time.Time
	width         int
	height        int
}

func (m *rootModel) Init() tea.Cmd {
	return m.chat.Init()
}

func (m *rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case m.switcher != nil:
			return m, m.updateSwitcher(msg)
		case key.Matches(msg, keys.Switch):
			m.openSwitcher()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case switcher.SelectedMsg:
		m.switcher = nil
		m.current = msg.ID
		return m.forward(chat.OpenConversationMsg{ID: msg.ID})

	case switcher.ClosedMsg:
		m.switcher = nil
		return m, nil
	}

	return m.forward(msg)
}

func (m *rootModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := m.chat.Update(msg)
	return m, cmd
}

func (m *rootModel) openSwitcher() {
	if m.conversations == nil {
		return
	}
	convs, err := m.conversations.Conversations()
	if err != nil {
		m.chat.Update(chat.ErrMsg(err))
		return
	}
	sw := switcher.New(convs, m.current, m.now())
	m.switcher = &sw
}

func (m *rootModel) updateSwitcher(msg tea.Msg) tea.Cmd {
	sw, cmd := m.switcher.Update(msg)
	m.switcher = &sw
	return cmd
}

func (m *rootModel) View() string {
	if m.switcher == nil {
		return m.chat.View()
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Render(m.switcher.View())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func newRootModel(c *chat.Model, conversations ConversationLister, current string) *rootModel {
	return &rootModel{
		chat:          c,
		conversations: conversations,
		current:       current,
		now:           time.Now,
	}
}
