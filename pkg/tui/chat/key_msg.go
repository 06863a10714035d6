package chat

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/scrollback/pkg/scroll"
)

const mouseWheelLines = 3

func handleKeyMsg(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return tea.Quit
	case "up", "k":
		m.viewport.ScrollUp(1)
	case "down", "j":
		m.viewport.ScrollDown(1)
	case "pgup", "b":
		m.viewport.PageUp()
	case "pgdown", "f", " ":
		m.viewport.PageDown()
	case "ctrl+u":
		m.viewport.ScrollUp(max(1, m.viewport.Height/2))
	case "ctrl+d":
		m.viewport.ScrollDown(max(1, m.viewport.Height/2))
	case "home", "g":
		m.viewport.GotoTop()
	case "end", "G":
		m.list.JumpToBottom()
		return m.flush()
	default:
		return nil
	}

	// any gesture takes over from a running jump
	m.jumpActive = false
	return m.report(scroll.SourceUser, false)
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.viewport.ScrollUp(mouseWheelLines)
	case tea.MouseButtonWheelDown:
		m.viewport.ScrollDown(mouseWheelLines)
	default:
		return nil
	}

	m.jumpActive = false
	return m.report(scroll.SourceUser, false)
}
