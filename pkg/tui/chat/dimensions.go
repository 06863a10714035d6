package chat

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/scrollback/pkg/scroll"
)

// chromeHeight is the indicator line plus the status bar
const chromeHeight = 2

// handleWindowResize updates all dimensions when window size changes. A
// live viewport stays anchored to the newest message.
func (m *Model) handleWindowResize(width, height int) tea.Cmd {
	m.width = width
	m.height = height

	m.viewport.Width = width
	m.viewport.Height = max(1, height-chromeHeight)

	if !m.ready {
		m.ready = true
		return m.applySequence(m.pager.Sequence())
	}

	live := m.list.Mode() == scroll.ModeLive && !m.jumpActive
	m.viewport.SetContent(m.renderAnnotation(m.annotation))
	if live {
		m.viewport.GotoBottom()
	}
	return m.report(scroll.SourceProgrammatic, true)
}
