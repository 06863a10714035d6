package chat

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	if !m.ready {
		return "\n  loading messages…"
	}

	return fmt.Sprintf(
		"%s\n%s\n%s",
		m.viewport.View(),
		m.indicator(),
		m.statusBar.View(),
	)
}

// indicator is the jump-to-bottom affordance while reviewing, and key help
// otherwise
func (m *Model) indicator() string {
	if m.err != nil {
		return m.styles.Error.Render("error: " + m.err.Error())
	}

	state := m.list.State()
	if !state.ShowJumpToBottom {
		return m.styles.Timestamp.Render("pgup/pgdn scroll · end jump to latest · tab conversations · q quit")
	}

	label := "↓ jump to latest (end)"
	if state.NewBelow > 0 {
		label = fmt.Sprintf("↓ %d new · jump to latest (end)", state.NewBelow)
	}
	return lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Center, m.styles.JumpToBottom.Render(label))
}
