package status

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m StatusModel) Init() tea.Cmd {
	return nil
}

func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case UpdateMsg:
		m.conversation = msg.Conversation
		m.mode = msg.Mode
		m.newBelow = msg.NewBelow
		m.total = msg.Total
		return m, nil

	case StartLoadingMsg:
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.err = nil
		return m, m.spinner.Tick

	case StopLoadingMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}
