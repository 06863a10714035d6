package status

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/scrollback/pkg/scroll"
	"github.com/killallgit/scrollback/pkg/tui/theme"
)

// StatusModel represents the status bar component
type StatusModel struct {
	spinner      spinner.Model
	conversation string
	mode         scroll.Mode
	newBelow     int
	total        int
	loading      bool
	err          error
	width        int
}

// NewStatusModel creates a new status bar model
func NewStatusModel() StatusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorYellow)

	return StatusModel{
		spinner: s,
		mode:    scroll.ModeLive,
	}
}

func (m StatusModel) Loading() bool { return m.loading }

func (m StatusModel) Err() error { return m.err }
