package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/scrollback/pkg/scroll"
	"github.com/killallgit/scrollback/pkg/tui/chat/status"
)

const (
	frameInterval = 16 * time.Millisecond

	// rowHeight converts terminal rows to the nominal pixels the scroll
	// thresholds are tuned in
	rowHeight = 20
)

func createViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = false // wheel events are routed through the model
	return vp
}

// viewportHost records the list's scroll commands. The model carries them
// out once the current content is rendered.
type viewportHost struct {
	instant bool
	smooth  bool
}

func (h *viewportHost) ScrollToBottomInstant() { h.instant = true }

func (h *viewportHost) ScrollToBottomSmooth() { h.smooth = true }

func (m *Model) metrics() scroll.ViewportMetrics {
	return scroll.ViewportMetrics{
		ScrollOffset:  float64(m.viewport.YOffset * rowHeight),
		VisibleHeight: float64(m.viewport.Height * rowHeight),
		ContentHeight: float64(m.viewport.TotalLineCount() * rowHeight),
	}
}

// report hands the viewport position to the list and returns a command
// waiting on any history load it triggered
func (m *Model) report(src scroll.Source, resize bool) tea.Cmd {
	out := m.list.HandleViewport(scroll.ViewportEvent{Metrics: m.metrics(), Source: src, Resize: resize})
	if out.Load == nil {
		return nil
	}
	return tea.Batch(m.updateStatus(status.StartLoadingMsg{}), waitForLoad(out.Load))
}

// flush carries out scroll commands recorded since the last flush
func (m *Model) flush() tea.Cmd {
	var cmds []tea.Cmd

	if m.host.instant {
		m.host.instant = false
		m.viewport.GotoBottom()
		cmds = append(cmds, m.report(scroll.SourceProgrammatic, false))
	}
	if m.host.smooth {
		m.host.smooth = false
		if !m.jumpActive {
			m.jumpActive = true
			cmds = append(cmds, frameCmd())
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) maxOffset() int {
	return max(0, m.viewport.TotalLineCount()-m.viewport.Height)
}

// jumpFrame eases the viewport towards the bottom, covering a third of the
// remaining distance per frame
func (m *Model) jumpFrame() tea.Cmd {
	if !m.jumpActive {
		return nil
	}

	remaining := m.maxOffset() - m.viewport.YOffset
	if remaining <= 0 {
		m.jumpActive = false
		return m.report(scroll.SourceProgrammatic, false)
	}

	m.viewport.ScrollDown(max(1, remaining/3))
	cmd := m.report(scroll.SourceProgrammatic, false)
	if m.viewport.YOffset >= m.maxOffset() {
		m.jumpActive = false
		return cmd
	}
	return tea.Batch(cmd, frameCmd())
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return jumpFrameMsg{} })
}

func waitForLoad(ch <-chan scroll.LoadResult) tea.Cmd {
	return func() tea.Msg {
		return loadDoneMsg{result: <-ch}
	}
}
