package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/scrollback/pkg/chat"
	"github.com/killallgit/scrollback/pkg/scroll"
	"github.com/killallgit/scrollback/pkg/tui/chat/status"
)

func (m *Model) Init() tea.Cmd {
	return m.feedTick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cmds = append(cmds, m.handleWindowResize(msg.Width, msg.Height))
		cmds = append(cmds, m.updateStatus(msg))

	case tea.KeyMsg:
		cmds = append(cmds, handleKeyMsg(m, msg))

	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))

	case feedTickMsg:
		cmds = append(cmds, m.handleFeedTick(), m.feedTick())

	case jumpFrameMsg:
		cmds = append(cmds, m.jumpFrame())

	case loadDoneMsg:
		cmds = append(cmds, m.handleLoadDone(msg.result))

	case OpenConversationMsg:
		cmds = append(cmds, m.openConversation(msg.ID))

	case ErrMsg:
		m.err = msg
		return m, nil

	default:
		// spinner ticks
		cmds = append(cmds, m.updateStatus(msg))
	}

	cmds = append(cmds, m.syncStatus())
	return m, tea.Batch(cmds...)
}

// applySequence hands a new message window to the list, renders it and
// carries out the list's scroll commands
func (m *Model) applySequence(seq *chat.Sequence) tea.Cmd {
	upd := m.list.SetMessages(seq)

	if upd.ConversationChanged {
		m.annotation = nil
		m.jumpActive = false
		m.viewport.GotoTop()
	}
	if upd.Annotation != m.annotation {
		m.setContent(upd.Annotation)
	}

	return tea.Batch(m.flush(), m.report(scroll.SourceProgrammatic, true))
}

func (m *Model) handleFeedTick() tea.Cmd {
	if m.feed == nil {
		return nil
	}

	seq, err := m.pager.Append(m.feed())
	if err != nil {
		m.log.Error("feed append failed: %v", err)
		m.err = err
		return nil
	}
	return m.applySequence(seq)
}

func (m *Model) feedTick() tea.Cmd {
	if m.feed == nil || m.feedInterval <= 0 {
		return nil
	}
	return tea.Tick(m.feedInterval, func(t time.Time) tea.Msg { return feedTickMsg{} })
}

func (m *Model) handleLoadDone(result scroll.LoadResult) tea.Cmd {
	// a stale result belongs to a conversation already replaced; the
	// spinner now tracks the current one's loads
	if result.Stale {
		return nil
	}

	cmd := m.updateStatus(status.StopLoadingMsg{Err: result.Err})
	if result.Err != nil {
		return cmd
	}
	return tea.Batch(cmd, m.applySequence(m.pager.Sequence()))
}

func (m *Model) openConversation(id string) tea.Cmd {
	seq, err := m.pager.Open(id)
	if err != nil {
		m.log.Error("open conversation %q: %v", id, err)
		m.err = err
		return nil
	}
	m.err = nil
	return tea.Batch(m.updateStatus(status.StopLoadingMsg{}), m.applySequence(seq))
}

func (m *Model) updateStatus(msg tea.Msg) tea.Cmd {
	statusModel, cmd := m.statusBar.Update(msg)
	m.statusBar = statusModel.(status.StatusModel)
	return cmd
}

func (m *Model) syncStatus() tea.Cmd {
	state := m.list.State()
	mode := scroll.ModeReviewing
	if state.IsAtBottom {
		mode = scroll.ModeLive
	}
	return m.updateStatus(status.UpdateMsg{
		Conversation: m.pager.Conversation(),
		Mode:         mode,
		NewBelow:     state.NewBelow,
		Total:        m.annotation.Len(),
	})
}
