package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/scrollback/pkg/logger"
	"github.com/killallgit/scrollback/pkg/tui/chat"
)

// StartApp runs the viewer until the user quits or ctx is cancelled.
// conversations may be nil, which disables the switcher.
func StartApp(ctx context.Context, c *chat.Model, conversations ConversationLister, current string) error {
	root := newRootModel(c, conversations, current)
	p := tea.NewProgram(root,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	logger.Debug("starting viewer on %q", current)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}
