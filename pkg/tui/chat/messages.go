package chat

import "github.com/killallgit/scrollback/pkg/scroll"

type (
	// ErrMsg surfaces a failure in the viewer
	ErrMsg error

	// feedTickMsg asks the feed for the next incoming message
	feedTickMsg struct{}

	// jumpFrameMsg advances a smooth jump by one frame
	jumpFrameMsg struct{}

	// loadDoneMsg carries the completion of a history load
	loadDoneMsg struct {
		result scroll.LoadResult
	}
)

// OpenConversationMsg switches the viewer to another conversation
type OpenConversationMsg struct {
	ID string
}
