package status

import "github.com/killallgit/scrollback/pkg/scroll"

// UpdateMsg refreshes the scroll summary
type UpdateMsg struct {
	Conversation string
	Mode         scroll.Mode
	NewBelow     int
	Total        int
}

// StartLoadingMsg indicates a history load has started
type StartLoadingMsg struct{}

// StopLoadingMsg indicates the history load finished, with Err on failure
type StopLoadingMsg struct {
	Err error
}
