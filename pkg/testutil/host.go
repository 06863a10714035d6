package testutil

import (
	"sync"

	"github.com/killallgit/scrollback/pkg/scroll"
)

// RecordingHost is a scroll.Host that records the commands it receives
type RecordingHost struct {
	mu    sync.Mutex
	calls []scroll.Reposition
	// OnCommand, when set, runs after each command is recorded
	OnCommand func(scroll.Reposition)
}

func (h *RecordingHost) ScrollToBottomInstant() { h.record(scroll.RepositionInstant) }

func (h *RecordingHost) ScrollToBottomSmooth() { h.record(scroll.RepositionSmooth) }

func (h *RecordingHost) record(r scroll.Reposition) {
	h.mu.Lock()
	h.calls = append(h.calls, r)
	cb := h.OnCommand
	h.mu.Unlock()

	if cb != nil {
		cb(r)
	}
}

// Calls returns a copy of every command in order
func (h *RecordingHost) Calls() []scroll.Reposition {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]scroll.Reposition(nil), h.calls...)
}

// Count returns how many commands of kind r were received
func (h *RecordingHost) Count(r scroll.Reposition) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, c := range h.calls {
		if c == r {
			n++
		}
	}
	return n
}

// Reset forgets recorded commands
func (h *RecordingHost) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = nil
}
