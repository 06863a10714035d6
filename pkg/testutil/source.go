package testutil

import (
	"context"
	"sync"

	"github.com/killallgit/scrollback/pkg/scroll"
)

// ScriptedSource is a scroll.HistorySource whose loads block until the
// test resolves them. Loading is true while a load is outstanding.
type ScriptedSource struct {
	mu      sync.Mutex
	hasMore bool
	loading bool
	calls   int
	pending []chan error
	started chan struct{}
}

// NewScriptedSource creates a source reporting hasMore
func NewScriptedSource(hasMore bool) *ScriptedSource {
	return &ScriptedSource{hasMore: hasMore, started: make(chan struct{}, 64)}
}

func (s *ScriptedSource) PaginationState() scroll.PaginationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scroll.PaginationState{HasMore: s.hasMore, Loading: s.loading}
}

func (s *ScriptedSource) LoadOlder(ctx context.Context) error {
	reply := make(chan error, 1)

	s.mu.Lock()
	s.calls++
	s.loading = true
	s.pending = append(s.pending, reply)
	s.mu.Unlock()

	s.started <- struct{}{}

	var err error
	select {
	case err = <-reply:
	case <-ctx.Done():
		err = ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	for i, p := range s.pending {
		if p == reply {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
	return err
}

// Started blocks until a LoadOlder call has begun
func (s *ScriptedSource) Started() <-chan struct{} {
	return s.started
}

// Resolve completes the oldest outstanding load with err. It reports
// false when no load is waiting.
func (s *ScriptedSource) Resolve(err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return false
	}
	s.pending[0] <- err
	s.pending = s.pending[1:]
	return true
}

// Outstanding returns the number of loads waiting to be resolved
func (s *ScriptedSource) Outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// SetHasMore changes whether more history exists
func (s *ScriptedSource) SetHasMore(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasMore = v
}

// SetLoading forces the externally-owned loading flag
func (s *ScriptedSource) SetLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

// Calls returns how many times LoadOlder was invoked
func (s *ScriptedSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
