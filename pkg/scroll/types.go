// Package scroll decides, for one chat message list, when the viewport
// follows new messages, when older history is requested, and how messages
// group into sender runs.
//
// A List receives viewport events from a Host, message sequences from the
// data layer, and explicit jump-to-bottom requests from the rendering layer.
// It answers with repositioning commands to the Host and load requests to a
// HistorySource. All handlers on a List are serialised.
package scroll

import (
	"context"
	"fmt"
	"time"
)

// ViewportMetrics are the raw measurements a host reports on every scroll
// or resize. Units are whatever the host scrolls in (pixels, rows).
type ViewportMetrics struct {
	ScrollOffset  float64
	VisibleHeight float64
	ContentHeight float64
}

func (m ViewportMetrics) String() string {
	return fmt.Sprintf("offset=%g visible=%g content=%g", m.ScrollOffset, m.VisibleHeight, m.ContentHeight)
}

// Source says who moved the viewport
type Source int

const (
	// SourceUnknown is resolved by the List using the programmatic grace window
	SourceUnknown Source = iota
	// SourceUser is a viewer gesture: wheel, drag, keys
	SourceUser
	// SourceProgrammatic is the echo of a Host command issued by the List
	SourceProgrammatic
)

func (s Source) String() string {
	switch s {
	case SourceUser:
		return "user"
	case SourceProgrammatic:
		return "programmatic"
	default:
		return "unknown"
	}
}

// ViewportEvent is one report from the host
type ViewportEvent struct {
	Metrics ViewportMetrics
	Source  Source
	// Resize marks a report caused by a size change rather than a scroll
	Resize bool
}

// ScrollState is the per-list scroll status read by the rendering layer
type ScrollState struct {
	IsAtBottom       bool
	IsUserScrolling  bool
	ShowJumpToBottom bool
	// NewBelow counts messages that arrived while reviewing
	NewBelow int
}

// InitialScrollState is the state on mount and after a conversation switch
func InitialScrollState() ScrollState {
	return ScrollState{IsAtBottom: true}
}

// Mode is the Live/Reviewing automaton state derived from IsAtBottom
type Mode int

const (
	ModeLive Mode = iota
	ModeReviewing
)

func (m Mode) String() string {
	if m == ModeReviewing {
		return "reviewing"
	}
	return "live"
}

func modeOf(atBottom bool) Mode {
	if atBottom {
		return ModeLive
	}
	return ModeReviewing
}

// PaginationState is owned by the history source. A load may only be
// triggered when HasMore && !Loading.
type PaginationState struct {
	HasMore bool
	Loading bool
}

// Host is the viewport the List drives
type Host interface {
	ScrollToBottomInstant()
	ScrollToBottomSmooth()
}

// HistorySource supplies pagination state and loads older messages. The
// source sets Loading for the duration of LoadOlder.
type HistorySource interface {
	PaginationState() PaginationState
	LoadOlder(ctx context.Context) error
}

// Reposition is the kind of host command issued
type Reposition int

const (
	RepositionNone Reposition = iota
	RepositionInstant
	RepositionSmooth
)

func (r Reposition) String() string {
	switch r {
	case RepositionInstant:
		return "instant"
	case RepositionSmooth:
		return "smooth"
	default:
		return "none"
	}
}

// Thresholds tune classification and debounce
type Thresholds struct {
	// BottomEpsilon is slack still counted as at-bottom. Larger is stickier.
	BottomEpsilon float64
	// TopThreshold is the offset under which history is requested. Larger
	// paginates earlier.
	TopThreshold float64
	// UserScrollCooldown is the quiet period after which a gesture is settled
	UserScrollCooldown time.Duration
	// ProgrammaticGrace is how long after a host command a SourceUnknown
	// event is still attributed to that command
	ProgrammaticGrace time.Duration
}

const (
	DefaultBottomEpsilon      = 50
	DefaultTopThreshold       = 200
	DefaultUserScrollCooldown = 2000 * time.Millisecond
	DefaultProgrammaticGrace  = 150 * time.Millisecond
)

func DefaultThresholds() Thresholds {
	return Thresholds{
		BottomEpsilon:      DefaultBottomEpsilon,
		TopThreshold:       DefaultTopThreshold,
		UserScrollCooldown: DefaultUserScrollCooldown,
		ProgrammaticGrace:  DefaultProgrammaticGrace,
	}
}
