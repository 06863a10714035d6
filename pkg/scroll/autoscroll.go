package scroll

import "github.com/killallgit/scrollback/pkg/chat"

// arrival describes how a new sequence differs from the previous one
type arrival struct {
	changed  bool // grew, or the newest message changed
	appended int  // messages added after the previous newest message
}

func compareSequences(prev, next *chat.Sequence) arrival {
	nextLast, ok := next.Last()
	if !ok {
		return arrival{}
	}

	prevLast, hadPrev := prev.Last()
	grew := next.Len() > prev.Len()
	tailChanged := !hadPrev || !sameMessage(prevLast, nextLast)
	if !grew && !tailChanged {
		return arrival{}
	}

	a := arrival{changed: true}
	switch {
	case !hadPrev:
		a.appended = next.Len()
	case prevLast.ID == nextLast.ID:
		// older history was prepended, or the newest message was updated
		// in place
	default:
		a.appended = 1
		for i := next.Len() - 1; i >= 0; i-- {
			if next.At(i).ID == prevLast.ID {
				a.appended = next.Len() - 1 - i
				break
			}
		}
	}
	return a
}

// sameMessage reports whether a and b render identically
func sameMessage(a, b chat.Message) bool {
	return a.ID == b.ID &&
		a.Seq == b.Seq &&
		a.Content == b.Content &&
		a.FromMe == b.FromMe &&
		a.Status == b.Status &&
		a.Media == b.Media &&
		a.CreatedAt.Equal(b.CreatedAt)
}

// effects are host commands collected under the lock and run after it is
// released, so a host may call back into the List
type effects []Reposition

func (fx effects) run(h Host) {
	if h == nil {
		return
	}
	for _, r := range fx {
		switch r {
		case RepositionInstant:
			h.ScrollToBottomInstant()
		case RepositionSmooth:
			h.ScrollToBottomSmooth()
		}
	}
}

// applyArrivalLocked repositions on arrival only when live and settled;
// while reviewing it keeps the viewport and raises the jump affordance
func (l *List) applyArrivalLocked(a arrival, fx *effects) Reposition {
	if !a.changed {
		return RepositionNone
	}

	switch {
	case !l.state.IsAtBottom:
		l.state.ShowJumpToBottom = true
		l.state.NewBelow += a.appended
		return RepositionNone
	case l.state.IsUserScrolling:
		return RepositionNone
	}

	l.commandLocked(RepositionInstant, fx)
	return RepositionInstant
}

func (l *List) commandLocked(r Reposition, fx *effects) {
	*fx = append(*fx, r)
	l.lastCommand = l.clock.Now()
	l.observer.Repositioned(r)
}

// enterLiveLocked moves to Live, clearing the affordance
func (l *List) enterLiveLocked() {
	from := modeOf(l.state.IsAtBottom)
	l.state.IsAtBottom = true
	l.state.ShowJumpToBottom = false
	l.state.NewBelow = 0
	if from != ModeLive {
		l.observer.ModeChanged(from, ModeLive)
		l.log.Debug("mode %s -> %s", from, ModeLive)
	}
}

// enterReviewingLocked moves to Reviewing, raising the affordance
func (l *List) enterReviewingLocked() {
	from := modeOf(l.state.IsAtBottom)
	l.state.IsAtBottom = false
	l.state.ShowJumpToBottom = true
	if from != ModeReviewing {
		l.observer.ModeChanged(from, ModeReviewing)
		l.log.Debug("mode %s -> %s", from, ModeReviewing)
	}
}
