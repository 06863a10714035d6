package scroll

import (
	"context"
	"sync"
	"time"

	"github.com/killallgit/scrollback/pkg/chat"
	"github.com/killallgit/scrollback/pkg/logger"
)

// List is the scroll engine for one conversation view
type List struct {
	mu sync.Mutex

	host       Host
	source     HistorySource
	clock      Clock
	observer   Observer
	thresholds Thresholds
	log        *logger.Component

	state        ScrollState
	annotator    Annotator
	annotation   *Annotation
	seq          *chat.Sequence
	conversation string

	debounce *debouncer
	inFlight bool

	// generation changes on conversation switch and Close; loads started
	// under an older generation complete as stale
	generation uint64
	parent     context.Context
	genCtx     context.Context
	cancelGen  context.CancelFunc

	lastCommand time.Time
	lastOffset  float64
	haveOffset  bool
	jumping     bool // a smooth jump is travelling towards the bottom
	closed      bool
}

// Option configures a List
type Option func(*List)

func WithThresholds(t Thresholds) Option {
	return func(l *List) { l.thresholds = t }
}

func WithClock(c Clock) Option {
	return func(l *List) { l.clock = c }
}

func WithObserver(o Observer) Option {
	return func(l *List) { l.observer = o }
}

// WithContext sets the parent context of history loads
func WithContext(ctx context.Context) Option {
	return func(l *List) { l.parent = ctx }
}

// New creates a List in the Live state. host and source may be nil: a
// nil host receives no commands and a nil source never loads.
func New(host Host, source HistorySource, opts ...Option) *List {
	l := &List{
		host:       host,
		source:     source,
		clock:      RealClock{},
		observer:   NopObserver{},
		thresholds: DefaultThresholds(),
		log:        logger.WithComponent("scroll"),
		state:      InitialScrollState(),
		parent:     context.Background(),
	}
	for _, opt := range opts {
		opt(l)
	}

	l.debounce = newDebouncer(l.clock, l.thresholds.UserScrollCooldown)
	l.genCtx, l.cancelGen = context.WithCancel(l.parent)
	return l
}

// Outcome is the List's reaction to one viewport event
type Outcome struct {
	Classification
	Source Source // resolved source
	Mode   Mode
	// Load is non-nil when this event triggered a history load
	Load <-chan LoadResult
}

// HandleViewport classifies a viewport report, updates the scroll-intent
// flag and triggers a history load when near the top
func (l *List) HandleViewport(ev ViewportEvent) Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return Outcome{}
	}

	metrics := Clamp(ev.Metrics)
	c := Classify(metrics, l.thresholds)
	src := l.resolveSourceLocked(ev.Source)

	moved := !l.haveOffset || metrics.ScrollOffset != l.lastOffset
	l.lastOffset, l.haveOffset = metrics.ScrollOffset, true

	if src == SourceUser {
		l.jumping = false
		if moved || !ev.Resize {
			l.state.IsUserScrolling = true
			l.debounce.arm(l.onCooldown)
		}
	}

	switch {
	case c.AtBottom:
		l.enterLiveLocked()
		if src == SourceProgrammatic {
			l.jumping = false
		}
	case l.jumping && src == SourceProgrammatic:
		// intermediate frame of a smooth jump
	default:
		l.enterReviewingLocked()
	}

	out := Outcome{
		Classification: c,
		Source:         src,
		Mode:           modeOf(l.state.IsAtBottom),
	}
	if l.source != nil && shouldLoad(c, l.source.PaginationState(), l.inFlight) {
		out.Load = l.startLoadLocked()
	}
	return out
}

func (l *List) resolveSourceLocked(s Source) Source {
	if s != SourceUnknown {
		return s
	}
	if !l.lastCommand.IsZero() && l.clock.Now().Sub(l.lastCommand) <= l.thresholds.ProgrammaticGrace {
		return SourceProgrammatic
	}
	return SourceUser
}

func (l *List) onCooldown(token uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || !l.debounce.settle(token) {
		return
	}
	l.state.IsUserScrolling = false
	l.observer.UserScrollSettled()
}

// Update is the List's reaction to a new message sequence
type Update struct {
	Annotation          *Annotation
	Reposition          Reposition
	ConversationChanged bool
}

// SetMessages supplies the current message sequence. Passing the same
// sequence again is a no-op returning the cached annotation.
func (l *List) SetMessages(seq *chat.Sequence) Update {
	var fx effects

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return Update{}
	}
	upd := l.setMessagesLocked(seq, &fx)
	l.mu.Unlock()

	fx.run(l.host)
	return upd
}

func (l *List) setMessagesLocked(seq *chat.Sequence, fx *effects) Update {
	if l.annotation != nil && seq == l.seq {
		return Update{Annotation: l.annotation}
	}

	prev := l.seq
	switched := prev != nil && !sameConversation(prev, seq)
	if switched {
		l.log.Info("conversation switched %q -> %q", prev.ConversationID(), seq.ConversationID())
		l.resetLocked()
		prev = nil
	}

	l.seq = seq
	l.conversation = seq.ConversationID()
	l.annotation = l.annotator.Annotate(seq)

	return Update{
		Annotation:          l.annotation,
		Reposition:          l.applyArrivalLocked(compareSequences(prev, seq), fx),
		ConversationChanged: switched,
	}
}

// sameConversation compares conversation IDs when either side has one;
// untagged sequences match when next still holds prev's oldest or newest
// message
func sameConversation(prev, next *chat.Sequence) bool {
	if prev.ConversationID() != "" || next.ConversationID() != "" {
		return prev.ConversationID() == next.ConversationID()
	}

	first, ok := prev.First()
	if !ok {
		return true
	}
	last, _ := prev.Last()
	for i := range next.Len() {
		if id := next.At(i).ID; id == first.ID || id == last.ID {
			return true
		}
	}
	return false
}

func (l *List) resetLocked() {
	from := modeOf(l.state.IsAtBottom)

	l.debounce.stop()
	l.cancelGen()
	l.generation++
	l.genCtx, l.cancelGen = context.WithCancel(l.parent)

	l.inFlight = false
	l.jumping = false
	l.haveOffset = false
	l.lastCommand = time.Time{}
	l.state = InitialScrollState()

	if from != ModeLive {
		l.observer.ModeChanged(from, ModeLive)
	}
}

// JumpToBottom is the viewer's explicit return to live. It enters Live,
// clears the scroll-intent flag and scrolls the host smoothly.
func (l *List) JumpToBottom() Reposition {
	var fx effects

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return RepositionNone
	}
	l.debounce.stop()
	l.state.IsUserScrolling = false
	l.enterLiveLocked()
	l.jumping = true
	l.commandLocked(RepositionSmooth, &fx)
	l.mu.Unlock()

	fx.run(l.host)
	return RepositionSmooth
}

// State returns a snapshot of the scroll state
func (l *List) State() ScrollState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Mode returns the Live/Reviewing state
func (l *List) Mode() Mode {
	l.mu.Lock()
	defer l.mu.Unlock()
	return modeOf(l.state.IsAtBottom)
}

// Annotation returns the annotation of the current sequence
func (l *List) Annotation() *Annotation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.annotation
}

// Loading reports whether this list has a history load in flight
func (l *List) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inFlight
}

// Thresholds returns the tuning in effect
func (l *List) Thresholds() Thresholds {
	return l.thresholds
}

// Close stops the cooldown timer and cancels any history load. Completions
// arriving afterwards are stale. Close is idempotent.
func (l *List) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.closed = true
	l.debounce.stop()
	l.cancelGen()
	l.generation++
}
