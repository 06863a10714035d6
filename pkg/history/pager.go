// Package history is the data layer between the message store and a
// scroll.List: it holds the loaded window of one conversation and pages
// older messages in on request.
package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/killallgit/scrollback/pkg/chat"
	"github.com/killallgit/scrollback/pkg/logger"
	"github.com/killallgit/scrollback/pkg/scroll"
	"github.com/killallgit/scrollback/pkg/store"
)

// ErrNoConversation is returned when paging before Open
var ErrNoConversation = errors.New("no conversation open")

const DefaultPageSize = 30

// Pager implements scroll.HistorySource over a store
type Pager struct {
	mu sync.Mutex

	store    *store.Store
	pageSize int
	latency  time.Duration
	log      *logger.Component

	conversation string
	seq          *chat.Sequence
	hasMore      bool
	loading      bool
	generation   uint64
}

var _ scroll.HistorySource = (*Pager)(nil)

type Option func(*Pager)

func WithPageSize(n int) Option {
	return func(p *Pager) {
		if n > 0 {
			p.pageSize = n
		}
	}
}

// WithLatency delays every older page, simulating a remote backend
func WithLatency(d time.Duration) Option {
	return func(p *Pager) { p.latency = d }
}

func New(st *store.Store, opts ...Option) *Pager {
	p := &Pager{
		store:    st,
		pageSize: DefaultPageSize,
		log:      logger.WithComponent("history"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Open switches to conversation and loads its newest page. A load still
// running for the previous conversation is discarded when it completes.
func (p *Pager) Open(conversation string) (*chat.Sequence, error) {
	page, err := p.store.Latest(conversation, p.pageSize)
	if err != nil {
		return nil, fmt.Errorf("load conversation %q: %w", conversation, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.generation++
	p.conversation = conversation
	p.seq = chat.NewSequence(conversation, page)
	p.hasMore = len(page) > 0 && page[0].Seq > 1
	p.loading = false

	p.log.Info("opened %q with %d message(s), more=%t", conversation, len(page), p.hasMore)
	return p.seq, nil
}

// Conversation returns the open conversation ID
func (p *Pager) Conversation() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conversation
}

// Sequence returns the loaded window, oldest first
func (p *Pager) Sequence() *chat.Sequence {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seq
}

// Append stores msg as the newest message and returns the new window
func (p *Pager) Append(msg chat.Message) (*chat.Sequence, error) {
	p.mu.Lock()
	conversation := p.conversation
	p.mu.Unlock()

	if conversation == "" {
		return nil, ErrNoConversation
	}

	stored, err := p.store.Append(conversation, msg)
	if err != nil {
		return nil, fmt.Errorf("append to %q: %w", conversation, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conversation != conversation {
		return p.seq, nil
	}
	p.seq = p.seq.Append(stored)
	return p.seq, nil
}

func (p *Pager) PaginationState() scroll.PaginationState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return scroll.PaginationState{HasMore: p.hasMore, Loading: p.loading}
}

// LoadOlder prepends the page before the oldest loaded message. Loading
// is reported for its whole duration.
func (p *Pager) LoadOlder(ctx context.Context) error {
	p.mu.Lock()
	if p.conversation == "" {
		p.mu.Unlock()
		return ErrNoConversation
	}
	if !p.hasMore || p.loading {
		p.mu.Unlock()
		return nil
	}
	p.loading = true
	gen := p.generation
	conversation := p.conversation
	var cursor uint64
	if first, ok := p.seq.First(); ok {
		cursor = first.Seq
	}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		if gen == p.generation {
			p.loading = false
		}
		p.mu.Unlock()
	}()

	if p.latency > 0 {
		timer := time.NewTimer(p.latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	page, err := p.store.Before(conversation, cursor, p.pageSize)
	if err != nil {
		return fmt.Errorf("load older messages of %q: %w", conversation, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		p.log.Debug("dropping page for %q, conversation changed", conversation)
		return nil
	}
	if len(page) > 0 {
		p.seq = p.seq.Prepend(page...)
	}
	p.hasMore = len(page) > 0 && page[0].Seq > 1
	p.log.Debug("loaded %d older message(s) of %q, more=%t", len(page), conversation, p.hasMore)
	return nil
}
