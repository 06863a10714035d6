package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/killallgit/scrollback/pkg/chat"
	"github.com/killallgit/scrollback/pkg/history"
	"github.com/killallgit/scrollback/pkg/logger"
	"github.com/killallgit/scrollback/pkg/scroll"
	"github.com/killallgit/scrollback/pkg/tui/chat/status"
	"github.com/killallgit/scrollback/pkg/tui/theme"
)

// Config wires the viewer to its data layer
type Config struct {
	Pager      *history.Pager
	Thresholds scroll.Thresholds
	Observer   scroll.Observer
	// Feed produces incoming traffic every FeedInterval; nil disables it
	Feed         func() chat.Message
	FeedInterval time.Duration
	// Now is used for relative timestamps
	Now func() time.Time
}

// Model is the message viewer. It hosts a scroll.List: the viewport reports
// every offset change to the list and carries out its scroll commands.
type Model struct {
	viewport  viewport.Model
	statusBar status.StatusModel
	styles    *theme.Styles
	log       *logger.Component

	list       *scroll.List
	host       *viewportHost
	pager      *history.Pager
	annotation *scroll.Annotation

	feed         func() chat.Message
	feedInterval time.Duration
	now          func() time.Time

	width      int
	height     int
	ready      bool
	jumpActive bool // a smooth jump is animating
	err        error
}

func NewModel(cfg Config) *Model {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Thresholds == (scroll.Thresholds{}) {
		cfg.Thresholds = scroll.DefaultThresholds()
	}

	m := &Model{
		viewport:     createViewport(80, 20),
		statusBar:    status.NewStatusModel(),
		styles:       theme.DefaultStyles(),
		log:          logger.WithComponent("tui"),
		host:         &viewportHost{},
		pager:        cfg.Pager,
		feed:         cfg.Feed,
		feedInterval: cfg.FeedInterval,
		now:          cfg.Now,
	}

	opts := []scroll.Option{scroll.WithThresholds(cfg.Thresholds)}
	if cfg.Observer != nil {
		opts = append(opts, scroll.WithObserver(cfg.Observer))
	}
	m.list = scroll.New(m.host, cfg.Pager, opts...)
	return m
}

// List exposes the scroll engine
func (m *Model) List() *scroll.List { return m.list }

// Close releases the scroll engine
func (m *Model) Close() { m.list.Close() }
