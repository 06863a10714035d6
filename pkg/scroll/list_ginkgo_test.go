package scroll_test

import (
	"sync"
	"testing"
	"time"

	"github.com/killallgit/scrollback/pkg/chat"
	"github.com/killallgit/scrollback/pkg/scroll"
	"github.com/killallgit/scrollback/pkg/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestScroll(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Scroll Suite")
}

type transition struct{ from, to scroll.Mode }

type recordingObserver struct {
	scroll.NopObserver
	mu          sync.Mutex
	transitions []transition
	settled     int
}

func (o *recordingObserver) ModeChanged(from, to scroll.Mode) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, transition{from, to})
}

func (o *recordingObserver) UserScrollSettled() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.settled++
}

func (o *recordingObserver) Transitions() []transition {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]transition(nil), o.transitions...)
}

var _ = Describe("Live/Reviewing state machine", func() {
	var (
		clock    *testutil.ManualClock
		host     *testutil.RecordingHost
		observer *recordingObserver
		list     *scroll.List
		seq      *chat.Sequence
	)

	BeforeEach(func() {
		clock = testutil.NewManualClock()
		host = &testutil.RecordingHost{}
		observer = &recordingObserver{}
		list = scroll.New(host, nil, scroll.WithClock(clock), scroll.WithObserver(observer))
		seq = chat.NewSequence("general", senders(true, false, true))
		list.SetMessages(seq)
		host.Reset()
	})

	AfterEach(func() {
		list.Close()
	})

	It("starts live", func() {
		Expect(list.Mode()).To(Equal(scroll.ModeLive))
		Expect(observer.Transitions()).To(BeEmpty())
	})

	Context("when the viewer scrolls away from the bottom", func() {
		BeforeEach(func() {
			list.HandleViewport(viewport(400, scroll.SourceUser))
		})

		It("enters reviewing and raises the affordance", func() {
			Expect(list.Mode()).To(Equal(scroll.ModeReviewing))
			Expect(list.State().ShowJumpToBottom).To(BeTrue())
			Expect(observer.Transitions()).To(Equal([]transition{{scroll.ModeLive, scroll.ModeReviewing}}))
		})

		It("stays reviewing after the gesture settles", func() {
			clock.Advance(3 * time.Second)
			Expect(list.State().IsUserScrolling).To(BeFalse())
			Expect(list.Mode()).To(Equal(scroll.ModeReviewing))
			Expect(observer.settled).To(Equal(1))
		})

		It("returns to live when the viewer scrolls back down", func() {
			list.HandleViewport(viewport(1020, scroll.SourceUser))
			Expect(list.Mode()).To(Equal(scroll.ModeLive))
			Expect(list.State().ShowJumpToBottom).To(BeFalse())
		})

		It("returns to live on jump to bottom", func() {
			list.JumpToBottom()
			Expect(list.Mode()).To(Equal(scroll.ModeLive))
			Expect(host.Calls()).To(Equal([]scroll.Reposition{scroll.RepositionSmooth}))
			Expect(observer.Transitions()).To(HaveLen(2))
		})

		It("does not follow new messages", func() {
			list.SetMessages(seq.Append(chat.NewIncomingMessage("ping")))
			Expect(host.Calls()).To(BeEmpty())
			Expect(list.State().NewBelow).To(Equal(1))
		})

		It("returns to live on a conversation switch", func() {
			upd := list.SetMessages(chat.NewSequence("random", senders(false)))
			Expect(upd.ConversationChanged).To(BeTrue())
			Expect(list.Mode()).To(Equal(scroll.ModeLive))
			Expect(list.State()).To(Equal(scroll.InitialScrollState()))
			Expect(host.Count(scroll.RepositionInstant)).To(Equal(1))
		})
	})

	Context("when the content shrinks under a reviewing viewer", func() {
		It("counts as at bottom", func() {
			list.HandleViewport(viewport(400, scroll.SourceUser))
			list.HandleViewport(scroll.ViewportEvent{
				Metrics: scroll.ViewportMetrics{ScrollOffset: 0, VisibleHeight: 500, ContentHeight: 300},
				Source:  scroll.SourceProgrammatic,
				Resize:  true,
			})
			Expect(list.Mode()).To(Equal(scroll.ModeLive))
		})
	})

	Context("without a history source", func() {
		It("never triggers loads", func() {
			out := list.HandleViewport(viewport(0, scroll.SourceUser))
			Expect(out.NearTop).To(BeTrue())
			Expect(out.Load).To(BeNil())
		})
	})
})
