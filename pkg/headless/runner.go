package headless

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/killallgit/scrollback/pkg/chat"
	"github.com/killallgit/scrollback/pkg/logger"
	"github.com/killallgit/scrollback/pkg/scroll"
	"github.com/killallgit/scrollback/pkg/testutil"
)

// loadTimeout bounds how long the runner waits for a load goroutine
const loadTimeout = 5 * time.Second

// runner drives one list through a scenario
type runner struct {
	scenario *Scenario
	out      *Output

	clock  *testutil.ManualClock
	host   *testutil.RecordingHost
	source *testutil.ScriptedSource
	list   *scroll.List
	gen    *chat.Generator

	seq     *chat.Sequence
	loads   []<-chan scroll.LoadResult
	content float64 // content height of the last scroll step
	mark    int     // host commands seen by the previous expect step
}

func newRunner(s *Scenario, out *Output) *runner {
	r := &runner{
		scenario: s,
		out:      out,
		clock:    testutil.NewManualClock(),
		host:     &testutil.RecordingHost{},
		source:   testutil.NewScriptedSource(s.HasMore),
		gen:      chat.NewGenerator(1, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)),
		content:  3 * s.Visible,
	}
	r.list = scroll.New(r.host, r.source,
		scroll.WithClock(r.clock),
		scroll.WithThresholds(s.thresholds()),
		scroll.WithObserver(newTranscriptObserver(out)),
	)
	if s.Echo {
		r.host.OnCommand = r.echo
	}
	return r
}

// echo reports the viewport arriving at the bottom after a host command
func (r *runner) echo(kind scroll.Reposition) {
	offset := max(0, r.content-r.scenario.Visible)
	r.out.Event("viewport echo after %s scroll, offset=%g", kind, offset)
	out := r.list.HandleViewport(scroll.ViewportEvent{
		Metrics: scroll.ViewportMetrics{ScrollOffset: offset, VisibleHeight: r.scenario.Visible, ContentHeight: r.content},
		Source:  scroll.SourceProgrammatic,
	})
	if out.Load != nil {
		r.loads = append(r.loads, out.Load)
		if err := r.awaitStart(context.Background()); err != nil {
			r.out.Error(err.Error())
		}
	}
}

func (r *runner) run(ctx context.Context) error {
	logger.Debug("replaying scenario %q (%d steps)", r.scenario.Name, len(r.scenario.Steps))

	r.seq = chat.NewSequence(r.scenario.Conversation, r.gen.Take(r.scenario.Messages))
	r.out.Step(0, "open %q with %d messages", r.scenario.Conversation, r.seq.Len())
	r.list.SetMessages(r.seq)
	r.out.Result("%s", r.describe())

	for i, step := range r.scenario.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.step(ctx, i+1, step); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *runner) step(ctx context.Context, n int, st Step) error {
	switch {
	case st.Scroll != nil:
		return r.scroll(ctx, n, st.Scroll)
	case st.Append != nil:
		return r.append(n, st.Append)
	case st.Jump:
		r.out.Step(n, "jump to bottom")
		r.list.JumpToBottom()
	case st.Wait > 0:
		r.out.Step(n, "wait %s", st.Wait)
		r.clock.Advance(st.Wait)
	case st.Switch != "":
		return r.switchConversation(ctx, n, st.Switch)
	case st.Resolve != nil:
		return r.resolve(ctx, n, st.Resolve)
	case st.Expect != nil:
		return r.expect(n, st.Expect)
	default:
		return ErrUnknownStep
	}

	r.out.Result("%s", r.describe())
	return nil
}

func (r *runner) scroll(ctx context.Context, n int, sc *ScrollStep) error {
	src, err := parseSource(sc.Source)
	if err != nil {
		return err
	}
	visible := sc.Visible
	if visible <= 0 {
		visible = r.scenario.Visible
	}
	r.content = sc.Content

	m := scroll.ViewportMetrics{ScrollOffset: sc.Offset, VisibleHeight: visible, ContentHeight: sc.Content}
	r.out.Step(n, "scroll %s source=%s", m, src)

	out := r.list.HandleViewport(scroll.ViewportEvent{Metrics: m, Source: src, Resize: sc.Resize})
	if out.Load != nil {
		r.loads = append(r.loads, out.Load)
		if err := r.awaitStart(ctx); err != nil {
			return err
		}
	}

	r.out.Result("at_bottom=%t near_top=%t resolved=%s %s", out.AtBottom, out.NearTop, out.Source, r.describe())
	return nil
}

func (r *runner) append(n int, a *AppendStep) error {
	if a.Count <= 0 {
		return fmt.Errorf("append count must be positive, got %d", a.Count)
	}

	msgs := r.gen.Take(a.Count)
	if a.FromMe != nil {
		for i := range msgs {
			msgs[i].FromMe = *a.FromMe
		}
	}

	r.out.Step(n, "append %d %s", a.Count, plural(a.Count, "message"))
	r.seq = r.seq.Append(msgs...)
	upd := r.list.SetMessages(r.seq)
	r.out.Result("reposition=%s %s", upd.Reposition, r.describe())
	return nil
}

func (r *runner) switchConversation(ctx context.Context, n int, id string) error {
	r.out.Step(n, "switch to %q", id)
	r.seq = chat.NewSequence(id, r.gen.Take(r.scenario.Messages))
	upd := r.list.SetMessages(r.seq)

	// loads of the previous conversation were cancelled; collect them so
	// their completion lands in this step
	for len(r.loads) > 0 {
		if _, err := r.awaitLoad(ctx); err != nil {
			return err
		}
	}

	r.out.Result("changed=%t reposition=%s %s", upd.ConversationChanged, upd.Reposition, r.describe())
	return nil
}

func (r *runner) resolve(ctx context.Context, n int, rs *ResolveStep) error {
	if len(r.loads) == 0 {
		return errors.New("resolve: no history load outstanding")
	}

	var loadErr error
	if rs.Error != "" {
		loadErr = errors.New(rs.Error)
	}
	if rs.HasMore != nil {
		r.source.SetHasMore(*rs.HasMore)
	}

	r.out.Step(n, "resolve history load")
	if !r.source.Resolve(loadErr) {
		return errors.New("resolve: source has no waiting load")
	}
	res, err := r.awaitLoad(ctx)
	if err != nil {
		return err
	}

	if !res.Stale && res.Err == nil && rs.Prepend > 0 {
		r.seq = r.seq.Prepend(r.gen.Take(rs.Prepend)...)
		upd := r.list.SetMessages(r.seq)
		r.out.Event("prepended %d older %s, reposition=%s", rs.Prepend, plural(rs.Prepend, "message"), upd.Reposition)
	}

	r.out.Result("%s", r.describe())
	return nil
}

func (r *runner) expect(n int, e *Expect) error {
	r.out.Step(n, "expect")

	state := r.list.State()
	calls := r.host.Calls()
	since := calls[r.mark:]
	r.mark = len(calls)

	var failures []string
	check := func(name string, want, got interface{}) {
		if fmt.Sprint(want) != fmt.Sprint(got) {
			failures = append(failures, fmt.Sprintf("%s: want %v, got %v", name, want, got))
		}
	}

	if e.Mode != "" {
		check("mode", e.Mode, r.list.Mode())
	}
	if e.UserScrolling != nil {
		check("user_scrolling", *e.UserScrolling, state.IsUserScrolling)
	}
	if e.ShowJump != nil {
		check("show_jump", *e.ShowJump, state.ShowJumpToBottom)
	}
	if e.NewBelow != nil {
		check("new_below", *e.NewBelow, state.NewBelow)
	}
	if e.Loading != nil {
		check("loading", *e.Loading, r.list.Loading())
	}
	if e.Loads != nil {
		check("loads", *e.Loads, r.source.Calls())
	}
	if e.PendingTimers != nil {
		check("pending_timers", *e.PendingTimers, r.clock.Pending())
	}
	if e.AnnotatedCount != nil {
		check("messages", *e.AnnotatedCount, r.list.Annotation().Len())
	}
	if e.Commands != nil {
		got := make([]string, len(since))
		for i, c := range since {
			got[i] = c.String()
		}
		check("commands", strings.Join(e.Commands, ","), strings.Join(got, ","))
	}

	if len(failures) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(failures, "; "), ErrExpectation)
	}
	r.out.Result("ok")
	return nil
}

// awaitStart waits until the source has received the LoadOlder call
func (r *runner) awaitStart(ctx context.Context) error {
	select {
	case <-r.source.Started():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(loadTimeout):
		return errors.New("history load never started")
	}
}

// awaitLoad waits for the oldest outstanding load to complete
func (r *runner) awaitLoad(ctx context.Context) (scroll.LoadResult, error) {
	ch := r.loads[0]
	r.loads = r.loads[1:]

	select {
	case res := <-ch:
		return res, nil
	case <-ctx.Done():
		return scroll.LoadResult{}, ctx.Err()
	case <-time.After(loadTimeout):
		return scroll.LoadResult{}, errors.New("history load never completed")
	}
}

func (r *runner) describe() string {
	s := r.list.State()
	return fmt.Sprintf("mode=%s user_scrolling=%t show_jump=%t new_below=%d loading=%t",
		r.list.Mode(), s.IsUserScrolling, s.ShowJumpToBottom, s.NewBelow, r.list.Loading())
}

func (r *runner) cleanup() {
	r.list.Close()
	for _, ch := range r.loads {
		select {
		case <-ch:
		case <-time.After(loadTimeout):
		}
	}
	r.loads = nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
