package headless

import "github.com/killallgit/scrollback/pkg/scroll"

// transcriptObserver writes list decisions into the transcript as they
// happen
type transcriptObserver struct {
	out *Output
}

func newTranscriptObserver(out *Output) *transcriptObserver {
	return &transcriptObserver{out: out}
}

func (t *transcriptObserver) ModeChanged(from, to scroll.Mode) {
	t.out.Event("mode %s -> %s", from, to)
}

func (t *transcriptObserver) LoadStarted() {
	t.out.Event("history load started")
}

func (t *transcriptObserver) LoadFinished(result scroll.LoadResult) {
	switch {
	case result.Stale:
		t.out.Event("history load discarded (stale)")
	case result.Err != nil:
		t.out.Event("history load failed: %v", result.Err)
	default:
		t.out.Event("history load finished")
	}
}

func (t *transcriptObserver) Repositioned(kind scroll.Reposition) {
	t.out.Event("scroll to bottom (%s)", kind)
}

func (t *transcriptObserver) UserScrollSettled() {
	t.out.Event("user scroll settled")
}
