package scroll

import (
	"sync"

	"github.com/killallgit/scrollback/pkg/chat"
)

// AnnotatedMessage carries the grouping flags the renderer needs to draw
// runs of messages from the same sender
type AnnotatedMessage struct {
	chat.Message
	Index        int
	IsFirstOfRun bool
	IsLastOfRun  bool
}

// Annotation is the annotated form of one sequence
type Annotation struct {
	Source   *chat.Sequence
	Messages []AnnotatedMessage
}

// Len returns the number of annotated messages
func (a *Annotation) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Messages)
}

// Annotate computes run flags in one forward pass
func Annotate(msgs []chat.Message) []AnnotatedMessage {
	out := make([]AnnotatedMessage, len(msgs))
	last := len(msgs) - 1
	for i, m := range msgs {
		out[i] = AnnotatedMessage{
			Message:      m,
			Index:        i,
			IsFirstOfRun: i == 0 || msgs[i-1].FromMe != m.FromMe,
			IsLastOfRun:  i == last || msgs[i+1].FromMe != m.FromMe,
		}
	}
	return out
}

// Annotator memoizes Annotate on sequence identity: the same *chat.Sequence
// yields the same *Annotation without recomputing.
type Annotator struct {
	mu           sync.Mutex
	last         *Annotation
	computations int
}

func (a *Annotator) Annotate(seq *chat.Sequence) *Annotation {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.last != nil && a.last.Source == seq {
		return a.last
	}

	a.computations++
	a.last = &Annotation{
		Source:   seq,
		Messages: Annotate(seq.Messages()),
	}
	return a.last
}

// Computations returns how many times the annotation was recomputed
func (a *Annotator) Computations() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.computations
}
