package scroll_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/killallgit/scrollback/pkg/chat"
	"github.com/killallgit/scrollback/pkg/scroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func senders(flags ...bool) []chat.Message {
	msgs := make([]chat.Message, len(flags))
	for i, fromMe := range flags {
		msgs[i] = chat.Message{ID: fmt.Sprintf("m%d", i), Content: fmt.Sprintf("message %d", i), FromMe: fromMe}
	}
	return msgs
}

func TestAnnotate(t *testing.T) {
	t.Run("should mark runs", func(t *testing.T) {
		out := scroll.Annotate(senders(true, true, false, true, true, true))

		first := []bool{}
		last := []bool{}
		for i, m := range out {
			assert.Equal(t, i, m.Index)
			first = append(first, m.IsFirstOfRun)
			last = append(last, m.IsLastOfRun)
		}
		assert.Equal(t, []bool{true, false, true, true, false, false}, first)
		assert.Equal(t, []bool{false, true, true, false, false, true}, last)
	})

	t.Run("should mark a single message as both ends", func(t *testing.T) {
		out := scroll.Annotate(senders(false))
		require.Len(t, out, 1)
		assert.True(t, out[0].IsFirstOfRun)
		assert.True(t, out[0].IsLastOfRun)
	})

	t.Run("should return empty for empty input", func(t *testing.T) {
		out := scroll.Annotate(nil)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})
}

func TestAnnotateRunLaws(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 200; round++ {
		n := 1 + rng.Intn(40)
		flags := make([]bool, n)
		for i := range flags {
			flags[i] = rng.Intn(3) == 0
		}
		msgs := senders(flags...)
		out := scroll.Annotate(msgs)

		require.Len(t, out, n)
		assert.True(t, out[0].IsFirstOfRun)
		assert.True(t, out[n-1].IsLastOfRun)
		for i := range out {
			assert.Equal(t, msgs[i].ID, out[i].ID, "order preserved")
			wantLast := i == n-1 || flags[i] != flags[i+1]
			wantFirst := i == 0 || flags[i] != flags[i-1]
			assert.Equal(t, wantLast, out[i].IsLastOfRun, "round %d index %d", round, i)
			assert.Equal(t, wantFirst, out[i].IsFirstOfRun, "round %d index %d", round, i)
		}
	}
}

func TestAnnotatorMemoizesOnIdentity(t *testing.T) {
	var a scroll.Annotator
	seq := chat.NewSequence("general", senders(true, false))

	first := a.Annotate(seq)
	second := a.Annotate(seq)
	assert.Same(t, first, second)
	assert.Equal(t, 1, a.Computations())

	t.Run("should recompute for a new sequence with equal content", func(t *testing.T) {
		copySeq := chat.NewSequence("general", seq.Messages())
		third := a.Annotate(copySeq)
		assert.NotSame(t, first, third)
		assert.Equal(t, first.Messages, third.Messages)
		assert.Equal(t, 2, a.Computations())
	})

	t.Run("should annotate nil as empty", func(t *testing.T) {
		out := a.Annotate(nil)
		assert.Equal(t, 0, out.Len())
	})
}
