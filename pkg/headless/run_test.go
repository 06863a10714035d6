package headless

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replayFile(t *testing.T, name string) string {
	t.Helper()

	var buf bytes.Buffer
	err := RunScenario(context.Background(), filepath.Join("testdata", name), &buf)
	require.NoError(t, err, buf.String())
	return buf.String()
}

func TestReplayReviewing(t *testing.T) {
	out := replayFile(t, "reviewing.yaml")

	assert.Contains(t, out, `#0 open "scenario" with 20 messages`)
	assert.Contains(t, out, "#1 scroll offset=400 visible=500 content=1550 source=user")
	assert.Contains(t, out, "mode live -> reviewing")
	assert.Contains(t, out, "=> reposition=none mode=reviewing")
	assert.Contains(t, out, "user scroll settled")
	assert.Contains(t, out, "scroll to bottom (smooth)")
	assert.Contains(t, out, "mode reviewing -> live")
	assert.NotContains(t, out, "!!")
}

func TestReplayPagination(t *testing.T) {
	out := replayFile(t, "pagination.yaml")

	assert.Contains(t, out, "history load started")
	assert.Contains(t, out, "history load finished")
	assert.Contains(t, out, "prepended 10 older messages, reposition=none")
	assert.Equal(t, 1, bytes.Count([]byte(out), []byte("history load started")))
}

func TestReplaySwitchDiscardsLoad(t *testing.T) {
	out := replayFile(t, "switch.yaml")

	assert.Contains(t, out, `#3 switch to "random"`)
	assert.Contains(t, out, "history load discarded (stale)")
	assert.Contains(t, out, "=> changed=true reposition=instant mode=live")
}

func TestReplayFailedLoad(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: failing
messages: 5
has_more: true
steps:
  - scroll: {offset: 0, content: 1550}
  - resolve: {error: backend down}
  - expect: {loading: false, loads: 1}
  - scroll: {offset: 10, content: 1550}
  - expect: {loading: true, loads: 2}
`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Replay(context.Background(), s, &buf))
	assert.Contains(t, buf.String(), "history load failed: backend down")
}

func TestReplayEcho(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: echo
messages: 3
echo: true
steps:
  - append: {count: 1}
  - expect: {mode: live, user_scrolling: false, commands: [instant, instant]}
`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Replay(context.Background(), s, &buf))
	assert.Contains(t, buf.String(), "viewport echo after instant scroll, offset=1000")
}

func TestReplayExpectationFailure(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: wrong
messages: 3
steps:
  - expect: {mode: reviewing, new_below: 4}
`))
	require.NoError(t, err)

	var buf bytes.Buffer
	err = Replay(context.Background(), s, &buf)
	require.ErrorIs(t, err, ErrExpectation)
	assert.Contains(t, err.Error(), `scenario "wrong": step 1`)
	assert.Contains(t, err.Error(), "mode: want reviewing, got live")
	assert.Contains(t, buf.String(), "!! step 1:")
}

func TestReplayResolveWithoutLoad(t *testing.T) {
	s, err := ParseScenario([]byte(`
steps:
  - resolve: {}
`))
	require.NoError(t, err)

	err = Replay(context.Background(), s, &bytes.Buffer{})
	assert.ErrorContains(t, err, "no history load outstanding")
}

func TestReplayCancelled(t *testing.T) {
	s, err := ParseScenario([]byte(`
steps:
  - jump: true
`))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Replay(ctx, s, &bytes.Buffer{}), context.Canceled)
}

func TestReplayExampleTour(t *testing.T) {
	var buf bytes.Buffer
	err := RunScenario(context.Background(), filepath.Join("..", "..", "examples", "scenarios", "tour.yaml"), &buf)
	require.NoError(t, err, buf.String())
	assert.Contains(t, buf.String(), "viewport echo after smooth scroll")
}
