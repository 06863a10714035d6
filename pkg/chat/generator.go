package chat

import (
	"fmt"
	"math/rand"
	"time"
)

var phrases = []string{
	"did you see the build?",
	"on my way",
	"looks good to me",
	"can you send the logs",
	"ok",
	"the deploy finished twenty minutes ago and nothing has paged since, so I think we are fine",
	"lunch?",
	"👍",
	"I'll take a look after standup",
	"rebased, pushing now",
	"which branch is that on",
	"sounds good",
}

// Generator produces synthetic conversation traffic: sender runs of one to
// four messages with steadily increasing timestamps
type Generator struct {
	rng     *rand.Rand
	now     time.Time
	fromMe  bool
	runLeft int
	count   int
}

// NewGenerator creates a deterministic generator for seed starting at start
func NewGenerator(seed int64, start time.Time) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed)), now: start}
}

// Next returns the next message
func (g *Generator) Next() Message {
	if g.runLeft == 0 {
		g.fromMe = !g.fromMe
		g.runLeft = 1 + g.rng.Intn(4)
	}
	g.runLeft--
	g.count++
	g.now = g.now.Add(time.Duration(5+g.rng.Intn(90)) * time.Second)

	content := phrases[g.rng.Intn(len(phrases))]
	if g.rng.Intn(5) == 0 {
		content = fmt.Sprintf("%s (#%d)", content, g.count)
	}

	var m Message
	if g.fromMe {
		m = NewOutgoingMessage(content)
		m.Status = StatusRead
	} else {
		m = NewIncomingMessage(content)
	}
	return m.WithTimestamp(g.now)
}

// Take returns the next n messages
func (g *Generator) Take(n int) []Message {
	out := make([]Message, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}
