package chat

import "sync/atomic"

var sequenceVersion atomic.Uint64

// Sequence is an immutable, ordered view of one conversation's loaded
// messages, oldest first. The pointer is the sequence identity: every
// change produces a new *Sequence, so consumers may cache on it.
type Sequence struct {
	conversationID string
	version        uint64
	messages       []Message
}

// NewSequence copies msgs into a new sequence for conversationID
func NewSequence(conversationID string, msgs []Message) *Sequence {
	owned := make([]Message, len(msgs))
	copy(owned, msgs)
	return newSequence(conversationID, owned)
}

func newSequence(conversationID string, owned []Message) *Sequence {
	return &Sequence{
		conversationID: conversationID,
		version:        sequenceVersion.Add(1),
		messages:       owned,
	}
}

// ConversationID returns the conversation the messages belong to
func (s *Sequence) ConversationID() string {
	if s == nil {
		return ""
	}
	return s.conversationID
}

// Version is unique per sequence in this process
func (s *Sequence) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version
}

func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.messages)
}

// At returns the message at index i
func (s *Sequence) At(i int) Message {
	return s.messages[i]
}

// Messages returns a copy of the messages
func (s *Sequence) Messages() []Message {
	if s == nil {
		return nil
	}
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// First returns the oldest loaded message
func (s *Sequence) First() (Message, bool) {
	if s.Len() == 0 {
		return Message{}, false
	}
	return s.messages[0], true
}

// Last returns the newest message
func (s *Sequence) Last() (Message, bool) {
	if s.Len() == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// Append returns a new sequence with msgs added after the newest message
func (s *Sequence) Append(msgs ...Message) *Sequence {
	owned := make([]Message, 0, s.Len()+len(msgs))
	if s != nil {
		owned = append(owned, s.messages...)
	}
	owned = append(owned, msgs...)
	return newSequence(s.ConversationID(), owned)
}

// Prepend returns a new sequence with older msgs placed before the oldest message
func (s *Sequence) Prepend(msgs ...Message) *Sequence {
	owned := make([]Message, 0, s.Len()+len(msgs))
	owned = append(owned, msgs...)
	if s != nil {
		owned = append(owned, s.messages...)
	}
	return newSequence(s.ConversationID(), owned)
}

// Replace returns a new sequence with the message carrying the same ID
// swapped for msg. The receiver is returned unchanged when no ID matches.
func (s *Sequence) Replace(msg Message) *Sequence {
	for i := range s.Len() {
		if s.messages[i].ID == msg.ID {
			owned := make([]Message, len(s.messages))
			copy(owned, s.messages)
			owned[i] = msg
			return newSequence(s.conversationID, owned)
		}
	}
	return s
}
