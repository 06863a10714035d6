// Package store keeps conversation messages in a pebble database. Messages
// are keyed by conversation and a per-conversation sequence number so a
// conversation can be paged backwards from any point.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/google/uuid"
	"github.com/killallgit/scrollback/pkg/chat"
	"github.com/killallgit/scrollback/pkg/logger"
)

// ErrClosed is returned by every operation after Close
var ErrClosed = errors.New("store closed")

// ErrInvalidConversation is returned for a conversation ID that cannot be
// used in a key
var ErrInvalidConversation = errors.New("invalid conversation id")

// Options tune how the database is opened
type Options struct {
	// FS overrides the filesystem, vfs.NewMem() in tests
	FS vfs.FS
}

// Store is a pebble-backed message log
type Store struct {
	mu   sync.Mutex
	db   *pebble.DB
	next map[string]uint64 // next sequence number per conversation
	log  *logger.Component
}

// Open opens (or creates) the database at path
func Open(path string, opts Options) (*Store, error) {
	log := logger.WithComponent("store")

	po := &pebble.Options{}
	if opts.FS != nil {
		po.FS = opts.FS
	}

	log.Info("opening message store at %s", path)
	db, err := pebble.Open(path, po)
	if err != nil {
		log.Error("failed to open message store: %v", err)
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}

	return &Store{db: db, next: make(map[string]uint64), log: log}, nil
}

// Close closes the database. Closing twice is not an error.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.log.Info("message store closed")
	return err
}

// Append stores msg as the newest message of conversation and returns it
// with its ID and Seq filled in
func (s *Store) Append(conversation string, msg chat.Message) (chat.Message, error) {
	out, err := s.AppendMany(conversation, []chat.Message{msg})
	if err != nil {
		return chat.Message{}, err
	}
	return out[0], nil
}

// AppendMany stores msgs in order as one batch
func (s *Store) AppendMany(conversation string, msgs []chat.Message) ([]chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, ErrClosed
	}
	if err := validConversation(conversation); err != nil {
		return nil, err
	}

	seq, err := s.nextSeqLocked(conversation)
	if err != nil {
		return nil, err
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	out := make([]chat.Message, len(msgs))
	for i, msg := range msgs {
		if msg.ID == "" {
			msg.ID = uuid.NewString()
		}
		msg.Seq = seq + uint64(i)

		data, err := json.Marshal(msg)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message: %w", err)
		}
		if err := batch.Set(messageKey(conversation, msg.Seq), data, nil); err != nil {
			return nil, fmt.Errorf("failed to stage message: %w", err)
		}
		out[i] = msg
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		s.log.Error("save messages failed (conversation=%q): %v", conversation, err)
		return nil, fmt.Errorf("commit messages: %w", err)
	}
	s.next[conversation] = seq + uint64(len(msgs))
	s.log.Debug("saved %d message(s) to %q", len(msgs), conversation)
	return out, nil
}

// nextSeqLocked recovers the next sequence number from the newest stored
// key the first time a conversation is written in this process
func (s *Store) nextSeqLocked(conversation string) (uint64, error) {
	if n, ok := s.next[conversation]; ok {
		return n, nil
	}

	iter, err := s.db.NewIter(conversationBounds(conversation))
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	n := uint64(1)
	if iter.Last() {
		last, err := parseSeq(iter.Key())
		if err != nil {
			return 0, err
		}
		n = last + 1
	}
	s.next[conversation] = n
	return n, nil
}

// Latest returns up to limit of the newest messages, oldest first
func (s *Store) Latest(conversation string, limit int) ([]chat.Message, error) {
	return s.page(conversation, conversationBounds(conversation), limit)
}

// Before returns up to limit messages older than seq, oldest first
func (s *Store) Before(conversation string, seq uint64, limit int) ([]chat.Message, error) {
	bounds := conversationBounds(conversation)
	bounds.UpperBound = messageKey(conversation, seq)
	return s.page(conversation, bounds, limit)
}

func (s *Store) page(conversation string, bounds *pebble.IterOptions, limit int) ([]chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, ErrClosed
	}
	if err := validConversation(conversation); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []chat.Message{}, nil
	}

	iter, err := s.db.NewIter(bounds)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []chat.Message
	for ok := iter.Last(); ok && len(out) < limit; ok = iter.Prev() {
		var m chat.Message
		if err := json.Unmarshal(iter.Value(), &m); err != nil {
			return nil, fmt.Errorf("invalid message at %s: %w", iter.Key(), err)
		}
		out = append(out, m)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if out == nil {
		out = []chat.Message{}
	}
	return out, nil
}

// Count returns the number of stored messages in conversation
func (s *Store) Count(conversation string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return 0, ErrClosed
	}
	if err := validConversation(conversation); err != nil {
		return 0, err
	}

	iter, err := s.db.NewIter(conversationBounds(conversation))
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	n := 0
	for iter.First(); iter.Valid(); iter.Next() {
		n++
	}
	return n, iter.Error()
}

// Summary describes one stored conversation
type Summary struct {
	ID    string
	Count int
	// Last is the newest message
	Last chat.Message
}

// Conversations lists every conversation holding messages in key order
func (s *Store) Conversations() ([]Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, ErrClosed
	}

	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: []byte("conv:"), UpperBound: []byte("conv;")})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var (
		out  []Summary
		last []byte
	)
	flush := func() error {
		if len(out) == 0 {
			return nil
		}
		return json.Unmarshal(last, &out[len(out)-1].Last)
	}

	for iter.First(); iter.Valid(); iter.Next() {
		id, err := parseConversation(iter.Key())
		if err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].ID != id {
			if err := flush(); err != nil {
				return nil, err
			}
			out = append(out, Summary{ID: id})
		}
		out[len(out)-1].Count++
		last = append(last[:0], iter.Value()...)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

// Key format: conv:<conversation>:msg:<seq padded to 20 digits>. A ':' in
// the conversation would let one conversation's key range cover another's.

func validConversation(conversation string) error {
	if strings.Contains(conversation, ":") {
		return fmt.Errorf("%w %q: must not contain ':'", ErrInvalidConversation, conversation)
	}
	return nil
}

func conversationPrefix(conversation string) string {
	return "conv:" + conversation + ":msg:"
}

func messageKey(conversation string, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", conversationPrefix(conversation), seq))
}

func conversationBounds(conversation string) *pebble.IterOptions {
	prefix := []byte(conversationPrefix(conversation))
	upper := append([]byte(nil), prefix...)
	upper[len(upper)-1]++ // ':' -> ';'
	return &pebble.IterOptions{LowerBound: prefix, UpperBound: upper}
}

func parseConversation(key []byte) (string, error) {
	k := strings.TrimPrefix(string(key), "conv:")
	i := strings.LastIndex(k, ":msg:")
	if i < 0 {
		return "", fmt.Errorf("malformed message key %q", key)
	}
	return k[:i], nil
}

func parseSeq(key []byte) (uint64, error) {
	k := string(key)
	i := strings.LastIndex(k, ":")
	if i < 0 {
		return 0, fmt.Errorf("malformed message key %q", k)
	}
	seq, err := strconv.ParseUint(k[i+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed message key %q: %w", k, err)
	}
	return seq, nil
}
