package store

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/pebble/vfs"
	"github.com/killallgit/scrollback/pkg/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMem(t *testing.T, fs vfs.FS) *Store {
	t.Helper()
	s, err := Open("messages", Options{FS: fs})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seed(t *testing.T, s *Store, conversation string, n int) []chat.Message {
	t.Helper()
	msgs := make([]chat.Message, n)
	for i := range msgs {
		msgs[i] = chat.Message{Content: fmt.Sprintf("message %d", i), FromMe: i%3 == 0, Media: chat.MediaText}
	}
	out, err := s.AppendMany(conversation, msgs)
	require.NoError(t, err)
	return out
}

func TestAppend(t *testing.T) {
	s := openMem(t, vfs.NewMem())

	t.Run("should assign ids and increasing sequence numbers", func(t *testing.T) {
		a, err := s.Append("general", chat.Message{Content: "first"})
		require.NoError(t, err)
		b, err := s.Append("general", chat.Message{ID: "fixed", Content: "second"})
		require.NoError(t, err)

		assert.NotEmpty(t, a.ID)
		assert.Equal(t, "fixed", b.ID)
		assert.Equal(t, uint64(1), a.Seq)
		assert.Equal(t, uint64(2), b.Seq)
	})

	t.Run("should number conversations independently", func(t *testing.T) {
		m, err := s.Append("random", chat.Message{Content: "elsewhere"})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), m.Seq)

		n, err := s.Count("general")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}

func TestPaging(t *testing.T) {
	s := openMem(t, vfs.NewMem())
	all := seed(t, s, "general", 25)
	seed(t, s, "general-2", 5)

	t.Run("should return the newest page oldest first", func(t *testing.T) {
		page, err := s.Latest("general", 10)
		require.NoError(t, err)
		require.Len(t, page, 10)
		assert.Equal(t, all[15:], page)
	})

	t.Run("should page backwards without gaps or overlap", func(t *testing.T) {
		var got []chat.Message
		page, err := s.Latest("general", 10)
		require.NoError(t, err)
		for len(page) > 0 {
			got = append(page, got...)
			page, err = s.Before("general", page[0].Seq, 10)
			require.NoError(t, err)
		}
		assert.Equal(t, all, got)
	})

	t.Run("should not leak into a conversation sharing a prefix", func(t *testing.T) {
		page, err := s.Latest("general", 100)
		require.NoError(t, err)
		assert.Len(t, page, 25)
	})

	t.Run("should return empty for unknown conversations and zero limits", func(t *testing.T) {
		page, err := s.Latest("nobody", 10)
		require.NoError(t, err)
		assert.Empty(t, page)

		page, err = s.Latest("general", 0)
		require.NoError(t, err)
		assert.Empty(t, page)

		page, err = s.Before("general", 1, 10)
		require.NoError(t, err)
		assert.Empty(t, page)
	})
}

func TestConversations(t *testing.T) {
	s := openMem(t, vfs.NewMem())

	t.Run("should be empty for a new store", func(t *testing.T) {
		convs, err := s.Conversations()
		require.NoError(t, err)
		assert.Empty(t, convs)
	})

	t.Run("should summarise each conversation", func(t *testing.T) {
		general := seed(t, s, "general", 12)
		seed(t, s, "general-2", 3)
		random := seed(t, s, "random", 1)

		convs, err := s.Conversations()
		require.NoError(t, err)
		require.Len(t, convs, 3)

		byID := map[string]Summary{}
		for _, c := range convs {
			byID[c.ID] = c
		}
		assert.Equal(t, 12, byID["general"].Count)
		assert.Equal(t, general[11].ID, byID["general"].Last.ID)
		assert.Equal(t, 3, byID["general-2"].Count)
		assert.Equal(t, random[0].Content, byID["random"].Last.Content)
	})
}

func TestReopenContinuesSequence(t *testing.T) {
	fs := vfs.NewMem()

	s, err := Open("messages", Options{FS: fs})
	require.NoError(t, err)
	seed(t, s, "general", 3)
	require.NoError(t, s.Close())

	s = openMem(t, fs)
	m, err := s.Append("general", chat.Message{Content: "after restart"})
	require.NoError(t, err)
	assert.Equal(t, uint64(4), m.Seq)
}

func TestConversationIDsCannotOverlap(t *testing.T) {
	t.Run("should reject ids that could collide with another conversation", func(t *testing.T) {
		s := openMem(t, vfs.NewMem())

		_, err := s.Append("a", chat.Message{Content: "in a"})
		require.NoError(t, err)

		_, err = s.Append("a:msg:x", chat.Message{Content: "in a:msg:x"})
		assert.ErrorIs(t, err, ErrInvalidConversation)
		_, err = s.Latest("a:msg:x", 10)
		assert.ErrorIs(t, err, ErrInvalidConversation)
		_, err = s.Before("a:msg:x", 5, 10)
		assert.ErrorIs(t, err, ErrInvalidConversation)
		_, err = s.Count("a:msg:x")
		assert.ErrorIs(t, err, ErrInvalidConversation)

		latest, err := s.Latest("a", 10)
		require.NoError(t, err)
		require.Len(t, latest, 1)
		assert.Equal(t, "in a", latest[0].Content)

		n, err := s.Count("a")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		next, err := s.Append("a", chat.Message{Content: "second"})
		require.NoError(t, err)
		assert.Equal(t, uint64(2), next.Seq)
	})
}

func TestClosed(t *testing.T) {
	s, err := Open("messages", Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Append("general", chat.Message{})
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Latest("general", 1)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Count("general")
	assert.ErrorIs(t, err, ErrClosed)
}
