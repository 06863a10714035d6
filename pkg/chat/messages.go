package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the delivery state of a message
type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
	StatusFailed    Status = "failed"
)

// MediaKind tells the rendering layer which widget a message needs
type MediaKind string

const (
	MediaText  MediaKind = "text"
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
	MediaFile  MediaKind = "file"
)

type Message struct {
	ID        string    `json:"id"`
	Seq       uint64    `json:"seq,omitempty"`
	Content   string    `json:"content"`
	FromMe    bool      `json:"from_me"`
	Status    Status    `json:"status"`
	Media     MediaKind `json:"media"`
	CreatedAt time.Time `json:"created_at"`
}

// NewOutgoingMessage builds a text message sent by the local user
func NewOutgoingMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Content:   strings.TrimSpace(content),
		FromMe:    true,
		Status:    StatusPending,
		Media:     MediaText,
		CreatedAt: time.Now(),
	}
}

// NewIncomingMessage builds a text message received from the other party
func NewIncomingMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Content:   content,
		FromMe:    false,
		Status:    StatusDelivered,
		Media:     MediaText,
		CreatedAt: time.Now(),
	}
}

func (m Message) IsEmpty() bool {
	return m.Media == MediaText && strings.TrimSpace(m.Content) == ""
}

func (m Message) WithTimestamp(t time.Time) Message {
	m.CreatedAt = t
	return m
}
