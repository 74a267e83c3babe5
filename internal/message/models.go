package message

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MaxTextLen matches the original schema bound on message text.
	MaxTextLen = 1000

	// MaxSenderLen bounds the sender display name.
	MaxSenderLen = 150
)

type Message struct {
	ID       uuid.UUID `json:"id"`
	ChatID   uuid.UUID `json:"chat"`
	SentFrom string    `json:"sent_from"`
	Text     string    `json:"text"`
	Created  time.Time `json:"created"`
	Seq      int64     `json:"-"`
}
