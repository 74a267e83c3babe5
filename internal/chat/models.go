package chat

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Chat struct {
	ID           uuid.UUID   `json:"id"`
	Participants []uuid.UUID `json:"participants"`
	RoomName     string      `json:"room_name"`
	Created      time.Time   `json:"created"`
	LastMessage  time.Time   `json:"last_message"`
}

// Summary is the listing shape: participant ids resolved to usernames.
type Summary struct {
	ID           uuid.UUID `json:"id"`
	Participants []string  `json:"participants"`
	RoomName     string    `json:"room_name"`
	Created      time.Time `json:"created"`
	LastMessage  time.Time `json:"last_message"`
}

// New builds a chat for the given participant set. LastMessage starts at
// creation time so a fresh chat sorts ahead of stale ones.
func New(participants []uuid.UUID, roomName string) *Chat {
	if roomName == "" {
		roomName = uuid.NewString()
	}
	now := time.Now().UTC()
	return &Chat{
		ID:           uuid.New(),
		Participants: participants,
		RoomName:     roomName,
		Created:      now,
		LastMessage:  now,
	}
}

// CanonicalKey reduces a participant set to its canonical string form:
// sorted ids joined with ",". Chats are unique on this key, which makes
// membership equality order-independent and the dedup check a single
// atomic insert against the unique index.
func CanonicalKey(participants []uuid.UUID) string {
	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.String()
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}
