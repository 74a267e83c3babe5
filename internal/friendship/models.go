package friendship

import (
	"time"

	"github.com/google/uuid"
)

// Request is a pending friend request for an ordered (sender, receiver)
// pair. A request only exists while pending: resolution deletes it.
type Request struct {
	ID           uuid.UUID `json:"id"`
	SentFrom     uuid.UUID `json:"sent_from"`
	ReceivedFrom uuid.UUID `json:"received_from"`
	Created      time.Time `json:"created"`
}

// Incoming is the listing shape: both participants resolved to usernames.
type Incoming struct {
	ID                   uuid.UUID `json:"id"`
	SentFromID           uuid.UUID `json:"sent_from_id"`
	SentFromUsername     string    `json:"sent_from_username"`
	ReceivedFromID       uuid.UUID `json:"received_from_id"`
	ReceivedFromUsername string    `json:"received_from_username"`
	Created              time.Time `json:"created"`
}
