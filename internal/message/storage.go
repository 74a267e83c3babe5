package message

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Saver interface {
	SaveMessage(tx *sql.Tx, message *Message) error
}

type Provider interface {
	MessagesForChat(ctx context.Context, chatID uuid.UUID) ([]*Message, error)
}

type PostgresStorage struct {
	db *sql.DB

	// clock guard: Created must never regress across concurrent appends,
	// even within one wall-clock tick. Ties are broken by seq.
	mu   sync.Mutex
	last time.Time
}

func NewMessagePostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// SaveMessage stamps the message with a monotonically non-decreasing
// creation time and the database-assigned insertion sequence.
func (s *PostgresStorage) SaveMessage(tx *sql.Tx, message *Message) error {
	s.mu.Lock()
	now := time.Now().UTC()
	if now.Before(s.last) {
		now = s.last
	}
	s.last = now
	s.mu.Unlock()
	message.Created = now

	return tx.QueryRow(`
		INSERT INTO messages (id, chat_id, sent_from, text, created)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq`,
		message.ID, message.ChatID, message.SentFrom, message.Text, message.Created).Scan(&message.Seq)
}

// MessagesForChat returns the chat's history ascending by creation time,
// insertion order within equal timestamps.
func (s *PostgresStorage) MessagesForChat(ctx context.Context, chatID uuid.UUID) ([]*Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, chat_id, sent_from, text, created, seq
		FROM messages WHERE chat_id = $1
		ORDER BY created ASC, seq ASC`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		message := &Message{}
		if err := rows.Scan(&message.ID, &message.ChatID, &message.SentFrom,
			&message.Text, &message.Created, &message.Seq); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}
