package chat

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"click/infrastructure"
)

type Saver interface {
	SaveChat(tx *sql.Tx, chat *Chat) error
}

type Provider interface {
	ChatByID(ctx context.Context, id uuid.UUID) (*Chat, error)
	ChatByRoom(ctx context.Context, roomName string) (*Chat, error)
	ChatsForUser(ctx context.Context, userID uuid.UUID) ([]*Chat, error)
	ChatExists(ctx context.Context, participantsKey string) (bool, error)
}

type Updater interface {
	TouchChat(tx *sql.Tx, id uuid.UUID, ts time.Time) error
}

type PostgresStorage struct {
	db *sql.DB
}

func NewChatPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// roomNameIndex is the gorm-assigned name of the unique index on
// chats.room_name; the chats table carries a second unique index on
// participants_key, so 23505 alone doesn't say which collided.
const roomNameIndex = "idx_chats_room_name"

func (s *PostgresStorage) SaveChat(tx *sql.Tx, chat *Chat) error {
	_, err := tx.Exec(`
		INSERT INTO chats (id, participants_key, room_name, created, last_message)
		VALUES ($1, $2, $3, $4, $5)`,
		chat.ID, CanonicalKey(chat.Participants), chat.RoomName, chat.Created, chat.LastMessage)
	if err != nil {
		if constraint, ok := infrastructure.UniqueViolationConstraint(err); ok && constraint == roomNameIndex {
			return infrastructure.ErrRoomNameTaken
		}
		return infrastructure.MapUniqueViolation(err, infrastructure.ErrChatExists)
	}

	for _, userID := range chat.Participants {
		if _, err := tx.Exec(`
			INSERT INTO chat_participants (chat_id, user_id)
			VALUES ($1, $2)`, chat.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStorage) ChatByID(ctx context.Context, id uuid.UUID) (*Chat, error) {
	chat := &Chat{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, room_name, created, last_message
		FROM chats WHERE id = $1`, id).Scan(
		&chat.ID, &chat.RoomName, &chat.Created, &chat.LastMessage)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, infrastructure.ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}

	if chat.Participants, err = s.participants(ctx, chat.ID); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *PostgresStorage) ChatByRoom(ctx context.Context, roomName string) (*Chat, error) {
	chat := &Chat{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, room_name, created, last_message
		FROM chats WHERE room_name = $1`, roomName).Scan(
		&chat.ID, &chat.RoomName, &chat.Created, &chat.LastMessage)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, infrastructure.ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}

	if chat.Participants, err = s.participants(ctx, chat.ID); err != nil {
		return nil, err
	}
	return chat, nil
}

// ChatsForUser returns every chat the user participates in, most recently
// active first.
func (s *PostgresStorage) ChatsForUser(ctx context.Context, userID uuid.UUID) ([]*Chat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.room_name, c.created, c.last_message, p.user_id
		FROM chats c
		JOIN chat_participants p ON p.chat_id = c.id
		WHERE c.id IN (SELECT chat_id FROM chat_participants WHERE user_id = $1)
		ORDER BY c.last_message DESC, c.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []*Chat
	var current *Chat
	for rows.Next() {
		var (
			id, participant      uuid.UUID
			roomName             string
			created, lastMessage time.Time
		)
		if err := rows.Scan(&id, &roomName, &created, &lastMessage, &participant); err != nil {
			return nil, err
		}
		if current == nil || current.ID != id {
			current = &Chat{ID: id, RoomName: roomName, Created: created, LastMessage: lastMessage}
			chats = append(chats, current)
		}
		current.Participants = append(current.Participants, participant)
	}
	return chats, rows.Err()
}

func (s *PostgresStorage) ChatExists(ctx context.Context, participantsKey string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM chats WHERE participants_key = $1)`,
		participantsKey).Scan(&exists)
	return exists, err
}

// TouchChat keeps last_message monotonically non-decreasing.
func (s *PostgresStorage) TouchChat(tx *sql.Tx, id uuid.UUID, ts time.Time) error {
	res, err := tx.Exec(`
		UPDATE chats SET last_message = GREATEST(last_message, $2)
		WHERE id = $1`, id, ts)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return infrastructure.ErrChatNotFound
	}
	return nil
}

func (s *PostgresStorage) participants(ctx context.Context, chatID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id FROM chat_participants WHERE chat_id = $1`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []uuid.UUID
	for rows.Next() {
		var userID uuid.UUID
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		participants = append(participants, userID)
	}
	return participants, rows.Err()
}
