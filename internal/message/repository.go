package message

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"click/infrastructure"
	"click/internal/chat"
)

type Repository interface {
	// Append stores the message and advances the chat's last_message in
	// one transaction, so history and activity ordering can't diverge.
	Append(ctx context.Context, message *Message) error
	ForChat(ctx context.Context, chatID uuid.UUID) ([]*Message, error)
}

type repository struct {
	*sql.DB
	messageSaver    Saver
	messageProvider Provider
	chatUpdater     chat.Updater
}

func NewRepository(db *sql.DB, saver Saver, provider Provider, chatUpdater chat.Updater) Repository {
	return &repository{
		DB:              db,
		messageSaver:    saver,
		messageProvider: provider,
		chatUpdater:     chatUpdater,
	}
}

func (r *repository) Append(ctx context.Context, message *Message) error {
	return infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
		if err := r.messageSaver.SaveMessage(tx, message); err != nil {
			return err
		}
		// A missing chat surfaces here and rolls the insert back.
		return r.chatUpdater.TouchChat(tx, message.ChatID, message.Created)
	})
}

func (r *repository) ForChat(ctx context.Context, chatID uuid.UUID) ([]*Message, error) {
	return r.messageProvider.MessagesForChat(ctx, chatID)
}
