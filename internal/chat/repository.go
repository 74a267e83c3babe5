package chat

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"click/infrastructure"
)

type Repository interface {
	Create(ctx context.Context, chat *Chat) error
	ByID(ctx context.Context, id uuid.UUID) (*Chat, error)
	ByRoom(ctx context.Context, roomName string) (*Chat, error)
	ForUser(ctx context.Context, userID uuid.UUID) ([]*Chat, error)
	Exists(ctx context.Context, participants []uuid.UUID) (bool, error)
	Touch(ctx context.Context, id uuid.UUID, ts time.Time) error
}

type repository struct {
	*sql.DB
	chatSaver    Saver
	chatProvider Provider
	chatUpdater  Updater
}

func NewRepository(db *sql.DB, saver Saver, provider Provider, updater Updater) Repository {
	return &repository{
		DB:           db,
		chatSaver:    saver,
		chatProvider: provider,
		chatUpdater:  updater,
	}
}

func (r *repository) Create(ctx context.Context, chat *Chat) error {
	return infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
		return r.chatSaver.SaveChat(tx, chat)
	})
}

func (r *repository) ByID(ctx context.Context, id uuid.UUID) (*Chat, error) {
	return r.chatProvider.ChatByID(ctx, id)
}

func (r *repository) ByRoom(ctx context.Context, roomName string) (*Chat, error) {
	return r.chatProvider.ChatByRoom(ctx, roomName)
}

func (r *repository) ForUser(ctx context.Context, userID uuid.UUID) ([]*Chat, error) {
	return r.chatProvider.ChatsForUser(ctx, userID)
}

func (r *repository) Exists(ctx context.Context, participants []uuid.UUID) (bool, error) {
	return r.chatProvider.ChatExists(ctx, CanonicalKey(participants))
}

func (r *repository) Touch(ctx context.Context, id uuid.UUID, ts time.Time) error {
	return infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
		return r.chatUpdater.TouchChat(tx, id, ts)
	})
}
