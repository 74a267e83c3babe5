package friendship

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"click/infrastructure"
	"click/internal/chat"
)

type Repository interface {
	Create(ctx context.Context, request *Request) error
	ByID(ctx context.Context, id uuid.UUID) (*Request, error)
	ReceivedBy(ctx context.Context, userID uuid.UUID) ([]*Request, error)
	PairExists(ctx context.Context, sentFrom, receivedFrom uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Accept deletes the request and creates the chat for its pair in a
	// single transaction, so an accepted request can never linger without
	// its chat, and a concurrently resolved request aborts the accept.
	Accept(ctx context.Context, request *Request) (*chat.Chat, error)
}

type repository struct {
	*sql.DB
	requestSaver    Saver
	requestProvider Provider
	requestDeleter  Deleter
	chatSaver       chat.Saver
}

func NewRepository(
	db *sql.DB,
	requestSaver Saver,
	requestProvider Provider,
	requestDeleter Deleter,
	chatSaver chat.Saver,
) Repository {
	return &repository{
		DB:              db,
		requestSaver:    requestSaver,
		requestProvider: requestProvider,
		requestDeleter:  requestDeleter,
		chatSaver:       chatSaver,
	}
}

func (r *repository) Create(ctx context.Context, request *Request) error {
	return infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
		return r.requestSaver.SaveRequest(tx, request)
	})
}

func (r *repository) ByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	return r.requestProvider.RequestByID(ctx, id)
}

func (r *repository) ReceivedBy(ctx context.Context, userID uuid.UUID) ([]*Request, error) {
	return r.requestProvider.RequestsReceivedBy(ctx, userID)
}

func (r *repository) PairExists(ctx context.Context, sentFrom, receivedFrom uuid.UUID) (bool, error) {
	return r.requestProvider.PairExists(ctx, sentFrom, receivedFrom)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
		return r.requestDeleter.DeleteRequest(tx, id)
	})
}

func (r *repository) Accept(ctx context.Context, request *Request) (*chat.Chat, error) {
	created := chat.New([]uuid.UUID{request.SentFrom, request.ReceivedFrom}, "")
	err := infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
		if err := r.requestDeleter.DeleteRequest(tx, request.ID); err != nil {
			return err
		}
		return r.chatSaver.SaveChat(tx, created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
