package friendship

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"click/infrastructure"
)

type Saver interface {
	SaveRequest(tx *sql.Tx, request *Request) error
}

type Provider interface {
	RequestByID(ctx context.Context, id uuid.UUID) (*Request, error)
	RequestsReceivedBy(ctx context.Context, userID uuid.UUID) ([]*Request, error)
	PairExists(ctx context.Context, sentFrom, receivedFrom uuid.UUID) (bool, error)
}

type Deleter interface {
	DeleteRequest(tx *sql.Tx, id uuid.UUID) error
}

type PostgresStorage struct {
	db *sql.DB
}

func NewRequestPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) SaveRequest(tx *sql.Tx, request *Request) error {
	_, err := tx.Exec(`
		INSERT INTO friend_requests (id, sent_from, received_from, created)
		VALUES ($1, $2, $3, $4)`,
		request.ID, request.SentFrom, request.ReceivedFrom, request.Created)
	return infrastructure.MapUniqueViolation(err, infrastructure.ErrRequestExists)
}

func (s *PostgresStorage) RequestByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	request := &Request{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, sent_from, received_from, created
		FROM friend_requests WHERE id = $1`, id).Scan(
		&request.ID, &request.SentFrom, &request.ReceivedFrom, &request.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, infrastructure.ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return request, nil
}

// RequestsReceivedBy lists pending requests addressed to the user, newest
// first.
func (s *PostgresStorage) RequestsReceivedBy(ctx context.Context, userID uuid.UUID) ([]*Request, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sent_from, received_from, created
		FROM friend_requests WHERE received_from = $1
		ORDER BY created DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*Request
	for rows.Next() {
		request := &Request{}
		if err := rows.Scan(&request.ID, &request.SentFrom, &request.ReceivedFrom, &request.Created); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

func (s *PostgresStorage) PairExists(ctx context.Context, sentFrom, receivedFrom uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM friend_requests WHERE sent_from = $1 AND received_from = $2)`,
		sentFrom, receivedFrom).Scan(&exists)
	return exists, err
}

func (s *PostgresStorage) DeleteRequest(tx *sql.Tx, id uuid.UUID) error {
	res, err := tx.Exec("DELETE FROM friend_requests WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return infrastructure.ErrRequestNotFound
	}
	return nil
}
