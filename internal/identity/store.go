package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"click/infrastructure"
	"click/internal/database"
)

type Store interface {
	Create(ctx context.Context, user *database.User) error
	ByID(ctx context.Context, id uuid.UUID) (*database.User, error)
	ByUsername(ctx context.Context, username string) (*database.User, error)
	List(ctx context.Context) ([]*database.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormStore struct {
	db *database.Database
}

func NewStore(db *database.Database) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Create(ctx context.Context, user *database.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	return infrastructure.MapUniqueViolation(err, infrastructure.ErrUserExists)
}

func (s *gormStore) ByID(ctx context.Context, id uuid.UUID) (*database.User, error) {
	var user database.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, infrastructure.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) ByUsername(ctx context.Context, username string) (*database.User, error) {
	var user database.User
	err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, infrastructure.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) List(ctx context.Context) ([]*database.User, error) {
	var users []*database.User
	if err := s.db.WithContext(ctx).Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes the account together with its chat memberships and any
// friend requests it is a side of, so counterpart listings never trip
// over a participant id that no longer resolves. Chats themselves stay:
// the remaining participants keep their history.
func (s *gormStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&database.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return infrastructure.ErrUserNotFound
		}
		if err := tx.Where("sent_from = ? OR received_from = ?", id, id).
			Delete(&database.FriendRequest{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", id).
			Delete(&database.ChatParticipant{}).Error
	})
}
