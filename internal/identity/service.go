package identity

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"time"

	"github.com/google/uuid"
	passwordvalidator "github.com/wagslane/go-password-validator"
	"golang.org/x/crypto/bcrypt"

	"click/infrastructure"
	"click/internal/database"
	"click/pkg/jwt"
)

const PasswordMinEntropyBits = 30

// Directory is the read-only view the relationship and chat components
// consume: identifier to username resolution and existence checks.
type Directory interface {
	ResolveUsername(ctx context.Context, id uuid.UUID) (string, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	store  Store
	tokens *jwt.JWT
	log    *slog.Logger
}

func NewService(store Store, tokens *jwt.JWT, log *slog.Logger) *Service {
	return &Service{store: store, tokens: tokens, log: log}
}

func (s *Service) Register(ctx context.Context, username, email, firstName, lastName, password string) (*User, string, error) {
	if username == "" || firstName == "" || lastName == "" {
		return nil, "", infrastructure.ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", infrastructure.ErrInvalidInput
	}
	if err := passwordvalidator.Validate(password, PasswordMinEntropyBits); err != nil {
		return nil, "", infrastructure.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	dbUser := &database.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Create(ctx, dbUser); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateToken(dbUser.ID, dbUser.Username)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("user registered", "username", username)
	return fromDBUser(dbUser), token, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (*User, string, error) {
	dbUser, err := s.store.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, infrastructure.ErrUserNotFound) {
			return nil, "", infrastructure.ErrUnauthorized
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword(dbUser.PasswordHash, []byte(password)); err != nil {
		return nil, "", infrastructure.ErrUnauthorized
	}

	token, err := s.tokens.GenerateToken(dbUser.ID, dbUser.Username)
	if err != nil {
		return nil, "", err
	}
	return fromDBUser(dbUser), token, nil
}

// Delete removes an account. A user is only allowed to delete the account
// matching their own credential.
func (s *Service) Delete(ctx context.Context, requester uuid.UUID, username string) error {
	dbUser, err := s.store.ByUsername(ctx, username)
	if err != nil {
		return err
	}
	if dbUser.ID != requester {
		return infrastructure.ErrForbidden
	}
	return s.store.Delete(ctx, dbUser.ID)
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	dbUsers, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]*User, len(dbUsers))
	for i, u := range dbUsers {
		users[i] = fromDBUser(u)
	}
	return users, nil
}

func (s *Service) ByUsername(ctx context.Context, username string) (*User, error) {
	dbUser, err := s.store.ByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return fromDBUser(dbUser), nil
}

func (s *Service) ResolveUsername(ctx context.Context, id uuid.UUID) (string, error) {
	dbUser, err := s.store.ByID(ctx, id)
	if err != nil {
		return "", err
	}
	return dbUser.Username, nil
}

func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.store.ByID(ctx, id)
	if errors.Is(err, infrastructure.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
