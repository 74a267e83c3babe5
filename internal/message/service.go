package message

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/google/uuid"

	"click/infrastructure"
)

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Append validates and persists a message. The stored message carries a
// server-assigned creation time that never decreases across appends.
func (s *Service) Append(ctx context.Context, chatID uuid.UUID, sender, text string) (*Message, error) {
	if text == "" {
		return nil, infrastructure.ErrEmptyText
	}
	if utf8.RuneCountInString(text) > MaxTextLen {
		return nil, infrastructure.ErrTextTooLong
	}
	if sender == "" || utf8.RuneCountInString(sender) > MaxSenderLen {
		return nil, infrastructure.ErrInvalidInput
	}

	message := &Message{
		ID:       uuid.New(),
		ChatID:   chatID,
		SentFrom: sender,
		Text:     text,
	}
	if err := s.repo.Append(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *Service) List(ctx context.Context, chatID uuid.UUID) ([]*Message, error) {
	return s.repo.ForChat(ctx, chatID)
}
