package chat

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"click/infrastructure"
	"click/internal/identity"
)

type Service struct {
	repo      Repository
	directory identity.Directory
	log       *slog.Logger
}

func NewService(repo Repository, directory identity.Directory, log *slog.Logger) *Service {
	return &Service{repo: repo, directory: directory, log: log}
}

// Create validates the requested participant list and inserts the chat.
// The duplicate check happens on the input as given, before it collapses
// into a set, so a request naming the same user twice is rejected rather
// than silently deduplicated. Set-level uniqueness across chats is left
// to the canonical-key index: the insert either lands or reports
// ErrChatExists, regardless of concurrent creates for the same set.
func (s *Service) Create(ctx context.Context, participants []uuid.UUID, roomName string) (*Chat, error) {
	if len(participants) == 0 {
		return nil, infrastructure.ErrEmptyParticipants
	}
	seen := make(map[uuid.UUID]bool, len(participants))
	for _, p := range participants {
		if seen[p] {
			return nil, infrastructure.ErrDuplicateParticipant
		}
		seen[p] = true
	}

	for _, p := range participants {
		ok, err := s.directory.Exists(ctx, p)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, infrastructure.ErrUserNotFound
		}
	}

	chat := New(participants, roomName)
	if err := s.repo.Create(ctx, chat); err != nil {
		return nil, err
	}

	s.log.Info("chat created", "chat_id", chat.ID, "participants", len(participants))
	return chat, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Chat, error) {
	return s.repo.ByID(ctx, id)
}

func (s *Service) GetByRoom(ctx context.Context, roomName string) (*Chat, error) {
	return s.repo.ByRoom(ctx, roomName)
}

// ListForUser returns the user's chats, most recently active first, with
// participant ids resolved to usernames. A participant whose account was
// deleted between the membership read and the resolution is skipped
// rather than failing the whole listing.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Summary, error) {
	chats, err := s.repo.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*Summary, 0, len(chats))
	for _, c := range chats {
		summary := &Summary{
			ID:          c.ID,
			RoomName:    c.RoomName,
			Created:     c.Created,
			LastMessage: c.LastMessage,
		}
		for _, p := range c.Participants {
			username, err := s.directory.ResolveUsername(ctx, p)
			if errors.Is(err, infrastructure.ErrUserNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			summary.Participants = append(summary.Participants, username)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Touch advances last_message. Only a participant of the chat may touch it.
func (s *Service) Touch(ctx context.Context, caller uuid.UUID, chatID uuid.UUID, ts time.Time) error {
	chat, err := s.repo.ByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !contains(chat.Participants, caller) {
		return infrastructure.ErrForbidden
	}
	return s.repo.Touch(ctx, chatID, ts)
}

// TouchUnchecked is the internal message path: the sender's membership has
// already been established by the gateway or the message service.
func (s *Service) TouchUnchecked(ctx context.Context, chatID uuid.UUID, ts time.Time) error {
	return s.repo.Touch(ctx, chatID, ts)
}

func contains(participants []uuid.UUID, id uuid.UUID) bool {
	for _, p := range participants {
		if p == id {
			return true
		}
	}
	return false
}
