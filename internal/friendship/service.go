package friendship

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"click/infrastructure"
	"click/internal/chat"
	"click/internal/identity"
)

type Service struct {
	repo      Repository
	chats     chat.Repository
	directory identity.Directory
	log       *slog.Logger
}

func NewService(repo Repository, chats chat.Repository, directory identity.Directory, log *slog.Logger) *Service {
	return &Service{repo: repo, chats: chats, directory: directory, log: log}
}

// Send creates a pending request from sender to receiver. It is rejected
// when the sender addresses themselves, when a chat for the pair already
// exists, or when the same ordered pair is already pending. The pending
// check is advisory: the unique pair index decides the race when two
// identical sends arrive at once.
func (s *Service) Send(ctx context.Context, sender, receiver uuid.UUID) (*Request, error) {
	if sender == receiver {
		return nil, infrastructure.ErrSelfRequest
	}

	ok, err := s.directory.Exists(ctx, receiver)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, infrastructure.ErrUserNotFound
	}

	exists, err := s.chats.Exists(ctx, []uuid.UUID{sender, receiver})
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, infrastructure.ErrChatExists
	}

	pending, err := s.repo.PairExists(ctx, sender, receiver)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, infrastructure.ErrRequestExists
	}

	request := &Request{
		ID:           uuid.New(),
		SentFrom:     sender,
		ReceivedFrom: receiver,
		Created:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.log.Info("friend request sent", "request_id", request.ID)
	return request, nil
}

// ListIncoming returns the user's pending requests, newest first, with
// both participants' usernames resolved. A request whose sender account
// was deleted between the read and the resolution is left out; account
// deletion cascades such requests away.
func (s *Service) ListIncoming(ctx context.Context, userID uuid.UUID) ([]*Incoming, error) {
	requests, err := s.repo.ReceivedBy(ctx, userID)
	if err != nil {
		return nil, err
	}

	incoming := make([]*Incoming, 0, len(requests))
	for _, request := range requests {
		sentFrom, err := s.directory.ResolveUsername(ctx, request.SentFrom)
		if errors.Is(err, infrastructure.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		receivedFrom, err := s.directory.ResolveUsername(ctx, request.ReceivedFrom)
		if errors.Is(err, infrastructure.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		incoming = append(incoming, &Incoming{
			ID:                   request.ID,
			SentFromID:           request.SentFrom,
			SentFromUsername:     sentFrom,
			ReceivedFromID:       request.ReceivedFrom,
			ReceivedFromUsername: receivedFrom,
			Created:              request.Created,
		})
	}
	return incoming, nil
}

// Resolve finishes a pending request. Only its receiver may resolve it.
// Accepting creates the chat for the pair and deletes the request in one
// transaction; rejecting deletes the request only.
func (s *Service) Resolve(ctx context.Context, caller, requestID uuid.UUID, accept bool) (*chat.Chat, error) {
	request, err := s.repo.ByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.ReceivedFrom != caller {
		return nil, infrastructure.ErrForbidden
	}

	if !accept {
		if err := s.repo.Delete(ctx, requestID); err != nil {
			return nil, err
		}
		s.log.Info("friend request rejected", "request_id", requestID)
		return nil, nil
	}

	created, err := s.repo.Accept(ctx, request)
	if err != nil {
		return nil, err
	}
	s.log.Info("friend request accepted", "request_id", requestID, "chat_id", created.ID)
	return created, nil
}

// Delete removes a pending request without creating a chat. Either side
// of the pair may delete it.
func (s *Service) Delete(ctx context.Context, caller, requestID uuid.UUID) error {
	request, err := s.repo.ByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.SentFrom != caller && request.ReceivedFrom != caller {
		return infrastructure.ErrForbidden
	}
	return s.repo.Delete(ctx, requestID)
}
