package friendship

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"click/infrastructure"
	"click/internal/chat"
)

type memoryChats struct {
	mu    sync.Mutex
	chats map[uuid.UUID]*chat.Chat
	keys  map[string]uuid.UUID
}

func newMemoryChats() *memoryChats {
	return &memoryChats{
		chats: make(map[uuid.UUID]*chat.Chat),
		keys:  make(map[string]uuid.UUID),
	}
}

func (r *memoryChats) Create(_ context.Context, c *chat.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.create(c)
}

func (r *memoryChats) create(c *chat.Chat) error {
	key := chat.CanonicalKey(c.Participants)
	if _, ok := r.keys[key]; ok {
		return infrastructure.ErrChatExists
	}
	r.keys[key] = c.ID
	stored := *c
	r.chats[c.ID] = &stored
	return nil
}

func (r *memoryChats) ByID(_ context.Context, id uuid.UUID) (*chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[id]
	if !ok {
		return nil, infrastructure.ErrChatNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *memoryChats) ByRoom(_ context.Context, roomName string) (*chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.chats {
		if c.RoomName == roomName {
			copied := *c
			return &copied, nil
		}
	}
	return nil, infrastructure.ErrChatNotFound
}

func (r *memoryChats) ForUser(_ context.Context, userID uuid.UUID) ([]*chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*chat.Chat
	for _, c := range r.chats {
		for _, p := range c.Participants {
			if p == userID {
				copied := *c
				out = append(out, &copied)
				break
			}
		}
	}
	return out, nil
}

func (r *memoryChats) Exists(_ context.Context, participants []uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.keys[chat.CanonicalKey(participants)]
	return ok, nil
}

func (r *memoryChats) Touch(_ context.Context, id uuid.UUID, ts time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[id]
	if !ok {
		return infrastructure.ErrChatNotFound
	}
	if ts.After(c.LastMessage) {
		c.LastMessage = ts
	}
	return nil
}

type memoryRequests struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*Request
	pairs map[[2]uuid.UUID]uuid.UUID
	chats *memoryChats
}

func newMemoryRequests(chats *memoryChats) *memoryRequests {
	return &memoryRequests{
		byID:  make(map[uuid.UUID]*Request),
		pairs: make(map[[2]uuid.UUID]uuid.UUID),
		chats: chats,
	}
}

func (r *memoryRequests) Create(_ context.Context, request *Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pair := [2]uuid.UUID{request.SentFrom, request.ReceivedFrom}
	if _, ok := r.pairs[pair]; ok {
		return infrastructure.ErrRequestExists
	}
	r.pairs[pair] = request.ID
	stored := *request
	r.byID[request.ID] = &stored
	return nil
}

func (r *memoryRequests) ByID(_ context.Context, id uuid.UUID) (*Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.byID[id]
	if !ok {
		return nil, infrastructure.ErrRequestNotFound
	}
	copied := *request
	return &copied, nil
}

func (r *memoryRequests) ReceivedBy(_ context.Context, userID uuid.UUID) ([]*Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Request
	for _, request := range r.byID {
		if request.ReceivedFrom == userID {
			copied := *request
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Created.After(out[j].Created)
	})
	return out, nil
}

func (r *memoryRequests) PairExists(_ context.Context, sentFrom, receivedFrom uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.pairs[[2]uuid.UUID{sentFrom, receivedFrom}]
	return ok, nil
}

func (r *memoryRequests) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.delete(id)
}

func (r *memoryRequests) delete(id uuid.UUID) error {
	request, ok := r.byID[id]
	if !ok {
		return infrastructure.ErrRequestNotFound
	}
	delete(r.pairs, [2]uuid.UUID{request.SentFrom, request.ReceivedFrom})
	delete(r.byID, id)
	return nil
}

func (r *memoryRequests) Accept(_ context.Context, request *Request) (*chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats.mu.Lock()
	defer r.chats.mu.Unlock()

	created := chat.New([]uuid.UUID{request.SentFrom, request.ReceivedFrom}, "")
	if err := r.chats.create(created); err != nil {
		return nil, err
	}
	if err := r.delete(request.ID); err != nil {
		return nil, err
	}
	return created, nil
}

type memoryDirectory struct {
	users map[uuid.UUID]string
}

func (d *memoryDirectory) ResolveUsername(_ context.Context, id uuid.UUID) (string, error) {
	username, ok := d.users[id]
	if !ok {
		return "", infrastructure.ErrUserNotFound
	}
	return username, nil
}

func (d *memoryDirectory) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := d.users[id]
	return ok, nil
}

func newTestService(users map[uuid.UUID]string) (*Service, *memoryRequests, *memoryChats) {
	chats := newMemoryChats()
	requests := newMemoryRequests(chats)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(requests, chats, &memoryDirectory{users: users}, log), requests, chats
}

func TestService_Send(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()
	users := map[uuid.UUID]string{alice: "alice", bob: "bob"}

	t.Run("creates a pending request", func(t *testing.T) {
		req := require.New(t)
		svc, _, _ := newTestService(users)

		request, err := svc.Send(ctx, alice, bob)
		req.NoError(err)
		req.Equal(alice, request.SentFrom)
		req.Equal(bob, request.ReceivedFrom)
	})

	t.Run("rejects a request to oneself", func(t *testing.T) {
		svc, _, _ := newTestService(users)
		_, err := svc.Send(ctx, alice, alice)
		require.ErrorIs(t, err, infrastructure.ErrSelfRequest)
	})

	t.Run("rejects an unknown receiver", func(t *testing.T) {
		svc, _, _ := newTestService(users)
		_, err := svc.Send(ctx, alice, uuid.New())
		require.ErrorIs(t, err, infrastructure.ErrUserNotFound)
	})

	t.Run("rejects when the pair already shares a chat", func(t *testing.T) {
		req := require.New(t)
		svc, _, chats := newTestService(users)
		req.NoError(chats.Create(ctx, chat.New([]uuid.UUID{bob, alice}, "")))

		_, err := svc.Send(ctx, alice, bob)
		req.ErrorIs(err, infrastructure.ErrChatExists)
	})

	t.Run("rejects a duplicate pending request", func(t *testing.T) {
		req := require.New(t)
		svc, _, _ := newTestService(users)

		_, err := svc.Send(ctx, alice, bob)
		req.NoError(err)
		_, err = svc.Send(ctx, alice, bob)
		req.ErrorIs(err, infrastructure.ErrRequestExists)
	})

	t.Run("concurrent identical sends admit exactly one", func(t *testing.T) {
		req := require.New(t)
		svc, _, _ := newTestService(users)

		const attempts = 16
		errs := make(chan error, attempts)
		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.Send(ctx, alice, bob)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		succeeded := 0
		for err := range errs {
			if err == nil {
				succeeded++
			} else {
				req.ErrorIs(err, infrastructure.ErrRequestExists)
			}
		}
		req.Equal(1, succeeded)
	})
}

func TestService_ListIncoming(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()
	users := map[uuid.UUID]string{alice: "alice", bob: "bob", carol: "carol"}
	svc, requests, _ := newTestService(users)

	older := &Request{ID: uuid.New(), SentFrom: alice, ReceivedFrom: carol, Created: time.Now().UTC().Add(-time.Hour)}
	newer := &Request{ID: uuid.New(), SentFrom: bob, ReceivedFrom: carol, Created: time.Now().UTC()}
	req.NoError(requests.Create(ctx, older))
	req.NoError(requests.Create(ctx, newer))

	incoming, err := svc.ListIncoming(ctx, carol)
	req.NoError(err)
	req.Len(incoming, 2)
	req.Equal(newer.ID, incoming[0].ID)
	req.Equal("bob", incoming[0].SentFromUsername)
	req.Equal("carol", incoming[0].ReceivedFromUsername)
	req.Equal(older.ID, incoming[1].ID)
	req.Equal("alice", incoming[1].SentFromUsername)

	none, err := svc.ListIncoming(ctx, alice)
	req.NoError(err)
	req.Empty(none)
}

func TestService_ListIncoming_DeletedSender(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()
	users := map[uuid.UUID]string{alice: "alice", bob: "bob", carol: "carol"}
	svc, _, _ := newTestService(users)

	_, err := svc.Send(ctx, alice, carol)
	req.NoError(err)
	kept, err := svc.Send(ctx, bob, carol)
	req.NoError(err)

	// Alice's account goes away; carol's listing carries on without her
	// request instead of failing outright.
	delete(users, alice)

	incoming, err := svc.ListIncoming(ctx, carol)
	req.NoError(err)
	req.Len(incoming, 1)
	req.Equal(kept.ID, incoming[0].ID)
	req.Equal("bob", incoming[0].SentFromUsername)
}

func TestService_Resolve(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()
	users := map[uuid.UUID]string{alice: "alice", bob: "bob"}

	t.Run("accept creates the chat and removes the request", func(t *testing.T) {
		req := require.New(t)
		svc, _, chats := newTestService(users)

		request, err := svc.Send(ctx, alice, bob)
		req.NoError(err)

		created, err := svc.Resolve(ctx, bob, request.ID, true)
		req.NoError(err)
		req.NotNil(created)
		req.ElementsMatch([]uuid.UUID{alice, bob}, created.Participants)

		_, err = svc.repo.ByID(ctx, request.ID)
		req.ErrorIs(err, infrastructure.ErrRequestNotFound)

		// The pair's chat now exists, so a direct create collides.
		err = chats.Create(ctx, chat.New([]uuid.UUID{bob, alice}, ""))
		req.ErrorIs(err, infrastructure.ErrChatExists)
	})

	t.Run("reject removes the request without a chat", func(t *testing.T) {
		req := require.New(t)
		svc, _, chats := newTestService(users)

		request, err := svc.Send(ctx, alice, bob)
		req.NoError(err)

		created, err := svc.Resolve(ctx, bob, request.ID, false)
		req.NoError(err)
		req.Nil(created)

		exists, err := chats.Exists(ctx, []uuid.UUID{alice, bob})
		req.NoError(err)
		req.False(exists)

		// The pair may try again after a rejection.
		_, err = svc.Send(ctx, alice, bob)
		req.NoError(err)
	})

	t.Run("only the receiver may resolve", func(t *testing.T) {
		req := require.New(t)
		svc, _, _ := newTestService(users)

		request, err := svc.Send(ctx, alice, bob)
		req.NoError(err)

		_, err = svc.Resolve(ctx, alice, request.ID, true)
		req.ErrorIs(err, infrastructure.ErrForbidden)
	})

	t.Run("unknown request is reported", func(t *testing.T) {
		svc, _, _ := newTestService(users)
		_, err := svc.Resolve(ctx, bob, uuid.New(), true)
		require.ErrorIs(t, err, infrastructure.ErrRequestNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()
	stranger := uuid.New()
	users := map[uuid.UUID]string{alice: "alice", bob: "bob", stranger: "eve"}

	t.Run("sender may withdraw", func(t *testing.T) {
		req := require.New(t)
		svc, _, _ := newTestService(users)
		request, err := svc.Send(ctx, alice, bob)
		req.NoError(err)

		req.NoError(svc.Delete(ctx, alice, request.ID))
		_, err = svc.repo.ByID(ctx, request.ID)
		req.ErrorIs(err, infrastructure.ErrRequestNotFound)
	})

	t.Run("receiver may dismiss", func(t *testing.T) {
		req := require.New(t)
		svc, _, _ := newTestService(users)
		request, err := svc.Send(ctx, alice, bob)
		req.NoError(err)

		req.NoError(svc.Delete(ctx, bob, request.ID))
	})

	t.Run("third parties may not delete", func(t *testing.T) {
		req := require.New(t)
		svc, _, _ := newTestService(users)
		request, err := svc.Send(ctx, alice, bob)
		req.NoError(err)

		err = svc.Delete(ctx, stranger, request.ID)
		req.ErrorIs(err, infrastructure.ErrForbidden)
	})
}
