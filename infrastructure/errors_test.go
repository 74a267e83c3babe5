package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrEmptyParticipants, http.StatusBadRequest},
		{ErrDuplicateParticipant, http.StatusBadRequest},
		{ErrSelfRequest, http.StatusBadRequest},
		{ErrEmptyText, http.StatusBadRequest},
		{ErrTextTooLong, http.StatusBadRequest},
		{ErrWeakPassword, http.StatusBadRequest},
		{ErrChatExists, http.StatusConflict},
		{ErrRoomNameTaken, http.StatusConflict},
		{ErrRequestExists, http.StatusConflict},
		{ErrUserExists, http.StatusConflict},
		{ErrChatNotFound, http.StatusNotFound},
		{ErrRequestNotFound, http.StatusNotFound},
		{ErrUserNotFound, http.StatusNotFound},
		{ErrMissingToken, http.StatusUnauthorized},
		{ErrInvalidToken, http.StatusUnauthorized},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrUnavailable, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusServiceUnavailable},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		require.Equal(t, c.want, HTTPStatus(c.err), "error: %v", c.err)
	}
}

func TestHTTPStatus_SeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("creating chat: %w", ErrChatExists)
	require.Equal(t, http.StatusConflict, HTTPStatus(wrapped))
}

func TestMapUniqueViolation(t *testing.T) {
	req := require.New(t)

	req.NoError(MapUniqueViolation(nil, ErrChatExists))

	dup := &pq.Error{Code: "23505"}
	req.ErrorIs(MapUniqueViolation(dup, ErrChatExists), ErrChatExists)
	req.ErrorIs(MapUniqueViolation(fmt.Errorf("insert: %w", dup), ErrRequestExists), ErrRequestExists)

	req.ErrorIs(MapUniqueViolation(context.DeadlineExceeded, ErrChatExists), ErrUnavailable)

	other := &pq.Error{Code: "23503"}
	req.Equal(other, MapUniqueViolation(other, ErrChatExists))

	plain := errors.New("broken pipe")
	req.Equal(plain, MapUniqueViolation(plain, ErrChatExists))
}

func TestUniqueViolationConstraint(t *testing.T) {
	req := require.New(t)

	dup := &pq.Error{Code: "23505", Constraint: "idx_chats_room_name"}
	name, ok := UniqueViolationConstraint(dup)
	req.True(ok)
	req.Equal("idx_chats_room_name", name)

	name, ok = UniqueViolationConstraint(fmt.Errorf("insert: %w", dup))
	req.True(ok)
	req.Equal("idx_chats_room_name", name)

	_, ok = UniqueViolationConstraint(&pq.Error{Code: "23503"})
	req.False(ok)

	_, ok = UniqueViolationConstraint(errors.New("broken pipe"))
	req.False(ok)

	_, ok = UniqueViolationConstraint(nil)
	req.False(ok)
}
