package infrastructure

import (
	"context"
	"errors"
	"net/http"
)

var (
	// Validation: rejected before any mutation.
	ErrInvalidInput         = errors.New("invalid input")
	ErrEmptyParticipants    = errors.New("participants list can't be empty")
	ErrDuplicateParticipant = errors.New("each user can be included in the chat at most once")
	ErrSelfRequest          = errors.New("sender and receiver have to be different")
	ErrEmptyText            = errors.New("message text can't be empty")
	ErrTextTooLong          = errors.New("message text too long")
	ErrWeakPassword         = errors.New("password is not strong enough")

	// Conflict: the entity already exists.
	ErrChatExists    = errors.New("chat already exists")
	ErrRoomNameTaken = errors.New("room name already in use")
	ErrRequestExists = errors.New("request already exists")
	ErrUserExists    = errors.New("user already exists")

	// Not found.
	ErrChatNotFound    = errors.New("chat not found")
	ErrRequestNotFound = errors.New("request not found")
	ErrUserNotFound    = errors.New("user not found")

	// Auth.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("operation not permitted")
	ErrMissingToken = errors.New("missing access token")
	ErrInvalidToken = errors.New("invalid access token")

	// Persistence layer unreachable or timed out.
	ErrUnavailable = errors.New("storage unavailable")
)

// HTTPStatus maps a sentinel error onto the status code the REST surface
// reports for it. Unknown errors are treated as internal.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrEmptyParticipants),
		errors.Is(err, ErrDuplicateParticipant),
		errors.Is(err, ErrSelfRequest),
		errors.Is(err, ErrEmptyText),
		errors.Is(err, ErrTextTooLong),
		errors.Is(err, ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, ErrChatExists),
		errors.Is(err, ErrRoomNameTaken),
		errors.Is(err, ErrRequestExists),
		errors.Is(err, ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, ErrChatNotFound),
		errors.Is(err, ErrRequestNotFound),
		errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMissingToken), errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
