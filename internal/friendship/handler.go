package friendship

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"click/infrastructure"
	"click/internal/auth"
	"click/internal/identity"
)

type JSONHandler struct {
	service *Service
	users   *identity.Service
}

func NewJSONHandler(service *Service, users *identity.Service) *JSONHandler {
	return &JSONHandler{service: service, users: users}
}

// Send addresses the receiver by username, as the original client does.
func (h *JSONHandler) Send(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFrom(r.Context())
	if !ok {
		infrastructure.WriteError(w, infrastructure.ErrUnauthorized)
		return
	}

	var req struct {
		ReceivedFrom string `json:"received_from"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ReceivedFrom == "" {
		infrastructure.WriteError(w, infrastructure.ErrInvalidInput)
		return
	}

	receiver, err := h.users.ByUsername(r.Context(), req.ReceivedFrom)
	if err != nil {
		infrastructure.WriteError(w, err)
		return
	}

	request, err := h.service.Send(r.Context(), caller.UserID, receiver.ID)
	if err != nil {
		infrastructure.WriteError(w, err)
		return
	}
	infrastructure.WriteJSON(w, http.StatusCreated, request)
}

func (h *JSONHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFrom(r.Context())
	if !ok {
		infrastructure.WriteError(w, infrastructure.ErrUnauthorized)
		return
	}

	incoming, err := h.service.ListIncoming(r.Context(), caller.UserID)
	if err != nil {
		infrastructure.WriteError(w, err)
		return
	}
	infrastructure.WriteJSON(w, http.StatusOK, incoming)
}

func (h *JSONHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFrom(r.Context())
	if !ok {
		infrastructure.WriteError(w, infrastructure.ErrUnauthorized)
		return
	}

	var req struct {
		ID     uuid.UUID `json:"id"`
		Accept bool      `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		infrastructure.WriteError(w, infrastructure.ErrInvalidInput)
		return
	}

	created, err := h.service.Resolve(r.Context(), caller.UserID, req.ID, req.Accept)
	if err != nil {
		infrastructure.WriteError(w, err)
		return
	}
	if created == nil {
		infrastructure.WriteJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
		return
	}
	infrastructure.WriteJSON(w, http.StatusCreated, created)
}

func (h *JSONHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFrom(r.Context())
	if !ok {
		infrastructure.WriteError(w, infrastructure.ErrUnauthorized)
		return
	}

	var req struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		infrastructure.WriteError(w, infrastructure.ErrInvalidInput)
		return
	}

	if err := h.service.Delete(r.Context(), caller.UserID, req.ID); err != nil {
		infrastructure.WriteError(w, err)
		return
	}
	infrastructure.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
