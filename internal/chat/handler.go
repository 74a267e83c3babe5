package chat

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

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

func (h *JSONHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Participants []uuid.UUID `json:"participants"`
		RoomName     string      `json:"room_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		infrastructure.WriteError(w, infrastructure.ErrInvalidInput)
		return
	}

	chat, err := h.service.Create(r.Context(), req.Participants, req.RoomName)
	if err != nil {
		infrastructure.WriteError(w, err)
		return
	}
	infrastructure.WriteJSON(w, http.StatusCreated, chat)
}

func (h *JSONHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	chatID, err := uuid.Parse(mux.Vars(r)["chat_id"])
	if err != nil {
		infrastructure.WriteError(w, infrastructure.ErrInvalidInput)
		return
	}

	chat, err := h.service.Get(r.Context(), chatID)
	if err != nil {
		infrastructure.WriteError(w, err)
		return
	}
	infrastructure.WriteJSON(w, http.StatusOK, chat)
}

func (h *JSONHandler) List(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	user, err := h.users.ByUsername(r.Context(), username)
	if err != nil {
		infrastructure.WriteError(w, err)
		return
	}

	summaries, err := h.service.ListForUser(r.Context(), user.ID)
	if err != nil {
		infrastructure.WriteError(w, err)
		return
	}
	infrastructure.WriteJSON(w, http.StatusOK, summaries)
}

func (h *JSONHandler) UpdateLastMessage(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFrom(r.Context())
	if !ok {
		infrastructure.WriteError(w, infrastructure.ErrUnauthorized)
		return
	}

	chatID, err := uuid.Parse(mux.Vars(r)["chat_id"])
	if err != nil {
		infrastructure.WriteError(w, infrastructure.ErrInvalidInput)
		return
	}

	var req struct {
		LastMessage time.Time `json:"last_message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		infrastructure.WriteError(w, infrastructure.ErrInvalidInput)
		return
	}

	if err := h.service.Touch(r.Context(), caller.UserID, chatID, req.LastMessage); err != nil {
		infrastructure.WriteError(w, err)
		return
	}
	infrastructure.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
