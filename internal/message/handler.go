package message

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"click/infrastructure"
)

var validate = validator.New()

type JSONHandler struct {
	service *Service
}

func NewJSONHandler(service *Service) *JSONHandler {
	return &JSONHandler{service: service}
}

func (h *JSONHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Chat     uuid.UUID `json:"chat"`
		SentFrom string    `json:"sent_from" validate:"required,max=150"`
		Text     string    `json:"text" validate:"required,max=1000"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		infrastructure.WriteError(w, infrastructure.ErrInvalidInput)
		return
	}
	if err := validate.Struct(req); err != nil {
		infrastructure.WriteError(w, infrastructure.ErrInvalidInput)
		return
	}

	message, err := h.service.Append(r.Context(), req.Chat, req.SentFrom, req.Text)
	if err != nil {
		infrastructure.WriteError(w, err)
		return
	}
	infrastructure.WriteJSON(w, http.StatusCreated, message)
}

func (h *JSONHandler) List(w http.ResponseWriter, r *http.Request) {
	chatID, err := uuid.Parse(mux.Vars(r)["chat_id"])
	if err != nil {
		infrastructure.WriteError(w, infrastructure.ErrInvalidInput)
		return
	}

	messages, err := h.service.List(r.Context(), chatID)
	if err != nil {
		infrastructure.WriteError(w, err)
		return
	}
	if messages == nil {
		messages = []*Message{}
	}
	infrastructure.WriteJSON(w, http.StatusOK, messages)
}
