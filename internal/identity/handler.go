package identity

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"click/infrastructure"
	"click/internal/auth"
)

var validate = validator.New()

type JSONHandler struct {
	service *Service
}

func NewJSONHandler(service *Service) *JSONHandler {
	return &JSONHandler{service: service}
}

func (h *JSONHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username  string `json:"username" validate:"required"`
		Email     string `json:"email" validate:"required,email"`
		FirstName string `json:"first_name" validate:"required,max=20"`
		LastName  string `json:"last_name" validate:"required,max=20"`
		Password  string `json:"password" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		infrastructure.WriteError(w, infrastructure.ErrInvalidInput)
		return
	}
	if err := validate.Struct(req); err != nil {
		infrastructure.WriteError(w, infrastructure.ErrInvalidInput)
		return
	}

	user, token, err := h.service.Register(r.Context(), req.Username, req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		infrastructure.WriteError(w, err)
		return
	}

	infrastructure.WriteJSON(w, http.StatusCreated, struct {
		User  *User  `json:"user"`
		Token string `json:"token"`
	}{User: user, Token: token})
}

func (h *JSONHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		infrastructure.WriteError(w, infrastructure.ErrInvalidInput)
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		infrastructure.WriteError(w, err)
		return
	}

	infrastructure.WriteJSON(w, http.StatusOK, struct {
		User  *User  `json:"user"`
		Token string `json:"token"`
	}{User: user, Token: token})
}

// Logout exists for the client's benefit: tokens are stateless, so the
// server has nothing to revoke and the client simply discards its copy.
func (h *JSONHandler) Logout(w http.ResponseWriter, r *http.Request) {
	infrastructure.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *JSONHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		infrastructure.WriteError(w, err)
		return
	}
	infrastructure.WriteJSON(w, http.StatusOK, users)
}

func (h *JSONHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFrom(r.Context())
	if !ok {
		infrastructure.WriteError(w, infrastructure.ErrUnauthorized)
		return
	}

	username := mux.Vars(r)["username"]
	if err := h.service.Delete(r.Context(), caller.UserID, username); err != nil {
		infrastructure.WriteError(w, err)
		return
	}
	infrastructure.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
