package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"click/internal/auth"
	"click/internal/chat"
	"click/internal/friendship"
	"click/internal/gateway"
	"click/internal/identity"
	"click/internal/message"
)

type Server struct {
	router *mux.Router
}

func NewServer(
	authMiddleware *auth.Middleware,
	users *identity.JSONHandler,
	chats *chat.JSONHandler,
	messages *message.JSONHandler,
	requests *friendship.JSONHandler,
	rooms *gateway.Handler,
) *Server {
	r := mux.NewRouter()
	r.Use(Logger)

	r.HandleFunc("/health", healthCheck).Methods(http.MethodGet)

	// Registration and login are the only unauthenticated routes.
	r.HandleFunc("/users/add/", users.Register).Methods(http.MethodPost)
	r.HandleFunc("/users/login/", users.Login).Methods(http.MethodPost)

	protected := r.NewRoute().Subrouter()
	protected.Use(authMiddleware.Require)

	protected.HandleFunc("/users/logout/", users.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/users/list/", users.List).Methods(http.MethodGet)
	protected.HandleFunc("/users/delete/{username}/", users.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/chat/create/", chats.Create).Methods(http.MethodPost)
	protected.HandleFunc("/chat/retrieve/{chat_id}/", chats.Retrieve).Methods(http.MethodGet)
	protected.HandleFunc("/chat/list/{username}/", chats.List).Methods(http.MethodGet)
	protected.HandleFunc("/chat/last-message/{chat_id}/", chats.UpdateLastMessage).Methods(http.MethodPatch)

	protected.HandleFunc("/chat/message/save/", messages.Save).Methods(http.MethodPost)
	protected.HandleFunc("/chat/message/list/{chat_id}/", messages.List).Methods(http.MethodGet)

	protected.HandleFunc("/chat/request/send/", requests.Send).Methods(http.MethodPost)
	protected.HandleFunc("/chat/request/list/", requests.List).Methods(http.MethodGet)
	protected.HandleFunc("/chat/request/resolve/", requests.Resolve).Methods(http.MethodPost)
	protected.HandleFunc("/chat/request/delete/", requests.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/ws/{room_name}", rooms.ServeRoom).Methods(http.MethodGet)

	return &Server{router: r}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
