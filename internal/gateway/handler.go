// Package gateway is the websocket boundary: it authenticates a
// connection into a chat room, persists inbound messages, and fans them
// out to everyone joined to the room, the sender included.
package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"click/infrastructure"
	"click/internal/chat"
	"click/internal/message"
	"click/internal/room"
)

// Frame is the wire shape exchanged with room clients, in both directions.
type Frame struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// ChatResolver maps a room name to its chat.
type ChatResolver interface {
	GetByRoom(ctx context.Context, roomName string) (*chat.Chat, error)
}

// Appender persists an inbound message.
type Appender interface {
	Append(ctx context.Context, chatID uuid.UUID, sender, text string) (*message.Message, error)
}

type Handler struct {
	broker         *room.Broker
	chats          ChatResolver
	messages       Appender
	persistTimeout time.Duration
	log            *slog.Logger
	upgrader       websocket.Upgrader
}

func NewHandler(broker *room.Broker, chats ChatResolver, messages Appender, persistTimeout time.Duration, log *slog.Logger) *Handler {
	return &Handler{
		broker:         broker,
		chats:          chats,
		messages:       messages,
		persistTimeout: persistTimeout,
		log:            log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

const writeWait = 10 * time.Second

// ServeRoom upgrades the connection and runs it until the client leaves.
// A message that fails to persist is dropped without a broadcast and
// without tearing the connection down; the room stays alive.
func (h *Handler) ServeRoom(w http.ResponseWriter, r *http.Request) {
	roomName := mux.Vars(r)["room_name"]

	ctx, cancel := context.WithTimeout(r.Context(), h.persistTimeout)
	roomChat, err := h.chats.GetByRoom(ctx, roomName)
	cancel()
	if err != nil {
		infrastructure.WriteError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "room", roomName, "error", err)
		return
	}

	sub := h.broker.Join(roomName)
	h.log.Info("client joined room", "room", roomName)

	// Writer drains the subscriber's channel; the channel closing (leave
	// or backpressure disconnect) ends the connection.
	go func() {
		for payload := range sub.Out() {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				break
			}
		}
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.log.Warn("dropping malformed frame", "room", roomName, "error", err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), h.persistTimeout)
		err = infrastructure.TimeOperation(ctx, "gateway.append", func() error {
			_, appendErr := h.messages.Append(ctx, roomChat.ID, frame.Username, frame.Message)
			return appendErr
		})
		cancel()
		if err != nil {
			// Best effort: keep the room alive, tell no one.
			h.log.Error("message not persisted, dropping", "room", roomName, "error", err)
			continue
		}

		payload, err := json.Marshal(frame)
		if err != nil {
			continue
		}
		h.broker.Publish(roomName, payload)
	}

	h.broker.Leave(sub)
	h.log.Info("client left room", "room", roomName)
}
