package main

import (
	"database/sql"
	"log/slog"
	"time"

	"click/config"
	"click/internal/chat"
	"click/internal/database"
	"click/internal/gateway"
	"click/internal/message"
	"click/internal/room"
	"click/pkg/jwt"
)

func ProvideSQL(db *database.Database) (*sql.DB, error) {
	return db.SQL()
}

func ProvideLogger() *slog.Logger {
	return slog.Default()
}

func ProvideJWT(cfg *config.Config) *jwt.JWT {
	return jwt.NewJWT(cfg.JWTSecret, cfg.TokenTTLSeconds)
}

func ProvideBroker(cfg *config.Config, log *slog.Logger) *room.Broker {
	return room.NewBroker(cfg.RoomBufferSize, log)
}

func ProvideGatewayHandler(
	broker *room.Broker,
	chats *chat.Service,
	messages *message.Service,
	cfg *config.Config,
	log *slog.Logger,
) *gateway.Handler {
	timeout := time.Duration(cfg.PersistTimeoutMS) * time.Millisecond
	return gateway.NewHandler(broker, chats, messages, timeout, log)
}
