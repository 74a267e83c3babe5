//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"click/config"
	"click/internal/api"
	"click/internal/auth"
	"click/internal/chat"
	"click/internal/database"
	"click/internal/friendship"
	"click/internal/identity"
	"click/internal/message"
)

var AppSet = wire.NewSet(
	ProvideSQL,
	ProvideLogger,
	ProvideJWT,
	ProvideBroker,
	ProvideGatewayHandler,
	identity.Set,
	chat.Set,
	friendship.Set,
	message.Set,
	auth.NewMiddleware,
	api.NewServer,
)

func InitializeApp(cfg *config.Config, db *database.Database) (*api.Server, error) {
	wire.Build(AppSet)
	return nil, nil
}
