package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DatabaseURL     string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret       string `envconfig:"JWT_SECRET" required:"true"`
	Port            string `envconfig:"PORT" default:"8000"`
	TokenTTLSeconds int64  `envconfig:"TOKEN_TTL_SECONDS" default:"86400"`

	// PersistTimeoutMS bounds every database call made from a live
	// websocket handler so an unreachable database cannot hang the
	// connection loop.
	PersistTimeoutMS int `envconfig:"PERSIST_TIMEOUT_MS" default:"5000"`

	// RoomBufferSize is the per-subscriber outbound backlog. A
	// subscriber that falls further behind is disconnected.
	RoomBufferSize int `envconfig:"ROOM_BUFFER_SIZE" default:"64"`
}

func Load() (*Config, error) {
	// Load .env file if it exists; the real environment wins.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
