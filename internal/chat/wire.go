package chat

import (
	"database/sql"

	"github.com/google/wire"
)

// ProvideChatStorage is a Wire provider function that creates a chat.PostgresStorage
func ProvideChatStorage(db *sql.DB) *PostgresStorage {
	return NewChatPostgresStorage(db)
}

func ProvideRepository(db *sql.DB, storage *PostgresStorage) Repository {
	return NewRepository(db, storage, storage, storage)
}

var Set = wire.NewSet(ProvideChatStorage, ProvideRepository, NewService, NewJSONHandler)
