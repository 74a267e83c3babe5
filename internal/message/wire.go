package message

import (
	"database/sql"

	"github.com/google/wire"

	"click/internal/chat"
)

// ProvideMessageStorage is a Wire provider function that creates a message.PostgresStorage
func ProvideMessageStorage(db *sql.DB) *PostgresStorage {
	return NewMessagePostgresStorage(db)
}

func ProvideRepository(db *sql.DB, storage *PostgresStorage, chatStorage *chat.PostgresStorage) Repository {
	return NewRepository(db, storage, storage, chatStorage)
}

var Set = wire.NewSet(ProvideMessageStorage, ProvideRepository, NewService, NewJSONHandler)
