package friendship

import (
	"database/sql"

	"github.com/google/wire"

	"click/internal/chat"
)

// ProvideRequestStorage is a Wire provider function that creates a friendship.PostgresStorage
func ProvideRequestStorage(db *sql.DB) *PostgresStorage {
	return NewRequestPostgresStorage(db)
}

func ProvideRepository(db *sql.DB, storage *PostgresStorage, chatStorage *chat.PostgresStorage) Repository {
	return NewRepository(db, storage, storage, storage, chatStorage)
}

var Set = wire.NewSet(ProvideRequestStorage, ProvideRepository, NewService, NewJSONHandler)
