package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Database struct {
	*gorm.DB
}

func New(databaseURL string) (*Database, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// SetMaxIdleConns sets the maximum number of connections in the idle connection pool.
	sqlDB.SetMaxIdleConns(10)

	// SetMaxOpenConns sets the maximum number of open connections to the database.
	sqlDB.SetMaxOpenConns(100)

	// SetConnMaxLifetime sets the maximum amount of time a connection may be reused.
	sqlDB.SetConnMaxLifetime(time.Hour)

	slog.Info("Connected to database")

	return &Database{db}, nil
}

// SQL exposes the underlying pool so the raw-SQL storages share it with gorm.
func (db *Database) SQL() (*sql.DB, error) {
	return db.DB.DB()
}

func (db *Database) Migrate() error {
	err := db.AutoMigrate(&User{}, &Chat{}, &ChatParticipant{}, &FriendRequest{}, &Message{})
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	slog.Info("Database migration completed")
	return nil
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"size:150;uniqueIndex;not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	FirstName    string    `gorm:"size:20"`
	LastName     string    `gorm:"size:20"`
	PasswordHash []byte    `gorm:"not null"`
	CreatedAt    time.Time
}

// Chat membership is globally unique: ParticipantsKey is the canonical
// (sorted) form of the participant set, so two chats can never share one.
type Chat struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	ParticipantsKey string    `gorm:"uniqueIndex:uq_chats_participants_key;not null"`
	RoomName        string    `gorm:"size:50;uniqueIndex;not null"`
	Created         time.Time `gorm:"not null"`
	LastMessage     time.Time `gorm:"not null"`
}

type ChatParticipant struct {
	ChatID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// FriendRequest rows are deleted on resolution; the pair index keeps
// concurrent duplicate sends from both succeeding.
type FriendRequest struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	SentFrom     uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_friend_requests_pair;not null"`
	ReceivedFrom uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_friend_requests_pair;not null"`
	Created      time.Time `gorm:"not null"`
}

type Message struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChatID   uuid.UUID `gorm:"type:uuid;index;not null"`
	SentFrom string    `gorm:"size:150;not null"`
	Text     string    `gorm:"size:1000;not null"`
	Created  time.Time `gorm:"not null"`
	Seq      int64     `gorm:"autoIncrement;uniqueIndex"`
}
