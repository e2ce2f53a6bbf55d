package db

import "context"

type Client interface {
	Close() error

	// GetSettings returns the chat settings, creating the default row on
	// first reference.
	GetSettings(ctx context.Context, chatID int64) (*Settings, error)
	SetWarnThreshold(ctx context.Context, chatID int64, threshold int) error
	SetLogChatID(ctx context.Context, chatID int64, logChatID *int64) error

	InsertWarn(ctx context.Context, warn *Warn) error
	CountWarns(ctx context.Context, chatID, userID int64) (int, error)
	ListWarns(ctx context.Context, chatID, userID int64, limit int) ([]*Warn, error)
	DeleteLastWarn(ctx context.Context, chatID, userID int64) (bool, error)
	DeleteWarns(ctx context.Context, chatID, userID int64) (int, error)

	InsertBan(ctx context.Context, ban *Ban) error
	InsertUnban(ctx context.Context, unban *Unban) error

	ListBannedWords(ctx context.Context, chatID int64) ([]string, error)
	AddBannedWord(ctx context.Context, chatID int64, word string, createdBy int64) (bool, error)
	RemoveBannedWord(ctx context.Context, chatID int64, word string) (bool, error)
}
