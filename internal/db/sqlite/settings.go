package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iamwavecut/tool"
	"github.com/pkg/errors"

	"github.com/tecsopro/tecsobot/internal/db"
)

func (c *sqliteClient) GetSettings(ctx context.Context, chatID int64) (*db.Settings, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := tool.Err(c.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO chats (chat_id) VALUES (?)", chatID,
	)); err != nil {
		return nil, fmt.Errorf("failed to ensure chat row: %w", err)
	}

	settings := &db.Settings{}
	query := `SELECT chat_id, warn_threshold, log_chat_id FROM chats WHERE chat_id = ?`
	if err := c.db.QueryRowxContext(ctx, query, chatID).StructScan(settings); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.DefaultSettings(chatID), nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

func (c *sqliteClient) SetWarnThreshold(ctx context.Context, chatID int64, threshold int) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	query := `
		INSERT INTO chats (chat_id, warn_threshold) VALUES (?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET warn_threshold = excluded.warn_threshold
	`
	if _, err := c.db.ExecContext(ctx, query, chatID, threshold); err != nil {
		return fmt.Errorf("failed to set warn threshold: %w", err)
	}
	return nil
}

func (c *sqliteClient) SetLogChatID(ctx context.Context, chatID int64, logChatID *int64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	query := `
		INSERT INTO chats (chat_id, log_chat_id) VALUES (?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET log_chat_id = excluded.log_chat_id
	`
	if _, err := c.db.ExecContext(ctx, query, chatID, logChatID); err != nil {
		return fmt.Errorf("failed to set log chat id: %w", err)
	}
	return nil
}
