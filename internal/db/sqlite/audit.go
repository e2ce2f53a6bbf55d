package sqlite

import (
	"context"
	"fmt"

	"github.com/tecsopro/tecsobot/internal/db"
)

func (c *sqliteClient) InsertBan(ctx context.Context, ban *db.Ban) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	query := `
		INSERT INTO bans (chat_id, user_id, issuer_id, reason, origin, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := c.db.ExecContext(ctx, query,
		ban.ChatID,
		ban.UserID,
		ban.IssuerID,
		ban.Reason,
		ban.Origin,
		ban.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ban record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read ban record id: %w", err)
	}
	ban.ID = id
	return nil
}

func (c *sqliteClient) InsertUnban(ctx context.Context, unban *db.Unban) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	query := `
		INSERT INTO unbans (chat_id, user_id, issuer_id, reason, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := c.db.ExecContext(ctx, query,
		unban.ChatID,
		unban.UserID,
		unban.IssuerID,
		unban.Reason,
		unban.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert unban record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read unban record id: %w", err)
	}
	unban.ID = id
	return nil
}
