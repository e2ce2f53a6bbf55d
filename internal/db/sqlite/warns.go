package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"

	"github.com/tecsopro/tecsobot/internal/db"
)

func (c *sqliteClient) InsertWarn(ctx context.Context, warn *db.Warn) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	query := `
		INSERT INTO warns (chat_id, user_id, issuer_id, reason, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := c.db.ExecContext(ctx, query,
		warn.ChatID,
		warn.UserID,
		warn.IssuerID,
		warn.Reason,
		warn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert warn: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read warn id: %w", err)
	}
	warn.ID = id
	return nil
}

func (c *sqliteClient) CountWarns(ctx context.Context, chatID, userID int64) (int, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var count int
	query := `SELECT COUNT(*) FROM warns WHERE chat_id = ? AND user_id = ?`
	if err := c.db.QueryRowxContext(ctx, query, chatID, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count warns: %w", err)
	}
	return count, nil
}

func (c *sqliteClient) ListWarns(ctx context.Context, chatID, userID int64, limit int) ([]*db.Warn, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	query := `
		SELECT id, chat_id, user_id, issuer_id, reason, created_at
		FROM warns
		WHERE chat_id = ? AND user_id = ?
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := c.db.QueryxContext(ctx, query, chatID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list warns: %w", err)
	}
	defer rows.Close()

	var warns []*db.Warn
	for rows.Next() {
		warn := &db.Warn{}
		if err := rows.StructScan(warn); err != nil {
			return nil, fmt.Errorf("failed to scan warn: %w", err)
		}
		warns = append(warns, warn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate warns: %w", err)
	}
	return warns, nil
}

func (c *sqliteClient) DeleteLastWarn(ctx context.Context, chatID, userID int64) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var id int64
	query := `
		SELECT id FROM warns
		WHERE chat_id = ? AND user_id = ?
		ORDER BY id DESC
		LIMIT 1
	`
	if err := c.db.QueryRowxContext(ctx, query, chatID, userID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find last warn: %w", err)
	}
	if _, err := c.db.ExecContext(ctx, `DELETE FROM warns WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete warn: %w", err)
	}
	return true, nil
}

func (c *sqliteClient) DeleteWarns(ctx context.Context, chatID, userID int64) (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	result, err := c.db.ExecContext(ctx,
		`DELETE FROM warns WHERE chat_id = ? AND user_id = ?`, chatID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete warns: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted warns: %w", err)
	}
	return int(removed), nil
}
