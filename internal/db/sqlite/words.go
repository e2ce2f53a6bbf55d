package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/tecsopro/tecsobot/internal/db"
)

var _ db.Client = (*sqliteClient)(nil)

func (c *sqliteClient) ListBannedWords(ctx context.Context, chatID int64) ([]string, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var words []string
	query := `SELECT word FROM banned_words WHERE chat_id = ? ORDER BY word ASC`
	if err := c.db.SelectContext(ctx, &words, query, chatID); err != nil {
		return nil, fmt.Errorf("failed to list banned words: %w", err)
	}
	return words, nil
}

func (c *sqliteClient) AddBannedWord(ctx context.Context, chatID int64, word string, createdBy int64) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	query := `
		INSERT OR IGNORE INTO banned_words (chat_id, word, created_by, created_at)
		VALUES (?, ?, ?, ?)
	`
	result, err := c.db.ExecContext(ctx, query, chatID, word, createdBy, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to add banned word: %w", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check banned word insert: %w", err)
	}
	return inserted > 0, nil
}

func (c *sqliteClient) RemoveBannedWord(ctx context.Context, chatID int64, word string) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	result, err := c.db.ExecContext(ctx,
		`DELETE FROM banned_words WHERE chat_id = ? AND word = ?`, chatID, word)
	if err != nil {
		return false, fmt.Errorf("failed to remove banned word: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check banned word delete: %w", err)
	}
	return removed > 0, nil
}
