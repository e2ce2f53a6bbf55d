package db

import (
	"time"
)

type (
	// Settings is the per-chat moderation configuration. LogChatID is nil
	// when the mod-log is disabled.
	Settings struct {
		ChatID        int64  `db:"chat_id"`
		WarnThreshold int    `db:"warn_threshold"`
		LogChatID     *int64 `db:"log_chat_id"`
	}

	Warn struct {
		ID        int64     `db:"id"`
		ChatID    int64     `db:"chat_id"`
		UserID    int64     `db:"user_id"`
		IssuerID  int64     `db:"issuer_id"`
		Reason    string    `db:"reason"`
		CreatedAt time.Time `db:"created_at"`
	}

	Ban struct {
		ID        int64     `db:"id"`
		ChatID    int64     `db:"chat_id"`
		UserID    int64     `db:"user_id"`
		IssuerID  int64     `db:"issuer_id"`
		Reason    string    `db:"reason"`
		Origin    BanOrigin `db:"origin"`
		CreatedAt time.Time `db:"created_at"`
	}

	Unban struct {
		ID        int64     `db:"id"`
		ChatID    int64     `db:"chat_id"`
		UserID    int64     `db:"user_id"`
		IssuerID  int64     `db:"issuer_id"`
		Reason    string    `db:"reason"`
		CreatedAt time.Time `db:"created_at"`
	}

	BannedWord struct {
		ID        int64     `db:"id"`
		ChatID    int64     `db:"chat_id"`
		Word      string    `db:"word"`
		CreatedBy int64     `db:"created_by"`
		CreatedAt time.Time `db:"created_at"`
	}

	// BanOrigin classifies why a ban record was written.
	BanOrigin string
)

const (
	BanOriginManual        BanOrigin = "manual"
	BanOriginThresholdWarn BanOrigin = "threshold_warn"
	BanOriginBannedWord    BanOrigin = "banned_word"
)

const (
	MinWarnThreshold     = 1
	MaxWarnThreshold     = 20
	DefaultWarnThreshold = 3
)

// SystemIssuerID marks records created by the bot itself, e.g. a warn
// triggered by a banned word.
const SystemIssuerID int64 = 0

func DefaultSettings(chatID int64) *Settings {
	return &Settings{
		ChatID:        chatID,
		WarnThreshold: DefaultWarnThreshold,
	}
}
