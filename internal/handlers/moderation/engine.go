package handlers

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tecsopro/tecsobot/internal/bot"
	"github.com/tecsopro/tecsobot/internal/db"
	"github.com/tecsopro/tecsobot/internal/i18n"
	"github.com/tecsopro/tecsobot/internal/notify"
	"github.com/tecsopro/tecsobot/internal/observability"
)

const (
	// MinMuteMinutes and MaxMuteMinutes bound a mute duration; 10080 minutes
	// is seven days, past which the platform treats restrictions as permanent.
	MinMuteMinutes = 1
	MaxMuteMinutes = 10080
)

// ThresholdOutcome is the result of a threshold evaluation.
type ThresholdOutcome int

const (
	ThresholdNoAction ThresholdOutcome = iota
	ThresholdBanned
	ThresholdBanFailed
)

type ledger interface {
	GetSettings(ctx context.Context, chatID int64) (*db.Settings, error)
	InsertWarn(ctx context.Context, warn *db.Warn) error
	CountWarns(ctx context.Context, chatID, userID int64) (int, error)
	ListWarns(ctx context.Context, chatID, userID int64, limit int) ([]*db.Warn, error)
	DeleteLastWarn(ctx context.Context, chatID, userID int64) (bool, error)
	DeleteWarns(ctx context.Context, chatID, userID int64) (int, error)
	InsertBan(ctx context.Context, ban *db.Ban) error
	InsertUnban(ctx context.Context, unban *db.Unban) error
}

// WarnEngine owns the warn ledger and the actions derived from it. It never
// caches counts; every decision re-reads the ledger so that concurrent
// updates converge on the stored state.
type WarnEngine struct {
	store    ledger
	platform bot.Platform
	notifier notify.Notifier
	lang     string
}

func NewWarnEngine(store ledger, platform bot.Platform, notifier notify.Notifier, lang string) *WarnEngine {
	return &WarnEngine{
		store:    store,
		platform: platform,
		notifier: notifier,
		lang:     lang,
	}
}

// IssueWarn appends a warn and returns the resulting live count. issuerID is
// db.SystemIssuerID for warns the bot issues on its own.
func (e *WarnEngine) IssueWarn(ctx context.Context, chatID, userID, issuerID int64, reason string) (int, error) {
	warn := &db.Warn{
		ChatID:    chatID,
		UserID:    userID,
		IssuerID:  issuerID,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.store.InsertWarn(ctx, warn); err != nil {
		return 0, err
	}
	origin := "admin"
	if issuerID == db.SystemIssuerID {
		origin = "system"
	}
	observability.RecordWarnIssued(origin)

	return e.store.CountWarns(ctx, chatID, userID)
}

// UndoLastWarn removes the most recent warn, reporting whether one existed.
func (e *WarnEngine) UndoLastWarn(ctx context.Context, chatID, userID int64) (bool, error) {
	return e.store.DeleteLastWarn(ctx, chatID, userID)
}

// ClearWarns removes every warn for the user and returns how many were removed.
func (e *WarnEngine) ClearWarns(ctx context.Context, chatID, userID int64) (int, error) {
	return e.store.DeleteWarns(ctx, chatID, userID)
}

// ListWarns returns the newest warns first.
func (e *WarnEngine) ListWarns(ctx context.Context, chatID, userID int64, limit int) ([]*db.Warn, error) {
	return e.store.ListWarns(ctx, chatID, userID, limit)
}

func (e *WarnEngine) WarnCount(ctx context.Context, chatID, userID int64) (int, error) {
	return e.store.CountWarns(ctx, chatID, userID)
}

// EvaluateThreshold bans the user when the live warn count has reached the
// chat's threshold. origin tags the ban record with what pushed the count
// over: threshold_warn for command warns, banned_word for filter warns. It
// is re-entrant on purpose: if an earlier ban attempt failed, the next warn
// re-evaluates and tries again, because the warn count does not shrink on
// its own.
func (e *WarnEngine) EvaluateThreshold(ctx context.Context, chatID, userID, issuerID int64, origin db.BanOrigin) (ThresholdOutcome, error) {
	count, err := e.store.CountWarns(ctx, chatID, userID)
	if err != nil {
		return ThresholdNoAction, err
	}
	settings, err := e.store.GetSettings(ctx, chatID)
	if err != nil {
		return ThresholdNoAction, err
	}
	if count < settings.WarnThreshold {
		return ThresholdNoAction, nil
	}

	if err := e.platform.BanMember(ctx, chatID, userID); err != nil {
		log.WithError(err).WithFields(log.Fields{"chat_id": chatID, "user_id": userID}).Warn("threshold ban failed")
		e.notifier.Notify(chatID, fmt.Sprintf("BAN FAILED | user %d | %d/%d warns | %v", userID, count, settings.WarnThreshold, err))
		return ThresholdBanFailed, nil
	}

	reason := fmt.Sprintf("reached %d/%d warns", count, settings.WarnThreshold)
	if err := e.store.InsertBan(ctx, &db.Ban{
		ChatID:    chatID,
		UserID:    userID,
		IssuerID:  issuerID,
		Reason:    reason,
		Origin:    origin,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return ThresholdBanned, err
	}
	observability.RecordBan(string(origin))

	if _, err := e.platform.SendMessage(ctx, chatID, fmt.Sprintf("⛔ %s (%d/%d)", i18n.Get("User banned for reaching the warn limit", e.lang), count, settings.WarnThreshold)); err != nil {
		log.WithError(err).Debug("cant send threshold ban notice")
	}
	e.notifier.Notify(chatID, fmt.Sprintf("AUTOBAN | user %d | %s", userID, reason))

	return ThresholdBanned, nil
}

// ManualBan bans the user and records it. The platform action comes first;
// no record is written for a ban that did not happen.
func (e *WarnEngine) ManualBan(ctx context.Context, chatID, userID, issuerID int64, reason string) error {
	if err := e.platform.BanMember(ctx, chatID, userID); err != nil {
		return err
	}
	if err := e.store.InsertBan(ctx, &db.Ban{
		ChatID:    chatID,
		UserID:    userID,
		IssuerID:  issuerID,
		Reason:    reason,
		Origin:    db.BanOriginManual,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}
	observability.RecordBan(string(db.BanOriginManual))
	e.notifier.Notify(chatID, fmt.Sprintf("BAN | admin %d → user %d | %s", issuerID, userID, reason))
	return nil
}

func (e *WarnEngine) ManualUnban(ctx context.Context, chatID, userID, issuerID int64, reason string) error {
	if err := e.platform.UnbanMember(ctx, chatID, userID); err != nil {
		return err
	}
	if err := e.store.InsertUnban(ctx, &db.Unban{
		ChatID:    chatID,
		UserID:    userID,
		IssuerID:  issuerID,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}
	e.notifier.Notify(chatID, fmt.Sprintf("UNBAN | admin %d → user %d | %s", issuerID, userID, reason))
	return nil
}

// ManualMute restricts the user for the given number of minutes, clamped to
// the supported range. It returns the minutes actually applied.
func (e *WarnEngine) ManualMute(ctx context.Context, chatID, userID, issuerID int64, minutes int) (int, error) {
	minutes = Clamp(minutes, MinMuteMinutes, MaxMuteMinutes)
	until := time.Now().Add(time.Duration(minutes) * time.Minute)
	if err := e.platform.RestrictMember(ctx, chatID, userID, until); err != nil {
		return minutes, err
	}
	e.notifier.Notify(chatID, fmt.Sprintf("MUTE | admin %d → user %d | %d min", issuerID, userID, minutes))
	return minutes, nil
}
