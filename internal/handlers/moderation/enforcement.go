package handlers

import (
	"context"
	"fmt"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"

	"github.com/tecsopro/tecsobot/internal/bot"
	"github.com/tecsopro/tecsobot/internal/config"
	"github.com/tecsopro/tecsobot/internal/db"
	"github.com/tecsopro/tecsobot/internal/i18n"
	"github.com/tecsopro/tecsobot/internal/notify"
	"github.com/tecsopro/tecsobot/internal/observability"
)

type wordsReader interface {
	ListBannedWords(ctx context.Context, chatID int64) ([]string, error)
}

// Enforcer screens every group message against the chat's banned words.
// A hit deletes the message, issues a system warn and re-evaluates the
// ban threshold. Administrators are exempt.
type Enforcer struct {
	s        bot.Service
	platform bot.Platform
	words    wordsReader
	engine   *WarnEngine
	notifier notify.Notifier
	lang     string
}

func NewEnforcer(s bot.Service, engine *WarnEngine, notifier notify.Notifier) *Enforcer {
	return &Enforcer{
		s:        s,
		platform: s.GetPlatform(),
		words:    s.GetDB(),
		engine:   engine,
		notifier: notifier,
		lang:     config.Get().DefaultLanguage,
	}
}

func (h *Enforcer) Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (bool, error) {
	if chat == nil || user == nil {
		return true, nil
	}
	if u.Message == nil || user.IsBot {
		return true, nil
	}
	if !chat.IsGroup() && !chat.IsSuperGroup() {
		return true, nil
	}
	m := u.Message
	text := m.Text
	if text == "" {
		text = m.Caption
	}
	if text == "" {
		return true, nil
	}

	words, err := h.words.ListBannedWords(ctx, chat.ID)
	if err != nil {
		return true, err
	}
	word, hit := MatchBannedWord(text, words)
	if !hit {
		return true, nil
	}

	isAdmin, err := h.platform.IsAdmin(ctx, chat.ID, user.ID)
	if err != nil {
		return true, err
	}
	if isAdmin {
		return true, nil
	}

	observability.RecordWordHit()
	entry := h.getLogEntry().WithFields(log.Fields{"chat_id": chat.ID, "user_id": user.ID, "word": word})

	// the warn stands even if the delete fails, the violation already happened
	if err := h.platform.DeleteMessage(ctx, chat.ID, m.MessageID); err != nil {
		entry.WithError(err).Warn("cant delete message")
	}

	reason := fmt.Sprintf("banned word: %s", word)
	count, err := h.engine.IssueWarn(ctx, chat.ID, user.ID, db.SystemIssuerID, reason)
	if err != nil {
		return false, err
	}
	settings, err := h.s.GetDB().GetSettings(ctx, chat.ID)
	if err != nil {
		return false, err
	}

	notice := fmt.Sprintf("🚫 %s %s: %d/%d", bot.GetUN(user), i18n.Get("used a banned word and got a warn", h.lang), count, settings.WarnThreshold)
	if _, err := h.platform.SendMessage(ctx, chat.ID, notice); err != nil {
		entry.WithError(err).Debug("cant send notice")
	}
	h.notifier.Notify(chat.ID, fmt.Sprintf("WORD HIT | user %d | %q | %d/%d", user.ID, word, count, settings.WarnThreshold))

	if _, err := h.engine.EvaluateThreshold(ctx, chat.ID, user.ID, db.SystemIssuerID, db.BanOriginBannedWord); err != nil {
		return false, err
	}

	return false, nil
}

func (h *Enforcer) getLogEntry() *log.Entry {
	return log.WithField("context", "enforcer")
}
