package handlers

import (
	"context"
	"strings"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"

	"github.com/tecsopro/tecsobot/internal/bot"
	"github.com/tecsopro/tecsobot/internal/config"
	"github.com/tecsopro/tecsobot/internal/db"
	moderation "github.com/tecsopro/tecsobot/internal/handlers/moderation"
	"github.com/tecsopro/tecsobot/internal/i18n"
	"github.com/tecsopro/tecsobot/internal/notify"
)

type settingsStore interface {
	GetSettings(ctx context.Context, chatID int64) (*db.Settings, error)
	SetWarnThreshold(ctx context.Context, chatID int64, threshold int) error
	SetLogChatID(ctx context.Context, chatID int64, logChatID *int64) error
	ListBannedWords(ctx context.Context, chatID int64) ([]string, error)
	AddBannedWord(ctx context.Context, chatID int64, word string, createdBy int64) (bool, error)
	RemoveBannedWord(ctx context.Context, chatID int64, word string) (bool, error)
}

// Admin owns the /config inline menu and the private-chat /start menu. The
// menu is a small state machine per chat: idle, or waiting for exactly one
// text message that names a word to add or remove.
type Admin struct {
	s        bot.Service
	platform bot.Platform
	store    settingsStore
	notifier notify.Notifier
	sessions *sessionStore
	lang     string
}

func NewAdmin(s bot.Service, notifier notify.Notifier) *Admin {
	return &Admin{
		s:        s,
		platform: s.GetPlatform(),
		store:    s.GetDB(),
		notifier: notifier,
		sessions: newSessionStore(),
		lang:     config.Get().DefaultLanguage,
	}
}

func (a *Admin) Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (bool, error) {
	if u.CallbackQuery != nil {
		return a.handleCallback(ctx, u.CallbackQuery, chat, user)
	}
	if chat == nil || user == nil || u.Message == nil || user.IsBot {
		return true, nil
	}
	m := u.Message

	if m.IsCommand() {
		switch m.Command() {
		case "start", "help":
			if chat.IsPrivate() {
				return a.handleStart(ctx, chat.ID)
			}
			a.send(ctx, chat.ID, i18n.Get("Bot is active. Admins: /config", a.lang))
			return false, nil
		case "config":
			if !chat.IsGroup() && !chat.IsSuperGroup() {
				return true, nil
			}
			return a.handleConfig(ctx, chat, user)
		}
		return true, nil
	}

	// plain group text may be an armed one-shot capture
	if (chat.IsGroup() || chat.IsSuperGroup()) && m.Text != "" {
		if sess, ok := a.sessions.snapshot(chat.ID); ok && sess.state != stateIdle {
			return a.handleCaptureInput(ctx, chat, user, m.Text)
		}
	}

	return true, nil
}

func (a *Admin) handleStart(ctx context.Context, chatID int64) (bool, error) {
	if _, err := a.platform.SendMessageWithMarkup(ctx, chatID, pmMenuText(a.lang), pmMenuKeyboard(a.lang)); err != nil {
		a.getLogEntry().WithError(err).Warn("cant send start menu")
	}
	return false, nil
}

func (a *Admin) handleConfig(ctx context.Context, chat *api.Chat, user *api.User) (bool, error) {
	isAdmin, err := a.platform.IsAdmin(ctx, chat.ID, user.ID)
	if err != nil {
		return false, err
	}
	if !isAdmin {
		a.send(ctx, chat.ID, i18n.Get("Only administrators can use this menu", a.lang))
		return false, nil
	}

	settings, err := a.store.GetSettings(ctx, chat.ID)
	if err != nil {
		return false, err
	}
	words, err := a.store.ListBannedWords(ctx, chat.ID)
	if err != nil {
		return false, err
	}

	text := mainMenuText(settings.WarnThreshold, len(words), settings.LogChatID != nil, a.lang)
	messageID, err := a.platform.SendMessageWithMarkup(ctx, chat.ID, text, mainMenuKeyboard(a.lang))
	if err != nil {
		return false, err
	}
	a.sessions.open(chat.ID, settings.WarnThreshold, messageID)
	return false, nil
}

// handleCaptureInput consumes the armed capture with the sender's text. The
// capture is one-shot: whatever the outcome, the session returns to idle.
// Non-admin text does not consume it and falls through to the rest of the
// chain.
func (a *Admin) handleCaptureInput(ctx context.Context, chat *api.Chat, user *api.User, text string) (bool, error) {
	isAdmin, err := a.platform.IsAdmin(ctx, chat.ID, user.ID)
	if err != nil {
		return false, err
	}
	if !isAdmin {
		return true, nil
	}

	state, token, ok := a.sessions.consumeCapture(chat.ID)
	if !ok {
		return true, nil
	}
	entry := a.getLogEntry().WithFields(log.Fields{"chat_id": chat.ID, "capture": token})

	word := moderation.NormalizeWord(text)
	if word == "" || strings.ContainsAny(word, " \t") {
		a.send(ctx, chat.ID, i18n.Get("That does not look like a single word, try again from the menu", a.lang))
		return false, nil
	}

	switch state {
	case stateAwaitingAddWord:
		added, err := a.store.AddBannedWord(ctx, chat.ID, word, user.ID)
		if err != nil {
			return false, err
		}
		if !added {
			a.send(ctx, chat.ID, i18n.Get("That word is already banned", a.lang))
			break
		}
		entry.Debug("word added")
		a.send(ctx, chat.ID, "✅ "+i18n.Get("Word added", a.lang)+": "+word)
		a.notifier.Notify(chat.ID, "BW ADD | admin "+bot.GetUN(user)+" | "+word)

	case stateAwaitingRemoveWord:
		removed, err := a.store.RemoveBannedWord(ctx, chat.ID, word)
		if err != nil {
			return false, err
		}
		if !removed {
			a.send(ctx, chat.ID, i18n.Get("That word is not on the list", a.lang))
			break
		}
		entry.Debug("word removed")
		a.send(ctx, chat.ID, "✅ "+i18n.Get("Word removed", a.lang)+": "+word)
		a.notifier.Notify(chat.ID, "BW REMOVE | admin "+bot.GetUN(user)+" | "+word)
	}

	return false, nil
}

func (a *Admin) send(ctx context.Context, chatID int64, text string) {
	if _, err := a.platform.SendMessage(ctx, chatID, text); err != nil {
		a.getLogEntry().WithError(err).Debug("cant send message")
	}
}

func (a *Admin) getLogEntry() *log.Entry {
	return log.WithField("context", "admin")
}
