package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	api "github.com/OvyFlash/telegram-bot-api"

	"github.com/tecsopro/tecsobot/internal/db"
	moderation "github.com/tecsopro/tecsobot/internal/handlers/moderation"
	"github.com/tecsopro/tecsobot/internal/i18n"
	"github.com/tecsopro/tecsobot/internal/observability"
)

func (a *Admin) handleCallback(ctx context.Context, cb *api.CallbackQuery, chat *api.Chat, user *api.User) (bool, error) {
	data := cb.Data
	if !strings.HasPrefix(data, "cfg:") && !strings.HasPrefix(data, "pm:") {
		return true, nil
	}
	if chat == nil || user == nil || cb.Message == nil {
		return false, nil
	}
	observability.RecordMenuInteraction()

	if strings.HasPrefix(data, "pm:") {
		return a.handlePMCallback(ctx, cb, chat.ID)
	}

	isAdmin, err := a.platform.IsAdmin(ctx, chat.ID, user.ID)
	if err != nil {
		return false, err
	}
	if !isAdmin {
		a.answer(ctx, cb.ID, i18n.Get("Only administrators can use this menu", a.lang))
		return false, nil
	}

	sess, ok := a.sessions.snapshot(chat.ID)
	if !ok {
		// menu survived a restart, rebuild the session around its message
		settings, err := a.store.GetSettings(ctx, chat.ID)
		if err != nil {
			return false, err
		}
		a.sessions.open(chat.ID, settings.WarnThreshold, cb.Message.MessageID)
		sess, _ = a.sessions.snapshot(chat.ID)
	}

	if strings.HasPrefix(data, cbWarnSet) {
		staged, err := strconv.Atoi(strings.TrimPrefix(data, cbWarnSet))
		if err != nil {
			a.answer(ctx, cb.ID, "")
			return false, nil
		}
		staged = moderation.Clamp(staged, db.MinWarnThreshold, db.MaxWarnThreshold)
		a.sessions.setPendingThreshold(chat.ID, staged)
		a.answer(ctx, cb.ID, "")
		return false, a.renderWarnMenu(ctx, chat.ID, sess.messageID, staged)
	}

	switch data {
	case cbMenuWarn:
		a.sessions.disarm(chat.ID)
		a.answer(ctx, cb.ID, "")
		return false, a.renderWarnMenu(ctx, chat.ID, sess.messageID, sess.pendingThreshold)

	case cbWarnInc, cbWarnDec:
		delta := 1
		if data == cbWarnDec {
			delta = -1
		}
		pending := moderation.Clamp(sess.pendingThreshold+delta, db.MinWarnThreshold, db.MaxWarnThreshold)
		a.sessions.setPendingThreshold(chat.ID, pending)
		a.answer(ctx, cb.ID, "")
		return false, a.renderWarnMenu(ctx, chat.ID, sess.messageID, pending)

	case cbWarnSave:
		threshold := moderation.Clamp(sess.pendingThreshold, db.MinWarnThreshold, db.MaxWarnThreshold)
		if err := a.store.SetWarnThreshold(ctx, chat.ID, threshold); err != nil {
			return false, err
		}
		a.answer(ctx, cb.ID, i18n.Get("Saved", a.lang))
		a.notifier.Notify(chat.ID, fmt.Sprintf("CFG | warn limit set to %d by %d", threshold, user.ID))
		return false, a.renderMainMenu(ctx, chat.ID, sess.messageID)

	case cbMenuWords:
		a.sessions.disarm(chat.ID)
		a.answer(ctx, cb.ID, "")
		return false, a.renderWordsMenu(ctx, chat.ID, sess.messageID)

	case cbWordsView:
		words, err := a.store.ListBannedWords(ctx, chat.ID)
		if err != nil {
			return false, err
		}
		a.answer(ctx, cb.ID, "")
		return false, a.platform.EditMessage(ctx, chat.ID, sess.messageID, wordlistText(words, a.lang), wordsMenuKeyboard(a.lang))

	case cbWordsAdd:
		a.sessions.armCapture(chat.ID, stateAwaitingAddWord)
		a.answer(ctx, cb.ID, "")
		a.send(ctx, chat.ID, "✍️ "+i18n.Get("Send the word to add", a.lang))
		return false, nil

	case cbWordsRem:
		a.sessions.armCapture(chat.ID, stateAwaitingRemoveWord)
		a.answer(ctx, cb.ID, "")
		a.send(ctx, chat.ID, "✍️ "+i18n.Get("Send the word to remove", a.lang))
		return false, nil

	case cbMenuLog:
		a.sessions.disarm(chat.ID)
		a.answer(ctx, cb.ID, "")
		return false, a.renderLogMenu(ctx, chat.ID, sess.messageID)

	case cbLogOnHere:
		logChatID := chat.ID
		if err := a.store.SetLogChatID(ctx, chat.ID, &logChatID); err != nil {
			return false, err
		}
		a.answer(ctx, cb.ID, i18n.Get("Saved", a.lang))
		return false, a.renderLogMenu(ctx, chat.ID, sess.messageID)

	case cbLogOff:
		if err := a.store.SetLogChatID(ctx, chat.ID, nil); err != nil {
			return false, err
		}
		a.answer(ctx, cb.ID, i18n.Get("Saved", a.lang))
		return false, a.renderLogMenu(ctx, chat.ID, sess.messageID)

	case cbLogTest:
		a.notifier.Notify(chat.ID, "TEST | mod log works")
		a.answer(ctx, cb.ID, i18n.Get("Test entry sent", a.lang))
		return false, nil

	case cbBack:
		a.sessions.disarm(chat.ID)
		a.answer(ctx, cb.ID, "")
		return false, a.renderMainMenu(ctx, chat.ID, sess.messageID)

	case cbClose:
		a.sessions.close(chat.ID)
		a.answer(ctx, cb.ID, "")
		return false, a.platform.EditMessage(ctx, chat.ID, sess.messageID, "⚙️ "+i18n.Get("Settings closed", a.lang), nil)
	}

	a.answer(ctx, cb.ID, "")
	return false, nil
}

func (a *Admin) handlePMCallback(ctx context.Context, cb *api.CallbackQuery, chatID int64) (bool, error) {
	var text string
	switch cb.Data {
	case cbPMHelp:
		text = pmHelpText(a.lang)
	case cbPMConfig:
		text = pmConfigText(a.lang)
	case cbPMPerms:
		text = pmPermsText(a.lang)
	default:
		a.answer(ctx, cb.ID, "")
		return false, nil
	}
	a.answer(ctx, cb.ID, "")
	return false, a.platform.EditMessage(ctx, chatID, cb.Message.MessageID, text, pmMenuKeyboard(a.lang))
}

func (a *Admin) renderMainMenu(ctx context.Context, chatID int64, messageID int) error {
	settings, err := a.store.GetSettings(ctx, chatID)
	if err != nil {
		return err
	}
	words, err := a.store.ListBannedWords(ctx, chatID)
	if err != nil {
		return err
	}
	a.sessions.setPendingThreshold(chatID, settings.WarnThreshold)
	text := mainMenuText(settings.WarnThreshold, len(words), settings.LogChatID != nil, a.lang)
	return a.platform.EditMessage(ctx, chatID, messageID, text, mainMenuKeyboard(a.lang))
}

func (a *Admin) renderWarnMenu(ctx context.Context, chatID int64, messageID, pending int) error {
	settings, err := a.store.GetSettings(ctx, chatID)
	if err != nil {
		return err
	}
	return a.platform.EditMessage(ctx, chatID, messageID, warnMenuText(settings.WarnThreshold, pending, a.lang), warnMenuKeyboard(a.lang))
}

func (a *Admin) renderWordsMenu(ctx context.Context, chatID int64, messageID int) error {
	words, err := a.store.ListBannedWords(ctx, chatID)
	if err != nil {
		return err
	}
	return a.platform.EditMessage(ctx, chatID, messageID, wordsMenuText(len(words), a.lang), wordsMenuKeyboard(a.lang))
}

func (a *Admin) renderLogMenu(ctx context.Context, chatID int64, messageID int) error {
	settings, err := a.store.GetSettings(ctx, chatID)
	if err != nil {
		return err
	}
	return a.platform.EditMessage(ctx, chatID, messageID, logMenuText(settings.LogChatID, a.lang), logMenuKeyboard(settings.LogChatID != nil, a.lang))
}

func (a *Admin) answer(ctx context.Context, callbackID, text string) {
	if err := a.platform.AnswerCallback(ctx, callbackID, text); err != nil {
		a.getLogEntry().WithError(err).Debug("cant answer callback")
	}
}
