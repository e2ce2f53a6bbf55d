package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"

	"github.com/tecsopro/tecsobot/internal/bot"
	"github.com/tecsopro/tecsobot/internal/config"
	"github.com/tecsopro/tecsobot/internal/db"
	"github.com/tecsopro/tecsobot/internal/i18n"
	"github.com/tecsopro/tecsobot/internal/notify"
)

const warnsListLimit = 10

// Moderation handles the admin moderation commands: /warn, /unwarn,
// /clearwarns, /warns, /mute, /ban, /unban. Targets come from the replied-to
// message; /warns defaults to the caller and /unban also accepts an id.
type Moderation struct {
	s        bot.Service
	platform bot.Platform
	engine   *WarnEngine
	notifier notify.Notifier
	lang     string
}

func NewModeration(s bot.Service, engine *WarnEngine, notifier notify.Notifier) *Moderation {
	return &Moderation{
		s:        s,
		platform: s.GetPlatform(),
		engine:   engine,
		notifier: notifier,
		lang:     config.Get().DefaultLanguage,
	}
}

func (h *Moderation) Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (bool, error) {
	if chat == nil || user == nil {
		return true, nil
	}
	switch {
	case
		u.Message == nil,
		user.IsBot,
		!u.Message.IsCommand():
		return true, nil
	}
	m := u.Message
	if !chat.IsGroup() && !chat.IsSuperGroup() {
		return true, nil
	}

	command := m.Command()
	switch command {
	case "warn", "unwarn", "clearwarns", "warns", "mute", "ban", "unban":
	default:
		return true, nil
	}

	entry := h.getLogEntry().WithFields(log.Fields{"chat_id": chat.ID, "command": command})

	isAdmin, err := h.platform.IsAdmin(ctx, chat.ID, user.ID)
	if err != nil {
		return false, err
	}
	if !isAdmin {
		h.reply(ctx, chat.ID, i18n.Get("Only administrators can use this command", h.lang))
		return false, nil
	}

	args := strings.TrimSpace(m.CommandArguments())

	target, targetName := h.resolveTarget(m)
	if target == 0 && command == "unban" {
		// unban also accepts an explicit id, the banned user's messages are gone
		if fields := strings.Fields(args); len(fields) > 0 {
			if id, err := strconv.ParseInt(fields[0], 10, 64); err == nil {
				target = id
				targetName = fields[0]
				args = strings.TrimSpace(strings.TrimPrefix(args, fields[0]))
			}
		}
	}
	if target == 0 && command != "warns" {
		h.reply(ctx, chat.ID, i18n.Get("Reply to a message of the user you want to moderate", h.lang))
		return false, nil
	}
	if target == 0 {
		target = user.ID
		targetName = bot.GetUN(user)
	}
	if target == user.ID && command != "warns" {
		h.reply(ctx, chat.ID, i18n.Get("You cant moderate yourself", h.lang))
		return false, nil
	}

	switch command {
	case "warn":
		count, err := h.engine.IssueWarn(ctx, chat.ID, target, user.ID, args)
		if err != nil {
			return false, err
		}
		settings, err := h.s.GetDB().GetSettings(ctx, chat.ID)
		if err != nil {
			return false, err
		}
		h.reply(ctx, chat.ID, fmt.Sprintf("⚠️ %s %s: %d/%d", i18n.Get("Warn added for", h.lang), targetName, count, settings.WarnThreshold))
		h.notifier.Notify(chat.ID, fmt.Sprintf("WARN | admin %d → user %d | %d/%d | %s", user.ID, target, count, settings.WarnThreshold, args))

		if _, err := h.engine.EvaluateThreshold(ctx, chat.ID, target, user.ID, db.BanOriginThresholdWarn); err != nil {
			return false, err
		}

	case "unwarn":
		removed, err := h.engine.UndoLastWarn(ctx, chat.ID, target)
		if err != nil {
			return false, err
		}
		if !removed {
			h.reply(ctx, chat.ID, fmt.Sprintf("%s %s", targetName, i18n.Get("has no warns", h.lang)))
			break
		}
		count, err := h.engine.WarnCount(ctx, chat.ID, target)
		if err != nil {
			return false, err
		}
		h.reply(ctx, chat.ID, fmt.Sprintf("✅ %s %s: %d", i18n.Get("Warn removed for", h.lang), targetName, count))
		h.notifier.Notify(chat.ID, fmt.Sprintf("UNWARN | admin %d → user %d | now %d", user.ID, target, count))

	case "clearwarns":
		cleared, err := h.engine.ClearWarns(ctx, chat.ID, target)
		if err != nil {
			return false, err
		}
		h.reply(ctx, chat.ID, fmt.Sprintf("✅ %s %s (%d)", i18n.Get("Warns cleared for", h.lang), targetName, cleared))
		h.notifier.Notify(chat.ID, fmt.Sprintf("CLEARWARNS | admin %d → user %d | removed %d", user.ID, target, cleared))

	case "warns":
		warns, err := h.engine.ListWarns(ctx, chat.ID, target, warnsListLimit)
		if err != nil {
			return false, err
		}
		if len(warns) == 0 {
			h.reply(ctx, chat.ID, fmt.Sprintf("%s %s", targetName, i18n.Get("has no warns", h.lang)))
			break
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s %s:\n", i18n.Get("Warns for", h.lang), targetName)
		for i, warn := range warns {
			reason := warn.Reason
			if reason == "" {
				reason = i18n.Get("no reason", h.lang)
			}
			fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, reason, warn.CreatedAt.Format("2006-01-02"))
		}
		h.reply(ctx, chat.ID, sb.String())

	case "mute":
		minutes := 60
		if args != "" {
			parsed, err := strconv.Atoi(strings.Fields(args)[0])
			if err != nil {
				h.reply(ctx, chat.ID, i18n.Get("Usage: /mute <minutes>", h.lang))
				break
			}
			minutes = parsed
		}
		applied, err := h.engine.ManualMute(ctx, chat.ID, target, user.ID, minutes)
		if err != nil {
			entry.WithError(err).Warn("cant mute")
			h.reply(ctx, chat.ID, i18n.Get("Cant mute this user, check my permissions", h.lang))
			break
		}
		h.reply(ctx, chat.ID, fmt.Sprintf("🔇 %s %s: %d %s", i18n.Get("Muted", h.lang), targetName, applied, i18n.Get("minutes", h.lang)))

	case "ban":
		if err := h.engine.ManualBan(ctx, chat.ID, target, user.ID, args); err != nil {
			entry.WithError(err).Warn("cant ban")
			h.reply(ctx, chat.ID, i18n.Get("Cant ban this user, check my permissions", h.lang))
			break
		}
		h.reply(ctx, chat.ID, fmt.Sprintf("⛔ %s %s", i18n.Get("Banned", h.lang), targetName))

	case "unban":
		if err := h.engine.ManualUnban(ctx, chat.ID, target, user.ID, args); err != nil {
			entry.WithError(err).Warn("cant unban")
			h.reply(ctx, chat.ID, i18n.Get("Cant unban this user, check my permissions", h.lang))
			break
		}
		h.reply(ctx, chat.ID, fmt.Sprintf("✅ %s %s", i18n.Get("Unbanned", h.lang), targetName))
	}

	return false, nil
}

// resolveTarget picks the user the command acts on, from the replied-to
// message if there is one.
func (h *Moderation) resolveTarget(m *api.Message) (int64, string) {
	if m.ReplyToMessage == nil || m.ReplyToMessage.From == nil {
		return 0, ""
	}
	from := m.ReplyToMessage.From
	return from.ID, bot.GetUN(from)
}

func (h *Moderation) reply(ctx context.Context, chatID int64, text string) {
	if _, err := h.platform.SendMessage(ctx, chatID, text); err != nil {
		h.getLogEntry().WithError(err).Debug("cant send reply")
	}
}

func (h *Moderation) getLogEntry() *log.Entry {
	return log.WithField("context", "moderation")
}
