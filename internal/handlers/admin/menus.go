package handlers

import (
	"fmt"
	"strconv"
	"strings"

	api "github.com/OvyFlash/telegram-bot-api"

	"github.com/tecsopro/tecsobot/internal/i18n"
)

const wordlistViewLimit = 50

// callback data layout, one namespace per menu branch
const (
	cbMenuWarn  = "cfg:menu:warn"
	cbMenuWords = "cfg:menu:bw"
	cbMenuLog   = "cfg:menu:log"
	cbWarnInc   = "cfg:warn:inc"
	cbWarnDec   = "cfg:warn:dec"
	cbWarnSet   = "cfg:warn:set:" // prefix, followed by the staged value
	cbWarnSave  = "cfg:warn:save"
	cbWordsView = "cfg:bw:view"
	cbWordsAdd  = "cfg:bw:add"
	cbWordsRem  = "cfg:bw:remove"
	cbLogOnHere = "cfg:log:on_here"
	cbLogOff    = "cfg:log:off"
	cbLogTest   = "cfg:log:test"
	cbBack      = "cfg:back"
	cbClose     = "cfg:close"
	cbPMHelp    = "pm:help"
	cbPMConfig  = "pm:configinfo"
	cbPMPerms   = "pm:perms"
)

func mainMenuText(threshold, wordCount int, logEnabled bool, lang string) string {
	logState := i18n.Get("off", lang)
	if logEnabled {
		logState = i18n.Get("on", lang)
	}
	return fmt.Sprintf(
		"⚙️ %s\n\n• %s: %d\n• %s: %d\n• %s: %s",
		i18n.Get("Moderation settings", lang),
		i18n.Get("Warn limit", lang), threshold,
		i18n.Get("Banned words", lang), wordCount,
		i18n.Get("Mod log", lang), logState,
	)
}

func mainMenuKeyboard(lang string) *api.InlineKeyboardMarkup {
	markup := api.NewInlineKeyboardMarkup(
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData("⚠️ "+i18n.Get("Warn limit", lang), cbMenuWarn),
		),
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData("🚫 "+i18n.Get("Banned words", lang), cbMenuWords),
		),
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData("📋 "+i18n.Get("Mod log", lang), cbMenuLog),
		),
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData("❌ "+i18n.Get("Close", lang), cbClose),
		),
	)
	return &markup
}

func warnMenuText(current, pending int, lang string) string {
	return fmt.Sprintf(
		"⚠️ %s\n\n%s: %d\n%s: %d",
		i18n.Get("Warn limit", lang),
		i18n.Get("Current", lang), current,
		i18n.Get("Selected", lang), pending,
	)
}

func warnMenuKeyboard(lang string) *api.InlineKeyboardMarkup {
	presets := api.NewInlineKeyboardRow()
	for _, n := range []int{1, 3, 5, 10} {
		presets = append(presets, api.NewInlineKeyboardButtonData(strconv.Itoa(n), cbWarnSet+strconv.Itoa(n)))
	}
	markup := api.NewInlineKeyboardMarkup(
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData("➖", cbWarnDec),
			api.NewInlineKeyboardButtonData("➕", cbWarnInc),
		),
		presets,
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData("💾 "+i18n.Get("Save", lang), cbWarnSave),
		),
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData("⬅️ "+i18n.Get("Back", lang), cbBack),
		),
	)
	return &markup
}

func wordsMenuText(wordCount int, lang string) string {
	return fmt.Sprintf("🚫 %s\n\n%s: %d", i18n.Get("Banned words", lang), i18n.Get("Words", lang), wordCount)
}

func wordsMenuKeyboard(lang string) *api.InlineKeyboardMarkup {
	markup := api.NewInlineKeyboardMarkup(
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData("👀 "+i18n.Get("View", lang), cbWordsView),
		),
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData("➕ "+i18n.Get("Add", lang), cbWordsAdd),
			api.NewInlineKeyboardButtonData("➖ "+i18n.Get("Remove", lang), cbWordsRem),
		),
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData("⬅️ "+i18n.Get("Back", lang), cbBack),
		),
	)
	return &markup
}

func wordlistText(words []string, lang string) string {
	if len(words) == 0 {
		return i18n.Get("No banned words yet", lang)
	}
	shown := words
	truncated := false
	if len(shown) > wordlistViewLimit {
		shown = shown[:wordlistViewLimit]
		truncated = true
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "🚫 %s (%d):\n", i18n.Get("Banned words", lang), len(words))
	for _, w := range shown {
		sb.WriteString("• " + w + "\n")
	}
	if truncated {
		fmt.Fprintf(&sb, "… %s %d", i18n.Get("and more, total", lang), len(words))
	}
	return sb.String()
}

func logMenuText(logChatID *int64, lang string) string {
	if logChatID == nil {
		return fmt.Sprintf("📋 %s\n\n%s", i18n.Get("Mod log", lang), i18n.Get("Mod log is off", lang))
	}
	return fmt.Sprintf("📋 %s\n\n%s: %d", i18n.Get("Mod log", lang), i18n.Get("Mod log chat", lang), *logChatID)
}

func logMenuKeyboard(enabled bool, lang string) *api.InlineKeyboardMarkup {
	rows := [][]api.InlineKeyboardButton{
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData("📍 "+i18n.Get("Log to this chat", lang), cbLogOnHere),
		),
	}
	if enabled {
		rows = append(rows,
			api.NewInlineKeyboardRow(
				api.NewInlineKeyboardButtonData("🧪 "+i18n.Get("Send test entry", lang), cbLogTest),
			),
			api.NewInlineKeyboardRow(
				api.NewInlineKeyboardButtonData("🚫 "+i18n.Get("Turn off", lang), cbLogOff),
			),
		)
	}
	rows = append(rows, api.NewInlineKeyboardRow(
		api.NewInlineKeyboardButtonData("⬅️ "+i18n.Get("Back", lang), cbBack),
	))
	markup := api.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func pmMenuText(lang string) string {
	return "👋 " + i18n.Get("Hi, I keep group chats clean. Add me to a group and promote me to admin.", lang)
}

func pmMenuKeyboard(lang string) *api.InlineKeyboardMarkup {
	markup := api.NewInlineKeyboardMarkup(
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData("ℹ️ "+i18n.Get("Help", lang), cbPMHelp),
		),
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData("⚙️ "+i18n.Get("Configuration", lang), cbPMConfig),
		),
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData("🛡 "+i18n.Get("Required permissions", lang), cbPMPerms),
		),
	)
	return &markup
}

func pmHelpText(lang string) string {
	return i18n.Get("Commands: /warn, /unwarn, /clearwarns, /warns, /mute, /ban, /unban. Reply to a user's message and send the command.", lang)
}

func pmConfigText(lang string) string {
	return i18n.Get("Send /config in your group to open the settings menu: warn limit, banned words and the mod log.", lang)
}

func pmPermsText(lang string) string {
	return i18n.Get("I need admin rights with permissions to delete messages and ban users.", lang)
}
