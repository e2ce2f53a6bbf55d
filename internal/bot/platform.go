package bot

import (
	"context"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/pkg/errors"
)

// Platform is the narrow surface of chat-platform actions the moderation
// code depends on. Every method may fail; callers decide whether a failure
// is fatal for their operation.
type Platform interface {
	IsAdmin(ctx context.Context, chatID, userID int64) (bool, error)
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	BanMember(ctx context.Context, chatID, userID int64) error
	UnbanMember(ctx context.Context, chatID, userID int64) error
	RestrictMember(ctx context.Context, chatID, userID int64, until time.Time) error
	SendMessage(ctx context.Context, chatID int64, text string) (int, error)
	SendMessageWithMarkup(ctx context.Context, chatID int64, text string, markup *api.InlineKeyboardMarkup) (int, error)
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, markup *api.InlineKeyboardMarkup) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

type telegramPlatform struct {
	bot *api.BotAPI
}

func NewTelegramPlatform(bot *api.BotAPI) Platform {
	return &telegramPlatform{bot: bot}
}

func (p *telegramPlatform) IsAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
		member, err := p.bot.GetChatMember(api.GetChatMemberConfig{
			ChatConfigWithUser: api.ChatConfigWithUser{
				UserID: userID,
				ChatConfig: api.ChatConfig{
					ChatID: chatID,
				},
			},
		})
		if err != nil {
			return false, errors.WithMessage(err, "cant get chat member")
		}
		return member.IsCreator() || member.IsAdministrator(), nil
	}
}

func (p *telegramPlatform) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		if _, err := p.bot.Request(api.NewDeleteMessage(chatID, messageID)); err != nil {
			return errors.WithMessage(err, "cant delete message")
		}
		return nil
	}
}

func (p *telegramPlatform) BanMember(ctx context.Context, chatID, userID int64) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		if _, err := p.bot.Request(api.BanChatMemberConfig{
			ChatMemberConfig: api.ChatMemberConfig{
				ChatConfig: api.ChatConfig{
					ChatID: chatID,
				},
				UserID: userID,
			},
		}); err != nil {
			return errors.WithMessage(err, "cant ban")
		}
		return nil
	}
}

func (p *telegramPlatform) UnbanMember(ctx context.Context, chatID, userID int64) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		if _, err := p.bot.Request(api.UnbanChatMemberConfig{
			ChatMemberConfig: api.ChatMemberConfig{
				ChatConfig: api.ChatConfig{
					ChatID: chatID,
				},
				UserID: userID,
			},
		}); err != nil {
			return errors.WithMessage(err, "cant unban")
		}
		return nil
	}
}

func (p *telegramPlatform) RestrictMember(ctx context.Context, chatID, userID int64, until time.Time) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		if _, err := p.bot.Request(api.RestrictChatMemberConfig{
			ChatMemberConfig: api.ChatMemberConfig{
				ChatConfig: api.ChatConfig{
					ChatID: chatID,
				},
				UserID: userID,
			},
			UntilDate: until.Unix(),
			Permissions: &api.ChatPermissions{
				CanSendMessages:       false,
				CanSendAudios:         false,
				CanSendDocuments:      false,
				CanSendPhotos:         false,
				CanSendVideos:         false,
				CanSendVideoNotes:     false,
				CanSendVoiceNotes:     false,
				CanSendPolls:          false,
				CanSendOtherMessages:  false,
				CanAddWebPagePreviews: false,
				CanChangeInfo:         false,
				CanInviteUsers:        false,
				CanPinMessages:        false,
				CanManageTopics:       false,
			},
		}); err != nil {
			return errors.WithMessage(err, "cant restrict")
		}
		return nil
	}
}

func (p *telegramPlatform) SendMessage(ctx context.Context, chatID int64, text string) (int, error) {
	return p.SendMessageWithMarkup(ctx, chatID, text, nil)
}

func (p *telegramPlatform) SendMessageWithMarkup(ctx context.Context, chatID int64, text string, markup *api.InlineKeyboardMarkup) (int, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
		msg := api.NewMessage(chatID, text)
		msg.DisableNotification = true
		if markup != nil {
			msg.ReplyMarkup = *markup
		}
		sent, err := p.bot.Send(msg)
		if err != nil {
			return 0, errors.WithMessage(err, "cant send message")
		}
		return sent.MessageID, nil
	}
}

func (p *telegramPlatform) EditMessage(ctx context.Context, chatID int64, messageID int, text string, markup *api.InlineKeyboardMarkup) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		edit := api.NewEditMessageText(chatID, messageID, text)
		edit.ReplyMarkup = markup
		if _, err := p.bot.Send(edit); err != nil {
			return errors.WithMessage(err, "cant edit message")
		}
		return nil
	}
}

func (p *telegramPlatform) AnswerCallback(ctx context.Context, callbackID, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		if _, err := p.bot.Request(api.NewCallback(callbackID, text)); err != nil {
			return errors.WithMessage(err, "cant answer callback")
		}
		return nil
	}
}
