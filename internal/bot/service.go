package bot

import (
	api "github.com/OvyFlash/telegram-bot-api"

	"github.com/tecsopro/tecsobot/internal/db"
)

type Service interface {
	GetBot() *api.BotAPI
	GetDB() db.Client
	GetPlatform() Platform
}

type service struct {
	bot      *api.BotAPI
	db       db.Client
	platform Platform
}

func NewService(bot *api.BotAPI, client db.Client) *service {
	return &service{
		bot:      bot,
		db:       client,
		platform: NewTelegramPlatform(bot),
	}
}

func (s *service) GetBot() *api.BotAPI {
	return s.bot
}

func (s *service) GetDB() db.Client {
	return s.db
}

func (s *service) GetPlatform() Platform {
	return s.platform
}
