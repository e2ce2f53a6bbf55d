package bot

import (
	"context"

	api "github.com/OvyFlash/telegram-bot-api"
)

// Handler processes one update and reports whether the chain should proceed
// to the next handler.
type Handler interface {
	Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (proceed bool, err error)
}
