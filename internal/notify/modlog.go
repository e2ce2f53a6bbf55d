// Package notify delivers mod-log notices to a chat's configured audit
// destination. Delivery is fire-and-forget: every failure is swallowed, the
// primary operation never learns about it.
package notify

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tecsopro/tecsobot/internal/db"
	"github.com/tecsopro/tecsobot/internal/event"
)

const (
	modlogEventType = "modlog"
	modlogEventTTL  = time.Minute
)

type Notifier interface {
	// Notify mirrors text to groupChatID's audit destination, if one is set.
	Notify(groupChatID int64, text string)
}

type settingsReader interface {
	GetSettings(ctx context.Context, chatID int64) (*db.Settings, error)
}

type sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) (int, error)
}

type ModlogEvent struct {
	*event.Base
	GroupChatID int64
	Text        string
}

type modlogNotifier struct {
	store  settingsReader
	sender sender
}

func NewModlogNotifier(store settingsReader, s sender) Notifier {
	n := &modlogNotifier{store: store, sender: s}
	event.Subscribe(modlogEventType, n.deliver)
	return n
}

func (n *modlogNotifier) Notify(groupChatID int64, text string) {
	event.Bus.NQ(&ModlogEvent{
		Base:        event.CreateBase(modlogEventType, time.Now().Add(modlogEventTTL)),
		GroupChatID: groupChatID,
		Text:        text,
	})
}

func (n *modlogNotifier) deliver(e event.Queueable) {
	me, ok := e.(*ModlogEvent)
	if !ok {
		return
	}
	me.Process()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	settings, err := n.store.GetSettings(ctx, me.GroupChatID)
	if err != nil {
		log.WithError(err).WithField("chat_id", me.GroupChatID).Debug("modlog settings lookup failed")
		return
	}
	if settings.LogChatID == nil {
		return
	}
	if _, err := n.sender.SendMessage(ctx, *settings.LogChatID, me.Text); err != nil {
		log.WithError(err).WithField("chat_id", me.GroupChatID).Debug("modlog delivery failed")
	}
}
