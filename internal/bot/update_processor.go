package bot

import (
	"context"
	"strings"
	"sync"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/tecsopro/tecsobot/internal/config"
	"github.com/tecsopro/tecsobot/internal/observability"
)

const (
	UpdateTimeout = 5 * time.Minute

	maxConcurrentUpdates = 32
)

type UpdateProcessor struct {
	s              Service
	updateHandlers []Handler
	workers        *semaphore.Weighted

	chatMu    sync.Mutex
	chatLocks map[int64]*sync.Mutex
}

var registeredHandlers = make(map[string]Handler)

func RegisterUpdateHandler(title string, handler Handler) {
	registeredHandlers[title] = handler
}

func NewUpdateProcessor(s Service) *UpdateProcessor {
	enabledHandlers := make([]Handler, 0)
	for _, handlerName := range config.Get().EnabledHandlers {
		if _, ok := registeredHandlers[handlerName]; !ok || registeredHandlers[handlerName] == nil {
			log.Warnf("no registered handler: %s", handlerName)
			continue
		}
		enabledHandlers = append(enabledHandlers, registeredHandlers[handlerName])
	}

	return &UpdateProcessor{
		s:              s,
		updateHandlers: enabledHandlers,
		workers:        semaphore.NewWeighted(maxConcurrentUpdates),
		chatLocks:      map[int64]*sync.Mutex{},
	}
}

// chatLock returns the mutex serializing updates of a single chat. Updates
// for different chats run concurrently; within a chat, warn accrual and menu
// session access see a consistent order.
func (up *UpdateProcessor) chatLock(chatID int64) *sync.Mutex {
	up.chatMu.Lock()
	defer up.chatMu.Unlock()
	lock, ok := up.chatLocks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		up.chatLocks[chatID] = lock
	}
	return lock
}

// Dispatch runs the update through the handler chain on its own goroutine,
// bounded by the worker semaphore. Errors are logged, never fatal.
func (up *UpdateProcessor) Dispatch(ctx context.Context, u api.Update) {
	if err := up.workers.Acquire(ctx, 1); err != nil {
		return
	}
	go func() {
		defer up.workers.Release(1)
		if chat := u.FromChat(); chat != nil {
			lock := up.chatLock(chat.ID)
			lock.Lock()
			defer lock.Unlock()
		}
		if err := up.Process(ctx, &u); err != nil {
			log.WithError(err).Errorln("cant process update")
		}
	}()
}

func (up *UpdateProcessor) Process(ctx context.Context, u *api.Update) error {
	if u == nil {
		return errors.New("update is nil")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	var updateTime time.Time
	switch {
	case u.Message != nil:
		updateTime = time.Unix(int64(u.Message.Date), 0)
	case u.EditedMessage != nil:
		updateTime = time.Unix(int64(u.EditedMessage.Date), 0)
	default:
		updateTime = time.Now()
	}
	if time.Since(updateTime) > UpdateTimeout {
		log.WithFields(log.Fields{
			"update_time": updateTime,
			"age":         time.Since(updateTime),
		}).Debug("skipping outdated update")
		return nil
	}

	done := observability.StartUpdateProcessing()
	status := "ok"
	defer func() { done(status) }()

	chat := u.FromChat()
	user := u.SentFrom()

	for _, handler := range up.updateHandlers {
		if handler == nil {
			continue
		}
		select {
		case <-ctx.Done():
			status = "canceled"
			return ctx.Err()
		default:
			proceed, err := handler.Handle(ctx, u, chat, user)
			if err != nil {
				status = "error"
				return errors.WithMessage(err, "handling error")
			}
			if !proceed {
				return nil
			}
		}
	}
	return nil
}

func GetUpdatesChans(ctx context.Context, bot *api.BotAPI, config api.UpdateConfig) (api.UpdatesChannel, chan error) {
	ch := make(chan api.Update, bot.Buffer)
	chErr := make(chan error)

	go func() {
		defer close(ch)
		defer close(chErr)
		for {
			select {
			case <-ctx.Done():
				chErr <- ctx.Err()
				return
			default:
				updates, err := bot.GetUpdates(config)
				if err != nil {
					chErr <- err
					return
				}

				for _, update := range updates {
					if update.UpdateID >= config.Offset {
						config.Offset = update.UpdateID + 1
						select {
						case ch <- update:
						case <-ctx.Done():
							chErr <- ctx.Err()
							return
						}
					}
				}
			}
		}
	}()

	return ch, chErr
}

func GetUN(user *api.User) string {
	if user == nil {
		return ""
	}
	userName := user.UserName
	if len(userName) == 0 {
		userName = user.FirstName + " " + user.LastName
	}
	return strings.TrimSpace(userName)
}
