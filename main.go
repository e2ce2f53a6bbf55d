package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"

	"github.com/tecsopro/tecsobot/internal/bot"
	"github.com/tecsopro/tecsobot/internal/config"
	"github.com/tecsopro/tecsobot/internal/db/sqlite"
	"github.com/tecsopro/tecsobot/internal/event"
	adminhandlers "github.com/tecsopro/tecsobot/internal/handlers/admin"
	moderation "github.com/tecsopro/tecsobot/internal/handlers/moderation"
	"github.com/tecsopro/tecsobot/internal/infra"
	"github.com/tecsopro/tecsobot/internal/notify"
	"github.com/tecsopro/tecsobot/internal/observability"
)

func main() {
	cfg := config.Get()
	log.SetFormatter(&config.TbFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.Level(cfg.LogLevel))

	ctx, cancelFunc := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancelFunc()
	defer event.RunWorker()()

	if err := observability.Init(ctx, cfg.MetricsAddr); err != nil {
		log.WithError(err).Errorln("cant initialize observability")
	}

	dbClient := sqlite.NewSQLiteClient(cfg.DBPath)
	defer func() {
		if err := dbClient.Close(); err != nil {
			log.WithError(err).Errorln("cant close db")
		}
	}()

	infra.GoRecoverable(3, "updates_loop", func() {
		botAPI, err := api.NewBotAPI(cfg.TelegramAPIToken)
		if err != nil {
			log.WithError(err).Errorln("cant initialize bot api")
			time.Sleep(1 * time.Second)
			log.Fatalln("exiting")
		}
		if log.Level(cfg.LogLevel) == log.TraceLevel {
			botAPI.Debug = true
		}

		service := bot.NewService(botAPI, dbClient)
		notifier := notify.NewModlogNotifier(dbClient, service.GetPlatform())
		engine := moderation.NewWarnEngine(dbClient, service.GetPlatform(), notifier, cfg.DefaultLanguage)

		bot.RegisterUpdateHandler("admin", adminhandlers.NewAdmin(service, notifier))
		bot.RegisterUpdateHandler("moderation", moderation.NewModeration(service, engine, notifier))
		bot.RegisterUpdateHandler("enforcer", moderation.NewEnforcer(service, engine, notifier))

		updateConfig := api.NewUpdate(0)
		updateConfig.Timeout = 60
		updateProcessor := bot.NewUpdateProcessor(service)

		updateChan, errorChan := bot.GetUpdatesChans(ctx, botAPI, updateConfig)

		for {
			select {
			case err := <-errorChan:
				log.WithError(err).Fatalln("bot api get updates error")
			case update := <-updateChan:
				updateProcessor.Dispatch(ctx, update)
			case <-ctx.Done():
				log.Infoln("no more updates")
				return
			}
		}
	})

	<-ctx.Done()
}
