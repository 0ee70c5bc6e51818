package main

import (
	"context"
	"os"

	"github.com/fgeck/captive-autologin/internal/models"
	"github.com/fgeck/captive-autologin/internal/services/credentials"
	"github.com/fgeck/captive-autologin/internal/services/events"
	"github.com/fgeck/captive-autologin/internal/services/orchestrator"
	"github.com/fgeck/captive-autologin/internal/services/telegram"
	"github.com/rs/zerolog"
)

// credentialStore prefers inline config credentials over the encrypted store.
func credentialStore(logger zerolog.Logger, cfg *models.Config) credentials.Store {
	return credentials.NewChain(logger,
		credentials.NewStaticStore(models.Credentials{
			Username: cfg.Credentials.Username,
			Password: cfg.Credentials.Password,
		}),
		credentials.NewFileStore(logger, cfg.Credentials.StoreDir),
	)
}

// telegramHook reports notable outcomes when Telegram is configured.
func telegramHook(logger zerolog.Logger, cfg *models.Config) events.OutcomeHook {
	if cfg.Telegram == nil {
		return nil
	}

	svc := telegram.New(logger)
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	tgCfg := *cfg.Telegram

	return func(ctx context.Context, _ events.Trigger, out *models.Outcome) {
		if out == nil || !telegram.ShouldNotify(out.State) {
			return
		}
		result, err := svc.SendNotification(ctx, tgCfg, telegram.MessageFromOutcome(host, out))
		if err == nil && result.Error != nil {
			err = result.Error
		}
		if err != nil {
			logger.Warn().Err(err).Msg("failed to send Telegram notification")
		}
	}
}

// newOrchestrator wires the production orchestrator.
func newOrchestrator(logger zerolog.Logger, cfg *models.Config, sink orchestrator.Sink) *orchestrator.Impl {
	return orchestrator.New(logger, *cfg, credentialStore(logger, cfg), sink)
}
