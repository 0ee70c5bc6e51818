package main

import (
	"fmt"
	"os"

	"github.com/fgeck/captive-autologin/internal/services/events"
	"github.com/fgeck/captive-autologin/internal/services/orchestrator"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var statusFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Watch for network changes and log in automatically",
	Long: `Run as a long-lived service:
1. Attempt a login on the active network at startup
2. Attempt a login whenever a wireless interface gets an address
3. Re-check the active network on SIGUSR1 (e.g. from a screen unlock hook)
4. Re-check periodically if events.recheck_interval is set

At most one attempt runs at a time; triggers during an attempt are dropped.`,
	RunE: runDaemon,
}

func init() {
	runCmd.Flags().StringVar(&statusFile, "status-file", "", "append human-readable status lines to this file")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log.Info().
		Str("config", configFile).
		Str("target_ssid", cfg.TargetSSID).
		Str("portal", cfg.Portal.BaseURL).
		Strs("interfaces", cfg.Events.Interfaces).
		Dur("recheck_interval", cfg.Events.RecheckInterval).
		Msg("configuration loaded")

	ctx, cancel := signalContext()
	defer cancel()

	var sink orchestrator.Sink = orchestrator.NewZerologSink(log.Logger)
	if statusFile != "" {
		f, err := os.OpenFile(statusFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening status file: %w", err)
		}
		defer func() { _ = f.Close() }()
		sink = orchestrator.MultiSink{sink, orchestrator.NewLineSink(f)}
	}

	var hooks []events.OutcomeHook
	if hook := telegramHook(log.Logger, cfg); hook != nil {
		hooks = append(hooks, hook)
	}

	orch := newOrchestrator(log.Logger, cfg, sink)
	dispatcher := events.NewDispatcher(log.Logger, orch, sink, hooks...)

	events.StartupTrigger(dispatcher, events.ActiveNetwork, log.Logger)

	err = events.Serve(ctx, log.Logger, dispatcher,
		events.NewNetlinkSource(log.Logger, cfg.Events.Interfaces),
		events.NewSignalSource(log.Logger, events.ActiveNetwork),
		events.NewTickerSource(log.Logger, cfg.Events.RecheckInterval, events.ActiveNetwork),
	)
	if err != nil {
		log.Error().Err(err).Msg("event loop failed")
		return err
	}

	log.Info().Msg("stopped")
	return nil
}
