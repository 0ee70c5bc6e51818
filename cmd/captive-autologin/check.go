package main

import (
	"errors"
	"fmt"

	"github.com/fgeck/captive-autologin/internal/models"
	"github.com/fgeck/captive-autologin/internal/services/events"
	"github.com/fgeck/captive-autologin/internal/services/orchestrator"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var checkInterface string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single login attempt and exit",
	Long: `Run one login attempt against the given interface, or the interface
carrying the default route. Suitable for cron jobs and systemd timers.

Exits non-zero when the portal was unreachable or rejected the login.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkInterface, "interface", "i", "", "network interface (default: active network)")
}

// resolveNetwork returns the named interface, or the active network.
func resolveNetwork(iface string) (models.Network, error) {
	if iface != "" {
		return networkFlag(iface), nil
	}
	network, err := events.ActiveNetwork()
	if errors.Is(err, events.ErrUnsupported) {
		return models.Network{}, nil
	}
	return network, err
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	network, err := resolveNetwork(checkInterface)
	if err != nil {
		log.Error().Err(err).Msg("could not determine network")
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	orch := newOrchestrator(log.Logger, cfg, orchestrator.NewZerologSink(log.Logger))
	out := orch.Attempt(ctx, network)

	if hook := telegramHook(log.Logger, cfg); hook != nil {
		hook(ctx, events.Trigger{Kind: events.KindStartup, Network: network}, out)
	}

	switch out.State {
	case models.StateFailed, models.StatePortalUnreachable, models.StateCancelled:
		return fmt.Errorf("login attempt ended in %s: %s", out.State, out.Message)
	default:
		return nil
	}
}
