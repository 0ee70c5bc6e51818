package main

import (
	"fmt"

	"github.com/fgeck/captive-autologin/internal/services/identity"
	"github.com/fgeck/captive-autologin/internal/services/portal"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var statusInterface string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show network identity and connectivity",
	Long:  `Resolve the network name and probe the internet and the portal, without logging in.`,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusInterface, "interface", "i", "", "network interface (default: active network)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	network, err := resolveNetwork(statusInterface)
	if err != nil {
		log.Error().Err(err).Msg("could not determine network")
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	ssid := "(unknown)"
	wifi := false
	id, err := identity.New(log.Logger).Resolve(ctx, network)
	if err != nil {
		log.Warn().Err(err).Str("network", network.String()).Msg("could not identify network")
	} else {
		wifi = id.TransportIsTargetMedium
		if id.Name != nil {
			ssid = *id.Name
		}
	}

	portalSvc := portal.New(log.Logger, cfg.Portal)
	internet := portalSvc.IsInternetWorking(ctx, network)
	reachable := portalSvc.IsPortalReachable(ctx, network)

	fmt.Printf("Network:          %s\n", network)
	fmt.Printf("WiFi:             %v\n", wifi)
	fmt.Printf("SSID:             %s\n", ssid)
	fmt.Printf("Target SSID:      %s\n", cfg.TargetSSID)
	fmt.Printf("Internet working: %v\n", internet)
	fmt.Printf("Portal reachable: %v (%s)\n", reachable, cfg.Portal.BaseURL)

	return nil
}
