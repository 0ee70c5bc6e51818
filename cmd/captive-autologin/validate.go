package main

import (
	"fmt"
	"os"

	"github.com/fgeck/captive-autologin/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var printConfig bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long:  `Validate the configuration file without contacting the portal.`,
	RunE:  validateConfig,
}

func init() {
	validateCmd.Flags().BoolVar(&printConfig, "print", false, "print the effective configuration as YAML (secrets masked)")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		log.Error().Msg("config file is required")
		return cmd.Help()
	}

	// Check if file exists
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		log.Error().Str("file", configFile).Msg("config file not found")
		return fmt.Errorf("config file not found: %s", configFile)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if printConfig {
		out, err := config.NewDocument(cfg, true).Marshal()
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	}

	fmt.Println("Configuration is valid!")
	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  Target SSID: %s\n", cfg.TargetSSID)
	fmt.Printf("  Portal: %s\n", cfg.Portal.BaseURL)
	fmt.Printf("  Internet probe: %s\n", cfg.Portal.InternetProbeURL)
	fmt.Println()
	fmt.Println("Timeouts:")
	fmt.Printf("  Login: %s\n", cfg.Portal.LoginTimeout)
	fmt.Printf("  Internet probe: %s\n", cfg.Portal.InternetTimeout)
	fmt.Printf("  Portal probe: %s\n", cfg.Portal.ReachabilityTimeout)
	fmt.Println()
	fmt.Println("Credentials:")
	fmt.Printf("  Inline: %v\n", cfg.Credentials.Username != "" && cfg.Credentials.Password != "")
	fmt.Printf("  Store: %s\n", cfg.Credentials.StoreDir)
	fmt.Println()
	fmt.Println("Events:")
	if len(cfg.Events.Interfaces) > 0 {
		fmt.Printf("  Interfaces: %v\n", cfg.Events.Interfaces)
	} else {
		fmt.Println("  Interfaces: all wireless")
	}
	if cfg.Events.RecheckInterval > 0 {
		fmt.Printf("  Recheck interval: %s\n", cfg.Events.RecheckInterval)
	}
	fmt.Printf("  Telegram: %v\n", cfg.Telegram != nil)

	if cfg.Telegram != nil {
		fmt.Println()
		fmt.Println("Telegram Configuration:")
		fmt.Printf("  Chat ID: %s\n", cfg.Telegram.ChatID)
		fmt.Printf("  Bot Token: (configured)\n")
	}

	return nil
}
