package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fgeck/captive-autologin/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var forceInit bool

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write a starter configuration file",
	Long: `Write a configuration file with every setting at its default. Credentials
are read from $PORTAL_USERNAME and $PORTAL_PASSWORD unless edited.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInitConfig,
}

func init() {
	initConfigCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite an existing file")
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	path := "config.yaml"
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	out, err := config.Starter()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	log.Info().Str("file", path).Msg("configuration written")
	return nil
}
