package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fgeck/captive-autologin/internal/models"
	"github.com/fgeck/captive-autologin/internal/services/portal"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var loginInterface string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Submit stored credentials to the portal once",
	Long:  `Submit stored credentials to the portal without network filtering or polling.`,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of the portal",
	RunE:  runLogout,
}

func init() {
	loginCmd.Flags().StringVarP(&loginInterface, "interface", "i", "", "network interface (default: OS routing)")
	logoutCmd.Flags().StringVarP(&loginInterface, "interface", "i", "", "network interface (default: OS routing)")
}

var errNoCredentials = errors.New("no credentials saved, use \"credentials set\" or the config file")

func storedCredentials(ctx context.Context, cfg *models.Config) (*models.Credentials, error) {
	creds, err := credentialStore(log.Logger, cfg).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}
	if !creds.Complete() {
		return nil, errNoCredentials
	}
	return creds, nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	creds, err := storedCredentials(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("cannot log in")
		return err
	}

	network := networkFlag(loginInterface)
	log.Info().Str("username", creds.Username).Str("network", network.String()).Msg("logging in")

	result := portal.New(log.Logger, cfg.Portal).Login(ctx, creds.Username, creds.Password, network)
	return reportResult("login", result)
}

func runLogout(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	creds, err := storedCredentials(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("cannot log out")
		return err
	}

	network := networkFlag(loginInterface)
	log.Info().Str("username", creds.Username).Str("network", network.String()).Msg("logging out")

	result := portal.New(log.Logger, cfg.Portal).Logout(ctx, creds.Username, network)
	return reportResult("logout", result)
}

func reportResult(op string, result models.LoginResult) error {
	if !result.Succeeded {
		log.Error().
			Str("status", result.Status).
			Str("message", result.Message).
			Msgf("%s failed", op)
		return fmt.Errorf("%s failed: %s", op, result.Message)
	}

	log.Info().
		Str("status", result.Status).
		Str("message", result.Message).
		Msgf("%s succeeded", op)
	return nil
}
