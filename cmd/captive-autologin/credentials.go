package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fgeck/captive-autologin/internal/models"
	"github.com/fgeck/captive-autologin/internal/services/credentials"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	credUsername      string
	credPasswordStdin bool
)

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Manage the encrypted credential store",
}

var credentialsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save portal credentials",
	Long: `Save portal credentials to the encrypted store. The password is read
from standard input so it never appears in the process list or shell history.`,
	RunE: runCredentialsSet,
}

var credentialsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove saved credentials",
	RunE:  runCredentialsClear,
}

var credentialsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show which credentials are saved",
	RunE:  runCredentialsShow,
}

func init() {
	credentialsSetCmd.Flags().StringVarP(&credUsername, "username", "u", "", "portal username (required)")
	credentialsSetCmd.Flags().BoolVar(&credPasswordStdin, "password-stdin", false, "read the password from stdin without a prompt")
	_ = credentialsSetCmd.MarkFlagRequired("username")

	credentialsCmd.AddCommand(credentialsSetCmd)
	credentialsCmd.AddCommand(credentialsClearCmd)
	credentialsCmd.AddCommand(credentialsShowCmd)
}

func fileStore() (*credentials.FileStore, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return credentials.NewFileStore(log.Logger, cfg.Credentials.StoreDir), nil
}

// readPassword reads one line from r.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptPassword reads the password without echo when stdin is a terminal,
// and as a plain line from in otherwise.
func promptPassword(in io.Reader, fromStdin bool) (string, error) {
	f, ok := in.(*os.File)
	if fromStdin || !ok || !term.IsTerminal(int(f.Fd())) {
		return readPassword(in)
	}

	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(raw), nil
}

func runCredentialsSet(cmd *cobra.Command, args []string) error {
	store, err := fileStore()
	if err != nil {
		return err
	}

	password, err := promptPassword(cmd.InOrStdin(), credPasswordStdin)
	if err != nil {
		return err
	}

	creds := models.Credentials{Username: strings.TrimSpace(credUsername), Password: password}
	if !creds.Complete() {
		return errors.New("username and password must not be empty")
	}

	if err := store.Put(context.Background(), creds); err != nil {
		log.Error().Err(err).Str("dir", store.Dir()).Msg("failed to save credentials")
		return err
	}

	log.Info().Str("username", creds.Username).Str("dir", store.Dir()).Msg("credentials saved")
	return nil
}

func runCredentialsClear(cmd *cobra.Command, args []string) error {
	store, err := fileStore()
	if err != nil {
		return err
	}

	if err := store.Clear(context.Background()); err != nil {
		log.Error().Err(err).Str("dir", store.Dir()).Msg("failed to clear credentials")
		return err
	}

	log.Info().Str("dir", store.Dir()).Msg("credentials cleared")
	return nil
}

func runCredentialsShow(cmd *cobra.Command, args []string) error {
	store, err := fileStore()
	if err != nil {
		return err
	}

	creds, err := store.Get(context.Background())
	if err != nil {
		log.Error().Err(err).Str("dir", store.Dir()).Msg("failed to read credentials")
		return err
	}

	fmt.Printf("Store: %s\n", store.Dir())
	if !creds.Complete() {
		fmt.Println("No credentials saved")
		return nil
	}
	fmt.Printf("Username: %s\n", creds.Username)
	fmt.Println("Password: (saved)")
	return nil
}
