// Package config provides configuration file parsing.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fgeck/captive-autologin/internal/models"
	"github.com/spf13/viper"
)

// Defaults applied when a key is absent.
const (
	DefaultTargetSSID          = "NUJS-CAMPUS WiFi"
	DefaultPortalBaseURL       = "http://172.24.66.1:8090"
	DefaultInternetProbeURL    = "http://connectivitycheck.gstatic.com/generate_204"
	DefaultLoginTimeout        = 10 * time.Second
	DefaultInternetTimeout     = 5 * time.Second
	DefaultReachabilityTimeout = 3 * time.Second
)

// Parser handles configuration file parsing.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new configuration parser.
func NewParser() *Parser {
	v := viper.New()
	v.SetConfigType("yaml")
	return &Parser{v: v}
}

// LoadFile loads configuration from a file path.
func (p *Parser) LoadFile(path string) (*models.Config, error) {
	p.v.SetConfigFile(path)

	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return p.parse()
}

// LoadReader loads configuration from a reader (useful for testing).
func (p *Parser) LoadReader(content string) (*models.Config, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return p.parse()
}

// Defaults returns the configuration used when no file is given.
func Defaults() *models.Config {
	cfg, _ := NewParser().parse() //nolint:errcheck // an empty config always parses
	return cfg
}

//nolint:gocognit,gocyclo // parsing config requires checking many fields
func (p *Parser) parse() (*models.Config, error) {
	cfg := &models.Config{
		TargetSSID: p.v.GetString("target_ssid"),
	}
	if cfg.TargetSSID == "" {
		cfg.TargetSSID = DefaultTargetSSID
	}

	// Parse portal settings.
	cfg.Portal = models.PortalConfig{
		BaseURL:             strings.TrimRight(p.v.GetString("portal.base_url"), "/"),
		InternetProbeURL:    p.v.GetString("portal.internet_probe_url"),
		LoginTimeout:        p.v.GetDuration("portal.login_timeout"),
		InternetTimeout:     p.v.GetDuration("portal.internet_timeout"),
		ReachabilityTimeout: p.v.GetDuration("portal.reachability_timeout"),
	}

	if cfg.Portal.BaseURL == "" {
		cfg.Portal.BaseURL = DefaultPortalBaseURL
	}
	if cfg.Portal.InternetProbeURL == "" {
		cfg.Portal.InternetProbeURL = DefaultInternetProbeURL
	}
	if cfg.Portal.LoginTimeout == 0 {
		cfg.Portal.LoginTimeout = DefaultLoginTimeout
	}
	if cfg.Portal.InternetTimeout == 0 {
		cfg.Portal.InternetTimeout = DefaultInternetTimeout
	}
	if cfg.Portal.ReachabilityTimeout == 0 {
		cfg.Portal.ReachabilityTimeout = DefaultReachabilityTimeout
	}

	for name, raw := range map[string]string{
		"portal.base_url":           cfg.Portal.BaseURL,
		"portal.internet_probe_url": cfg.Portal.InternetProbeURL,
	} {
		if err := validateHTTPURL(raw); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	// Parse credentials.
	cfg.Credentials = models.CredentialsConfig{
		Username: p.expandEnv(p.v.GetString("credentials.username")),
		Password: p.expandEnv(p.v.GetString("credentials.password")),
		StoreDir: p.expandEnv(p.v.GetString("credentials.store_dir")),
	}
	if cfg.Credentials.StoreDir == "" {
		cfg.Credentials.StoreDir = DefaultStoreDir()
	}

	// Parse event settings.
	cfg.Events = models.EventsConfig{
		Interfaces:      p.v.GetStringSlice("events.interfaces"),
		RecheckInterval: p.v.GetDuration("events.recheck_interval"),
	}
	if cfg.Events.RecheckInterval < 0 {
		return nil, fmt.Errorf("events.recheck_interval must not be negative")
	}

	// Parse optional Telegram config.
	if p.v.IsSet("telegram") {
		cfg.Telegram = &models.TelegramConfig{
			BotToken: p.expandEnv(p.v.GetString("telegram.bot_token")),
			ChatID:   p.expandEnv(p.v.GetString("telegram.chat_id")),
		}

		if cfg.Telegram.BotToken == "" {
			return nil, fmt.Errorf("telegram.bot_token is required when telegram is configured")
		}
		if cfg.Telegram.ChatID == "" {
			return nil, fmt.Errorf("telegram.chat_id is required when telegram is configured")
		}
	}

	return cfg, nil
}

// expandEnv expands environment variables in the format ${VAR} or $VAR.
func (p *Parser) expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// DefaultStoreDir returns the per-user directory of the encrypted credential store.
func DefaultStoreDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "captive-autologin")
	}
	return filepath.Join(dir, "captive-autologin")
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %q has no host", raw)
	}
	return nil
}

// Validate performs validation on the loaded configuration.
func Validate(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if cfg.TargetSSID == "" {
		return fmt.Errorf("target_ssid is required")
	}

	if err := validateHTTPURL(cfg.Portal.BaseURL); err != nil {
		return fmt.Errorf("portal.base_url: %w", err)
	}

	if err := validateHTTPURL(cfg.Portal.InternetProbeURL); err != nil {
		return fmt.Errorf("portal.internet_probe_url: %w", err)
	}

	if cfg.Portal.LoginTimeout <= 0 || cfg.Portal.InternetTimeout <= 0 || cfg.Portal.ReachabilityTimeout <= 0 {
		return fmt.Errorf("portal timeouts must be positive")
	}

	return nil
}
