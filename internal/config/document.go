package config

import (
	"fmt"

	"github.com/fgeck/captive-autologin/internal/models"
	"gopkg.in/yaml.v3"
)

const redacted = "(configured)"

// Document is the on-disk YAML layout of a configuration file.
type Document struct {
	TargetSSID  string               `yaml:"target_ssid"`
	Portal      portalDocument       `yaml:"portal"`
	Credentials *credentialsDocument `yaml:"credentials,omitempty"`
	Events      *eventsDocument      `yaml:"events,omitempty"`
	Telegram    *telegramDocument    `yaml:"telegram,omitempty"`
}

type portalDocument struct {
	BaseURL             string `yaml:"base_url"`
	InternetProbeURL    string `yaml:"internet_probe_url"`
	LoginTimeout        string `yaml:"login_timeout"`
	InternetTimeout     string `yaml:"internet_timeout"`
	ReachabilityTimeout string `yaml:"reachability_timeout"`
}

type credentialsDocument struct {
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	StoreDir string `yaml:"store_dir,omitempty"`
}

type eventsDocument struct {
	Interfaces      []string `yaml:"interfaces,omitempty"`
	RecheckInterval string   `yaml:"recheck_interval,omitempty"`
}

type telegramDocument struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// NewDocument converts cfg into its file layout. Secrets are masked when redact is set.
func NewDocument(cfg *models.Config, redact bool) Document {
	doc := Document{
		TargetSSID: cfg.TargetSSID,
		Portal: portalDocument{
			BaseURL:             cfg.Portal.BaseURL,
			InternetProbeURL:    cfg.Portal.InternetProbeURL,
			LoginTimeout:        cfg.Portal.LoginTimeout.String(),
			InternetTimeout:     cfg.Portal.InternetTimeout.String(),
			ReachabilityTimeout: cfg.Portal.ReachabilityTimeout.String(),
		},
	}

	creds := cfg.Credentials
	if creds.Username != "" || creds.Password != "" || creds.StoreDir != "" {
		doc.Credentials = &credentialsDocument{
			Username: creds.Username,
			Password: mask(creds.Password, redact),
			StoreDir: creds.StoreDir,
		}
	}

	if len(cfg.Events.Interfaces) > 0 || cfg.Events.RecheckInterval > 0 {
		doc.Events = &eventsDocument{Interfaces: cfg.Events.Interfaces}
		if cfg.Events.RecheckInterval > 0 {
			doc.Events.RecheckInterval = cfg.Events.RecheckInterval.String()
		}
	}

	if cfg.Telegram != nil {
		doc.Telegram = &telegramDocument{
			BotToken: mask(cfg.Telegram.BotToken, redact),
			ChatID:   cfg.Telegram.ChatID,
		}
	}

	return doc
}

// Marshal renders the document as YAML.
func (d Document) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}

// Starter returns the contents of a new configuration file with defaults
// filled in and credentials read from the environment.
func Starter() ([]byte, error) {
	cfg := Defaults()
	cfg.Credentials.Username = "${PORTAL_USERNAME}"
	cfg.Credentials.Password = "${PORTAL_PASSWORD}"
	cfg.Credentials.StoreDir = ""
	return NewDocument(cfg, false).Marshal()
}

func mask(secret string, redact bool) string {
	if redact && secret != "" {
		return redacted
	}
	return secret
}
