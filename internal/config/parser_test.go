package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fgeck/captive-autologin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_LoadReader_MinimalConfig(t *testing.T) {
	yaml := `
target_ssid: "Campus"
`
	parser := NewParser()
	cfg, err := parser.LoadReader(yaml)

	require.NoError(t, err)
	assert.Equal(t, "Campus", cfg.TargetSSID)
	// Check defaults
	assert.Equal(t, DefaultPortalBaseURL, cfg.Portal.BaseURL)
	assert.Equal(t, DefaultInternetProbeURL, cfg.Portal.InternetProbeURL)
	assert.Equal(t, 10*time.Second, cfg.Portal.LoginTimeout)
	assert.Equal(t, 5*time.Second, cfg.Portal.InternetTimeout)
	assert.Equal(t, 3*time.Second, cfg.Portal.ReachabilityTimeout)
	assert.Equal(t, DefaultStoreDir(), cfg.Credentials.StoreDir)
	assert.Empty(t, cfg.Credentials.Username)
	assert.Empty(t, cfg.Events.Interfaces)
	assert.Zero(t, cfg.Events.RecheckInterval)
	assert.Nil(t, cfg.Telegram)
}

func TestParser_LoadReader_FullConfig(t *testing.T) {
	yaml := `
target_ssid: "NUJS-CAMPUS WiFi"

portal:
  base_url: "http://10.0.0.1:8090/"
  internet_probe_url: "http://probe.example.com/generate_204"
  login_timeout: 20s
  internet_timeout: 4s
  reachability_timeout: 2s

credentials:
  username: "221087"
  password: "hunter2"
  store_dir: "/var/lib/captive-autologin"

events:
  interfaces:
    - wlan0
    - wlp2s0
  recheck_interval: 5m

telegram:
  bot_token: "123456:ABC"
  chat_id: "-100123456789"
`
	parser := NewParser()
	cfg, err := parser.LoadReader(yaml)

	require.NoError(t, err)

	assert.Equal(t, "NUJS-CAMPUS WiFi", cfg.TargetSSID)

	// Portal, trailing slash is trimmed
	assert.Equal(t, "http://10.0.0.1:8090", cfg.Portal.BaseURL)
	assert.Equal(t, "http://probe.example.com/generate_204", cfg.Portal.InternetProbeURL)
	assert.Equal(t, 20*time.Second, cfg.Portal.LoginTimeout)
	assert.Equal(t, 4*time.Second, cfg.Portal.InternetTimeout)
	assert.Equal(t, 2*time.Second, cfg.Portal.ReachabilityTimeout)

	// Credentials
	assert.Equal(t, "221087", cfg.Credentials.Username)
	assert.Equal(t, "hunter2", cfg.Credentials.Password)
	assert.Equal(t, "/var/lib/captive-autologin", cfg.Credentials.StoreDir)

	// Events
	assert.Equal(t, []string{"wlan0", "wlp2s0"}, cfg.Events.Interfaces)
	assert.Equal(t, 5*time.Minute, cfg.Events.RecheckInterval)

	// Telegram
	require.NotNil(t, cfg.Telegram)
	assert.Equal(t, "123456:ABC", cfg.Telegram.BotToken)
	assert.Equal(t, "-100123456789", cfg.Telegram.ChatID)
}

func TestParser_LoadReader_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_PORTAL_USER", "env_user")
	t.Setenv("TEST_PORTAL_PASSWORD", "env_secret")

	yaml := `
credentials:
  username: "${TEST_PORTAL_USER}"
  password: "$TEST_PORTAL_PASSWORD"
`
	parser := NewParser()
	cfg, err := parser.LoadReader(yaml)

	require.NoError(t, err)
	assert.Equal(t, "env_user", cfg.Credentials.Username)
	assert.Equal(t, "env_secret", cfg.Credentials.Password)
}

func TestParser_LoadReader_UnsetEnvVarIsNotAnError(t *testing.T) {
	yaml := `
credentials:
  username: "221087"
  password: "${TEST_PORTAL_PASSWORD_UNSET}"
`
	parser := NewParser()
	cfg, err := parser.LoadReader(yaml)

	require.NoError(t, err)
	assert.Equal(t, "221087", cfg.Credentials.Username)
	assert.Empty(t, cfg.Credentials.Password)
}

func TestParser_LoadReader_InvalidPortalURL(t *testing.T) {
	yaml := `
portal:
  base_url: "ftp://10.0.0.1"
`
	parser := NewParser()
	_, err := parser.LoadReader(yaml)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "portal.base_url")
}

func TestParser_LoadReader_InvalidProbeURL(t *testing.T) {
	yaml := `
portal:
  internet_probe_url: "http://"
`
	parser := NewParser()
	_, err := parser.LoadReader(yaml)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "portal.internet_probe_url")
}

func TestParser_LoadReader_NegativeRecheckInterval(t *testing.T) {
	yaml := `
events:
  recheck_interval: -1m
`
	parser := NewParser()
	_, err := parser.LoadReader(yaml)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "events.recheck_interval")
}

func TestParser_LoadReader_Telegram_MissingBotToken(t *testing.T) {
	yaml := `
telegram:
  chat_id: "-100123456789"
`
	parser := NewParser()
	_, err := parser.LoadReader(yaml)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.bot_token is required")
}

func TestParser_LoadReader_Telegram_MissingChatID(t *testing.T) {
	yaml := `
telegram:
  bot_token: "123456:ABC"
`
	parser := NewParser()
	_, err := parser.LoadReader(yaml)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.chat_id is required")
}

func TestParser_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target_ssid: \"Dorm\"\n"), 0o600))

	cfg, err := NewParser().LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, "Dorm", cfg.TargetSSID)
}

func TestParser_LoadFile_Missing(t *testing.T) {
	_, err := NewParser().LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.NotNil(t, cfg)
	assert.Equal(t, DefaultTargetSSID, cfg.TargetSSID)
	assert.Equal(t, DefaultPortalBaseURL, cfg.Portal.BaseURL)
	assert.NoError(t, Validate(cfg))
}

func TestValidate(t *testing.T) {
	valid := func() *models.Config {
		return &models.Config{
			TargetSSID: "Campus",
			Portal: models.PortalConfig{
				BaseURL:             "http://10.0.0.1:8090",
				InternetProbeURL:    "http://probe.example.com/generate_204",
				LoginTimeout:        time.Second,
				InternetTimeout:     time.Second,
				ReachabilityTimeout: time.Second,
			},
		}
	}

	tests := []struct {
		name    string
		cfg     func() *models.Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "nil config",
			cfg:     func() *models.Config { return nil },
			wantErr: true,
			errMsg:  "configuration is nil",
		},
		{
			name: "missing target ssid",
			cfg: func() *models.Config {
				c := valid()
				c.TargetSSID = ""
				return c
			},
			wantErr: true,
			errMsg:  "target_ssid is required",
		},
		{
			name: "bad portal url",
			cfg: func() *models.Config {
				c := valid()
				c.Portal.BaseURL = "not a url"
				return c
			},
			wantErr: true,
			errMsg:  "portal.base_url",
		},
		{
			name: "zero timeout",
			cfg: func() *models.Config {
				c := valid()
				c.Portal.ReachabilityTimeout = 0
				return c
			},
			wantErr: true,
			errMsg:  "timeouts must be positive",
		},
		{
			name:    "valid config",
			cfg:     valid,
			wantErr: false,
		},
		{
			name: "valid without credentials",
			cfg: func() *models.Config {
				c := valid()
				c.Credentials = models.CredentialsConfig{Username: "221087"}
				return c
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg())
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
