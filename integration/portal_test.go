//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fgeck/captive-autologin/internal/config"
	"github.com/fgeck/captive-autologin/internal/models"
	"github.com/fgeck/captive-autologin/internal/services/portal"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getPortalConfig(t *testing.T) models.PortalConfig {
	t.Helper()

	baseURL := os.Getenv("TEST_PORTAL_URL")
	if baseURL == "" {
		t.Skip("TEST_PORTAL_URL not set")
	}

	return models.PortalConfig{
		BaseURL:             baseURL,
		InternetProbeURL:    config.DefaultInternetProbeURL,
		LoginTimeout:        config.DefaultLoginTimeout,
		InternetTimeout:     config.DefaultInternetTimeout,
		ReachabilityTimeout: config.DefaultReachabilityTimeout,
	}
}

func getCredentials(t *testing.T) models.Credentials {
	t.Helper()

	username := os.Getenv("TEST_PORTAL_USERNAME")
	if username == "" {
		t.Skip("TEST_PORTAL_USERNAME not set")
	}

	password := os.Getenv("TEST_PORTAL_PASSWORD")
	if password == "" {
		t.Skip("TEST_PORTAL_PASSWORD not set")
	}

	return models.Credentials{Username: username, Password: password}
}

// testNetwork binds requests to TEST_WIFI_INTERFACE when set.
func testNetwork() models.Network {
	return models.Network{Interface: os.Getenv("TEST_WIFI_INTERFACE")}
}

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func TestPortalReachable_Integration(t *testing.T) {
	cfg := getPortalConfig(t)

	svc := portal.New(testLogger(), cfg)

	assert.True(t, svc.IsPortalReachable(context.Background(), testNetwork()))
}

func TestLoginLogout_Integration(t *testing.T) {
	cfg := getPortalConfig(t)
	creds := getCredentials(t)
	network := testNetwork()

	svc := portal.New(testLogger(), cfg)

	result := svc.Login(context.Background(), creds.Username, creds.Password, network)
	require.True(t, result.Succeeded, "status=%s message=%s", result.Status, result.Message)
	assert.Equal(t, models.StatusLive, result.Status)

	// The gateway needs a moment before forwarding traffic.
	time.Sleep(2 * time.Second)
	assert.True(t, svc.IsInternetWorking(context.Background(), network))

	result = svc.Logout(context.Background(), creds.Username, network)
	assert.True(t, result.Succeeded, "status=%s message=%s", result.Status, result.Message)
}

func TestLoginWrongPassword_Integration(t *testing.T) {
	cfg := getPortalConfig(t)
	creds := getCredentials(t)

	svc := portal.New(testLogger(), cfg)

	result := svc.Login(context.Background(), creds.Username, creds.Password+"-wrong", testNetwork())

	assert.False(t, result.Succeeded)
	assert.NotEqual(t, models.StatusLive, result.Status)
	assert.NotEmpty(t, result.Message)
}
