// Package portal implements the captive portal protocol client.
package portal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fgeck/captive-autologin/internal/models"
	"github.com/fgeck/captive-autologin/internal/services/netbind"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// Service defines the interface for captive portal operations.
// No method returns an error; faults are folded into the result.
type Service interface {
	Login(ctx context.Context, username, password string, network models.Network) models.LoginResult
	Logout(ctx context.Context, username string, network models.Network) models.LoginResult
	IsInternetWorking(ctx context.Context, network models.Network) bool
	IsPortalReachable(ctx context.Context, network models.Network) bool
}

// Impl implements the portal Service interface.
type Impl struct {
	cfg     models.PortalConfig
	factory netbind.Factory
	logger  zerolog.Logger
	now     func() time.Time
}

// New creates a new portal client.
func New(logger zerolog.Logger, cfg models.PortalConfig) *Impl {
	return &Impl{
		cfg:     cfg,
		factory: &netbind.DefaultFactory{},
		logger:  logger,
		now:     time.Now,
	}
}

// NewWithFactory creates a new portal client with a custom client factory and clock (for testing).
func NewWithFactory(logger zerolog.Logger, cfg models.PortalConfig, factory netbind.Factory, now func() time.Time) *Impl {
	return &Impl{
		cfg:     cfg,
		factory: factory,
		logger:  logger,
		now:     now,
	}
}

// Login submits credentials. Succeeded is true iff the portal answers status LIVE.
func (s *Impl) Login(ctx context.Context, username, password string, network models.Network) models.LoginResult {
	s.logger.Debug().
		Str("username", username).
		Str("network", network.String()).
		Msg("submitting portal login")

	body := EncodeForm(models.ModeLogin, username, &password, s.now())

	resp, err := s.submit(ctx, network, "/login.xml", body)
	if err != nil {
		return errorResult(err)
	}

	return models.LoginResult{
		Succeeded: resp.Status == models.StatusLive,
		Status:    resp.Status,
		Message:   resp.Message,
	}
}

// Logout ends the portal session. Any well-formed answer counts as success;
// the portal reports a logged-off session with a status other than LIVE.
func (s *Impl) Logout(ctx context.Context, username string, network models.Network) models.LoginResult {
	s.logger.Debug().
		Str("username", username).
		Str("network", network.String()).
		Msg("submitting portal logout")

	body := EncodeForm(models.ModeLogout, username, nil, s.now())

	resp, err := s.submit(ctx, network, "/logout.xml", body)
	if err != nil {
		return errorResult(err)
	}

	return models.LoginResult{
		Succeeded: true,
		Status:    resp.Status,
		Message:   resp.Message,
	}
}

// IsInternetWorking reports whether the probe URL answers exactly 204 without a redirect.
func (s *Impl) IsInternetWorking(ctx context.Context, network models.Network) bool {
	opts := netbind.ClientOptions{Timeout: s.cfg.InternetTimeout}

	code, err := s.probe(ctx, network, s.cfg.InternetProbeURL, opts)
	if err != nil {
		s.logger.Debug().Err(err).Str("network", network.String()).Msg("internet probe failed")
		return false
	}

	s.logger.Debug().Int("status", code).Str("network", network.String()).Msg("internet probe answered")
	return code == http.StatusNoContent
}

// IsPortalReachable reports whether the portal answers with any HTTP status.
func (s *Impl) IsPortalReachable(ctx context.Context, network models.Network) bool {
	opts := netbind.ClientOptions{Timeout: s.cfg.ReachabilityTimeout}

	code, err := s.probe(ctx, network, s.cfg.BaseURL, opts)
	if err != nil {
		s.logger.Debug().Err(err).Str("network", network.String()).Msg("portal probe failed")
		return false
	}

	s.logger.Debug().Int("status", code).Str("network", network.String()).Msg("portal probe answered")
	return true
}

func (s *Impl) probe(ctx context.Context, network models.Network, target string, opts netbind.ClientOptions) (int, error) {
	client, err := s.factory.Client(network, opts)
	if err != nil {
		return 0, err
	}

	ctx, cancel := netbind.WithTimeout(ctx, opts)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	return resp.StatusCode, nil
}

func (s *Impl) submit(ctx context.Context, network models.Network, path, form string) (models.PortalResponse, error) {
	opts := netbind.ClientOptions{Timeout: s.cfg.LoginTimeout, FollowRedirects: true}

	client, err := s.factory.Client(network, opts)
	if err != nil {
		return models.PortalResponse{}, err
	}

	ctx, cancel := netbind.WithTimeout(ctx, opts)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+path, strings.NewReader(form))
	if err != nil {
		return models.PortalResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return models.PortalResponse{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return models.PortalResponse{}, fmt.Errorf("portal returned HTTP %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return models.PortalResponse{}, fmt.Errorf("reading portal response: %w", err)
	}

	parsed, err := ParseResponse(raw)
	if err != nil {
		return models.PortalResponse{}, err
	}

	s.logger.Debug().
		Str("path", path).
		Str("status", parsed.Status).
		Str("message", parsed.Message).
		Msg("portal answered")

	return parsed, nil
}

// EncodeForm builds the form body in the field order the portal expects.
// A nil password omits the field.
func EncodeForm(mode models.PortalMode, username string, password *string, ts time.Time) string {
	var b strings.Builder

	b.WriteString("mode=")
	b.WriteString(strconv.Itoa(int(mode)))
	b.WriteString("&username=")
	b.WriteString(url.QueryEscape(username))
	if password != nil {
		b.WriteString("&password=")
		b.WriteString(url.QueryEscape(*password))
	}
	b.WriteString("&a=")
	b.WriteString(strconv.FormatInt(ts.UnixMilli(), 10))
	b.WriteString("&producttype=0")

	return b.String()
}

func errorResult(err error) models.LoginResult {
	msg := err.Error()
	if msg == "" {
		msg = "unknown error"
	}
	return models.LoginResult{
		Succeeded: false,
		Status:    models.StatusError,
		Message:   msg,
	}
}
