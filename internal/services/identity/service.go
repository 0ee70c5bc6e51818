// Package identity resolves the transport type and network name of a live network.
package identity

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fgeck/captive-autologin/internal/models"
	"github.com/rs/zerolog"
)

// unknownSSID is the placeholder reported for an unresolved network name.
const unknownSSID = "<unknown ssid>"

const commandTimeout = 5 * time.Second

// Service defines the interface for network identity resolution.
type Service interface {
	Resolve(ctx context.Context, network models.Network) (models.NetworkIdentity, error)
}

// CommandExecutor allows mocking exec.Command in tests.
type CommandExecutor interface {
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultExecutor is the default command executor using os/exec.
type DefaultExecutor struct{}

// Execute runs a command and returns its standard output.
func (e *DefaultExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// Impl implements the identity Service interface.
type Impl struct {
	executor CommandExecutor
	sysfs    string
	logger   zerolog.Logger
}

// New creates a new identity resolver.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		executor: &DefaultExecutor{},
		sysfs:    "/sys/class/net",
		logger:   logger,
	}
}

// NewWithExecutor creates a new resolver with a custom executor and sysfs root (for testing).
func NewWithExecutor(logger zerolog.Logger, executor CommandExecutor, sysfsRoot string) *Impl {
	return &Impl{
		executor: executor,
		sysfs:    sysfsRoot,
		logger:   logger,
	}
}

// Resolve reports whether network is a wireless link and, if so, its SSID.
// A name that cannot be determined is returned as nil rather than an error.
func (s *Impl) Resolve(ctx context.Context, network models.Network) (models.NetworkIdentity, error) {
	if network.IsDefault() {
		// Without an interface the transport cannot be confirmed.
		return models.NetworkIdentity{}, nil
	}

	if _, err := os.Stat(filepath.Join(s.sysfs, network.Interface)); err != nil {
		return models.NetworkIdentity{}, fmt.Errorf("network %s is gone: %w", network.Interface, err)
	}

	if !s.isWireless(network.Interface) {
		return models.NetworkIdentity{TransportIsTargetMedium: false}, nil
	}

	id := models.NetworkIdentity{TransportIsTargetMedium: true}
	if name, ok := s.ssid(ctx, network.Interface); ok {
		id.Name = &name
	}

	return id, nil
}

func (s *Impl) isWireless(iface string) bool {
	_, err := os.Stat(filepath.Join(s.sysfs, iface, "wireless"))
	return err == nil
}

// ssid asks iwgetid first and falls back to iw.
func (s *Impl) ssid(ctx context.Context, iface string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	out, err := s.executor.Execute(ctx, "iwgetid", iface, "-r")
	if err == nil {
		if name, ok := normalizeSSID(string(out)); ok {
			return name, true
		}
	} else {
		s.logger.Debug().Err(err).Str("interface", iface).Msg("iwgetid failed, trying iw")
	}

	out, err = s.executor.Execute(ctx, "iw", "dev", iface, "link")
	if err != nil {
		s.logger.Debug().Err(err).Str("interface", iface).Msg("iw failed, network name unknown")
		return "", false
	}

	return normalizeSSID(parseIWLink(string(out)))
}

// parseIWLink extracts the SSID from `iw dev <iface> link` output.
func parseIWLink(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "SSID:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "SSID:"))
		}
	}
	return ""
}

// normalizeSSID strips quotes and maps placeholders to "unknown".
func normalizeSSID(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	if len(name) >= 2 && strings.HasPrefix(name, `"`) && strings.HasSuffix(name, `"`) {
		name = name[1 : len(name)-1]
	}

	switch {
	case name == "", name == unknownSSID:
		return "", false
	case strings.HasPrefix(name, "0x") && strings.Trim(name[2:], "0") == "":
		// hidden network reported as 0x000000
		return "", false
	}

	return name, true
}
