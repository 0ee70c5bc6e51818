//go:build !linux

package events

import (
	"context"

	"github.com/fgeck/captive-autologin/internal/models"
	"github.com/rs/zerolog"
)

// NetlinkSource is only available on Linux.
type NetlinkSource struct{}

// NewNetlinkSource returns a source whose Run always fails with ErrUnsupported.
func NewNetlinkSource(_ zerolog.Logger, _ []string) *NetlinkSource {
	return &NetlinkSource{}
}

// Name implements Source.
func (s *NetlinkSource) Name() string { return "netlink" }

// Run implements Source.
func (s *NetlinkSource) Run(_ context.Context, _ Submitter) error {
	return ErrUnsupported
}

// ActiveNetwork is only available on Linux.
func ActiveNetwork() (models.Network, error) {
	return models.Network{}, ErrUnsupported
}
