//go:build linux

package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/fgeck/captive-autologin/internal/models"
	"github.com/rs/zerolog"
	"github.com/vishvananda/netlink"
)

// NetlinkSource emits a network-available trigger whenever a wireless
// interface gains an IPv4 address.
type NetlinkSource struct {
	filter    interfaceFilter
	logger    zerolog.Logger
	subscribe func(ch chan<- netlink.AddrUpdate, done <-chan struct{}) error
	linkName  func(index int) (string, error)
}

// NewNetlinkSource creates a source watching interfaces, or every wireless
// interface when interfaces is empty.
func NewNetlinkSource(logger zerolog.Logger, interfaces []string) *NetlinkSource {
	return &NetlinkSource{
		filter:    interfaceFilter{allow: interfaces, sysfs: sysfsNet},
		logger:    logger,
		subscribe: netlink.AddrSubscribe,
		linkName:  linkNameByIndex,
	}
}

// Name implements Source.
func (s *NetlinkSource) Name() string { return "netlink" }

// Run implements Source.
func (s *NetlinkSource) Run(ctx context.Context, sub Submitter) error {
	updates := make(chan netlink.AddrUpdate, 16)
	done := make(chan struct{})
	defer close(done)

	if err := s.subscribe(updates, done); err != nil {
		return fmt.Errorf("subscribing to address updates: %w", err)
	}
	s.logger.Debug().Strs("interfaces", s.filter.allow).Msg("watching address updates")

	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-updates:
			if !ok {
				return errors.New("address update subscription closed")
			}
			name, err := s.linkName(u.LinkIndex)
			if err != nil {
				s.logger.Debug().Err(err).Int("index", u.LinkIndex).Msg("ignoring update for unknown link")
				continue
			}
			t, ok := s.filter.trigger(addrEvent{Interface: name, IP: u.LinkAddress.IP, New: u.NewAddr})
			if !ok {
				continue
			}
			s.logger.Info().Str("interface", name).Str("ip", u.LinkAddress.IP.String()).Msg("network available")
			sub.Submit(t)
		}
	}
}

func linkNameByIndex(index int) (string, error) {
	link, err := netlink.LinkByIndex(index)
	if err != nil {
		return "", err
	}
	return link.Attrs().Name, nil
}

// ActiveNetwork returns the interface carrying the IPv4 default route.
func ActiveNetwork() (models.Network, error) {
	routes, err := netlink.RouteList(nil, netlink.FAMILY_V4)
	if err != nil {
		return models.Network{}, fmt.Errorf("listing routes: %w", err)
	}
	return defaultRouteNetwork(routes, linkNameByIndex)
}

func defaultRouteNetwork(routes []netlink.Route, linkName func(int) (string, error)) (models.Network, error) {
	for _, r := range routes {
		if r.Dst != nil {
			if ones, _ := r.Dst.Mask.Size(); ones != 0 {
				continue
			}
		}
		if r.LinkIndex == 0 {
			continue
		}
		name, err := linkName(r.LinkIndex)
		if err != nil {
			return models.Network{}, fmt.Errorf("resolving default route link: %w", err)
		}
		return models.Network{Interface: name}, nil
	}
	return models.Network{}, ErrNoActiveNetwork
}
