//go:build linux

package events

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/fgeck/captive-autologin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"
)

func TestNetlinkSource_Run(t *testing.T) {
	root := fakeSysfs(t)
	names := map[int]string{2: "eth0", 3: "wlan0"}

	var feed chan<- netlink.AddrUpdate
	subscribed := make(chan struct{})
	src := &NetlinkSource{
		filter: interfaceFilter{sysfs: root},
		logger: testLogger(),
		subscribe: func(ch chan<- netlink.AddrUpdate, done <-chan struct{}) error {
			feed = ch
			close(subscribed)
			return nil
		},
		linkName: func(index int) (string, error) {
			if name, ok := names[index]; ok {
				return name, nil
			}
			return "", errors.New("link not found")
		},
	}
	sub := &mockSubmitter{accept: true}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- src.Run(ctx, sub) }()
	<-subscribed

	addr := func(ip string) net.IPNet {
		return net.IPNet{IP: net.ParseIP(ip), Mask: net.CIDRMask(24, 32)}
	}
	feed <- netlink.AddrUpdate{LinkIndex: 2, LinkAddress: addr("192.168.1.5"), NewAddr: true}
	feed <- netlink.AddrUpdate{LinkIndex: 9, LinkAddress: addr("10.0.0.5"), NewAddr: true}
	feed <- netlink.AddrUpdate{LinkIndex: 3, LinkAddress: addr("172.24.70.12"), NewAddr: false}
	feed <- netlink.AddrUpdate{LinkIndex: 3, LinkAddress: addr("172.24.70.12"), NewAddr: true}

	require.Eventually(t, func() bool { return len(sub.snapshot()) == 1 }, 5*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, Trigger{Kind: KindNetworkAvailable, Network: models.Network{Interface: "wlan0"}}, sub.snapshot()[0])
}

func TestNetlinkSource_SubscribeError(t *testing.T) {
	src := &NetlinkSource{
		logger: testLogger(),
		subscribe: func(ch chan<- netlink.AddrUpdate, done <-chan struct{}) error {
			return errors.New("operation not permitted")
		},
	}

	err := src.Run(context.Background(), &mockSubmitter{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "subscribing to address updates")
}

func TestDefaultRouteNetwork(t *testing.T) {
	names := func(index int) (string, error) {
		if index == 3 {
			return "wlan0", nil
		}
		return "", errors.New("link not found")
	}
	_, lan, _ := net.ParseCIDR("172.24.64.0/20")
	_, any4, _ := net.ParseCIDR("0.0.0.0/0")

	t.Run("default route with nil destination", func(t *testing.T) {
		network, err := defaultRouteNetwork([]netlink.Route{
			{LinkIndex: 3, Dst: lan},
			{LinkIndex: 3},
		}, names)
		require.NoError(t, err)
		assert.Equal(t, models.Network{Interface: "wlan0"}, network)
	})

	t.Run("default route with zero destination", func(t *testing.T) {
		network, err := defaultRouteNetwork([]netlink.Route{{LinkIndex: 3, Dst: any4}}, names)
		require.NoError(t, err)
		assert.Equal(t, "wlan0", network.Interface)
	})

	t.Run("no default route", func(t *testing.T) {
		_, err := defaultRouteNetwork([]netlink.Route{{LinkIndex: 3, Dst: lan}}, names)
		assert.ErrorIs(t, err, ErrNoActiveNetwork)
	})

	t.Run("unknown link", func(t *testing.T) {
		_, err := defaultRouteNetwork([]netlink.Route{{LinkIndex: 7}}, names)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoActiveNetwork)
	})
}
