// Package netbind builds HTTP clients whose sockets are bound to a specific network interface.
package netbind

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/fgeck/captive-autologin/internal/models"
)

// HTTPClient allows mocking HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOptions describes a client for a single request.
type ClientOptions struct {
	Timeout         time.Duration // used for both connect and read
	FollowRedirects bool
}

// Factory creates HTTP clients bound to a network.
type Factory interface {
	Client(network models.Network, opts ClientOptions) (HTTPClient, error)
}

// DefaultFactory binds clients to the interface named by the network handle.
type DefaultFactory struct{}

// Client returns a client whose connections leave through network. The default
// network uses the OS routing table.
func (f *DefaultFactory) Client(network models.Network, opts ClientOptions) (HTTPClient, error) {
	dialer := &net.Dialer{Timeout: opts.Timeout}

	if !network.IsDefault() {
		control, localAddr, err := bindInterface(network.Interface)
		if err != nil {
			return nil, fmt.Errorf("binding to %s: %w", network.Interface, err)
		}
		dialer.Control = control
		dialer.LocalAddr = localAddr
	}

	transport := &http.Transport{
		Proxy:                 nil,
		DialContext:           dialer.DialContext,
		ResponseHeaderTimeout: opts.Timeout,
		DisableKeepAlives:     true,
	}

	client := &http.Client{Transport: transport}
	if !opts.FollowRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return client, nil
}

type controlFunc func(network, address string, c syscall.RawConn) error

// interfaceIPv4 returns the first IPv4 address assigned to the named interface.
func interfaceIPv4(name string) (net.IP, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, err
	}

	addrs, err := iface.Addrs()
	if err != nil {
		return nil, err
	}

	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok {
			if ip4 := ipNet.IP.To4(); ip4 != nil {
				return ip4, nil
			}
		}
	}

	return nil, fmt.Errorf("interface %s has no IPv4 address", name)
}

// WithTimeout bounds ctx by the client's read timeout so that body reads cannot hang.
func WithTimeout(ctx context.Context, opts ClientOptions) (context.Context, context.CancelFunc) {
	if opts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	// connect + read
	return context.WithTimeout(ctx, 2*opts.Timeout)
}
