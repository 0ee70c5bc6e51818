package events

import (
	"net"
	"os"
	"path/filepath"
	"slices"

	"github.com/fgeck/captive-autologin/internal/models"
)

const sysfsNet = "/sys/class/net"

// addrEvent is a platform-neutral view of a kernel address notification.
type addrEvent struct {
	Interface string
	IP        net.IP
	New       bool
}

// interfaceFilter decides which interfaces may produce network-available triggers.
type interfaceFilter struct {
	allow []string // empty means every wireless interface
	sysfs string
}

func (f interfaceFilter) accepts(name string) bool {
	if name == "" {
		return false
	}
	if len(f.allow) > 0 {
		return slices.Contains(f.allow, name)
	}
	_, err := os.Stat(filepath.Join(f.sysfs, name, "wireless"))
	return err == nil
}

// trigger converts an address notification into a trigger. Only newly
// assigned, routable IPv4 addresses on accepted interfaces count.
func (f interfaceFilter) trigger(ev addrEvent) (Trigger, bool) {
	if !ev.New {
		return Trigger{}, false
	}
	ip4 := ev.IP.To4()
	if ip4 == nil || ip4.IsLoopback() || ip4.IsLinkLocalUnicast() {
		return Trigger{}, false
	}
	if !f.accepts(ev.Interface) {
		return Trigger{}, false
	}
	return Trigger{Kind: KindNetworkAvailable, Network: models.Network{Interface: ev.Interface}}, true
}
