//go:build linux

package netbind

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// bindInterface pins sockets to the device with SO_BINDTODEVICE.
func bindInterface(name string) (controlFunc, net.Addr, error) {
	if _, err := net.InterfaceByName(name); err != nil {
		return nil, nil, err
	}

	control := func(_, _ string, c syscall.RawConn) error {
		var sockErr error
		err := c.Control(func(fd uintptr) {
			sockErr = unix.SetsockoptString(int(fd), unix.SOL_SOCKET, unix.SO_BINDTODEVICE, name)
		})
		if err != nil {
			return err
		}
		return sockErr
	}

	return control, nil, nil
}
