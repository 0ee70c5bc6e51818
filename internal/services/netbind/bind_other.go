//go:build !linux

package netbind

import "net"

// bindInterface uses the interface's source address; the OS picks the
// outgoing device from it.
func bindInterface(name string) (controlFunc, net.Addr, error) {
	ip, err := interfaceIPv4(name)
	if err != nil {
		return nil, nil, err
	}
	return nil, &net.TCPAddr{IP: ip}, nil
}
