package models

// Network identifies a live network path. The zero value means the default route.
type Network struct {
	Interface string
}

// IsDefault reports whether the network is the OS default route.
func (n Network) IsDefault() bool {
	return n.Interface == ""
}

// String returns the interface name, or "default" for the default route.
func (n Network) String() string {
	if n.IsDefault() {
		return "default"
	}
	return n.Interface
}

// NetworkIdentity is derived per attempt and never cached.
type NetworkIdentity struct {
	TransportIsTargetMedium bool
	Name                    *string // nil when the name could not be determined
}
