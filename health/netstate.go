package health

import "net"

// InterfaceProber reports link availability from the local interface table:
// reachable when at least one non-loopback interface is up with an address.
type InterfaceProber struct{}

// Reachable implements LinkProber. If the interface table cannot be read the
// prober claims reachability and lets the server probe decide.
func (InterfaceProber) Reachable() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return true
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err == nil && len(addrs) > 0 {
			return true
		}
	}

	return false
}
