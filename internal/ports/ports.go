package ports

import (
	"errors"
	"net"
	"strconv"
)

// Host is the interface probed for free ports. Tunnels bind the same name.
const Host = "localhost"

// DefaultMaxTries bounds how many consecutive ports FindFree will try.
const DefaultMaxTries = 1000

// ErrNoFreePort is returned by callers that need a port and FindFree came up empty.
var ErrNoFreePort = errors.New("no free local port found")

// FindFree returns the first port at or above base that can be bound on Host,
// trying at most maxTries candidates. The listener is closed before returning,
// so the port is only likely to still be free when the caller uses it.
func FindFree(base, maxTries int) (int, bool) {
	for port := base; port < base+maxTries; port++ {
		if Available(port) {
			return port, true
		}
	}
	return 0, false
}

// Available reports whether a TCP listener can be opened on Host:port.
func Available(port int) bool {
	if port <= 0 || port > 65535 {
		return false
	}
	l, err := net.Listen("tcp", net.JoinHostPort(Host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = l.Close()
	return true
}
