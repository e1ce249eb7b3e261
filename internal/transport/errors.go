package transport

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// ErrorType is the category of a socket failure
type ErrorType int

const (
	// ErrTypeNetwork is any failure not covered below
	ErrTypeNetwork ErrorType = iota
	// ErrTypePermission means the OS or a sandbox denied the socket
	ErrTypePermission
	// ErrTypeUnreachable means no route to the multicast group
	ErrTypeUnreachable
	// ErrTypeAddrInUse means another process holds the port exclusively
	ErrTypeAddrInUse
	// ErrTypeNoInterface means no multicast-capable interface was found
	ErrTypeNoInterface
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypePermission:
		return "Permission Denied"
	case ErrTypeUnreachable:
		return "Network Unreachable"
	case ErrTypeAddrInUse:
		return "Address In Use"
	case ErrTypeNoInterface:
		return "No Interface"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// SocketError is a classified GDM socket failure.
type SocketError struct {
	Type ErrorType
	Op   string // what was attempted, e.g. "open discovery socket"
	Err  error
}

// Error implements the error interface
func (e *SocketError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Type, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *SocketError) Unwrap() error {
	return e.Err
}

// Classify wraps err in a SocketError describing op. A nil err yields nil.
func Classify(op string, err error) *SocketError {
	if err == nil {
		return nil
	}

	var existing *SocketError
	if errors.As(err, &existing) {
		return existing
	}

	se := &SocketError{Type: ErrTypeNetwork, Op: op, Err: err}
	switch {
	case errors.Is(err, syscall.EACCES), errors.Is(err, syscall.EPERM):
		se.Type = ErrTypePermission
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		se.Type = ErrTypeUnreachable
	case errors.Is(err, syscall.EADDRINUSE):
		se.Type = ErrTypeAddrInUse
	case errors.Is(err, syscall.ENODEV), errors.Is(err, syscall.EADDRNOTAVAIL):
		se.Type = ErrTypeNoInterface
	}
	return se
}

// TroubleshootingHint returns user-facing advice for a socket failure
func TroubleshootingHint(err error) string {
	var se *SocketError
	if !errors.As(err, &se) {
		var opErr *net.OpError
		if !errors.As(err, &opErr) {
			return "An unexpected error occurred. Please try again."
		}
		se = Classify(opErr.Op, err)
	}

	switch se.Type {
	case ErrTypePermission:
		return strings.Join([]string{
			"The system refused the multicast socket.",
			"Troubleshooting:",
			"  • Check firewall rules for UDP 32413/32414",
			"  • Containers need host networking to reach the LAN",
		}, "\n")

	case ErrTypeUnreachable:
		return strings.Join([]string{
			"There is no route to 239.0.0.250.",
			"Troubleshooting:",
			"  • Check that a network interface is up",
			"  • Add a multicast route: ip route add 224.0.0.0/4 dev <iface>",
		}, "\n")

	case ErrTypeAddrInUse:
		return strings.Join([]string{
			"Another program owns the GDM port.",
			"Troubleshooting:",
			"  • A local Plex Media Server or player may already listen on it",
			"  • Stop the other program or run on a different host",
		}, "\n")

	case ErrTypeNoInterface:
		return strings.Join([]string{
			"No interface can join the multicast group.",
			"Troubleshooting:",
			"  • Connect to the same LAN as the server",
			"  • VPN adapters often do not carry multicast",
		}, "\n")

	default:
		return strings.Join([]string{
			"Network communication failed.",
			"Troubleshooting:",
			"  • Check your network connection",
			"  • Try 'plexgdm discover --mdns' on networks that filter multicast",
		}, "\n")
	}
}
