package transport

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/net/ipv4"
)

// Conn is a datagram socket able to send to a multicast group and read
// unicast replies.
type Conn interface {
	WriteTo(b []byte, addr *net.UDPAddr) (int, error)
	ReadFrom(b []byte) (int, *net.UDPAddr, error)
	SetReadDeadline(t time.Time) error
	Close() error
}

// Opener opens sockets whose outgoing multicast datagrams use ttl.
type Opener interface {
	Open(ttl int) (Conn, error)
}

// UDPOpener opens real IPv4 UDP sockets on an ephemeral port.
type UDPOpener struct {
	// Interface selects the outgoing multicast interface; nil uses the
	// system default route.
	Interface *net.Interface

	// Loopback delivers our own multicast datagrams back to this host.
	// Needed when a media server runs on the same machine.
	Loopback bool
}

// NewUDPOpener returns an opener using the default interface with
// multicast loopback enabled.
func NewUDPOpener() *UDPOpener {
	return &UDPOpener{Loopback: true}
}

// Open implements Opener.
func (o *UDPOpener) Open(ttl int) (Conn, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		return nil, fmt.Errorf("failed to open UDP socket: %w", err)
	}

	pc := ipv4.NewPacketConn(conn)
	if err := pc.SetMulticastTTL(ttl); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set multicast TTL %d: %w", ttl, err)
	}
	if err := pc.SetMulticastLoopback(o.Loopback); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set multicast loopback: %w", err)
	}
	if o.Interface != nil {
		if err := pc.SetMulticastInterface(o.Interface); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set multicast interface %s: %w", o.Interface.Name, err)
		}
	}

	return &udpConn{conn: conn}, nil
}

type udpConn struct {
	conn *net.UDPConn
}

func (c *udpConn) WriteTo(b []byte, addr *net.UDPAddr) (int, error) {
	return c.conn.WriteToUDP(b, addr)
}

func (c *udpConn) ReadFrom(b []byte) (int, *net.UDPAddr, error) {
	return c.conn.ReadFromUDP(b)
}

func (c *udpConn) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}

func (c *udpConn) Close() error {
	return c.conn.Close()
}

// IsTimeout reports whether err is a read deadline expiry.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// GroupAddr returns the UDP address of a multicast group port.
func GroupAddr(ip string, port int) *net.UDPAddr {
	return &net.UDPAddr{IP: net.ParseIP(ip).To4(), Port: port}
}
