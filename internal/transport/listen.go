package transport

import (
	"fmt"
	"net"
)

// ListenGroup joins a multicast group and returns a socket bound to its port.
// ifi may be nil to let the system choose the interface.
func ListenGroup(ifi *net.Interface, group *net.UDPAddr) (Conn, error) {
	conn, err := net.ListenMulticastUDP("udp4", ifi, group)
	if err != nil {
		return nil, fmt.Errorf("failed to join multicast group %s: %w", group, err)
	}
	return &udpConn{conn: conn}, nil
}
