package discovery

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/muurk/plexgdm/internal/logging"
	"github.com/muurk/plexgdm/internal/protocol"
	"github.com/muurk/plexgdm/internal/transport"
	"go.uber.org/zap"
)

const (
	// DiscoveryTTL keeps probes on the local subnet
	DiscoveryTTL = 1

	// DefaultReceiveTimeout is how long to wait for each further reply.
	// Collection ends when no reply arrives within this window.
	DefaultReceiveTimeout = 200 * time.Millisecond

	// DefaultBufferSize is the largest reply read; longer datagrams are
	// truncated and parsed as far as they go.
	DefaultBufferSize = 4096
)

// Result is the outcome of one discovery cycle.
type Result struct {
	// Servers holds one record per reply, in arrival order
	Servers []protocol.ServerRecord

	// Status tells why collection ended
	Status transport.Status

	// Err is the transport error when Status is StatusTransportError
	Err error
}

// Discoverer sends GDM probes and collects server replies.
type Discoverer struct {
	opener transport.Opener

	// Group is the multicast address probes are sent to
	Group *net.UDPAddr

	// ReceiveTimeout bounds the wait for each reply
	ReceiveTimeout time.Duration

	// BufferSize is the read buffer size per reply
	BufferSize int
}

// NewDiscoverer creates a Discoverer with default settings.
func NewDiscoverer(opener transport.Opener) *Discoverer {
	return &Discoverer{
		opener:         opener,
		Group:          transport.GroupAddr(protocol.MulticastAddress, protocol.DiscoveryPort),
		ReceiveTimeout: DefaultReceiveTimeout,
		BufferSize:     DefaultBufferSize,
	}
}

// Discover runs one discovery cycle: it sends a single probe and collects
// replies until one receive window passes without a reply.
//
// Transport failures after the socket is open are absorbed into the Result
// together with whatever was collected so far. The returned error is only
// set when no socket could be opened.
func (d *Discoverer) Discover(ctx context.Context) (Result, error) {
	conn, err := d.opener.Open(DiscoveryTTL)
	if err != nil {
		return Result{Status: transport.StatusTransportError, Err: err},
			fmt.Errorf("discovery socket: %w", err)
	}
	defer func() { _ = conn.Close() }()

	result := Result{Servers: make([]protocol.ServerRecord, 0)}

	probe := protocol.DiscoveryProbe()
	logging.LogDatagram("sent", d.Group.String(), probe)
	if _, err := conn.WriteTo(probe, d.Group); err != nil {
		logging.Warn("Failed to send discovery probe",
			zap.String("group", d.Group.String()),
			zap.Error(err),
		)
		result.Status = transport.StatusTransportError
		result.Err = err
		return result, nil
	}

	result.Status, result.Err = d.collect(ctx, conn, &result.Servers)

	logging.Debug("Discovery cycle finished",
		zap.Int("servers", len(result.Servers)),
		zap.Stringer("status", result.Status),
	)
	return result, nil
}

func (d *Discoverer) collect(ctx context.Context, conn transport.Conn, servers *[]protocol.ServerRecord) (transport.Status, error) {
	buf := make([]byte, d.BufferSize)

	for {
		if ctx.Err() != nil {
			return transport.StatusCanceled, nil
		}

		if err := conn.SetReadDeadline(time.Now().Add(d.ReceiveTimeout)); err != nil {
			logging.Warn("Failed to set read deadline", zap.Error(err))
			return transport.StatusTransportError, err
		}

		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if transport.IsTimeout(err) {
				return transport.StatusTimedOut, nil
			}
			logging.Warn("Failed to receive discovery reply", zap.Error(err))
			return transport.StatusTransportError, err
		}

		source := sourceIP(from)
		logging.LogDatagram("received", source, buf[:n])
		*servers = append(*servers, protocol.DecodeServerResponse(buf[:n], source))
	}
}

func sourceIP(addr *net.UDPAddr) string {
	if addr == nil {
		return ""
	}
	return addr.IP.String()
}
