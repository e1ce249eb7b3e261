package registration

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/muurk/plexgdm/internal/logging"
	"github.com/muurk/plexgdm/internal/protocol"
	"github.com/muurk/plexgdm/internal/transport"
	"go.uber.org/zap"
)

const (
	// pollInterval is the read deadline used so Listen notices cancellation.
	pollInterval = 500 * time.Millisecond

	// receiveBackoff is the pause after a failed receive
	receiveBackoff = 100 * time.Millisecond

	// maxReceiveFailures consecutive failed receives end Listen
	maxReceiveFailures = 10
)

// Handler receives each decoded announcement and its sender IP.
type Handler func(from string, a protocol.Announcement)

// Listener reports HELLO/BYE announcements from other players.
type Listener struct {
	// Group is the multicast group joined
	Group *net.UDPAddr

	// Interface to join on; nil lets the system choose
	Interface *net.Interface

	open func() (transport.Conn, error)
}

// NewListener creates a Listener for the standard registration group.
func NewListener() *Listener {
	l := &Listener{
		Group: transport.GroupAddr(protocol.MulticastAddress, protocol.RegistrationPort),
	}
	l.open = func() (transport.Conn, error) {
		return transport.ListenGroup(l.Interface, l.Group)
	}
	return l
}

// Listen blocks until ctx is done, calling handle for every announcement.
// Datagrams that are not HELLO/BYE are skipped. Failing to join the group,
// or maxReceiveFailures receive errors in a row, is returned as an error.
func (l *Listener) Listen(ctx context.Context, handle Handler) error {
	conn, err := l.open()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	logging.Info("Listening for announcements", zap.String("group", l.Group.String()))

	buf := make([]byte, 4096)
	failures := 0
	for ctx.Err() == nil {
		if err := conn.SetReadDeadline(time.Now().Add(pollInterval)); err != nil {
			return err
		}

		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if transport.IsTimeout(err) {
				failures = 0
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			failures++
			logging.Warn("Failed to receive announcement",
				zap.Int("failures", failures),
				zap.Error(err),
			)
			if failures >= maxReceiveFailures {
				return fmt.Errorf("receive failed %d times: %w", failures, err)
			}
			select {
			case <-ctx.Done():
			case <-time.After(receiveBackoff):
			}
			continue
		}
		failures = 0

		source := ""
		if from != nil {
			source = from.IP.String()
		}
		logging.LogDatagram("received", source, buf[:n])

		a, err := protocol.DecodeAnnouncement(buf[:n])
		if err != nil {
			logging.Debug("Ignoring datagram", zap.String("from", source), zap.Error(err))
			continue
		}
		handle(source, a)
	}

	return nil
}
