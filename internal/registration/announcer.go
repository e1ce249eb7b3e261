package registration

import (
	"context"
	"fmt"
	"net"

	"github.com/muurk/plexgdm/internal/logging"
	"github.com/muurk/plexgdm/internal/protocol"
	"github.com/muurk/plexgdm/internal/transport"
	"go.uber.org/zap"
)

// RegistrationTTL lets announcements cross a few routers
const RegistrationTTL = 32

// Announcer sends HELLO/BYE announcements.
type Announcer struct {
	opener transport.Opener

	// Group is the multicast address announcements are sent to
	Group *net.UDPAddr
}

// NewAnnouncer creates an Announcer for the standard registration group.
func NewAnnouncer(opener transport.Opener) *Announcer {
	return &Announcer{
		opener: opener,
		Group:  transport.GroupAddr(protocol.MulticastAddress, protocol.RegistrationPort),
	}
}

// Register sends a HELLO for identity.
func (a *Announcer) Register(ctx context.Context, identity protocol.ClientIdentity) error {
	return a.announce(ctx, identity, protocol.EncodeRegister(identity))
}

// Deregister sends a BYE for identity.
func (a *Announcer) Deregister(ctx context.Context, identity protocol.ClientIdentity) error {
	return a.announce(ctx, identity, protocol.EncodeDeregister(identity))
}

// announce opens a socket, sends msg once and closes the socket. An identity
// without an ID is rejected with protocol.ErrIdentityNotSet before any socket
// is opened.
func (a *Announcer) announce(ctx context.Context, identity protocol.ClientIdentity, msg []byte) error {
	if err := identity.Validate(); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	conn, err := a.opener.Open(RegistrationTTL)
	if err != nil {
		return fmt.Errorf("registration socket: %w", err)
	}
	defer func() { _ = conn.Close() }()

	logging.LogDatagram("sent", a.Group.String(), msg)
	if _, err := conn.WriteTo(msg, a.Group); err != nil {
		logging.Warn("Failed to send announcement",
			zap.String("group", a.Group.String()),
			zap.String("client_id", identity.ID),
			zap.Error(err),
		)
		return fmt.Errorf("send announcement: %w", err)
	}

	return nil
}
