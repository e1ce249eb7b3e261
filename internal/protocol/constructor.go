package protocol

import (
	"strconv"
	"strings"
)

// Multicast groups used by GDM
const (
	MulticastAddress = "239.0.0.250"

	// DiscoveryPort receives M-SEARCH probes from players
	DiscoveryPort = 32414

	// RegistrationPort receives HELLO/BYE announcements from players
	RegistrationPort = 32413
)

// Header lines
const (
	DiscoveryHeader  = "M-SEARCH * HTTP/1.1"
	RegisterHeader   = "HELLO * HTTP/1.1"
	DeregisterHeader = "BYE * HTTP/1.1"
)

// PlayerContentType is the Content-Type players announce
const PlayerContentType = "plex/media-player"

// Field keys shared by announcements and server replies
const (
	KeyContentType        = "Content-Type"
	KeyResourceIdentifier = "Resource-Identifier"
	KeyName               = "Name"
	KeyPort               = "Port"
	KeyProduct            = "Product"
	KeyVersion            = "Version"
	KeyUpdatedAt          = "Updated-At"
)

// DiscoveryProbe returns the M-SEARCH datagram
func DiscoveryProbe() []byte {
	return []byte(DiscoveryHeader)
}

// EncodeRegister builds the HELLO datagram for identity.
func EncodeRegister(identity ClientIdentity) []byte {
	return encodeAnnouncement(RegisterHeader, identity)
}

// EncodeDeregister builds the BYE datagram for identity.
func EncodeDeregister(identity ClientIdentity) []byte {
	return encodeAnnouncement(DeregisterHeader, identity)
}

// Payload returns the newline separated identity lines without a header.
// There is no trailing newline; servers expect the datagram to end on the
// Version value.
func Payload(identity ClientIdentity) string {
	lines := []string{
		field(KeyContentType, PlayerContentType),
		field(KeyResourceIdentifier, identity.ID),
		field(KeyName, identity.Name),
		field(KeyPort, strconv.Itoa(int(identity.Port))),
		field(KeyProduct, identity.Product),
		field(KeyVersion, identity.Version),
	}
	return strings.Join(lines, "\n")
}

func encodeAnnouncement(header string, identity ClientIdentity) []byte {
	return []byte(header + "\n" + Payload(identity))
}

func field(key, value string) string {
	return key + ": " + value
}
