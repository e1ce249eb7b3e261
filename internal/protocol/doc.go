// Package protocol implements the wire format of the Plex GDM ("G'Day Mate")
// discovery and registration protocol.
//
// GDM is a plaintext, HTTP-like protocol carried in single UDP datagrams sent
// to IPv4 multicast groups on the local network. There are three outbound
// message types:
//
//   - Discovery probe: the literal "M-SEARCH * HTTP/1.1", sent to
//     239.0.0.250:32414. Every media server on the segment replies.
//   - HELLO: a player announcing itself, sent to 239.0.0.250:32413.
//   - BYE: a player leaving, same group as HELLO.
//
// # Message Format
//
// HELLO and BYE share one payload shape. The header line is followed by
// newline separated "Key: value" lines:
//
//	HELLO * HTTP/1.1
//	Content-Type: plex/media-player
//	Resource-Identifier: 6f1b2a3c-...
//	Name: Living Room
//	Port: 3005
//	Product: Plex Player
//	Version: 1.2.3
//
// Server replies to a probe look like an HTTP response:
//
//	HTTP/1.0 200 OK
//	Content-Type: plex/media-server
//	Resource-Identifier: abc123
//	Name: NAS
//	Port: 32400
//	Updated-At: 1700000000
//	Version: 1.40.0
//
// # Parsing
//
// DecodeServerResponse never fails. A reply without "200 OK" yields a record
// holding only the sender address; unrecognised lines are skipped. Values are
// split on the first colon only, so values may contain colons themselves.
//
// DecodeAnnouncement is the peer-side view of HELLO/BYE messages and is used
// by listeners observing other players.
package protocol
