// Package transport opens the IPv4 UDP sockets GDM runs on.
//
// The discovery and registration engines never touch the net package
// directly. They ask an Opener for a Conn configured with a multicast TTL,
// which keeps them testable against an in-memory fake and keeps the socket
// options in one place.
//
// Classify turns socket errors into a SocketError whose type selects a
// user-facing troubleshooting hint.
package transport
