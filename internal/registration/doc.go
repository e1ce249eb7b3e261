// Package registration announces a player to Plex Media Servers over GDM
// and checks whether a server has picked the announcement up.
//
// Announcer sends HELLO and BYE datagrams to 239.0.0.250:32413 with a
// multicast TTL of 32, higher than discovery's so announcements can cross
// routed segments. Each announcement uses a fresh socket that is closed
// straight after the send.
//
// Verifier performs the optional confirmation step: an HTTP GET of
// http://<server>:<port>/clients, succeeding when the player's
// Resource-Identifier appears anywhere in the body. Every failure collapses
// to false; the check is best effort.
//
// Listener joins the registration group and reports HELLO/BYE datagrams
// sent by other players, which is useful when debugging a network.
package registration
