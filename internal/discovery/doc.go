// Package discovery locates Plex Media Servers on the local network.
//
// The primary mechanism is GDM: a single "M-SEARCH * HTTP/1.1" datagram is
// sent to 239.0.0.250:32414 with a multicast TTL of 1, and every server on
// the segment answers with a unicast reply. Discoverer collects replies
// until one 200ms receive window passes without any, so a cycle lasts
// roughly as long as the slowest responder rather than a fixed total.
//
//	d := discovery.NewDiscoverer(transport.NewUDPOpener())
//	result, err := d.Discover(ctx)
//	if err != nil {
//	    return err // no socket could be opened
//	}
//	for _, s := range result.Servers {
//	    fmt.Println(s)
//	}
//
// Replies are kept in arrival order. The short window is a heuristic: a
// server slower than 200ms after the previous reply is missed until the
// next cycle.
//
// MDNSScanner is a fallback that browses the "_plexmediasvr._tcp" DNS-SD
// service instead. It only reports addresses, names and ports.
//
// # Network Requirements
//
//   - IPv4 multicast on the outgoing interface
//   - Servers on the same segment (TTL 1 is never routed)
//   - Inbound UDP from the servers to the ephemeral source port
package discovery
