// Package engine is the entry point to GDM discovery and registration.
//
// An Engine owns the client identity, the current server list, the
// registered and discovery-complete flags, and two background loops:
//
//   - discovery: probes the network immediately and then every
//     DiscoveryInterval ticks, replacing the server list each cycle
//   - registration: sends HELLO immediately and then every
//     RegistrationInterval ticks; stopping it sends one BYE
//
// Callers poll Servers, DiscoveryComplete, Registered and CheckRegistration
// from any goroutine while the loops write.
//
//	e := engine.New(engine.Config{})
//	if err := e.SetClientDetails(identity); err != nil {
//	    return err
//	}
//	e.StartAll()
//	defer e.StopAll()
//
// Nothing in the protocol path returns errors to the caller except the
// synchronous Discover, which fails only when no socket can be opened.
// Everything else is reflected in flags, lists and logs.
package engine
