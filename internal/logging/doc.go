// Package logging provides structured logging for plexgdm.
//
// It wraps a zap logger behind package-level functions so the protocol
// engine, the background loops and the CLI all log through one instance.
//
// # Log Levels
//
//   - Debug: datagram dumps, configuration errors, loop no-ops
//   - Info: loop start/stop, discovery results, registration changes
//   - Warn: transport failures that were absorbed
//   - Error: failures that stop an operation outright
//
// # Configuration
//
// Logging is silent unless a level is given explicitly or through the
// PLEXGDM_LOG_LEVEL environment variable:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Output goes to stderr so it never interleaves with command output on stdout.
//
// # Datagram Logging
//
//	logging.LogDatagram("sent", "239.0.0.250:32414", payload)
//
// emits hex and printable-ASCII dumps (capped at 256 bytes) at debug level.
package logging
