// Package config manages the plexgdm configuration file.
//
// The file is YAML and holds the player identity plus loop intervals:
//
//	version: 1
//	client:
//	    id: 6f1b2a3c-4d5e-4f60-8a9b-0c1d2e3f4a5b
//	    name: Living Room
//	    port: 3005
//	    product: plexgdm
//	    version: 1.0.0
//	discovery_interval: 120
//	registration_interval: 5
//	log_level: info
//
// Only configuration lives here. Discovered servers are never persisted.
//
// # Location
//
//   - Linux: $XDG_CONFIG_HOME/plexgdm/config.yaml (or ~/.config/plexgdm)
//   - macOS: ~/.config/plexgdm/config.yaml
//   - Windows: %LOCALAPPDATA%\plexgdm\config.yaml
//
// Writes go to a temporary file that is renamed into place, so a crash
// never leaves a truncated config behind.
package config
