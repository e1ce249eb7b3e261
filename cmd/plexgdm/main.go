// Plexgdm discovers Plex Media Servers on the local network and announces
// a player to them over the GDM multicast protocol.
//
// Usage:
//
//	plexgdm [command] [flags]
//
// Run 'plexgdm config init' once to create a stable client identity, then
// 'plexgdm register' to keep the player announced until interrupted.
// See 'plexgdm --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/plexgdm/internal/config"
	"github.com/muurk/plexgdm/internal/logging"
	"github.com/muurk/plexgdm/internal/transport"
	"github.com/muurk/plexgdm/internal/ui"
	"github.com/muurk/plexgdm/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "plexgdm",
	Short: "Plex GDM discovery and registration",
	Long: `Find Plex Media Servers on the local network and announce a player to them.

GDM ("G'Day Mate") is the UDP multicast protocol Plex uses on the LAN.
Servers answer M-SEARCH probes sent to 239.0.0.250:32414; players announce
themselves with HELLO and BYE messages sent to 239.0.0.250:32413.`,
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $"+logging.LogLevelEnvVar+")")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("plexgdm %s\n", version.Full())
	},
}

// resolveConfigPath returns --config or the default config location
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

// loadConfig reads the config file. When none exists a throwaway config
// with a random client ID is returned and persisted is false.
func loadConfig() (cfg *config.Config, persisted bool, err error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, false, err
	}

	cfg, err = config.Load(path)
	if errors.Is(err, config.ErrNotFound) {
		logging.Debug("No config file, using generated identity")
		return config.NewConfig(version.Version), false, nil
	}
	if err != nil {
		return nil, false, err
	}

	// The config level applies only when neither flag nor env var set one
	if logLevel == "" && os.Getenv(logging.LogLevelEnvVar) == "" && cfg.LogLevel != "" {
		if err := logging.Initialize(cfg.LogLevel); err != nil {
			return nil, false, err
		}
	}

	return cfg, true, nil
}

// socketFailure prints a classified socket error with a hint and returns it
func socketFailure(p *ui.Printer, op string, err error) error {
	classified := transport.Classify(op, err)
	p.PrintFailure(classified.Type.String(), ui.Param{Key: "Error", Value: err.Error()})
	p.Println(transport.TroubleshootingHint(classified))
	return classified
}
