package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/plexgdm/internal/discovery"
	"github.com/muurk/plexgdm/internal/protocol"
	"github.com/muurk/plexgdm/internal/transport"
	"github.com/muurk/plexgdm/internal/ui"
)

// Discover command flags
var (
	useMDNS        bool
	receiveTimeout time.Duration
	mdnsTimeout    time.Duration
	jsonOutput     bool
)

func init() {
	discoverCmd.Flags().BoolVar(&useMDNS, "mdns", false, "Also browse DNS-SD when GDM finds nothing")
	discoverCmd.Flags().DurationVar(&receiveTimeout, "timeout", discovery.DefaultReceiveTimeout, "Wait for each further GDM reply")
	discoverCmd.Flags().DurationVar(&mdnsTimeout, "mdns-timeout", discovery.DefaultScanTimeout, "DNS-SD browse duration")
	discoverCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print servers as JSON")

	rootCmd.AddCommand(discoverCmd)
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find Plex Media Servers on the local network",
	Long: `Send one GDM probe and list every server that answers.

Collection stops once no reply has arrived within --timeout. With --mdns,
a DNS-SD browse for _plexmediasvr._tcp runs when GDM finds nothing, for
networks that filter the GDM multicast group.`,
	Example: `  # Probe once
  plexgdm discover

  # Fall back to mDNS on filtered networks
  plexgdm discover --mdns

  # JSON output for scripting
  plexgdm discover --json`,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	d := discovery.NewDiscoverer(transport.NewUDPOpener())
	d.ReceiveTimeout = receiveTimeout

	p := ui.NewPrinter(nil)
	if !jsonOutput {
		p.PrintHeader("Server discovery", "plexgdm discover",
			ui.Param{Key: "Group", Value: d.Group.String()},
			ui.Param{Key: "Timeout", Value: receiveTimeout.String()},
		)
	}

	result, err := d.Discover(ctx)
	if err != nil {
		return socketFailure(p, "open discovery socket", err)
	}
	if result.Status == transport.StatusTransportError {
		fmt.Fprintf(os.Stderr, "Warning: discovery ended early: %v\n", result.Err)
	}

	servers := result.Servers
	if len(servers) == 0 && useMDNS {
		scanner := discovery.NewMDNSScanner()
		scanner.Timeout = mdnsTimeout
		servers, err = scanner.Scan(ctx)
		if err != nil {
			return fmt.Errorf("mDNS scan failed: %w", err)
		}
	}

	if jsonOutput {
		return printServersJSON(servers)
	}

	p.PrintServers(servers)
	return nil
}

func printServersJSON(servers []protocol.ServerRecord) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(servers)
}
