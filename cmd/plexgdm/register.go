package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/plexgdm/internal/engine"
	"github.com/muurk/plexgdm/internal/logging"
	"github.com/muurk/plexgdm/internal/protocol"
	"github.com/muurk/plexgdm/internal/registration"
	"github.com/muurk/plexgdm/internal/transport"
	"github.com/muurk/plexgdm/internal/ui"
	"go.uber.org/zap"
)

// Check command flags
var checkWait time.Duration

func init() {
	checkCmd.Flags().DurationVar(&checkWait, "wait", 2*time.Second, "Time for servers to process the HELLO before checking")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(checkCmd)
}

// newEngine builds an engine with the configured identity and intervals
func newEngine() (*engine.Engine, error) {
	cfg, persisted, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if !persisted {
		fmt.Fprintln(os.Stderr, "Note: no config file; announcing with a temporary client ID. Run 'plexgdm config init' to keep one.")
	}

	e := engine.New(engine.Config{
		DiscoveryInterval:    cfg.DiscoveryInterval,
		RegistrationInterval: cfg.RegistrationInterval,
	})
	if err := e.SetClientDetails(cfg.Client); err != nil {
		return nil, err
	}
	return e, nil
}

// waitForSignal blocks until SIGINT or SIGTERM
func waitForSignal() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	sig := <-sigChan
	logging.Info("Received signal, shutting down", zap.String("signal", sig.String()))
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Announce this player to servers until interrupted",
	Long: `Run the discovery and registration loops until SIGINT or SIGTERM.

The player identity comes from the config file. A HELLO is multicast every
registration_interval seconds and the server list refreshes every
discovery_interval seconds. On shutdown a single BYE is sent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		e, err := newEngine()
		if err != nil {
			return err
		}
		identity, _ := e.ClientDetails()

		p := ui.NewPrinter(nil)
		p.PrintHeader("Registration", "plexgdm register",
			ui.Param{Key: "Client", Value: identity.String()},
			ui.Param{Key: "Group", Value: transport.GroupAddr(protocol.MulticastAddress, protocol.RegistrationPort).String()},
		)
		p.Println(ui.MutedStyle.Render("Press Ctrl+C to stop"))

		e.StartAll()
		waitForSignal()
		e.StopAll()

		p.PrintSuccess("Deregistered", ui.Param{Key: "Client", Value: identity.ID})
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show a live view of servers while registered",
	Long: `Run both loops and redraw the discovered server list as it changes.

Falls back to periodic plain output when stdout is not a terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		e, err := newEngine()
		if err != nil {
			return err
		}

		e.StartAll()
		defer e.StopAll()

		if ui.IsTerminal() {
			return ui.RunWatch(e)
		}

		waitForSignal()
		ui.NewPrinter(nil).PrintServers(e.Servers())
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify a server lists this player",
	Long: `Discover servers, send one HELLO, then ask the first server's /clients
endpoint whether it lists this player's client ID.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		e, err := newEngine()
		if err != nil {
			return err
		}
		identity, _ := e.ClientDetails()

		p := ui.NewPrinter(nil)
		p.PrintHeader("Registration check", "plexgdm check",
			ui.Param{Key: "Client", Value: identity.ID},
		)

		if err := e.Discover(ctx); err != nil {
			return socketFailure(p, "open discovery socket", err)
		}
		servers := e.Servers()
		if len(servers) == 0 {
			p.PrintFailure("No servers found")
			return fmt.Errorf("no servers answered")
		}

		if !e.Register(ctx) {
			p.PrintFailure("HELLO not sent")
			return fmt.Errorf("registration failed")
		}
		defer e.Deregister(context.Background())

		select {
		case <-time.After(checkWait):
		case <-ctx.Done():
			return ctx.Err()
		}

		server := servers[0]
		if !e.CheckRegistration(ctx) {
			p.PrintFailure("Registration not confirmed",
				ui.Param{Key: "Server", Value: server.String()},
				ui.Param{Key: "URL", Value: registration.ClientsURL(server)},
			)
			return fmt.Errorf("client %s not listed by %s", identity.ID, server.Address)
		}

		p.PrintSuccess("Registration confirmed",
			ui.Param{Key: "Server", Value: server.String()},
			ui.Param{Key: "URL", Value: registration.ClientsURL(server)},
		)
		return nil
	},
}
