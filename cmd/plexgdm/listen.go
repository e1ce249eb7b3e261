package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/plexgdm/internal/protocol"
	"github.com/muurk/plexgdm/internal/registration"
	"github.com/muurk/plexgdm/internal/ui"
)

func init() {
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Print HELLO and BYE announcements from other players",
	Long: `Join the GDM registration group and print every player announcement
seen on the network until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		l := registration.NewListener()
		fmt.Printf("Listening on %s (Ctrl+C to stop)\n\n", l.Group)

		err := l.Listen(ctx, func(from string, a protocol.Announcement) {
			fmt.Printf("%s  %-5s %-15s %s\n", time.Now().Format("15:04:05"), a.Kind, from, a.Identity)
		})
		if err != nil && ctx.Err() == nil {
			return socketFailure(ui.NewPrinter(nil), "join registration group", err)
		}
		return nil
	},
}
