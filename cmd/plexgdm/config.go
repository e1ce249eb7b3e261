package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/muurk/plexgdm/internal/config"
	"github.com/muurk/plexgdm/internal/version"
)

// Config init flags
var (
	clientName string
	clientPort uint16
	force      bool
)

func init() {
	configInitCmd.Flags().StringVar(&clientName, "name", config.DefaultClientName, "Player name shown by servers")
	configInitCmd.Flags().Uint16Var(&clientPort, "port", config.DefaultClientPort, "Player HTTP port announced to servers")
	configInitCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the plexgdm config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file with a new client ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		path, err := resolveConfigPath()
		if err != nil {
			return err
		}

		if !force {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}
		}

		cfg := config.NewConfig(version.Version)
		cfg.Client.Name = clientName
		cfg.Client.Port = clientPort

		if err := cfg.Save(path); err != nil {
			return err
		}

		fmt.Printf("Wrote %s\n", path)
		fmt.Printf("Client ID: %s\n", cfg.Client.ID)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active config",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		path, err := resolveConfigPath()
		if err != nil {
			return err
		}

		cfg, err := config.Load(path)
		if errors.Is(err, config.ErrNotFound) {
			return fmt.Errorf("no config at %s (run 'plexgdm config init')", path)
		}
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Printf("# %s\n%s", path, data)
		return nil
	},
}
