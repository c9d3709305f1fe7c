// Package cmd holds the command line entry points of the address mapper.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/camden-git/congoaddressmapper/config"
	"github.com/camden-git/congoaddressmapper/logging"
)

// RootCommand creates and returns the root command
func RootCommand() *cobra.Command {
	var configFile string
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:           "congoaddressmapper",
		Short:         "Address registry and field survey API for the DR Congo",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		loaded, err := config.LoadConfig(configFile)
		if err != nil {
			return err
		}
		*cfg = loaded
		slog.SetDefault(logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format))
		return nil
	}

	rootCmd.AddCommand(
		serveCommand(cfg),
		seedCommand(cfg),
		migrateCheckCommand(cfg),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
