package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jo-hoe/gorender/internal/core"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var verboseFlag bool

	rootCmd := &cobra.Command{
		Use:           "renderer",
		Short:         "Image composition and video frame extraction backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(verboseFlag)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newRunCommand(&configFlag))
	rootCmd.AddCommand(newServeCommand(&configFlag))

	return rootCmd
}

func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig resolves the configuration from the flag, the CONFIG_PATH
// environment variable, or built-in defaults, in that order.
func loadConfig(configFlag string) (*core.ServiceConfig, error) {
	path := configFlag
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		return core.DefaultConfig(), nil
	}
	return core.LoadConfig(path)
}
