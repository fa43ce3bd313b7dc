package main

import (
	"github.com/spf13/cobra"

	"github.com/jo-hoe/gorender/internal/core"
	"github.com/jo-hoe/gorender/internal/server"
)

func newServeCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP render service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(*configFlag)
			if err != nil {
				return err
			}

			service, err := core.NewCoreService(config)
			if err != nil {
				return err
			}
			defer func() { _ = service.Close() }()

			return server.NewAPIService(config.Port, service).Start()
		},
	}
}
