package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jo-hoe/gorender/internal/core"
	"github.com/jo-hoe/gorender/internal/payload"
)

func newRunCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run [command-json]",
		Short: "Decode and execute a single command document",
		Long: "Decodes one JSON command document and executes it. The document is taken\n" +
			"from the argument, or read from stdin when the argument is absent or '-'.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			document, err := readDocument(cmd, args)
			if err != nil {
				return fmt.Errorf("failed to read command document: %w", err)
			}

			command, err := payload.ParseCLI(document)
			if err != nil {
				return err
			}

			config, err := loadConfig(*configFlag)
			if err != nil {
				return err
			}

			service, err := core.NewCoreService(config)
			if err != nil {
				return err
			}
			defer func() { _ = service.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			record, err := service.Execute(ctx, command)
			if err != nil {
				return err
			}

			encoded, err := json.Marshal(record)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return nil
		},
	}
}

func readDocument(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		return []byte(args[0]), nil
	}
	return io.ReadAll(cmd.InOrStdin())
}
