package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mark3labs/swagger2csharp/internal/mcpserver"
)

var serveRunner = runServe

func runServe(ctx context.Context, log *slog.Logger) error {
	return mcpserver.Run(ctx, Version, log)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve generate and describe_operations as MCP tools over stdio",
		Long: "Run a Model Context Protocol server on stdin/stdout. Log records go to stderr. " +
			"Defaults for generated names and paths follow the SWAGGER2CSHARP_* environment variables.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			return serveRunner(cmd.Context(), newLogger(cmd.ErrOrStderr(), verbose))
		},
	}
}
