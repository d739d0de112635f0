package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// Version is reported by the MCP server and --version. Release builds set it
// with -ldflags "-X github.com/mark3labs/swagger2csharp/internal/cli.Version=...".
var Version = "dev"

// Execute runs the swagger2csharp CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "swagger2csharp",
		Short:         "Generate C# API clients from Swagger/OpenAPI documents",
		Long:          "swagger2csharp renders model, enum, request, API and test classes for a C# client from a Swagger 2 or OpenAPI 3 document using a template family.",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Convert Cobra flag errors (like unknown flags) into friendly usage errors
	// that also show the command's help text.
	cmd.SetFlagErrorFunc(flagUsageError)

	cmd.PersistentFlags().StringP("config", "c", "", "Config file path (YAML or JSON)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging output")

	for _, sub := range []*cobra.Command{newGenerateCmd(), newInitCmd(), newServeCmd()} {
		sub.SetFlagErrorFunc(flagUsageError)
		cmd.AddCommand(sub)
	}

	return cmd
}

func flagUsageError(c *cobra.Command, err error) error {
	return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
}

// newLogger logs to w, at debug level when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
