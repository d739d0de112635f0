// Package mcpserver exposes C# client generation as MCP tools over stdio.
package mcpserver

import (
	"context"
	"io"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `swagger2csharp MCP server: generates C# API client code from OpenAPI 3 and Swagger 2 documents.

Tools:
- describe_operations: lists every operation with the C# function name and response type it would get, or the reason it cannot be generated.
- generate: writes model, enum, request, API and test classes under output_dir. Use dry_run to list the planned files first.

Documents are given as a path or http/https URL in document.source, or inline in document.content.
Defaults for names and output directories follow the SWAGGER2CSHARP_* environment variables.`

// Run serves the tools over stdio until the client disconnects or ctx is
// cancelled. Logs go to logger and never to stdout.
func Run(ctx context.Context, version string, logger *slog.Logger) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "swagger2csharp", Version: version},
		&mcp.ServerOptions{Instructions: serverInstructions},
	)
	registerTools(server, logger)
	return server.Run(ctx, &mcp.StdioTransport{})
}

type toolset struct {
	log *slog.Logger
}

func registerTools(server *mcp.Server, logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	t := &toolset{log: logger}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "describe_operations",
		Description: "List the operations of an OpenAPI/Swagger document with the C# function name and response type each one maps to. Operations that cannot be generated carry a problem message instead of a response type.",
	}, t.handleDescribe)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Generate C# model, enum, request, API client and test stub classes from an OpenAPI/Swagger document into output_dir. Use dry_run=true to preview the planned files. Use continue_on_error=true to skip unsupported operations and schemas instead of stopping at the first one.",
	}, t.handleGenerate)
}

func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
