package mcpserver

import (
	"context"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mark3labs/swagger2csharp/internal/emitter/csemitter"
	"github.com/mark3labs/swagger2csharp/internal/settings"
)

type describeInput struct {
	Document documentInput `json:"document" jsonschema:"The OpenAPI/Swagger document to describe"`
}

type operationSummary struct {
	Method       string `json:"method"`
	Path         string `json:"path"`
	OperationID  string `json:"operation_id,omitempty"`
	FunctionName string `json:"function_name,omitempty"`
	ResponseType string `json:"response_type,omitempty"`
	Deprecated   bool   `json:"deprecated,omitempty"`
	Problem      string `json:"problem,omitempty"`
}

type describeOutput struct {
	Title       string             `json:"title"`
	APIName     string             `json:"api_name"`
	Total       int                `json:"total"`
	Unsupported int                `json:"unsupported"`
	Operations  []operationSummary `json:"operations"`
}

func (t *toolset) handleDescribe(ctx context.Context, _ *mcp.CallToolRequest, input describeInput) (*mcp.CallToolResult, describeOutput, error) {
	doc, err := input.Document.resolve(ctx, t.log)
	if err != nil {
		return errResult(err), describeOutput{}, nil
	}

	cfg := settings.Defaults()
	settings.ApplyEnv(&cfg, os.LookupEnv)
	cfg.ResolveAPIName(doc.Title)

	ops, err := csemitter.Describe(ctx, doc, csemitter.Options{Settings: cfg, Logger: t.log})
	if err != nil {
		return errResult(err), describeOutput{}, nil
	}

	out := describeOutput{
		Title:      doc.Title,
		APIName:    cfg.APIName,
		Total:      len(ops),
		Operations: make([]operationSummary, 0, len(ops)),
	}
	for _, op := range ops {
		if op.Problem != "" {
			out.Unsupported++
		}
		out.Operations = append(out.Operations, operationSummary{
			Method:       op.Method,
			Path:         op.Path,
			OperationID:  op.OperationID,
			FunctionName: op.FunctionName,
			ResponseType: op.ResponseType,
			Deprecated:   op.Deprecated,
			Problem:      op.Problem,
		})
	}
	return nil, out, nil
}
