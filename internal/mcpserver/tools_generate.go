package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mark3labs/swagger2csharp/internal/emitter/csemitter"
	"github.com/mark3labs/swagger2csharp/internal/settings"
)

type generateInput struct {
	Document        documentInput `json:"document"                    jsonschema:"The OpenAPI/Swagger document to generate from"`
	OutputDir       string        `json:"output_dir"                  jsonschema:"Directory the generated paths are relative to"`
	ProjectName     string        `json:"project_name,omitempty"      jsonschema:"Root namespace (default: Generated)"`
	SubProjectName  string        `json:"sub_project_name,omitempty"  jsonschema:"Second namespace segment (default: Client)"`
	APIName         string        `json:"api_name,omitempty"          jsonschema:"API class name (default: derived from the document title)"`
	DryRun          bool          `json:"dry_run,omitempty"           jsonschema:"List planned files without writing them"`
	ContinueOnError bool          `json:"continue_on_error,omitempty" jsonschema:"Record unsupported operations and schemas and keep going"`
}

type generatedFile struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
	Size int    `json:"size"`
}

type generateFailure struct {
	Artifact string `json:"artifact"`
	Error    string `json:"error"`
}

type generateOutput struct {
	APIName   string            `json:"api_name"`
	OutputDir string            `json:"output_dir"`
	DryRun    bool              `json:"dry_run,omitempty"`
	FileCount int               `json:"file_count"`
	Files     []generatedFile   `json:"files"`
	Failures  []generateFailure `json:"failures,omitempty"`
}

func (t *toolset) handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	outDir := strings.TrimSpace(input.OutputDir)
	if outDir == "" {
		return errResult(fmt.Errorf("output_dir is required")), generateOutput{}, nil
	}
	if abs, err := filepath.Abs(outDir); err == nil {
		outDir = abs
	}

	doc, err := input.Document.resolve(ctx, t.log)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	cfg := settings.Defaults()
	settings.ApplyEnv(&cfg, os.LookupEnv)
	cfg.URL = input.Document.location()
	for key, v := range map[string]string{
		"projectName":    input.ProjectName,
		"subProjectName": input.SubProjectName,
		"apiName":        input.APIName,
	} {
		if f, ok := settings.Lookup(key); ok && strings.TrimSpace(v) != "" {
			f.Set(&cfg, v)
		}
	}
	if err := cfg.Validate(); err != nil {
		return errResult(err), generateOutput{}, nil
	}

	res, err := csemitter.Emit(ctx, doc, csemitter.Options{
		Settings:        cfg,
		OutDir:          outDir,
		DryRun:          input.DryRun,
		ContinueOnError: input.ContinueOnError,
		Logger:          t.log,
	})
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	out := generateOutput{
		APIName:   res.APIName,
		OutputDir: outDir,
		DryRun:    input.DryRun,
		FileCount: len(res.Planned),
		Files:     make([]generatedFile, 0, len(res.Planned)),
	}
	for _, p := range res.Planned {
		out.Files = append(out.Files, generatedFile{Path: filepath.ToSlash(p.RelPath), Kind: string(p.Kind), Size: p.Size})
	}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, generateFailure{Artifact: f.Artifact, Error: f.Err.Error()})
	}
	return nil, out, nil
}
