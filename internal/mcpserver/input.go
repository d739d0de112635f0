package mcpserver

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mark3labs/swagger2csharp/internal/spec"
)

// documentInput is the two ways a document can reach a tool. Exactly one
// field must be set.
type documentInput struct {
	Source  string `json:"source,omitempty"  jsonschema:"Path or http/https URL of the OpenAPI/Swagger document"`
	Content string `json:"content,omitempty" jsonschema:"Inline OpenAPI/Swagger document (JSON or YAML)"`
}

var (
	errNoDocument   = errors.New("document: one of source or content is required")
	errTwoDocuments = errors.New("document: set only one of source or content")
)

// location names the document for Settings.URL and log records.
func (d documentInput) location() string {
	if s := strings.TrimSpace(d.Source); s != "" {
		return s
	}
	return "inline"
}

func (d documentInput) resolve(ctx context.Context, log *slog.Logger) (*spec.Document, error) {
	source := strings.TrimSpace(d.Source)
	hasContent := strings.TrimSpace(d.Content) != ""
	switch {
	case source == "" && !hasContent:
		return nil, errNoDocument
	case source != "" && hasContent:
		return nil, errTwoDocuments
	}

	var (
		raw *openapi3.T
		err error
	)
	if source != "" {
		raw, err = spec.Load(ctx, source, spec.WithLogger(log))
	} else {
		raw, err = spec.LoadData(ctx, []byte(d.Content), spec.WithLogger(log))
	}
	if err != nil {
		return nil, err
	}
	return spec.BuildDocument(ctx, raw)
}
