package csemitter

import (
	"context"
	"fmt"

	"github.com/mark3labs/swagger2csharp/internal/spec"
)

// OperationInfo is what the API builder would produce for one operation.
// Problem is set instead of the names when the operation is unsupported.
type OperationInfo struct {
	Method       string
	Path         string
	OperationID  string
	FunctionName string
	ResponseType string
	Deprecated   bool
	Problem      string
}

// Describe resolves function names and response types for every operation
// without writing anything.
func Describe(ctx context.Context, doc *spec.Document, opts Options) ([]OperationInfo, error) {
	if doc == nil {
		return nil, fmt.Errorf("csemitter: nil Document")
	}
	opts.DryRun = true
	g, err := newGenerator(ctx, doc.Title, opts)
	if err != nil {
		return nil, err
	}

	var out []OperationInfo
	for _, item := range doc.Paths {
		for i := range item.Operations {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			op := &item.Operations[i]
			info := OperationInfo{
				Method:      op.Method.Token(),
				Path:        item.Path,
				OperationID: op.OperationID,
				Deprecated:  op.Deprecated,
			}
			if name, err := functionName(item.Path, op); err != nil {
				info.Problem = err.Error()
			} else if resp, err := g.responseType(op, name); err != nil {
				info.FunctionName, info.Problem = name, err.Error()
			} else {
				info.FunctionName, info.ResponseType = name, resp
			}
			out = append(out, info)
		}
	}
	return out, nil
}
