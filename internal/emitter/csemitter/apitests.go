package csemitter

import (
	"strings"

	"github.com/mark3labs/swagger2csharp/internal/spec"
	"github.com/mark3labs/swagger2csharp/internal/template"
)

// buildAPITests emits the test class mirroring the API class: one request
// field per distinct request class and one empty test per operation.
// Operations whose API function failed are left out.
func (g *generator) buildAPITests(doc *spec.Document) error {
	var (
		requests  []string
		functions []string
		seen      = make(map[string]bool)
	)
	for _, item := range doc.Paths {
		for i := range item.Operations {
			op := &item.Operations[i]
			key := operationKey(item.Path, op.Method)
			if g.failed[key] {
				continue
			}
			req, ok := g.requests[key]
			if !ok {
				continue
			}
			if !seen[req] {
				seen[req] = true
				requests = append(requests, g.engine.Render(g.vars.TestRequestField, template.Context{
					Values: template.Values{"requestName": req},
				}))
			}
			functions = append(functions, g.block(template.APITestFunction, template.Context{
				Operation: op,
				Values: template.Values{
					"functionName": req,
					"requestName":  req,
				},
			}))
		}
	}

	text := g.engine.Render(g.engine.Family().Text(template.APITest), template.Context{Values: template.Values{
		"apiTestRequests":  strings.Join(requests, g.vars.Join(template.JoinTestRequests)),
		"apiTestFunctions": strings.Join(functions, g.vars.Join(template.JoinTestFunctions)),
	}})
	name := g.cfg.APIName + "Test"
	if err := g.emit(Artifact{Kind: KindTest, Dir: g.cfg.TestsPath, Name: name, Text: text}); err != nil {
		return g.fail(name, err)
	}
	return nil
}
