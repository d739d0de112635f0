package csemitter

import (
	"strings"

	"github.com/mark3labs/swagger2csharp/internal/naming"
	"github.com/mark3labs/swagger2csharp/internal/spec"
	"github.com/mark3labs/swagger2csharp/internal/template"
)

// Success codes checked, in order, when picking a response type.
var successCodes = []string{"200", "201", "204"}

// buildAPI emits the API class with one function per operation, building each
// operation's request class on the way.
func (g *generator) buildAPI(doc *spec.Document) error {
	var functions []string
	for _, item := range doc.Paths {
		for i := range item.Operations {
			op := &item.Operations[i]
			key := operationKey(item.Path, op.Method)
			fn, err := g.apiFunction(item.Path, op)
			if err != nil {
				g.failed[key] = true
				if err := g.fail(key, err); err != nil {
					return err
				}
				continue
			}
			functions = append(functions, fn)
		}
	}

	text := g.engine.Render(g.engine.Family().Text(template.API), template.Context{Values: template.Values{
		"apiFunctions": strings.Join(functions, g.vars.Join(template.JoinFunctions)),
	}})
	if err := g.emit(Artifact{Kind: KindAPI, Dir: g.cfg.APIPath, Name: g.cfg.APIName, Text: text}); err != nil {
		return g.fail(g.cfg.APIName, err)
	}
	return nil
}

func (g *generator) apiFunction(path string, op *spec.Operation) (string, error) {
	name, err := functionName(path, op)
	if err != nil {
		return "", err
	}
	resp, err := g.responseType(op, name)
	if err != nil {
		return "", err
	}
	req, err := g.buildRequestClass(path, op)
	if err != nil {
		return "", err
	}
	g.requests[operationKey(path, op.Method)] = req

	return g.block(template.APIFunction, template.Context{
		Operation: op,
		Values: template.Values{
			"responseType": resp,
			"functionName": name,
			"requestName":  req,
			"urlPart":      operationURL(path, op),
			"requestType":  op.Method.Token(),
		},
	}), nil
}

// functionName is the operation id when present. Otherwise it is built from
// the path segments, with "{x}" segments turned into "By_x", joined by "_",
// suffixed with the method token and normalized.
func functionName(path string, op *spec.Operation) (string, error) {
	if op.OperationID != "" {
		return op.OperationID, nil
	}
	var parts []string
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if len(seg) > 1 && strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			seg = "By_" + seg[1:len(seg)-1]
		}
		if strings.ContainsAny(seg, "{}") {
			return "", unsupported("path %q: malformed parameter segment %q", path, seg)
		}
		parts = append(parts, seg)
	}
	return naming.Normalize(strings.Join(parts, "_") + op.Method.Token()), nil
}

// operationURL rewrites each path parameter placeholder into an access on the
// request object bound to "args".
func operationURL(path string, op *spec.Operation) string {
	out := path
	for _, p := range op.Parameters {
		if p.In != spec.InPath {
			continue
		}
		out = strings.ReplaceAll(out, "{"+p.Name+"}", "{args."+naming.Normalize(p.Name)+"}")
	}
	return out
}

// responseType maps the first success response found among 200, 201 and 204.
// A success response without content, and any 204, is VoidResponse.
func (g *generator) responseType(op *spec.Operation, function string) (string, error) {
	for _, code := range successCodes {
		r, ok := op.Responses[code]
		if !ok {
			continue
		}
		if code == "204" || r == nil || len(r.Content) == 0 {
			return voidResponseType, nil
		}
		m := r.Media(spec.MimeJSON)
		if m == nil {
			return "", unsupported("response %s declares content but no %s body", code, spec.MimeJSON)
		}
		return g.mapType(m.Schema, function+"Response")
	}
	return "", unsupported("no 200, 201 or 204 response")
}
